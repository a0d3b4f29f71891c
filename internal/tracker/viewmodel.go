// ABOUTME: View-model types produced by the controller and consumed by the web UI
// ABOUTME: Holds form state, notices and the per-task display rows

package tracker

import (
	"html/template"

	"github.com/2389/taskboard/internal/store"
)

// Level classifies a Notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice texts shown to the user.
const (
	MsgTitleRequired   = "Title is required to add a task."
	MsgTaskAdded       = "Task added successfully!"
	MsgImported        = "Tasks imported successfully from JSON."
	MsgInvalidImport   = "Invalid JSON file. Please upload a valid tasks file."
	MsgNoTasks         = "No tasks available."
	MsgStoreFailure    = "The task store could not complete the request."
	MsgAlreadyApplied  = "Already applied."
	StatusCompleted    = "Completed"
	StatusPending      = "Pending"
	StatusColorDone    = "green"
	StatusColorPending = "red"
)

// Notice is a transient message shown above the task list.
type Notice struct {
	Level  Level
	Text   string
	Detail string
}

// FormState holds the add-task form fields between renders.
type FormState struct {
	Title       string
	Description string
}

// TaskView is one row of the task list.
type TaskView struct {
	ID              int64
	Title           string
	Description     string
	DescriptionHTML template.HTML
	Completed       bool
	StatusLabel     string
	StatusColor     string
	CanComplete     bool
	CanDelete       bool
}

// ViewModel is everything the page needs. Actions fill Notices and Form;
// the render step fills Tasks. ActionFailed is set when the store could not
// run the action, so nothing was applied.
type ViewModel struct {
	Form         FormState
	Notices      []Notice
	Tasks        []TaskView
	ActionFailed bool
}

// Notify appends a notice.
func (vm *ViewModel) Notify(level Level, text, detail string) {
	vm.Notices = append(vm.Notices, Notice{Level: level, Text: text, Detail: detail})
}

func newTaskView(t *store.Task, html template.HTML) TaskView {
	v := TaskView{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		DescriptionHTML: html,
		Completed:       t.Completed,
		CanComplete:     !t.Completed,
		CanDelete:       t.Completed,
	}
	if t.Completed {
		v.StatusLabel, v.StatusColor = StatusCompleted, StatusColorDone
	} else {
		v.StatusLabel, v.StatusColor = StatusPending, StatusColorPending
	}
	return v
}
