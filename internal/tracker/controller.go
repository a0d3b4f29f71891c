// ABOUTME: Interaction controller: one method per user action plus an explicit render step
// ABOUTME: Each action runs in a single store session and reports outcomes as notices

package tracker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"github.com/yuin/goldmark"

	"github.com/2389/taskboard/internal/codec"
	"github.com/2389/taskboard/internal/store"
)

// Controller turns user actions into store operations and view-models.
type Controller struct {
	store  store.Store
	md     goldmark.Markdown
	logger *slog.Logger
}

// New creates a Controller over s.
func New(s store.Store, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:  s,
		md:     goldmark.New(),
		logger: logger.With("component", "tracker"),
	}
}

// interact acquires a session, runs action (if any) and then the render
// step on the same session. Failures become error notices.
func (c *Controller) interact(ctx context.Context, vm *ViewModel, action func(store.Session) error) {
	sess, err := c.store.Acquire(ctx)
	if err != nil {
		c.storeFailure(vm, "acquire session", err)
		vm.ActionFailed = action != nil
		return
	}
	defer func() {
		if err := sess.Close(); err != nil {
			c.logger.Warn("failed to release session", "error", err)
		}
	}()

	if action != nil {
		if err := action(sess); err != nil {
			c.storeFailure(vm, "run action", err)
			vm.ActionFailed = true
		}
	}

	c.render(ctx, sess, vm)
}

func (c *Controller) storeFailure(vm *ViewModel, op string, err error) {
	c.logger.Error("store operation failed", "op", op, "error", err)
	vm.Notify(LevelError, MsgStoreFailure, err.Error())
}

// Render fills vm.Tasks from the store.
func (c *Controller) Render(ctx context.Context, vm *ViewModel) {
	c.interact(ctx, vm, nil)
}

func (c *Controller) render(ctx context.Context, sess store.Session, vm *ViewModel) {
	tasks, err := sess.ListTasks(ctx)
	if err != nil {
		c.storeFailure(vm, "list tasks", err)
		vm.Tasks = nil
		return
	}

	vm.Tasks = make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		vm.Tasks = append(vm.Tasks, newTaskView(t, c.markdown(t.Description)))
	}
	if len(vm.Tasks) == 0 {
		vm.Notify(LevelInfo, MsgNoTasks, "")
	}
}

// markdown renders a description. Raw HTML in the source is omitted by
// goldmark's default renderer.
func (c *Controller) markdown(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		c.logger.Error("failed to convert markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// AddTask creates a task from vm.Form. A blank title leaves the form as
// entered and adds a warning.
func (c *Controller) AddTask(ctx context.Context, vm *ViewModel) {
	c.interact(ctx, vm, func(sess store.Session) error {
		task, err := sess.CreateTask(ctx, vm.Form.Title, vm.Form.Description)
		if errors.Is(err, store.ErrEmptyTitle) {
			vm.Notify(LevelWarning, MsgTitleRequired, "")
			return nil
		}
		if err != nil {
			return err
		}

		c.logger.Info("task added", "id", task.ID)
		vm.Form = FormState{}
		vm.Notify(LevelSuccess, MsgTaskAdded, "")
		return nil
	})
}

// CompleteTask marks id completed. An unknown id changes nothing.
func (c *Controller) CompleteTask(ctx context.Context, vm *ViewModel, id int64) {
	c.interact(ctx, vm, func(sess store.Session) error {
		_, err := sess.CompleteTask(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			c.logger.Debug("complete ignored, no such task", "id", id)
			return nil
		}
		if err == nil {
			c.logger.Info("task completed", "id", id)
		}
		return err
	})
}

// DeleteTask removes id. An unknown id changes nothing.
func (c *Controller) DeleteTask(ctx context.Context, vm *ViewModel, id int64) {
	c.interact(ctx, vm, func(sess store.Session) error {
		_, err := sess.DeleteTask(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			c.logger.Debug("delete ignored, no such task", "id", id)
			return nil
		}
		if err == nil {
			c.logger.Info("task deleted", "id", id)
		}
		return err
	})
}

// Import reads a tasks document from r. A document that fails to parse
// adds nothing and is reported as an error notice with the parse detail.
func (c *Controller) Import(ctx context.Context, vm *ViewModel, r io.Reader) {
	c.interact(ctx, vm, func(sess store.Session) error {
		tasks, err := codec.Import(ctx, sess, r)
		var perr *codec.ParseError
		if errors.As(err, &perr) {
			c.logger.Info("import rejected", "error", err)
			vm.Notify(LevelError, MsgInvalidImport, perr.Error())
			return nil
		}
		if err != nil {
			return err
		}

		c.logger.Info("tasks imported", "count", len(tasks))
		vm.Notify(LevelSuccess, MsgImported, importDetail(len(tasks)))
		return nil
	})
}

func importDetail(n int) string {
	if n == 1 {
		return "1 task added."
	}
	return fmt.Sprintf("%d tasks added.", n)
}

// Export returns the full task list as a JSON document.
func (c *Controller) Export(ctx context.Context) ([]byte, error) {
	sess, err := c.store.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring session: %w", err)
	}
	defer sess.Close()

	data, err := codec.Export(ctx, sess)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("tasks exported", "bytes", len(data))
	return data, nil
}

// Tasks returns the raw task list.
func (c *Controller) Tasks(ctx context.Context) ([]*store.Task, error) {
	sess, err := c.store.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring session: %w", err)
	}
	defer sess.Close()

	return sess.ListTasks(ctx)
}
