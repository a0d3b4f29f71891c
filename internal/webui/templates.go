// ABOUTME: Template loading and page rendering for the task UI
// ABOUTME: Parses embedded templates once and renders the single task page

package webui

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/2389/taskboard/internal/tracker"
)

// pageData is the root value of page.html.
type pageData struct {
	Title          string
	CSRFToken      string
	Nonce          string
	ExportFilename string
	VM             *tracker.ViewModel
}

// rowData is the value passed to the task_row template.
type rowData struct {
	Task      tracker.TaskView
	CSRFToken string
	Nonce     string
}

var templateFuncs = template.FuncMap{
	"row": func(t tracker.TaskView, csrfToken, nonce string) rowData {
		return rowData{Task: t, CSRFToken: csrfToken, Nonce: nonce}
	},
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("page.html").Funcs(templateFuncs).ParseFS(templateFS,
		"templates/page.html",
		"templates/notices.html",
		"templates/task_row.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}

// renderPage executes page.html into a buffer first so a template failure
// never produces a half-written page.
func (u *UI) renderPage(w http.ResponseWriter, data pageData) {
	var buf bytes.Buffer
	if err := u.templates.ExecuteTemplate(&buf, "page.html", data); err != nil {
		u.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		u.logger.Debug("failed to write page", "error", err)
	}
}
