// ABOUTME: Web UI for the task board: routes, form handling and downloads
// ABOUTME: Decodes each request into one controller action and renders the result

package webui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/2389/taskboard/internal/dedupe"
	"github.com/2389/taskboard/internal/tracker"
)

const (
	// DefaultTitle is the page heading when none is configured.
	DefaultTitle = "TASK MANAGER"

	// DefaultExportFilename is the download name of exported documents.
	DefaultExportFilename = "exported_tasks.json"

	// DefaultCSRFTTL is how long a CSRF token stays valid.
	DefaultCSRFTTL = 12 * time.Hour

	// MaxUploadSize bounds the imported file.
	MaxUploadSize = 10 << 20

	// NonceField is the form field carrying the replay-guard nonce.
	NonceField = "nonce"

	// UploadField is the multipart field holding the imported file.
	UploadField = "file"

	msgNoFile = "Choose a JSON file to import."
)

// Config holds web UI configuration.
type Config struct {
	Title          string
	CSRFSecret     string
	CSRFTTL        time.Duration
	ExportFilename string
}

// UI serves the task page and its form endpoints.
type UI struct {
	ctrl      *tracker.Controller
	guard     *dedupe.Guard
	csrf      *tokenSigner
	templates *template.Template
	config    Config
	logger    *slog.Logger
}

// New creates the UI. The guard is owned by the caller.
func New(ctrl *tracker.Controller, guard *dedupe.Guard, cfg Config, logger *slog.Logger) (*UI, error) {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.ExportFilename == "" {
		cfg.ExportFilename = DefaultExportFilename
	}
	if cfg.CSRFTTL <= 0 {
		cfg.CSRFTTL = DefaultCSRFTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	signer, err := newTokenSigner(cfg.CSRFSecret, cfg.CSRFTTL)
	if err != nil {
		return nil, err
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &UI{
		ctrl:      ctrl,
		guard:     guard,
		csrf:      signer,
		templates: tmpl,
		config:    cfg,
		logger:    logger.With("component", "webui"),
	}, nil
}

// RegisterRoutes mounts the UI on mux.
func (u *UI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", u.handleIndex)
	mux.HandleFunc("POST /tasks", u.handleAddTask)
	mux.HandleFunc("POST /tasks/{id}/complete", u.handleCompleteTask)
	mux.HandleFunc("POST /tasks/{id}/delete", u.handleDeleteTask)
	mux.HandleFunc("GET /export", u.handleExport)
	mux.HandleFunc("POST /export", u.handleExport)
	mux.HandleFunc("POST /import", u.handleImport)
	mux.HandleFunc("GET /api/tasks", u.handleAPITasks)
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticHandler()))
}

// page renders vm with a fresh nonce.
func (u *UI) page(w http.ResponseWriter, r *http.Request, vm *tracker.ViewModel) {
	token := u.ensureCSRFToken(w, r)
	u.renderPage(w, pageData{
		Title:          u.config.Title,
		CSRFToken:      token,
		Nonce:          uuid.NewString(),
		ExportFilename: u.config.ExportFilename,
		VM:             vm,
	})
}

func (u *UI) handleIndex(w http.ResponseWriter, r *http.Request) {
	vm := &tracker.ViewModel{}
	u.ctrl.Render(r.Context(), vm)
	u.page(w, r, vm)
}

// requireCSRF answers 403 when the request carries no valid token.
func (u *UI) requireCSRF(w http.ResponseWriter, r *http.Request) bool {
	if u.validateCSRF(r) {
		return true
	}
	u.logger.Warn("csrf validation failed", "path", r.URL.Path)
	http.Error(w, "Forbidden", http.StatusForbidden)
	return false
}

// begin runs the checks shared by every state-changing form post. It
// returns false when the request has already been answered.
func (u *UI) begin(w http.ResponseWriter, r *http.Request) bool {
	if !u.requireCSRF(w, r) {
		return false
	}

	if !u.guard.Claim(r.FormValue(NonceField)) {
		u.logger.Debug("form replay ignored", "path", r.URL.Path)
		vm := &tracker.ViewModel{}
		vm.Notify(tracker.LevelInfo, tracker.MsgAlreadyApplied, "")
		u.ctrl.Render(r.Context(), vm)
		u.page(w, r, vm)
		return false
	}
	return true
}

// finish releases the request's nonce when the store could not apply the
// action, so resubmitting the same form retries it.
func (u *UI) finish(r *http.Request, vm *tracker.ViewModel) {
	if vm.ActionFailed {
		u.guard.Release(r.FormValue(NonceField))
	}
}

func (u *UI) handleAddTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if !u.begin(w, r) {
		return
	}

	vm := &tracker.ViewModel{Form: tracker.FormState{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}}
	u.ctrl.AddTask(r.Context(), vm)
	u.finish(r, vm)
	u.page(w, r, vm)
}

func (u *UI) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	u.handleTaskAction(w, r, u.ctrl.CompleteTask)
}

func (u *UI) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	u.handleTaskAction(w, r, u.ctrl.DeleteTask)
}

func (u *UI) handleTaskAction(w http.ResponseWriter, r *http.Request, action func(context.Context, *tracker.ViewModel, int64)) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid task id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	if !u.begin(w, r) {
		return
	}

	vm := &tracker.ViewModel{}
	action(r.Context(), vm, id)
	u.finish(r, vm)
	u.page(w, r, vm)
}

func (u *UI) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		if !u.requireCSRF(w, r) {
			return
		}
	}

	data, err := u.ctrl.Export(r.Context())
	if err != nil {
		u.logger.Error("export failed", "error", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", u.config.ExportFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		u.logger.Debug("failed to write export", "error", err)
	}
}

func (u *UI) handleImport(w http.ResponseWriter, r *http.Request) {
	// Leave room for the other multipart fields around the file.
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	if !u.begin(w, r) {
		return
	}

	vm := &tracker.ViewModel{}
	file, header, err := r.FormFile(UploadField)
	if err != nil {
		vm.Notify(tracker.LevelWarning, msgNoFile, "")
		u.guard.Release(r.FormValue(NonceField))
		u.ctrl.Render(r.Context(), vm)
		u.page(w, r, vm)
		return
	}
	defer file.Close()

	u.logger.Debug("import uploaded", "filename", header.Filename, "size", header.Size)
	u.ctrl.Import(r.Context(), vm, file)
	u.finish(r, vm)
	u.page(w, r, vm)
}

func (u *UI) handleAPITasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := u.ctrl.Tasks(r.Context())
	if err != nil {
		u.logger.Error("failed to list tasks", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(tasks); err != nil {
		u.logger.Debug("failed to write tasks", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
