// Package webui serves the task board page.
//
// # Routes
//
//	GET  /                        page with form, export, import and task list
//	POST /tasks                   add a task
//	POST /tasks/{id}/complete     mark a task completed
//	POST /tasks/{id}/delete       delete a task
//	GET  /export, POST /export    download the tasks document
//	POST /import                  upload a tasks document (field "file")
//	GET  /api/tasks               task list as JSON, ids included
//	GET  /static/                 stylesheet
//
// Every POST is answered with the freshly rendered page, so notices need no
// session storage.
//
// # Security
//
// POSTs carry a double-submit CSRF token: an HS256-signed, expiring JWT set
// as a SameSite=Strict cookie and echoed in the csrf_token form field or the
// X-CSRF-Token header. Missing or mismatched tokens get 403.
//
// State-changing forms also carry a nonce. A nonce already claimed in the
// dedupe.Guard is treated as a replay: the action is skipped and the page is
// shown with an "Already applied." notice.
//
// Task descriptions are Markdown rendered by goldmark with raw HTML omitted.
package webui
