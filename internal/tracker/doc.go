// Package tracker is the interaction controller between the web UI and the
// task store.
//
// Every user action is a Controller method that takes a *ViewModel, acquires
// one store session, performs the action, re-reads the task list into the
// view-model and releases the session. Outcomes are reported as Notices
// rather than errors, so no action can take the page down.
//
// Missing ids on complete or delete are treated as no-ops. Imports are
// all-or-nothing.
package tracker
