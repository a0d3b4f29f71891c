// Package store provides persistent storage for tasks using SQLite.
//
// # Architecture
//
// The package separates the long-lived database handle from the work done
// against it:
//
//   - Store: opened once per process; hands out sessions, pings, closes
//   - Session: one pinned connection for the length of a single user
//     interaction; carries every task operation
//
// SQLiteStore implements Store. MockStore is an in-memory implementation for
// tests of the layers above.
//
// # Data Model
//
// Task is the only entity:
//
//   - ID: assigned on insert, never changes
//   - Title: required, non-empty after trimming
//   - Description: optional
//   - Completed: false on insert, only ever set to true
//
// # SQLite Configuration
//
// Two drivers are supported, selected by name:
//
//   - "sqlite": modernc.org/sqlite, pure Go (default)
//   - "sqlite3": github.com/mattn/go-sqlite3, requires cgo
//
// File databases run with:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// The pool is limited to one connection, so sessions are handed out one at a
// time and writes never overlap. Use ":memory:" for tests.
//
// # Error Handling
//
//   - ErrNotFound: complete or delete referenced a missing id
//   - ErrEmptyTitle (*ValidationError): blank title on create
//
// # Usage
//
//	s, err := store.NewSQLiteStore(store.DriverSQLite, "tasks.db")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	sess, err := s.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//
//	task, err := sess.CreateTask(ctx, "Write report", "")
package store
