// ABOUTME: SQLite implementation of the Store interface
// ABOUTME: Opens the database, creates the tasks table and hands out pinned-connection sessions

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	// DriverSQLite is the pure Go driver from modernc.org/sqlite.
	DriverSQLite = "sqlite"
	// DriverSQLite3 is the cgo driver from github.com/mattn/go-sqlite3.
	DriverSQLite3 = "sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// executor is satisfied by *sql.Conn and *sql.Tx so queries can run
// inside or outside a transaction.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens the database at path with the given driver.
// An empty driver selects DriverSQLite. The schema is created if it
// doesn't exist and parent directories are created if needed.
func NewSQLiteStore(driver, path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	switch driver {
	case "":
		driver = DriverSQLite
	case DriverSQLite, DriverSQLite3:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection serializes writers. For :memory: it also keeps the
	// database alive, since every new connection would start empty.
	db.SetMaxOpenConns(1)

	if path != MemoryPath {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL mode: %w", err)
		}
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("SQLite store initialized", "path", path, "driver", driver)
	return s, nil
}

// createSchema creates the tasks table if it doesn't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			completed   BOOLEAN NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_title ON tasks(title);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Acquire pins a connection for the duration of one interaction.
func (s *SQLiteStore) Acquire(ctx context.Context) (Session, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	return &sqliteSession{conn: conn, logger: s.logger}, nil
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Debug("closing SQLite store")
	return s.db.Close()
}

// sqliteSession runs task queries on one pinned connection.
type sqliteSession struct {
	conn   *sql.Conn
	logger *slog.Logger
}

func (ss *sqliteSession) Close() error {
	return ss.conn.Close()
}

// ListTasks returns every task in insertion order.
func (ss *sqliteSession) ListTasks(ctx context.Context) ([]*Task, error) {
	rows, err := ss.conn.QueryContext(ctx, `
		SELECT id, title, description, completed
		FROM tasks
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Completed); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}

// CreateTask validates and inserts a single pending task.
func (ss *sqliteSession) CreateTask(ctx context.Context, title, description string) (*Task, error) {
	d := Draft{Title: title, Description: description}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	t, err := insertTask(ctx, ss.conn, d)
	if err != nil {
		return nil, err
	}

	ss.logger.Debug("created task", "id", t.ID)
	return t, nil
}

// CreateTasks inserts every draft inside one transaction.
func (ss *sqliteSession) CreateTasks(ctx context.Context, drafts []Draft) ([]*Task, error) {
	if err := validateDrafts(drafts); err != nil {
		return nil, err
	}

	tx, err := ss.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	tasks := make([]*Task, 0, len(drafts))
	for _, d := range drafts {
		t, err := insertTask(ctx, tx, d)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing tasks: %w", err)
	}

	ss.logger.Debug("created tasks", "count", len(tasks))
	return tasks, nil
}

// CompleteTask sets completed on an existing task.
func (ss *sqliteSession) CompleteTask(ctx context.Context, id int64) (*Task, error) {
	t, err := getTask(ctx, ss.conn, id)
	if err != nil {
		return nil, err
	}

	if _, err := ss.conn.ExecContext(ctx, `UPDATE tasks SET completed = 1 WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("completing task: %w", err)
	}
	t.Completed = true

	ss.logger.Debug("completed task", "id", id)
	return t, nil
}

// DeleteTask removes a task and returns its last state.
func (ss *sqliteSession) DeleteTask(ctx context.Context, id int64) (*Task, error) {
	t, err := getTask(ctx, ss.conn, id)
	if err != nil {
		return nil, err
	}

	if _, err := ss.conn.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting task: %w", err)
	}

	ss.logger.Debug("deleted task", "id", id)
	return t, nil
}

func insertTask(ctx context.Context, exec executor, d Draft) (*Task, error) {
	result, err := exec.ExecContext(ctx, `
		INSERT INTO tasks (title, description, completed)
		VALUES (?, ?, 0)
	`, d.Title, d.Description)
	if err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting task id: %w", err)
	}

	return &Task{ID: id, Title: d.Title, Description: d.Description}, nil
}

func getTask(ctx context.Context, exec executor, id int64) (*Task, error) {
	var t Task

	// modernc reports BOOLEAN columns as int64 and mattn as bool; scanning
	// into a bool accepts both.
	err := exec.QueryRowContext(ctx, `
		SELECT id, title, description, completed
		FROM tasks WHERE id = ?
	`, id).Scan(&t.ID, &t.Title, &t.Description, &t.Completed)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}

	return &t, nil
}
