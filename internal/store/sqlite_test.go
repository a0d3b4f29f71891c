// ABOUTME: Tests for SQLite store implementation
// ABOUTME: Covers task create/list/complete/delete, batch inserts and session scoping

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := NewSQLiteStore(DriverSQLite, dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// setupTestSession acquires a session that is released at test cleanup.
func setupTestSession(t *testing.T, s Store) Session {
	t.Helper()
	sess, err := s.Acquire(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() {
		sess.Close()
	})
	return sess
}

// drivers lists every driver the store supports, skipping sqlite3 when the
// build has no cgo.
var drivers = []struct {
	name     string
	needsCgo bool
}{
	{name: DriverSQLite},
	{name: DriverSQLite3, needsCgo: true},
}

func TestStore_LifecyclePerDriver(t *testing.T) {
	for _, d := range drivers {
		t.Run(d.name, func(t *testing.T) {
			if d.needsCgo && !cgoEnabled {
				t.Skip("sqlite3 driver requires CGO_ENABLED=1")
			}

			s, err := NewSQLiteStore(d.name, filepath.Join(t.TempDir(), "tasks.db"))
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })

			sess := setupTestSession(t, s)
			ctx := context.Background()
			var id int64

			t.Run("create", func(t *testing.T) {
				task, err := sess.CreateTask(ctx, "A", "d")
				require.NoError(t, err)
				assert.False(t, task.Completed)
				id = task.ID

				_, err = sess.CreateTasks(ctx, []Draft{{Title: "B", Description: "e"}})
				require.NoError(t, err)
			})

			t.Run("list", func(t *testing.T) {
				tasks, err := sess.ListTasks(ctx)
				require.NoError(t, err)
				require.Len(t, tasks, 2)
				assert.Equal(t, "A", tasks[0].Title)
				assert.False(t, tasks[0].Completed)
				assert.Equal(t, "B", tasks[1].Title)
			})

			t.Run("complete", func(t *testing.T) {
				done, err := sess.CompleteTask(ctx, id)
				require.NoError(t, err)
				assert.True(t, done.Completed)

				tasks, err := sess.ListTasks(ctx)
				require.NoError(t, err)
				require.Len(t, tasks, 2)
				assert.True(t, tasks[0].Completed)
				assert.False(t, tasks[1].Completed)
			})

			t.Run("delete", func(t *testing.T) {
				removed, err := sess.DeleteTask(ctx, id)
				require.NoError(t, err)
				assert.True(t, removed.Completed)

				_, err = sess.DeleteTask(ctx, id)
				assert.ErrorIs(t, err, ErrNotFound)

				tasks, err := sess.ListTasks(ctx)
				require.NoError(t, err)
				require.Len(t, tasks, 1)
				assert.Equal(t, "B", tasks[0].Title)
			})
		})
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "tasks.db")

	s, err := NewSQLiteStore("", dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file was not created")
}

func TestNewSQLiteStore_UnknownDriver(t *testing.T) {
	_, err := NewSQLiteStore("postgres", filepath.Join(t.TempDir(), "tasks.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestNewSQLiteStore_Memory(t *testing.T) {
	s, err := NewSQLiteStore(DriverSQLite, MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	sess, err := s.Acquire(ctx)
	require.NoError(t, err)
	_, err = sess.CreateTask(ctx, "in memory", "")
	require.NoError(t, err)
	require.NoError(t, sess.Close())

	// A second session must see the same database.
	sess = setupTestSession(t, s)
	tasks, err := sess.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tasks.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(DriverSQLite, dbPath)
	require.NoError(t, err)
	sess, err := s.Acquire(ctx)
	require.NoError(t, err)
	_, err = sess.CreateTask(ctx, "durable", "written once")
	require.NoError(t, err)
	require.NoError(t, sess.Close())
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(DriverSQLite, dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	tasks, err := setupTestSession(t, reopened).ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "durable", tasks[0].Title)
	assert.Equal(t, "written once", tasks[0].Description)
}

func TestCreateTask(t *testing.T) {
	sess := setupTestSession(t, setupTestStore(t))
	ctx := context.Background()

	task, err := sess.CreateTask(ctx, "Buy milk", "2 litres")
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "2 litres", task.Description)
	assert.False(t, task.Completed)

	tasks, err := sess.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task, tasks[0])
}

func TestCreateTask_UniqueIDs(t *testing.T) {
	sess := setupTestSession(t, setupTestStore(t))
	ctx := context.Background()

	seen := make(map[int64]bool)
	for range 5 {
		task, err := sess.CreateTask(ctx, "same title", "")
		require.NoError(t, err)
		assert.False(t, seen[task.ID], "id %d reused", task.ID)
		seen[task.ID] = true
	}
}

func TestCreateTask_RejectsBlankTitle(t *testing.T) {
	sess := setupTestSession(t, setupTestStore(t))
	ctx := context.Background()

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := sess.CreateTask(ctx, title, "ignored")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptyTitle), "title %q: got %v", title, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
	}

	tasks, err := sess.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListTasks_EmptyIsNotNil(t *testing.T) {
	sess := setupTestSession(t, setupTestStore(t))

	tasks, err := sess.ListTasks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestListTasks_InsertionOrder(t *testing.T) {
	sess := setupTestSession(t, setupTestStore(t))
	ctx := context.Background()

	for _, title := range []string{"c", "a", "b"} {
		_, err := sess.CreateTask(ctx, title, "")
		require.NoError(t, err)
	}

	tasks, err := sess.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "c", tasks[0].Title)
	assert.Equal(t, "a", tasks[1].Title)
	assert.Equal(t, "b", tasks[2].Title)
	assert.Less(t, tasks[0].ID, tasks[1].ID)
	assert.Less(t, tasks[1].ID, tasks[2].ID)
}

func TestCompleteTask(t *testing.T) {
	sess := setupTestSession(t, setupTestStore(t))
	ctx := context.Background()

	task, err := sess.CreateTask(ctx, "finish me", "")
	require.NoError(t, err)

	done, err := sess.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, task.ID, done.ID)

	// Idempotent
	again, err := sess.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, again.Completed)

	tasks, err := sess.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
}

func TestCompleteTask_MissingLeavesStoreUnchanged(t *testing.T) {
	sess := setupTestSession(t, setupTestStore(t))
	ctx := context.Background()

	_, err := sess.CreateTask(ctx, "keep", "")
	require.NoError(t, err)
	before, err := sess.ListTasks(ctx)
	require.NoError(t, err)

	_, err = sess.CompleteTask(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := sess.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeleteTask(t *testing.T) {
	sess := setupTestSession(t, setupTestStore(t))
	ctx := context.Background()

	first, err := sess.CreateTask(ctx, "first", "")
	require.NoError(t, err)
	second, err := sess.CreateTask(ctx, "second", "")
	require.NoError(t, err)

	removed, err := sess.DeleteTask(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", removed.Title)

	tasks, err := sess.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, second.ID, tasks[0].ID)

	_, err = sess.DeleteTask(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTask_PendingTaskAllowed(t *testing.T) {
	sess := setupTestSession(t, setupTestStore(t))
	ctx := context.Background()

	task, err := sess.CreateTask(ctx, "not completed", "")
	require.NoError(t, err)

	_, err = sess.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
}

func TestDeleteTask_MissingLeavesStoreUnchanged(t *testing.T) {
	sess := setupTestSession(t, setupTestStore(t))
	ctx := context.Background()

	_, err := sess.CreateTask(ctx, "keep", "")
	require.NoError(t, err)

	_, err = sess.DeleteTask(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	tasks, err := sess.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestCreateTasks(t *testing.T) {
	sess := setupTestSession(t, setupTestStore(t))
	ctx := context.Background()

	tasks, err := sess.CreateTasks(ctx, []Draft{
		{Title: "A", Description: "d1"},
		{Title: "B", Description: "d2"},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Less(t, tasks[0].ID, tasks[1].ID)

	listed, err := sess.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, tasks, listed)
}

func TestCreateTasks_InvalidDraftWritesNothing(t *testing.T) {
	sess := setupTestSession(t, setupTestStore(t))
	ctx := context.Background()

	_, err := sess.CreateTasks(ctx, []Draft{
		{Title: "ok", Description: ""},
		{Title: "  ", Description: "blank"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Contains(t, err.Error(), "draft 1")

	tasks, err := sess.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreateTasks_Empty(t *testing.T) {
	sess := setupTestSession(t, setupTestStore(t))

	tasks, err := sess.CreateTasks(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestStore_Ping(t *testing.T) {
	s, err := NewSQLiteStore(DriverSQLite, filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)

	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())
	assert.Error(t, s.Ping(context.Background()))
}
