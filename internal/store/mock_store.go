// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// errSessionClosed is returned when a MockStore session is used after Close.
var errSessionClosed = errors.New("session closed")

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu     sync.RWMutex
	tasks  map[int64]*Task
	nextID int64
	closed bool

	// FailWith, when set, is returned by every session operation.
	FailWith error

	// Acquired and Released count sessions handed out and closed.
	Acquired int
	Released int
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		tasks:  make(map[int64]*Task),
		nextID: 1,
	}
}

// Acquire returns a session over the in-memory tasks.
func (m *MockStore) Acquire(ctx context.Context) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errors.New("store closed")
	}
	m.Acquired++
	return &mockSession{store: m}, nil
}

// Ping reports whether the store is still open.
func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return errors.New("store closed")
	}
	return nil
}

// Close marks the store closed.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Snapshot returns copies of all tasks ordered by id.
func (m *MockStore) Snapshot() []*Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedLocked()
}

func (m *MockStore) sortedLocked() []*Task {
	tasks := make([]*Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		c := *t
		tasks = append(tasks, &c)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks
}

func (m *MockStore) insertLocked(d Draft) *Task {
	t := &Task{ID: m.nextID, Title: d.Title, Description: d.Description}
	m.nextID++
	m.tasks[t.ID] = t
	c := *t
	return &c
}

type mockSession struct {
	store  *MockStore
	closed bool
}

func (s *mockSession) check() error {
	if s.closed {
		return errSessionClosed
	}
	return s.store.FailWith
}

func (s *mockSession) Close() error {
	if s.closed {
		return errSessionClosed
	}
	s.closed = true

	s.store.mu.Lock()
	s.store.Released++
	s.store.mu.Unlock()
	return nil
}

func (s *mockSession) ListTasks(ctx context.Context) ([]*Task, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return s.store.sortedLocked(), nil
}

func (s *mockSession) CreateTask(ctx context.Context, title, description string) (*Task, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	d := Draft{Title: title, Description: description}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.store.insertLocked(d), nil
}

func (s *mockSession) CreateTasks(ctx context.Context, drafts []Draft) ([]*Task, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if err := validateDrafts(drafts); err != nil {
		return nil, err
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	tasks := make([]*Task, 0, len(drafts))
	for _, d := range drafts {
		tasks = append(tasks, s.store.insertLocked(d))
	}
	return tasks, nil
}

func (s *mockSession) CompleteTask(ctx context.Context, id int64) (*Task, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	t, ok := s.store.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	t.Completed = true
	c := *t
	return &c, nil
}

func (s *mockSession) DeleteTask(ctx context.Context, id int64) (*Task, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	t, ok := s.store.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.store.tasks, id)
	return t, nil
}
