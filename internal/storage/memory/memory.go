// Package memory provides an in-memory implementation of the
// storage.Storage interface.
//
// It exists for two reasons:
//
//   - Demo deployments: `storage.driver: memory` runs the whole app
//     with canned data and no database at all.
//
//   - Tests: handlers are exercised against this backend so unit tests
//     never need a real MongoDB or SQLite file.
//
// Choosing this backend is an explicit configuration decision; it is
// never silently substituted for a live store at request time.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dhananjay-m/student-management-api/internal/storage"
	"github.com/dhananjay-m/student-management-api/internal/types"
)

// Memory stores records in a map guarded by a mutex. A single instance
// is safe for concurrent use by multiple request goroutines.
type Memory struct {
	mu       sync.RWMutex
	students map[string]types.Student

	// now is swappable so tests can pin timestamps.
	now func() time.Time
}

// New returns an empty in-memory store.
func New() *Memory {
	return &Memory{
		students: make(map[string]types.Student),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewWithDemoData returns a store pre-seeded with a few demo records,
// matching what a fresh demo deployment should show.
func NewWithDemoData() *Memory {
	m := New()
	seed := []struct{ name, email, course string }{
		{"John Doe", "john@example.com", "Computer Science"},
		{"Jane Smith", "jane@example.com", "Mathematics"},
		{"Bob Johnson", "bob@example.com", "Physics"},
	}
	ctx := context.Background()
	for _, s := range seed {
		_, _ = m.CreateStudent(ctx, s.name, s.email, s.course)
	}
	return m
}

// SetNow overrides the clock. Tests use this to create records with
// controlled CreatedAt values and assert list ordering.
func (m *Memory) SetNow(now func() time.Time) { m.now = now }

func (m *Memory) CreateStudent(ctx context.Context, name, email, course string) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.students {
		if strings.EqualFold(s.Email, email) {
			return types.Student{}, storage.ErrDuplicateEmail
		}
	}

	now := m.now()
	student := types.Student{
		ID:        primitive.NewObjectID().Hex(),
		Name:      name,
		Email:     email,
		Course:    course,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.students[student.ID] = student
	return student, nil
}

func (m *Memory) GetStudents(ctx context.Context) ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	students := make([]types.Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, s)
	}

	// Newest first. Ties broken by id so the order is deterministic.
	sort.Slice(students, func(i, j int) bool {
		if !students[i].CreatedAt.Equal(students[j].CreatedAt) {
			return students[i].CreatedAt.After(students[j].CreatedAt)
		}
		return students[i].ID > students[j].ID
	})
	return students, nil
}

func (m *Memory) GetStudentByID(ctx context.Context, id string) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	student, ok := m.students[id]
	if !ok {
		return types.Student{}, storage.ErrNotFound
	}
	return student, nil
}

func (m *Memory) UpdateStudentByID(ctx context.Context, id string, upd types.StudentUpdate) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	student, ok := m.students[id]
	if !ok {
		return types.Student{}, storage.ErrNotFound
	}

	if upd.Email != nil {
		for otherID, other := range m.students {
			if otherID != id && strings.EqualFold(other.Email, *upd.Email) {
				return types.Student{}, storage.ErrDuplicateEmail
			}
		}
		student.Email = *upd.Email
	}
	if upd.Name != nil {
		student.Name = *upd.Name
	}
	if upd.Course != nil {
		student.Course = *upd.Course
	}
	student.UpdatedAt = m.now()

	m.students[id] = student
	return student, nil
}

func (m *Memory) DeleteStudentByID(ctx context.Context, id string) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	student, ok := m.students[id]
	if !ok {
		return types.Student{}, storage.ErrNotFound
	}
	delete(m.students, id)
	return student, nil
}

// Ping always succeeds: there is nothing to connect to.
func (m *Memory) Ping(ctx context.Context) error { return nil }
