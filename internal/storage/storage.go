// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (HTTP layer) should not know or care which database they are
// talking to. By depending only on this interface:
//
//   - Switching databases = implement the interface for the new DB,
//     change one line of wiring. Zero handler changes.
//
//   - Writing tests = pass the in-memory implementation.
//     No real database needed for unit tests.
//
// Three backends implement it: mongodb (the primary document store),
// sqlite (single-file deployments) and memory (demo data / tests).
package storage

import (
	"context"
	"errors"

	"github.com/dhananjay-m/student-management-api/internal/types"
)

// Sentinel errors forming the storage error taxonomy. Backends wrap
// their driver-specific failures into exactly one of these so handlers
// can match with errors.Is and never see raw driver error objects.
var (
	// ErrNotFound: no record exists with the given id.
	ErrNotFound = errors.New("student not found")

	// ErrDuplicateEmail: a create or update would collide with an
	// existing record's email. Email is globally unique.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrUnavailable: the backing store cannot be reached. The HTTP
	// layer decides whether this surfaces as a 500 or degrades a read
	// to an empty result (config policy).
	ErrUnavailable = errors.New("storage unavailable")
)

// Storage is the database contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface — Go does this implicitly (no "implements"
// keyword required).
type Storage interface {
	// CreateStudent inserts a new record with server-assigned id and
	// timestamps and returns it. Fails with ErrDuplicateEmail when the
	// email is already taken.
	CreateStudent(ctx context.Context, name, email, course string) (types.Student, error)

	// GetStudents returns every student ordered by creation time,
	// newest first. Returns an empty slice (not nil) when there are
	// no students.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// GetStudentByID fetches a single student by id.
	// Fails with ErrNotFound when no such record exists.
	GetStudentByID(ctx context.Context, id string) (types.Student, error)

	// UpdateStudentByID applies only the non-nil fields of upd,
	// refreshes UpdatedAt, and returns the updated record.
	// Fails with ErrNotFound or ErrDuplicateEmail.
	UpdateStudentByID(ctx context.Context, id string, upd types.StudentUpdate) (types.Student, error)

	// DeleteStudentByID removes a record permanently and returns the
	// deleted record. Fails with ErrNotFound.
	DeleteStudentByID(ctx context.Context, id string) (types.Student, error)
}

// Pinger is optionally implemented by backends that can report
// connectivity; the health endpoint type-asserts for it.
type Pinger interface {
	Ping(ctx context.Context) error
}
