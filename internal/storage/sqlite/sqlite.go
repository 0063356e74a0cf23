// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. For single-box deployments it removes the MongoDB dependency
// entirely — the Storage interface means nothing else changes.
//
// Ids are the same 24-hex-character ObjectID strings the mongodb
// backend produces, generated application-side, so clients cannot tell
// the backends apart.
//
// The blank-free import of mattn/go-sqlite3 below is deliberate: besides
// registering the driver it exposes sqlite3.Error, which we inspect to
// map UNIQUE-constraint violations on email to storage.ErrDuplicateEmail.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dhananjay-m/student-management-api/internal/config"
	"github.com/dhananjay-m/student-management-api/internal/storage"
	"github.com/dhananjay-m/student-management-api/internal/types"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	db *sql.DB
}

// New opens the SQLite database at the path specified in
// cfg.Storage.Path, creates the students table if it does not already
// exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet — it just validates
	// the driver name and data source name (DSN).
	// The first actual connection happens on the first query.
	db, err := sql.Open("sqlite3", cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup. Timestamps are stored as RFC 3339 text in UTC.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			course     TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *SQLite) Close() error { return s.db.Close() }

// Ping verifies the database file is still accessible.
func (s *SQLite) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLite) CreateStudent(ctx context.Context, name, email, course string) (types.Student, error) {
	now := time.Now().UTC()
	student := types.Student{
		ID:        primitive.NewObjectID().Hex(),
		Name:      name,
		Email:     email,
		Course:    course,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Placeholders (?) keep user input out of the SQL text, so it can
	// never be interpreted as SQL syntax.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO students (id, name, email, course, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		student.ID, student.Name, student.Email, student.Course,
		student.CreatedAt.Format(time.RFC3339Nano),
		student.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Student{}, storage.ErrDuplicateEmail
		}
		return types.Student{}, fmt.Errorf("CreateStudent: insert: %w", err)
	}

	return student, nil
}

func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	// Explicitly list columns — never use SELECT * in production code.
	// If a column is added later, SELECT * would break Scan's ordering.
	// RFC 3339 strings sort lexicographically in time order, so the
	// ORDER BY gives newest-first directly. Id breaks creation-time ties.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, course, created_at, updated_at
		FROM students ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close() // must close rows to free the DB connection

	// Pre-allocate an empty (non-nil) slice.
	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)

	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	// rows.Err() captures any error that occurred during iteration.
	// This is separate from Scan errors.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

func (s *SQLite) GetStudentByID(ctx context.Context, id string) (types.Student, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, course, created_at, updated_at
		FROM students WHERE id = ? LIMIT 1`, id)

	student, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// sql.ErrNoRows is the sentinel for "nothing matched";
			// translate it to the storage taxonomy.
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

func (s *SQLite) UpdateStudentByID(ctx context.Context, id string, upd types.StudentUpdate) (types.Student, error) {
	// Fetch first: a partial update needs the current values, and a
	// missing id must surface as ErrNotFound before any write.
	current, err := s.GetStudentByID(ctx, id)
	if err != nil {
		return types.Student{}, err
	}

	if upd.Name != nil {
		current.Name = *upd.Name
	}
	if upd.Email != nil {
		current.Email = *upd.Email
	}
	if upd.Course != nil {
		current.Course = *upd.Course
	}
	current.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE students SET name = ?, email = ?, course = ?, updated_at = ?
		WHERE id = ?`,
		current.Name, current.Email, current.Course,
		current.UpdatedAt.Format(time.RFC3339Nano), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Student{}, storage.ErrDuplicateEmail
		}
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	return current, nil
}

func (s *SQLite) DeleteStudentByID(ctx context.Context, id string) (types.Student, error) {
	// Fetch-then-delete so the deleted record can be returned to the
	// caller, matching the Storage contract.
	student, err := s.GetStudentByID(ctx, id)
	if err != nil {
		return types.Student{}, err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return types.Student{}, fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		// Deleted concurrently between the fetch and the delete.
		return types.Student{}, storage.ErrNotFound
	}

	return student, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanStudent reads one row into a Student, parsing the RFC 3339
// timestamp columns back into time.Time.
func scanStudent(sc scanner) (types.Student, error) {
	var student types.Student
	var createdAt, updatedAt string

	if err := sc.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.Course,
		&createdAt,
		&updatedAt,
	); err != nil {
		return types.Student{}, err
	}

	var err error
	if student.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return types.Student{}, fmt.Errorf("parse created_at: %w", err)
	}
	if student.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return types.Student{}, fmt.Errorf("parse updated_at: %w", err)
	}

	return student, nil
}

// isUniqueViolation reports whether err is the driver's UNIQUE
// constraint error. The only UNIQUE column is email.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
