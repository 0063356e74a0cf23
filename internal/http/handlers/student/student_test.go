package student_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dhananjay-m/student-management-api/internal/http/handlers/student"
	"github.com/dhananjay-m/student-management-api/internal/storage"
	"github.com/dhananjay-m/student-management-api/internal/storage/memory"
	"github.com/dhananjay-m/student-management-api/internal/types"
)

// newRouter wires the CRUD routes against the given store the same way
// main does, so path parameters resolve through the ServeMux patterns.
func newRouter(store storage.Storage, degradeReads bool) *http.ServeMux {
	router := http.NewServeMux()
	router.HandleFunc("POST /api/students", student.New(store))
	router.HandleFunc("GET /api/students", student.GetList(store, degradeReads))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(store))
	router.HandleFunc("PUT /api/students/{id}", student.Update(store))
	router.HandleFunc("DELETE /api/students/{id}", student.Delete(store))
	return router
}

func doJSON(t *testing.T, router *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func createStudent(t *testing.T, router *http.ServeMux, name, email, course string) types.Student {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/api/students", map[string]string{
		"name": name, "email": email, "course": course,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create %s: expected 201, got %d: %s", email, rr.Code, rr.Body.String())
	}
	return decode[types.Student](t, rr)
}

func TestCreateReturnsFullRecord(t *testing.T) {
	router := newRouter(memory.New(), false)

	got := createStudent(t, router, "John Doe", "john@example.com", "Computer Science")

	if got.ID == "" {
		t.Fatal("expected a non-empty id")
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps set, got %+v", got)
	}
	if got.Name != "John Doe" || got.Email != "john@example.com" || got.Course != "Computer Science" {
		t.Fatalf("record fields mangled: %+v", got)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	router := newRouter(memory.New(), false)

	createStudent(t, router, "A", "a@x.com", "Math")

	rr := doJSON(t, router, http.MethodPost, "/api/students", map[string]string{
		"name": "B", "email": "a@x.com", "course": "Physics",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	body := decode[map[string]any](t, rr)
	if body["field"] != "email" {
		t.Fatalf(`expected "field":"email", got %v`, body)
	}
}

func TestCreateMissingCourse(t *testing.T) {
	router := newRouter(memory.New(), false)

	rr := doJSON(t, router, http.MethodPost, "/api/students", map[string]string{
		"name": "John", "email": "john@example.com",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var body struct {
		Error    string   `json:"error"`
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	found := false
	for _, f := range body.Required {
		if f == "course" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected required to list course, got %v", body.Required)
	}
}

func TestCreateEmptyBody(t *testing.T) {
	router := newRouter(memory.New(), false)

	req := httptest.NewRequest(http.MethodPost, "/api/students", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an empty body, got %d", rr.Code)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := memory.New()
	router := newRouter(store, false)

	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return t1 })
	createStudent(t, router, "Older", "older@x.com", "Math")

	store.SetNow(func() time.Time { return t1.Add(time.Hour) })
	newer := createStudent(t, router, "Newer", "newer@x.com", "Physics")

	rr := doJSON(t, router, http.MethodGet, "/api/students", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	students := decode[[]types.Student](t, rr)
	if len(students) != 2 {
		t.Fatalf("expected 2 students, got %d", len(students))
	}
	if students[0].ID != newer.ID {
		t.Fatalf("expected the newer record first, got %q", students[0].Name)
	}
}

func TestListEmptyIsArrayNotNull(t *testing.T) {
	router := newRouter(memory.New(), false)

	rr := doJSON(t, router, http.MethodGet, "/api/students", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("expected [], got %s", got)
	}
}

func TestGetByID(t *testing.T) {
	router := newRouter(memory.New(), false)
	created := createStudent(t, router, "John Doe", "john@example.com", "Math")

	rr := doJSON(t, router, http.MethodGet, "/api/students/"+created.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := decode[types.Student](t, rr); got.ID != created.ID {
		t.Fatalf("expected id %s, got %s", created.ID, got.ID)
	}

	rr = doJSON(t, router, http.MethodGet, "/api/students/badbadbadbadbadbadbadbad", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rr.Code)
	}
}

func TestUpdatePartial(t *testing.T) {
	router := newRouter(memory.New(), false)
	created := createStudent(t, router, "John Doe", "john@example.com", "Math")

	rr := doJSON(t, router, http.MethodPut, "/api/students/"+created.ID, map[string]string{
		"course": "Physics",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	got := decode[types.Student](t, rr)
	if got.Course != "Physics" {
		t.Fatalf("expected course updated, got %q", got.Course)
	}
	if got.Name != "John Doe" || got.Email != "john@example.com" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
}

func TestUpdateRejectsEmptyField(t *testing.T) {
	router := newRouter(memory.New(), false)
	created := createStudent(t, router, "John Doe", "john@example.com", "Math")

	rr := doJSON(t, router, http.MethodPut, "/api/students/"+created.ID, map[string]string{
		"name": "",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an empty name, got %d", rr.Code)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	router := newRouter(memory.New(), false)

	rr := doJSON(t, router, http.MethodPut, "/api/students/badbadbadbadbadbadbadbad", map[string]string{
		"name": "Ghost",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestDeleteThenListThenDeleteAgain(t *testing.T) {
	router := newRouter(memory.New(), false)
	created := createStudent(t, router, "John Doe", "john@example.com", "Math")

	rr := doJSON(t, router, http.MethodDelete, "/api/students/"+created.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body struct {
		Message        string        `json:"message"`
		DeletedStudent types.Student `json:"deletedStudent"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message == "" || body.DeletedStudent.ID != created.ID {
		t.Fatalf("expected confirmation with the deleted record, got %s", rr.Body.String())
	}

	rr = doJSON(t, router, http.MethodGet, "/api/students", nil)
	if students := decode[[]types.Student](t, rr); len(students) != 0 {
		t.Fatalf("expected the list to exclude the deleted record, got %d entries", len(students))
	}

	rr = doJSON(t, router, http.MethodDelete, "/api/students/"+created.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rr.Code)
	}
}

// unreachableStore fails every operation with ErrUnavailable, standing
// in for a store whose backing database is down.
type unreachableStore struct{}

func (unreachableStore) CreateStudent(context.Context, string, string, string) (types.Student, error) {
	return types.Student{}, fmt.Errorf("create: %w", storage.ErrUnavailable)
}
func (unreachableStore) GetStudents(context.Context) ([]types.Student, error) {
	return nil, fmt.Errorf("list: %w", storage.ErrUnavailable)
}
func (unreachableStore) GetStudentByID(context.Context, string) (types.Student, error) {
	return types.Student{}, fmt.Errorf("get: %w", storage.ErrUnavailable)
}
func (unreachableStore) UpdateStudentByID(context.Context, string, types.StudentUpdate) (types.Student, error) {
	return types.Student{}, fmt.Errorf("update: %w", storage.ErrUnavailable)
}
func (unreachableStore) DeleteStudentByID(context.Context, string) (types.Student, error) {
	return types.Student{}, fmt.Errorf("delete: %w", storage.ErrUnavailable)
}

func TestListUnavailableStore(t *testing.T) {
	// Default policy: the outage surfaces as a 500.
	router := newRouter(unreachableStore{}, false)
	rr := doJSON(t, router, http.MethodGet, "/api/students", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	// Degraded-read policy: the list answers 200 with an empty array.
	router = newRouter(unreachableStore{}, true)
	rr = doJSON(t, router, http.MethodGet, "/api/students", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with degraded reads, got %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("expected [], got %s", got)
	}
}

func TestWriteFailureDoesNotLeakDriverError(t *testing.T) {
	router := newRouter(unreachableStore{}, false)

	rr := doJSON(t, router, http.MethodPost, "/api/students", map[string]string{
		"name": "A", "email": "a@x.com", "course": "Math",
	})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "unavailable") {
		t.Fatalf("internal error detail leaked to the client: %s", rr.Body.String())
	}
}
