// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a database.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage, policy flags)
//  2. Returns a function with the exact signature the router needs
//
// Because the inner function "closes over" the outer parameters, it can
// access them even after the factory call has returned:
//
//	router.HandleFunc("POST /api/students", student.New(store))
//	//                                      ^^^^^^^^^^^^^^^^^^
//	//                       New(store) is called ONCE at startup.
//	//                       It returns a handler func which is called
//	//                       on EVERY incoming request.
//
// ERROR MAPPING:
// Storage surfaces typed sentinel errors; handlers translate them to
// the HTTP taxonomy (400 duplicate / 404 not found / 500 connectivity)
// and a stable JSON error shape. Raw driver errors never reach clients.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dhananjay-m/student-management-api/internal/storage"
	"github.com/dhananjay-m/student-management-api/internal/types"
	"github.com/dhananjay-m/student-management-api/internal/utils/response"
)

// validate is shared by all handlers: validator.Validate is stateless
// and safe for concurrent use, so one instance is enough.
var validate = validator.New()

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
// Creates a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "Rakesh", "email": "rakesh@test.com", "course": "Computer Science" }
//
// Success response (201 Created) — the full stored record:
//
//	{ "id": "66f...", "name": "Rakesh", ..., "createdAt": "...", "updatedAt": "..." }
//
// Error responses:
//
//	400 Bad Request — empty body, malformed JSON, missing fields
//	                  (lists them under "required"), or duplicate email
//	                  ("field": "email")
//	500 Internal    — store unreachable
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var payload types.Student
		err := json.NewDecoder(r.Body).Decode(&payload)
		if errors.Is(err, io.EOF) {
			// io.EOF means the body was completely empty.
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// Required-field validation happens here, before the store is
		// ever involved.
		if err := validate.Struct(&payload); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		student, err := store.CreateStudent(r.Context(), payload.Name, payload.Email, payload.Course)
		if err != nil {
			writeStoreError(w, "create", payload.Email, err)
			return
		}

		slog.Info("student created", slog.String("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Returns a JSON array of all students, newest first.
//
// Returns an empty array [] (not null) when there are no students.
//
// When the store is unreachable the normal answer is 500. With
// degradeReads enabled the handler answers 200 [] instead — a
// deployment policy for demo environments, logged at WARN every time
// it triggers so the outage stays visible to operators.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(store storage.Storage, degradeReads bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := store.GetStudents(r.Context())
		if err != nil {
			if degradeReads && errors.Is(err, storage.ErrUnavailable) {
				slog.Warn("store unreachable, degrading list to empty result",
					slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusOK, []types.Student{})
				return
			}
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(errors.New("failed to fetch students")))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
// Fetches a single student by id.
//
// Error responses: 404 unknown id, 500 store unreachable.
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.PathValue("id") extracts the {id} segment from the URL —
		// Go 1.22+ named path parameters in the ServeMux pattern.
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		student, err := store.GetStudentByID(r.Context(), id)
		if err != nil {
			writeStoreError(w, "get", id, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// Applies a partial update: only the fields present in the body change,
// and updatedAt is refreshed.
//
// Request body (JSON) — any subset of:
//
//	{ "name": "...", "email": "...", "course": "..." }
//
// Success response (200 OK) — the updated record.
//
// Error responses:
//
//	400 Bad Request — empty body, malformed JSON, empty-string field,
//	                  or duplicate email
//	404 Not Found   — unknown id
//	500 Internal    — store unreachable
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		var upd types.StudentUpdate
		err := json.NewDecoder(r.Body).Decode(&upd)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if upd.Empty() {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("no fields to update")))
			return
		}

		// omitempty/min rules: absent fields pass, supplied fields
		// must be non-empty (and email well-formed).
		if err := validate.Struct(&upd); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		updated, err := store.UpdateStudentByID(r.Context(), id, upd)
		if err != nil {
			writeStoreError(w, "update", id, err)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
// Permanently removes a student record. No soft delete, no tombstone.
//
// Success response (200 OK) — confirmation plus the removed record:
//
//	{ "message": "student deleted successfully", "deletedStudent": { ... } }
//
// Error responses: 404 unknown id, 500 store unreachable.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		deleted, err := store.DeleteStudentByID(r.Context(), id)
		if err != nil {
			writeStoreError(w, "delete", id, err)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]any{
			"message":        "student deleted successfully",
			"deletedStudent": deleted,
		})
	}
}

// writeStoreError translates the storage error taxonomy into HTTP
// responses and logs the underlying cause server-side. ref is whatever
// identifies the operation in logs (record id or email).
func writeStoreError(w http.ResponseWriter, op, ref string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		slog.Info("student not found",
			slog.String("op", op), slog.String("ref", ref))
		response.WriteJSON(w, http.StatusNotFound,
			response.GeneralError(errors.New("student not found")))

	case errors.Is(err, storage.ErrDuplicateEmail):
		slog.Info("duplicate email rejected",
			slog.String("op", op), slog.String("ref", ref))
		response.WriteJSON(w, http.StatusBadRequest,
			response.FieldError("email already exists", "email"))

	default:
		slog.Error("storage failure",
			slog.String("op", op),
			slog.String("ref", ref),
			slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError,
			response.GeneralError(errors.New("internal server error")))
	}
}
