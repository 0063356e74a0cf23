// Package advisor exposes the suggestion engine over HTTP so the chat
// widget in the embedded UI can call it. The endpoint is read-only and
// never mutates the store.
package advisor

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dhananjay-m/student-management-api/internal/advisor"
	"github.com/dhananjay-m/student-management-api/internal/storage"
	"github.com/dhananjay-m/student-management-api/internal/types"
	"github.com/dhananjay-m/student-management-api/internal/utils/response"
)

// Advise handles POST /api/advisor
//
// Request body (JSON) — at least one of:
//
//	{ "studentId": "66f...", "message": "I like MongoDB" }
//
// When studentId is set the suggestion is personalised from that
// record's course; otherwise the free-text message drives the ordered
// keyword matching.
//
// Success response (200 OK):
//
//	{ "suggestion": "..." }
func Advise(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AdviceRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		req.Message = strings.TrimSpace(req.Message)
		if req.StudentID == "" && req.Message == "" {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("provide a studentId or a message")))
			return
		}

		var selected *types.Student
		if req.StudentID != "" {
			student, err := store.GetStudentByID(r.Context(), req.StudentID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					response.WriteJSON(w, http.StatusNotFound,
						response.GeneralError(errors.New("student not found")))
					return
				}
				slog.Error("advisor: storage failure",
					slog.String("id", req.StudentID),
					slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusInternalServerError,
					response.GeneralError(errors.New("internal server error")))
				return
			}
			selected = &student
		}

		suggestion := advisor.Suggest(selected, req.Message)

		slog.Info("advice served",
			slog.String("studentId", req.StudentID),
			slog.Bool("personalised", selected != nil))
		response.WriteJSON(w, http.StatusOK, map[string]string{"suggestion": suggestion})
	}
}
