// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
//
// Error responses always carry an "error" key; validation failures add
// a "required" array naming the missing fields, and a duplicate-email
// failure adds "field": "email" so the UI can highlight the input.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the standard envelope returned for error cases.
// Success responses may return any JSON shape (a student, a list, a
// confirmation…). Error responses always look like:
//
//	{ "error": "missing required fields", "required": ["course"] }
//	{ "error": "email already exists", "field": "email" }
type Response struct {
	Error string `json:"error"`

	// Required lists the fields a create/update was missing.
	Required []string `json:"required,omitempty"`

	// Field names the single field at fault (duplicate email).
	Field string `json:"field,omitempty"`
}

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// json.NewEncoder(w) streams directly into w, avoiding an
	// intermediate buffer. Encode() appends a trailing newline —
	// handy for CLI testing.
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard Response shape.
// Use this for errors that need no field detail (decode errors,
// connectivity failures, not-found).
func GeneralError(err error) Response {
	return Response{Error: err.Error()}
}

// FieldError reports an error attributable to a single named field,
// e.g. a duplicate email.
func FieldError(msg, field string) Response {
	return Response{Error: msg, Field: field}
}

// ValidationError converts the validator's per-field errors into a
// single Response. Missing required fields are collected into the
// Required list (lowercased to match the JSON field names); any other
// failed rule contributes to the message instead.
func ValidationError(errs validator.ValidationErrors) Response {
	var required []string
	var messages []string

	for _, e := range errs {
		field := strings.ToLower(e.Field())
		switch e.ActualTag() {
		case "required":
			required = append(required, field)
		case "email":
			messages = append(messages, fmt.Sprintf("field %s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("field %s must not be empty", field))
		default:
			messages = append(messages, fmt.Sprintf("field %s is invalid", field))
		}
	}

	if len(required) > 0 {
		return Response{Error: "missing required fields", Required: required}
	}
	return Response{Error: strings.Join(messages, ", ")}
}
