package advisor_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dhananjay-m/student-management-api/internal/http/handlers/advisor"
	"github.com/dhananjay-m/student-management-api/internal/storage/memory"
)

func postAdvice(t *testing.T, handler http.HandlerFunc, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/advisor", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func suggestion(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return body["suggestion"]
}

func TestAdviseForSelectedStudent(t *testing.T) {
	store := memory.New()
	created, err := store.CreateStudent(context.Background(), "John Doe", "john@example.com", "Computer Science")
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}

	rr := postAdvice(t, advisor.Advise(store), map[string]string{"studentId": created.ID})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	got := suggestion(t, rr)
	if !strings.Contains(got, "Data Structures & Algorithms") {
		t.Fatalf("expected the computer-science suggestion, got %q", got)
	}
	if !strings.Contains(got, "John") {
		t.Fatalf("expected a personalised suggestion, got %q", got)
	}
}

func TestAdviseForFreeText(t *testing.T) {
	rr := postAdvice(t, advisor.Advise(memory.New()), map[string]string{"message": "I like MongoDB"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := suggestion(t, rr); !strings.Contains(got, "Advanced MERN") {
		t.Fatalf("expected the MongoDB-keyword suggestion, got %q", got)
	}
}

func TestAdviseRejectsEmptyInput(t *testing.T) {
	rr := postAdvice(t, advisor.Advise(memory.New()), map[string]string{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAdviseUnknownStudent(t *testing.T) {
	rr := postAdvice(t, advisor.Advise(memory.New()), map[string]string{
		"studentId": "badbadbadbadbadbadbadbad",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
