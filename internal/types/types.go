// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

import "time"

// Student represents a single student record.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON
//     (lowercase names match REST API conventions).
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the field must be non-zero / non-empty.
//
// ID is an opaque string assigned by the storage backend at creation
// (a 24-hex-character ObjectID in every backend) and is immutable for
// the lifetime of the record. CreatedAt is set once; UpdatedAt is
// refreshed on every successful update.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"   validate:"required"`
	Email     string    `json:"email"  validate:"required,email"`
	Course    string    `json:"course" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StudentUpdate carries a partial update: only non-nil fields are
// applied to the stored record. Pointers distinguish "leave this field
// alone" (nil) from "set it to the empty string" (pointer to "") —
// the latter is rejected by validation.
type StudentUpdate struct {
	Name   *string `json:"name"   validate:"omitempty,min=1"`
	Email  *string `json:"email"  validate:"omitempty,email"`
	Course *string `json:"course" validate:"omitempty,min=1"`
}

// Empty reports whether the update would change nothing.
func (u StudentUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Course == nil
}

// AdviceRequest is the payload of the study-advisor endpoint.
// StudentID selects a record whose course drives the suggestion;
// Message is free text used when no student is selected.
type AdviceRequest struct {
	StudentID string `json:"studentId"`
	Message   string `json:"message"`
}
