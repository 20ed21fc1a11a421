package model

import "errors"

// Domain errors surfaced by the services. Callers branch with errors.Is; the
// services wrap these with context via fmt.Errorf("%w: ...").
var (
	// ErrInvalidInput covers empty required fields and references that do
	// not resolve (unknown category, filter sentinel passed to a mutation).
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateName is returned when a category name collides with a
	// different existing category.
	ErrDuplicateName = errors.New("category name already exists")

	// ErrCategoryInUse blocks category deletion while tasks reference it.
	ErrCategoryInUse = errors.New("category is used by existing tasks")

	// ErrNotFound is returned when an operation targets a record that no
	// longer exists.
	ErrNotFound = errors.New("record not found")
)
