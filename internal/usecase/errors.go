package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Services wrap one of these so handlers can map them with errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrAuth        = errors.New("authentication failed")
	ErrPermission  = errors.New("permission denied")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrRateLimited = errors.New("rate limited")
)

// FieldProblem is one field-specific validation message.
type FieldProblem struct {
	Field   string
	Message string
}

func (p FieldProblem) String() string {
	return p.Field + ": " + p.Message
}

// ValidationError keeps problems in the order they were found.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.String())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Fields returns field -> message. Only the first problem per field is kept.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Problems))
	for _, p := range e.Problems {
		if _, ok := out[p.Field]; !ok {
			out[p.Field] = p.Message
		}
	}
	return out
}

func newValidationError(problems ...FieldProblem) error {
	return &ValidationError{Problems: problems}
}

// validationFromMap adapts utils.ValidateStruct output, ordered by field name.
func validationFromMap(errs map[string]string) error {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	problems := make([]FieldProblem, 0, len(fields))
	for _, field := range fields {
		problems = append(problems, FieldProblem{Field: field, Message: errs[field]})
	}
	return &ValidationError{Problems: problems}
}

func errNotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}
