package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEntityNotFound is returned when a key cannot be found in the store.
var ErrEntityNotFound = errors.New("entity not found")

// ErrNilKey is returned by stores asked to persist an entity without a key.
var ErrNilKey = errors.New("entity key is nil")

// ErrIncompleteKey is returned when a lookup key has no trailing identifier.
var ErrIncompleteKey = errors.New("key is incomplete")

const (
	// ViolationMessage is the fixed human-readable message of a rejected save.
	ViolationMessage = "Schema validation failed"
	// ViolationCode is the fixed machine-readable code of a rejected save.
	ViolationCode = "ESCHEMAVIOLATION"
)

// KindErrors groups the violations produced by one entity.
type KindErrors struct {
	Kind   string   `json:"kind"`
	Errors []string `json:"errors"`
}

// ViolationError is the aggregate failure returned when any entity of a batch
// violates its schema. Nothing in the batch is persisted.
type ViolationError struct {
	Message string       `json:"message"`
	Code    string       `json:"code"`
	Errors  []KindErrors `json:"errors"`
}

// NewViolationError returns an empty aggregate with the fixed message and code.
func NewViolationError() *ViolationError {
	return &ViolationError{
		Message: ViolationMessage,
		Code:    ViolationCode,
		Errors:  []KindErrors{},
	}
}

// Add records the violations of one entity. Empty violation lists are ignored.
func (e *ViolationError) Add(kind string, errs []string) {
	if len(errs) == 0 {
		return
	}
	e.Errors = append(e.Errors, KindErrors{Kind: kind, Errors: errs})
}

// HasErrors reports whether at least one entity was recorded.
func (e *ViolationError) HasErrors() bool {
	return e != nil && len(e.Errors) > 0
}

func (e *ViolationError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	var b strings.Builder
	b.WriteString(e.Message)
	for _, ke := range e.Errors {
		fmt.Fprintf(&b, "\n  %s:", ke.Kind)
		for _, msg := range ke.Errors {
			fmt.Fprintf(&b, "\n    - %s", msg)
		}
	}
	return b.String()
}

// AsViolation extracts a ViolationError from err.
func AsViolation(err error) (*ViolationError, bool) {
	var v *ViolationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// IsViolation reports whether err is (or wraps) a ViolationError.
func IsViolation(err error) bool {
	_, ok := AsViolation(err)
	return ok
}
