package core

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when a submitted form fails its rule set.
	ErrValidation = errors.New("invoice validation failed")

	// ErrWrite is matched by every *WriteError.
	ErrWrite = errors.New("invoice write failed")

	// ErrNotFound is returned by read operations for a missing invoice.
	ErrNotFound = errors.New("invoice not found")
)

// Op names a mutation for errors, logs and metrics.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// WriteError reports a failed insert, update or delete.
type WriteError struct {
	Op  Op
	ID  string
	Err error
}

func (e *WriteError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s invoice %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s invoice: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrWrite) match any WriteError.
func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// ValidationError carries the failing fields of a rejected submission.
type ValidationError struct {
	Op     Op
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s invoice: invalid fields %v", e.Op, e.Fields)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
