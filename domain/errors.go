package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is matched by every input validation error.
var ErrInvalidInput = errors.New("invalid projection input")

// MissingColumnsError names every required column absent from an input table.
type MissingColumnsError struct {
	Table   string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns in %s: [%s]", e.Table, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Is(target error) bool { return target == ErrInvalidInput }

// InvalidValueError reports a cell that could not be read as the expected type.
type InvalidValueError struct {
	Table  string
	Row    int
	Column string
	Value  any
	Err    error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s row %d column %s: invalid value %v: %v", e.Table, e.Row, e.Column, e.Value, e.Err)
}

func (e *InvalidValueError) Unwrap() error { return e.Err }

func (e *InvalidValueError) Is(target error) bool { return target == ErrInvalidInput }
