package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// FieldErrors maps a field name (or a dotted path for form definitions)
// to a human readable message.
type FieldErrors map[string]string

type ValidationError struct {
	Message string
	Errors  FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Errors[k]
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

// MalformedDocumentError reports a form document that could not be turned
// into a form definition as a whole.
type MalformedDocumentError struct {
	Name string
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed form document %q: %s", e.Name, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}
