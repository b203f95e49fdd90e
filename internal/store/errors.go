package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when a referenced id is absent from its collection.
var ErrNotFound = errors.New("not found")

// StorageError wraps a failure of the underlying key-value store. The store
// never retries; the error is surfaced to the caller as-is.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ValidationError carries a field name -> message mapping so callers can
// render inline form errors. Validation runs before any mutation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation: " + strings.Join(parts, "; ")
}

// FieldError returns the message for a field, or "" if the field is valid.
func FieldError(err error, field string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields[field]
	}
	return ""
}
