package model

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrArticleNotFound   = errors.New("article not found")
	ErrSaveStateConflict = errors.New("article save state changed concurrently")
)

// ValidationError reports which fields of a record were rejected at the
// store boundary. Fields maps the field name to the failed rule.
type ValidationError struct {
	Record string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.FieldNames() {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return e.Record + " validation failed: " + strings.Join(parts, ", ")
}

// FieldNames returns the rejected field names in a stable order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
