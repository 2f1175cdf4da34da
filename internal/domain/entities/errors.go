package entities

import (
	"fmt"
	"strings"
)

// FieldError describes one rejected form field
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError is returned when a form is rejected before any record is
// touched
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Rule == "required" {
			parts = append(parts, fmt.Sprintf("%s is required", f.Field))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", f.Field, f.Rule))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
