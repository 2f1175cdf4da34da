package entities

import (
	"errors"
	"strings"
)

// Common errors
var (
	ErrContactNotFound   = errors.New("contact not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrAmbiguousSelector = errors.New("selector matches more than one record")
	ErrCorruptStore      = errors.New("data file is corrupt")
	ErrStoreLocked       = errors.New("data file is locked by another process")
	ErrInvalidFormat     = errors.New("invalid contacts format")
	ErrInvalidChoice     = errors.New("invalid choice")
	ErrInvalidGSTRate    = errors.New("invalid GST rate")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Enums and types
type Category string

const (
	CategoryImportant     Category = "Important"
	CategoryMedium        Category = "Medium"
	CategoryLessImportant Category = "Less Important"
	CategoryPersonal      Category = "Personal"
)

// Categories lists the categories offered by the task form, in display order.
var Categories = []Category{
	CategoryImportant,
	CategoryMedium,
	CategoryLessImportant,
	CategoryPersonal,
}

// IsKnown reports whether c is one of the fixed categories. Tasks with other
// categories are still accepted.
func (c Category) IsKnown() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Contact represents an address book entry
type Contact struct {
	ID      string `json:"id" yaml:"id" db:"id"`
	Name    string `json:"name" yaml:"name" db:"name"`
	Phone   string `json:"phone" yaml:"phone" db:"phone"`
	Email   string `json:"email" yaml:"email" db:"email"`
	Address string `json:"address" yaml:"address" db:"address"`
	Notes   string `json:"notes" yaml:"notes" db:"notes"`
}

// DefaultDeadline pre-fills the deadline of a new task
const DefaultDeadline = "14:00"

// Task represents a to-do item
type Task struct {
	ID       string   `json:"id" db:"id"`
	Task     string   `json:"task" db:"task"`
	Category Category `json:"category" db:"category"`
	Deadline string   `json:"deadline" db:"deadline"`
	Done     bool     `json:"done" db:"done"`
}

// Business logic methods for Contact
func (c *Contact) GetID() string { return c.ID }

func (c *Contact) SetID(id string) { c.ID = id }

// Matches reports whether the lower-cased query is contained in the name or
// phone of the contact.
func (c *Contact) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Phone), q)
}

// Business logic methods for Task
func (t *Task) GetID() string { return t.ID }

func (t *Task) SetID(id string) { t.ID = id }

// Status returns the display status of the task.
func (t *Task) Status() string {
	if t.Done {
		return "Done"
	}
	return "Pending"
}

// IsMissed reports whether the task is still pending and its deadline string
// sorts at or before now. Deadlines are compared as plain strings, so only
// zero-padded "HH:MM" values order correctly.
func (t *Task) IsMissed(now string) bool {
	return !t.Done && t.Deadline <= now
}

// ShortID returns the first eight characters of an id for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
