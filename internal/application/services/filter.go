package services

import (
	"strings"

	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/ports"
)

// FilterContacts returns the contacts whose name or phone contains query,
// ignoring case, in their original order. An empty query returns the whole
// list.
func FilterContacts(list []entities.Contact, query string) []entities.Contact {
	if query == "" {
		return list
	}

	out := make([]entities.Contact, 0, len(list))
	for i := range list {
		if list[i].Matches(query) {
			out = append(out, list[i])
		}
	}
	return out
}

// FilterTasks applies a text search over task text and category plus a status
// filter.
func FilterTasks(list []entities.Task, filter ports.TaskFilter) []entities.Task {
	q := strings.ToLower(filter.Search)

	out := make([]entities.Task, 0, len(list))
	for _, t := range list {
		switch filter.Status {
		case ports.TaskStatusPending:
			if t.Done {
				continue
			}
		case ports.TaskStatusDone:
			if !t.Done {
				continue
			}
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Task), q) &&
			!strings.Contains(strings.ToLower(string(t.Category)), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}
