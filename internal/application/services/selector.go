package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taskmaster/desk/internal/domain/entities"
)

const minPrefixLen = 4

// resolveSelector finds the index of the record a user meant. A selector is a
// full id, "#N" for the N-th record in list order, an id prefix of at least
// four characters, or a bare number N. notFound is returned when nothing
// matches.
func resolveSelector(ids []string, selector string, notFound error) (int, error) {
	sel := strings.TrimSpace(selector)
	if sel == "" {
		return -1, notFound
	}

	for i, id := range ids {
		if id == sel {
			return i, nil
		}
	}

	if strings.HasPrefix(sel, "#") {
		return position(ids, strings.TrimPrefix(sel, "#"), sel, notFound)
	}

	if len(sel) >= minPrefixLen {
		match := -1
		for i, id := range ids {
			if strings.HasPrefix(id, sel) {
				if match >= 0 {
					return -1, fmt.Errorf("%q: %w", sel, entities.ErrAmbiguousSelector)
				}
				match = i
			}
		}
		if match >= 0 {
			return match, nil
		}
	}

	return position(ids, sel, sel, notFound)
}

func position(ids []string, num, sel string, notFound error) (int, error) {
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 || n > len(ids) {
		return -1, fmt.Errorf("%q: %w", sel, notFound)
	}
	return n - 1, nil
}

func contactIDs(list []entities.Contact) []string {
	ids := make([]string, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	return ids
}

func taskIDs(list []entities.Task) []string {
	ids := make([]string, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	return ids
}
