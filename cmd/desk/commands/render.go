package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/ports"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// position is the 1-based row number selectors resolve against. positions
// maps record id to its place in the unfiltered list; nil means the rows are
// the unfiltered list.
func position(positions map[string]int, id string, i int) string {
	if n, ok := positions[id]; ok {
		return strconv.Itoa(n)
	}
	return strconv.Itoa(i + 1)
}

func contactPositions(all []entities.Contact) map[string]int {
	positions := make(map[string]int, len(all))
	for i, c := range all {
		positions[c.ID] = i + 1
	}
	return positions
}

func taskPositions(all []entities.Task) map[string]int {
	positions := make(map[string]int, len(all))
	for i, t := range all {
		positions[t.ID] = i + 1
	}
	return positions
}

func renderContacts(w io.Writer, contacts []entities.Contact, positions map[string]int) {
	if len(contacts) == 0 {
		fmt.Fprintln(w, "No contacts.")
		return
	}

	t := newTable("#", "ID", "Name", "Phone")
	for i, c := range contacts {
		t.Row(position(positions, c.ID, i), entities.ShortID(c.ID), c.Name, c.Phone)
	}
	fmt.Fprintln(w, t.Render())
}

func renderContact(w io.Writer, c *entities.Contact) {
	fmt.Fprintf(w, "ID:      %s\n", c.ID)
	fmt.Fprintf(w, "Name:    %s\n", c.Name)
	fmt.Fprintf(w, "Phone:   %s\n", c.Phone)
	fmt.Fprintf(w, "Email:   %s\n", c.Email)
	fmt.Fprintf(w, "Address: %s\n", c.Address)
	fmt.Fprintf(w, "Notes:   %s\n", c.Notes)
}

func renderTasks(w io.Writer, tasks []entities.Task, positions map[string]int) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}

	t := newTable("#", "ID", "Task", "Category", "Deadline", "Status")
	for i := range tasks {
		task := &tasks[i]
		status := pendingStyle.Render(task.Status())
		if task.Done {
			status = doneStyle.Render(task.Status())
		}
		t.Row(position(positions, task.ID, i), entities.ShortID(task.ID), task.Task, string(task.Category), task.Deadline, status)
	}
	fmt.Fprintln(w, t.Render())
}

func renderStats(w io.Writer, stats *ports.TaskStats) {
	fmt.Fprintf(w, "Total: %d\n", stats.Total)
	fmt.Fprintf(w, "Done: %d\n", stats.Done)
	fmt.Fprintf(w, "Pending: %d\n", stats.Pending)
}

func renderTaunts(w io.Writer, report *ports.TauntReport) {
	if len(report.Missed) == 0 {
		fmt.Fprintln(w, okStyle.Render(report.Message))
		return
	}
	for _, line := range report.Taunts {
		fmt.Fprintln(w, warnStyle.Render(line))
	}
}

func renderGST(w io.Writer, r *entities.GSTResult) {
	fmt.Fprintf(w, "Rate:   %s%%\n", strconv.FormatFloat(r.Rate, 'f', -1, 64))
	switch r.Mode {
	case entities.GSTModeAdd:
		fmt.Fprintf(w, "GST:    %s\n", entities.Money(r.GSTAmount))
		fmt.Fprintf(w, "Total:  %s\n", entities.Money(r.Total))
	case entities.GSTModeRemove:
		fmt.Fprintf(w, "Base:   %s\n", entities.Money(r.Base))
		fmt.Fprintf(w, "GST:    %s\n", entities.Money(r.GSTAmount))
	default:
		fmt.Fprintf(w, "GST:    %s\n", entities.Money(r.GSTAmount))
	}
}
