package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/example/todo-sync/domain/display"
	"github.com/example/todo-sync/domain/task"
	"github.com/example/todo-sync/modules/tasksync"
	"gopkg.in/yaml.v3"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	dueSoonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).PaddingLeft(6)
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// board is the structured form of a listing.
type board struct {
	Pending   []display.Row `json:"pending" yaml:"pending"`
	Completed []display.Row `json:"completed" yaml:"completed"`
}

func newBoard(snap tasksync.Snapshot, now time.Time) board {
	return board{
		Pending:   display.Rows(snap.Pending, now),
		Completed: display.Rows(snap.Completed, now),
	}
}

func render(w io.Writer, format string, snap tasksync.Snapshot, view *display.ViewState, now time.Time) error {
	switch format {
	case "", "table":
		renderTable(w, snap, view, now)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newBoard(snap, now))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newBoard(snap, now)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q: use table, json or yaml", format)
	}
}

func renderTable(w io.Writer, snap tasksync.Snapshot, view *display.ViewState, now time.Time) {
	section(w, "Pending", display.Rows(snap.Pending, now), view)
	fmt.Fprintln(w)
	section(w, "Completed", display.Rows(snap.Completed, now), view)
}

func section(w io.Writer, title string, rows []display.Row, view *display.ViewState) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d)", title, len(rows))))
	if len(rows) == 0 {
		fmt.Fprintln(w, emptyStyle.Render("  no tasks"))
		return
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%5d  %-40s  %s\n", r.ID, summaryStyle(r.Urgency).Render(r.Summary), dates(r))
		if view != nil && view.IsExpanded(r.ID) {
			fmt.Fprintln(w, detailStyle.Render(details(r)))
		}
	}
}

func summaryStyle(u display.UrgencyClass) lipgloss.Style {
	switch u {
	case display.DueSoon:
		return dueSoonStyle
	case display.Overdue:
		return overdueStyle
	default:
		return lipgloss.NewStyle()
	}
}

func dates(r display.Row) string {
	if r.Status == task.StatusCompleted {
		return "done " + r.CompletedDate
	}
	return "due " + r.Deadline
}

func details(r display.Row) string {
	var b strings.Builder
	if r.Description != "" {
		b.WriteString(r.Description)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "pending since %s", r.PendingDate)
	if r.CompletedDate != "" {
		fmt.Fprintf(&b, ", completed %s", r.CompletedDate)
	}
	fmt.Fprintf(&b, ", deadline %s", r.Deadline)
	return b.String()
}
