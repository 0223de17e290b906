// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tdl/internal/service"
)

var (
	doneStyle  = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	dueStyle   = lipgloss.NewStyle().Faint(true)
	labelStyle = lipgloss.NewStyle().Bold(true)
)

// FormatTask formats one task line.
// Format: "{ID:>4}  [x]  {TITLE}  (due {DUE})". Styling degrades to
// plain text when output is not a terminal.
func FormatTask(w io.Writer, task service.Task) {
	mark := "[ ]"
	title := normalizeTitle(task.Title)
	if task.Done {
		mark = "[x]"
		title = doneStyle.Render(title)
	}

	due := ""
	if strings.TrimSpace(task.DueDate) != "" {
		due = "  " + dueStyle.Render(fmt.Sprintf("(due %s)", task.DueDate))
	}

	fmt.Fprintf(w, "%4d  %s  %s%s\n", task.ID, mark, title, due)
}

// FormatTaskDetail formats a task with its description, one field per
// line.
func FormatTaskDetail(w io.Writer, task service.Task) {
	FormatTask(w, task)
	if strings.TrimSpace(task.Description) != "" {
		fmt.Fprintf(w, "      %s\n", task.Description)
	}
}

// FormatUser formats an account profile.
func FormatUser(w io.Writer, user service.User) {
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render("id:"), user.ID)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("username:"), user.Username)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("email:"), user.Email)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("role:"), user.Role)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
