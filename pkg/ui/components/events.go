package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// EventsComponent renders the scrolling event feed.
type EventsComponent struct {
	lines    []string
	maxLines int
}

// NewEventsComponent creates a new events component.
func NewEventsComponent(maxLines int) *EventsComponent {
	return &EventsComponent{maxLines: maxLines}
}

// Add appends a feed line with a timestamp prefix.
func (e *EventsComponent) Add(level, message string) {
	var levelStyle lipgloss.Style
	switch level {
	case "error":
		levelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	case "warn":
		levelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	default:
		levelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	}

	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), levelStyle.Render(message))
	e.lines = append(e.lines, line)
	if len(e.lines) > e.maxLines {
		e.lines = e.lines[len(e.lines)-e.maxLines:]
	}
}

// Clear removes all feed lines.
func (e *EventsComponent) Clear() {
	e.lines = nil
}

// View renders the events component.
func (e *EventsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("EVENTS"))
	sb.WriteString("\n\n")

	if len(e.lines) == 0 {
		sb.WriteString(mutedStyle.Render("  Waiting for wallet events..."))
		sb.WriteString("\n")
		return sb.String()
	}

	for _, line := range e.lines {
		sb.WriteString("  " + line + "\n")
	}

	return sb.String()
}
