package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TransactionRow is one tracked transaction.
type TransactionRow struct {
	Timestamp     string
	Hash          string
	Status        string // "pending", "success", "failed", "timed_out"
	Confirmations int
}

// TransactionsComponent renders the recent transaction table. Rows are
// keyed by hash; a terminal update replaces the pending row in place.
type TransactionsComponent struct {
	rows    []TransactionRow
	maxRows int
}

// NewTransactionsComponent creates a new transactions component.
func NewTransactionsComponent(maxRows int) *TransactionsComponent {
	return &TransactionsComponent{maxRows: maxRows}
}

// Upsert adds a row or updates the row with the same hash.
func (t *TransactionsComponent) Upsert(row TransactionRow) {
	for i, existing := range t.rows {
		if existing.Hash == row.Hash {
			t.rows[i] = row
			return
		}
	}
	t.rows = append(t.rows, row)
	if len(t.rows) > t.maxRows {
		t.rows = t.rows[len(t.rows)-t.maxRows:]
	}
}

// Clear removes all rows.
func (t *TransactionsComponent) Clear() {
	t.rows = nil
}

// View renders the transactions component.
func (t *TransactionsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("TRANSACTIONS"))
	sb.WriteString("\n\n")

	if len(t.rows) == 0 {
		sb.WriteString(mutedStyle.Render("  No transactions yet"))
		sb.WriteString("\n")
		return sb.String()
	}

	// Newest first
	for i := len(t.rows) - 1; i >= 0; i-- {
		row := t.rows[i]
		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			mutedStyle.Render(row.Timestamp),
			shortenAddress(row.Hash),
			statusBadge(row.Status),
		))
	}

	return sb.String()
}

func statusBadge(status string) string {
	switch status {
	case "success":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true).Render("✓ confirmed")
	case "failed":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true).Render("✗ reverted")
	case "timed_out":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true).Render("? timed out")
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Render("◌ pending")
	}
}
