// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// WalletStatus holds the connection snapshot fields the panel renders.
type WalletStatus struct {
	Connected   bool
	Address     string
	NetworkName string
	ChainID     string
	Balance     string
	Method      string
	LastUpdated time.Time
}

// StatusComponent renders the wallet connection panel.
type StatusComponent struct {
	status WalletStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{}
}

// Update replaces the rendered snapshot.
func (s *StatusComponent) Update(status WalletStatus) {
	s.status = status
}

// View renders the status component.
func (s *StatusComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	connectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	disconnectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("WALLET"))
	sb.WriteString("\n\n")

	if !s.status.Connected {
		sb.WriteString(disconnectedStyle.Render("○ Disconnected"))
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render("  No wallet exposed by the host"))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(connectedStyle.Render("● Connected"))
	sb.WriteString(mutedStyle.Render(fmt.Sprintf(" via %s", s.status.Method)))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("├─ Address:  %s\n", shortenAddress(s.status.Address)))
	sb.WriteString(fmt.Sprintf("├─ Network:  %s (%s)\n", s.status.NetworkName, s.status.ChainID))

	balance := s.status.Balance
	if balance == "" {
		balance = mutedStyle.Render("fetching...")
	}
	sb.WriteString(fmt.Sprintf("├─ Balance:  %s\n", balance))

	if !s.status.LastUpdated.IsZero() {
		ago := time.Since(s.status.LastUpdated).Round(time.Second)
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("└─ Updated:  %s ago", ago)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// shortenAddress renders 0xabcd...ef01 for long addresses.
func shortenAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
