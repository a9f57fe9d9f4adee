// Package ui provides the Bubble Tea TUI for the wallet dashboard.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/domain"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/eventbus"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	status       *components.StatusComponent
	transactions *components.TransactionsComponent
	events       *components.EventsComponent

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	ready      bool
	quitting   bool
	width      int
	height     int
	state      domain.ConnectionState
	lastUpdate time.Time
	errors     []ErrorEntry // Persistent error panel (last 3)
}

// New creates a new TUI model.
func New() Model {
	return Model{
		status:       components.NewStatusComponent(),
		transactions: components.NewTransactionsComponent(20),
		events:       components.NewEventsComponent(8),
		phase:        PhaseWelcome,
		welcomeStart: time.Now(),
		state:        domain.Disconnected(),
		errors:       make([]ErrorEntry, 0, 3),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Always allow quit
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to the dashboard
		if m.phase == PhaseWelcome {
			m.phase = PhaseDashboard
			return m, tickCmd()
		}
		switch msg.String() {
		case "r":
			if OnRetryDetection != nil {
				go OnRetryDetection()
			}
			m.events.Add("info", "retrying wallet detection")
			return m, nil
		case "o":
			if OnRequestConnection != nil {
				go OnRequestConnection()
			}
			m.events.Add("info", "connection prompt requested")
			return m, nil
		case "c":
			m.transactions.Clear()
			m.events.Clear()
			return m, nil
		case "e":
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseDashboard
		}
		return m, tickCmd()

	case StateMsg:
		m.state = msg.State
		m.status.Update(components.WalletStatus{
			Connected:   msg.State.Connected,
			Address:     msg.State.Address,
			NetworkName: msg.State.NetworkName,
			ChainID:     msg.State.ChainID,
			Balance:     msg.State.Balance,
			Method:      string(msg.State.Method),
			LastUpdated: msg.State.LastUpdated,
		})
		m.lastUpdate = time.Now()

	case TransactionMsg:
		m.transactions.Upsert(components.TransactionRow{
			Timestamp:     msg.Result.Timestamp.Format("15:04:05"),
			Hash:          msg.Result.Hash,
			Status:        string(msg.Result.Status),
			Confirmations: msg.Result.Confirmations,
		})
		m.lastUpdate = time.Now()

	case BalanceMsg:
		m.state = m.state.WithBalance(msg.Balance)
		m.status.Update(components.WalletStatus{
			Connected:   m.state.Connected,
			Address:     m.state.Address,
			NetworkName: m.state.NetworkName,
			ChainID:     m.state.ChainID,
			Balance:     msg.Balance,
			Method:      string(m.state.Method),
			LastUpdated: m.state.LastUpdated,
		})
		m.lastUpdate = time.Now()

	case AddressChangeMsg:
		m.events.Add("warn", fmt.Sprintf("wallet address changed: %s -> %s",
			msg.Previous, msg.Current))
		m.lastUpdate = time.Now()

	case ErrorMsg:
		m.events.Add("error", fmt.Sprintf("%s: %s", msg.Code, msg.Message))
		m.errors = append(m.errors, ErrorEntry{
			Message:   fmt.Sprintf("[%s] %s", msg.Code, msg.Message),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}

	case LogMsg:
		m.events.Add(msg.Level, msg.Message)
	}

	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	if m.phase == PhaseWelcome {
		return m.renderWelcomeScreen()
	}

	var b strings.Builder

	title := TitleStyle.Render(" 🔐 Passport Wallet Dashboard ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	leftCol := m.status.View()

	var rightContent strings.Builder
	rightContent.WriteString(m.events.View())
	rightContent.WriteString("\n")
	rightContent.WriteString(m.transactions.View())
	rightCol := rightContent.String()

	if m.width > 100 {
		left := BoxStyle.Width(m.width/2 - 2).Render(leftCol)
		right := BoxStyle.Width(m.width/2 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}

	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		mutedError := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(mutedError.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(mutedError.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("q: quit • r: retry detection • o: request connection • c: clear"))

	return b.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.state.Connected {
		parts = append(parts, StatusConnected.Render("● Connected"))
		parts = append(parts, m.state.NetworkName)
	} else {
		parts = append(parts, StatusDisconnected.Render("○ Disconnected"))
	}

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}

	return strings.Join(parts, "  │  ")
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	greenStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder

	sb.WriteString("\n\n\n\n")

	logo := `
   ██████╗  █████╗ ███████╗███████╗██████╗  ██████╗ ██████╗ ████████╗
   ██╔══██╗██╔══██╗██╔════╝██╔════╝██╔══██╗██╔═══██╗██╔══██╗╚══██╔══╝
   ██████╔╝███████║███████╗███████╗██████╔╝██║   ██║██████╔╝   ██║
   ██╔═══╝ ██╔══██║╚════██║╚════██║██╔═══╝ ██║   ██║██╔══██╗   ██║
   ██║     ██║  ██║███████║███████║██║     ╚██████╔╝██║  ██║   ██║
   ╚═╝     ╚═╝  ╚═╝╚══════╝╚══════╝╚═╝      ╚═════╝ ╚═╝  ╚═╝   ╚═╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")

	sb.WriteString(mutedStyle.Render("            W A L L E T   L I F E C Y C L E   M A N A G E R"))
	sb.WriteString("\n\n\n")

	sb.WriteString(greenStyle.Render(fmt.Sprintf("                  Detecting wallet%s", dots)))
	sb.WriteString("\n\n")

	sb.WriteString(mutedStyle.Render("            Press any key to skip, or wait..."))
	sb.WriteString("\n")

	return sb.String()
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnRetryDetection is called when the user asks to restart discovery.
// Set by main.go.
var OnRetryDetection func()

// OnRequestConnection is called when the user asks the host to prompt
// for wallet access. Set by main.go.
var OnRequestConnection func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}

// Bind subscribes the TUI to the wallet event bus and returns an
// unsubscribe function. Every dashboard update flows through here.
func Bind(bus *eventbus.Bus) func() {
	var unsubs []func()

	sub := func(event string, fn eventbus.Handler) {
		unsubs = append(unsubs, bus.Subscribe(event, fn))
	}

	forwardState := func(ctx context.Context, payload any) {
		if state, ok := payload.(domain.ConnectionState); ok {
			Send(StateMsg{State: state})
		}
	}
	sub(domain.EventWalletConnected, func(ctx context.Context, payload any) {
		forwardState(ctx, payload)
		Send(LogMsg{Level: "info", Message: "wallet connected"})
	})
	sub(domain.EventWalletDisconnected, func(ctx context.Context, payload any) {
		forwardState(ctx, payload)
		Send(LogMsg{Level: "warn", Message: "wallet disconnected"})
	})
	sub(domain.EventConnectionRequested, func(ctx context.Context, payload any) {
		Send(LogMsg{Level: "info", Message: "host connection prompt shown"})
	})

	sub(domain.EventWalletAddressChanged, func(ctx context.Context, payload any) {
		if change, ok := payload.(domain.AddressChange); ok {
			Send(AddressChangeMsg{Previous: change.Previous, Current: change.Current})
		}
	})

	forwardTx := func(ctx context.Context, payload any) {
		if result, ok := payload.(domain.TransactionResult); ok {
			Send(TransactionMsg{Result: result})
		}
	}
	sub(domain.EventTransactionSent, forwardTx)
	sub(domain.EventTransactionConfirmed, forwardTx)
	sub(domain.EventTransactionTimeout, forwardTx)

	sub(domain.EventBalanceUpdated, func(ctx context.Context, payload any) {
		if update, ok := payload.(domain.BalanceUpdate); ok {
			Send(BalanceMsg{Address: update.Address, Balance: update.Balance})
		}
	})

	forwardErr := func(ctx context.Context, payload any) {
		if we, ok := payload.(domain.WalletError); ok {
			Send(ErrorMsg{Code: we.Code, Message: we.Message})
		}
	}
	sub(domain.EventBalanceError, forwardErr)
	sub(domain.EventWalletError, forwardErr)

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}
