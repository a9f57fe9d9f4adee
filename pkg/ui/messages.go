// Package ui provides the Bubble Tea TUI for the wallet dashboard.
package ui

import (
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/domain"
)

// Message types for TUI updates

// StateMsg is sent when the connection snapshot changes.
type StateMsg struct {
	State domain.ConnectionState
}

// TransactionMsg is sent when a transaction is submitted or reaches a
// terminal status.
type TransactionMsg struct {
	Result domain.TransactionResult
}

// BalanceMsg is sent when the native balance is refreshed.
type BalanceMsg struct {
	Address string
	Balance string
}

// AddressChangeMsg is sent when the host reports a different wallet.
type AddressChangeMsg struct {
	Previous string
	Current  string
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Code    string
	Message string
}

// LogMsg is sent to display an event line in the feed.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}
