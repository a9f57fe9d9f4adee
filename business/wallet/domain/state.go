// Package domain contains the core domain types for the wallet context.
package domain

import (
	"regexp"
	"time"
)

// ConnectionMethod identifies which exposure path produced the wallet handle.
type ConnectionMethod string

const (
	MethodDirect         ConnectionMethod = "direct"
	MethodHostSDK        ConnectionMethod = "host_sdk"
	MethodHostContext    ConnectionMethod = "host_context"
	MethodWindowFallback ConnectionMethod = "window_fallback"
	MethodNone           ConnectionMethod = "none"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidAddress reports whether s is a 0x-prefixed 40-hex-digit address.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// DiscoveredWallet reports the wallet handle discovery settled on.
type DiscoveredWallet struct {
	Address  string
	ChainID  string
	Method   ConnectionMethod
	Source   string
	Attempts int
}

// ConnectionState is an immutable snapshot of the wallet connection.
// It is replaced wholesale on each update, never mutated in place.
type ConnectionState struct {
	Connected   bool
	Address     string
	ChainID     string
	Balance     string
	NetworkName string
	Method      ConnectionMethod
	LastUpdated time.Time
}

// Disconnected returns the initial empty state.
func Disconnected() ConnectionState {
	return ConnectionState{
		Connected:   false,
		Method:      MethodNone,
		LastUpdated: time.Now(),
	}
}

// Connect returns a new snapshot for a discovered wallet. Invariant:
// Connected is true iff the address is well-formed, and Method is None
// iff not connected.
func Connect(address, chainID string, method ConnectionMethod) ConnectionState {
	if !IsValidAddress(address) || method == MethodNone {
		return Disconnected()
	}
	return ConnectionState{
		Connected:   true,
		Address:     address,
		ChainID:     chainID,
		NetworkName: NetworkFor(chainID).Name,
		Method:      method,
		LastUpdated: time.Now(),
	}
}

// WithBalance returns a copy of the snapshot carrying the formatted balance.
func (s ConnectionState) WithBalance(balance string) ConnectionState {
	s.Balance = balance
	s.LastUpdated = time.Now()
	return s
}
