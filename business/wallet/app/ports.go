// Package app contains application services and port definitions for the wallet context.
package app

import (
	"context"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/domain"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/asset"
)

// Discovery locates a wallet exposed by the host runtime.
type Discovery interface {
	// Detect runs the full probe loop. It returns (nil, nil) when every
	// attempt is exhausted without finding a wallet; the only error it
	// returns is context cancellation.
	Detect(ctx context.Context) (*domain.DiscoveredWallet, error)

	// DetectOnce runs a single non-retrying pass.
	DetectOnce(ctx context.Context) (*domain.DiscoveredWallet, bool)

	// Attempts reports how many probe attempts have run since the last Reset.
	Attempts() int

	// Reset clears the attempt counter so Detect starts fresh.
	Reset()
}

// Submitter validates and sends a transaction through the host.
type Submitter interface {
	Submit(ctx context.Context, req domain.TransactionRequest) (domain.TransactionResult, error)
}

// Monitor tracks a submitted transaction until it reaches a terminal
// status. Watch returns false when the hash is already being tracked.
type Monitor interface {
	Watch(ctx context.Context, result domain.TransactionResult, onTerminal func(ctx context.Context, result domain.TransactionResult)) bool
}

// BalanceProvider resolves and caches the native balance for an address.
type BalanceProvider interface {
	Balance(ctx context.Context, address string, native *asset.Asset) (string, error)
	Invalidate(ctx context.Context, address string)
}

// HostGateway exposes the host handshake and connection prompt.
type HostGateway interface {
	SignalReady(ctx context.Context)
	RequestConnection(ctx context.Context) error
}
