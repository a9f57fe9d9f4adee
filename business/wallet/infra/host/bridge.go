package host

import (
	"context"
	"encoding/json"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/apperror"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/logger"
)

// Bridge is the surface exposed by the embedding host runtime.
type Bridge interface {
	// Scope returns a snapshot of the host's global surface. An error
	// means the host is unreachable or not yet injected, not that no
	// wallet is exposed.
	Scope(ctx context.Context) (*Scope, error)

	// Invoke calls a named host action. An action the host does not
	// implement fails with CodeHostActionFailed.
	Invoke(ctx context.Context, action string, params any) (json.RawMessage, error)
}

// Host action names for the connection prompt, tried in order.
var connectionActions = []string{
	"wallet_requestConnection",
	"eth_requestAccounts",
	"wallet_requestPermissions",
}

// readyActions are the handshake action names hosts have shipped under.
var readyActions = []string{
	"actions_ready",
	"ready",
}

// SignalReady performs the best-effort ready handshake. Failure is
// logged and swallowed; hosts that never implemented the handshake
// still expose wallets.
func SignalReady(ctx context.Context, b Bridge, log logger.LoggerInterface) {
	for _, action := range readyActions {
		if _, err := b.Invoke(ctx, action, nil); err == nil {
			log.Debug(ctx, "host ready handshake complete", "action", action)
			return
		}
	}
	log.Debug(ctx, "host ready handshake unavailable")
}

// RequestConnection asks the host to prompt the user for wallet
// exposure. Returns CodeNoConnectionMethod when the host implements
// none of the known prompt actions.
func RequestConnection(ctx context.Context, b Bridge, log logger.LoggerInterface) error {
	var lastErr error
	for _, action := range connectionActions {
		_, err := b.Invoke(ctx, action, nil)
		if err == nil {
			log.Info(ctx, "connection prompt requested", "action", action)
			return nil
		}
		lastErr = err
		log.Debug(ctx, "connection prompt action failed", "action", action, "error", err)
	}

	return apperror.New(apperror.CodeNoConnectionMethod, apperror.WithCause(lastErr))
}

// Gateway adapts a Bridge to the handshake and connection-prompt
// operations consumed by the application layer.
type Gateway struct {
	bridge Bridge
	log    logger.LoggerInterface
}

func NewGateway(b Bridge, log logger.LoggerInterface) *Gateway {
	return &Gateway{bridge: b, log: log}
}

func (g *Gateway) SignalReady(ctx context.Context) {
	SignalReady(ctx, g.bridge, g.log)
}

func (g *Gateway) RequestConnection(ctx context.Context) error {
	return RequestConnection(ctx, g.bridge, g.log)
}
