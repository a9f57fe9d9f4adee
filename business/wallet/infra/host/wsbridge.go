package host

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/apperror"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/logger"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/wsconn"
)

// envelope is the wire frame exchanged with the host bridge. Requests
// carry id/action/params; responses echo the id with result or error;
// unsolicited frames with type "scope" push a fresh scope snapshot.
type envelope struct {
	ID     int64           `json:"id,omitempty"`
	Type   string          `json:"type,omitempty"`
	Action string          `json:"action,omitempty"`
	Params any             `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *envelopeError  `json:"error,omitempty"`
	Scope  *Scope          `json:"scope,omitempty"`
}

type envelopeError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// WSBridge talks to the embedding host over a WebSocket connection.
type WSBridge struct {
	conn          *wsconn.Client
	log           logger.LoggerInterface
	invokeTimeout time.Duration

	mu      sync.Mutex
	pending map[int64]chan envelope
	nextID  atomic.Int64

	scopeMu sync.RWMutex
	scope   *Scope
}

// NewWSBridge creates a bridge over the given WebSocket configuration.
func NewWSBridge(cfg wsconn.Config, invokeTimeout time.Duration, log logger.LoggerInterface) (*WSBridge, error) {
	conn, err := wsconn.New(cfg)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeHostBridgeUnavailable, "failed to create bridge connection")
	}

	if invokeTimeout <= 0 {
		invokeTimeout = 30 * time.Second
	}

	b := &WSBridge{
		conn:          conn,
		log:           log,
		invokeTimeout: invokeTimeout,
		pending:       make(map[int64]chan envelope),
	}
	conn.OnMessage(b.handleMessage)

	return b, nil
}

// Connect establishes the bridge connection, retrying with backoff.
func (b *WSBridge) Connect(ctx context.Context) error {
	if err := b.conn.ConnectWithRetry(ctx); err != nil {
		return apperror.Wrap(err, apperror.CodeHostBridgeUnavailable, "failed to connect to host bridge")
	}
	return nil
}

// IsConnected reports whether the bridge connection is up.
func (b *WSBridge) IsConnected() bool {
	return b.conn.IsConnected()
}

// Close tears down the bridge connection.
func (b *WSBridge) Close() error {
	return b.conn.Close()
}

// Scope returns the latest scope snapshot. Host pushes are preferred;
// when none has arrived yet the host is asked directly.
func (b *WSBridge) Scope(ctx context.Context) (*Scope, error) {
	b.scopeMu.RLock()
	scope := b.scope
	b.scopeMu.RUnlock()

	if scope != nil {
		return scope, nil
	}

	raw, err := b.Invoke(ctx, "host_getScope", nil)
	if err != nil {
		return nil, err
	}

	var fresh Scope
	if err := json.Unmarshal(raw, &fresh); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeHostBridgeUnavailable, "malformed scope response")
	}

	b.scopeMu.Lock()
	b.scope = &fresh
	b.scopeMu.Unlock()

	return &fresh, nil
}

// Invoke calls a named host action and waits for the matching response.
func (b *WSBridge) Invoke(ctx context.Context, action string, params any) (json.RawMessage, error) {
	if !b.conn.IsConnected() {
		return nil, apperror.New(apperror.CodeHostBridgeUnavailable)
	}

	id := b.nextID.Add(1)
	ch := make(chan envelope, 1)

	b.mu.Lock()
	b.pending[id] = ch
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
	}()

	req := envelope{ID: id, Action: action, Params: params}
	if err := b.conn.SendJSON(ctx, req); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeWebSocketError, "failed to send "+action)
	}

	timer := time.NewTimer(b.invokeTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, apperror.New(apperror.CodeServiceTimeout,
			apperror.WithContext("host action "+action+" timed out"))
	case resp := <-ch:
		if resp.Error != nil {
			return nil, apperror.New(apperror.CodeHostActionFailed,
				apperror.WithMessage(resp.Error.Message),
				apperror.WithContext("action: "+action))
		}
		return resp.Result, nil
	}
}

// handleMessage routes inbound frames: scope pushes replace the cached
// snapshot wholesale, responses are delivered to their waiting caller.
func (b *WSBridge) handleMessage(ctx context.Context, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		b.log.Warn(ctx, "discarding malformed bridge frame", "error", err)
		return
	}

	if env.Type == "scope" {
		b.scopeMu.Lock()
		b.scope = env.Scope
		b.scopeMu.Unlock()
		b.log.Debug(ctx, "host scope updated")
		return
	}

	b.mu.Lock()
	ch, ok := b.pending[env.ID]
	b.mu.Unlock()

	if !ok {
		b.log.Debug(ctx, "response for unknown request", "id", env.ID)
		return
	}

	select {
	case ch <- env:
	default:
	}
}
