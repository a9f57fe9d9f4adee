package app

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/domain"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/apm"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/apperror"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/eventbus"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/logger"
)

// ManagerConfig holds tunables for the wallet lifecycle manager.
type ManagerConfig struct {
	// BalancePollInterval is how often the native balance is refreshed
	// while a wallet is connected.
	BalancePollInterval time.Duration
}

// DefaultManagerConfig returns the standard manager settings.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		BalancePollInterval: 30 * time.Second,
	}
}

// Manager is the single entry point for the wallet lifecycle: discovery,
// connection state, balance refresh and transaction submission. All
// state changes replace the snapshot wholesale and are announced on the
// event bus.
type Manager struct {
	discovery Discovery
	submitter Submitter
	monitor   Monitor
	balances  BalanceProvider
	gateway   HostGateway
	bus       *eventbus.Bus
	cfg       ManagerConfig
	log       logger.LoggerInterface
	tracer    apm.Tracer

	mu           sync.RWMutex
	state        domain.ConnectionState
	lifecycle    context.Context
	detectCancel context.CancelFunc
	pollCancel   context.CancelFunc

	initMu  sync.Mutex
	initCh  chan struct{}
	initErr error

	runMu sync.Mutex

	wg sync.WaitGroup
}

// NewManager creates a wallet lifecycle Manager in the disconnected state.
func NewManager(
	discovery Discovery,
	submitter Submitter,
	monitor Monitor,
	balances BalanceProvider,
	gateway HostGateway,
	bus *eventbus.Bus,
	cfg ManagerConfig,
	log logger.LoggerInterface,
) *Manager {
	if cfg.BalancePollInterval <= 0 {
		cfg.BalancePollInterval = DefaultManagerConfig().BalancePollInterval
	}
	return &Manager{
		discovery: discovery,
		submitter: submitter,
		monitor:   monitor,
		balances:  balances,
		gateway:   gateway,
		bus:       bus,
		cfg:       cfg,
		log:       log,
		tracer:    apm.NewTracer("wallet"),
		state:     domain.Disconnected(),
		lifecycle: context.Background(),
	}
}

// Initialize performs the ready handshake and the first detection run.
// Concurrent calls coalesce onto a single run; once it has completed,
// later calls return immediately. ctx outlives Initialize: background
// work (balance polling, transaction monitoring) is bound to it.
func (m *Manager) Initialize(ctx context.Context) error {
	m.initMu.Lock()
	if ch := m.initCh; ch != nil {
		m.initMu.Unlock()
		select {
		case <-ch:
			return m.initErr
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	ch := make(chan struct{})
	m.initCh = ch
	m.initMu.Unlock()

	m.mu.Lock()
	m.lifecycle = ctx
	m.mu.Unlock()

	m.log.Info(ctx, "initializing wallet lifecycle")
	m.gateway.SignalReady(ctx)

	_, err := m.runDetection(ctx)
	m.initErr = err
	close(ch)

	if err != nil {
		// Cancelled before finishing; let a later call start over.
		m.initMu.Lock()
		m.initCh = nil
		m.initMu.Unlock()
	}
	return err
}

// DetectWallet runs wallet discovery and returns the resulting snapshot.
// While already connected it performs a single re-check instead of the
// full retry loop: the state and events only change when the host now
// reports a different address, or no wallet at all.
func (m *Manager) DetectWallet(ctx context.Context) domain.ConnectionState {
	prev := m.GetCurrentState()

	if prev.Connected {
		dw, ok := m.discovery.DetectOnce(ctx)
		switch {
		case ok && dw.Address == prev.Address:
			return prev
		case ok:
			next := domain.Connect(dw.Address, dw.ChainID, dw.Method)
			m.setState(next)
			m.log.Info(ctx, "wallet address changed", "previous", prev.Address, "current", dw.Address)
			m.bus.Publish(ctx, domain.EventWalletAddressChanged, domain.AddressChange{
				Previous: prev.Address,
				Current:  dw.Address,
			})
			m.balances.Invalidate(ctx, prev.Address)
			m.startBalancePolling(next)
			return next
		default:
			return m.disconnect(ctx, prev)
		}
	}

	next, err := m.runDetection(ctx)
	if err != nil {
		return prev
	}
	return next
}

// runDetection executes one full probe loop. Exhaustion is a terminal
// disconnected state, not an error; walletDisconnected fires only when a
// previously held connection is lost, and rediscovering the same address
// emits nothing.
func (m *Manager) runDetection(ctx context.Context) (domain.ConnectionState, error) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	prev := m.GetCurrentState()

	dctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.detectCancel = cancel
	m.mu.Unlock()
	defer cancel()

	dw, err := m.discovery.Detect(dctx)
	if err != nil {
		return m.GetCurrentState(), err
	}
	if dw == nil {
		m.log.Info(ctx, "wallet discovery exhausted", "attempts", m.discovery.Attempts())
		return m.disconnect(ctx, prev), nil
	}

	next := domain.Connect(dw.Address, dw.ChainID, dw.Method)
	m.setState(next)
	m.log.Info(ctx, "wallet connected",
		"address", dw.Address,
		"chainId", dw.ChainID,
		"method", dw.Method,
		"source", dw.Source,
		"attempts", dw.Attempts)
	switch {
	case prev.Connected && prev.Address == dw.Address:
		// Same wallet as before, nothing changed for listeners.
	case prev.Connected:
		m.bus.Publish(ctx, domain.EventWalletAddressChanged, domain.AddressChange{
			Previous: prev.Address,
			Current:  dw.Address,
		})
		m.balances.Invalidate(ctx, prev.Address)
	default:
		m.bus.Publish(ctx, domain.EventWalletConnected, next)
	}
	m.startBalancePolling(next)
	return next, nil
}

// SendTransaction validates and submits req through the host, announces
// transactionSent once, and hands the hash to the monitor. The returned
// result is the initial pending snapshot; the terminal status arrives as
// exactly one transactionConfirmed or transactionTimeout event.
func (m *Manager) SendTransaction(ctx context.Context, req domain.TransactionRequest) (domain.TransactionResult, error) {
	ctx, span := m.tracer.Start(ctx, "wallet.sendTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("tx.to", req.To))

	state := m.GetCurrentState()
	if !state.Connected {
		err := apperror.New(apperror.CodeWalletNotConnected)
		span.NoticeError(err)
		return domain.TransactionResult{}, err
	}

	result, err := m.submitter.Submit(ctx, req)
	if err != nil {
		span.NoticeError(err)
		m.log.Warn(ctx, "transaction submission failed", "error", err)
		m.bus.Publish(ctx, domain.EventWalletError, domain.WalletError{
			Code:    string(apperror.GetCode(err)),
			Message: err.Error(),
		})
		return domain.TransactionResult{}, err
	}

	span.SetAttributes(attribute.String("tx.hash", result.Hash))
	m.bus.Publish(ctx, domain.EventTransactionSent, result)

	m.monitor.Watch(m.lifecycleCtx(), result, func(tctx context.Context, final domain.TransactionResult) {
		switch final.Status {
		case domain.TxTimedOut:
			m.bus.Publish(tctx, domain.EventTransactionTimeout, final)
		default:
			m.bus.Publish(tctx, domain.EventTransactionConfirmed, final)
		}
		m.balances.Invalidate(tctx, state.Address)
	})

	return result, nil
}

// RequestConnection asks the host to prompt the user for wallet access.
func (m *Manager) RequestConnection(ctx context.Context) error {
	if err := m.gateway.RequestConnection(ctx); err != nil {
		m.log.Warn(ctx, "connection request failed", "error", err)
		return err
	}
	m.bus.Publish(ctx, domain.EventConnectionRequested, m.GetCurrentState())
	return nil
}

// GetCurrentState returns the current snapshot. It never performs I/O.
func (m *Manager) GetCurrentState() domain.ConnectionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// RetryDetection cancels any detection still in flight, clears the
// attempt counter and starts discovery over.
func (m *Manager) RetryDetection(ctx context.Context) domain.ConnectionState {
	m.mu.Lock()
	if m.detectCancel != nil {
		m.detectCancel()
	}
	m.mu.Unlock()

	m.discovery.Reset()
	m.log.Info(ctx, "retrying wallet detection")

	next, err := m.runDetection(ctx)
	if err != nil {
		return m.GetCurrentState()
	}
	return next
}

// Reset returns the manager to the initial disconnected state and stops
// balance polling. It always announces walletDisconnected.
func (m *Manager) Reset(ctx context.Context) {
	m.stopBalancePolling()
	m.discovery.Reset()

	next := domain.Disconnected()
	m.setState(next)
	m.log.Info(ctx, "wallet state reset")
	m.bus.Publish(ctx, domain.EventWalletDisconnected, next)
}

// Wait blocks until background goroutines have exited. Intended for
// shutdown after the lifecycle context is cancelled.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) setState(next domain.ConnectionState) {
	m.mu.Lock()
	m.state = next
	m.mu.Unlock()
}

func (m *Manager) lifecycleCtx() context.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lifecycle
}

func (m *Manager) disconnect(ctx context.Context, prev domain.ConnectionState) domain.ConnectionState {
	m.stopBalancePolling()
	next := domain.Disconnected()
	m.setState(next)
	if prev.Connected {
		m.log.Info(ctx, "wallet disconnected", "address", prev.Address)
		m.bus.Publish(ctx, domain.EventWalletDisconnected, next)
	}
	return next
}

// startBalancePolling refreshes the balance immediately and then on the
// configured interval until the connection changes or the lifecycle
// context ends. Any previous poll loop is stopped first.
func (m *Manager) startBalancePolling(state domain.ConnectionState) {
	m.stopBalancePolling()

	pctx, cancel := context.WithCancel(m.lifecycleCtx())
	m.mu.Lock()
	m.pollCancel = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		m.refreshBalance(pctx, state)

		ticker := time.NewTicker(m.cfg.BalancePollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-pctx.Done():
				return
			case <-ticker.C:
				m.refreshBalance(pctx, state)
			}
		}
	}()
}

func (m *Manager) stopBalancePolling() {
	m.mu.Lock()
	cancel := m.pollCancel
	m.pollCancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (m *Manager) refreshBalance(ctx context.Context, state domain.ConnectionState) {
	native := domain.NetworkFor(state.ChainID).NativeAsset

	balance, err := m.balances.Balance(ctx, state.Address, native)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.log.Warn(ctx, "balance refresh failed", "address", state.Address, "error", err)
		m.bus.Publish(ctx, domain.EventBalanceError, domain.WalletError{
			Code:    string(apperror.GetCode(err)),
			Message: err.Error(),
		})
		return
	}

	cur := m.GetCurrentState()
	if !cur.Connected || cur.Address != state.Address {
		return
	}
	if cur.Balance == balance {
		return
	}

	m.setState(cur.WithBalance(balance))
	m.bus.Publish(ctx, domain.EventBalanceUpdated, domain.BalanceUpdate{
		Address: state.Address,
		Balance: balance,
	})
}
