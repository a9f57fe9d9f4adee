package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/domain"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/apperror"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/logger"
)

// ReceiptReader fetches transaction receipts.
type ReceiptReader interface {
	GetTransactionReceipt(ctx context.Context, hash string) (*Receipt, error)
}

// MonitorConfig tunes receipt polling. Interval and attempt cap are
// explicit so tests can drive the state machine to a terminal state fast.
type MonitorConfig struct {
	GraceDelay   time.Duration
	PollInterval time.Duration
	MaxAttempts  int
}

// DefaultMonitorConfig returns sensible defaults (~5 minutes total).
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		GraceDelay:   2 * time.Second,
		PollInterval: 10 * time.Second,
		MaxAttempts:  30,
	}
}

// TerminalFunc receives the single terminal snapshot for a watched hash.
type TerminalFunc = func(ctx context.Context, result domain.TransactionResult)

// Monitor polls receipts for submitted transactions. Each hash owns one
// watcher goroutine with the state machine
// pending -> {success, failed, timed_out}; a terminal transition fires
// exactly one callback and ends polling for that hash.
type Monitor struct {
	reader ReceiptReader
	cfg    MonitorConfig
	log    logger.LoggerInterface

	mu      sync.Mutex
	watched map[string]bool // true once a terminal callback fired
	wg      sync.WaitGroup
}

// NewMonitor creates a monitor over the given receipt reader.
func NewMonitor(reader ReceiptReader, cfg MonitorConfig, log logger.LoggerInterface) *Monitor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Monitor{
		reader:  reader,
		cfg:     cfg,
		log:     log,
		watched: make(map[string]bool),
	}
}

// Watch starts polling for result's hash. Returns false when the hash is
// already being watched or has already reached a terminal state; once
// terminal, no further callbacks ever fire for that hash.
func (m *Monitor) Watch(ctx context.Context, result domain.TransactionResult, onTerminal TerminalFunc) bool {
	m.mu.Lock()
	if _, exists := m.watched[result.Hash]; exists {
		m.mu.Unlock()
		return false
	}
	m.watched[result.Hash] = false
	m.mu.Unlock()

	m.wg.Add(1)
	go m.poll(ctx, result, onTerminal)
	return true
}

// Watching reports whether hash has an active watcher still polling.
func (m *Monitor) Watching(hash string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	terminal, ok := m.watched[hash]
	return ok && !terminal
}

// Wait blocks until all watchers have reached a terminal state.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// settle tombstones the hash and fires the single terminal callback.
// The entry stays in watched so a later Watch for the same hash is
// refused instead of starting a second poller.
func (m *Monitor) settle(ctx context.Context, final domain.TransactionResult, onTerminal TerminalFunc) {
	m.mu.Lock()
	m.watched[final.Hash] = true
	m.mu.Unlock()
	onTerminal(ctx, final)
}

// release frees a hash that never reached a terminal state, so it can
// be watched again after a cancelled run.
func (m *Monitor) release(hash string) {
	m.mu.Lock()
	delete(m.watched, hash)
	m.mu.Unlock()
}

func (m *Monitor) poll(ctx context.Context, result domain.TransactionResult, onTerminal TerminalFunc) {
	defer m.wg.Done()

	if m.cfg.GraceDelay > 0 {
		select {
		case <-ctx.Done():
			m.release(result.Hash)
			return
		case <-time.After(m.cfg.GraceDelay):
		}
	}

	for attempt := 1; attempt <= m.cfg.MaxAttempts; attempt++ {
		receipt, err := m.reader.GetTransactionReceipt(ctx, result.Hash)
		switch {
		case err == nil && receipt.Success:
			m.log.Info(ctx, "transaction confirmed", "hash", result.Hash, "block", receipt.BlockNumber)
			m.settle(ctx, result.WithStatus(domain.TxSuccess, 1), onTerminal)
			return

		case err == nil:
			m.log.Warn(ctx, "transaction reverted", "hash", result.Hash, "block", receipt.BlockNumber)
			m.settle(ctx, result.WithStatus(domain.TxFailed, 1), onTerminal)
			return

		case apperror.IsCode(err, apperror.CodeReceiptNotFound):
			// Not mined yet, keep polling.

		default:
			m.log.Debug(ctx, "receipt poll failed",
				"hash", result.Hash,
				"attempt", attempt,
				"error", err,
			)
		}

		if attempt == m.cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			m.release(result.Hash)
			return
		case <-time.After(m.cfg.PollInterval):
		}
	}

	m.log.Warn(ctx, "transaction monitoring timed out", "hash", result.Hash, "attempts", m.cfg.MaxAttempts)
	m.settle(ctx, result.WithStatus(domain.TxTimedOut, 0), onTerminal)
}
