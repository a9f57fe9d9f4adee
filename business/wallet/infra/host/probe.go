package host

import (
	"context"
	"sync"
	"time"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/domain"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/logger"
)

// ProbeConfig tunes discovery retries.
type ProbeConfig struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

// DefaultProbeConfig returns sensible defaults.
func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		MaxAttempts: 12,
	}
}

// Probe locates a usable wallet handle among the candidate exposure
// points, retrying with backoff while the host surface is indeterminate.
type Probe struct {
	bridge Bridge
	cfg    ProbeConfig
	log    logger.LoggerInterface

	mu       sync.Mutex
	attempts int
}

// NewProbe creates a probe over the given bridge.
func NewProbe(bridge Bridge, cfg ProbeConfig, log logger.LoggerInterface) *Probe {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.MaxDelay < cfg.BaseDelay {
		cfg.MaxDelay = cfg.BaseDelay
	}
	return &Probe{bridge: bridge, cfg: cfg, log: log}
}

// DetectOnce runs a single pass over the candidate list. Bridge errors
// are logged and swallowed: an unreachable host reads as "nothing found".
func (p *Probe) DetectOnce(ctx context.Context) (*domain.DiscoveredWallet, bool) {
	scope, err := p.bridge.Scope(ctx)
	if err != nil {
		p.log.Debug(ctx, "host scope unavailable", "error", err)
		return nil, false
	}

	for _, c := range Candidates() {
		handle := c.Lookup(scope)
		if !handle.Usable() {
			continue
		}

		p.log.Info(ctx, "wallet handle found",
			"source", c.Name,
			"method", string(c.Method),
			"weight", c.Weight,
		)
		return &domain.DiscoveredWallet{
			Address: handle.Address,
			ChainID: handle.ChainID,
			Method:  c.Method,
			Source:  c.Name,
		}, true
	}

	return nil, false
}

// Detect probes with backoff up to the attempt cap. Exhaustion is not an
// error: it returns (nil, nil) and the caller settles into a terminal
// disconnected state. The only error returned is context cancellation.
func (p *Probe) Detect(ctx context.Context) (*domain.DiscoveredWallet, error) {
	for {
		p.mu.Lock()
		p.attempts++
		attempt := p.attempts
		p.mu.Unlock()

		if res, ok := p.DetectOnce(ctx); ok {
			res.Attempts = attempt
			return res, nil
		}

		p.log.Debug(ctx, "wallet detection attempt failed",
			"attempt", attempt,
			"max_attempts", p.cfg.MaxAttempts,
		)

		if attempt >= p.cfg.MaxAttempts {
			p.log.Warn(ctx, "wallet detection exhausted", "attempts", attempt)
			return nil, nil
		}

		// Backoff scales linearly with the attempt count, capped.
		delay := p.cfg.BaseDelay * time.Duration(attempt)
		if delay > p.cfg.MaxDelay {
			delay = p.cfg.MaxDelay
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// Attempts returns the total attempts made since the last reset.
func (p *Probe) Attempts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

// Reset clears the attempt counter so detection can start fresh.
func (p *Probe) Reset() {
	p.mu.Lock()
	p.attempts = 0
	p.mu.Unlock()
}
