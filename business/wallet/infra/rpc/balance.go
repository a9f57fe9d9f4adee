package rpc

import (
	"context"
	"math/big"
	"time"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/apperror"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/asset"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/cache"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/logger"
)

// BalanceReader reads a native-asset balance in wei.
type BalanceReader interface {
	GetBalance(ctx context.Context, address string) (*big.Int, error)
}

// BalanceService formats native-asset balances, caching the last
// successful result per address. Callers decide refresh cadence; the
// cache only shields bursts.
type BalanceService struct {
	reader BalanceReader
	cache  *cache.Cache[string, string]
	ttl    time.Duration
	log    logger.LoggerInterface
}

// NewBalanceService creates a balance service with the given cache TTL.
func NewBalanceService(reader BalanceReader, ttl time.Duration, log logger.LoggerInterface) *BalanceService {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &BalanceService{
		reader: reader,
		cache:  cache.New[string, string](ttl),
		ttl:    ttl,
		log:    log,
	}
}

// Balance returns the formatted major-unit balance for address, e.g.
// "1.5 ETH". All endpoints failing surfaces CodeBalanceFetchFailed.
func (s *BalanceService) Balance(ctx context.Context, address string, native *asset.Asset) (string, error) {
	if cached, ok := s.cache.Get(ctx, address); ok {
		return cached, nil
	}

	wei, err := s.reader.GetBalance(ctx, address)
	if err != nil {
		return "", apperror.Wrap(err, apperror.CodeBalanceFetchFailed, "address: "+address)
	}

	formatted := asset.NewAmount(native, wei).String()
	s.cache.Set(ctx, address, formatted, s.ttl)

	s.log.Debug(ctx, "balance fetched", "address", address, "balance", formatted)
	return formatted, nil
}

// Invalidate drops the cached balance for address.
func (s *BalanceService) Invalidate(ctx context.Context, address string) {
	s.cache.Delete(ctx, address)
}

// Close releases the cache janitor.
func (s *BalanceService) Close() {
	s.cache.Close()
}
