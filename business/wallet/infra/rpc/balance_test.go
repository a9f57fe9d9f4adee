package rpc

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/apperror"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/asset"
)

type fakeBalanceReader struct {
	balance *big.Int
	err     error
	calls   atomic.Int32
}

func (f *fakeBalanceReader) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return new(big.Int).Set(f.balance), nil
}

func TestBalanceService_FormatsMajorUnits(t *testing.T) {
	wei, _ := new(big.Int).SetString("1500000000000000000", 10)
	reader := &fakeBalanceReader{balance: wei}

	svc := NewBalanceService(reader, time.Minute, &mockLogger{})
	defer svc.Close()

	got, err := svc.Balance(context.Background(), "0xaa", asset.ETH)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if got != "1.5 ETH" {
		t.Errorf("balance = %q, want %q", got, "1.5 ETH")
	}
}

func TestBalanceService_CachesPerAddress(t *testing.T) {
	reader := &fakeBalanceReader{balance: big.NewInt(1e18)}

	svc := NewBalanceService(reader, time.Minute, &mockLogger{})
	defer svc.Close()

	ctx := context.Background()
	if _, err := svc.Balance(ctx, "0xaa", asset.ETH); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Balance(ctx, "0xaa", asset.ETH); err != nil {
		t.Fatal(err)
	}
	if got := reader.calls.Load(); got != 1 {
		t.Errorf("reader calls = %d, want 1 (second read served from cache)", got)
	}

	// A different address misses the cache.
	if _, err := svc.Balance(ctx, "0xbb", asset.ETH); err != nil {
		t.Fatal(err)
	}
	if got := reader.calls.Load(); got != 2 {
		t.Errorf("reader calls = %d, want 2", got)
	}
}

func TestBalanceService_Invalidate(t *testing.T) {
	reader := &fakeBalanceReader{balance: big.NewInt(1e18)}

	svc := NewBalanceService(reader, time.Minute, &mockLogger{})
	defer svc.Close()

	ctx := context.Background()
	if _, err := svc.Balance(ctx, "0xaa", asset.ETH); err != nil {
		t.Fatal(err)
	}

	svc.Invalidate(ctx, "0xaa")

	if _, err := svc.Balance(ctx, "0xaa", asset.ETH); err != nil {
		t.Fatal(err)
	}
	if got := reader.calls.Load(); got != 2 {
		t.Errorf("reader calls = %d, want 2 after invalidation", got)
	}
}

func TestBalanceService_FetchFailure(t *testing.T) {
	reader := &fakeBalanceReader{err: errors.New("all endpoints down")}

	svc := NewBalanceService(reader, time.Minute, &mockLogger{})
	defer svc.Close()

	_, err := svc.Balance(context.Background(), "0xaa", asset.ETH)
	if !apperror.IsCode(err, apperror.CodeBalanceFetchFailed) {
		t.Fatalf("expected BalanceFetchFailed, got %v", err)
	}
}
