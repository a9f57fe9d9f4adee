package asset

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNilAsset       = errors.New("asset: nil asset")
	ErrNilRaw         = errors.New("asset: nil raw value")
	ErrNegativeAmount = errors.New("asset: negative amount")
)

// Amount is an immutable value object representing a quantity of an asset.
// The raw value is always in the smallest unit (wei).
type Amount struct {
	raw   *big.Int
	asset *Asset
}

// NewAmount creates a new Amount from a raw big.Int value in the smallest unit.
func NewAmount(a *Asset, raw *big.Int) Amount {
	if a == nil {
		panic(ErrNilAsset)
	}
	if raw == nil {
		panic(ErrNilRaw)
	}
	if raw.Sign() < 0 {
		panic(ErrNegativeAmount)
	}

	return Amount{
		raw:   new(big.Int).Set(raw), // defensive copy
		asset: a,
	}
}

// Zero creates a zero Amount for the given asset.
func Zero(a *Asset) Amount {
	return NewAmount(a, big.NewInt(0))
}

// Raw returns a copy of the raw value in the smallest unit.
func (am Amount) Raw() *big.Int {
	return new(big.Int).Set(am.raw)
}

// Asset returns the amount's asset.
func (am Amount) Asset() *Asset {
	return am.asset
}

// IsZero reports whether the amount is zero.
func (am Amount) IsZero() bool {
	return am.raw.Sign() == 0
}

// Decimal returns the amount in asset-major units.
func (am Amount) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(am.raw, -int32(am.asset.Decimals()))
}

// Major returns the amount formatted in asset-major units without the symbol,
// e.g. "1.5".
func (am Amount) Major() string {
	return am.Decimal().String()
}

// String returns the amount with its symbol, e.g. "1.5 ETH".
func (am Amount) String() string {
	return am.Major() + " " + am.asset.Symbol()
}
