// Package asset provides typed asset metadata and amount formatting.
package asset

// Asset represents the metadata of a native chain asset.
// The symbol is display metadata, not identity.
type Asset struct {
	symbol   string
	name     string
	decimals uint8
}

// New creates a new Asset with the given parameters.
func New(symbol, name string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > 30 {
		panic("asset: suspicious decimals (>30)")
	}

	return &Asset{
		symbol:   symbol,
		name:     name,
		decimals: decimals,
	}
}

// Symbol returns the ticker symbol (e.g., "ETH").
func (a *Asset) Symbol() string {
	return a.symbol
}

// Name returns the human-readable name (e.g., "Ether").
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

// Decimals returns the number of decimal places.
func (a *Asset) Decimals() uint8 {
	return a.decimals
}

// Well-known native assets.
var (
	ETH   = New("ETH", "Ether", 18)
	MATIC = New("MATIC", "Polygon", 18)
	DEGEN = New("DEGEN", "Degen", 18)
)
