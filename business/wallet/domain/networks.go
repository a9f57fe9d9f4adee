package domain

import (
	"strconv"
	"strings"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/asset"
)

// Network describes a known chain.
type Network struct {
	Name        string
	NativeAsset *asset.Asset
}

// UnknownNetworkName is reported for chain ids outside the lookup table.
const UnknownNetworkName = "Unknown Network"

var networks = map[string]Network{
	"1":         {Name: "Ethereum", NativeAsset: asset.ETH},
	"10":        {Name: "OP Mainnet", NativeAsset: asset.ETH},
	"137":       {Name: "Polygon", NativeAsset: asset.MATIC},
	"8453":      {Name: "Base", NativeAsset: asset.ETH},
	"84532":     {Name: "Base Sepolia", NativeAsset: asset.ETH},
	"42161":     {Name: "Arbitrum One", NativeAsset: asset.ETH},
	"666666666": {Name: "Degen Chain", NativeAsset: asset.DEGEN},
}

// NetworkFor resolves a chain id (decimal or 0x-hex) to a known network,
// falling back to "Unknown Network" with ETH as the native asset.
func NetworkFor(chainID string) Network {
	if n, ok := networks[NormalizeChainID(chainID)]; ok {
		return n
	}
	return Network{Name: UnknownNetworkName, NativeAsset: asset.ETH}
}

// NormalizeChainID converts a 0x-hex chain id to its canonical decimal form.
// Values that do not parse are returned unchanged.
func NormalizeChainID(chainID string) string {
	if strings.HasPrefix(chainID, "0x") || strings.HasPrefix(chainID, "0X") {
		if v, err := strconv.ParseUint(chainID[2:], 16, 64); err == nil {
			return strconv.FormatUint(v, 10)
		}
	}
	return chainID
}
