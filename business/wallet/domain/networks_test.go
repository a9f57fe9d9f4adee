package domain

import "testing"

func TestNetworkFor(t *testing.T) {
	tests := []struct {
		chainID string
		want    string
	}{
		{"8453", "Base"},
		{"0x2105", "Base"}, // hex form of 8453
		{"1", "Ethereum"},
		{"137", "Polygon"},
		{"84532", "Base Sepolia"},
		{"666666666", "Degen Chain"},
		{"999999", UnknownNetworkName},
		{"", UnknownNetworkName},
		{"not-a-chain", UnknownNetworkName},
	}

	for _, tt := range tests {
		if got := NetworkFor(tt.chainID).Name; got != tt.want {
			t.Errorf("NetworkFor(%q) = %s, want %s", tt.chainID, got, tt.want)
		}
	}
}

func TestNormalizeChainID(t *testing.T) {
	if got := NormalizeChainID("0x2105"); got != "8453" {
		t.Errorf("NormalizeChainID(0x2105) = %s, want 8453", got)
	}
	if got := NormalizeChainID("8453"); got != "8453" {
		t.Errorf("NormalizeChainID(8453) = %s, want 8453", got)
	}
	if got := NormalizeChainID("0xzz"); got != "0xzz" {
		t.Errorf("unparseable hex must pass through, got %s", got)
	}
}
