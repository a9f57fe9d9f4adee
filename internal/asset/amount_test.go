package asset

import (
	"math/big"
	"testing"
)

func TestAmount_Major(t *testing.T) {
	tests := []struct {
		name string
		wei  string
		want string
	}{
		{"one ether", "1000000000000000000", "1"},
		{"one and a half", "1500000000000000000", "1.5"},
		{"one wei", "1", "0.000000000000000001"},
		{"zero", "0", "0"},
		{"gwei scale", "21000000000000", "0.000021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ok := new(big.Int).SetString(tt.wei, 10)
			if !ok {
				t.Fatalf("bad test value %q", tt.wei)
			}
			am := NewAmount(ETH, raw)
			if got := am.Major(); got != tt.want {
				t.Errorf("Major() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAmount_String(t *testing.T) {
	am := NewAmount(ETH, big.NewInt(2500000000000000000))
	if got := am.String(); got != "2.5 ETH" {
		t.Errorf("String() = %q, want %q", got, "2.5 ETH")
	}
}

func TestAmount_RawIsDefensiveCopy(t *testing.T) {
	raw := big.NewInt(100)
	am := NewAmount(ETH, raw)

	raw.SetInt64(999)
	if am.Raw().Int64() != 100 {
		t.Error("constructor did not copy the raw value")
	}

	am.Raw().SetInt64(777)
	if am.Raw().Int64() != 100 {
		t.Error("Raw() did not return a copy")
	}
}

func TestNewAmount_PanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative amount")
		}
	}()
	NewAmount(ETH, big.NewInt(-1))
}
