package utils

import (
	"math/big"
	"testing"
)

func TestParseHexQuantity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"one ether", "0xde0b6b3a7640000", "1000000000000000000", false},
		{"zero", "0x0", "0", false},
		{"empty quantity", "0x", "0", false},
		{"zero padded word", "0x0000000000000000000000000000000000000000000000000de0b6b3a7640000", "1000000000000000000", false},
		{"no prefix", "1a", "26", false},
		{"uppercase digits", "0xDEADBEEF", "3735928559", false},
		{"empty string", "", "0", false},
		{"garbage", "0xzz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHexQuantity(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.String() != tt.want {
				t.Errorf("ParseHexQuantity(%q) = %s, want %s", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestFormatUnits(t *testing.T) {
	wei := func(s string) *big.Int {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			t.Fatalf("bad test amount %q", s)
		}
		return v
	}

	tests := []struct {
		name     string
		amount   *big.Int
		decimals uint8
		want     string
	}{
		{"one ether", wei("1000000000000000000"), 18, "1"},
		{"fractional", wei("1500000000000000000"), 18, "1.5"},
		{"small remainder", wei("1000000000000000001"), 18, "1.000000000000000001"},
		{"zero", big.NewInt(0), 18, "0"},
		{"six decimals", wei("1234567"), 6, "1.234567"},
		{"no decimals", big.NewInt(42), 0, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatUnits(tt.amount, tt.decimals); got != tt.want {
				t.Errorf("FormatUnits = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToUnits(t *testing.T) {
	amount := big.NewInt(1500000)
	got := ToUnits(amount, 6)
	if got.String() != "1.5" {
		t.Errorf("ToUnits = %s, want 1.5", got.String())
	}
}
