package registry

import (
	"testing"

	"chainfolio/internal/domain/entity"
)

func TestChainRegistryDescribe(t *testing.T) {
	r := NewChainRegistry()

	tests := []struct {
		name       string
		chainID    uint64
		wantName   string
		wantSymbol string
		wantClass  entity.NetworkClass
		wantOK     bool
	}{
		{"ethereum", 1, "Ethereum", "ETH", entity.Mainnet, true},
		{"polygon", 137, "Polygon", "MATIC", entity.Mainnet, true},
		{"bsc", 56, "BSC", "BNB", entity.Mainnet, true},
		{"scroll", 534352, "Scroll", "ETH", entity.Mainnet, true},
		{"sepolia", 11155111, "Sepolia", "ETH", entity.Testnet, true},
		{"avalanche fuji", 43113, "Avalanche Fuji", "AVAX", entity.Testnet, true},
		{"unknown", 999999, "", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, ok := r.Describe(tt.chainID)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if desc.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", desc.Name, tt.wantName)
			}
			if desc.NativeSymbol != tt.wantSymbol {
				t.Errorf("NativeSymbol = %q, want %q", desc.NativeSymbol, tt.wantSymbol)
			}
			if desc.NetworkClass != tt.wantClass {
				t.Errorf("NetworkClass = %v, want %v", desc.NetworkClass, tt.wantClass)
			}
		})
	}
}

func TestChainRegistryListing(t *testing.T) {
	r := NewChainRegistry()

	if got := len(r.All()); got != 18 {
		t.Errorf("All() returned %d chains, want 18", got)
	}
	if got := len(r.ListByClass(entity.Mainnet)); got != 10 {
		t.Errorf("mainnet count = %d, want 10", got)
	}
	if got := len(r.ListByClass(entity.Testnet)); got != 8 {
		t.Errorf("testnet count = %d, want 8", got)
	}

	all := r.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].ChainID >= all[i].ChainID {
			t.Fatalf("All() not ordered by chain id: %d before %d", all[i-1].ChainID, all[i].ChainID)
		}
	}
}

func TestChainRegistryPriceFeedKeys(t *testing.T) {
	r := NewChainRegistry()
	for _, desc := range r.All() {
		if desc.PriceFeedKey == "" {
			t.Errorf("chain %d (%s) has no price feed key", desc.ChainID, desc.Name)
		}
	}
}
