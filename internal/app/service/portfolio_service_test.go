package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"chainfolio/internal/domain/entity"
	"chainfolio/internal/infrastructure/registry"

	"go.uber.org/zap"
)

const testAddress = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

// fakeGateway routes calls to a per-method function. Safe for concurrent use
// as long as the functions are.
type fakeGateway struct {
	call func(chainID uint64, method string, params []any) (json.RawMessage, error)
}

func (f *fakeGateway) Call(_ context.Context, chainID uint64, method string, params []any) (json.RawMessage, error) {
	return f.call(chainID, method, params)
}

func balanceOnlyGateway(balances map[uint64]string) *fakeGateway {
	return &fakeGateway{call: func(chainID uint64, method string, _ []any) (json.RawMessage, error) {
		if method != "eth_getBalance" {
			return nil, fmt.Errorf("unexpected method %s", method)
		}
		hex, ok := balances[chainID]
		if !ok {
			return nil, fmt.Errorf("no balance for chain %d", chainID)
		}
		return json.RawMessage(`"` + hex + `"`), nil
	}}
}

func newAggregator(t *testing.T, gw *fakeGateway, enrich bool) *PortfolioService {
	t.Helper()
	return NewPortfolioService(registry.NewChainRegistry(), gw, zap.NewNop(), 4, enrich, 10)
}

func TestAggregateRejectsInvalidAddress(t *testing.T) {
	svc := newAggregator(t, balanceOnlyGateway(nil), false)
	_, err := svc.Aggregate(context.Background(), "not-an-address", []uint64{1})
	if !errors.Is(err, entity.ErrInvalidAddress) {
		t.Fatalf("error = %v, want ErrInvalidAddress", err)
	}
}

func TestAggregateRejectsEmptyChainList(t *testing.T) {
	svc := newAggregator(t, balanceOnlyGateway(nil), false)
	_, err := svc.Aggregate(context.Background(), testAddress, nil)
	if !errors.Is(err, entity.ErrEmptyChainList) {
		t.Fatalf("error = %v, want ErrEmptyChainList", err)
	}
}

func TestAggregateCollectsNativeBalances(t *testing.T) {
	gw := balanceOnlyGateway(map[uint64]string{
		1:   "0xde0b6b3a7640000", // 1 ETH
		137: "0x0",
	})
	svc := newAggregator(t, gw, false)

	snapshot, err := svc.Aggregate(context.Background(), testAddress, []uint64{1, 137})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if snapshot.WalletAddress != strings.ToLower(testAddress) {
		t.Errorf("WalletAddress = %q, want lowercase of input", snapshot.WalletAddress)
	}
	if len(snapshot.AssetLines) != 2 {
		t.Fatalf("line count = %d, want 2", len(snapshot.AssetLines))
	}
	if snapshot.ConnectedChainCount != 2 {
		t.Errorf("ConnectedChainCount = %d, want 2", snapshot.ConnectedChainCount)
	}

	eth := snapshot.AssetLines[0]
	if eth.ChainID != 1 || eth.Symbol != "ETH" || eth.Formatted != "1" {
		t.Errorf("eth line = %+v", eth)
	}
	polygon := snapshot.AssetLines[1]
	if polygon.ChainID != 137 || polygon.Formatted != "0" {
		t.Errorf("polygon line = %+v", polygon)
	}
	if polygon.HasBalance() {
		t.Error("zero balance reported as held")
	}
}

func TestAggregateSkipsUnsupportedChains(t *testing.T) {
	gw := balanceOnlyGateway(map[uint64]string{1: "0x1"})
	svc := newAggregator(t, gw, false)

	snapshot, err := svc.Aggregate(context.Background(), testAddress, []uint64{1, 999999})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(snapshot.AssetLines) != 1 {
		t.Fatalf("line count = %d, want 1", len(snapshot.AssetLines))
	}
	if snapshot.AssetLines[0].ChainID != 1 {
		t.Errorf("kept chain = %d, want 1", snapshot.AssetLines[0].ChainID)
	}
}

func TestAggregateRecordsFetchErrors(t *testing.T) {
	gw := &fakeGateway{call: func(chainID uint64, method string, _ []any) (json.RawMessage, error) {
		if chainID == 137 {
			return nil, errors.New("all endpoints failed")
		}
		return json.RawMessage(`"0x1"`), nil
	}}
	svc := newAggregator(t, gw, false)

	snapshot, err := svc.Aggregate(context.Background(), testAddress, []uint64{1, 137})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if snapshot.ConnectedChainCount != 1 {
		t.Errorf("ConnectedChainCount = %d, want 1", snapshot.ConnectedChainCount)
	}

	failed := snapshot.AssetLines[1]
	if failed.FetchError == "" {
		t.Error("failed chain has no FetchError")
	}
	if failed.RawAmount.Sign() != 0 {
		t.Error("failed chain has nonzero amount")
	}
	if failed.HasBalance() {
		t.Error("failed chain reported as held")
	}
}

func TestAggregateEnrichesMainnetChains(t *testing.T) {
	gw := &fakeGateway{call: func(chainID uint64, method string, params []any) (json.RawMessage, error) {
		switch method {
		case "eth_getBalance":
			return json.RawMessage(`"0xde0b6b3a7640000"`), nil
		case "alchemy_getTokenBalances":
			return json.RawMessage(`{
				"address": "` + strings.ToLower(testAddress) + `",
				"tokenBalances": [
					{"contractAddress": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "tokenBalance": "0x0000000000000000000000000000000000000000000000000000000005f5e100"},
					{"contractAddress": "0x0000000000000000000000000000000000000001", "tokenBalance": "0x0"},
					{"contractAddress": "0x0000000000000000000000000000000000000002", "tokenBalance": "0x1", "error": "contract reverted"}
				]
			}`), nil
		case "alchemy_getTokenMetadata":
			return json.RawMessage(`{"name": "USD Coin", "symbol": "USDC", "decimals": 6}`), nil
		case "alchemy_getNFTs":
			return json.RawMessage(`{"ownedNfts": [], "totalCount": 3}`), nil
		}
		return nil, fmt.Errorf("unexpected method %s", method)
	}}
	svc := newAggregator(t, gw, true)

	snapshot, err := svc.Aggregate(context.Background(), testAddress, []uint64{1})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(snapshot.AssetLines) != 3 {
		t.Fatalf("line count = %d, want 3 (native, token, nft)", len(snapshot.AssetLines))
	}

	if snapshot.AssetLines[0].Kind != entity.AssetNative {
		t.Errorf("first line kind = %q, want native", snapshot.AssetLines[0].Kind)
	}

	token := snapshot.AssetLines[1]
	if token.Kind != entity.AssetToken || token.Symbol != "USDC" || token.Formatted != "100" {
		t.Errorf("token line = %+v", token)
	}

	nft := snapshot.AssetLines[2]
	if nft.Kind != entity.AssetNFT || nft.Formatted != "3" {
		t.Errorf("nft line = %+v", nft)
	}
}

func TestAggregateSkipsEnrichmentOnTestnets(t *testing.T) {
	gw := &fakeGateway{call: func(chainID uint64, method string, _ []any) (json.RawMessage, error) {
		if method != "eth_getBalance" {
			t.Errorf("enrichment method %s called on testnet", method)
			return nil, errors.New("unexpected call")
		}
		return json.RawMessage(`"0x1"`), nil
	}}
	svc := newAggregator(t, gw, true)

	snapshot, err := svc.Aggregate(context.Background(), testAddress, []uint64{11155111})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(snapshot.AssetLines) != 1 {
		t.Errorf("line count = %d, want 1", len(snapshot.AssetLines))
	}
}

func TestAggregateEnrichmentFailureIsAbsorbed(t *testing.T) {
	gw := &fakeGateway{call: func(chainID uint64, method string, _ []any) (json.RawMessage, error) {
		if method == "eth_getBalance" {
			return json.RawMessage(`"0x1"`), nil
		}
		return nil, errors.New("method not supported on public endpoint")
	}}
	svc := newAggregator(t, gw, true)

	snapshot, err := svc.Aggregate(context.Background(), testAddress, []uint64{1})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(snapshot.AssetLines) != 1 {
		t.Errorf("line count = %d, want 1 (native only)", len(snapshot.AssetLines))
	}
	if snapshot.ConnectedChainCount != 1 {
		t.Errorf("ConnectedChainCount = %d, want 1", snapshot.ConnectedChainCount)
	}
}
