package service

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"testing"

	"chainfolio/internal/domain/entity"
	"chainfolio/internal/infrastructure/registry"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fakePriceSource struct {
	quotes    map[string]entity.PriceQuote
	err       error
	lastQuery []string
}

func (f *fakePriceSource) SimplePrices(_ context.Context, feedKeys []string) (map[string]entity.PriceQuote, error) {
	f.lastQuery = feedKeys
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

func (f *fakePriceSource) DailySeries(_ context.Context, feedKey string, days int) ([]entity.SeriesPoint, error) {
	return nil, nil
}

func nativeLine(chainID uint64, rawWei string) entity.AssetLine {
	amount, _ := new(big.Int).SetString(rawWei, 10)
	return entity.AssetLine{
		ChainID:   chainID,
		Kind:      entity.AssetNative,
		RawAmount: amount,
		Decimals:  18,
	}
}

func TestEnrichAttachesUsdValues(t *testing.T) {
	source := &fakePriceSource{quotes: map[string]entity.PriceQuote{
		"ethereum":      {FeedKey: "ethereum", Usd: decimal.NewFromInt(2500)},
		"matic-network": {FeedKey: "matic-network", Usd: decimal.RequireFromString("0.5")},
	}}
	svc := NewPriceService(registry.NewChainRegistry(), source, zap.NewNop())

	snapshot := entity.PortfolioSnapshot{AssetLines: []entity.AssetLine{
		nativeLine(1, "2000000000000000000"),   // 2 ETH
		nativeLine(137, "10000000000000000000"), // 10 MATIC
	}}
	svc.Enrich(context.Background(), &snapshot)

	if snapshot.AssetLines[0].UsdValue == nil || !snapshot.AssetLines[0].UsdValue.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("eth usd = %v, want 5000", snapshot.AssetLines[0].UsdValue)
	}
	if snapshot.AssetLines[1].UsdValue == nil || !snapshot.AssetLines[1].UsdValue.Equal(decimal.NewFromInt(5)) {
		t.Errorf("matic usd = %v, want 5", snapshot.AssetLines[1].UsdValue)
	}
	if !snapshot.TotalUsdValue.Equal(decimal.NewFromInt(5005)) {
		t.Errorf("total = %s, want 5005", snapshot.TotalUsdValue)
	}
}

func TestEnrichDeduplicatesFeedKeys(t *testing.T) {
	source := &fakePriceSource{quotes: map[string]entity.PriceQuote{
		"ethereum": {FeedKey: "ethereum", Usd: decimal.NewFromInt(2500)},
	}}
	svc := NewPriceService(registry.NewChainRegistry(), source, zap.NewNop())

	// Three chains sharing the same feed asset.
	snapshot := entity.PortfolioSnapshot{AssetLines: []entity.AssetLine{
		nativeLine(1, "1000000000000000000"),
		nativeLine(42161, "1000000000000000000"),
		nativeLine(10, "1000000000000000000"),
	}}
	svc.Enrich(context.Background(), &snapshot)

	sort.Strings(source.lastQuery)
	if len(source.lastQuery) != 1 || source.lastQuery[0] != "ethereum" {
		t.Errorf("queried keys = %v, want [ethereum]", source.lastQuery)
	}
	if !snapshot.TotalUsdValue.Equal(decimal.NewFromInt(7500)) {
		t.Errorf("total = %s, want 7500", snapshot.TotalUsdValue)
	}
}

func TestEnrichSkipsZeroAndErroredLines(t *testing.T) {
	source := &fakePriceSource{quotes: map[string]entity.PriceQuote{
		"ethereum": {FeedKey: "ethereum", Usd: decimal.NewFromInt(2500)},
	}}
	svc := NewPriceService(registry.NewChainRegistry(), source, zap.NewNop())

	errored := nativeLine(1, "1000000000000000000")
	errored.FetchError = "all endpoints failed"

	snapshot := entity.PortfolioSnapshot{AssetLines: []entity.AssetLine{
		errored,
		nativeLine(137, "0"),
	}}
	svc.Enrich(context.Background(), &snapshot)

	if len(source.lastQuery) != 0 {
		t.Errorf("queried keys = %v, want none", source.lastQuery)
	}
	for i, line := range snapshot.AssetLines {
		if line.UsdValue != nil {
			t.Errorf("line %d got a usd value", i)
		}
	}
	if !snapshot.TotalUsdValue.IsZero() {
		t.Errorf("total = %s, want 0", snapshot.TotalUsdValue)
	}
}

func TestEnrichSurvivesSourceFailure(t *testing.T) {
	source := &fakePriceSource{err: errors.New("rate limited")}
	svc := NewPriceService(registry.NewChainRegistry(), source, zap.NewNop())

	snapshot := entity.PortfolioSnapshot{AssetLines: []entity.AssetLine{
		nativeLine(1, "1000000000000000000"),
	}}
	svc.Enrich(context.Background(), &snapshot)

	if snapshot.AssetLines[0].UsdValue != nil {
		t.Error("line priced despite source failure")
	}
	if !snapshot.TotalUsdValue.IsZero() {
		t.Errorf("total = %s, want 0", snapshot.TotalUsdValue)
	}
}

func TestEnrichLeavesUnquotedLinesUnpriced(t *testing.T) {
	source := &fakePriceSource{quotes: map[string]entity.PriceQuote{
		"ethereum": {FeedKey: "ethereum", Usd: decimal.NewFromInt(2500)},
	}}
	svc := NewPriceService(registry.NewChainRegistry(), source, zap.NewNop())

	snapshot := entity.PortfolioSnapshot{AssetLines: []entity.AssetLine{
		nativeLine(1, "1000000000000000000"),
		nativeLine(43114, "1000000000000000000"), // no avalanche-2 quote returned
	}}
	svc.Enrich(context.Background(), &snapshot)

	if snapshot.AssetLines[0].UsdValue == nil {
		t.Error("quoted line not priced")
	}
	if snapshot.AssetLines[1].UsdValue != nil {
		t.Error("unquoted line priced")
	}
	if !snapshot.TotalUsdValue.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("total = %s, want 2500", snapshot.TotalUsdValue)
	}
}
