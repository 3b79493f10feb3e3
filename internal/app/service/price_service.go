package service

import (
	"context"

	"chainfolio/internal/app/port"
	"chainfolio/internal/domain/entity"
	"chainfolio/internal/pkg/utils"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// PriceService implements port.PriceEnricher. It attaches USD valuations to
// native asset lines and recomputes the snapshot total. Price availability is
// strictly best-effort: a failed or partial quote fetch leaves the affected
// lines unpriced, it never fails the portfolio request.
type PriceService struct {
	registry port.ChainRegistry
	source   port.PriceSource
	logger   *zap.Logger
}

func NewPriceService(registry port.ChainRegistry, source port.PriceSource, logger *zap.Logger) *PriceService {
	return &PriceService{
		registry: registry,
		source:   source,
		logger:   logger.Named("PriceService"),
	}
}

// Enrich mutates the snapshot in place: UsdValue on priceable lines and
// TotalUsdValue over everything that got a price.
func (s *PriceService) Enrich(ctx context.Context, snapshot *entity.PortfolioSnapshot) {
	keys := lo.Uniq(lo.FilterMap(snapshot.AssetLines, func(line entity.AssetLine, _ int) (string, bool) {
		if !line.IsNative() || !line.HasBalance() {
			return "", false
		}
		desc, ok := s.registry.Describe(line.ChainID)
		if !ok || desc.PriceFeedKey == "" {
			return "", false
		}
		return desc.PriceFeedKey, true
	}))
	if len(keys) == 0 {
		snapshot.RecomputeTotal()
		return
	}

	quotes, err := s.source.SimplePrices(ctx, keys)
	if err != nil {
		// Missing prices are a degraded mode, not a failure.
		s.logger.Debug("Price lookup failed, serving unpriced snapshot",
			zap.String("wallet", snapshot.WalletAddress), zap.Error(err))
		snapshot.RecomputeTotal()
		return
	}

	for i := range snapshot.AssetLines {
		line := &snapshot.AssetLines[i]
		if !line.IsNative() || !line.HasBalance() {
			continue
		}
		desc, ok := s.registry.Describe(line.ChainID)
		if !ok {
			continue
		}
		quote, ok := quotes[desc.PriceFeedKey]
		if !ok {
			continue
		}
		usd := utils.ToUnits(line.RawAmount, line.Decimals).Mul(quote.Usd)
		line.UsdValue = &usd
	}
	snapshot.RecomputeTotal()
}
