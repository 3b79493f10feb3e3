package port

import (
	"context"

	"chainfolio/internal/domain/entity"
)

// PriceSource fetches current and historical market data for feed keys.
// Implementations are expected to cache internally; a miss for one key must
// not fail the whole lookup.
type PriceSource interface {
	// SimplePrices returns current quotes for the given feed keys. Keys the
	// upstream does not know are absent from the result, not errors.
	SimplePrices(ctx context.Context, feedKeys []string) (map[string]entity.PriceQuote, error)

	// DailySeries returns the historical daily price series for one feed key
	// over the trailing number of days.
	DailySeries(ctx context.Context, feedKey string, days int) ([]entity.SeriesPoint, error)
}

// PriceEnricher attaches USD valuations to a snapshot's asset lines.
type PriceEnricher interface {
	// Enrich fills UsdValue on every line with a resolvable feed key and
	// recomputes the snapshot total. Price failures leave lines unvalued.
	Enrich(ctx context.Context, snapshot *entity.PortfolioSnapshot)
}
