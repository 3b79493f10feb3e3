package port

import (
	"context"

	"chainfolio/internal/domain/entity"
)

// PortfolioAggregator produces a portfolio snapshot for one wallet address
// across a set of requested chains.
type PortfolioAggregator interface {
	// Aggregate fans out balance queries across the requested chains and
	// collects partial failures as data. It fails only for a malformed
	// address or an empty chain list.
	Aggregate(ctx context.Context, address string, chainIDs []uint64) (entity.PortfolioSnapshot, error)
}

// HealthScorer derives a 0-100 health assessment from a priced snapshot.
type HealthScorer interface {
	Score(snapshot entity.PortfolioSnapshot, profile entity.RiskProfile) entity.HealthAssessment
}
