package port

import (
	"context"

	"chainfolio/internal/domain/entity"
)

// InsightGenerator produces an AI assessment for a portfolio snapshot. The
// core treats it as an opaque request/response collaborator; whether the
// implementation calls a hosted LLM or returns canned content is decided
// once at startup.
type InsightGenerator interface {
	Generate(ctx context.Context, snapshot entity.PortfolioSnapshot, profile entity.UserProfile) (entity.InsightAssessment, error)
}

// InsightRepository is the append-only history store for saved assessments.
type InsightRepository interface {
	Save(ctx context.Context, record entity.InsightRecord) (int64, error)
	History(ctx context.Context, walletAddress string, query entity.HistoryQuery) (entity.HistoryPage, error)
	Latest(ctx context.Context, walletAddress string) (*entity.InsightRecord, error)
	// LatestTwo returns up to two most recent records, newest first.
	LatestTwo(ctx context.Context, walletAddress string) ([]entity.InsightRecord, error)
	Trend(ctx context.Context, walletAddress string, days int) ([]entity.TrendPoint, error)
	Stats(ctx context.Context, walletAddress string) (entity.InsightStats, error)
}
