package service

import (
	"context"
	"fmt"
	"time"

	"chainfolio/internal/app/port"
	"chainfolio/internal/domain/entity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InsightService orchestrates the portfolio, scoring, generation and history
// concerns behind the insight endpoints. The repository is optional: when no
// database is configured the history operations fail with
// entity.ErrHistoryDisabled while generation keeps working.
type InsightService struct {
	aggregator port.PortfolioAggregator
	enricher   port.PriceEnricher
	scorer     port.HealthScorer
	generator  port.InsightGenerator
	repository port.InsightRepository
	logger     *zap.Logger
}

func NewInsightService(
	aggregator port.PortfolioAggregator,
	enricher port.PriceEnricher,
	scorer port.HealthScorer,
	generator port.InsightGenerator,
	repository port.InsightRepository,
	logger *zap.Logger,
) *InsightService {
	return &InsightService{
		aggregator: aggregator,
		enricher:   enricher,
		scorer:     scorer,
		generator:  generator,
		repository: repository,
		logger:     logger.Named("InsightService"),
	}
}

// GetPortfolio aggregates balances across the requested chains and enriches
// the snapshot with USD valuations.
func (s *InsightService) GetPortfolio(ctx context.Context, address string, chainIDs []uint64) (entity.PortfolioSnapshot, error) {
	snapshot, err := s.aggregator.Aggregate(ctx, address, chainIDs)
	if err != nil {
		return entity.PortfolioSnapshot{}, err
	}
	s.enricher.Enrich(ctx, &snapshot)
	return snapshot, nil
}

// ScoreHealth grades an already-built snapshot against a risk profile.
func (s *InsightService) ScoreHealth(snapshot entity.PortfolioSnapshot, profile entity.RiskProfile) entity.HealthAssessment {
	return s.scorer.Score(snapshot, profile)
}

// GenerateInsight produces an AI assessment for the snapshot.
func (s *InsightService) GenerateInsight(ctx context.Context, snapshot entity.PortfolioSnapshot, profile entity.UserProfile) (entity.InsightAssessment, error) {
	assessment, err := s.generator.Generate(ctx, snapshot, profile)
	if err != nil {
		return entity.InsightAssessment{}, fmt.Errorf("%w: %w", entity.ErrGeneratorFailure, err)
	}
	return assessment, nil
}

// SaveAssessment appends an assessment to the wallet's history.
func (s *InsightService) SaveAssessment(ctx context.Context, walletAddress string, snapshot entity.PortfolioSnapshot, assessment entity.InsightAssessment) (entity.InsightRecord, error) {
	if s.repository == nil {
		return entity.InsightRecord{}, entity.ErrHistoryDisabled
	}
	record := entity.InsightRecord{
		WalletAddress: walletAddress,
		RecordedAt:    time.Now().UTC(),
		Snapshot:      snapshot,
		Assessment:    assessment,
	}
	id, err := s.repository.Save(ctx, record)
	if err != nil {
		return entity.InsightRecord{}, err
	}
	record.ID = id
	s.logger.Info("Insight saved",
		zap.String("wallet", walletAddress), zap.Int64("id", id))
	return record, nil
}

// QueryHistory returns one page of a wallet's saved assessments.
func (s *InsightService) QueryHistory(ctx context.Context, walletAddress string, query entity.HistoryQuery) (entity.HistoryPage, error) {
	if s.repository == nil {
		return entity.HistoryPage{}, entity.ErrHistoryDisabled
	}
	return s.repository.History(ctx, walletAddress, query)
}

// QueryTrend returns the health/value series for the trailing day window.
func (s *InsightService) QueryTrend(ctx context.Context, walletAddress string, days int) ([]entity.TrendPoint, error) {
	if s.repository == nil {
		return nil, entity.ErrHistoryDisabled
	}
	return s.repository.Trend(ctx, walletAddress, days)
}

// CompareLatest contrasts the two newest records of a wallet. With fewer than
// two records the comparison carries whatever exists plus an explanatory
// message instead of deltas.
func (s *InsightService) CompareLatest(ctx context.Context, walletAddress string) (entity.InsightComparison, error) {
	if s.repository == nil {
		return entity.InsightComparison{}, entity.ErrHistoryDisabled
	}
	records, err := s.repository.LatestTwo(ctx, walletAddress)
	if err != nil {
		return entity.InsightComparison{}, err
	}
	if len(records) < 2 {
		comparison := entity.InsightComparison{
			Message: "Not enough history for comparison",
		}
		if len(records) == 1 {
			comparison.Current = &records[0]
		}
		return comparison, nil
	}

	current, previous := records[0], records[1]
	return entity.InsightComparison{
		Current:  &current,
		Previous: &previous,
		Changes:  compareRecords(current, previous),
	}, nil
}

// Stats summarizes a wallet's stored history.
func (s *InsightService) Stats(ctx context.Context, walletAddress string) (entity.InsightStats, error) {
	if s.repository == nil {
		return entity.InsightStats{}, entity.ErrHistoryDisabled
	}
	return s.repository.Stats(ctx, walletAddress)
}

func compareRecords(current, previous entity.InsightRecord) *entity.ComparisonChanges {
	valueDelta := current.Snapshot.TotalUsdValue.Sub(previous.Snapshot.TotalUsdValue)

	percent := "0%"
	if previous.Snapshot.TotalUsdValue.IsPositive() {
		ratio := valueDelta.Div(previous.Snapshot.TotalUsdValue).Mul(decimal.NewFromInt(100))
		sign := ""
		if ratio.IsPositive() {
			sign = "+"
		}
		percent = sign + ratio.StringFixed(2) + "%"
	}

	return &entity.ComparisonChanges{
		HealthScore:       current.Assessment.HealthScore - previous.Assessment.HealthScore,
		RiskLevel:         current.Assessment.RiskLevel,
		TotalValue:        valueDelta,
		TotalValuePercent: percent,
		TimeDiff:          current.RecordedAt.Sub(previous.RecordedAt),
	}
}
