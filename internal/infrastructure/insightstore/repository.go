// Package insightstore persists saved insight assessments in PostgreSQL.
// Rows carry a few typed columns for querying plus the full record as jsonb.
package insightstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"chainfolio/internal/domain/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultHistoryLimit = 10

// recordPayload is the jsonb shape of one history row.
type recordPayload struct {
	Snapshot   entity.PortfolioSnapshot `json:"portfolioSnapshot"`
	Assessment entity.InsightAssessment `json:"analysis"`
}

// PgRepository implements port.InsightRepository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Save appends one record and returns its generated id. The wallet address is
// stored lowercase so lookups are case-insensitive.
func (r *PgRepository) Save(ctx context.Context, record entity.InsightRecord) (int64, error) {
	payload, err := json.Marshal(recordPayload{
		Snapshot:   record.Snapshot,
		Assessment: record.Assessment,
	})
	if err != nil {
		return 0, fmt.Errorf("marshaling insight payload: %w", err)
	}

	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	var id int64
	err = r.pool.QueryRow(ctx,
		`INSERT INTO insight_history (wallet_address, recorded_at, health_score, risk_level, total_value, payload)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		 RETURNING id`,
		strings.ToLower(record.WalletAddress),
		recordedAt,
		record.Assessment.HealthScore,
		record.Assessment.RiskLevel,
		record.Snapshot.TotalUsdValue,
		payload).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving insight: %w", err)
	}
	return id, nil
}

// History returns one page of a wallet's records, newest first, with the
// total match count and a has-more flag for the pager.
func (r *PgRepository) History(ctx context.Context, walletAddress string, query entity.HistoryQuery) (entity.HistoryPage, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	where := `wallet_address = $1`
	args := []any{strings.ToLower(walletAddress)}
	if query.StartDate != nil {
		args = append(args, *query.StartDate)
		where += fmt.Sprintf(` AND recorded_at >= $%d`, len(args))
	}
	if query.EndDate != nil {
		args = append(args, *query.EndDate)
		where += fmt.Sprintf(` AND recorded_at <= $%d`, len(args))
	}

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM insight_history WHERE `+where, args...).Scan(&total)
	if err != nil {
		return entity.HistoryPage{}, fmt.Errorf("counting insights: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT id, wallet_address, recorded_at, payload
		 FROM insight_history
		 WHERE `+where+fmt.Sprintf(`
		 ORDER BY recorded_at DESC
		 LIMIT $%d OFFSET $%d`, len(args)-1, len(args)), args...)
	if err != nil {
		return entity.HistoryPage{}, fmt.Errorf("querying insight history: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return entity.HistoryPage{}, err
	}

	return entity.HistoryPage{
		Insights: records,
		Total:    total,
		HasMore:  offset+len(records) < total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// Latest returns the newest record for a wallet, or nil when none exists.
func (r *PgRepository) Latest(ctx context.Context, walletAddress string) (*entity.InsightRecord, error) {
	records, err := r.recent(ctx, walletAddress, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// LatestTwo returns up to the two newest records for a wallet, newest first.
func (r *PgRepository) LatestTwo(ctx context.Context, walletAddress string) ([]entity.InsightRecord, error) {
	return r.recent(ctx, walletAddress, 2)
}

func (r *PgRepository) recent(ctx context.Context, walletAddress string, limit int) ([]entity.InsightRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, wallet_address, recorded_at, payload
		 FROM insight_history
		 WHERE wallet_address = $1
		 ORDER BY recorded_at DESC
		 LIMIT $2`,
		strings.ToLower(walletAddress), limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent insights: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Trend returns the time-ordered health/value series for the trailing window.
func (r *PgRepository) Trend(ctx context.Context, walletAddress string, days int) ([]entity.TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := r.pool.Query(ctx,
		`SELECT recorded_at, health_score, risk_level, total_value
		 FROM insight_history
		 WHERE wallet_address = $1 AND recorded_at >= $2
		 ORDER BY recorded_at ASC`,
		strings.ToLower(walletAddress), since)
	if err != nil {
		return nil, fmt.Errorf("querying insight trend: %w", err)
	}
	defer rows.Close()

	var points []entity.TrendPoint
	for rows.Next() {
		var p entity.TrendPoint
		if err := rows.Scan(&p.RecordedAt, &p.HealthScore, &p.RiskLevel, &p.TotalValue); err != nil {
			return nil, fmt.Errorf("scanning trend point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trend points: %w", err)
	}
	return points, nil
}

// Stats summarizes a wallet's stored history.
func (r *PgRepository) Stats(ctx context.Context, walletAddress string) (entity.InsightStats, error) {
	var (
		stats    entity.InsightStats
		avg      *float64
		maxScore *int
		minScore *int
		first    *time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), AVG(health_score), MAX(health_score), MIN(health_score), MIN(recorded_at)
		 FROM insight_history
		 WHERE wallet_address = $1`,
		strings.ToLower(walletAddress)).Scan(&stats.TotalInsights, &avg, &maxScore, &minScore, &first)
	if err != nil {
		return entity.InsightStats{}, fmt.Errorf("querying insight stats: %w", err)
	}
	if stats.TotalInsights == 0 {
		return stats, nil
	}

	if avg != nil {
		stats.AverageHealthScore = *avg
	}
	if maxScore != nil {
		stats.MaxHealthScore = *maxScore
	}
	if minScore != nil {
		stats.MinHealthScore = *minScore
	}
	stats.FirstInsightDate = first

	latest, err := r.Latest(ctx, walletAddress)
	if err != nil {
		return entity.InsightStats{}, err
	}
	stats.Latest = latest
	return stats, nil
}

func scanRecords(rows pgx.Rows) ([]entity.InsightRecord, error) {
	var records []entity.InsightRecord
	for rows.Next() {
		var (
			record  entity.InsightRecord
			payload []byte
		)
		if err := rows.Scan(&record.ID, &record.WalletAddress, &record.RecordedAt, &payload); err != nil {
			return nil, fmt.Errorf("scanning insight row: %w", err)
		}
		var decoded recordPayload
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return nil, fmt.Errorf("decoding insight payload: %w", err)
		}
		record.Snapshot = decoded.Snapshot
		record.Assessment = decoded.Assessment
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating insight rows: %w", err)
	}
	return records, nil
}
