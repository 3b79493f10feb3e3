package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationSettings gate which advice categories the insight generator is
// allowed to produce.
type NotificationSettings struct {
	HighRiskAlert  bool `json:"highRiskAlert"`
	ImbalanceAlert bool `json:"imbalanceAlert"`
}

// UserProfile is the risk/learning context forwarded to the insight generator.
type UserProfile struct {
	RiskPersonality RiskProfile          `json:"riskPersonality"`
	LearningMode    string               `json:"learningMode"`
	HealthScore     int                  `json:"healthScore,omitempty"`
	Notifications   NotificationSettings `json:"notifications"`
}

// Recommendation is a single Buy/Sell/Hold suggestion in an AI assessment.
type Recommendation struct {
	Type   string `json:"type"`
	Asset  string `json:"asset"`
	Reason string `json:"reason"`
}

// TopPick highlights the generator's single strongest asset call.
type TopPick struct {
	Asset  string `json:"asset"`
	Reason string `json:"reason"`
}

// InsightAnalysis is the structured commentary section of an assessment.
type InsightAnalysis struct {
	Diversification string `json:"diversification"`
	Performance     string `json:"performance"`
	Volatility      string `json:"volatility"`
}

// InsightAssessment is the structured result of one insight generation call.
// The core treats the generator as opaque: it stores and forwards this
// payload without depending on how it was produced.
type InsightAssessment struct {
	Summary         string           `json:"summary"`
	HealthScore     int              `json:"healthScore"`
	RiskLevel       string           `json:"riskLevel"`
	Analysis        InsightAnalysis  `json:"analysis"`
	Recommendations []Recommendation `json:"recommendations"`
	TopPick         TopPick          `json:"topPick"`
}

// InsightRecord is one persisted history entry: the snapshot that was
// analyzed plus the assessment produced for it, keyed by wallet and time.
type InsightRecord struct {
	ID            int64             `json:"id"`
	WalletAddress string            `json:"walletAddress"`
	RecordedAt    time.Time         `json:"recordedAt"`
	Snapshot      PortfolioSnapshot `json:"portfolioSnapshot"`
	Assessment    InsightAssessment `json:"analysis"`
}

// TrendPoint is one sample of the historical health/value series.
type TrendPoint struct {
	RecordedAt  time.Time       `json:"timestamp"`
	HealthScore int             `json:"healthScore"`
	RiskLevel   string          `json:"riskLevel"`
	TotalValue  decimal.Decimal `json:"totalValue"`
}

// InsightComparison contrasts the latest record with the one before it.
type InsightComparison struct {
	Current  *InsightRecord     `json:"current"`
	Previous *InsightRecord     `json:"previous"`
	Changes  *ComparisonChanges `json:"changes"`
	Message  string             `json:"message,omitempty"`
}

// ComparisonChanges holds the latest-vs-prior deltas.
type ComparisonChanges struct {
	HealthScore       int             `json:"healthScore"`
	RiskLevel         string          `json:"riskLevel"`
	TotalValue        decimal.Decimal `json:"totalValue"`
	TotalValuePercent string          `json:"totalValuePercent"`
	TimeDiff          time.Duration   `json:"timeDiff"`
}

// InsightStats summarizes a wallet's stored history.
type InsightStats struct {
	TotalInsights      int            `json:"totalInsights"`
	Latest             *InsightRecord `json:"latestInsight"`
	AverageHealthScore float64        `json:"averageHealthScore"`
	MaxHealthScore     int            `json:"maxHealthScore"`
	MinHealthScore     int            `json:"minHealthScore"`
	FirstInsightDate   *time.Time     `json:"firstInsightDate"`
}

// HistoryQuery selects a page of a wallet's insight history.
type HistoryQuery struct {
	Limit     int
	Offset    int
	StartDate *time.Time
	EndDate   *time.Time
}

// HistoryPage is one page of history results plus paging metadata.
type HistoryPage struct {
	Insights []InsightRecord `json:"insights"`
	Total    int             `json:"total"`
	HasMore  bool            `json:"hasMore"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}
