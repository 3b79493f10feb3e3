package service

import (
	"fmt"
	"strings"

	"chainfolio/internal/domain/entity"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// riskThresholds tunes the scoring rules per risk personality. Conservative
// wallets are held to stricter diversification and concentration limits.
type riskThresholds struct {
	maxConcentration decimal.Decimal
	minChains        int
	assetScore       int
	penalty          int
}

var profileThresholds = map[entity.RiskProfile]riskThresholds{
	entity.RiskConservative: {maxConcentration: decimal.NewFromFloat(0.3), minChains: 3, assetScore: 15, penalty: 20},
	entity.RiskBalanced:     {maxConcentration: decimal.NewFromFloat(0.5), minChains: 2, assetScore: 10, penalty: 10},
	entity.RiskAggressive:   {maxConcentration: decimal.NewFromFloat(0.8), minChains: 1, assetScore: 5, penalty: 5},
}

// HealthScorerService implements port.HealthScorer. Scoring is deterministic
// and works purely off the snapshot, so the same portfolio always produces
// the same score for a given profile.
type HealthScorerService struct{}

func NewHealthScorerService() *HealthScorerService {
	return &HealthScorerService{}
}

// Score grades a snapshot on three axes: asset diversification (max 40),
// cross-chain distribution (max 30) and value concentration (max 30), then
// applies a profile mismatch adjustment. Only native lines with a positive,
// error-free balance participate.
func (s *HealthScorerService) Score(snapshot entity.PortfolioSnapshot, profile entity.RiskProfile) entity.HealthAssessment {
	thresholds, ok := profileThresholds[profile]
	if !ok {
		profile = entity.RiskBalanced
		thresholds = profileThresholds[entity.RiskBalanced]
	}

	held := lo.Filter(snapshot.AssetLines, func(line entity.AssetLine, _ int) bool {
		return line.IsNative() && line.HasBalance()
	})
	nonZeroCount := len(held)
	uniqueChains := len(lo.UniqBy(held, func(line entity.AssetLine) uint64 { return line.ChainID }))

	score := 0
	imbalance := false
	var factors []string

	// Diversification, max 40 points.
	switch {
	case nonZeroCount >= 3:
		score += 40
		factors = append(factors, "Excellent asset diversification.")
	case nonZeroCount == 2:
		score += 25
		factors = append(factors, "Moderate diversification.")
	case nonZeroCount == 1:
		score += thresholds.assetScore
		factors = append(factors, fmt.Sprintf("Highly concentrated portfolio (%s mode).", profile))
		if profile == entity.RiskConservative {
			imbalance = true
		}
	default:
		factors = append(factors, "No assets found in the portfolio.")
	}

	// Cross-chain distribution, max 30 points.
	if uniqueChains >= thresholds.minChains {
		score += 30
		factors = append(factors, "Strong cross-chain presence.")
	} else if uniqueChains >= 1 && nonZeroCount > 0 {
		score += 15
		factors = append(factors, "Limited chain distribution may increase network risk.")
		if profile == entity.RiskConservative && uniqueChains < 2 {
			imbalance = true
		}
	}

	// Value concentration, max 30 points. Unpriced portfolios with holdings
	// get a flat partial credit since shares cannot be computed.
	if snapshot.TotalUsdValue.IsPositive() {
		maxShare := decimal.Zero
		for _, line := range held {
			if line.UsdValue == nil {
				continue
			}
			share := line.UsdValue.Div(snapshot.TotalUsdValue)
			if share.GreaterThan(maxShare) {
				maxShare = share
			}
		}
		if maxShare.LessThanOrEqual(thresholds.maxConcentration) {
			score += 30
			factors = append(factors, "Well-balanced asset allocation.")
		} else {
			score += lo.Max([]int{5, 30 - thresholds.penalty})
			factors = append(factors, fmt.Sprintf("High asset concentration detected (> %s%%).",
				thresholds.maxConcentration.Mul(decimal.NewFromInt(100)).String()))
			imbalance = true
		}
	} else if nonZeroCount > 0 {
		score += 15
	}

	if imbalance && profile == entity.RiskConservative {
		score -= 10
		if score < 0 {
			score = 0
		}
		factors = append(factors, "Significant risk exposure for a conservative profile.")
	}

	if score > 100 {
		score = 100
	}

	var banner string
	switch {
	case score >= 80:
		banner = "Excellent! "
	case score >= 50:
		banner = "Good. "
	default:
		banner = "Needs attention. "
	}

	return entity.HealthAssessment{
		Score:             score,
		Factors:           factors,
		Explanation:       banner + strings.Join(factors, " "),
		ImbalanceDetected: imbalance,
	}
}
