package service

import (
	"math/big"
	"strings"
	"testing"

	"chainfolio/internal/domain/entity"

	"github.com/shopspring/decimal"
)

func heldLine(chainID uint64, usd string) entity.AssetLine {
	line := entity.AssetLine{
		ChainID:   chainID,
		Kind:      entity.AssetNative,
		RawAmount: big.NewInt(1),
		Decimals:  18,
	}
	if usd != "" {
		value := decimal.RequireFromString(usd)
		line.UsdValue = &value
	}
	return line
}

func snapshotOf(lines ...entity.AssetLine) entity.PortfolioSnapshot {
	snapshot := entity.PortfolioSnapshot{AssetLines: lines}
	snapshot.RecomputeTotal()
	return snapshot
}

func TestHealthScorerScenarios(t *testing.T) {
	scorer := NewHealthScorerService()

	tests := []struct {
		name          string
		snapshot      entity.PortfolioSnapshot
		profile       entity.RiskProfile
		wantScore     int
		wantImbalance bool
		wantBanner    string
	}{
		{
			name:          "empty portfolio",
			snapshot:      snapshotOf(),
			profile:       entity.RiskBalanced,
			wantScore:     0,
			wantImbalance: false,
			wantBanner:    "Needs attention. ",
		},
		{
			name:          "conservative single unpriced asset",
			snapshot:      snapshotOf(heldLine(1, "")),
			profile:       entity.RiskConservative,
			wantScore:     35,
			wantImbalance: true,
			wantBanner:    "Needs attention. ",
		},
		{
			name: "balanced three chains evenly split",
			snapshot: snapshotOf(
				heldLine(1, "100"),
				heldLine(137, "100"),
				heldLine(42161, "100"),
			),
			profile:       entity.RiskBalanced,
			wantScore:     100,
			wantImbalance: false,
			wantBanner:    "Excellent! ",
		},
		{
			name: "conservative three chains within concentration limit",
			snapshot: snapshotOf(
				heldLine(1, "100"),
				heldLine(137, "100"),
				heldLine(42161, "100"),
				heldLine(10, "100"),
			),
			profile:       entity.RiskConservative,
			wantScore:     100,
			wantImbalance: false,
			wantBanner:    "Excellent! ",
		},
		{
			name:          "conservative full concentration in one chain",
			snapshot:      snapshotOf(heldLine(1, "500")),
			profile:       entity.RiskConservative,
			wantScore:     30,
			wantImbalance: true,
			wantBanner:    "Needs attention. ",
		},
		{
			name:          "aggressive single asset",
			snapshot:      snapshotOf(heldLine(1, "500")),
			profile:       entity.RiskAggressive,
			wantScore:     60,
			wantImbalance: true,
			wantBanner:    "Good. ",
		},
		{
			name: "balanced dominated by one asset",
			snapshot: snapshotOf(
				heldLine(1, "900"),
				heldLine(137, "100"),
			),
			profile:       entity.RiskBalanced,
			wantScore:     75,
			wantImbalance: true,
			wantBanner:    "Good. ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.snapshot, tt.profile)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d (factors: %v)", got.Score, tt.wantScore, got.Factors)
			}
			if got.ImbalanceDetected != tt.wantImbalance {
				t.Errorf("ImbalanceDetected = %v, want %v", got.ImbalanceDetected, tt.wantImbalance)
			}
			if !strings.HasPrefix(got.Explanation, tt.wantBanner) {
				t.Errorf("Explanation = %q, want prefix %q", got.Explanation, tt.wantBanner)
			}
		})
	}
}

func TestHealthScorerFactorMessages(t *testing.T) {
	scorer := NewHealthScorerService()

	assessment := scorer.Score(snapshotOf(), entity.RiskBalanced)
	if len(assessment.Factors) != 1 || assessment.Factors[0] != "No assets found in the portfolio." {
		t.Errorf("empty portfolio factors = %v", assessment.Factors)
	}

	assessment = scorer.Score(snapshotOf(heldLine(1, "900"), heldLine(137, "100")), entity.RiskBalanced)
	found := false
	for _, factor := range assessment.Factors {
		if factor == "High asset concentration detected (> 50%)." {
			found = true
		}
	}
	if !found {
		t.Errorf("concentration factor missing: %v", assessment.Factors)
	}

	assessment = scorer.Score(snapshotOf(heldLine(1, "500")), entity.RiskConservative)
	found = false
	for _, factor := range assessment.Factors {
		if factor == "High asset concentration detected (> 30%)." {
			found = true
		}
	}
	if !found {
		t.Errorf("conservative concentration factor missing: %v", assessment.Factors)
	}
}

func TestHealthScorerDefaultsUnknownProfile(t *testing.T) {
	scorer := NewHealthScorerService()

	snapshot := snapshotOf(heldLine(1, "100"), heldLine(137, "100"))
	got := scorer.Score(snapshot, entity.RiskProfile("Degen"))
	want := scorer.Score(snapshot, entity.RiskBalanced)
	if got.Score != want.Score {
		t.Errorf("unknown profile score = %d, want balanced score %d", got.Score, want.Score)
	}
}

func TestHealthScorerIgnoresErroredAndTokenLines(t *testing.T) {
	scorer := NewHealthScorerService()

	errored := heldLine(1, "100")
	errored.FetchError = "rpc error"
	token := entity.AssetLine{ChainID: 1, Kind: entity.AssetToken, RawAmount: big.NewInt(5)}

	assessment := scorer.Score(snapshotOf(errored, token), entity.RiskBalanced)
	if assessment.Factors[0] != "No assets found in the portfolio." {
		t.Errorf("factors = %v, want empty-portfolio factor", assessment.Factors)
	}
}
