package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot is the aggregated result of one balance query: one native
// line per requested supported chain plus any token/NFT enrichment lines,
// grouped by chain in the caller-supplied chain order.
type PortfolioSnapshot struct {
	WalletAddress string      `json:"walletAddress"`
	AssetLines    []AssetLine `json:"assetLines"`
	// TotalUsdValue is always recomputed from AssetLines via RecomputeTotal,
	// never stored independently.
	TotalUsdValue decimal.Decimal `json:"totalUsdValue"`
	// ConnectedChainCount is the number of chains whose native balance fetch
	// succeeded, regardless of the balance being zero.
	ConnectedChainCount int       `json:"connectedChains"`
	GeneratedAt         time.Time `json:"generatedAt"`
}

// RecomputeTotal sums every present UsdValue across the asset lines and
// stores the result. Absent values count as zero.
func (s *PortfolioSnapshot) RecomputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.AssetLines {
		if line.UsdValue != nil {
			total = total.Add(*line.UsdValue)
		}
	}
	s.TotalUsdValue = total
	return total
}

// LinesForChain returns the snapshot's lines for one chain, preserving order.
func (s *PortfolioSnapshot) LinesForChain(chainID uint64) []AssetLine {
	var lines []AssetLine
	for _, line := range s.AssetLines {
		if line.ChainID == chainID {
			lines = append(lines, line)
		}
	}
	return lines
}
