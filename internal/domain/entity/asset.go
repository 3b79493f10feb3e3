package entity

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// AssetKind classifies an AssetLine.
type AssetKind string

const (
	// AssetNative is a chain's base currency balance (ETH, MATIC, ...).
	AssetNative AssetKind = "native"
	// AssetToken is an ERC-20 token balance discovered via enrichment.
	AssetToken AssetKind = "token"
	// AssetNFT is a collectible count line; RawAmount holds the item count.
	AssetNFT AssetKind = "nft"
)

// AssetLine is one balance entry of a portfolio snapshot. Lines live only
// inside the snapshot returned to the caller; they are not persisted unless
// the caller explicitly saves an assessment.
type AssetLine struct {
	ChainID      uint64    `json:"chainId"`
	ChainName    string    `json:"chainName"`
	Symbol       string    `json:"symbol"`
	Kind         AssetKind `json:"kind"`
	TokenAddress string    `json:"tokenAddress,omitempty"`
	// RawAmount is the balance in the asset's smallest unit (wei for native
	// assets). When FetchError is set the amount is zero and untrustworthy.
	RawAmount *big.Int `json:"rawAmount"`
	Decimals  uint8    `json:"decimals"`
	Formatted string   `json:"formatted"`
	// UsdValue is populated by the price enricher; nil when no price feed is
	// known for the asset or the amount is zero.
	UsdValue *decimal.Decimal `json:"usdValue,omitempty"`
	// FetchError carries the per-chain failure that produced this line.
	// Aggregation treats such lines as zero-valued instead of aborting.
	FetchError string `json:"fetchError,omitempty"`
}

// IsNative reports whether the line is a chain's base currency balance.
func (l AssetLine) IsNative() bool {
	return l.Kind == AssetNative
}

// HasBalance reports whether the line holds a trustworthy positive amount.
func (l AssetLine) HasBalance() bool {
	return l.FetchError == "" && l.RawAmount != nil && l.RawAmount.Sign() > 0
}
