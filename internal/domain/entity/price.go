package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuote is the current market data for one price feed key.
type PriceQuote struct {
	FeedKey   string          `json:"feedKey"`
	Usd       decimal.Decimal `json:"usd"`
	Change24h float64         `json:"usd_24h_change"`
	MarketCap decimal.Decimal `json:"usd_market_cap,omitempty"`
	Volume24h decimal.Decimal `json:"usd_24h_vol,omitempty"`
}

// SeriesPoint is one sample of a historical daily price series.
type SeriesPoint struct {
	Time  time.Time       `json:"time"`
	Price decimal.Decimal `json:"price"`
}
