package restapi

import (
	"net/http"
	"strings"

	"chainfolio/internal/app/port"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PriceHandler serves cached market quotes in the upstream feed's shape so
// existing dashboard clients can consume them unchanged.
type PriceHandler struct {
	source port.PriceSource
	logger *zap.Logger
}

func NewPriceHandler(source port.PriceSource, logger *zap.Logger) *PriceHandler {
	return &PriceHandler{
		source: source,
		logger: logger.Named("PriceHandler"),
	}
}

// GetPricesHandler returns USD quotes for the comma-separated feed ids in the
// "ids" query parameter.
func (h *PriceHandler) GetPricesHandler(c *gin.Context) {
	ids := c.Query("ids")
	if ids == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'ids' query parameter"})
		return
	}

	var keys []string
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			keys = append(keys, id)
		}
	}

	quotes, err := h.source.SimplePrices(c.Request.Context(), keys)
	if err != nil {
		h.logger.Warn("Price fetch failed", zap.Strings("ids", keys), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch prices"})
		return
	}

	response := make(map[string]map[string]any, len(quotes))
	for key, quote := range quotes {
		response[key] = map[string]any{
			"usd":            quote.Usd,
			"usd_24h_change": quote.Change24h,
			"usd_market_cap": quote.MarketCap,
			"usd_24h_vol":    quote.Volume24h,
		}
	}
	c.JSON(http.StatusOK, response)
}

// GetPriceHistoryHandler returns the trailing daily price series for the feed
// id in the "id" query parameter, in the upstream market-chart shape
// ("prices" as [timestampMs, price] pairs) for chart clients.
func (h *PriceHandler) GetPriceHistoryHandler(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'id' query parameter"})
		return
	}
	days := intQuery(c, "days", 30)

	points, err := h.source.DailySeries(c.Request.Context(), id, days)
	if err != nil {
		h.logger.Warn("Price history fetch failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch price history"})
		return
	}

	prices := make([][2]any, 0, len(points))
	for _, p := range points {
		prices = append(prices, [2]any{p.Time.UnixMilli(), p.Price})
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices, "days": days})
}
