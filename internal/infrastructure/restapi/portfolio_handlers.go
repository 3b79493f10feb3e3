package restapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"chainfolio/internal/app/port"
	"chainfolio/internal/app/service"
	"chainfolio/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// PortfolioHandler serves aggregated balance snapshots and health scores.
type PortfolioHandler struct {
	insights *service.InsightService
	registry port.ChainRegistry
	logger   *zap.Logger
}

func NewPortfolioHandler(insights *service.InsightService, registry port.ChainRegistry, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		insights: insights,
		registry: registry,
		logger:   logger.Named("PortfolioHandler"),
	}
}

// GetPortfolioHandler aggregates balances for one wallet. The "chains" query
// parameter selects chain ids as a comma-separated list; without it the
// "mode" parameter picks a network class (mainnet by default, "testnet" or
// "all").
func (h *PortfolioHandler) GetPortfolioHandler(c *gin.Context) {
	address := c.Param("address")
	chainIDs, err := h.selectChains(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.insights.GetPortfolio(c.Request.Context(), address, chainIDs)
	if err != nil {
		h.respondPortfolioError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetHealthScoreHandler aggregates balances and grades them against the risk
// profile in the "profile" query parameter (default Balanced).
func (h *PortfolioHandler) GetHealthScoreHandler(c *gin.Context) {
	address := c.Param("address")
	chainIDs, err := h.selectChains(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	raw := c.Query("profile")
	if raw == "" {
		raw = c.Query("risk")
	}
	profile := entity.ParseRiskProfile(raw)

	snapshot, err := h.insights.GetPortfolio(c.Request.Context(), address, chainIDs)
	if err != nil {
		h.respondPortfolioError(c, err)
		return
	}

	assessment := h.insights.ScoreHealth(snapshot, profile)
	c.JSON(http.StatusOK, gin.H{
		"walletAddress": snapshot.WalletAddress,
		"profile":       profile,
		"health":        assessment,
		"totalValue":    snapshot.TotalUsdValue,
	})
}

func (h *PortfolioHandler) selectChains(c *gin.Context) ([]uint64, error) {
	raw := c.Query("chains")
	if raw == "" {
		var descriptors []entity.ChainDescriptor
		switch c.Query("mode") {
		case "testnet":
			descriptors = h.registry.ListByClass(entity.Testnet)
		case "all":
			descriptors = h.registry.All()
		default:
			descriptors = h.registry.ListByClass(entity.Mainnet)
		}
		return lo.Map(descriptors, func(d entity.ChainDescriptor, _ int) uint64 {
			return d.ChainID
		}), nil
	}

	var chainIDs []uint64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, errors.New("invalid chain id: " + part)
		}
		chainIDs = append(chainIDs, id)
	}
	return chainIDs, nil
}

func (h *PortfolioHandler) respondPortfolioError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
	case errors.Is(err, entity.ErrEmptyChainList):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No chains requested"})
	default:
		h.logger.Error("Portfolio aggregation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build portfolio"})
	}
}
