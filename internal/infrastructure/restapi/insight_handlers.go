package restapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"chainfolio/internal/app/port"
	"chainfolio/internal/app/service"
	"chainfolio/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GenerateInsightRequest is the body of an insight generation call. Either an
// inline portfolio snapshot or a wallet address to aggregate must be present.
type GenerateInsightRequest struct {
	WalletAddress string                    `json:"walletAddress"`
	Portfolio     *entity.PortfolioSnapshot `json:"portfolio"`
	UserProfile   *entity.UserProfile       `json:"userProfile"`
}

// SaveInsightRequest is the body of a history save call.
type SaveInsightRequest struct {
	WalletAddress     string                    `json:"walletAddress" binding:"required"`
	Analysis          entity.InsightAssessment  `json:"analysis"`
	PortfolioSnapshot *entity.PortfolioSnapshot `json:"portfolioSnapshot"`
}

// TrendResponse is the chart-friendly projection of the trend series.
type TrendResponse struct {
	HealthScoreTrend []int             `json:"healthScoreTrend"`
	RiskTrend        []string          `json:"riskTrend"`
	ValueTrend       []decimal.Decimal `json:"valueTrend"`
	Timestamps       []time.Time       `json:"timestamps"`
	DataPoints       int               `json:"dataPoints"`
}

// InsightHandler serves generation, persistence and history queries for AI
// portfolio assessments.
type InsightHandler struct {
	insights *service.InsightService
	registry port.ChainRegistry
	logger   *zap.Logger
}

func NewInsightHandler(insights *service.InsightService, registry port.ChainRegistry, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		insights: insights,
		registry: registry,
		logger:   logger.Named("InsightHandler"),
	}
}

// GenerateHandler produces an assessment for the supplied portfolio, or for a
// freshly aggregated one when only a wallet address is given.
func (h *InsightHandler) GenerateHandler(c *gin.Context) {
	var req GenerateInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile := entity.UserProfile{
		RiskPersonality: entity.RiskBalanced,
		LearningMode:    "Beginner",
		Notifications:   entity.NotificationSettings{HighRiskAlert: true, ImbalanceAlert: true},
	}
	if req.UserProfile != nil {
		profile = *req.UserProfile
		profile.RiskPersonality = entity.ParseRiskProfile(string(profile.RiskPersonality))
		if profile.LearningMode == "" {
			profile.LearningMode = "Beginner"
		}
	}

	var snapshot entity.PortfolioSnapshot
	switch {
	case req.Portfolio != nil:
		snapshot = *req.Portfolio
	case req.WalletAddress != "":
		mainnets := lo.Map(h.registry.ListByClass(entity.Mainnet), func(d entity.ChainDescriptor, _ int) uint64 {
			return d.ChainID
		})
		var err error
		snapshot, err = h.insights.GetPortfolio(c.Request.Context(), req.WalletAddress, mainnets)
		if err != nil {
			if errors.Is(err, entity.ErrInvalidAddress) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
				return
			}
			h.logger.Error("Portfolio aggregation for insight failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build portfolio"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "portfolio or walletAddress is required"})
		return
	}

	assessment, err := h.insights.GenerateInsight(c.Request.Context(), snapshot, profile)
	if err != nil {
		h.logger.Error("Insight generation failed",
			zap.String("wallet", snapshot.WalletAddress), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate insights"})
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// SaveHandler appends an assessment to the wallet's stored history.
func (h *InsightHandler) SaveHandler(c *gin.Context) {
	var req SaveInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "walletAddress is required"})
		return
	}
	var snapshot entity.PortfolioSnapshot
	if req.PortfolioSnapshot != nil {
		snapshot = *req.PortfolioSnapshot
	}

	record, err := h.insights.SaveAssessment(c.Request.Context(), req.WalletAddress, snapshot, req.Analysis)
	if err != nil {
		h.respondHistoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"insightId": record.ID,
		"timestamp": record.RecordedAt,
	})
}

// HistoryHandler returns one page of stored assessments.
func (h *InsightHandler) HistoryHandler(c *gin.Context) {
	query := entity.HistoryQuery{
		Limit:  intQuery(c, "limit", 0),
		Offset: intQuery(c, "offset", 0),
	}
	if t, ok := timeQuery(c, "startDate"); ok {
		query.StartDate = &t
	}
	if t, ok := timeQuery(c, "endDate"); ok {
		query.EndDate = &t
	}

	page, err := h.insights.QueryHistory(c.Request.Context(), c.Param("address"), query)
	if err != nil {
		h.respondHistoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// TrendsHandler returns the chart series for the trailing day window.
func (h *InsightHandler) TrendsHandler(c *gin.Context) {
	days := intQuery(c, "days", 30)

	points, err := h.insights.QueryTrend(c.Request.Context(), c.Param("address"), days)
	if err != nil {
		h.respondHistoryError(c, err)
		return
	}

	response := TrendResponse{
		HealthScoreTrend: make([]int, 0, len(points)),
		RiskTrend:        make([]string, 0, len(points)),
		ValueTrend:       make([]decimal.Decimal, 0, len(points)),
		Timestamps:       make([]time.Time, 0, len(points)),
		DataPoints:       len(points),
	}
	for _, p := range points {
		response.HealthScoreTrend = append(response.HealthScoreTrend, p.HealthScore)
		response.RiskTrend = append(response.RiskTrend, p.RiskLevel)
		response.ValueTrend = append(response.ValueTrend, p.TotalValue)
		response.Timestamps = append(response.Timestamps, p.RecordedAt)
	}
	c.JSON(http.StatusOK, response)
}

// CompareHandler contrasts the latest two stored assessments.
func (h *InsightHandler) CompareHandler(c *gin.Context) {
	comparison, err := h.insights.CompareLatest(c.Request.Context(), c.Param("address"))
	if err != nil {
		h.respondHistoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// StatsHandler summarizes the wallet's stored history.
func (h *InsightHandler) StatsHandler(c *gin.Context) {
	stats, err := h.insights.Stats(c.Request.Context(), c.Param("address"))
	if err != nil {
		h.respondHistoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *InsightHandler) respondHistoryError(c *gin.Context, err error) {
	if errors.Is(err, entity.ErrHistoryDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History storage is not configured"})
		return
	}
	h.logger.Error("History operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "History operation failed"})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func timeQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
