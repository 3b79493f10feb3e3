package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter wires every HTTP route onto a fresh Gin engine. Metrics and
// pprof endpoints are registered by the caller alongside this router.
func SetupRouter(
	proxyHandler *ProxyHandler,
	priceHandler *PriceHandler,
	portfolioHandler *PortfolioHandler,
	insightHandler *InsightHandler,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))
	router.Use(ZapLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/rpc", proxyHandler.ProxyRequestHandler)
	router.GET("/chains", proxyHandler.ListChainsHandler)

	api := router.Group("/api")
	{
		api.GET("/prices", priceHandler.GetPricesHandler)
		api.GET("/prices/history", priceHandler.GetPriceHistoryHandler)

		insights := api.Group("/insights")
		{
			insights.POST("", insightHandler.GenerateHandler)
			insights.POST("/save", insightHandler.SaveHandler)
			insights.GET("/history/:address", insightHandler.HistoryHandler)
			insights.GET("/trends/:address", insightHandler.TrendsHandler)
			insights.GET("/compare/:address", insightHandler.CompareHandler)
			insights.GET("/stats/:address", insightHandler.StatsHandler)
		}
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/portfolio/:address", portfolioHandler.GetPortfolioHandler)
		v1.GET("/portfolio/:address/health", portfolioHandler.GetHealthScoreHandler)
	}

	return router
}
