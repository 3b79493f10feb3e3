package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"chainfolio/internal/app/port"
	"chainfolio/internal/app/service"
	"chainfolio/internal/config"
	"chainfolio/internal/infrastructure/insightgen"
	"chainfolio/internal/infrastructure/insightstore"
	"chainfolio/internal/infrastructure/pricefeed"
	"chainfolio/internal/infrastructure/registry"
	"chainfolio/internal/infrastructure/restapi"
	"chainfolio/internal/infrastructure/rpc"
	"chainfolio/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func main() {
	// Bootstrap logger for everything before zap is up.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err == nil {
		log.Info("Loaded environment from .env file")
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	slogHandler := zapslog.NewHandler(zapLogger.Core())
	slog.SetDefault(slog.New(slogHandler))

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	// Chain metadata and endpoint tables.
	chainRegistry := registry.NewChainRegistry()
	endpointResolver := registry.NewEndpointResolver(cfg.Secrets.AlchemyAPIKey)
	if cfg.Secrets.AlchemyAPIKey == "" {
		zapLogger.Info("No Alchemy API key configured, using public endpoints only")
	}

	// JSON-RPC gateway with endpoint fallback.
	callTimeout := time.Duration(cfg.RPC.CallTimeoutSeconds) * time.Second
	gateway := rpc.NewGateway(endpointResolver, callTimeout, nil, zapLogger)

	// Market data client with in-memory quote caching.
	priceSource := pricefeed.NewCoinGeckoClient(
		cfg.PriceFeed.BaseURL,
		cfg.Secrets.CoinGeckoAPIKey,
		time.Duration(cfg.PriceFeed.RequestTimeoutMillis)*time.Millisecond,
		time.Duration(cfg.PriceFeed.QuoteTTLMinutes)*time.Minute,
		time.Duration(cfg.PriceFeed.SeriesTTLMinutes)*time.Minute,
		zapLogger,
	)

	// Core services.
	portfolioSvc := service.NewPortfolioService(
		chainRegistry,
		gateway,
		zapLogger,
		cfg.RPC.MaxConcurrentChains,
		cfg.Enrichment.Enabled,
		cfg.Enrichment.MaxTokenLines,
	)
	priceSvc := service.NewPriceService(chainRegistry, priceSource, zapLogger)
	scorer := service.NewHealthScorerService()

	generator := insightgen.NewGenerator(
		cfg.Secrets.OpenAIAPIKey,
		cfg.Insights.BaseURL,
		cfg.Insights.Model,
		time.Duration(cfg.Insights.RequestTimeoutSeconds)*time.Second,
		zapLogger,
	)

	// History storage is optional: without DATABASE_URL the service runs with
	// history endpoints disabled.
	var repository port.InsightRepository
	if cfg.Secrets.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		pool, err := insightstore.Connect(ctx, cfg.Secrets.DatabaseURL)
		if err != nil {
			cancel()
			zapLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := insightstore.RunMigrations(ctx, pool); err != nil {
			cancel()
			zapLogger.Fatal("Failed to run migrations", zap.Error(err))
		}
		cancel()
		defer pool.Close()
		repository = insightstore.NewPgRepository(pool)
		zapLogger.Info("Insight history storage enabled")
	} else {
		zapLogger.Info("No DATABASE_URL configured, insight history disabled")
	}

	insightSvc := service.NewInsightService(portfolioSvc, priceSvc, scorer, generator, repository, zapLogger)

	// HTTP layer.
	proxyHandler := restapi.NewProxyHandler(gateway, chainRegistry, endpointResolver, zapLogger)
	priceHandler := restapi.NewPriceHandler(priceSource, zapLogger)
	portfolioHandler := restapi.NewPortfolioHandler(insightSvc, chainRegistry, zapLogger)
	insightHandler := restapi.NewInsightHandler(insightSvc, chainRegistry, zapLogger)

	router := restapi.SetupRouter(proxyHandler, priceHandler, portfolioHandler, insightHandler, zapLogger)

	// Prometheus metrics endpoint.
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	zapLogger.Info("Prometheus metrics endpoint enabled", zap.String("path", "/metrics"))

	// Pprof endpoints (protect these in a production environment).
	pprofRouter := router.Group("/debug/pprof")
	{
		pprofRouter.GET("/", gin.WrapF(pprof.Index))
		pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
		pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
		pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
		pprofRouter.GET("/block", gin.WrapH(pprof.Handler("block")))
		pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
		pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
		pprofRouter.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
		pprofRouter.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
	}
	zapLogger.Info("Pprof endpoints enabled under /debug/pprof")

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
