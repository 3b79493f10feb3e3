package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// RPCConfig holds JSON-RPC gateway settings.
type RPCConfig struct {
	CallTimeoutSeconds  int `yaml:"callTimeoutSeconds"`
	MaxConcurrentChains int `yaml:"maxConcurrentChains"`
}

// PriceFeedConfig holds market-data API settings.
type PriceFeedConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	QuoteTTLMinutes      int    `yaml:"quoteTTLMinutes"`
	SeriesTTLMinutes     int    `yaml:"seriesTTLMinutes"`
}

// InsightsConfig holds AI insight generator settings.
type InsightsConfig struct {
	BaseURL               string `yaml:"baseURL"`
	Model                 string `yaml:"model"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
}

// EnrichmentConfig holds token/NFT enrichment settings.
type EnrichmentConfig struct {
	Enabled       bool `yaml:"enabled"`
	MaxTokenLines int  `yaml:"maxTokenLines"`
}

// Secrets are always sourced from the environment, never from the YAML file.
type Secrets struct {
	AlchemyAPIKey   string
	CoinGeckoAPIKey string
	OpenAIAPIKey    string
	DatabaseURL     string
}

// Config is the top-level configuration structure.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	RPC        RPCConfig        `yaml:"rpc"`
	PriceFeed  PriceFeedConfig  `yaml:"priceFeed"`
	Insights   InsightsConfig   `yaml:"insights"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Secrets    Secrets          `yaml:"-"`
}

// Load reads the YAML configuration file, applies defaults for anything not
// set, and overlays secrets from the environment. A missing file is not an
// error: the defaults describe a fully working keyless setup.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Run on defaults.
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.Secrets = Secrets{
		AlchemyAPIKey:   os.Getenv("ALCHEMY_API_KEY"),
		CoinGeckoAPIKey: os.Getenv("COINGECKO_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":4000"
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout <= 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.RPC.CallTimeoutSeconds <= 0 {
		c.RPC.CallTimeoutSeconds = 8
	}
	if c.RPC.MaxConcurrentChains <= 0 {
		c.RPC.MaxConcurrentChains = 10
	}
	if c.PriceFeed.BaseURL == "" {
		c.PriceFeed.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.PriceFeed.RequestTimeoutMillis <= 0 {
		c.PriceFeed.RequestTimeoutMillis = 10000
	}
	if c.PriceFeed.QuoteTTLMinutes <= 0 {
		c.PriceFeed.QuoteTTLMinutes = 5
	}
	if c.PriceFeed.SeriesTTLMinutes <= 0 {
		c.PriceFeed.SeriesTTLMinutes = 60
	}
	if c.Insights.BaseURL == "" {
		c.Insights.BaseURL = "https://api.openai.com/v1"
	}
	if c.Insights.Model == "" {
		c.Insights.Model = "gpt-4o-mini"
	}
	if c.Insights.RequestTimeoutSeconds <= 0 {
		c.Insights.RequestTimeoutSeconds = 120
	}
	if c.Enrichment.MaxTokenLines <= 0 {
		c.Enrichment.MaxTokenLines = 10
	}
}
