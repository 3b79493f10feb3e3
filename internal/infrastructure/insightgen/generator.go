// Package insightgen produces portfolio insight assessments, either through
// an OpenAI-compatible chat completion API or through a deterministic local
// generator used when no usable API key is configured.
package insightgen

import (
	"strings"
	"time"

	"chainfolio/internal/app/port"

	"go.uber.org/zap"
)

const placeholderKey = "sk-placeholder-key-for-development"

// NewGenerator selects the generator implementation for the given API key.
// A missing, empty or placeholder key yields the local mock generator so the
// service stays fully functional in development environments.
func NewGenerator(apiKey, baseURL, model string, timeout time.Duration, logger *zap.Logger) port.InsightGenerator {
	if apiKey == "" || apiKey == placeholderKey || strings.Contains(apiKey, "placeholder") {
		logger.Warn("No usable AI API key configured, using local mock insight generator")
		return NewMockGenerator(logger)
	}
	return NewOpenAIGenerator(apiKey, baseURL, model, timeout, logger)
}
