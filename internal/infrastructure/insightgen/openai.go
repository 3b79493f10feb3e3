package insightgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chainfolio/internal/domain/entity"

	"go.uber.org/zap"
)

// OpenAIGenerator calls an OpenAI-compatible chat completion endpoint and
// parses the structured JSON assessment out of the reply.
type OpenAIGenerator struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOpenAIGenerator creates a generator against baseURL (for example
// "https://api.openai.com/v1"). The HTTP timeout is generous because chat
// completions routinely take tens of seconds.
func NewOpenAIGenerator(apiKey, baseURL, model string, timeout time.Duration, logger *zap.Logger) *OpenAIGenerator {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OpenAIGenerator{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("OpenAIGenerator"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate implements port.InsightGenerator.
func (g *OpenAIGenerator) Generate(ctx context.Context, snapshot entity.PortfolioSnapshot, profile entity.UserProfile) (entity.InsightAssessment, error) {
	prompt, err := buildPrompt(snapshot, profile)
	if err != nil {
		return entity.InsightAssessment{}, err
	}

	reqBody := chatRequest{
		Model:    g.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return entity.InsightAssessment{}, fmt.Errorf("marshal chat request: %w", err)
	}

	url := g.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return entity.InsightAssessment{}, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return entity.InsightAssessment{}, fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.InsightAssessment{}, fmt.Errorf("read chat completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return entity.InsightAssessment{}, fmt.Errorf("chat completion API status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return entity.InsightAssessment{}, fmt.Errorf("parse chat completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return entity.InsightAssessment{}, fmt.Errorf("chat completion returned no choices")
	}

	var assessment entity.InsightAssessment
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), &assessment); err != nil {
		return entity.InsightAssessment{}, fmt.Errorf("parse assessment payload: %w", err)
	}

	g.logger.Debug("Insight generated",
		zap.String("wallet", snapshot.WalletAddress),
		zap.String("model", g.model),
		zap.Duration("took", time.Since(start)))
	return assessment, nil
}

// buildPrompt renders the advisor prompt. The alert toggles and profile
// settings are spelled out as hard rules so the model honors the user's
// notification preferences.
func buildPrompt(snapshot entity.PortfolioSnapshot, profile entity.UserProfile) (string, error) {
	portfolioJSON, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot for prompt: %w", err)
	}

	tone := "balanced"
	switch profile.RiskPersonality {
	case entity.RiskConservative:
		tone = "conservative and cautious"
	case entity.RiskAggressive:
		tone = "bold and growth-oriented"
	}
	detail := "simple and easy to understand"
	if profile.LearningMode == "Expert" {
		detail = "comprehensive and technical"
	}
	healthScore := "N/A"
	if profile.HealthScore > 0 {
		healthScore = fmt.Sprintf("%d", profile.HealthScore)
	}

	return fmt.Sprintf(`You are an expert crypto portfolio advisor.
Analyze this portfolio data:
%s

User Profile:
- Risk Personality: %s
- Learning Mode: %s
- Current Health Score: %s
- Notification Settings: High-Risk Alerts: %s, Imbalance Alerts: %s

CRITICAL RULES:
1. ONLY suggest rebalancing or portfolio adjustments if Imbalance Alerts are ON.
2. ONLY include warnings about volatility or risky assets if High-Risk Alerts are ON.
3. Tone: Adjust your tone to be %s.
4. Detail Level: Provide %s explanations.
5. Generation Time: %s. DO NOT repeat previous generic advice. Provide fresh, data-driven insights based on the current portfolio structure.

Provide a JSON response with the following structure:
{
  "summary": "2-3 sentences unique assessment based on date and specific portfolio quirks",
  "healthScore": 0-100 (number),
  "riskLevel": "Low/Medium/High",
  "analysis": {
    "diversification": "Assessment of asset spread",
    "performance": "Review of recent performance",
    "volatility": "Risk assessment based on assets (respect alert toggles)"
  },
  "recommendations": [
    {
      "type": "Buy/Sell/Hold",
      "asset": "Asset Name",
      "reason": "Clear explanation respecting learning mode level"
    }
  ],
  "topPick": {
    "asset": "Name",
    "reason": "Why it looks good"
  }
}`,
		string(portfolioJSON),
		profile.RiskPersonality,
		profile.LearningMode,
		healthScore,
		onOff(profile.Notifications.HighRiskAlert),
		onOff(profile.Notifications.ImbalanceAlert),
		tone,
		detail,
		time.Now().UTC().Format(time.RFC3339),
	), nil
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}
