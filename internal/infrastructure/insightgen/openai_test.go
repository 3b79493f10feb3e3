package insightgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chainfolio/internal/domain/entity"

	"go.uber.org/zap"
)

func TestOpenAIGeneratorParsesAssessment(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		content := `{"summary":"Solid portfolio.","healthScore":82,"riskLevel":"Medium",` +
			`"analysis":{"diversification":"Good spread.","performance":"Steady.","volatility":"Low."},` +
			`"recommendations":[{"type":"Hold","asset":"ETH","reason":"Core position."}],` +
			`"topPick":{"asset":"ETH","reason":"Dominant."}}`
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	g := NewOpenAIGenerator("sk-test", srv.URL, "gpt-4o-mini", 5*time.Second, zap.NewNop())
	assessment, err := g.Generate(context.Background(), entity.PortfolioSnapshot{WalletAddress: "0xabc"}, entity.UserProfile{
		RiskPersonality: entity.RiskConservative,
		LearningMode:    "Expert",
		Notifications:   entity.NotificationSettings{HighRiskAlert: true},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if assessment.HealthScore != 82 || assessment.RiskLevel != "Medium" {
		t.Errorf("assessment = %+v", assessment)
	}
	if len(assessment.Recommendations) != 1 || assessment.Recommendations[0].Type != "Hold" {
		t.Errorf("recommendations = %+v", assessment.Recommendations)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", gotBody.Model)
	}
	if gotBody.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %q", gotBody.ResponseFormat.Type)
	}
	if len(gotBody.Messages) != 1 {
		t.Fatalf("message count = %d", len(gotBody.Messages))
	}

	prompt := gotBody.Messages[0].Content
	for _, fragment := range []string{
		"Risk Personality: Conservative",
		"Learning Mode: Expert",
		"High-Risk Alerts: ON",
		"Imbalance Alerts: OFF",
		"conservative and cautious",
		"comprehensive and technical",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}

func TestOpenAIGeneratorAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	g := NewOpenAIGenerator("sk-bad", srv.URL, "gpt-4o-mini", 5*time.Second, zap.NewNop())
	if _, err := g.Generate(context.Background(), entity.PortfolioSnapshot{}, entity.UserProfile{}); err == nil {
		t.Fatal("expected error for HTTP 401")
	}
}

func TestOpenAIGeneratorMalformedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "not json at all"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	g := NewOpenAIGenerator("sk-test", srv.URL, "gpt-4o-mini", 5*time.Second, zap.NewNop())
	if _, err := g.Generate(context.Background(), entity.PortfolioSnapshot{}, entity.UserProfile{}); err == nil {
		t.Fatal("expected parse error")
	}
}
