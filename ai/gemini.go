package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"app/models"
)

// Gemini asks the Gemini model for the product analysis and falls back
// to the rule-based analyzer on any error, so callers never see the
// enrichment layer fail.
type Gemini struct {
	apiKey   string
	fallback RuleBased
}

// AnalyzeProduct generates the analysis with Gemini. The numbers are
// computed locally and embedded in the prompt; the model only writes
// the qualitative reading of them.
func (g *Gemini) AnalyzeProduct(ctx context.Context, stats models.ProductStats, trend *models.ProductTrend, stock *models.StockRecommendation) (models.AiAnalysis, error) {
	analysis, err := g.generate(ctx, stats, trend, stock)
	if err != nil {
		log.Printf("Gemini analysis failed, falling back to rules: %v", err)
		return g.fallback.AnalyzeProduct(ctx, stats, trend, stock)
	}
	return analysis, nil
}

func (g *Gemini) generate(ctx context.Context, stats models.ProductStats, trend *models.ProductTrend, stock *models.StockRecommendation) (models.AiAnalysis, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return models.AiAnalysis{}, fmt.Errorf("failed to create AI client: %w", err)
	}
	defer client.Close()

	facts := fmt.Sprintf("product=%q quantity=%d revenue=%.2f impressions=%d conversion=%.4f avg_price=%.2f",
		stats.Name, stats.Quantity, stats.Revenue, stats.Impressions, stats.Conversion, stats.AvgUnitPrice)
	if trend != nil {
		facts += fmt.Sprintf(" trend=%s change_pct=%.1f", trend.Status, trend.ChangePct)
	}
	if stock != nil {
		facts += fmt.Sprintf(" current_stock=%d recommended_order=%d", stock.CurrentStock, stock.RecommendedOrder)
	}

	prompt := fmt.Sprintf(
		`You are a merchandising analyst. Based only on these metrics, respond with a single JSON object `+
			`{"summary": string, "positive_factors": [string], "negative_factors": [string]} and nothing else. Metrics: %s`,
		facts,
	)

	model := client.GenerativeModel("gemini-1.5-pro")
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return models.AiAnalysis{}, fmt.Errorf("failed to generate analysis: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return models.AiAnalysis{}, fmt.Errorf("empty response from model")
	}

	raw := strings.TrimSpace(fmt.Sprint(resp.Candidates[0].Content.Parts[0]))
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var analysis models.AiAnalysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &analysis); err != nil {
		return models.AiAnalysis{}, fmt.Errorf("failed to parse model response: %w", err)
	}
	return analysis, nil
}
