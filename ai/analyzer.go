// Package ai produces the qualitative analysis attached to a product's
// statistics. The rule-based analyzer is the default; the Gemini-backed
// one is an alternate implementation of the same interface, gated on an
// API key and degrading to the rules on any failure, so its absence
// never blocks the pipeline.
package ai

import (
	"context"
	"fmt"

	"app/models"
)

// Analyzer turns one product's numbers into a human-readable analysis.
type Analyzer interface {
	AnalyzeProduct(ctx context.Context, stats models.ProductStats, trend *models.ProductTrend, stock *models.StockRecommendation) (models.AiAnalysis, error)
}

// NewAnalyzer picks the Gemini analyzer when an API key is configured
// and the rule-based one otherwise.
func NewAnalyzer(geminiAPIKey string) Analyzer {
	if geminiAPIKey != "" {
		return &Gemini{apiKey: geminiAPIKey, fallback: RuleBased{}}
	}
	return RuleBased{}
}

// RuleBased derives the analysis from fixed rules over the numbers.
type RuleBased struct{}

// AnalyzeProduct never fails; it is the floor the Gemini analyzer
// degrades to.
func (RuleBased) AnalyzeProduct(_ context.Context, stats models.ProductStats, trend *models.ProductTrend, stock *models.StockRecommendation) (models.AiAnalysis, error) {
	analysis := models.AiAnalysis{
		PositiveFactors: []string{},
		NegativeFactors: []string{},
	}

	switch {
	case trend != nil && trend.Status == models.TrendRising:
		analysis.Summary = fmt.Sprintf("%s is gaining momentum with revenue up %.0f%% over the longer window.", stats.Name, trend.ChangePct)
		analysis.PositiveFactors = append(analysis.PositiveFactors, "Demand is accelerating against the longer window")
	case trend != nil && trend.Status == models.TrendCooling:
		analysis.Summary = fmt.Sprintf("%s is losing steam, down %.0f%% against the longer window.", stats.Name, -trend.ChangePct)
		analysis.NegativeFactors = append(analysis.NegativeFactors, "Demand is declining against the longer window")
	default:
		analysis.Summary = fmt.Sprintf("%s is performing steadily at %.0f revenue this period.", stats.Name, stats.Revenue)
	}

	if stats.Segment != nil && *stats.Segment == models.SegmentA {
		analysis.PositiveFactors = append(analysis.PositiveFactors, "Top revenue tier (segment A)")
	}
	if stats.Conversion > 0.03 {
		analysis.PositiveFactors = append(analysis.PositiveFactors, fmt.Sprintf("Strong conversion at %.1f%%", stats.Conversion*100))
	} else if stats.Impressions > 0 && stats.Conversion < 0.01 {
		analysis.NegativeFactors = append(analysis.NegativeFactors, fmt.Sprintf("Weak conversion at %.2f%% despite %d impressions", stats.Conversion*100, stats.Impressions))
	}
	if stock != nil && stock.RecommendedOrder > 0 {
		analysis.NegativeFactors = append(analysis.NegativeFactors, fmt.Sprintf("Stock covers less than the %d-day target; %d units suggested", stock.TargetStockDays, stock.RecommendedOrder))
	}

	return analysis, nil
}
