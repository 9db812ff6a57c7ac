// Package insight turns risk metrics into a plain-language
// explanation, using a text-generation model when one is configured
// and a rule-based analysis otherwise.
package insight

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/harshagrawal-bit/riskfolio/internal/common"
	"github.com/harshagrawal-bit/riskfolio/internal/interfaces"
	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

// Volatility thresholds for the rule-based risk level.
const (
	highVolThreshold   = 0.30
	mediumVolThreshold = 0.15

	// Weight above which a single position is flagged as concentrated.
	concentrationThreshold = 0.30
)

// Service implements the InsightService interface
type Service struct {
	gen    interfaces.TextGenClient
	logger *common.Logger
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates an insight service. A nil text-generation client
// is allowed and forces the rule-based path.
func NewService(gen interfaces.TextGenClient, opts ...ServiceOption) *Service {
	s := &Service{
		gen:    gen,
		logger: common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Explain produces a natural-language analysis of the portfolio's
// risk. Generation failures never propagate: the result degrades to
// the rule-based analysis and says so.
func (s *Service) Explain(ctx context.Context, p *models.Portfolio, summary *models.PortfolioSummary, profile *models.RiskProfile) *models.InsightResult {
	maxWeight := 0.0
	for _, a := range summary.Allocation {
		if a.Weight > maxWeight {
			maxWeight = a.Weight
		}
	}

	result := &models.InsightResult{
		RiskSummary: models.RiskSummary{
			VolatilityPct:        profile.Volatility * 100,
			MaxSinglePositionPct: maxWeight * 100,
			TotalAssets:          len(p.Holdings),
		},
	}

	if s.gen != nil {
		text, err := s.gen.GenerateContent(ctx, buildPrompt(p, summary, profile, maxWeight))
		if err == nil && strings.TrimSpace(text) != "" {
			result.AIPowered = true
			result.Insights = text
			return result
		}
		s.logger.Warn().Err(err).Msg("Text generation failed, using rule-based insights")
	}

	result.AIPowered = false
	result.Insights = ruleBasedInsights(p, profile, maxWeight)
	return result
}

// buildPrompt assembles the analysis request sent to the model.
func buildPrompt(p *models.Portfolio, summary *models.PortfolioSummary, profile *models.RiskProfile, maxWeight float64) string {
	var b strings.Builder

	b.WriteString("Analyze this investment portfolio and provide insights in simple, beginner-friendly language:\n\n")
	b.WriteString("PORTFOLIO SUMMARY:\n")
	fmt.Fprintf(&b, "- Total Value: %.2f\n", summary.TotalValue)
	fmt.Fprintf(&b, "- Number of Assets: %d\n", len(p.Holdings))
	fmt.Fprintf(&b, "- Assets: %s\n", strings.Join(p.Symbols(), ", "))
	fmt.Fprintf(&b, "- Largest Holding: %.1f%% of portfolio\n\n", maxWeight*100)
	b.WriteString("RISK METRICS:\n")
	fmt.Fprintf(&b, "- Annual Volatility: %.2f%%\n", profile.Volatility*100)
	fmt.Fprintf(&b, "- Value at Risk (95%%): %.2f%%\n", profile.ValueAtRisk95*100)
	fmt.Fprintf(&b, "- Maximum Drawdown: %.2f%%\n\n", profile.MaxDrawdown*100)
	b.WriteString("ALLOCATION:\n")
	for _, a := range summary.Allocation {
		fmt.Fprintf(&b, "- %s: %.1f%%\n", a.Symbol, a.Weight*100)
	}
	b.WriteString("\nPlease provide:\n")
	b.WriteString("1. A brief risk assessment (low/medium/high) with explanation\n")
	b.WriteString("2. What these metrics mean for a retail investor\n")
	b.WriteString("3. 2-3 specific recommendations to improve the portfolio\n")
	b.WriteString("4. Any concentration or diversification concerns\n\n")
	b.WriteString("Keep the language simple and actionable. No jargon.\n")

	return b.String()
}

// ruleBasedInsights is the deterministic fallback analysis.
func ruleBasedInsights(p *models.Portfolio, profile *models.RiskProfile, maxWeight float64) string {
	riskLevel := "Low"
	switch {
	case profile.Volatility > highVolThreshold:
		riskLevel = "High"
	case profile.Volatility > mediumVolThreshold:
		riskLevel = "Medium"
	}

	concentration := "Diversification looks reasonable"
	if maxWeight > concentrationThreshold {
		concentration = "High concentration risk detected: consider reducing your largest position"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "RISK ASSESSMENT: %s\n\n", riskLevel)
	fmt.Fprintf(&b, "Your portfolio has an annual volatility of %.2f%%. In a typical year, your portfolio value could swing up or down by this percentage.\n\n", profile.Volatility*100)
	fmt.Fprintf(&b, "The Value at Risk tells you that on the worst 5%% of days, you might lose %.2f%% in a single day.\n\n", math.Abs(profile.ValueAtRisk95)*100)
	b.WriteString("RECOMMENDATIONS:\n")
	fmt.Fprintf(&b, "1. %s\n", concentration)
	fmt.Fprintf(&b, "2. Your maximum drawdown of %.2f%% shows the biggest loss from peak. Consider if you are comfortable with this.\n", math.Abs(profile.MaxDrawdown)*100)
	fmt.Fprintf(&b, "3. Review if all %d holdings align with your investment goals.\n", len(p.Holdings))

	return b.String()
}

// Ensure Service implements InsightService
var _ interfaces.InsightService = (*Service)(nil)
