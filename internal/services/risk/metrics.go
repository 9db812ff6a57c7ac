package risk

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

const (
	// TradingDaysPerYear annualizes daily statistics.
	TradingDaysPerYear = 252

	// RiskFreeRate is the annual risk-free rate used in the Sharpe
	// ratio.
	RiskFreeRate = 0.05
)

// Profile computes the full risk metric suite for a portfolio from
// aligned price history over the configured lookback window.
func (s *Service) Profile(ctx context.Context, p *models.Portfolio) (*models.RiskProfile, error) {
	if p == nil || len(p.Holdings) == 0 {
		return nil, models.ErrNoPortfolio
	}

	total := p.TotalValue()
	if total <= 0 {
		return nil, models.ErrInsufficientHistory
	}

	matrix, err := s.BuildPriceMatrix(ctx, p.Symbols(), s.lookback)
	if err != nil {
		return nil, err
	}
	if matrix.Rows() < 2 {
		return nil, models.ErrInsufficientHistory
	}

	weights := weightsFor(matrix.Symbols, p.InvestmentBySymbol(), total)
	returns := portfolioReturns(matrix, weights)
	if len(returns) < 2 {
		return nil, models.ErrInsufficientHistory
	}

	profile := computeProfile(returns)

	s.logger.Debug().
		Int("observations", len(returns)).
		Float64("volatility", profile.Volatility).
		Msg("Risk profile computed")

	return profile, nil
}

// weightsFor maps the invested fraction onto the matrix column order.
// Symbols without history rows contribute zero weight.
func weightsFor(symbols []string, invested map[string]float64, total float64) []float64 {
	weights := make([]float64, len(symbols))
	for i, symbol := range symbols {
		weights[i] = invested[symbol] / total
	}
	return weights
}

// portfolioReturns computes the daily weighted return series. The
// first matrix row has no prior close and is dropped.
func portfolioReturns(matrix *models.PriceMatrix, weights []float64) []float64 {
	returns := make([]float64, 0, matrix.Rows()-1)
	for row := 1; row < matrix.Rows(); row++ {
		daily := 0.0
		for col := range matrix.Symbols {
			prev := matrix.Closes[row-1][col]
			if prev == 0 {
				continue
			}
			daily += weights[col] * (matrix.Closes[row][col]/prev - 1)
		}
		returns = append(returns, daily)
	}
	return returns
}

// computeProfile derives the metric suite from a daily return series.
func computeProfile(returns []float64) *models.RiskProfile {
	volatility := stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear)

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)
	var95 := stat.Quantile(0.05, stat.LinInterp, sorted, nil)

	annualReturn := stat.Mean(returns, nil) * TradingDaysPerYear

	sharpe := 0.0
	if volatility > 0 {
		sharpe = (annualReturn - RiskFreeRate) / volatility
	}

	return &models.RiskProfile{
		Volatility:    volatility,
		ValueAtRisk95: var95,
		MaxDrawdown:   maxDrawdown(returns),
		SharpeRatio:   sharpe,
		AnnualReturn:  annualReturn,
	}
}

// maxDrawdown returns the worst peak-to-trough decline of the
// cumulative return path. Always <= 0.
func maxDrawdown(returns []float64) float64 {
	cumulative := 1.0
	peak := 1.0
	worst := 0.0
	for _, r := range returns {
		cumulative *= 1 + r
		if cumulative > peak {
			peak = cumulative
		}
		drawdown := cumulative/peak - 1
		if drawdown < worst {
			worst = drawdown
		}
	}
	return worst
}
