// Package risk aligns price history and computes the portfolio risk
// metric suite.
package risk

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/harshagrawal-bit/riskfolio/internal/interfaces"
	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

// BuildPriceMatrix fetches per-symbol close history and restricts it
// to the dates where every symbol traded. Rows come out in ascending
// date order so return math reads oldest first.
func (s *Service) BuildPriceMatrix(ctx context.Context, symbols []string, lookback time.Duration) (*models.PriceMatrix, error) {
	unique := dedupe(symbols)
	if len(unique) == 0 {
		return &models.PriceMatrix{}, nil
	}

	to := time.Now().UTC()
	from := to.Add(-lookback)

	// date (YYYY-MM-DD) -> close, one map per symbol
	series := make([]map[string]float64, len(unique))
	for i, symbol := range unique {
		bars, err := s.market.GetEOD(ctx, symbol, interfaces.WithDateRange(from, to))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
		}
		byDate := make(map[string]float64, len(bars))
		for _, bar := range bars {
			byDate[bar.Date.Format("2006-01-02")] = bar.Close
		}
		series[i] = byDate
	}

	// Intersect trading dates across all symbols.
	var dates []string
	for date := range series[0] {
		shared := true
		for _, byDate := range series[1:] {
			if _, ok := byDate[date]; !ok {
				shared = false
				break
			}
		}
		if shared {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	closes := make([][]float64, len(dates))
	for row, date := range dates {
		closes[row] = make([]float64, len(unique))
		for col := range unique {
			closes[row][col] = series[col][date]
		}
	}

	return &models.PriceMatrix{
		Dates:   dates,
		Symbols: unique,
		Closes:  closes,
	}, nil
}

func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	var out []string
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
