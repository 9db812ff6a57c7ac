package risk

import (
	"context"
	"time"

	"github.com/harshagrawal-bit/riskfolio/internal/interfaces"
	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

// trackedIndices maps display names to EODHD index tickers.
var trackedIndices = []struct {
	Name   string
	Ticker string
}{
	{"S&P 500", "GSPC.INDX"},
	{"NASDAQ", "IXIC.INDX"},
	{"Dow Jones", "DJI.INDX"},
	{"NIFTY 50", "NSEI.INDX"},
}

// contextLookback needs just enough days for two closes across
// weekends and holidays.
const contextLookback = 10 * 24 * time.Hour

// MarketContext fetches the latest level and daily change for each
// tracked index. Failures degrade per index, never the whole result.
func (s *Service) MarketContext(ctx context.Context) *models.MarketContext {
	out := &models.MarketContext{
		Indices:   make(map[string]models.IndexQuote, len(trackedIndices)),
		Timestamp: time.Now().UTC(),
	}

	to := time.Now().UTC()
	from := to.Add(-contextLookback)

	for _, idx := range trackedIndices {
		bars, err := s.market.GetEOD(ctx, idx.Ticker, interfaces.WithDateRange(from, to))
		if err != nil {
			s.logger.Warn().
				Str("index", idx.Ticker).
				Err(err).
				Msg("Failed to fetch index quote")
			out.Indices[idx.Name] = models.IndexQuote{Symbol: idx.Ticker, Error: err.Error()}
			continue
		}
		if len(bars) < 2 {
			out.Indices[idx.Name] = models.IndexQuote{Symbol: idx.Ticker, Error: "insufficient quote history"}
			continue
		}

		latest := bars[len(bars)-1]
		prev := bars[len(bars)-2]
		change := 0.0
		if prev.Close != 0 {
			change = (latest.Close/prev.Close - 1) * 100
		}
		trend := "up"
		if change < 0 {
			trend = "down"
		}

		out.Indices[idx.Name] = models.IndexQuote{
			Symbol:        idx.Ticker,
			CurrentPrice:  latest.Close,
			ChangePercent: change,
			Trend:         trend,
		}
	}

	return out
}
