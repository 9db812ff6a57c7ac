// Package interfaces defines client, service, and storage contracts for Riskfolio
package interfaces

import (
	"context"
	"time"

	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

// MarketDataClient provides historical price data for tickers and indices.
type MarketDataClient interface {
	// GetEOD retrieves end-of-day price bars for a ticker
	GetEOD(ctx context.Context, ticker string, opts ...EODOption) ([]models.EODBar, error)
}

// EODOption configures EOD data requests
type EODOption func(*EODParams)

// EODParams holds EOD query parameters
type EODParams struct {
	From   time.Time
	To     time.Time
	Period string // d=daily, w=weekly, m=monthly
	Order  string // a=ascending, d=descending
}

// WithDateRange sets the date range for EOD query
func WithDateRange(from, to time.Time) EODOption {
	return func(p *EODParams) {
		p.From = from
		p.To = to
	}
}

// WithOrder sets the sort order for EOD query
func WithOrder(order string) EODOption {
	return func(p *EODParams) {
		p.Order = order
	}
}

// TextGenClient provides access to a text-generation service, consumed
// as a black box: prompt in, free-text summary out.
type TextGenClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// LedgerClient submits a snapshot digest plus metadata to a
// distributed ledger.
type LedgerClient interface {
	// Configured reports whether signing credentials are available.
	Configured() bool

	// SubmitHash records the digest and note on the ledger and
	// returns the transaction identifier.
	SubmitHash(ctx context.Context, digest string, note models.LedgerNote) (*models.LedgerResult, error)
}
