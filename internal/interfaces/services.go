package interfaces

import (
	"context"
	"io"
	"time"

	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

// PortfolioService ingests holdings and owns the current portfolio.
type PortfolioService interface {
	// UploadCSV replaces the current portfolio from tabular input.
	UploadCSV(ctx context.Context, r io.Reader) (*models.Portfolio, error)

	// UploadStatement replaces the current portfolio from an
	// unstructured statement document.
	UploadStatement(ctx context.Context, data []byte) (*models.Portfolio, error)

	// Current returns the current portfolio, or nil if none uploaded.
	Current() *models.Portfolio

	// Summary returns total value and per-position weights.
	Summary() (*models.PortfolioSummary, error)
}

// StatementParser extracts holdings from an unstructured statement.
type StatementParser interface {
	Parse(data []byte) ([]models.Holding, error)
}

// RiskService aligns price history and computes the risk metric suite.
type RiskService interface {
	// BuildPriceMatrix aligns per-symbol close series over the lookback.
	BuildPriceMatrix(ctx context.Context, symbols []string, lookback time.Duration) (*models.PriceMatrix, error)

	// Profile computes the full risk metric suite for a portfolio.
	Profile(ctx context.Context, p *models.Portfolio) (*models.RiskProfile, error)

	// MarketContext fetches latest levels for the tracked indices.
	MarketContext(ctx context.Context) *models.MarketContext
}

// InsightService produces a natural-language risk explanation,
// degrading to a rule-based analysis when the text-generation service
// is unavailable.
type InsightService interface {
	Explain(ctx context.Context, p *models.Portfolio, summary *models.PortfolioSummary, profile *models.RiskProfile) *models.InsightResult
}

// SnapshotService canonicalizes portfolio state and submits digests.
type SnapshotService interface {
	// Build produces the canonical snapshot for a portfolio at a
	// point in time.
	Build(p *models.Portfolio, now time.Time) (*models.Snapshot, error)

	// Submit records the snapshot digest on the ledger, substituting
	// a simulated result when the ledger is unavailable.
	Submit(ctx context.Context, snap *models.Snapshot) *models.LedgerResult
}
