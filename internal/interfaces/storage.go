package interfaces

import "github.com/harshagrawal-bit/riskfolio/internal/models"

// PortfolioStore persists the current portfolio as a flat tabular file.
type PortfolioStore interface {
	// Save replaces the persisted portfolio.
	Save(p *models.Portfolio) error

	// Load returns the persisted portfolio, or (nil, nil) if none
	// has been saved yet.
	Load() (*models.Portfolio, error)
}
