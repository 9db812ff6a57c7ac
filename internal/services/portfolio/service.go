// Package portfolio owns the current portfolio: CSV and statement
// ingestion, persistence, and summary math.
package portfolio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/harshagrawal-bit/riskfolio/internal/common"
	"github.com/harshagrawal-bit/riskfolio/internal/interfaces"
	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

var requiredColumns = []string{"symbol", "quantity", "price"}

// Service implements the PortfolioService interface
type Service struct {
	store   interfaces.PortfolioStore
	parser  interfaces.StatementParser
	logger  *common.Logger
	current atomic.Pointer[models.Portfolio]
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a portfolio service. A previously persisted
// portfolio is loaded so the current portfolio survives restarts.
func NewService(store interfaces.PortfolioStore, parser interfaces.StatementParser, opts ...ServiceOption) (*Service, error) {
	s := &Service{
		store:  store,
		parser: parser,
		logger: common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if store != nil {
		p, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted portfolio: %w", err)
		}
		if p != nil {
			s.current.Store(p)
			s.logger.Info().
				Int("holdings", len(p.Holdings)).
				Msg("Restored persisted portfolio")
		}
	}

	return s, nil
}

// UploadCSV parses tabular holdings and replaces the current
// portfolio. Columns may appear in any order; extra columns are
// ignored. Nothing is replaced unless the whole file parses.
func (s *Service) UploadCSV(ctx context.Context, r io.Reader) (*models.Portfolio, error) {
	holdings, err := parseCSV(r)
	if err != nil {
		return nil, err
	}
	return s.commit(holdings)
}

// UploadStatement extracts holdings from a statement document and
// replaces the current portfolio.
func (s *Service) UploadStatement(ctx context.Context, data []byte) (*models.Portfolio, error) {
	holdings, err := s.parser.Parse(data)
	if err != nil {
		return nil, err
	}
	return s.commit(holdings)
}

// commit persists first, then swaps the in-memory pointer. A failed
// save leaves the previous portfolio current.
func (s *Service) commit(holdings []models.Holding) (*models.Portfolio, error) {
	p := &models.Portfolio{Holdings: holdings}

	if s.store != nil {
		if err := s.store.Save(p); err != nil {
			return nil, fmt.Errorf("failed to persist portfolio: %w", err)
		}
	}

	s.current.Store(p)
	s.logger.Info().
		Int("holdings", len(p.Holdings)).
		Float64("total_value", p.TotalValue()).
		Msg("Portfolio replaced")

	return p, nil
}

// Current returns the current portfolio, or nil if none uploaded.
func (s *Service) Current() *models.Portfolio {
	return s.current.Load()
}

// Summary returns total value and per-position allocation weights.
func (s *Service) Summary() (*models.PortfolioSummary, error) {
	p := s.current.Load()
	if p == nil {
		return nil, models.ErrNoPortfolio
	}

	total := p.TotalValue()
	if total <= 0 {
		return nil, models.ErrInsufficientHistory
	}

	allocation := make([]models.Allocation, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		investment := h.Investment()
		allocation = append(allocation, models.Allocation{
			Symbol:     h.Symbol,
			Quantity:   h.Quantity,
			Price:      h.Price,
			Investment: investment,
			Weight:     investment / total,
		})
	}

	return &models.PortfolioSummary{
		TotalValue: total,
		Allocation: allocation,
	}, nil
}

// parseCSV reads holdings from CSV input. The header row maps column
// names case-insensitively; every required column must be present.
func parseCSV(r io.Reader) ([]models.Holding, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, models.NewParseError(fmt.Errorf("failed to read CSV header: %w", err))
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &models.MissingFieldError{Field: col}
		}
	}

	var holdings []models.Holding
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, models.NewParseError(fmt.Errorf("line %d: %w", line, err))
		}

		symbol := strings.ToUpper(strings.TrimSpace(record[index["symbol"]]))
		if !isValidSymbol(symbol) {
			return nil, models.NewParseError(fmt.Errorf("line %d: invalid symbol %q", line, record[index["symbol"]]))
		}

		quantity, err := strconv.ParseFloat(strings.TrimSpace(record[index["quantity"]]), 64)
		if err != nil {
			return nil, models.NewParseError(fmt.Errorf("line %d: invalid quantity: %w", line, err))
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(record[index["price"]]), 64)
		if err != nil {
			return nil, models.NewParseError(fmt.Errorf("line %d: invalid price: %w", line, err))
		}
		if quantity < 0 || price < 0 {
			return nil, models.NewParseError(fmt.Errorf("line %d: negative quantity or price", line))
		}

		holdings = append(holdings, models.Holding{
			Symbol:   symbol,
			Quantity: quantity,
			Price:    price,
		})
	}

	if len(holdings) == 0 {
		return nil, models.ErrNoHoldingsFound
	}

	return holdings, nil
}

// isValidSymbol accepts 1-5 letter tickers.
func isValidSymbol(s string) bool {
	if len(s) == 0 || len(s) > 5 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
