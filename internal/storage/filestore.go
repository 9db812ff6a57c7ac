// Package storage persists the current portfolio as a flat CSV file.
package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/harshagrawal-bit/riskfolio/internal/common"
	"github.com/harshagrawal-bit/riskfolio/internal/interfaces"
	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

var csvHeader = []string{"symbol", "quantity", "price"}

// FileStore implements the PortfolioStore interface over a single
// CSV file.
type FileStore struct {
	path   string
	logger *common.Logger
}

// FileStoreOption configures the store
type FileStoreOption func(*FileStore)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) FileStoreOption {
	return func(s *FileStore) {
		s.logger = logger
	}
}

// NewFileStore creates a CSV-backed portfolio store
func NewFileStore(path string, opts ...FileStoreOption) *FileStore {
	s := &FileStore{
		path:   path,
		logger: common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes the portfolio atomically: a temp file in the target
// directory is renamed over the old file, so readers never see a
// partial write.
func (s *FileStore) Save(p *models.Portfolio) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".portfolio-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, h := range p.Holdings {
		record := []string{
			h.Symbol,
			strconv.FormatFloat(h.Quantity, 'f', -1, 64),
			strconv.FormatFloat(h.Price, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write holding: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace portfolio file: %w", err)
	}

	s.logger.Debug().
		Str("path", s.path).
		Int("holdings", len(p.Holdings)).
		Msg("Portfolio persisted")

	return nil
}

// Load reads the persisted portfolio. A missing file is not an error:
// it returns (nil, nil) so callers can treat it as "nothing saved yet".
func (s *FileStore) Load() (*models.Portfolio, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open portfolio file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio file: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	holdings := make([]models.Holding, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 3 {
			return nil, fmt.Errorf("portfolio file row %d: expected 3 fields, got %d", i+2, len(record))
		}
		quantity, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("portfolio file row %d: invalid quantity: %w", i+2, err)
		}
		price, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("portfolio file row %d: invalid price: %w", i+2, err)
		}
		holdings = append(holdings, models.Holding{
			Symbol:   record[0],
			Quantity: quantity,
			Price:    price,
		})
	}

	return &models.Portfolio{Holdings: holdings}, nil
}

// Ensure FileStore implements PortfolioStore
var _ interfaces.PortfolioStore = (*FileStore)(nil)
