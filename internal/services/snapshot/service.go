// Package snapshot canonicalizes portfolio state into a deterministic
// SHA-256 digest and submits it to the ledger, simulating the
// submission when no ledger credentials are configured.
package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harshagrawal-bit/riskfolio/internal/common"
	"github.com/harshagrawal-bit/riskfolio/internal/interfaces"
	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

// noteFieldLimit is the Algorand transaction note size ceiling.
const noteFieldLimit = 1000

// Service implements the SnapshotService interface
type Service struct {
	ledger interfaces.LedgerClient
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

// NewService creates a snapshot service. A nil ledger client is
// allowed and forces simulation on submit.
func NewService(ledger interfaces.LedgerClient, opts ...ServiceOption) *Service {
	s := &Service{
		ledger: ledger,
		logger: common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build canonicalizes the portfolio at the given instant and digests
// it. Identical holdings and timestamp always produce the same hash:
// object keys serialize in sorted order with no insignificant
// whitespace.
func (s *Service) Build(p *models.Portfolio, now time.Time) (*models.Snapshot, error) {
	if p == nil {
		return nil, models.ErrNoPortfolio
	}

	timestamp := now.UTC().Format("2006-01-02T15:04:05.000000") + "Z"

	holdings := make([]map[string]any, len(p.Holdings))
	for i, h := range p.Holdings {
		holdings[i] = map[string]any{
			"symbol":   h.Symbol,
			"quantity": h.Quantity,
			"price":    h.Price,
		}
	}

	canonical, err := json.Marshal(map[string]any{
		"holdings":    holdings,
		"total_value": p.TotalValue(),
		"timestamp":   timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize portfolio: %w", err)
	}

	digest := sha256.Sum256(canonical)

	note := string(canonical)
	if len(note) > noteFieldLimit {
		note = note[:noteFieldLimit]
	}

	return &models.Snapshot{
		Hash:        hex.EncodeToString(digest[:]),
		Timestamp:   timestamp,
		TotalValue:  p.TotalValue(),
		NumHoldings: len(p.Holdings),
		Holdings:    p.Symbols(),
		Note:        note,
	}, nil
}

// Submit records the snapshot digest on the ledger. Missing
// credentials produce a simulated result; a live submission failure
// produces an error result. Neither is a Go error, so callers always
// get a reportable outcome.
func (s *Service) Submit(ctx context.Context, snap *models.Snapshot) *models.LedgerResult {
	if s.ledger == nil || !s.ledger.Configured() {
		s.logger.Info().Msg("Ledger credentials not configured, simulating submission")
		return &models.LedgerResult{
			Status:       models.LedgerStatusSimulation,
			SimulatedID:  "SIM" + snap.Hash[:16],
			ExplorerLink: "https://testnet.algoexplorer.io/tx/SIMULATION_MODE",
			Message:      "Ledger credentials not configured. Running in simulation mode.",
		}
	}

	result, err := s.ledger.SubmitHash(ctx, snap.Hash, models.LedgerNote{
		SnapshotHash: snap.Hash,
		Timestamp:    snap.Timestamp,
		TotalValue:   snap.TotalValue,
		NumHoldings:  snap.NumHoldings,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Ledger submission failed")
		return &models.LedgerResult{
			Status:  models.LedgerStatusError,
			Message: fmt.Sprintf("Failed to submit to ledger: %v", err),
		}
	}

	return result
}

// Ensure Service implements SnapshotService
var _ interfaces.SnapshotService = (*Service)(nil)
