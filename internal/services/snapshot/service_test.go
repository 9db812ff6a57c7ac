package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

type stubLedger struct {
	configured bool
	result     *models.LedgerResult
	err        error
	gotDigest  string
	gotNote    models.LedgerNote
}

func (s *stubLedger) Configured() bool { return s.configured }

func (s *stubLedger) SubmitHash(ctx context.Context, digest string, note models.LedgerNote) (*models.LedgerResult, error) {
	s.gotDigest = digest
	s.gotNote = note
	return s.result, s.err
}

func samplePortfolio() *models.Portfolio {
	return &models.Portfolio{Holdings: []models.Holding{
		{Symbol: "AAPL", Quantity: 10, Price: 150.25},
		{Symbol: "MSFT", Quantity: 5, Price: 310.5},
	}}
}

func TestBuild_Deterministic(t *testing.T) {
	svc := NewService(nil)
	now := time.Date(2026, 3, 15, 12, 30, 45, 123456000, time.UTC)

	first, err := svc.Build(samplePortfolio(), now)
	require.NoError(t, err)
	second, err := svc.Build(samplePortfolio(), now)
	require.NoError(t, err)

	assert.Equal(t, first.Hash, second.Hash)
	assert.Len(t, first.Hash, 64)
	assert.Equal(t, "2026-03-15T12:30:45.123456Z", first.Timestamp)
	assert.Equal(t, 3055.0, first.TotalValue)
	assert.Equal(t, 2, first.NumHoldings)
	assert.Equal(t, []string{"AAPL", "MSFT"}, first.Holdings)
}

func TestBuild_HashChangesWithInput(t *testing.T) {
	svc := NewService(nil)
	now := time.Date(2026, 3, 15, 12, 30, 45, 0, time.UTC)

	base, err := svc.Build(samplePortfolio(), now)
	require.NoError(t, err)

	changed := samplePortfolio()
	changed.Holdings[0].Quantity = 11
	other, err := svc.Build(changed, now)
	require.NoError(t, err)

	assert.NotEqual(t, base.Hash, other.Hash)

	later, err := svc.Build(samplePortfolio(), now.Add(time.Microsecond))
	require.NoError(t, err)

	assert.NotEqual(t, base.Hash, later.Hash)

	// Holding order is significant, not just the set of holdings.
	reordered := samplePortfolio()
	reordered.Holdings[0], reordered.Holdings[1] = reordered.Holdings[1], reordered.Holdings[0]
	swapped, err := svc.Build(reordered, now)
	require.NoError(t, err)

	assert.NotEqual(t, base.Hash, swapped.Hash)
}

func TestBuild_NoteIsCanonicalJSON(t *testing.T) {
	svc := NewService(nil)
	now := time.Date(2026, 3, 15, 12, 30, 45, 0, time.UTC)

	snap, err := svc.Build(samplePortfolio(), now)
	require.NoError(t, err)

	assert.Contains(t, snap.Note, `"total_value":3055`)
	assert.Contains(t, snap.Note, `"symbol":"AAPL"`)
	assert.LessOrEqual(t, len(snap.Note), 1000)
}

func TestBuild_NilPortfolio(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Build(nil, time.Now())

	assert.ErrorIs(t, err, models.ErrNoPortfolio)
}

func TestSubmit_SimulationWhenUnconfigured(t *testing.T) {
	tests := []struct {
		name   string
		ledger *stubLedger
	}{
		{"nil ledger", nil},
		{"unconfigured ledger", &stubLedger{configured: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var svc *Service
			if tt.ledger == nil {
				svc = NewService(nil)
			} else {
				svc = NewService(tt.ledger)
			}

			snap, err := svc.Build(samplePortfolio(), time.Now())
			require.NoError(t, err)

			result := svc.Submit(context.Background(), snap)

			assert.Equal(t, models.LedgerStatusSimulation, result.Status)
			assert.Equal(t, "SIM"+snap.Hash[:16], result.SimulatedID)
		})
	}
}

func TestSubmit_Success(t *testing.T) {
	ledger := &stubLedger{
		configured: true,
		result: &models.LedgerResult{
			Status: models.LedgerStatusSuccess,
			TxID:   "ABC123",
		},
	}
	svc := NewService(ledger)

	snap, err := svc.Build(samplePortfolio(), time.Now())
	require.NoError(t, err)

	result := svc.Submit(context.Background(), snap)

	assert.Equal(t, models.LedgerStatusSuccess, result.Status)
	assert.Equal(t, "ABC123", result.TxID)
	assert.Equal(t, snap.Hash, ledger.gotDigest)
	assert.Equal(t, snap.TotalValue, ledger.gotNote.TotalValue)
}

func TestSubmit_ErrorResultOnFailure(t *testing.T) {
	ledger := &stubLedger{configured: true, err: errors.New("node unreachable")}
	svc := NewService(ledger)

	snap, err := svc.Build(samplePortfolio(), time.Now())
	require.NoError(t, err)

	result := svc.Submit(context.Background(), snap)

	assert.Equal(t, models.LedgerStatusError, result.Status)
	assert.Contains(t, result.Message, "node unreachable")
}
