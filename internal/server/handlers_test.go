package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshagrawal-bit/riskfolio/internal/app"
	"github.com/harshagrawal-bit/riskfolio/internal/common"
	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

type stubPortfolio struct {
	current    *models.Portfolio
	summary    *models.PortfolioSummary
	summaryErr error
	uploadErr  error
}

func (s *stubPortfolio) UploadCSV(ctx context.Context, r io.Reader) (*models.Portfolio, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	return s.current, nil
}

func (s *stubPortfolio) UploadStatement(ctx context.Context, data []byte) (*models.Portfolio, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	return s.current, nil
}

func (s *stubPortfolio) Current() *models.Portfolio { return s.current }

func (s *stubPortfolio) Summary() (*models.PortfolioSummary, error) {
	return s.summary, s.summaryErr
}

type stubRisk struct {
	profile *models.RiskProfile
	err     error
	market  *models.MarketContext
}

func (s *stubRisk) BuildPriceMatrix(ctx context.Context, symbols []string, lookback time.Duration) (*models.PriceMatrix, error) {
	return nil, nil
}

func (s *stubRisk) Profile(ctx context.Context, p *models.Portfolio) (*models.RiskProfile, error) {
	return s.profile, s.err
}

func (s *stubRisk) MarketContext(ctx context.Context) *models.MarketContext {
	return s.market
}

type stubInsight struct {
	result *models.InsightResult
}

func (s *stubInsight) Explain(ctx context.Context, p *models.Portfolio, summary *models.PortfolioSummary, profile *models.RiskProfile) *models.InsightResult {
	return s.result
}

type stubSnapshot struct {
	snap   *models.Snapshot
	err    error
	result *models.LedgerResult
}

func (s *stubSnapshot) Build(p *models.Portfolio, now time.Time) (*models.Snapshot, error) {
	return s.snap, s.err
}

func (s *stubSnapshot) Submit(ctx context.Context, snap *models.Snapshot) *models.LedgerResult {
	return s.result
}

func testServer(portfolio *stubPortfolio, risk *stubRisk, ins *stubInsight, snap *stubSnapshot) *Server {
	a := &app.App{
		Config:      common.NewDefaultConfig(),
		Logger:      common.NewSilentLogger(),
		Portfolio:   portfolio,
		Risk:        risk,
		Insight:     ins,
		Snapshot:    snap,
		StartupTime: time.Now(),
	}
	return NewServer(a)
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	srv := testServer(&stubPortfolio{}, &stubRisk{}, &stubInsight{}, &stubSnapshot{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestUploadCSV(t *testing.T) {
	p := &models.Portfolio{Holdings: []models.Holding{{Symbol: "AAPL", Quantity: 10, Price: 150}}}
	srv := testServer(&stubPortfolio{current: p}, &stubRisk{}, &stubInsight{}, &stubSnapshot{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "holdings.csv", "symbol,quantity,price\nAAPL,10,150\n"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"num_holdings":1`)
}

func TestUpload_UnsupportedExtension(t *testing.T) {
	srv := testServer(&stubPortfolio{}, &stubRisk{}, &stubInsight{}, &stubSnapshot{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "holdings.xlsx", "data"))

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestUpload_MissingFile(t *testing.T) {
	srv := testServer(&stubPortfolio{}, &stubRisk{}, &stubInsight{}, &stubSnapshot{})

	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/upload", strings.NewReader("plain"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"missing column", &models.MissingFieldError{Field: "price"}, http.StatusBadRequest, "missing_column"},
		{"no holdings", models.ErrNoHoldingsFound, http.StatusBadRequest, "no_holdings"},
		{"parse failure", models.NewParseError(io.ErrUnexpectedEOF), http.StatusBadRequest, "parse_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testServer(&stubPortfolio{uploadErr: tt.err}, &stubRisk{}, &stubInsight{}, &stubSnapshot{})

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, uploadRequest(t, "holdings.csv", "symbol\nAAPL\n"))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestPortfolio_NotFoundWithoutUpload(t *testing.T) {
	srv := testServer(&stubPortfolio{summaryErr: models.ErrNoPortfolio}, &stubRisk{}, &stubInsight{}, &stubSnapshot{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortfolio_Summary(t *testing.T) {
	summary := &models.PortfolioSummary{
		TotalValue: 1500,
		Allocation: []models.Allocation{{Symbol: "AAPL", Weight: 1}},
	}
	srv := testServer(&stubPortfolio{summary: summary}, &stubRisk{}, &stubInsight{}, &stubSnapshot{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var got models.PortfolioSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1500.0, got.TotalValue)
}

func TestRisk(t *testing.T) {
	p := &models.Portfolio{Holdings: []models.Holding{{Symbol: "AAPL", Quantity: 1, Price: 100}}}

	tests := []struct {
		name     string
		risk     *stubRisk
		current  *models.Portfolio
		wantCode int
	}{
		{"ok", &stubRisk{profile: &models.RiskProfile{Volatility: 0.2}}, p, http.StatusOK},
		{"no portfolio", &stubRisk{}, nil, http.StatusNotFound},
		{"insufficient history", &stubRisk{err: models.ErrInsufficientHistory}, p, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testServer(&stubPortfolio{current: tt.current}, tt.risk, &stubInsight{}, &stubSnapshot{})

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio/risk", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestInsights(t *testing.T) {
	p := &models.Portfolio{Holdings: []models.Holding{{Symbol: "AAPL", Quantity: 1, Price: 100}}}
	srv := testServer(
		&stubPortfolio{current: p, summary: &models.PortfolioSummary{TotalValue: 100}},
		&stubRisk{profile: &models.RiskProfile{Volatility: 0.2}},
		&stubInsight{result: &models.InsightResult{AIPowered: false, Insights: "steady as she goes"}},
		&stubSnapshot{},
	)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio/insights", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "steady as she goes")
}

func TestMarketContext_AlwaysOK(t *testing.T) {
	market := &models.MarketContext{
		Indices: map[string]models.IndexQuote{
			"S&P 500": {Symbol: "GSPC.INDX", Error: "rate limited"},
		},
		Timestamp: time.Now(),
	}
	srv := testServer(&stubPortfolio{}, &stubRisk{market: market}, &stubInsight{}, &stubSnapshot{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/market/context", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limited")
}

func TestSnapshotSubmit(t *testing.T) {
	p := &models.Portfolio{Holdings: []models.Holding{{Symbol: "AAPL", Quantity: 1, Price: 100}}}
	snap := &models.Snapshot{Hash: strings.Repeat("ab", 32), NumHoldings: 1}
	srv := testServer(
		&stubPortfolio{current: p},
		&stubRisk{},
		&stubInsight{},
		&stubSnapshot{
			snap:   snap,
			result: &models.LedgerResult{Status: models.LedgerStatusSimulation, SimulatedID: "SIM" + snap.Hash[:16]},
		},
	)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/portfolio/snapshot/submit", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"simulation"`)
	assert.Contains(t, rec.Body.String(), "SIM")
}

func TestMethodNotAllowed(t *testing.T) {
	srv := testServer(&stubPortfolio{}, &stubRisk{}, &stubInsight{}, &stubSnapshot{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/portfolio", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))
}
