package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/harshagrawal-bit/riskfolio/internal/clients/eodhd"
	"github.com/harshagrawal-bit/riskfolio/internal/models"
)

// maxUploadSize caps portfolio uploads at 10MB.
const maxUploadSize = 10 << 20

// writePipelineError maps domain errors onto HTTP status codes.
func writePipelineError(w http.ResponseWriter, err error) {
	var missing *models.MissingFieldError
	if errors.As(err, &missing) {
		WriteErrorWithCode(w, http.StatusBadRequest, missing.Error(), "missing_column")
		return
	}
	if errors.Is(err, models.ErrNoHoldingsFound) {
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "no_holdings")
		return
	}
	var parseErr *models.ParseError
	if errors.As(err, &parseErr) {
		WriteErrorWithCode(w, http.StatusBadRequest, parseErr.Error(), "parse_failed")
		return
	}
	if errors.Is(err, models.ErrNoPortfolio) {
		WriteError(w, http.StatusNotFound, "No portfolio uploaded. Upload a CSV or statement first.")
		return
	}
	if errors.Is(err, models.ErrInsufficientHistory) {
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), "insufficient_history")
		return
	}
	var apiErr *eodhd.APIError
	if errors.As(err, &apiErr) {
		WriteErrorWithCode(w, http.StatusBadGateway, "Market data provider error: "+apiErr.Message, "provider_error")
		return
	}
	WriteError(w, http.StatusInternalServerError, err.Error())
}

// handlePortfolioUpload handles POST /api/portfolio/upload. The
// multipart "file" part is routed on extension: .csv to the tabular
// parser, .pdf to the statement parser.
func (s *Server) handlePortfolioUpload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Multipart form field 'file' is required")
		return
	}
	defer file.Close()

	var p *models.Portfolio
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		p, err = s.app.Portfolio.UploadCSV(r.Context(), file)
	case ".pdf":
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}
		p, err = s.app.Portfolio.UploadStatement(r.Context(), data)
	default:
		WriteError(w, http.StatusUnsupportedMediaType, "Unsupported file type. Upload a .csv or .pdf file.")
		return
	}
	if err != nil {
		writePipelineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "success",
		"num_holdings": len(p.Holdings),
		"total_value":  p.TotalValue(),
		"symbols":      p.Symbols(),
	})
}

// handlePortfolio handles GET /api/portfolio.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := s.app.Portfolio.Summary()
	if err != nil {
		writePipelineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// handleRisk handles GET /api/risk.
func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	p := s.app.Portfolio.Current()
	if p == nil {
		writePipelineError(w, models.ErrNoPortfolio)
		return
	}

	profile, err := s.app.Risk.Profile(r.Context(), p)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

// handleInsights handles GET /api/insights.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	p := s.app.Portfolio.Current()
	if p == nil {
		writePipelineError(w, models.ErrNoPortfolio)
		return
	}
	summary, err := s.app.Portfolio.Summary()
	if err != nil {
		writePipelineError(w, err)
		return
	}
	profile, err := s.app.Risk.Profile(r.Context(), p)
	if err != nil {
		writePipelineError(w, err)
		return
	}

	result := s.app.Insight.Explain(r.Context(), p, summary, profile)
	WriteJSON(w, http.StatusOK, result)
}

// handleMarketContext handles GET /api/market/context. Individual
// index failures are reported inline, never as a non-200.
func (s *Server) handleMarketContext(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, s.app.Risk.MarketContext(r.Context()))
}

// handleSnapshot handles GET /api/snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	p := s.app.Portfolio.Current()
	if p == nil {
		writePipelineError(w, models.ErrNoPortfolio)
		return
	}

	snap, err := s.app.Snapshot.Build(p, time.Now())
	if err != nil {
		writePipelineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, snap)
}

// handleSnapshotSubmit handles POST /api/snapshot/submit. Submission
// always yields a reportable result: success, simulation, or error.
func (s *Server) handleSnapshotSubmit(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	p := s.app.Portfolio.Current()
	if p == nil {
		writePipelineError(w, models.ErrNoPortfolio)
		return
	}

	snap, err := s.app.Snapshot.Build(p, time.Now())
	if err != nil {
		writePipelineError(w, err)
		return
	}

	result := s.app.Snapshot.Submit(r.Context(), snap)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"snapshot":   snap,
		"submission": result,
	})
}
