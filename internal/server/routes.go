package server

import (
	"net/http"
	"time"

	"github.com/harshagrawal-bit/riskfolio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Portfolio
	mux.HandleFunc("/api/portfolio/upload", s.handlePortfolioUpload)
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)

	// Analytics
	mux.HandleFunc("/api/portfolio/risk", s.handleRisk)
	mux.HandleFunc("/api/portfolio/insights", s.handleInsights)
	mux.HandleFunc("/api/market/context", s.handleMarketContext)

	// Snapshot
	mux.HandleFunc("/api/portfolio/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/portfolio/snapshot/submit", s.handleSnapshotSubmit)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.app.StartupTime).String(),
		"version": common.GetVersion(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":    cfg.Environment,
		"server":         map[string]interface{}{"host": cfg.Server.Host, "port": cfg.Server.Port},
		"portfolio_path": cfg.Storage.PortfolioPath,
		"lookback_days":  cfg.Risk.LookbackDays,
		"integrations": map[string]interface{}{
			"eodhd_api_key":  maskSecret(cfg.Clients.EODHD.APIKey),
			"gemini_api_key": maskSecret(cfg.Clients.Gemini.APIKey),
			"algorand":       s.app.LedgerConfigured(),
		},
	})
}
