// Package app wires configuration, clients, and services into a
// runnable application core.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harshagrawal-bit/riskfolio/internal/clients/algorand"
	"github.com/harshagrawal-bit/riskfolio/internal/clients/eodhd"
	"github.com/harshagrawal-bit/riskfolio/internal/clients/gemini"
	"github.com/harshagrawal-bit/riskfolio/internal/common"
	"github.com/harshagrawal-bit/riskfolio/internal/interfaces"
	"github.com/harshagrawal-bit/riskfolio/internal/services/insight"
	"github.com/harshagrawal-bit/riskfolio/internal/services/portfolio"
	"github.com/harshagrawal-bit/riskfolio/internal/services/risk"
	"github.com/harshagrawal-bit/riskfolio/internal/services/snapshot"
	"github.com/harshagrawal-bit/riskfolio/internal/services/statement"
	"github.com/harshagrawal-bit/riskfolio/internal/storage"
)

// App holds all initialized clients and services. It is the shared
// core behind cmd/riskfolio-server.
type App struct {
	Config *common.Config
	Logger *common.Logger

	Store        interfaces.PortfolioStore
	MarketClient interfaces.MarketDataClient
	GenClient    interfaces.TextGenClient
	LedgerClient interfaces.LedgerClient

	Portfolio interfaces.PortfolioService
	Risk      interfaces.RiskService
	Insight   interfaces.InsightService
	Snapshot  interfaces.SnapshotService

	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, clients, and services. configPath
// may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("RISKFOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "riskfolio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/riskfolio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.PortfolioPath != "" && !filepath.IsAbs(config.Storage.PortfolioPath) {
		config.Storage.PortfolioPath = filepath.Join(binDir, config.Storage.PortfolioPath)
	}

	logger := common.NewLogger(config.Logging.Level)

	a := &App{
		Config:      config,
		Logger:      logger,
		StartupTime: time.Now(),
	}

	// Market data client
	eodhdKey := common.ResolveAPIKey("eodhd", []string{"EODHD_API_KEY"}, config.Clients.EODHD.APIKey)
	if eodhdKey == "" {
		logger.Warn().Msg("EODHD API key not configured - risk metrics and market context will be unavailable")
	}
	a.MarketClient = eodhd.NewClient(eodhdKey,
		eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
		eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
		eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		eodhd.WithLogger(logger),
	)

	// Text generation client (optional)
	geminiKey := common.ResolveAPIKey("gemini", []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}, config.Clients.Gemini.APIKey)
	if geminiKey != "" {
		genClient, err := gemini.NewClient(context.Background(), geminiKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client - insights will be rule-based")
		} else {
			a.GenClient = genClient
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - insights will be rule-based")
	}

	// Ledger client (optional)
	ledgerClient, err := algorand.NewClient(
		config.Clients.Algorand.AlgodURL,
		config.Clients.Algorand.AlgodToken,
		config.Clients.Algorand.Mnemonic,
		algorand.WithNetwork(config.Clients.Algorand.Network),
		algorand.WithLogger(logger),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize Algorand client - snapshot submission will be simulated")
	} else {
		a.LedgerClient = ledgerClient
		if !ledgerClient.Configured() {
			logger.Info().Msg("Algorand mnemonic not configured - snapshot submission will be simulated")
		}
	}

	// Storage and services
	a.Store = storage.NewFileStore(config.Storage.PortfolioPath, storage.WithLogger(logger))

	parser := statement.NewParser(statement.WithLogger(logger))
	portfolioService, err := portfolio.NewService(a.Store, parser, portfolio.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize portfolio service: %w", err)
	}
	a.Portfolio = portfolioService

	a.Risk = risk.NewService(a.MarketClient,
		risk.WithLookback(config.Risk.Lookback()),
		risk.WithLogger(logger),
	)
	a.Insight = insight.NewService(a.GenClient, insight.WithLogger(logger))
	a.Snapshot = snapshot.NewService(a.LedgerClient, snapshot.WithLogger(logger))

	logger.Info().
		Str("environment", config.Environment).
		Str("portfolio_path", config.Storage.PortfolioPath).
		Msg("Application initialized")

	return a, nil
}

// LedgerConfigured reports whether real ledger submission is possible.
func (a *App) LedgerConfigured() bool {
	return a.LedgerClient != nil && a.LedgerClient.Configured()
}
