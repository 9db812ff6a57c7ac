package risk

import (
	"time"

	"github.com/harshagrawal-bit/riskfolio/internal/common"
	"github.com/harshagrawal-bit/riskfolio/internal/interfaces"
)

// DefaultLookback covers roughly six months of trading days.
const DefaultLookback = 182 * 24 * time.Hour

// Service implements the RiskService interface
type Service struct {
	market   interfaces.MarketDataClient
	lookback time.Duration
	logger   *common.Logger
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithLookback sets the price history window
func WithLookback(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.lookback = d
		}
	}
}

// NewService creates a risk service backed by a market data client
func NewService(market interfaces.MarketDataClient, opts ...ServiceOption) *Service {
	s := &Service{
		market:   market,
		lookback: DefaultLookback,
		logger:   common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure Service implements RiskService
var _ interfaces.RiskService = (*Service)(nil)
