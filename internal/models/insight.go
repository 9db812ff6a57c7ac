package models

// RiskSummary is the compact numeric companion to an insight response.
type RiskSummary struct {
	VolatilityPct        float64 `json:"volatility_pct"`
	MaxSinglePositionPct float64 `json:"max_single_position_pct"`
	TotalAssets          int     `json:"total_assets"`
}

// InsightResult is the outcome of an explanation request. AIPowered
// distinguishes an enriched result (text-generation service answered)
// from the degraded rule-based fallback.
type InsightResult struct {
	AIPowered   bool        `json:"ai_powered"`
	Insights    string      `json:"insights"`
	RiskSummary RiskSummary `json:"risk_summary"`
}

// LedgerNote is the metadata submitted alongside a snapshot digest.
type LedgerNote struct {
	SnapshotHash string  `json:"snapshot_hash"`
	Timestamp    string  `json:"timestamp"`
	TotalValue   float64 `json:"total_value"`
	NumHoldings  int     `json:"num_holdings"`
}

// Ledger submission statuses.
const (
	LedgerStatusSuccess    = "success"
	LedgerStatusSimulation = "simulation"
	LedgerStatusError      = "error"
)

// LedgerResult is the outcome of a ledger submission. A simulated or
// error status means the degraded local fallback was substituted; the
// response is still valid for the caller.
type LedgerResult struct {
	Status       string  `json:"status"`
	TxID         string  `json:"tx_id,omitempty"`
	SimulatedID  string  `json:"simulated_tx_id,omitempty"`
	ExplorerLink string  `json:"explorer_link,omitempty"`
	Network      string  `json:"network,omitempty"`
	Fee          float64 `json:"fee,omitempty"`
	Message      string  `json:"message,omitempty"`
}
