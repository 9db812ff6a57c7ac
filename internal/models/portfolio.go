// Package models defines the core data structures for Riskfolio
package models

// Holding is a single portfolio position. Investment value is always
// derived from quantity and price, never stored independently.
type Holding struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// Investment returns the position value (quantity * price).
func (h Holding) Investment() float64 {
	return h.Quantity * h.Price
}

// Portfolio is an ordered set of holdings. Order is significant for
// snapshot hashing and reporting; duplicate symbols are not merged.
type Portfolio struct {
	Holdings []Holding `json:"holdings"`
}

// TotalValue returns the sum of all position values.
func (p *Portfolio) TotalValue() float64 {
	total := 0.0
	for _, h := range p.Holdings {
		total += h.Investment()
	}
	return total
}

// Symbols returns the symbols in portfolio order, duplicates included.
func (p *Portfolio) Symbols() []string {
	symbols := make([]string, len(p.Holdings))
	for i, h := range p.Holdings {
		symbols[i] = h.Symbol
	}
	return symbols
}

// InvestmentBySymbol returns total invested value per symbol, with
// duplicate positions summed.
func (p *Portfolio) InvestmentBySymbol() map[string]float64 {
	out := make(map[string]float64, len(p.Holdings))
	for _, h := range p.Holdings {
		out[h.Symbol] += h.Investment()
	}
	return out
}

// Allocation is one entry of a portfolio summary.
type Allocation struct {
	Symbol     string  `json:"symbol"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Investment float64 `json:"investment"`
	Weight     float64 `json:"weight"`
}

// PortfolioSummary reports total value and per-position weights.
// Weights are listed per holding (portfolio order), so duplicate
// symbols appear as separate entries.
type PortfolioSummary struct {
	TotalValue float64      `json:"total_value"`
	Allocation []Allocation `json:"allocation"`
}

// RiskProfile is the computed risk metric suite. Ephemeral — never
// persisted.
type RiskProfile struct {
	Volatility    float64 `json:"volatility"`
	ValueAtRisk95 float64 `json:"value_at_risk_95"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	SharpeRatio   float64 `json:"sharpe_ratio"`
	AnnualReturn  float64 `json:"annual_return"`
}

// PriceMatrix is a date-indexed, symbol-keyed table of closing prices,
// restricted to dates where every symbol has a value. Dates ascend.
type PriceMatrix struct {
	Dates   []string    `json:"dates"`   // YYYY-MM-DD
	Symbols []string    `json:"symbols"` // column order
	Closes  [][]float64 `json:"closes"`  // Closes[row][col]
}

// Rows returns the number of dates in the matrix.
func (m *PriceMatrix) Rows() int {
	return len(m.Dates)
}

// IsEmpty reports whether the matrix has no usable rows.
func (m *PriceMatrix) IsEmpty() bool {
	return m == nil || len(m.Dates) == 0 || len(m.Symbols) == 0
}

// Snapshot is the canonical serialized portfolio state plus its
// SHA-256 digest, usable as a tamper-evidence fingerprint.
type Snapshot struct {
	Hash        string   `json:"snapshot_hash"`
	Timestamp   string   `json:"timestamp"`
	TotalValue  float64  `json:"total_value"`
	NumHoldings int      `json:"num_holdings"`
	Holdings    []string `json:"holdings"`
	// Note holds the canonical serialization, truncated to the 1KB
	// limit of an Algorand transaction note field.
	Note string `json:"note_field"`
}
