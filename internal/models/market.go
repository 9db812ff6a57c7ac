package models

import "time"

// EODBar represents one end-of-day price bar.
type EODBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   int64     `json:"volume"`
}

// IndexQuote is the latest level and daily change of a market index,
// used for the market context endpoint.
type IndexQuote struct {
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"current_price,omitempty"`
	ChangePercent float64 `json:"change_percent,omitempty"`
	Trend         string  `json:"trend,omitempty"` // "up" or "down"
	Error         string  `json:"error,omitempty"`
}

// MarketContext bundles index quotes keyed by display name.
type MarketContext struct {
	Indices   map[string]IndexQuote `json:"indices"`
	Timestamp time.Time             `json:"timestamp"`
}
