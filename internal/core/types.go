package core

import "time"

// Instrument is a symbol tracked on the dashboard.
type Instrument struct {
	Symbol string `mapstructure:"symbol" json:"symbol"`
	Label  string `mapstructure:"label" json:"label"`
}

// Quote represents the latest price of a symbol and the session open it is
// measured against.
type Quote struct {
	Symbol string    `json:"symbol"`
	Label  string    `json:"label,omitempty"`
	Price  float64   `json:"price"`
	Open   float64   `json:"open"`
	Time   time.Time `json:"time"`
	Source string    `json:"source,omitempty"`
}

// IsValid checks if the quote has required fields
func (q Quote) IsValid() bool {
	return q.Symbol != "" && q.Price > 0
}

// Change returns the absolute change against the session open.
func (q Quote) Change() float64 {
	if q.Open == 0 {
		return 0
	}
	return q.Price - q.Open
}

// ChangePct returns the percentage change against the session open.
func (q Quote) ChangePct() float64 {
	if q.Open == 0 {
		return 0
	}
	return (q.Price - q.Open) / q.Open * 100
}

// ZeroQuote is the neutral value used when a symbol could not be fetched.
func ZeroQuote(in Instrument) Quote {
	return Quote{Symbol: in.Symbol, Label: in.Label}
}

// Headline is a single news item shown on the live wire.
type Headline struct {
	Title       string    `json:"title"`
	Link        string    `json:"link,omitempty"`
	Source      string    `json:"source,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// Titles returns the titles of the headlines in order.
func Titles(items []Headline) []string {
	titles := make([]string, len(items))
	for i, h := range items {
		titles[i] = h.Title
	}
	return titles
}
