package core

import (
	"testing"
	"time"
)

func TestQuote_IsValid(t *testing.T) {
	q := Quote{
		Symbol: "NQ=F",
		Price:  21050.25,
		Open:   20900,
		Time:   time.Now(),
	}

	if !q.IsValid() {
		t.Error("expected valid quote")
	}

	invalid := Quote{Symbol: "", Price: 0}
	if invalid.IsValid() {
		t.Error("expected invalid quote")
	}
}

func TestQuote_Change(t *testing.T) {
	tests := []struct {
		name       string
		q          Quote
		wantChange float64
		wantPct    float64
	}{
		{"up", Quote{Price: 110, Open: 100}, 10, 10},
		{"down", Quote{Price: 95, Open: 100}, -5, -5},
		{"zero open", Quote{Price: 95}, 0, 0},
		{"zero pair", Quote{}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Change(); got != tt.wantChange {
				t.Errorf("Change() = %v, want %v", got, tt.wantChange)
			}
			if got := tt.q.ChangePct(); got != tt.wantPct {
				t.Errorf("ChangePct() = %v, want %v", got, tt.wantPct)
			}
		})
	}
}

func TestZeroQuote(t *testing.T) {
	q := ZeroQuote(Instrument{Symbol: "SEK=X", Label: "USD / SEK"})
	if q.Symbol != "SEK=X" || q.Label != "USD / SEK" {
		t.Errorf("unexpected identity: %+v", q)
	}
	if q.Price != 0 || q.Open != 0 {
		t.Errorf("expected zero pair, got %+v", q)
	}
}

func TestTitles(t *testing.T) {
	got := Titles([]Headline{{Title: "a"}, {Title: "b"}})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected titles: %v", got)
	}
}
