package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newthinker/sentinel/internal/collector"
	"github.com/newthinker/sentinel/internal/core"
)

func TestYahoo_ImplementsCollector(t *testing.T) {
	var _ collector.Collector = (*Yahoo)(nil)
}

func TestYahoo_Name(t *testing.T) {
	y := New(0)
	if y.Name() != "yahoo" {
		t.Errorf("expected 'yahoo', got '%s'", y.Name())
	}
}

func TestValidateSymbol(t *testing.T) {
	valid := []string{"AAPL", "0700.HK", "NQ=F", "SEK=X", "^NDX", "BTC-USD"}
	for _, s := range valid {
		if err := validateSymbol(s); err != nil {
			t.Errorf("validateSymbol(%q) unexpected error: %v", s, err)
		}
	}

	invalid := []string{"", "AA PL", "../etc", "NQ=F;rm", "ABCDEFGHIJKLMNOPQRSTUVWXYZ"}
	for _, s := range invalid {
		if err := validateSymbol(s); err == nil {
			t.Errorf("validateSymbol(%q) expected error", s)
		}
	}
}

func newTestYahoo(t *testing.T, status int, body string) *Yahoo {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("interval"); got != "1m" {
			t.Errorf("expected interval=1m, got %s", got)
		}
		if got := r.URL.Query().Get("range"); got != "1d" {
			t.Errorf("expected range=1d, got %s", got)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	y := New(0)
	y.baseURL = srv.URL
	return y
}

func TestYahoo_FetchQuote(t *testing.T) {
	y := newTestYahoo(t, http.StatusOK, `{"chart":{"result":[{
		"meta":{"symbol":"NQ=F","regularMarketPrice":18250.5,"regularMarketTime":1718013600},
		"timestamp":[1718000000,1718000060,1718000120],
		"indicators":{"quote":[{"open":[null,18000.0,18100.0],"close":[18010.0,18105.0,null]}]}
	}],"error":null}}`)

	q, err := y.FetchQuote(context.Background(), "NQ=F")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Price != 18250.5 {
		t.Errorf("expected price 18250.5, got %f", q.Price)
	}
	if q.Open != 18000.0 {
		t.Errorf("expected first non-nil open 18000, got %f", q.Open)
	}
	if q.Source != "yahoo" {
		t.Errorf("expected source yahoo, got %s", q.Source)
	}
}

func TestYahoo_FetchQuote_FallsBackToLastClose(t *testing.T) {
	y := newTestYahoo(t, http.StatusOK, `{"chart":{"result":[{
		"meta":{"symbol":"SEK=X"},
		"indicators":{"quote":[{"open":[10.5],"close":[10.6,10.7,null]}]}
	}]}}`)

	q, err := y.FetchQuote(context.Background(), "SEK=X")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Price != 10.7 {
		t.Errorf("expected last close 10.7, got %f", q.Price)
	}
}

func TestYahoo_FetchQuote_NoData(t *testing.T) {
	y := newTestYahoo(t, http.StatusOK, `{"chart":{"result":[]}}`)

	_, err := y.FetchQuote(context.Background(), "NQ=F")
	if !errors.Is(err, core.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestYahoo_FetchQuote_ChartError(t *testing.T) {
	y := newTestYahoo(t, http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)

	if _, err := y.FetchQuote(context.Background(), "ZZZZ"); err == nil {
		t.Error("expected error for chart error")
	}
}

func TestYahoo_FetchQuote_BadStatus(t *testing.T) {
	y := newTestYahoo(t, http.StatusTooManyRequests, `Too Many Requests`)

	if _, err := y.FetchQuote(context.Background(), "NQ=F"); err == nil {
		t.Error("expected error for non-200 status")
	}
}
