package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/newthinker/sentinel/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollector struct {
	quotes map[string]*core.Quote
}

func (f *fakeCollector) Name() string { return "fake" }

func (f *fakeCollector) FetchQuote(_ context.Context, symbol string) (*core.Quote, error) {
	q, ok := f.quotes[symbol]
	if !ok {
		return nil, errors.New("symbol not found")
	}
	return q, nil
}

var instruments = []core.Instrument{
	{Symbol: "NQ=F", Label: "US100 FUTURES"},
	{Symbol: "SEK=X", Label: "USD / SEK"},
}

func TestSnapshot_AllOK(t *testing.T) {
	c := &fakeCollector{quotes: map[string]*core.Quote{
		"NQ=F":  {Symbol: "NQ=F", Price: 18250, Open: 18000},
		"SEK=X": {Symbol: "SEK=X", Price: 10.5, Open: 10.4},
	}}

	quotes, err := Snapshot(context.Background(), c, instruments)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "US100 FUTURES", quotes[0].Label)
	assert.Equal(t, 18250.0, quotes[0].Price)
	assert.Equal(t, "USD / SEK", quotes[1].Label)
}

func TestSnapshot_MissingSymbolYieldsZeroPair(t *testing.T) {
	c := &fakeCollector{quotes: map[string]*core.Quote{
		"SEK=X": {Symbol: "SEK=X", Price: 10.5, Open: 10.4},
	}}

	quotes, err := Snapshot(context.Background(), c, instruments)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrCollectorFailed))
	assert.Contains(t, err.Error(), "NQ=F")

	require.Len(t, quotes, 2)
	assert.Equal(t, "NQ=F", quotes[0].Symbol)
	assert.Equal(t, 0.0, quotes[0].Price)
	assert.Equal(t, 0.0, quotes[0].Open)
	assert.Equal(t, 10.5, quotes[1].Price, "other symbols stay intact")
}

func TestSnapshot_ZeroPriceCountsAsFailure(t *testing.T) {
	c := &fakeCollector{quotes: map[string]*core.Quote{
		"NQ=F":  {Symbol: "NQ=F"},
		"SEK=X": {Symbol: "SEK=X", Price: 10.5},
	}}

	quotes, err := Snapshot(context.Background(), c, instruments)
	assert.True(t, errors.Is(err, core.ErrCollectorFailed))
	assert.Equal(t, core.ZeroQuote(instruments[0]), quotes[0])
}

func TestSnapshot_Empty(t *testing.T) {
	quotes, err := Snapshot(context.Background(), &fakeCollector{}, nil)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}
