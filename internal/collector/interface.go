package collector

import (
	"context"

	"github.com/newthinker/sentinel/internal/core"
)

// Collector fetches market quotes from a single data source.
type Collector interface {
	Name() string
	// FetchQuote returns the latest price and the session's opening price.
	FetchQuote(ctx context.Context, symbol string) (*core.Quote, error)
}
