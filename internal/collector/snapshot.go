package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/newthinker/sentinel/internal/core"
	"golang.org/x/sync/errgroup"
)

// Snapshot fetches a quote for every instrument concurrently. The result
// always has one entry per instrument, in order; a symbol that fails is
// replaced by its zero quote and its error is joined into the returned error.
func Snapshot(ctx context.Context, c Collector, instruments []core.Instrument) ([]core.Quote, error) {
	quotes := make([]core.Quote, len(instruments))

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	for i, in := range instruments {
		g.Go(func() error {
			q, err := c.FetchQuote(gctx, in.Symbol)
			if err == nil && (q == nil || !q.IsValid()) {
				err = core.ErrNoData
			}
			if err != nil {
				quotes[i] = core.ZeroQuote(in)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", in.Symbol, err))
				mu.Unlock()
				return nil
			}
			quote := *q
			quote.Symbol = in.Symbol
			quote.Label = in.Label
			quotes[i] = quote
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		return quotes, core.WrapError(core.ErrCollectorFailed, errors.Join(errs...))
	}
	return quotes, nil
}
