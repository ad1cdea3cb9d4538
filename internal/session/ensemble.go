package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/pulse/internal/multiplier"
)

// Ensemble runs n sessions concurrently, seeded seedStart, seedStart+1, ...
// Recorders are not shared between runs, so the copies record nothing.
func Ensemble(ctx context.Context, opts Options, n int, seedStart int64) ([]*Result, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: ensemble needs at least one run, got %d", multiplier.ErrInvalidConfig, n)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	results := make([]*Result, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			o := opts
			o.Seed = seedStart + int64(idx)
			o.Recorder = nil
			if o.Logger != nil {
				o.Logger = o.Logger.With(zap.Int("run", idx))
			}

			results[idx], errs[idx] = Run(ctx, o)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
