package verification

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// VerifyAll runs independent engines concurrently and returns their results
// in the same order. The first fatal error cancels the remaining runs.
func VerifyAll(ctx context.Context, engines []*Engine) ([]*VerificationResult, error) {
	results := make([]*VerificationResult, len(engines))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, e := range engines {
		i, e := i, e
		g.Go(func() error {
			result, err := e.Verify(ctx)
			if err != nil {
				return fmt.Errorf("suite %s: %w", e.suite.Name, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// AllCompatible reports whether every result is fully compatible.
func AllCompatible(results []*VerificationResult) bool {
	for _, r := range results {
		if r == nil || !r.IsAllCompatible {
			return false
		}
	}
	return true
}
