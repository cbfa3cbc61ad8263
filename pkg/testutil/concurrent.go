package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	dErrors "quoteflow/pkg/domain-errors"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes  int32
	Rejected   int32
	NotReached int32
	Upstream   int32
	Errors     int32
}

// Total returns the total number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Rejected + r.NotReached + r.Upstream + r.Errors
}

// RunConcurrent executes fn in parallel goroutines and buckets the outcomes by
// domain error code: input rejections (validation, bad request, consent),
// out-of-order steps, upstream failures and everything else.
func RunConcurrent(goroutines int, fn func(idx int) error) *ConcurrentResult {
	var wg sync.WaitGroup
	var successes, rejected, notReached, upstream, errs atomic.Int32

	for i := range goroutines {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			err := fn(idx)
			switch {
			case err == nil:
				successes.Add(1)
			case dErrors.HasCode(err, dErrors.CodeValidation),
				dErrors.HasCode(err, dErrors.CodeBadRequest),
				dErrors.HasCode(err, dErrors.CodeMissingConsent):
				rejected.Add(1)
			case dErrors.HasCode(err, dErrors.CodeStepNotReached):
				notReached.Add(1)
			case dErrors.HasCode(err, dErrors.CodeUpstream),
				dErrors.HasCode(err, dErrors.CodeTimeout):
				upstream.Add(1)
			default:
				errs.Add(1)
			}
		}(i)
	}

	wg.Wait()

	return &ConcurrentResult{
		Successes:  successes.Load(),
		Rejected:   rejected.Load(),
		NotReached: notReached.Load(),
		Upstream:   upstream.Load(),
		Errors:     errs.Load(),
	}
}

// RunConcurrentCtx executes fn in parallel goroutines with context support.
func RunConcurrentCtx(ctx context.Context, goroutines int, fn func(ctx context.Context, idx int) error) *ConcurrentResult {
	return RunConcurrent(goroutines, func(idx int) error {
		return fn(ctx, idx)
	})
}
