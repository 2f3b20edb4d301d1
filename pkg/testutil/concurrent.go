package testutil

import (
	"sync"

	dErrors "hamon/pkg/domain-errors"
)

// ConcurrentResult buckets the outcomes of one RunConcurrent burst.
type ConcurrentResult struct {
	Successes int32
	Denied    int32
	Errors    int32
	// Failures holds the errors counted in Errors, for assertion messages.
	Failures []error
}

func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Denied + r.Errors
}

// RunConcurrent releases n goroutines at once, each calling fn with its index.
// A nil return is a success and a rate limited domain error a denial; anything
// else lands in Errors.
func RunConcurrent(n int, fn func(idx int) error) *ConcurrentResult {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		out   ConcurrentResult
		start = make(chan struct{})
	)
	for i := range n {
		wg.Go(func() {
			<-start
			err := fn(i)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				out.Successes++
			case dErrors.HasCode(err, dErrors.CodeRateLimited):
				out.Denied++
			default:
				out.Errors++
				out.Failures = append(out.Failures, err)
			}
		})
	}
	close(start)
	wg.Wait()
	return &out
}
