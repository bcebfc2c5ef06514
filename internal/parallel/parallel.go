// Package parallel holds the small set of fan-out helpers shared by the
// algebra packages. Every helper partitions its output so that each goroutine
// owns a disjoint part of it; none of them needs a lock around results.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/sync/errgroup"
)

var log = logging.Logger("parallel")

// ErrBudgetExhausted is returned by FirstSuccess when no attempt succeeded.
var ErrBudgetExhausted = errors.New("parallel: attempt budget exhausted")

// MinChunk is the smallest range handed to a single goroutine by For.
const MinChunk = 32

var errWitness = errors.New("witness found")

// Workers returns the default number of goroutines used for fan-out.
func Workers() int {
	return runtime.GOMAXPROCS(0)
}

// For calls fn on disjoint ranges [lo, hi) that together cover [0, n).
// Small inputs run inline on the calling goroutine.
func For(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = Workers()
	}
	if workers == 1 || n < 2*MinChunk {
		fn(0, n)
		return
	}
	step := (n + workers - 1) / workers
	if step < MinChunk {
		step = MinChunk
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += step {
		lo, hi := lo, min(lo+step, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

// Pipeline calls produce(i) sequentially for i in [0, n) and hands every
// produced value to check on a worker goroutine. As soon as one check
// reports a witness no further values are produced, and Pipeline returns
// true. A sequential run gives the same answer.
func Pipeline[T any](n, workers int, produce func(i int) T, check func(T) bool) bool {
	if workers <= 0 {
		workers = Workers()
	}
	if workers == 1 || n < 4 {
		for i := 0; i < n; i++ {
			if check(produce(i)) {
				return true
			}
		}
		return false
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	var found atomic.Bool
	for i := 0; i < n && ctx.Err() == nil; i++ {
		v := produce(i)
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if check(v) {
				found.Store(true)
				return errWitness
			}
			return nil
		})
	}
	_ = g.Wait()
	return found.Load()
}

// FirstSuccess runs randomized attempts until one succeeds or budget
// attempts have been made. Inputs are drawn sequentially with draw, so a
// deterministic random source gives a deterministic result; the attempts
// themselves run in batches of workers goroutines and the lowest-numbered
// success of the first successful batch wins. It returns the winning output
// and the number of attempts consumed.
func FirstSuccess[In, Out any](ctx context.Context, budget, workers int, draw func() In, try func(In) (Out, bool)) (Out, int, error) {
	var zero Out
	if workers <= 0 {
		workers = Workers()
	}
	for start := 0; start < budget; start += workers {
		if err := ctx.Err(); err != nil {
			return zero, start, err
		}
		k := min(workers, budget-start)
		inputs := make([]In, k)
		for j := range inputs {
			inputs[j] = draw()
		}
		outs := make([]Out, k)
		oks := make([]bool, k)
		if k == 1 {
			outs[0], oks[0] = try(inputs[0])
		} else {
			var g errgroup.Group
			for j := 0; j < k; j++ {
				j := j
				g.Go(func() error {
					outs[j], oks[j] = try(inputs[j])
					return nil
				})
			}
			_ = g.Wait()
		}
		for j, ok := range oks {
			if ok {
				return outs[j], start + j + 1, nil
			}
		}
	}
	log.Debugf("no success after %d attempts", budget)
	return zero, budget, ErrBudgetExhausted
}
