package spectral

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/sonido-tuner/algorithms/common"
	"github.com/RyanBlaney/sonido-tuner/logging"
)

// ComputeParallel returns the same transform as Compute, built as a fork-join
// tree. Each node deinterleaves its input and forks one goroutine per half
// until the fork depth is exhausted or a half is no larger than the
// sequential cutover; leaves run the sequential transform and every internal
// node merges its children's results with the butterfly once both are done.
//
// Branches own disjoint copies of the data, so no locking is involved. The
// first failing branch cancels ctx for its siblings and its error is returned
// after all of them have finished. ctx is checked at every fork and leaf.
func (f *FFT) ComputeParallel(ctx context.Context, x []common.Complex) ([]common.Complex, error) {
	if err := ValidateLength("fft", len(x)); err != nil {
		return nil, err
	}

	depth := f.forkDepth()
	f.logger.Debug("Starting parallel FFT", logging.Fields{
		"length":             len(x),
		"max_fork_depth":     depth,
		"sequential_cutover": f.opts.SequentialCutover,
	})

	return f.forkJoin(ctx, x, depth)
}

// ComputeInverseParallel is ComputeInverse on top of ComputeParallel
func (f *FFT) ComputeInverseParallel(ctx context.Context, x []common.Complex) ([]common.Complex, error) {
	if err := ValidateLength("ifft", len(x)); err != nil {
		return nil, err
	}

	y, err := f.forkJoin(ctx, conjugated(x), f.forkDepth())
	if err != nil {
		return nil, err
	}
	return conjugateScaled(y), nil
}

func (f *FFT) forkJoin(ctx context.Context, x []common.Complex, depth int) ([]common.Complex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if depth == 0 || len(x) <= f.opts.SequentialCutover {
		return f.Compute(x)
	}

	evens, odds := deinterleave(x)

	var evensFFT, oddsFFT []common.Complex
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		evensFFT, err = f.forkJoin(gctx, evens, depth-1)
		return err
	})
	g.Go(func() error {
		var err error
		oddsFFT, err = f.forkJoin(gctx, odds, depth-1)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return butterfly(evensFFT, oddsFFT), nil
}
