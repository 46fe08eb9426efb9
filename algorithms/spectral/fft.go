package spectral

import (
	"math"
	"math/bits"
	"runtime"

	"github.com/RyanBlaney/sonido-tuner/algorithms/common"
	"github.com/RyanBlaney/sonido-tuner/logging"
)

// DefaultSequentialCutover is the largest sub-sequence the parallel transform
// hands to a single goroutine without forking further
const DefaultSequentialCutover = 1024

// TransformOptions tunes the parallel fork-join decomposition
type TransformOptions struct {
	// SequentialCutover stops forking once a sub-sequence has this many
	// elements or fewer. Values below 1 are treated as 1.
	SequentialCutover int

	// MaxForkDepth bounds the number of fork levels. Zero derives a depth from
	// GOMAXPROCS so that there are at least as many leaves as processors.
	MaxForkDepth int
}

// DefaultTransformOptions returns the default cutover with an automatic fork depth
func DefaultTransformOptions() TransformOptions {
	return TransformOptions{
		SequentialCutover: DefaultSequentialCutover,
		MaxForkDepth:      0,
	}
}

// FFT computes radix-2 Cooley-Tukey transforms over power-of-two sequences
type FFT struct {
	opts   TransformOptions
	logger logging.Logger
}

// NewFFT creates a new FFT calculator. Its logger is derived from the global
// logger at construction, so call logging.SetGlobalLogger first.
func NewFFT(opts TransformOptions) *FFT {
	if opts.SequentialCutover < 1 {
		opts.SequentialCutover = 1
	}
	if opts.MaxForkDepth < 0 {
		opts.MaxForkDepth = 0
	}

	return &FFT{
		opts: opts,
		logger: logging.WithFields(logging.Fields{
			"component": "fft",
		}),
	}
}

// Options returns the options the calculator was built with
func (f *FFT) Options() TransformOptions {
	return f.opts
}

// forkDepth resolves MaxForkDepth, deriving it from GOMAXPROCS when unset
func (f *FFT) forkDepth() int {
	if f.opts.MaxForkDepth > 0 {
		return f.opts.MaxForkDepth
	}
	return bits.Len(uint(runtime.GOMAXPROCS(0)))
}

// Compute returns the forward transform of x on the calling goroutine.
// The result is in natural frequency-bin order and never aliases x.
func (f *FFT) Compute(x []common.Complex) ([]common.Complex, error) {
	if err := ValidateLength("fft", len(x)); err != nil {
		return nil, err
	}
	return forward(x), nil
}

// ComputeInverse returns the inverse transform of x as conj(FFT(conj(x))) / N
func (f *FFT) ComputeInverse(x []common.Complex) ([]common.Complex, error) {
	if err := ValidateLength("ifft", len(x)); err != nil {
		return nil, err
	}
	return conjugateScaled(forward(conjugated(x))), nil
}

// ComputeReal transforms real samples, treating them as zero-imaginary values
func (f *FFT) ComputeReal(samples []float64) ([]common.Complex, error) {
	return f.Compute(common.ComplexFromReals(samples))
}

func forward(x []common.Complex) []common.Complex {
	if len(x) == 1 {
		return []common.Complex{x[0]}
	}

	evens, odds := deinterleave(x)
	return butterfly(forward(evens), forward(odds))
}

// deinterleave splits x into its even- and odd-indexed elements
func deinterleave(x []common.Complex) (evens, odds []common.Complex) {
	half := len(x) / 2
	evens = make([]common.Complex, half)
	odds = make([]common.Complex, half)

	for i := range half {
		evens[i] = x[2*i]
		odds[i] = x[2*i+1]
	}
	return evens, odds
}

// butterfly combines the transforms of the even and odd halves:
//
//	out[k]     = E[k] + w_k * O[k]
//	out[k+N/2] = E[k] - w_k * O[k]
func butterfly(evens, odds []common.Complex) []common.Complex {
	half := len(evens)
	n := 2 * half
	out := make([]common.Complex, n)

	for k := range half {
		t := twiddle(k, n).Mul(odds[k])
		out[k] = evens[k].Add(t)
		out[k+half] = evens[k].Sub(t)
	}
	return out
}

// twiddle returns exp(-2*pi*i*k/n)
func twiddle(k, n int) common.Complex {
	return common.NewComplex(0, -2*math.Pi*float64(k)/float64(n)).Exp()
}

func conjugated(x []common.Complex) []common.Complex {
	out := make([]common.Complex, len(x))
	for i, c := range x {
		out[i] = c.Conjugate()
	}
	return out
}

// conjugateScaled conjugates y in place and divides every element by len(y)
func conjugateScaled(y []common.Complex) []common.Complex {
	scale := 1.0 / float64(len(y))
	for i := range y {
		y[i].ConjugateAssign().MulRealAssign(scale)
	}
	return y
}
