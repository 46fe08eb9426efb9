package tonal

import (
	"context"
	"fmt"
	"time"

	"github.com/RyanBlaney/sonido-tuner/algorithms/common"
	"github.com/RyanBlaney/sonido-tuner/algorithms/spectral"
	"github.com/RyanBlaney/sonido-tuner/logging"
)

const (
	// DefaultSampleRate is used when no sample rate is given
	DefaultSampleRate = 8000

	// DefaultParallelThreshold is the smallest sequence length that uses the
	// parallel transform
	DefaultParallelThreshold = 524288
)

// FrequencyObserver receives every newly computed frequency
type FrequencyObserver interface {
	UpdateFrequency(frequency float64)
}

// FrequencyObserverFunc adapts a plain function to FrequencyObserver
type FrequencyObserverFunc func(frequency float64)

func (f FrequencyObserverFunc) UpdateFrequency(frequency float64) {
	f(frequency)
}

// FrequencyResult is the outcome of an asynchronous computation
type FrequencyResult struct {
	Frequency float64
	Err       error
}

// FrequencyEstimator estimates the dominant frequency of a sample buffer.
//
// An estimator is owned by one caller at a time; it does no locking of its own.
type FrequencyEstimator struct {
	samples           []common.Complex
	sampleRate        int
	frequency         float64
	parallelThreshold int
	observers         []FrequencyObserver

	fft    *spectral.FFT
	logger logging.Logger
}

// EstimatorOption configures a FrequencyEstimator
type EstimatorOption func(*FrequencyEstimator)

// WithSampleRate sets the sample rate in Hz
func WithSampleRate(sampleRate int) EstimatorOption {
	return func(fe *FrequencyEstimator) {
		fe.sampleRate = sampleRate
	}
}

// WithParallelThreshold sets the length at which the parallel transform takes over
func WithParallelThreshold(threshold int) EstimatorOption {
	return func(fe *FrequencyEstimator) {
		fe.parallelThreshold = threshold
	}
}

// WithTransformOptions sets the fork-join tuning of the parallel transform
func WithTransformOptions(opts spectral.TransformOptions) EstimatorOption {
	return func(fe *FrequencyEstimator) {
		fe.fft = spectral.NewFFT(opts)
	}
}

// WithLogger replaces the estimator's logger
func WithLogger(logger logging.Logger) EstimatorOption {
	return func(fe *FrequencyEstimator) {
		fe.logger = logger
	}
}

// NewFrequencyEstimator creates an estimator without samples, at DefaultSampleRate
// unless overridden. Without WithLogger, the logger is taken from the global
// logger at construction time and later SetGlobalLogger calls do not reach it.
func NewFrequencyEstimator(opts ...EstimatorOption) *FrequencyEstimator {
	fe := &FrequencyEstimator{
		sampleRate:        DefaultSampleRate,
		parallelThreshold: DefaultParallelThreshold,
		logger: logging.WithFields(logging.Fields{
			"component": "frequency_estimator",
		}),
	}

	for _, opt := range opts {
		opt(fe)
	}

	if fe.fft == nil {
		fe.fft = spectral.NewFFT(spectral.DefaultTransformOptions())
	}

	return fe
}

// NewFrequencyEstimatorWithSamples creates an estimator holding samples.
// It fails when len(samples) is not a power of two.
func NewFrequencyEstimatorWithSamples(samples []common.Complex, opts ...EstimatorOption) (*FrequencyEstimator, error) {
	fe := NewFrequencyEstimator(opts...)
	if err := fe.SetSamples(samples); err != nil {
		return nil, err
	}
	return fe, nil
}

// SetSamples replaces the sample sequence. The slice is retained, not copied.
// A nil slice clears the samples.
func (fe *FrequencyEstimator) SetSamples(samples []common.Complex) error {
	if samples != nil {
		if err := spectral.ValidateLength("set samples", len(samples)); err != nil {
			return err
		}
	}
	fe.samples = samples
	return nil
}

// SetRealSamples wraps real samples as zero-imaginary values and stores them
func (fe *FrequencyEstimator) SetRealSamples(samples []float64) error {
	if err := spectral.ValidateLength("set samples", len(samples)); err != nil {
		return err
	}
	fe.samples = common.ComplexFromReals(samples)
	return nil
}

// Samples returns the current sample sequence
func (fe *FrequencyEstimator) Samples() []common.Complex {
	return fe.samples
}

func (fe *FrequencyEstimator) SetSampleRate(sampleRate int) {
	fe.sampleRate = sampleRate
}

func (fe *FrequencyEstimator) SampleRate() int {
	return fe.sampleRate
}

// Frequency returns the result of the last successful computation, or 0
func (fe *FrequencyEstimator) Frequency() float64 {
	return fe.frequency
}

// ComputeFrequency transforms the samples and stores the frequency of the
// strongest bin in [0, N/2). Sequences of at least the parallel threshold use
// the parallel transform. On error the stored frequency is left unchanged.
func (fe *FrequencyEstimator) ComputeFrequency(ctx context.Context) (float64, error) {
	if fe.samples == nil {
		return 0, fmt.Errorf("compute frequency: %w: %w", spectral.ErrUninitializedInput, spectral.ErrInvalidLength)
	}

	n := len(fe.samples)
	if err := spectral.ValidateLength("compute frequency", n); err != nil {
		return 0, err
	}

	parallel := n >= fe.parallelThreshold
	logger := fe.logger.WithContext(ctx).WithFields(logging.Fields{
		"length":      n,
		"sample_rate": fe.sampleRate,
		"parallel":    parallel,
	})
	logger.Debug("Computing dominant frequency")

	start := time.Now()

	var spectrum []common.Complex
	var err error
	if parallel {
		spectrum, err = fe.fft.ComputeParallel(ctx, fe.samples)
	} else {
		spectrum, err = fe.fft.Compute(fe.samples)
	}
	if err != nil {
		return 0, fmt.Errorf("compute frequency: %w", err)
	}

	peak, err := spectral.NewPeakFinder(fe.sampleRate).FindPeak(spectrum)
	if err != nil {
		return 0, fmt.Errorf("compute frequency: %w", err)
	}

	fe.frequency = peak.Frequency

	logger.Info("Dominant frequency computed", logging.Fields{
		"frequency_hz": peak.Frequency,
		"bin":          peak.Bin,
		"elapsed":      time.Since(start),
	})

	return fe.frequency, nil
}

// ComputeAsync runs ComputeFrequency on its own goroutine and delivers the
// result on the returned channel, which is closed afterwards. The estimator
// must not be touched until the result has been received.
func (fe *FrequencyEstimator) ComputeAsync(ctx context.Context) <-chan FrequencyResult {
	results := make(chan FrequencyResult, 1)
	go func() {
		defer close(results)
		freq, err := fe.ComputeFrequency(ctx)
		results <- FrequencyResult{Frequency: freq, Err: err}
	}()
	return results
}

// AddObserver registers an observer. Nil observers are ignored.
func (fe *FrequencyEstimator) AddObserver(observer FrequencyObserver) {
	if observer != nil {
		fe.observers = append(fe.observers, observer)
	}
}

// NotifyObservers sends the current frequency to every registered observer, in
// registration order
func (fe *FrequencyEstimator) NotifyObservers() {
	for _, observer := range fe.observers {
		observer.UpdateFrequency(fe.frequency)
	}
}
