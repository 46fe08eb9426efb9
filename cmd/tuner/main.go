package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/RyanBlaney/sonido-tuner/algorithms/common"
	"github.com/RyanBlaney/sonido-tuner/algorithms/spectral"
	"github.com/RyanBlaney/sonido-tuner/algorithms/tonal"
	"github.com/RyanBlaney/sonido-tuner/config"
	"github.com/RyanBlaney/sonido-tuner/logging"
	"github.com/RyanBlaney/sonido-tuner/transcode"
)

const peakFloorDB = -120.0

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	frameSize := flag.Int("frame", 0, "Samples per analysis frame, a power of two (0 = largest that fits)")
	rate := flag.Int("rate", 0, "Override the sample rate in Hz")
	benchSize := flag.Int("bench", 0, "Benchmark sequential vs parallel FFT on a random buffer of this length")
	runs := flag.Int("runs", 5, "Benchmark repetitions")
	seed := flag.Int64("seed", 1, "Random seed for benchmark buffers")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if *rate > 0 {
		cfg.Estimator.SampleRate = *rate
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid logging config: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobalLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *benchSize > 0 {
		if err := runBenchmark(ctx, cfg, *benchSize, *runs, *seed); err != nil {
			logging.Fatal(err, "Benchmark failed")
		}
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: tuner [flags] file.wav ...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		if err := analyzeFile(ctx, cfg, path, *frameSize, *rate); err != nil {
			logging.Error(err, "Analysis failed", logging.Fields{"file": path})
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// analyzeFile prints the dominant frequency of the first frame of a WAV file
func analyzeFile(ctx context.Context, cfg *config.Config, path string, frameSize, rateOverride int) error {
	data, err := transcode.NewDecoder(&cfg.Decoder).DecodeFile(path)
	if err != nil {
		return err
	}

	var frame []common.Complex
	if frameSize > 0 {
		frame, err = data.Frame(frameSize)
	} else {
		frame, err = data.LargestFrame()
	}
	if err != nil {
		return err
	}

	estimator, err := tonal.NewFrequencyEstimatorWithSamples(frame, cfg.EstimatorOptions()...)
	if err != nil {
		return err
	}
	if rateOverride <= 0 {
		estimator.SetSampleRate(data.SampleRate)
	}

	level, err := peakLevel(cfg, frame, estimator.SampleRate())
	if err != nil {
		return err
	}

	estimator.AddObserver(tonal.FrequencyObserverFunc(func(freq float64) {
		fmt.Printf("%s: %.3f Hz, peak %.1f dB (%d samples @ %d Hz, resolution %.3f Hz)\n",
			path, freq, level, len(frame), estimator.SampleRate(),
			float64(estimator.SampleRate())/float64(len(frame)))
	}))

	if _, err := estimator.ComputeFrequency(ctx); err != nil {
		return err
	}
	estimator.NotifyObservers()
	return nil
}

// peakLevel returns the power in dB of the dominant bin of frame
func peakLevel(cfg *config.Config, frame []common.Complex, sampleRate int) (float64, error) {
	spectrum, err := spectral.NewFFT(cfg.TransformOptions()).Compute(frame)
	if err != nil {
		return 0, err
	}

	peak, err := spectral.NewPeakFinder(sampleRate).FindPeak(spectrum)
	if err != nil {
		return 0, err
	}

	levels := spectral.NewPowerSpectrum().ComputeLog(spectrum, peakFloorDB)
	return levels[peak.Bin], nil
}

// runBenchmark times both transform paths on the same random buffer and
// checks that they agree
func runBenchmark(ctx context.Context, cfg *config.Config, size, runs int, seed int64) error {
	if err := spectral.ValidateLength("benchmark", size); err != nil {
		return err
	}
	if runs < 1 {
		runs = 1
	}

	rng := rand.New(rand.NewSource(seed))
	samples := make([]float64, size)
	for i := range samples {
		samples[i] = rng.Float64()
	}
	input := common.ComplexFromReals(samples)

	fft := spectral.NewFFT(cfg.TransformOptions())

	var sequential, parallel []common.Complex
	seqTimes := make([]float64, runs)
	parTimes := make([]float64, runs)

	for i := range runs {
		start := time.Now()
		out, err := fft.Compute(input)
		if err != nil {
			return err
		}
		seqTimes[i] = time.Since(start).Seconds() * 1000
		sequential = out

		start = time.Now()
		out, err = fft.ComputeParallel(ctx, input)
		if err != nil {
			return err
		}
		parTimes[i] = time.Since(start).Seconds() * 1000
		parallel = out
	}

	mismatches := 0
	for i := range sequential {
		if !sequential[i].EqualWithin(parallel[i], 1e-9) {
			mismatches++
		}
	}

	fmt.Printf("FFT benchmark: %d samples, %d runs\n", size, runs)
	fmt.Printf("  sequential: mean %.3f ms, stddev %.3f ms, p50 %.3f ms\n",
		common.Mean(seqTimes), common.StandardDeviation(seqTimes), common.Percentile(seqTimes, 0.5))
	fmt.Printf("  parallel:   mean %.3f ms, stddev %.3f ms, p50 %.3f ms\n",
		common.Mean(parTimes), common.StandardDeviation(parTimes), common.Percentile(parTimes, 0.5))
	if mean := common.Mean(parTimes); mean > 0 {
		fmt.Printf("  speedup:    %.2fx\n", common.Mean(seqTimes)/mean)
	}

	if mismatches > 0 {
		return fmt.Errorf("parallel result differs from sequential in %d bins", mismatches)
	}
	return nil
}
