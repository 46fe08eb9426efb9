package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-tuner/algorithms/spectral"
	"github.com/RyanBlaney/sonido-tuner/algorithms/tonal"
	"github.com/RyanBlaney/sonido-tuner/logging"
	"github.com/RyanBlaney/sonido-tuner/transcode"
)

// Config represents the tuner configuration
type Config struct {
	Transform TransformConfig         `yaml:"transform"`
	Estimator EstimatorConfig         `yaml:"estimator"`
	Decoder   transcode.DecoderConfig `yaml:"decoder"`
	Logging   LoggingConfig           `yaml:"logging"`
}

type TransformConfig struct {
	SequentialCutover int `yaml:"sequential_cutover"`
	MaxForkDepth      int `yaml:"max_fork_depth"` // 0 = derive from GOMAXPROCS
}

type EstimatorConfig struct {
	SampleRate        int `yaml:"sample_rate"`        // Hz, used when the source has none
	ParallelThreshold int `yaml:"parallel_threshold"` // samples
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Color bool   `yaml:"color"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Transform: TransformConfig{
			SequentialCutover: spectral.DefaultSequentialCutover,
			MaxForkDepth:      0,
		},
		Estimator: EstimatorConfig{
			SampleRate:        tonal.DefaultSampleRate,
			ParallelThreshold: tonal.DefaultParallelThreshold,
		},
		Decoder: *transcode.DefaultDecoderConfig(),
		Logging: LoggingConfig{
			Level: "info",
			Color: false,
		},
	}
}

// Load reads configuration from a YAML file. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration on top of the defaults and validates it
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var errs []error

	if c.Transform.SequentialCutover < 1 {
		errs = append(errs, fmt.Errorf("transform.sequential_cutover must be at least 1, got %d", c.Transform.SequentialCutover))
	}
	if c.Transform.MaxForkDepth < 0 {
		errs = append(errs, fmt.Errorf("transform.max_fork_depth must not be negative, got %d", c.Transform.MaxForkDepth))
	}
	if c.Estimator.SampleRate < 1 {
		errs = append(errs, fmt.Errorf("estimator.sample_rate must be positive, got %d", c.Estimator.SampleRate))
	}
	if c.Estimator.ParallelThreshold < 1 {
		errs = append(errs, fmt.Errorf("estimator.parallel_threshold must be at least 1, got %d", c.Estimator.ParallelThreshold))
	}
	if c.Decoder.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("decoder.max_frames must not be negative, got %d", c.Decoder.MaxFrames))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	return errors.Join(errs...)
}

// TransformOptions converts the transform section for spectral.NewFFT
func (c *Config) TransformOptions() spectral.TransformOptions {
	return spectral.TransformOptions{
		SequentialCutover: c.Transform.SequentialCutover,
		MaxForkDepth:      c.Transform.MaxForkDepth,
	}
}

// EstimatorOptions converts the estimator and transform sections for
// tonal.NewFrequencyEstimator
func (c *Config) EstimatorOptions() []tonal.EstimatorOption {
	return []tonal.EstimatorOption{
		tonal.WithSampleRate(c.Estimator.SampleRate),
		tonal.WithParallelThreshold(c.Estimator.ParallelThreshold),
		tonal.WithTransformOptions(c.TransformOptions()),
	}
}

// NewLogger builds the default logger described by the logging section
func (c *Config) NewLogger() (*logging.DefaultLogger, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}

	logger := logging.NewDefaultLoggerNoColor()
	logger.SetLevel(level)
	logger.SetColors(c.Logging.Color)
	return logger, nil
}
