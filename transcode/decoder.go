package transcode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-tuner/algorithms/common"
	"github.com/RyanBlaney/sonido-tuner/logging"
)

// ErrInvalidWAV is returned for input that is not a RIFF/WAVE PCM stream
var ErrInvalidWAV = errors.New("invalid wav data")

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []float64     `json:"-"` // Samples scaled to [-1, 1), mono unless KeepChannels
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // Channels in PCM
	BitDepth   int           `json:"bit_depth"`
	Duration   time.Duration `json:"duration"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	// KeepChannels leaves PCM interleaved instead of averaging to mono
	KeepChannels bool `yaml:"keep_channels"`

	// MaxFrames stops decoding after this many frames. Zero means no limit.
	MaxFrames int `yaml:"max_frames"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		KeepChannels: false, // Mono for frequency estimation
		MaxFrames:    0,
	}
}

// Decoder decodes PCM WAV files into float samples
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// DecodeFile decodes a WAV file and returns PCM data
func (d *Decoder) DecodeFile(filename string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"function":  "DecodeFile",
		"filename":  filename,
	})

	logger.Debug("Starting audio file decode")

	f, err := os.Open(filename)
	if err != nil {
		logger.Error(err, "Failed to open audio file")
		return nil, fmt.Errorf("failed to open wav file: %w", err)
	}
	defer f.Close()

	data, err := d.Decode(f)
	if err != nil {
		logger.Error(err, "Failed to decode audio file")
		return nil, err
	}

	logger.Debug("Audio file decoded", logging.Fields{
		"sample_rate": data.SampleRate,
		"channels":    data.Channels,
		"bit_depth":   data.BitDepth,
		"samples":     len(data.PCM),
		"duration":    data.Duration,
	})

	return data, nil
}

// DecodeBytes decodes WAV data held in memory
func (d *Decoder) DecodeBytes(data []byte) (*AudioData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio data")
	}
	return d.Decode(bytes.NewReader(data))
}

// Decode reads a complete WAV stream
func (d *Decoder) Decode(r io.ReadSeeker) (*AudioData, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read pcm data: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate < 1 {
		return nil, fmt.Errorf("%w: missing format chunk", ErrInvalidWAV)
	}

	channels := buf.Format.NumChannels
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}

	samples := scalePCM(buf, bitDepth)

	frames := len(samples) / channels
	if d.config.MaxFrames > 0 && frames > d.config.MaxFrames {
		frames = d.config.MaxFrames
	}
	samples = samples[:frames*channels]

	outChannels := channels
	if !d.config.KeepChannels && channels > 1 {
		samples = downmix(samples, channels)
		outChannels = 1
	}

	rate := buf.Format.SampleRate
	return &AudioData{
		PCM:        samples,
		SampleRate: rate,
		Channels:   outChannels,
		BitDepth:   bitDepth,
		Duration:   time.Duration(float64(frames) / float64(rate) * float64(time.Second)),
	}, nil
}

// scalePCM converts integer PCM to floats in [-1, 1).
// 8-bit WAV is unsigned and centered on 128.
func scalePCM(buf *audio.IntBuffer, bitDepth int) []float64 {
	samples := buf.AsFloatBuffer().Data
	if bitDepth == 8 {
		floats.AddConst(-128, samples)
	}
	if bitDepth > 0 {
		floats.Scale(1.0/float64(int64(1)<<(bitDepth-1)), samples)
	}
	return samples
}

// downmix averages interleaved channels into one
func downmix(interleaved []float64, channels int) []float64 {
	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	frame := make([]float64, channels)

	for i := range frames {
		copy(frame, interleaved[i*channels:(i+1)*channels])
		mono[i] = floats.Sum(frame) / float64(channels)
	}
	return mono
}

// Frame returns the first size mono samples as zero-imaginary complex values.
// size must be a power of two no larger than the available samples.
func (a *AudioData) Frame(size int) ([]common.Complex, error) {
	if a.Channels != 1 {
		return nil, fmt.Errorf("frame requires mono audio, have %d channels", a.Channels)
	}
	if !common.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("frame size %d is not a power of two", size)
	}
	if size > len(a.PCM) {
		return nil, fmt.Errorf("frame size %d exceeds %d available samples", size, len(a.PCM))
	}
	return common.ComplexFromReals(a.PCM[:size]), nil
}

// LargestFrame returns the longest power-of-two prefix of the mono samples
func (a *AudioData) LargestFrame() ([]common.Complex, error) {
	size := common.PrevPowerOfTwo(len(a.PCM))
	if size == 0 {
		return nil, fmt.Errorf("no samples decoded")
	}
	return a.Frame(size)
}

// GetConfig returns decoder configuration information
func (d *Decoder) GetConfig() map[string]any {
	return map[string]any{
		"keep_channels": d.config.KeepChannels,
		"max_frames":    d.config.MaxFrames,
	}
}
