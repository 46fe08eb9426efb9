package spectral

import (
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-tuner/algorithms/common"
)

// DominantPeak is the strongest bin of the non-negative half of a spectrum
type DominantPeak struct {
	Bin       int     // Index into the spectrum
	Frequency float64 // Bin frequency in Hz
	Magnitude float64 // |spectrum[Bin]|
}

// PeakFinder locates the dominant frequency of a real-valued signal's spectrum
type PeakFinder struct {
	sampleRate int
}

// NewPeakFinder creates a peak finder for spectra sampled at sampleRate Hz
func NewPeakFinder(sampleRate int) *PeakFinder {
	return &PeakFinder{sampleRate: sampleRate}
}

// BinFrequency returns the frequency in Hz of bin k in an n-point spectrum
func (p *PeakFinder) BinFrequency(k, n int) float64 {
	return float64(k) * float64(p.sampleRate) / float64(n)
}

// FindPeak returns the bin of maximum magnitude in [0, N/2).
//
// Ties go to the lowest bin. NaN magnitudes never win against a number.
func (p *PeakFinder) FindPeak(spectrum []common.Complex) (DominantPeak, error) {
	n := len(spectrum)
	if n < 2 {
		return DominantPeak{}, &InvalidLengthError{Op: "peak", Length: n}
	}

	magnitudes := common.Magnitudes(spectrum[:n/2])
	bin := floats.MaxIdx(magnitudes)

	return DominantPeak{
		Bin:       bin,
		Frequency: p.BinFrequency(bin, n),
		Magnitude: magnitudes[bin],
	}, nil
}

// DominantFrequency is FindPeak reduced to the peak frequency
func (p *PeakFinder) DominantFrequency(spectrum []common.Complex) (float64, error) {
	peak, err := p.FindPeak(spectrum)
	if err != nil {
		return 0, err
	}
	return peak.Frequency, nil
}
