package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-tuner/algorithms/common"
)

// PowerSpectrum derives power values from transform output
type PowerSpectrum struct {
	// No state needed - stateless calculation
}

// NewPowerSpectrum creates a new power spectrum calculator
func NewPowerSpectrum() *PowerSpectrum {
	return &PowerSpectrum{}
}

// Compute returns |X[k]|^2 for the non-negative half [0, N/2) of spectrum
func (ps *PowerSpectrum) Compute(spectrum []common.Complex) []float64 {
	half := halfSpectrum(spectrum)
	if len(half) == 0 {
		return []float64{}
	}

	power := common.Magnitudes(half)
	floats.Mul(power, power)
	return power
}

// ComputeLog computes log power in dB with a floor, over the same half spectrum
func (ps *PowerSpectrum) ComputeLog(spectrum []common.Complex, floorDB float64) []float64 {
	power := ps.Compute(spectrum)
	floor := math.Pow(10, floorDB/10.0)

	for i, p := range power {
		power[i] = 10 * math.Log10(math.Max(p, floor))
	}
	return power
}

// TotalPower sums the power of the non-negative half of spectrum
func (ps *PowerSpectrum) TotalPower(spectrum []common.Complex) float64 {
	return floats.Sum(ps.Compute(spectrum))
}

func halfSpectrum(spectrum []common.Complex) []common.Complex {
	if len(spectrum) < 2 {
		return spectrum
	}
	return spectrum[:len(spectrum)/2]
}
