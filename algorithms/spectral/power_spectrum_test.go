package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RyanBlaney/sonido-tuner/algorithms/common"
)

func TestPowerSpectrum(t *testing.T) {
	ps := NewPowerSpectrum()
	spectrum := []common.Complex{
		common.NewComplex(3, 4),
		common.FromReal(1),
		common.FromReal(100), // negative-frequency half is skipped
		common.FromReal(100),
	}

	power := ps.Compute(spectrum)
	assert.InDeltaSlice(t, []float64{25, 1}, power, 1e-12)
	assert.InDelta(t, 26.0, ps.TotalPower(spectrum), 1e-12)

	logPower := ps.ComputeLog([]common.Complex{common.FromReal(10), {}, {}, {}}, -100)
	assert.Len(t, logPower, 2)
	assert.InDelta(t, 20.0, logPower[0], 1e-12)
	assert.InDelta(t, -100.0, logPower[1], 1e-9)

	assert.Empty(t, ps.Compute(nil))
	assert.False(t, math.IsNaN(ps.TotalPower(nil)))
}
