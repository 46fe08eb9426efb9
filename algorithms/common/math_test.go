package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPowerOfTwoHelpers(t *testing.T) {
	for _, n := range []int{1, 2, 4, 1024, 1 << 20} {
		assert.True(t, IsPowerOfTwo(n), "%d", n)
	}
	for _, n := range []int{0, -4, 3, 6, 1000} {
		assert.False(t, IsPowerOfTwo(n), "%d", n)
	}

	assert.Equal(t, 1, NextPowerOfTwo(0))
	assert.Equal(t, 1, NextPowerOfTwo(1))
	assert.Equal(t, 8, NextPowerOfTwo(5))
	assert.Equal(t, 8, NextPowerOfTwo(8))

	assert.Equal(t, 0, PrevPowerOfTwo(0))
	assert.Equal(t, 1, PrevPowerOfTwo(1))
	assert.Equal(t, 512, PrevPowerOfTwo(1000))
	assert.Equal(t, 1024, PrevPowerOfTwo(1024))
}

func TestSummaryStatistics(t *testing.T) {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	assert.InDelta(t, 5.0, Mean(data), 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), StandardDeviation(data), 1e-12)
	assert.Equal(t, 3.0, Percentile([]float64{5, 1, 4, 2, 3}, 0.5))

	assert.Zero(t, Mean(nil))
	assert.Zero(t, StandardDeviation([]float64{1}))
	assert.Zero(t, Percentile(data, 1.5))
}
