package common

import (
	"math/bits"
	"sort"

	"github.com/mjibson/go-dsp/dsputils"
	"gonum.org/v1/gonum/stat"
)

// Summary statistics used by timing reports, backed by gonum

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.StdDev(data, nil)
}

// Percentile calculates the p-th percentile (p between 0 and 1)
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 || p < 0 || p > 1 {
		return 0.0
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// IsPowerOfTwo checks if n is a power of 2. Zero is not.
func IsPowerOfTwo(n int) bool {
	return n > 0 && dsputils.IsPowerOf2(n)
}

// NextPowerOfTwo finds the next power of 2 >= n
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return dsputils.NextPowerOf2(n)
}

// PrevPowerOfTwo finds the largest power of 2 <= n, or 0 when n < 1
func PrevPowerOfTwo(n int) int {
	if n < 1 {
		return 0
	}
	return 1 << (bits.Len(uint(n)) - 1)
}
