package common

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplexArithmetic(t *testing.T) {
	a := NewComplex(1, 2)
	b := NewComplex(3, 4)

	assert.Equal(t, NewComplex(4, 6), a.Add(b))
	assert.Equal(t, NewComplex(-2, -2), a.Sub(b))
	assert.Equal(t, NewComplex(-5, 10), a.Mul(b))
	assert.True(t, a.Mul(b).Div(b).Equal(a), "(a*b)/b should round-trip, got %v", a.Mul(b).Div(b))

	assert.Equal(t, NewComplex(3.5, 2), a.AddReal(2.5))
	assert.Equal(t, NewComplex(2, 5), a.AddParts(1, 3))
	assert.Equal(t, NewComplex(0, 2), a.SubReal(1))
	assert.Equal(t, NewComplex(0, 0), a.SubParts(1, 2))
	assert.Equal(t, NewComplex(2, 4), a.MulReal(2))
	assert.Equal(t, NewComplex(-5, 10), a.MulParts(3, 4))
	assert.True(t, a.DivReal(2).Equal(NewComplex(0.5, 1)))
	assert.True(t, NewComplex(-5, 10).DivParts(3, 4).Equal(a))

	// receivers are untouched by value methods
	assert.Equal(t, NewComplex(1, 2), a)
}

func TestComplexAssignChains(t *testing.T) {
	c := NewComplex(1, 2)
	p := c.AddAssign(NewComplex(1, 1)).MulRealAssign(2)

	assert.Same(t, &c, p)
	assert.Equal(t, NewComplex(4, 6), c)

	c.SubAssign(NewComplex(4, 6)).AddPartsAssign(3, 4).MulAssign(NewComplex(1, 2))
	assert.Equal(t, NewComplex(-5, 10), c)

	c.DivAssign(NewComplex(3, 4))
	assert.True(t, c.Equal(NewComplex(1, 2)))

	c = NewComplex(2, 2)
	c.AddRealAssign(1).SubRealAssign(2).SubPartsAssign(0, 1).MulPartsAssign(0, 1)
	assert.Equal(t, NewComplex(-1, 1), c)

	c.DivRealAssign(2)
	assert.Equal(t, NewComplex(-0.5, 0.5), c)

	c.DivPartsAssign(0.5, 0.5)
	assert.True(t, c.Equal(NewComplex(0, 1)), "got %v", c)

	c.ConjugateAssign()
	assert.Equal(t, NewComplex(0, -1), c)

	c.ReciprocalAssign()
	assert.True(t, c.Equal(NewComplex(0, 1)), "got %v", c)
}

func TestComplexReciprocalConjugate(t *testing.T) {
	assert.True(t, NewComplex(0, 2).Reciprocal().Equal(NewComplex(0, -0.5)))
	assert.True(t, NewComplex(3, 4).Reciprocal().Mul(NewComplex(3, 4)).Equal(NewComplex(1, 0)))
	assert.Equal(t, NewComplex(3, -4), NewComplex(3, 4).Conjugate())
}

func TestComplexMagnitudePhase(t *testing.T) {
	assert.Equal(t, 5.0, NewComplex(3, 4).Magnitude())
	assert.False(t, math.IsInf(NewComplex(1e200, 1e200).Magnitude(), 0), "hypot should not overflow")

	assert.InDelta(t, math.Pi/2, NewComplex(0, 1).Phase(), 1e-15)
	assert.InDelta(t, 90.0, NewComplex(0, 1).PhaseDegrees(), 1e-12)
	assert.InDelta(t, 180.0, NewComplex(-1, 0).PhaseDegrees(), 1e-12)
	assert.InDelta(t, -45.0, NewComplex(1, -1).PhaseDegrees(), 1e-12)
}

func TestComplexTranscendental(t *testing.T) {
	inputs := []Complex{
		NewComplex(0.5, 0.3),
		NewComplex(-1.2, 0.7),
		NewComplex(2, -1),
		NewComplex(0, 0),
	}

	for _, z := range inputs {
		ref := z.Complex128()
		checks := map[string]struct {
			got  Complex
			want complex128
		}{
			"exp": {z.Exp(), cmplx.Exp(ref)},
			"sin": {z.Sin(), cmplx.Sin(ref)},
			"cos": {z.Cos(), cmplx.Cos(ref)},
			"tan": {z.Tan(), cmplx.Tan(ref)},
		}

		for name, c := range checks {
			assert.True(t, c.got.EqualWithin(FromComplex128(c.want), 1e-12),
				"%s(%v) = %v, want %v", name, z, c.got, c.want)
		}

		inPlace := z
		inPlace.ExpAssign()
		assert.Equal(t, z.Exp(), inPlace)

		inPlace = z
		inPlace.SinAssign()
		assert.Equal(t, z.Sin(), inPlace)

		inPlace = z
		inPlace.CosAssign()
		assert.Equal(t, z.Cos(), inPlace)

		inPlace = z
		inPlace.TanAssign()
		assert.Equal(t, z.Tan(), inPlace)
	}

	assert.True(t, NewComplex(0, math.Pi).Exp().Equal(NewComplex(-1, 0)))
}

func TestComplexEquality(t *testing.T) {
	a := NewComplex(1, 1)

	assert.True(t, a.Equal(NewComplex(1+5e-12, 1-5e-12)))
	assert.False(t, a.Equal(NewComplex(1+2e-11, 1)))
	assert.True(t, a.NotEqual(NewComplex(1, 1.1)))
	assert.False(t, a.NotEqual(a))

	assert.True(t, a.EqualWithin(NewComplex(1.05, 0.95), 0.1))
	assert.False(t, NewComplex(math.NaN(), 0).Equal(NewComplex(math.NaN(), 0)))
}

func TestComplexDivideByZeroPropagates(t *testing.T) {
	q := NewComplex(1, 1).Div(NewComplex(0, 0))
	assert.True(t, math.IsNaN(q.Real))
	assert.True(t, math.IsNaN(q.Imag))

	r := NewComplex(0, 0).Reciprocal()
	assert.True(t, math.IsNaN(r.Real))
}

func TestComplexString(t *testing.T) {
	tests := []struct {
		in   Complex
		want string
	}{
		{NewComplex(1.5, 0), "1.5"},
		{NewComplex(0, 3), "j3"},
		{NewComplex(1, 2), "1 + j2"},
		{NewComplex(1, -2), "1 - j2"},
		{NewComplex(0, 0), "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.String())
	}
}

func TestComplexConversions(t *testing.T) {
	assert.Equal(t, complex(1, -2), NewComplex(1, -2).Complex128())
	assert.Equal(t, NewComplex(3, 4), FromComplex128(3+4i))
	assert.Equal(t, NewComplex(2, 0), FromReal(2))

	wrapped := ComplexFromReals([]float64{1, -2, 3})
	require.Len(t, wrapped, 3)
	for i, want := range []float64{1, -2, 3} {
		assert.Equal(t, want, wrapped[i].Real)
		assert.Zero(t, wrapped[i].Imag)
	}

	assert.Equal(t, []float64{5, 1, 0}, Magnitudes([]Complex{NewComplex(3, 4), NewComplex(0, -1), {}}))
}
