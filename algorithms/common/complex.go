package common

import (
	"math"
	"strconv"
)

// ComplexTolerance is the per-component tolerance used by Equal. Recursive
// butterfly passes accumulate rounding error, so exact comparison is too strict.
const ComplexTolerance = 1e-11

// Complex is a complex number stored as a pair of float64 values.
//
// Value methods (Add, Mul, Exp, ...) return a new Complex and leave the
// receiver untouched. Pointer methods with an Assign suffix (AddAssign,
// MulAssign, ExpAssign, ...) overwrite the receiver and return it so several
// operations can be chained without intermediate values.
type Complex struct {
	Real float64
	Imag float64
}

// NewComplex creates a complex number from its real and imaginary parts
func NewComplex(re, im float64) Complex {
	return Complex{Real: re, Imag: im}
}

// FromReal creates a complex number with a zero imaginary part
func FromReal(re float64) Complex {
	return Complex{Real: re}
}

// FromComplex128 converts a builtin complex128
func FromComplex128(c complex128) Complex {
	return Complex{Real: real(c), Imag: imag(c)}
}

// Complex128 converts to the builtin complex128
func (c Complex) Complex128() complex128 {
	return complex(c.Real, c.Imag)
}

func (c Complex) Add(o Complex) Complex {
	return Complex{c.Real + o.Real, c.Imag + o.Imag}
}

func (c Complex) AddReal(re float64) Complex {
	return Complex{c.Real + re, c.Imag}
}

func (c Complex) AddParts(re, im float64) Complex {
	return Complex{c.Real + re, c.Imag + im}
}

func (c Complex) Sub(o Complex) Complex {
	return Complex{c.Real - o.Real, c.Imag - o.Imag}
}

func (c Complex) SubReal(re float64) Complex {
	return Complex{c.Real - re, c.Imag}
}

func (c Complex) SubParts(re, im float64) Complex {
	return Complex{c.Real - re, c.Imag - im}
}

func (c Complex) Mul(o Complex) Complex {
	return c.MulParts(o.Real, o.Imag)
}

// MulReal scales both components by re
func (c Complex) MulReal(re float64) Complex {
	return Complex{c.Real * re, c.Imag * re}
}

func (c Complex) MulParts(re, im float64) Complex {
	return Complex{
		Real: c.Real*re - c.Imag*im,
		Imag: c.Real*im + c.Imag*re,
	}
}

// Div returns c / o, computed as c * (1/o).
//
// The reciprocal squares both components of o before dividing, so it
// overflows to Inf/NaN once |o| exceeds roughly 1e154. Audio magnitudes stay
// far below that.
func (c Complex) Div(o Complex) Complex {
	return c.DivParts(o.Real, o.Imag)
}

func (c Complex) DivReal(re float64) Complex {
	return Complex{c.Real / re, c.Imag / re}
}

func (c Complex) DivParts(re, im float64) Complex {
	scale := re*re + im*im
	return c.MulParts(re/scale, -im/scale)
}

// Reciprocal returns 1/c as conj(c) / |c|^2
func (c Complex) Reciprocal() Complex {
	scale := c.Real*c.Real + c.Imag*c.Imag
	return Complex{c.Real / scale, -c.Imag / scale}
}

func (c Complex) Conjugate() Complex {
	return Complex{c.Real, -c.Imag}
}

// Magnitude returns the Euclidean norm |c|
func (c Complex) Magnitude() float64 {
	return math.Hypot(c.Real, c.Imag)
}

// Phase returns the argument of c in radians, in (-pi, pi]
func (c Complex) Phase() float64 {
	return math.Atan2(c.Imag, c.Real)
}

// PhaseDegrees returns the argument of c in degrees
func (c Complex) PhaseDegrees() float64 {
	return c.Phase() * 180.0 / math.Pi
}

// Exp returns e^a * (cos b + i sin b) for c = a + bi
func (c Complex) Exp() Complex {
	scale := math.Exp(c.Real)
	sin, cos := math.Sincos(c.Imag)
	return Complex{scale * cos, scale * sin}
}

// Sin returns sin a cosh b + i cos a sinh b for c = a + bi
func (c Complex) Sin() Complex {
	sin, cos := math.Sincos(c.Real)
	return Complex{sin * math.Cosh(c.Imag), cos * math.Sinh(c.Imag)}
}

// Cos returns cos a cosh b - i sin a sinh b for c = a + bi
func (c Complex) Cos() Complex {
	sin, cos := math.Sincos(c.Real)
	return Complex{cos * math.Cosh(c.Imag), -(sin * math.Sinh(c.Imag))}
}

func (c Complex) Tan() Complex {
	return c.Sin().Div(c.Cos())
}

// Equal reports whether both components differ by less than ComplexTolerance
func (c Complex) Equal(o Complex) bool {
	return c.EqualWithin(o, ComplexTolerance)
}

func (c Complex) NotEqual(o Complex) bool {
	return !c.Equal(o)
}

// EqualWithin reports whether both components differ by less than tol
func (c Complex) EqualWithin(o Complex, tol float64) bool {
	return math.Abs(c.Real-o.Real) < tol && math.Abs(c.Imag-o.Imag) < tol
}

// String formats c as "a", "jb", "a + jb" or "a - jb"
func (c Complex) String() string {
	re := strconv.FormatFloat(c.Real, 'g', -1, 64)
	switch {
	case c.Imag == 0:
		return re
	case c.Real == 0:
		return "j" + strconv.FormatFloat(c.Imag, 'g', -1, 64)
	case c.Imag < 0:
		return re + " - j" + strconv.FormatFloat(-c.Imag, 'g', -1, 64)
	default:
		return re + " + j" + strconv.FormatFloat(c.Imag, 'g', -1, 64)
	}
}

// In-place variants

func (c *Complex) AddAssign(o Complex) *Complex {
	*c = c.Add(o)
	return c
}

func (c *Complex) AddRealAssign(re float64) *Complex {
	c.Real += re
	return c
}

func (c *Complex) AddPartsAssign(re, im float64) *Complex {
	c.Real += re
	c.Imag += im
	return c
}

func (c *Complex) SubAssign(o Complex) *Complex {
	*c = c.Sub(o)
	return c
}

func (c *Complex) SubRealAssign(re float64) *Complex {
	c.Real -= re
	return c
}

func (c *Complex) SubPartsAssign(re, im float64) *Complex {
	c.Real -= re
	c.Imag -= im
	return c
}

func (c *Complex) MulAssign(o Complex) *Complex {
	*c = c.Mul(o)
	return c
}

func (c *Complex) MulRealAssign(re float64) *Complex {
	c.Real *= re
	c.Imag *= re
	return c
}

func (c *Complex) MulPartsAssign(re, im float64) *Complex {
	*c = c.MulParts(re, im)
	return c
}

func (c *Complex) DivAssign(o Complex) *Complex {
	*c = c.Div(o)
	return c
}

func (c *Complex) DivRealAssign(re float64) *Complex {
	c.Real /= re
	c.Imag /= re
	return c
}

func (c *Complex) DivPartsAssign(re, im float64) *Complex {
	*c = c.DivParts(re, im)
	return c
}

func (c *Complex) ReciprocalAssign() *Complex {
	*c = c.Reciprocal()
	return c
}

func (c *Complex) ConjugateAssign() *Complex {
	c.Imag = -c.Imag
	return c
}

func (c *Complex) ExpAssign() *Complex {
	*c = c.Exp()
	return c
}

func (c *Complex) SinAssign() *Complex {
	*c = c.Sin()
	return c
}

func (c *Complex) CosAssign() *Complex {
	*c = c.Cos()
	return c
}

func (c *Complex) TanAssign() *Complex {
	*c = c.Tan()
	return c
}

// ComplexFromReals wraps real samples as complex values with zero imaginary part
func ComplexFromReals(samples []float64) []Complex {
	out := make([]Complex, len(samples))
	for i, s := range samples {
		out[i] = Complex{Real: s}
	}
	return out
}

// Magnitudes returns |x[i]| for each element
func Magnitudes(x []Complex) []float64 {
	out := make([]float64, len(x))
	for i, c := range x {
		out[i] = c.Magnitude()
	}
	return out
}
