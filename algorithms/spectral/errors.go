package spectral

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-tuner/algorithms/common"
)

var (
	// ErrInvalidLength is matched by every *InvalidLengthError
	ErrInvalidLength = errors.New("sequence length must be a non-zero power of two")

	// ErrUninitializedInput is returned when an operation runs before any samples were supplied
	ErrUninitializedInput = errors.New("no sample sequence supplied")
)

// InvalidLengthError reports a sequence whose length cannot be transformed
type InvalidLengthError struct {
	Op     string
	Length int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("%s: length %d: %v", e.Op, e.Length, ErrInvalidLength)
}

func (e *InvalidLengthError) Is(target error) bool {
	return target == ErrInvalidLength
}

// ValidateLength returns an *InvalidLengthError unless n is a power of two
func ValidateLength(op string, n int) error {
	if !common.IsPowerOfTwo(n) {
		return &InvalidLengthError{Op: op, Length: n}
	}
	return nil
}
