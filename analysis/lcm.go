package analysis

import (
	"errors"
	"math/bits"
)

// ErrOverflow is returned when a least common multiple does not fit in 64
// bits.
var ErrOverflow = errors.New("least common multiple overflows uint64")

// Combine returns the least common multiple of the indices. The result for
// an empty list is 1, and any zero index makes the result zero. Overflow
// wraps silently; use CombineChecked to detect it.
func Combine(indices []uint64) uint64 {
	result := uint64(1)
	for _, x := range indices {
		result = lcm(result, x)
	}

	return result
}

// CombineChecked is Combine that fails with ErrOverflow instead of wrapping.
func CombineChecked(indices []uint64) (uint64, error) {
	result := uint64(1)
	for _, x := range indices {
		if result == 0 || x == 0 {
			result = 0
			continue
		}

		hi, lo := bits.Mul64(result/gcd(result, x), x)
		if hi != 0 {
			return 0, ErrOverflow
		}

		result = lo
	}

	return result, nil
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}

func lcm(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}

	return a / gcd(a, b) * b
}
