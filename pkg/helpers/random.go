// Package helpers holds small, dependency-free utilities.
package helpers

import (
	"errors"
	"math/rand"
)

// ErrEmptyRange is returned by PickIndex when max is below min.
var ErrEmptyRange = errors.New("empty range")

// PickIndex returns a uniformly distributed integer i with min <= i < max.
// A degenerate range (max == min) yields min; callers bound-check the result
// against the slice they index.
// Every call draws from the process-wide random source.
func PickIndex(min, max int) (int, error) {
	switch {
	case max < min:
		return 0, ErrEmptyRange
	case max == min:
		return min, nil
	}
	return min + rand.Intn(max-min), nil
}
