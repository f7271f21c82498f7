package math

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Radians converts degrees to radians.
func Radians[T constraints.Float](deg T) T {
	return deg * T(math.Pi/180)
}

// Degrees converts radians to degrees.
func Degrees[T constraints.Float](rad T) T {
	return rad * T(180/math.Pi)
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
