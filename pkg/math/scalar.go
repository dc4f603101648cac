package math

import "golang.org/x/exp/constraints"

// Number is any integer or float type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Clamp limits x to [lo, hi].
func Clamp[T Number](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp interpolates between a and b by t.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// Max3 returns the largest of three values.
func Max3[T Number](a, b, c T) T {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// Sign returns -1, 0 or +1.
func Sign[T constraints.Signed | constraints.Float](x T) T {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Smoothstep eases x in [0, 1] with x*x*(3-2x).
func Smoothstep[T constraints.Float](x T) T {
	return x * x * (3 - 2*x)
}

// EaseOutQuad decelerates towards 1 (the "power2.out" curve).
func EaseOutQuad[T constraints.Float](x T) T {
	inv := 1 - x
	return 1 - inv*inv
}

// Radians converts degrees to radians.
func Radians[T constraints.Float](deg T) T {
	return deg * 3.14159265358979323846 / 180
}
