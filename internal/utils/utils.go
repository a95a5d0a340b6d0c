package utils

import (
	"slices"

	"golang.org/x/exp/constraints"

	"github.com/wildstyl3r/emcascade/internal/constants"
)

// Number is any built-in numeric type.
type Number interface {
	constraints.Float | constraints.Integer
}

func SumSlice[T Number](arr []T) (r T) {
	for i := range arr {
		r += arr[i]
	}
	return
}

func IntAbs(a int) int {
	if a < 0 {
		return -a
	} else {
		return a
	}
}

func Intersect(a, b []string) *string {
	for i := range a {
		if slices.Contains(b, a[i]) {
			return &a[i]
		}
	}
	return nil
}

func EV2J(val float64) float64 {
	return val * constants.ElectronCharge
}

func J2eV(val float64) float64 {
	return val / constants.ElectronCharge
}

// StrictlyIncreasing reports the first index i with s[i] <= s[i-1], or -1.
func StrictlyIncreasing(s []float64) int {
	for i := 1; i < len(s); i++ {
		if !(s[i] > s[i-1]) {
			return i
		}
	}
	return -1
}

// CumulativeTrapezoid returns the running trapezoidal integral of y over x,
// starting at 0.
func CumulativeTrapezoid(x, y []float64) []float64 {
	c := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		c[i] = c[i-1] + 0.5*(y[i]+y[i-1])*(x[i]-x[i-1])
	}
	return c
}
