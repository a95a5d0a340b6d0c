package utils

import (
	"math"
	"sort"
)

// Bracket returns i such that xs[i] <= x <= xs[i+1], or -1 when x is outside xs.
func Bracket(x float64, xs []float64) int {
	n := len(xs)
	if n < 2 || x < xs[0] || x > xs[n-1] {
		return -1
	}
	i := sort.SearchFloat64s(xs, x)
	if i == 0 {
		return 0
	}
	if i >= n {
		return n - 2
	}
	return i - 1
}

// LogLogInterpolate interpolates linearly in (log x, log y). When one of the
// bracketing y values is not positive it falls back to interpolating y
// linearly in log x. Outside of xs it returns 0.
func LogLogInterpolate(x float64, xs, ys []float64) float64 {
	i := Bracket(x, xs)
	if i < 0 {
		return 0
	}
	return LogLogSegment(x, xs[i], xs[i+1], ys[i], ys[i+1])
}

// LogLogSegment interpolates between (x0, y0) and (x1, y1) as LogLogInterpolate does.
func LogLogSegment(x, x0, x1, y0, y1 float64) float64 {
	if x == x0 {
		return y0
	}
	if x == x1 {
		return y1
	}
	t := math.Log(x/x0) / math.Log(x1/x0)
	if y0 <= 0 || y1 <= 0 {
		return y0 + t*(y1-y0)
	}
	return y0 * math.Pow(y1/y0, t)
}

// NearestLogIndex returns the index of the grid point closest to x in log space.
func NearestLogIndex(x float64, xs []float64) int {
	n := len(xs)
	if n == 0 {
		return -1
	}
	if x <= xs[0] {
		return 0
	}
	if x >= xs[n-1] {
		return n - 1
	}
	i := sort.SearchFloat64s(xs, x)
	if math.Log(x/xs[i-1]) < math.Log(xs[i]/x) {
		return i - 1
	}
	return i
}
