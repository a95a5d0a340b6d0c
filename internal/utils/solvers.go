package utils

import "math"

func TernarySearchMax(f func(float64) float64, left, right, eps float64) float64 {
	for right-left > eps {
		a := math.FMA(left, 2., right) / 3.
		b := math.FMA(right, 2., left) / 3.
		if f(a) > f(b) {
			right = b
		} else {
			left = a
		}
	}
	return (left + right) * 0.5
}

func TernarySearchMaxF(f func(float64) float64, left, right, eps float64) float64 {
	return f(TernarySearchMax(f, left, right, eps))
}
