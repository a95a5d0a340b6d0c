package rates

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/wildstyl3r/emcascade/internal/table"
	"github.com/wildstyl3r/emcascade/internal/utils"
)

// K53Integral returns int_x^inf K_{5/3}(t) dt via
// int_0^inf exp(-x cosh u) cosh(5u/3)/cosh(u) du.
func K53Integral(x float64) float64 {
	if !(x > 0) {
		return math.Inf(1)
	}
	f := func(u float64) float64 {
		c := math.Cosh(u)
		return math.Exp(-x*c) * math.Cosh(5*u/3) / c
	}
	peak := math.Asinh(2 / (3 * x))
	upper := math.Max(math.Acosh(math.Max(60/x, 1)), peak) + 1
	return quad.Fixed(f, 0, peak, 64, quad.Legendre{}, 0) +
		quad.Fixed(f, peak, upper, 128, quad.Legendre{}, 0)
}

// SynchrotronF is the synchrotron function x int_x^inf K_{5/3}(t) dt.
func SynchrotronF(x float64) float64 {
	return x * K53Integral(x)
}

// SynchrotronSpectrum tabulates the photon number distribution in
// x = E_photon/E_critical on n log-spaced points from 1e-6 to 1e2.
func SynchrotronSpectrum(n int) (table.Distribution, error) {
	if n < 2 {
		return table.Distribution{}, fmt.Errorf("%w: synchrotron spectrum needs at least 2 points", table.ErrInvalidTable)
	}
	x := floats.LogSpan(make([]float64, n), 1e-6, 1e2)
	dNdx := make([]float64, n)
	for i := range x {
		dNdx[i] = K53Integral(x[i])
	}
	return table.NewDistribution(x, utils.CumulativeTrapezoid(x, dNdx))
}
