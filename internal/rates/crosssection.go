// Package rates computes the interaction tables of the electromagnetic
// processes from cross sections and photon fields.
package rates

import (
	"math"

	"github.com/wildstyl3r/emcascade/internal/constants"
)

const me2 = constants.ElectronRestEnergy2

// SigmaICS is the Klein-Nishina cross section [m^2] at squared
// centre-of-mass energy s [J^2], see Lee 1996 eq. 23.
func SigmaICS(s float64) float64 {
	if s <= me2 {
		return 0
	}
	b := (s - me2) / (s + me2)
	if b < 1e-3 {
		// Thomson limit
		return constants.SigmaThomson * (1 - 2*b)
	}
	A := 2 / b / (1 + b) * (2 + 2*b - b*b - 2*b*b*b)
	B := (2 - 3*b*b - b*b*b) / (b * b) * math.Log((1+b)/(1-b))
	return constants.SigmaThomson * 3 / 8 * me2 / s / b * (A - B)
}

// SigmaDPP is the double pair production cross section [m^2], R.W. Brown
// eq. 4.5 with k^2 = q^2 = 0.
func SigmaDPP(s float64) float64 {
	if s <= 16*me2 {
		return 0
	}
	return 6.45e-34 * math.Pow(1-16*me2/s, 6)
}

// DSigmaICS is the differential inverse Compton cross section in
// x = E'_e/E_e up to a constant factor, Lee 1996 eq. 23.
func DSigmaICS(x, beta float64) float64 {
	q := ((1 - beta) / beta) * (1 - 1/x)
	return ((1 + beta) / beta) * (x + 1/x + 2*q + q*q)
}
