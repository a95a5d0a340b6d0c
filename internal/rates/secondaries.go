package rates

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/wildstyl3r/emcascade/internal/table"
	"github.com/wildstyl3r/emcascade/internal/utils"
)

// ICSSecondaries is the distribution of the electron energy fraction
// x = E'_e/E_e after inverse Compton scattering, tabulated in s.
type ICSSecondaries struct {
	cdf *table.CDFTable
}

// NewICSSecondaries tabulates ns rows of s between (m_e c^2)^2 and sMax,
// each with nx log-spaced points of x between (1-beta)/(1+beta) and 1.
func NewICSSecondaries(sMax float64, ns, nx int) (*ICSSecondaries, error) {
	if ns < 1 || nx < 2 || !(sMax > me2) {
		return nil, fmt.Errorf("%w: ICS secondary grid %d x %d up to s = %v", table.ErrInvalidTable, ns, nx, sMax)
	}
	dls := math.Log(sMax/me2) / float64(ns)
	sValues := make([]float64, ns)
	xValues := make([][]float64, ns)
	cdfs := make([][]float64, ns)
	for i := range ns {
		s := me2 * math.Exp((float64(i)+0.5)*dls)
		beta := (s - me2) / (s + me2)
		x0 := (1 - beta) / (1 + beta)
		x := floats.LogSpan(make([]float64, nx), x0, 1)
		dsigma := make([]float64, nx)
		for j := range x {
			dsigma[j] = DSigmaICS(x[j], beta)
		}
		sValues[i] = s
		xValues[i] = x
		cdfs[i] = utils.CumulativeTrapezoid(x, dsigma)
	}
	cdf, err := table.NewCDFTable(sValues, xValues, cdfs)
	if err != nil {
		return nil, err
	}
	return &ICSSecondaries{cdf: cdf}, nil
}

// DefaultICSSecondaries covers s up to 2e23 eV^2 on a 1000 x 1000 grid.
func DefaultICSSecondaries() (*ICSSecondaries, error) {
	eV := utils.EV2J(1)
	return NewICSSecondaries(2e23*eV*eV, 1000, 1000)
}

// Sample draws the electron energy after scattering of an electron with
// energy ee at squared centre-of-mass energy s.
func (d *ICSSecondaries) Sample(ee, s, u float64) float64 {
	beta := (s - me2) / (s + me2)
	x0 := (1 - beta) / (1 + beta)
	x := d.cdf.Sample(s, u)
	x = math.Min(math.Max(x, x0), 1)
	return x * ee
}
