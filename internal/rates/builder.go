package rates

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/wildstyl3r/emcascade/internal/photonfield"
	"github.com/wildstyl3r/emcascade/internal/table"
	"github.com/wildstyl3r/emcascade/internal/utils"
)

var ErrNoInteraction = errors.New("rates: process cannot occur in the requested energy range")

// Process describes a two-body interaction with a background photon.
type Process struct {
	Name         string
	CrossSection func(s float64) float64
	// Mass2 is (mc^2)^2 of the primary [J^2].
	Mass2 float64
	// SKinMin is the threshold on s - Mass2 [J^2].
	SKinMin float64
}

var InverseCompton = Process{
	Name:         "EMInverseComptonScattering",
	CrossSection: SigmaICS,
	Mass2:        me2,
}

var DoublePairProduction = Process{
	Name:         "EMDoublePairProduction",
	CrossSection: SigmaDPP,
	SKinMin:      16 * me2,
}

// Grid sets the resolution of the analytic tables. Energies are in J.
type Grid struct {
	EnergyMin   float64
	EnergyMax   float64
	NumEnergies int
	NumS        int
	NumEps      int
}

func DefaultGrid() Grid {
	return Grid{
		EnergyMin:   utils.EV2J(1e9),
		EnergyMax:   utils.EV2J(1e23),
		NumEnergies: 281,
		NumS:        1000,
		NumEps:      1000,
	}
}

func (g Grid) validate() error {
	if !(g.EnergyMin > 0) || !(g.EnergyMax > g.EnergyMin) || math.IsInf(g.EnergyMax, 0) {
		return fmt.Errorf("%w: energy range [%v, %v] is invalid", table.ErrInvalidTable, g.EnergyMin, g.EnergyMax)
	}
	if g.NumEnergies < 2 || g.NumS < 2 || g.NumEps < 2 {
		return fmt.Errorf("%w: grid sizes must be at least 2", table.ErrInvalidTable)
	}
	return nil
}

// Build integrates the process against the field at z = 0:
//
//	rate(E) = 1/(8E^2) int ds_kin s_kin sigma(s) G(s_kin/4E),  G(e) = int_e n(eps)/eps^2 deps
//
// and returns the rate table together with the cumulative rate in s_kin for
// every energy the process can occur at. The CDF table is nil if no energy
// row interacts.
func Build(p Process, field photonfield.PhotonField, grid Grid) (*table.RateTable, *table.CDFTable, error) {
	if err := grid.validate(); err != nil {
		return nil, nil, err
	}
	epsMin, epsMax := field.MinimumEnergy(), field.MaximumEnergy()
	if !(epsMin > 0) || !(epsMax > epsMin) {
		return nil, nil, fmt.Errorf("%w: photon field %s has no usable energy range", table.ErrInvalidTable, field.Name())
	}

	g := backgroundIntegral(field, epsMin, epsMax, grid.NumEps)

	sMin := math.Max(p.SKinMin, 1e-2*4*grid.EnergyMin*epsMin)
	sMax := 4 * grid.EnergyMax * epsMax
	if !(sMax > sMin) {
		return nil, nil, fmt.Errorf("%w: %s on %s", ErrNoInteraction, p.Name, field.Name())
	}
	sKin := floats.LogSpan(make([]float64, grid.NumS), sMin, sMax)
	xs := make([]float64, len(sKin))
	for k := range sKin {
		xs[k] = sKin[k] * p.CrossSection(sKin[k]+p.Mass2)
	}

	energies := floats.LogSpan(make([]float64, grid.NumEnergies), grid.EnergyMin, grid.EnergyMax)
	rates := make([]float64, len(energies))
	var cdfEnergies []float64
	var cdfs [][]float64
	integrand := make([]float64, len(sKin))
	for i, E := range energies {
		norm := 1 / (8 * E * E)
		for k := range sKin {
			integrand[k] = xs[k] * g.at(sKin[k]/(4*E)) * norm
		}
		rates[i] = integrate.Trapezoidal(sKin, integrand)
		if rates[i] > 0 {
			cdfEnergies = append(cdfEnergies, E)
			cdfs = append(cdfs, utils.CumulativeTrapezoid(sKin, integrand))
		}
	}
	if floats.Max(rates) <= 0 {
		return nil, nil, fmt.Errorf("%w: %s on %s", ErrNoInteraction, p.Name, field.Name())
	}

	rt, err := table.NewRateTable(energies, rates)
	if err != nil {
		return nil, nil, err
	}
	if len(cdfEnergies) == 0 {
		return rt, nil, nil
	}
	cdf, err := table.NewCDFTable(cdfEnergies, [][]float64{sKin}, cdfs)
	if err != nil {
		return nil, nil, err
	}
	return rt, cdf, nil
}

// BuildRateTable is Build without the cumulative table.
func BuildRateTable(p Process, field photonfield.PhotonField, grid Grid) (*table.RateTable, error) {
	rt, _, err := Build(p, field, grid)
	return rt, err
}

// tail holds G(eps) = int_eps^epsMax n(e)/e^2 de on a log grid.
type tail struct {
	eps []float64
	g   []float64
}

func backgroundIntegral(field photonfield.PhotonField, epsMin, epsMax float64, n int) tail {
	eps := floats.LogSpan(make([]float64, n), epsMin, epsMax)
	logEps := make([]float64, n)
	y := make([]float64, n)
	for i := range eps {
		logEps[i] = math.Log(eps[i])
		// n(e)/e^2 de = Density(e)/e^2 dln(e)
		y[i] = field.Density(eps[i], 0) / (eps[i] * eps[i])
	}
	c := utils.CumulativeTrapezoid(logEps, y)
	total := c[n-1]
	g := make([]float64, n)
	for i := range c {
		g[i] = math.Max(total-c[i], 0)
	}
	g[n-1] = 0
	return tail{eps: eps, g: g}
}

func (t tail) at(e float64) float64 {
	if e <= t.eps[0] {
		return t.g[0]
	}
	return utils.LogLogInterpolate(e, t.eps, t.g)
}
