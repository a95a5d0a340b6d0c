package photonfield

import (
	"fmt"
	"math"

	"github.com/wildstyl3r/emcascade/internal/constants"
)

// Blackbody is a thermal photon field. The temperature does not evolve with
// redshift: Density ignores z and RedshiftScaling is 1. A CMB-like field at
// redshift z needs the caller to apply T(1+z) explicitly.
type Blackbody struct {
	name        string
	temperature float64 // [K]
}

func NewBlackbody(name string, temperature float64) (*Blackbody, error) {
	if !(temperature > 0) || math.IsInf(temperature, 0) {
		return nil, fmt.Errorf("%w: blackbody temperature must be positive, got %v", ErrInvalidConfig, temperature)
	}
	return &Blackbody{name: name, temperature: temperature}, nil
}

func (b *Blackbody) Name() string { return b.name }

func (b *Blackbody) HasRedshiftDependence() bool { return false }

func (b *Blackbody) Temperature() float64 { return b.temperature }

func (b *Blackbody) Density(ePhoton, z float64) float64 {
	if ePhoton <= 0 {
		return 0
	}
	x := ePhoton / (constants.KBolzmann * b.temperature)
	u := ePhoton / (constants.HPlanck * constants.SpeedOfLight)
	return 8 * math.Pi * u * u * u / math.Expm1(x)
}

func (b *Blackbody) RedshiftScaling(z float64) float64 { return 1 }

func (b *Blackbody) MinimumEnergy() float64 {
	return 1e-4 * constants.KBolzmann * b.temperature
}

func (b *Blackbody) MaximumEnergy() float64 {
	return 50 * constants.KBolzmann * b.temperature
}
