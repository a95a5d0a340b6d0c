package photonfield

import (
	"fmt"
	"math"
)

// PowerLaw is defined on [eMin, eMax] with a negative index; normFactor is
// the density at eMin.
type PowerLaw struct {
	name          string
	eMin, eMax    float64 // [J]
	powerLawIndex float64
	normFactor    float64 // [1/m^3]
}

func NewPowerLaw(name string, eMin, eMax, powerLawIndex, normFactor float64) (*PowerLaw, error) {
	switch {
	case !(powerLawIndex < 0):
		return nil, fmt.Errorf("%w: power law index must be negative, got %v", ErrInvalidConfig, powerLawIndex)
	case !(eMin > 0) || !(eMax > eMin) || math.IsInf(eMax, 0):
		return nil, fmt.Errorf("%w: power law range [%v, %v] is invalid", ErrInvalidConfig, eMin, eMax)
	case !(normFactor > 0) || math.IsInf(normFactor, 0):
		return nil, fmt.Errorf("%w: power law norm factor %v is invalid", ErrInvalidConfig, normFactor)
	}
	return &PowerLaw{
		name:          name,
		eMin:          eMin,
		eMax:          eMax,
		powerLawIndex: powerLawIndex,
		normFactor:    normFactor,
	}, nil
}

func (p *PowerLaw) Name() string { return p.name }

func (p *PowerLaw) HasRedshiftDependence() bool { return false }

func (p *PowerLaw) Density(ePhoton, z float64) float64 {
	if ePhoton < p.eMin || ePhoton > p.eMax {
		return 0
	}
	return p.normFactor * math.Pow(ePhoton/p.eMin, p.powerLawIndex)
}

func (p *PowerLaw) RedshiftScaling(z float64) float64 { return 1 }

func (p *PowerLaw) MinimumEnergy() float64 { return p.eMin }

func (p *PowerLaw) MaximumEnergy() float64 { return p.eMax }
