package table

import (
	"fmt"
	"math"

	"github.com/wildstyl3r/emcascade/internal/utils"
)

// RateTable is the interaction rate [1/m] tabulated against particle energy [J].
type RateTable struct {
	energies []float64
	rates    []float64
}

func NewRateTable(energies, rates []float64) (*RateTable, error) {
	if len(energies) < 2 {
		return nil, fmt.Errorf("%w: rate table needs at least two points, got %d", ErrInvalidTable, len(energies))
	}
	if len(energies) != len(rates) {
		return nil, fmt.Errorf("%w: %d energies but %d rates", ErrInvalidTable, len(energies), len(rates))
	}
	if !(energies[0] > 0) {
		return nil, fmt.Errorf("%w: energies must be positive", ErrInvalidTable)
	}
	if i := utils.StrictlyIncreasing(energies); i >= 0 {
		return nil, fmt.Errorf("%w: energies not strictly increasing at index %d", ErrInvalidTable, i)
	}
	for i := range rates {
		if !(rates[i] >= 0) || math.IsInf(rates[i], 0) || math.IsInf(energies[i], 0) {
			return nil, fmt.Errorf("%w: invalid rate %v at index %d", ErrInvalidTable, rates[i], i)
		}
	}
	return &RateTable{
		energies: append([]float64(nil), energies...),
		rates:    append([]float64(nil), rates...),
	}, nil
}

// Rate interpolates log-log and is exactly 0 outside the tabulated range.
func (rt *RateTable) Rate(energy float64) float64 {
	return utils.LogLogInterpolate(energy, rt.energies, rt.rates)
}

// MeanFreePath is 1/Rate, +Inf where nothing can interact.
func (rt *RateTable) MeanFreePath(energy float64) float64 {
	return MeanFreePath(rt.Rate(energy))
}

func (rt *RateTable) StepLimit(energy, limit float64) float64 {
	return limit * rt.MeanFreePath(energy)
}

func (rt *RateTable) MinEnergy() float64 { return rt.energies[0] }

func (rt *RateTable) MaxEnergy() float64 { return rt.energies[len(rt.energies)-1] }

func (rt *RateTable) Len() int { return len(rt.energies) }

// At returns the i-th tabulated point.
func (rt *RateTable) At(i int) (energy, rate float64) {
	return rt.energies[i], rt.rates[i]
}

func MeanFreePath(rate float64) float64 {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return math.Inf(1)
	}
	return 1 / rate
}

// InteractionProbability is the Poisson probability of at least one
// interaction over step.
func InteractionProbability(rate, step float64) float64 {
	if !(rate > 0) || !(step > 0) || math.IsInf(rate, 0) {
		return 0
	}
	return -math.Expm1(-rate * step)
}
