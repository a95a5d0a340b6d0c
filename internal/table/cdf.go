package table

import (
	"fmt"
	"math"
	"sort"

	"github.com/wildstyl3r/emcascade/internal/utils"
)

// Distribution is a single monotone cumulative distribution of a kinematic
// variable, normalised to 1 at its last entry.
type Distribution struct {
	values []float64
	cdf    []float64
}

// NewDistribution normalises cdf by its last entry.
func NewDistribution(values, cdf []float64) (Distribution, error) {
	if len(values) < 2 || len(values) != len(cdf) {
		return Distribution{}, fmt.Errorf("%w: distribution needs matching value and cdf columns of length >= 2, got %d and %d", ErrInvalidTable, len(values), len(cdf))
	}
	if i := utils.StrictlyIncreasing(values); i >= 0 {
		return Distribution{}, fmt.Errorf("%w: kinematic values not strictly increasing at index %d", ErrInvalidTable, i)
	}
	total := cdf[len(cdf)-1]
	if !(total > 0) || math.IsInf(total, 0) {
		return Distribution{}, fmt.Errorf("%w: cumulative distribution total %v is not positive", ErrInvalidTable, total)
	}
	if !(cdf[0] >= 0) {
		return Distribution{}, fmt.Errorf("%w: cumulative distribution starts below zero", ErrInvalidTable)
	}
	normalised := make([]float64, len(cdf))
	for i := range cdf {
		if i > 0 && cdf[i] < cdf[i-1] {
			return Distribution{}, fmt.Errorf("%w: cumulative distribution decreases at index %d", ErrInvalidTable, i)
		}
		normalised[i] = cdf[i] / total
	}
	// the first entry carries no probability mass
	normalised[0] = 0
	normalised[len(normalised)-1] = 1
	return Distribution{values: append([]float64(nil), values...), cdf: normalised}, nil
}

// Sample inverts the distribution at u in [0,1).
func (d Distribution) Sample(u float64) float64 {
	if u <= 0 {
		return d.values[0]
	}
	j := sort.SearchFloat64s(d.cdf, u)
	if j >= len(d.cdf) {
		return d.values[len(d.values)-1]
	}
	if j == 0 {
		return d.values[0]
	}
	c0, c1 := d.cdf[j-1], d.cdf[j]
	return d.values[j-1] + (u-c0)/(c1-c0)*(d.values[j]-d.values[j-1])
}

func (d Distribution) Min() float64 { return d.values[0] }

func (d Distribution) Max() float64 { return d.values[len(d.values)-1] }

// CDFTable is a set of distributions indexed by primary energy.
type CDFTable struct {
	energies []float64
	rows     []Distribution
}

// NewCDFTable builds one distribution per energy row. values may hold a
// single shared row or one row per energy.
func NewCDFTable(energies []float64, values, cdfs [][]float64) (*CDFTable, error) {
	if len(energies) == 0 || len(energies) != len(cdfs) {
		return nil, fmt.Errorf("%w: %d energies but %d cdf rows", ErrInvalidTable, len(energies), len(cdfs))
	}
	if len(values) != 1 && len(values) != len(energies) {
		return nil, fmt.Errorf("%w: expected 1 or %d kinematic rows, got %d", ErrInvalidTable, len(energies), len(values))
	}
	if !(energies[0] > 0) {
		return nil, fmt.Errorf("%w: energies must be positive", ErrInvalidTable)
	}
	if i := utils.StrictlyIncreasing(energies); i >= 0 {
		return nil, fmt.Errorf("%w: energies not strictly increasing at index %d", ErrInvalidTable, i)
	}
	t := &CDFTable{
		energies: append([]float64(nil), energies...),
		rows:     make([]Distribution, len(energies)),
	}
	for i := range energies {
		row := values[0]
		if len(values) > 1 {
			row = values[i]
		}
		d, err := NewDistribution(row, cdfs[i])
		if err != nil {
			return nil, fmt.Errorf("energy row %d: %w", i, err)
		}
		t.rows[i] = d
	}
	return t, nil
}

// Row returns the distribution of the row closest to energy in log space.
func (t *CDFTable) Row(energy float64) Distribution {
	return t.rows[utils.NearestLogIndex(energy, t.energies)]
}

func (t *CDFTable) Sample(energy, u float64) float64 {
	return t.Row(energy).Sample(u)
}

func (t *CDFTable) Len() int { return len(t.energies) }

func (t *CDFTable) Energy(i int) float64 { return t.energies[i] }

func (t *CDFTable) MinEnergy() float64 { return t.energies[0] }

func (t *CDFTable) MaxEnergy() float64 { return t.energies[len(t.energies)-1] }
