package photonfield

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/interp"

	"github.com/wildstyl3r/emcascade/internal/utils"
)

// Tabular is a photon field read from tables. With a redshift axis the
// density table is energy-major: densities[i*len(redshifts)+j] belongs to
// energies[i] and redshifts[j].
type Tabular struct {
	name             string
	energies         []float64 // [J]
	densities        []float64 // [1/m^3]
	redshifts        []float64
	redshiftScalings []float64
	scaling          interp.PiecewiseLinear

	lowRedshiftWarning sync.Once
}

// NewTabular validates the tables and, when redshifts is not empty, derives
// the redshift scaling from the density integral over log energy.
func NewTabular(name string, energies, densities, redshifts []float64) (*Tabular, error) {
	t := &Tabular{
		name:      name,
		energies:  append([]float64(nil), energies...),
		densities: append([]float64(nil), densities...),
		redshifts: append([]float64(nil), redshifts...),
	}
	if err := t.checkInputData(); err != nil {
		return nil, err
	}
	if t.HasRedshiftDependence() {
		if err := t.initRedshiftScaling(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// LoadTabular reads photonEnergy_<name>.txt, photonDensity_<name>.txt and,
// if redshiftDependent, redshift_<name>.txt from dir.
func LoadTabular(dir, name string, redshiftDependent bool) (*Tabular, error) {
	energies, err := utils.ReadFloatColumn(filepath.Join(dir, "photonEnergy_"+name+".txt"))
	if err != nil {
		return nil, fmt.Errorf("photon field %s: %w", name, err)
	}
	densities, err := utils.ReadFloatColumn(filepath.Join(dir, "photonDensity_"+name+".txt"))
	if err != nil {
		return nil, fmt.Errorf("photon field %s: %w", name, err)
	}
	var redshifts []float64
	if redshiftDependent {
		redshiftFile := filepath.Join(dir, "redshift_"+name+".txt")
		if _, err := os.Stat(redshiftFile); err != nil {
			return nil, fmt.Errorf("photon field %s: redshift table required: %w", name, err)
		}
		if redshifts, err = utils.ReadFloatColumn(redshiftFile); err != nil {
			return nil, fmt.Errorf("photon field %s: %w", name, err)
		}
	}
	return NewTabular(name, energies, densities, redshifts)
}

func (t *Tabular) checkInputData() error {
	if len(t.energies) < 2 {
		return fmt.Errorf("%w: %s: at least two photon energies required", ErrInvalidConfig, t.name)
	}
	if t.HasRedshiftDependence() {
		if len(t.redshifts) < 2 {
			return fmt.Errorf("%w: %s: at least two redshifts required", ErrInvalidConfig, t.name)
		}
		if len(t.densities) != len(t.energies)*len(t.redshifts) {
			return fmt.Errorf("%w: %s: length of photon density input is unequal to length of photon energy input times length of redshift input", ErrInvalidConfig, t.name)
		}
	} else if len(t.densities) != len(t.energies) {
		return fmt.Errorf("%w: %s: length of photon energy input is unequal to length of photon density input", ErrInvalidConfig, t.name)
	}
	for i, e := range t.energies {
		if !(e > 0) || math.IsInf(e, 0) {
			return fmt.Errorf("%w: %s: photon energy input is not positive at %d", ErrInvalidConfig, t.name, i)
		}
	}
	if i := utils.StrictlyIncreasing(t.energies); i >= 0 {
		return fmt.Errorf("%w: %s: photon energy values are not strictly increasing at %d", ErrInvalidConfig, t.name, i)
	}
	for i, z := range t.redshifts {
		if !(z >= 0) || math.IsInf(z, 0) {
			return fmt.Errorf("%w: %s: redshift input is negative at %d", ErrInvalidConfig, t.name, i)
		}
	}
	if i := utils.StrictlyIncreasing(t.redshifts); i >= 0 {
		return fmt.Errorf("%w: %s: redshift values are not strictly increasing at %d", ErrInvalidConfig, t.name, i)
	}
	for i, n := range t.densities {
		if !(n >= 0) || math.IsInf(n, 0) {
			return fmt.Errorf("%w: %s: photon density input is negative at %d", ErrInvalidConfig, t.name, i)
		}
	}
	return nil
}

func (t *Tabular) initRedshiftScaling() error {
	logE := make([]float64, len(t.energies))
	for i := range t.energies {
		logE[i] = math.Log10(t.energies[i])
	}
	column := make([]float64, len(t.energies))
	t.redshiftScalings = make([]float64, len(t.redshifts))
	var n0 float64
	for j := range t.redshifts {
		for i := range t.energies {
			column[i] = t.densities[i*len(t.redshifts)+j]
		}
		n := integrate.Trapezoidal(logE, column)
		if j == 0 {
			n0 = n
			if !(n0 > 0) {
				return fmt.Errorf("%w: %s: photon density vanishes at the first redshift", ErrInvalidConfig, t.name)
			}
		}
		t.redshiftScalings[j] = n / n0
	}
	return t.scaling.Fit(t.redshifts, t.redshiftScalings)
}

func (t *Tabular) Name() string { return t.name }

func (t *Tabular) HasRedshiftDependence() bool { return len(t.redshifts) > 0 }

func (t *Tabular) Density(ePhoton, z float64) float64 {
	if !t.HasRedshiftDependence() {
		return utils.LogLogInterpolate(ePhoton, t.energies, t.densities)
	}
	zMin, zMax := t.redshifts[0], t.redshifts[len(t.redshifts)-1]
	if z < zMin {
		// the field is assumed not to change below the first tabulated redshift
		if z < zMin-0.1 {
			t.lowRedshiftWarning.Do(func() {
				slog.Warn("photon field queried far below its tabulated redshift range",
					"field", t.name, "z", z, "z_min", zMin)
			})
		}
		z = zMin
	}
	if z > zMax {
		return 0
	}
	i := utils.Bracket(ePhoton, t.energies)
	if i < 0 {
		return 0
	}
	j := utils.Bracket(z, t.redshifts)
	nz := len(t.redshifts)
	e0, e1 := t.energies[i], t.energies[i+1]
	low := utils.LogLogSegment(ePhoton, e0, e1, t.densities[i*nz+j], t.densities[(i+1)*nz+j])
	high := utils.LogLogSegment(ePhoton, e0, e1, t.densities[i*nz+j+1], t.densities[(i+1)*nz+j+1])
	w := (z - t.redshifts[j]) / (t.redshifts[j+1] - t.redshifts[j])
	return low + w*(high-low)
}

func (t *Tabular) RedshiftScaling(z float64) float64 {
	if !t.HasRedshiftDependence() {
		return 1
	}
	if z < t.redshifts[0] {
		return 1
	}
	if z > t.redshifts[len(t.redshifts)-1] {
		return 0
	}
	return t.scaling.Predict(z)
}

func (t *Tabular) MinimumEnergy() float64 { return t.energies[0] }

func (t *Tabular) MaximumEnergy() float64 { return t.energies[len(t.energies)-1] }
