package photonfield

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wildstyl3r/emcascade/internal/constants"
)

const eV = constants.ElectronVolt

func TestBlackbodyPlanckDensity(t *testing.T) {
	field, err := NewBlackbody("CMB", 2.73)
	if err != nil {
		t.Fatal(err)
	}
	ePhoton := 6.3e-4 * eV

	// Planck number density per log energy, written via hbar: eps^3 / (pi^2 (hbar c)^3 (e^x - 1))
	hbarC := constants.HPlanck / (2 * math.Pi) * constants.SpeedOfLight
	x := ePhoton / (constants.KBolzmann * 2.73)
	want := ePhoton * ePhoton * ePhoton / (math.Pi * math.Pi * hbarC * hbarC * hbarC * (math.Exp(x) - 1))

	got := field.Density(ePhoton, 0)
	if math.Abs(got/want-1) > 0.01 {
		t.Errorf("Density(6.3e-4 eV) = %v, want %v within 1%%", got, want)
	}
	if field.Density(ePhoton, 3) != got {
		t.Error("blackbody density must not depend on redshift")
	}
	if field.HasRedshiftDependence() || field.RedshiftScaling(5) != 1 {
		t.Error("blackbody must report no redshift dependence")
	}
	if field.Density(0, 0) != 0 || field.Density(-1, 0) != 0 {
		t.Error("non-positive photon energies must give zero density")
	}
}

func TestBlackbodyInvalidTemperature(t *testing.T) {
	for _, temperature := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewBlackbody("bad", temperature); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("NewBlackbody(%v) error = %v, want ErrInvalidConfig", temperature, err)
		}
	}
}

func TestPowerLaw(t *testing.T) {
	eMin, eMax := 1e-3*eV, 1.*eV
	field, err := NewPowerLaw("PL", eMin, eMax, -2, 1e6)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		e    float64
		want float64
	}{
		{"at eMin", eMin, 1e6},
		{"at eMax", eMax, 1e6 * 1e-6},
		{"inside", 1e-2 * eV, 1e6 * 1e-2},
		{"below", eMin * 0.999, 0},
		{"above", eMax * 1.001, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := field.Density(tt.e, 0)
			if tt.want == 0 {
				if got != 0 {
					t.Errorf("Density = %v, want 0", got)
				}
				return
			}
			if math.Abs(got/tt.want-1) > 1e-12 {
				t.Errorf("Density = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPowerLawRejectsNonNegativeIndex(t *testing.T) {
	for _, index := range []float64{0, 1.5} {
		if _, err := NewPowerLaw("PL", 1e-3*eV, 1*eV, index, 1); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("index %v: error = %v, want ErrInvalidConfig", index, err)
		}
	}
	if _, err := NewPowerLaw("PL", 1*eV, 1e-3*eV, -1, 1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("inverted range: error = %v, want ErrInvalidConfig", err)
	}
	for _, norm := range []float64{0, -1, math.Inf(1)} {
		if _, err := NewPowerLaw("PL", 1e-3*eV, 1*eV, -1, norm); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("norm %v: error = %v, want ErrInvalidConfig", norm, err)
		}
	}
}

func TestTabularLogInterpolation(t *testing.T) {
	energies := []float64{1e-3 * eV, 1e-2 * eV, 1e-1 * eV}
	densities := []float64{1, 100, 10}
	field, err := NewTabular("tab", energies, densities, nil)
	if err != nil {
		t.Fatal(err)
	}
	mid := math.Sqrt(energies[0] * energies[1])
	got := field.Density(mid, 0)
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("Density(midpoint) = %v, want log-interpolated 10 (arithmetic mean would be 50.5)", got)
	}
	if got := field.Density(energies[1], 0); math.Abs(got-100) > 1e-9 {
		t.Errorf("Density at node = %v, want 100", got)
	}
	if field.Density(energies[0]*0.9, 0) != 0 || field.Density(energies[2]*1.1, 0) != 0 {
		t.Error("density outside the table must be 0")
	}
	if field.HasRedshiftDependence() || field.RedshiftScaling(2) != 1 {
		t.Error("field without redshift axis must have unit scaling")
	}
}

func TestTabularZeroDensityFallsBackToLinear(t *testing.T) {
	field, err := NewTabular("tab", []float64{1, 10}, []float64{0, 4}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := field.Density(math.Sqrt(10), 0); math.Abs(got-2) > 1e-12 {
		t.Errorf("Density = %v, want 2", got)
	}
}

func TestTabularRedshiftAxis(t *testing.T) {
	energies := []float64{1, 10, 100}
	redshifts := []float64{0, 1, 2}
	// density halves with each redshift step
	densities := []float64{
		4, 2, 1,
		8, 4, 2,
		4, 2, 1,
	}
	field, err := NewTabular("evolving", energies, densities, redshifts)
	if err != nil {
		t.Fatal(err)
	}
	if !field.HasRedshiftDependence() {
		t.Fatal("expected redshift dependence")
	}
	if got := field.Density(10, 0.5); math.Abs(got-6) > 1e-12 {
		t.Errorf("Density(10, 0.5) = %v, want 6", got)
	}
	if got := field.Density(10, -0.05); got != 8 {
		t.Errorf("Density below zMin = %v, want value at zMin", got)
	}
	if got := field.Density(10, 2.5); got != 0 {
		t.Errorf("Density above zMax = %v, want 0", got)
	}
	tests := []struct {
		z    float64
		want float64
	}{
		{-1, 1},
		{0, 1},
		{1, 0.5},
		{1.5, 0.375},
		{2, 0.25},
		{3, 0},
	}
	for _, tt := range tests {
		if got := field.RedshiftScaling(tt.z); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("RedshiftScaling(%v) = %v, want %v", tt.z, got, tt.want)
		}
	}
}

func TestTabularValidation(t *testing.T) {
	tests := []struct {
		name      string
		energies  []float64
		densities []float64
		redshifts []float64
	}{
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}, nil},
		{"not increasing", []float64{1, 3, 2}, []float64{1, 2, 3}, nil},
		{"non-positive energy", []float64{0, 1}, []float64{1, 2}, nil},
		{"negative density", []float64{1, 2}, []float64{1, -2}, nil},
		{"redshift grid mismatch", []float64{1, 2}, []float64{1, 2, 3}, []float64{0, 1}},
		{"decreasing redshift", []float64{1, 2}, []float64{1, 1, 1, 1}, []float64{1, 0}},
		{"single point", []float64{1}, []float64{1}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTabular("bad", tt.energies, tt.densities, tt.redshifts); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadTabular(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, lines ...string) {
		t.Helper()
		content := "# test table\n" + strings.Join(lines, "\n") + "\n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	write("photonEnergy_test.txt", "1e-22", "1e-21")
	write("photonDensity_test.txt", "5", "50", "2", "20")
	write("redshift_test.txt", "0", "1")

	field, err := LoadTabular(dir, "test", true)
	if err != nil {
		t.Fatal(err)
	}
	if field.Name() != "test" || field.MinimumEnergy() != 1e-22 || field.MaximumEnergy() != 1e-21 {
		t.Errorf("unexpected field %s [%v, %v]", field.Name(), field.MinimumEnergy(), field.MaximumEnergy())
	}
	if got := field.Density(1e-21, 1); got != 20 {
		t.Errorf("Density = %v, want 20", got)
	}

	if _, err := LoadTabular(dir, "missing", false); err == nil {
		t.Error("expected an error for missing tables")
	}
}
