package table

import (
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/wildstyl3r/emcascade/internal/constants"
)

func TestRateOutsideRangeIsZero(t *testing.T) {
	rt, err := NewRateTable([]float64{1, 10, 100}, []float64{1, 2, 4})
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []float64{0, 0.5, math.Nextafter(1, 0), math.Nextafter(100, 1000), 1e9, math.Inf(1)} {
		if got := rt.Rate(e); got != 0 {
			t.Errorf("Rate(%v) = %v, want 0", e, got)
		}
		if !math.IsInf(rt.MeanFreePath(e), 1) {
			t.Errorf("MeanFreePath(%v) = %v, want +Inf", e, rt.MeanFreePath(e))
		}
	}
}

func TestRateLogLogInterpolation(t *testing.T) {
	rt, err := NewRateTable([]float64{1, 100}, []float64{1, 100})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		e    float64
		want float64
	}{
		{1, 1},
		{10, 10},
		{100, 100},
		{math.Sqrt(10), math.Sqrt(10)},
	}
	for _, tt := range tests {
		if got := rt.Rate(tt.e); math.Abs(got/tt.want-1) > 1e-12 {
			t.Errorf("Rate(%v) = %v, want %v", tt.e, got, tt.want)
		}
	}
	if got := rt.MeanFreePath(10); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("MeanFreePath(10) = %v, want 0.1", got)
	}
	if got := rt.StepLimit(10, 0.1); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("StepLimit(10, 0.1) = %v, want 0.01", got)
	}
}

func TestRateZeroEntries(t *testing.T) {
	rt, err := NewRateTable([]float64{1, 10, 100}, []float64{0, 0, 3})
	if err != nil {
		t.Fatal(err)
	}
	if got := rt.Rate(3); got != 0 {
		t.Errorf("Rate between zero entries = %v, want 0", got)
	}
	if got := rt.Rate(math.Sqrt(1000)); math.Abs(got-1.5) > 1e-12 {
		t.Errorf("Rate next to a zero entry = %v, want linear fallback 1.5", got)
	}
}

func TestNewRateTableValidation(t *testing.T) {
	tests := []struct {
		name     string
		energies []float64
		rates    []float64
	}{
		{"too short", []float64{1}, []float64{1}},
		{"mismatch", []float64{1, 2}, []float64{1}},
		{"not increasing", []float64{1, 1}, []float64{1, 1}},
		{"negative rate", []float64{1, 2}, []float64{1, -1}},
		{"nan rate", []float64{1, 2}, []float64{math.NaN(), 1}},
		{"non-positive energy", []float64{0, 2}, []float64{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRateTable(tt.energies, tt.rates); !errors.Is(err, ErrInvalidTable) {
				t.Errorf("error = %v, want ErrInvalidTable", err)
			}
		})
	}
}

func TestInteractionProbabilityPoisson(t *testing.T) {
	const rate, step = 2.5, 0.3
	want := 1 - math.Exp(-rate*step)
	if got := InteractionProbability(rate, step); math.Abs(got-want) > 1e-15 {
		t.Fatalf("InteractionProbability = %v, want %v", got, want)
	}
	rng := rand.New(rand.NewSource(7))
	const n = 200000
	hits := 0
	for range n {
		if rng.Float64() < InteractionProbability(rate, step) {
			hits++
		}
	}
	freq := float64(hits) / n
	sigma := math.Sqrt(want * (1 - want) / n)
	if math.Abs(freq-want) > 5*sigma {
		t.Errorf("empirical frequency %v, want %v +- %v", freq, want, 5*sigma)
	}
	if InteractionProbability(0, 1) != 0 || InteractionProbability(1, 0) != 0 || InteractionProbability(math.NaN(), 1) != 0 {
		t.Error("degenerate inputs must not interact")
	}
}

func TestReadRateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rate.txt")
	content := "# log10(E/eV) rate [1/Mpc]\n15 1\n16 10\n17 100\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	rt, err := ReadRateFile(path)
	if err != nil {
		t.Fatal(err)
	}
	e := 1e16 * constants.ElectronVolt
	if got, want := rt.Rate(e), 10/constants.Mpc; math.Abs(got/want-1) > 1e-9 {
		t.Errorf("Rate(1e16 eV) = %v, want %v", got, want)
	}
	if rt.Len() != 3 {
		t.Errorf("Len = %d, want 3", rt.Len())
	}
}
