package table

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/wildstyl3r/emcascade/internal/constants"
)

func testTable(t *testing.T) *CDFTable {
	t.Helper()
	energies := []float64{1, 10, 100}
	values := [][]float64{
		{1, 2, 3, 4},
		{10, 20, 30, 40},
		{100, 200, 300, 400},
	}
	cdfs := [][]float64{
		{0, 1, 2, 4},
		{0, 0, 5, 10},
		{0, 3, 3, 6},
	}
	table, err := NewCDFTable(energies, values, cdfs)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestCDFSampleAtZeroReturnsRowMinimum(t *testing.T) {
	table := testTable(t)
	for i := range table.Len() {
		e := table.Energy(i)
		row := table.Row(e)
		if got := table.Sample(e, 0); got != row.Min() {
			t.Errorf("row %d: Sample(E, 0) = %v, want %v", i, got, row.Min())
		}
	}
}

func TestCDFSampleMonotone(t *testing.T) {
	table := testTable(t)
	for i := range table.Len() {
		e := table.Energy(i)
		previous := math.Inf(-1)
		for k := 0; k < 1000; k++ {
			u := float64(k) / 1000
			got := table.Sample(e, u)
			if got < previous {
				t.Fatalf("row %d: Sample(E, %v) = %v < %v", i, u, got, previous)
			}
			previous = got
		}
		top := table.Row(e).Max()
		if got := table.Sample(e, math.Nextafter(1, 0)); math.Abs(got-top) > 1e-9*top {
			t.Errorf("row %d: Sample(E, 1-) = %v, want %v", i, got, top)
		}
	}
}

func TestCDFSampleInterpolates(t *testing.T) {
	table := testTable(t)
	tests := []struct {
		name string
		e    float64
		u    float64
		want float64
	}{
		{"first row half", 1, 0.5, 3},
		{"first row quarter", 1, 0.25, 2},
		{"second row skips flat bin", 10, 0.25, 25},
		{"nearest row in log energy", 20, 0.75, 35},
		{"third row plateau", 100, 0.5, 200},
		{"below grid uses first row", 0.01, 0.125, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Sample(tt.e, tt.u); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Sample(%v, %v) = %v, want %v", tt.e, tt.u, got, tt.want)
			}
		})
	}
}

func TestNewCDFTableValidation(t *testing.T) {
	tests := []struct {
		name     string
		energies []float64
		values   [][]float64
		cdfs     [][]float64
	}{
		{"zero row", []float64{1}, [][]float64{{1, 2}}, [][]float64{{0, 0}}},
		{"decreasing cdf", []float64{1}, [][]float64{{1, 2, 3}}, [][]float64{{0, 2, 1}}},
		{"unsorted values", []float64{1}, [][]float64{{2, 1}}, [][]float64{{0, 1}}},
		{"unsorted energies", []float64{2, 1}, [][]float64{{1, 2}}, [][]float64{{0, 1}, {0, 1}}},
		{"row count", []float64{1, 2}, [][]float64{{1, 2}, {1, 2}, {1, 2}}, [][]float64{{0, 1}, {0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCDFTable(tt.energies, tt.values, tt.cdfs); !errors.Is(err, ErrInvalidTable) {
				t.Errorf("error = %v, want ErrInvalidTable", err)
			}
		})
	}
}

func TestReadCDFFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cdf.txt")
	content := "# cumulative rates\n0 10 11 12\n15 0 1 2\n16 0 0 0\n17 0 3 6\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	table, err := ReadCDFFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (the empty row is skipped)", table.Len())
	}
	eV2 := constants.ElectronVolt * constants.ElectronVolt
	if got, want := table.Sample(1e15*constants.ElectronVolt, 0.5), 1e11*eV2; math.Abs(got/want-1) > 1e-9 {
		t.Errorf("Sample = %v, want %v", got, want)
	}
}
