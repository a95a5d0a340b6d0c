package table

import (
	"fmt"
	"math"

	"github.com/wildstyl3r/emcascade/internal/constants"
	"github.com/wildstyl3r/emcascade/internal/utils"
)

// ReadRateFile loads a precomputed rate table with columns log10(E/eV) and
// rate [1/Mpc].
func ReadRateFile(path string) (*RateTable, error) {
	rows, err := utils.ReadFloatPairs(path)
	if err != nil {
		return nil, fmt.Errorf("rate file %s: %w", path, err)
	}
	energies := make([]float64, len(rows))
	rates := make([]float64, len(rows))
	for i := range rows {
		energies[i] = math.Pow(10, rows[i][0]) * constants.ElectronVolt
		rates[i] = rows[i][1] / constants.Mpc
	}
	rt, err := NewRateTable(energies, rates)
	if err != nil {
		return nil, fmt.Errorf("rate file %s: %w", path, err)
	}
	return rt, nil
}

// ReadCDFFile loads a cumulative rate table. The first row holds a leading
// placeholder followed by log10(s/eV^2) values; every following row holds
// log10(E/eV) and the cumulative rates [1/Mpc] at those s values. Rows that
// never interact are skipped.
func ReadCDFFile(path string) (*CDFTable, error) {
	rows, err := utils.ReadFloatRows(path, 0)
	if err != nil {
		return nil, fmt.Errorf("cdf file %s: %w", path, err)
	}
	if len(rows) < 2 || len(rows[0]) < 3 {
		return nil, fmt.Errorf("%w: cdf file %s has no data", ErrInvalidTable, path)
	}
	s := make([]float64, len(rows[0])-1)
	for i := range s {
		s[i] = math.Pow(10, rows[0][i+1]) * constants.ElectronVolt * constants.ElectronVolt
	}
	var energies []float64
	var cdfs [][]float64
	for line, row := range rows[1:] {
		if len(row) != len(s)+1 {
			return nil, fmt.Errorf("%w: cdf file %s line %d has %d columns, want %d", ErrInvalidTable, path, line+2, len(row), len(s)+1)
		}
		if row[len(row)-1] <= 0 {
			continue
		}
		cdf := make([]float64, len(s))
		for i := range cdf {
			cdf[i] = row[i+1] / constants.Mpc
		}
		energies = append(energies, math.Pow(10, row[0])*constants.ElectronVolt)
		cdfs = append(cdfs, cdf)
	}
	t, err := NewCDFTable(energies, [][]float64{s}, cdfs)
	if err != nil {
		return nil, fmt.Errorf("cdf file %s: %w", path, err)
	}
	return t, nil
}
