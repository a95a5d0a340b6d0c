package report

import (
	"fmt"
	"log/slog"

	"github.com/gocarina/gocsv"

	"github.com/wildstyl3r/emcascade/internal/config"
	"github.com/wildstyl3r/emcascade/internal/table"
	"github.com/wildstyl3r/emcascade/internal/utils"
)

var (
	energyUnit = []config.UnitElement{{Class: config.Energy, Power: 1}}
	rateUnit   = []config.UnitElement{{Class: config.Length, Power: -1}}
	lengthUnit = []config.UnitElement{{Class: config.Length, Power: 1}}
)

// Writer saves the requested data products in the output units.
type Writer struct {
	flags DataFlags
	units []string
}

func NewWriter(flags DataFlags, outputPath string, outputUnits []string) *Writer {
	flags.SetOutputPath(outputPath)
	return &Writer{flags: flags, units: outputUnits}
}

func (w *Writer) energy(v float64) float64 { return config.SI(v, energyUnit, w.units, false) }

func (w *Writer) save(item, name string, records any) error {
	if !w.flags.Enabled(item) {
		return nil
	}
	file, err := utils.OpenFile(*w.flags.makeDir, w.flags.GetOutputPath(), w.flags.items[item].fileSuffix, name)
	if err != nil {
		return fmt.Errorf("unable to save %s of %s: %w", item, name, err)
	}
	defer file.Close()
	if err := gocsv.MarshalFile(records, file); err != nil {
		return fmt.Errorf("writing %s of %s: %w", item, name, err)
	}
	slog.Debug("saved", "item", item, "module", name, "file", file.Name())
	return nil
}

// RateTable saves the rate and mean free path of the table points.
func (w *Writer) RateTable(name string, rt *table.RateTable) error {
	rates := make([]RateRecord, rt.Len())
	mfps := make([]MeanFreePathRecord, rt.Len())
	for i := range rt.Len() {
		e, r := rt.At(i)
		rates[i] = RateRecord{Energy: w.energy(e), Rate: config.SI(r, rateUnit, w.units, false)}
		mfps[i] = MeanFreePathRecord{Energy: w.energy(e), MeanFreePath: config.SI(table.MeanFreePath(r), lengthUnit, w.units, false)}
	}
	if err := w.save(Rate, name, &rates); err != nil {
		return err
	}
	return w.save(MeanFreePath, name, &mfps)
}

// CDF saves the inverse distribution of every energy row at n quantiles.
// Kinematic values are written in SI.
func (w *Writer) CDF(name string, cdf *table.CDFTable, n int) error {
	if n < 2 {
		n = 2
	}
	var records []CDFRecord
	for i := range cdf.Len() {
		e := cdf.Energy(i)
		for k := range n {
			u := float64(k) / float64(n-1)
			if k == n-1 {
				u = 1 - 1e-12
			}
			records = append(records, CDFRecord{Energy: w.energy(e), Quantile: u, Value: cdf.Sample(e, u)})
		}
	}
	return w.save(CDF, name, &records)
}

func (w *Writer) Stats(name string, records []StatsRecord) error {
	out := make([]StatsRecord, len(records))
	for i, r := range records {
		r.Energy = w.energy(r.Energy)
		out[i] = r
	}
	return w.save(Stats, name, &out)
}

// Sophia saves histograms with photon energies in eV and nucleon energies in
// output units.
func (w *Writer) Sophia(name string, records []SophiaRecord) error {
	out := make([]SophiaRecord, len(records))
	for i, r := range records {
		r.NucleonEnergy = w.energy(r.NucleonEnergy)
		r.EpsLow = utils.J2eV(r.EpsLow)
		r.EpsHigh = utils.J2eV(r.EpsHigh)
		out[i] = r
	}
	return w.save(Sophia, name, &out)
}

var summaryColumns = []string{"module", "type", "field", "energy_min", "energy_max", "table_points"}

// Summary writes one row per module in natural order of module names.
func (w *Writer) Summary(rows utils.CSV) error {
	return utils.WriteAsCSV(rows, w.flags.GetOutputPath(), "summary", "modules", summaryColumns)
}

func (w *Writer) EnergyUnit() string { return config.UnitName(config.Energy, w.units) }
