package report

import (
	"flag"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/wildstyl3r/emcascade/internal/constants"
	"github.com/wildstyl3r/emcascade/internal/table"
	"github.com/wildstyl3r/emcascade/internal/utils"
)

func newFlags(t *testing.T, args ...string) DataFlags {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	df := NewDataFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return df
}

func TestDataFlags(t *testing.T) {
	df := newFlags(t, "-rate")
	if !df.Enabled(Rate) || df.Enabled(CDF) || !df.Enabled(Stats) {
		t.Errorf("rate %v cdf %v stats %v", df.Enabled(Rate), df.Enabled(CDF), df.Enabled(Stats))
	}
	if df.Enabled("unknown") {
		t.Error("unknown item enabled")
	}
	all := newFlags(t, "-all", "-stats=false")
	for _, item := range []string{Rate, MeanFreePath, CDF, Stats, Sophia} {
		if !all.Enabled(item) {
			t.Errorf("%s disabled with -all", item)
		}
	}
}

func TestNewStatsRecord(t *testing.T) {
	outcomes := []Outcome{
		{Interacted: true, Secondaries: 2, Weight: 3, EnergyLoss: 0.5},
		{Interacted: false},
		{Interacted: true, Secondaries: 1, Weight: 1, EnergyLoss: 0.1},
		{Interacted: false},
	}
	r := NewStatsRecord(1e18, 0.4, outcomes)
	if r.Trials != 4 || r.Interactions != 2 || r.Frequency != 0.5 {
		t.Errorf("counts %d %d %g", r.Trials, r.Interactions, r.Frequency)
	}
	if r.Multiplicity != 0.75 || r.MeanWeight != 1 || math.Abs(r.EnergyLoss-0.15) > 1e-15 {
		t.Errorf("means %g %g %g", r.Multiplicity, r.MeanWeight, r.EnergyLoss)
	}
	// unbiased std of {1,0,1,0} is sqrt(1/3)
	want := constants.Quantile95 * math.Sqrt(1.0/3) / 2
	if math.Abs(r.StdError-want) > 1e-12 {
		t.Errorf("std error %g, want %g", r.StdError, want)
	}
	empty := NewStatsRecord(1, math.NaN(), nil)
	if empty.Trials != 0 || empty.Frequency != 0 {
		t.Errorf("empty record %+v", empty)
	}
}

func TestHistogram(t *testing.T) {
	samples := []float64{1.5, 2, 15, 20, 99, 100, 1000, 0.1}
	records := Histogram(5, samples, 2, 1, 100)
	if len(records) != 2 {
		t.Fatalf("%d bins", len(records))
	}
	if records[0].EpsLow != 1 || math.Abs(records[0].EpsHigh-10) > 1e-12 {
		t.Errorf("first bin [%g, %g]", records[0].EpsLow, records[0].EpsHigh)
	}
	if records[0].Fraction != 2.0/8 || records[1].Fraction != 4.0/8 {
		t.Errorf("fractions %g %g", records[0].Fraction, records[1].Fraction)
	}
	if records[1].NucleonEnergy != 5 {
		t.Errorf("nucleon energy %g", records[1].NucleonEnergy)
	}
	if Histogram(5, samples, 0, 1, 100) != nil || Histogram(5, samples, 2, 0, 100) != nil {
		t.Error("invalid histogram parameters accepted")
	}
}

func TestWriterRateTable(t *testing.T) {
	dir := t.TempDir()
	rt, err := table.NewRateTable([]float64{utils.EV2J(1e18), utils.EV2J(1e19)}, []float64{1 / constants.Mpc, 2 / constants.Mpc})
	if err != nil {
		t.Fatal(err)
	}
	w := NewWriter(newFlags(t, "-rate", "-mfp"), dir, []string{"EeV", "Mpc"})
	if err := w.RateTable("ics", rt); err != nil {
		t.Fatal(err)
	}
	file, err := os.Open(filepath.Join(dir, "ics_rate.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	var rates []RateRecord
	if err := gocsv.UnmarshalFile(file, &rates); err != nil {
		t.Fatal(err)
	}
	if len(rates) != 2 || math.Abs(rates[0].Energy-1) > 1e-12 || math.Abs(rates[1].Rate-2) > 1e-12 {
		t.Errorf("rates %+v", rates)
	}
	mfp, err := os.ReadFile(filepath.Join(dir, "ics_mfp.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(mfp), "energy,mean_free_path") {
		t.Errorf("mfp header %q", string(mfp))
	}
	if _, err := os.Stat(filepath.Join(dir, "ics_cdf.csv")); !os.IsNotExist(err) {
		t.Error("cdf written without flag")
	}
}

func TestWriterDirAndSummary(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(newFlags(t, "-dir"), dir, []string{"eV"})
	if err := w.Stats("m10", []StatsRecord{{Energy: utils.EV2J(1e15), Trials: 1}}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "stats", "m10.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "energy,trials,interactions") {
		t.Errorf("stats %q", string(data))
	}
	rows := utils.CSV{{"m10", "ics"}, {"m2", "dpp"}}
	if err := w.Summary(rows); err != nil {
		t.Fatal(err)
	}
	summary, err := os.ReadFile(filepath.Join(dir, "summary", "modules.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(summary)), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "m2,") {
		t.Errorf("summary %q", lines)
	}
	if w.EnergyUnit() != "eV" {
		t.Errorf("energy unit %q", w.EnergyUnit())
	}
}
