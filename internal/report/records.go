package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wildstyl3r/emcascade/internal/constants"
	"github.com/wildstyl3r/emcascade/internal/utils"
)

type RateRecord struct {
	Energy float64 `csv:"energy"`
	Rate   float64 `csv:"rate"`
}

type MeanFreePathRecord struct {
	Energy       float64 `csv:"energy"`
	MeanFreePath float64 `csv:"mean_free_path"`
}

type CDFRecord struct {
	Energy   float64 `csv:"energy"`
	Quantile float64 `csv:"quantile"`
	Value    float64 `csv:"value"`
}

type StatsRecord struct {
	Energy       float64 `csv:"energy"`
	Trials       int     `csv:"trials"`
	Interactions int     `csv:"interactions"`
	Frequency    float64 `csv:"frequency"`
	StdError     float64 `csv:"std_error_95"`
	Expected     float64 `csv:"expected"`
	Multiplicity float64 `csv:"multiplicity"`
	MeanWeight   float64 `csv:"mean_weight"`
	EnergyLoss   float64 `csv:"energy_loss"`
}

type SophiaRecord struct {
	NucleonEnergy float64 `csv:"nucleon_energy"`
	EpsLow        float64 `csv:"eps_low"`
	EpsHigh       float64 `csv:"eps_high"`
	Fraction      float64 `csv:"fraction"`
}

// Outcome is the result of one single-step trial.
type Outcome struct {
	Interacted  bool
	Secondaries int
	// Weight is the summed weight of the secondaries.
	Weight float64
	// EnergyLoss is the fraction of the primary energy lost.
	EnergyLoss float64
}

// NewStatsRecord aggregates trials at one energy. expected is the
// probability of an interaction, NaN if not applicable.
func NewStatsRecord(energy, expected float64, outcomes []Outcome) StatsRecord {
	r := StatsRecord{Energy: energy, Trials: len(outcomes), Expected: expected}
	if len(outcomes) == 0 {
		return r
	}
	hits := make([]float64, len(outcomes))
	multiplicity := make([]float64, len(outcomes))
	weights := make([]float64, len(outcomes))
	losses := make([]float64, len(outcomes))
	for i, o := range outcomes {
		if o.Interacted {
			hits[i] = 1
		}
		multiplicity[i] = float64(o.Secondaries)
		weights[i] = o.Weight
		losses[i] = o.EnergyLoss
	}
	r.Interactions = int(utils.SumSlice(hits))
	r.Frequency = float64(r.Interactions) / float64(r.Trials)
	if r.Trials > 1 {
		_, std := stat.MeanStdDev(hits, nil)
		r.StdError = constants.Quantile95 * std / math.Sqrt(float64(r.Trials))
	}
	r.Multiplicity = stat.Mean(multiplicity, nil)
	r.MeanWeight = stat.Mean(weights, nil)
	r.EnergyLoss = stat.Mean(losses, nil)
	return r
}

// Histogram bins samples into bins logarithmic bins on [lo, hi] and returns
// the fraction of all samples in each. Samples outside are dropped.
func Histogram(nucleonEnergy float64, samples []float64, bins int, lo, hi float64) []SophiaRecord {
	if bins < 1 || !(lo > 0) || !(hi > lo) || len(samples) == 0 {
		return nil
	}
	dividers := floats.LogSpan(make([]float64, bins+1), lo, hi)
	// stat.Histogram needs every value inside the dividers
	dividers[0] = lo
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	var x []float64
	for _, s := range samples {
		if s >= lo && s <= hi {
			x = append(x, s)
		}
	}
	sort.Float64s(x)
	counts := make([]float64, bins)
	if len(x) > 0 {
		stat.Histogram(counts, dividers, x, nil)
	}
	dividers[bins] = hi
	records := make([]SophiaRecord, bins)
	for i := range records {
		records[i] = SophiaRecord{
			NucleonEnergy: nucleonEnergy,
			EpsLow:        dividers[i],
			EpsHigh:       dividers[i+1],
			Fraction:      counts[i] / float64(len(samples)),
		}
	}
	return records
}
