package main

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wildstyl3r/emcascade/internal/candidate"
	"github.com/wildstyl3r/emcascade/internal/config"
	"github.com/wildstyl3r/emcascade/internal/interaction"
	"github.com/wildstyl3r/emcascade/internal/report"
)

// chunk is a share of the trials at one energy with its own random stream.
type chunk struct {
	energy int
	trials int
	seed   int64
}

type chunkResult[T any] struct {
	energy int
	values []T
}

// runTrials calls trial trials times per energy on threads workers and
// returns the values grouped by energy. Results depend on seed only.
func runTrials[T any](energies []float64, trials, threads int, seed int64, trial func(energy float64, rng *rand.Rand) T) [][]T {
	threads = max(threads, 1)
	perChunk := (trials + threads - 1) / threads

	computeflow := make(chan chunk, len(energies)*threads)
	var next int64
	for i := range energies {
		for left := trials; left > 0; left -= perChunk {
			computeflow <- chunk{energy: i, trials: min(left, perChunk), seed: seed + next}
			next++
		}
	}
	close(computeflow)

	var computeWg sync.WaitGroup
	dataflow := make(chan chunkResult[T])
	for range threads {
		computeWg.Add(1)
		go func() {
			defer computeWg.Done()
			for job := range computeflow {
				rng := rand.New(rand.NewSource(job.seed))
				values := make([]T, job.trials)
				for k := range values {
					values[k] = trial(energies[job.energy], rng)
				}
				dataflow <- chunkResult[T]{energy: job.energy, values: values}
			}
		}()
	}

	// chan killer
	go func() {
		computeWg.Wait()
		close(dataflow)
	}()

	results := make([][]T, len(energies))
	for r := range dataflow {
		results[r.energy] = append(results[r.energy], r.values...)
	}
	return results
}

// streamSeed is the base seed of the i-th experiment. Each experiment owns a
// block of 1<<32 chunk seeds.
func streamSeed(seed int64, i int) int64 {
	return seed + int64(i)<<32
}

func energyGrid(eMin, eMax float64, n int) []float64 {
	if n <= 1 || eMin == eMax {
		return []float64{eMin}
	}
	return floats.LogSpan(make([]float64, n), eMin, eMax)
}

func primaryParticle(moduleType string) int {
	if moduleType == "dpp" {
		return candidate.Photon
	}
	return candidate.Electron
}

func outcomeOf(c *candidate.Candidate, e0 float64) report.Outcome {
	o := report.Outcome{
		Interacted:  !c.Active || c.Energy != e0 || len(c.Secondaries) > 0,
		Secondaries: len(c.Secondaries),
		EnergyLoss:  (e0 - c.Energy) / e0,
	}
	if !c.Active {
		o.EnergyLoss = 1
	}
	for _, s := range c.Secondaries {
		o.Weight += s.Weight
	}
	return o
}

// runExperiment propagates fresh primaries over one step of mp.Step at
// each energy of the module's grid.
func runExperiment(m interaction.Module, mp config.ModuleParameters, threads int, seed int64) []report.StatsRecord {
	energies := energyGrid(mp.EnergyMin, mp.EnergyMax, mp.NumEnergies)
	id := primaryParticle(mp.Type)
	outcomes := runTrials(energies, mp.Trials, threads, seed, func(e float64, rng *rand.Rand) report.Outcome {
		c := candidate.New(id, e, r3.Vec{}, r3.Vec{X: 1})
		c.Redshift = mp.Redshift
		c.Step(mp.Step)
		m.Process(c, rng)
		return outcomeOf(c, e)
	})
	records := make([]report.StatsRecord, len(energies))
	for i, e := range energies {
		expected := math.NaN()
		if p, ok := m.(interface {
			InteractionProbability(energy, z, step float64) float64
		}); ok {
			expected = p.InteractionProbability(e, mp.Redshift, mp.Step)
		}
		records[i] = report.NewStatsRecord(e, expected, outcomes[i])
	}
	return records
}
