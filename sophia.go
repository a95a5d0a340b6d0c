package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"

	"github.com/wildstyl3r/emcascade/internal/config"
	"github.com/wildstyl3r/emcascade/internal/constants"
	"github.com/wildstyl3r/emcascade/internal/report"
	"github.com/wildstyl3r/emcascade/internal/sampling"
	"github.com/wildstyl3r/emcascade/internal/utils"
)

func buildSampler(cfg config.Config) (*sampling.Sampler, error) {
	sp := cfg.Sampling
	opts := []sampling.Option{sampling.WithMaxIterations(sp.MaxIterations)}
	background := sampling.BackgroundCMB
	if sp.Background == "tabular" {
		background = sampling.BackgroundTabular
		rows, err := utils.ReadFloatPairs(filepath.Join(cfg.DataDir, sp.Spectrum))
		if err != nil {
			return nil, fmt.Errorf("reading sampling spectrum: %w", err)
		}
		eps := make([]float64, len(rows))
		density := make([]float64, len(rows))
		for i, row := range rows {
			eps[i], density[i] = row[0], row[1]
		}
		opts = append(opts, sampling.WithSpectrum(eps, density))
	}
	return sampling.NewSampler(background, opts...)
}

type draw struct {
	eps float64 // [J]
	err error
}

// runSophia histograms background photon energies drawn for each
// configured nucleon energy.
func runSophia(cfg config.Config) ([]report.SophiaRecord, error) {
	sp := cfg.Sampling
	sampler, err := buildSampler(cfg)
	if err != nil {
		return nil, err
	}
	onProton := sp.Nucleon == "proton"
	draws := runTrials(sp.Energies, sp.Trials, cfg.Threads, streamSeed(cfg.Seed, len(cfg.Modules)), func(e float64, rng *rand.Rand) draw {
		eps, err := sampler.Sample(onProton, e, sp.Redshift, rng)
		return draw{eps: eps, err: err}
	})

	var records []report.SophiaRecord
	for i, e := range sp.Energies {
		epsMin, epsMax, err := sampler.Limits(onProton, e/constants.GeV, sp.Redshift)
		if err != nil {
			slog.Warn("nucleon below photo-pion threshold", "energy", e, "err", err)
			continue
		}
		var samples []float64
		var failures int
		for _, d := range draws[i] {
			switch {
			case d.err == nil:
				samples = append(samples, d.eps)
			case errors.Is(d.err, sampling.ErrSamplingFailed):
				failures++
			default:
				return nil, d.err
			}
		}
		if failures > 0 {
			slog.Warn("rejection sampling gave up", "energy", e, "failures", failures, "trials", sp.Trials)
		}
		records = append(records, report.Histogram(e, samples, sp.Bins, utils.EV2J(epsMin), utils.EV2J(epsMax))...)
	}
	return records, nil
}
