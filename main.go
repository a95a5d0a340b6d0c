package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/wildstyl3r/emcascade/internal/config"
	"github.com/wildstyl3r/emcascade/internal/report"
	"github.com/wildstyl3r/emcascade/internal/table"
	"github.com/wildstyl3r/emcascade/internal/utils"
)

func main() {
	dataFlags := report.NewDataFlags(flag.CommandLine)
	configFileName := flag.String("input", "run", "run configuration in toml format")
	verbose := flag.Bool("v", false, "log debug messages")
	cdfQuantiles := flag.Int("quantiles", 11, "number of quantiles saved per cdf row")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	startTime := time.Now()
	if err := run(*configFileName, dataFlags, *cdfQuantiles); err != nil {
		slog.Error("run failed", "err", err)
		os.Exit(1)
	}
	slog.Info("done", "elapsed", time.Since(startTime).String())
}

func run(configFileName string, dataFlags report.DataFlags, cdfQuantiles int) error {
	cfg, err := config.LoadConfig(configFileName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := cfg.WriteYAML(filepath.Join(cfg.OutputDir, "config.yaml")); err != nil {
		return err
	}
	slog.Info("config loaded", "input", configFileName, "modules", len(cfg.Modules), "threads", cfg.Threads, "seed", cfg.Seed)

	fields, err := buildFields(cfg)
	if err != nil {
		return err
	}
	writer := report.NewWriter(dataFlags, cfg.OutputDir, cfg.OutputUnits)
	slog.Debug("output", "dir", cfg.OutputDir, "energyUnit", writer.EnergyUnit())

	var summary utils.CSV
	for i, name := range cfg.ModuleNames() {
		mp := cfg.Modules[name]
		buildStart := time.Now()
		m, err := buildModule(name, mp, cfg, fields)
		if err != nil {
			return err
		}
		slog.Info("module ready", "module", name, "type", mp.Type, "process", m.Name(), "elapsed", time.Since(buildStart).String())

		row := []string{name, mp.Type, mp.Field, "", "", "0"}
		if tabulated, ok := m.(interface{ Rates() *table.RateTable }); ok {
			rt := tabulated.Rates()
			row[3] = strconv.FormatFloat(config.SI(rt.MinEnergy(), energyUnit, cfg.OutputUnits, false), 'g', -1, 64)
			row[4] = strconv.FormatFloat(config.SI(rt.MaxEnergy(), energyUnit, cfg.OutputUnits, false), 'g', -1, 64)
			row[5] = strconv.Itoa(rt.Len())
			if err := writer.RateTable(name, rt); err != nil {
				return err
			}
		}
		if distributed, ok := m.(interface{ Distribution() *table.CDFTable }); ok {
			if err := writer.CDF(name, distributed.Distribution(), cdfQuantiles); err != nil {
				return err
			}
		}
		summary = append(summary, row)

		stats := runExperiment(m, mp, cfg.Threads, streamSeed(cfg.Seed, i))
		for _, r := range stats {
			slog.Debug("trials", "module", name, "energy", r.Energy, "frequency", r.Frequency, "expected", r.Expected)
		}
		if err := writer.Stats(name, stats); err != nil {
			return err
		}
	}

	if cfg.Sampling != nil {
		records, err := runSophia(cfg)
		if err != nil {
			return err
		}
		if err := writer.Sophia(cfg.Sampling.Nucleon, records); err != nil {
			return err
		}
	}
	return writer.Summary(summary)
}

var energyUnit = []config.UnitElement{{Class: config.Energy, Power: 1}}
