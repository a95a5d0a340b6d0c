package main

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wildstyl3r/emcascade/internal/config"
	"github.com/wildstyl3r/emcascade/internal/interaction"
	"github.com/wildstyl3r/emcascade/internal/magnetic"
	"github.com/wildstyl3r/emcascade/internal/photonfield"
	"github.com/wildstyl3r/emcascade/internal/rates"
	"github.com/wildstyl3r/emcascade/internal/thinning"
)

func buildFields(cfg config.Config) (map[string]photonfield.PhotonField, error) {
	fields := make(map[string]photonfield.PhotonField, len(cfg.Fields))
	for _, name := range cfg.FieldNames() {
		fp := cfg.Fields[name]
		var (
			f   photonfield.PhotonField
			err error
		)
		switch fp.Type {
		case "blackbody":
			f, err = photonfield.NewBlackbody(fp.Name, fp.Temperature)
		case "powerlaw":
			f, err = photonfield.NewPowerLaw(fp.Name, fp.EnergyMin, fp.EnergyMax, fp.Index, fp.Norm)
		case "tabular":
			f, err = photonfield.LoadTabular(cfg.DataDir, fp.Name, fp.RedshiftDependent)
		default:
			err = fmt.Errorf("%w: unknown field type %q", config.ErrInvalidConfig, fp.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		fields[name] = f
	}
	return fields, nil
}

func moduleConfig(mp config.ModuleParameters) (interaction.Config, error) {
	mode, err := thinning.ParseMode(mp.ThinningMode)
	if err != nil {
		return interaction.Config{}, err
	}
	policy, err := thinning.New(mp.Thinning, mode)
	if err != nil {
		return interaction.Config{}, err
	}
	return interaction.Config{
		Secondaries: mp.Secondaries,
		Thinning:    policy,
		Limit:       mp.Limit,
		Tag:         mp.Tag,
	}, nil
}

func tableGrid(g config.GridParameters) rates.Grid {
	return rates.Grid{
		EnergyMin:   g.EnergyMin,
		EnergyMax:   g.EnergyMax,
		NumEnergies: g.NumEnergies,
		NumS:        g.NumS,
		NumEps:      g.NumEps,
	}
}

// magneticField returns nil for a turbulent field given by Brms only.
func magneticField(mp config.ModuleParameters) magnetic.Field {
	switch {
	case len(mp.B) == 3:
		return magnetic.Uniform{B: r3.Vec{X: mp.B[0], Y: mp.B[1], Z: mp.B[2]}}
	case mp.BottleD > 0:
		return magnetic.NewBottle(mp.BottleScale, mp.BottleD, mp.BottleM)
	}
	return nil
}

func buildModule(name string, mp config.ModuleParameters, cfg config.Config, fields map[string]photonfield.PhotonField) (m interaction.Module, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("module %s: %w", name, err)
		}
	}()
	icfg, err := moduleConfig(mp)
	if err != nil {
		return nil, err
	}
	switch mp.Type {
	case "ics":
		if mp.Tables == "file" {
			return interaction.LoadInverseCompton(fields[mp.Field], cfg.DataDir, icfg)
		}
		return interaction.BuildInverseCompton(fields[mp.Field], tableGrid(cfg.Grid), icfg)
	case "dpp":
		if mp.Tables == "file" {
			return interaction.LoadDoublePair(fields[mp.Field], cfg.DataDir, icfg)
		}
		return interaction.BuildDoublePair(fields[mp.Field], tableGrid(cfg.Grid), icfg)
	case "synchrotron":
		return interaction.NewSynchrotron(interaction.SynchrotronConfig{
			Config:         icfg,
			Field:          magneticField(mp),
			Brms:           mp.Brms,
			Threshold:      mp.Threshold,
			MaximumSamples: mp.MaximumSamples,
		})
	}
	return nil, fmt.Errorf("%w: unknown module type %q", config.ErrInvalidConfig, mp.Type)
}
