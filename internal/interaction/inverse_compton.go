package interaction

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/wildstyl3r/emcascade/internal/candidate"
	"github.com/wildstyl3r/emcascade/internal/constants"
	"github.com/wildstyl3r/emcascade/internal/photonfield"
	"github.com/wildstyl3r/emcascade/internal/rates"
	"github.com/wildstyl3r/emcascade/internal/table"
)

// InverseCompton scatters electrons and positrons off background photons.
// The electron survives and hands part of its energy to an up-scattered
// photon.
type InverseCompton struct {
	field       photonfield.PhotonField
	rates       *table.RateTable
	sKin        *table.CDFTable
	secondaries *rates.ICSSecondaries
	cfg         Config
}

func NewInverseCompton(field photonfield.PhotonField, rt *table.RateTable, sKin *table.CDFTable, sec *rates.ICSSecondaries, cfg Config) (*InverseCompton, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if field == nil || rt == nil || sKin == nil || sec == nil {
		return nil, fmt.Errorf("%w: inverse Compton needs a field, a rate table and both distributions", ErrInvalidConfig)
	}
	cfg.Tag = cfg.tag("EMIC")
	return &InverseCompton{field: field, rates: rt, sKin: sKin, secondaries: sec, cfg: cfg}, nil
}

// BuildInverseCompton integrates the tables from the photon field.
func BuildInverseCompton(field photonfield.PhotonField, grid rates.Grid, cfg Config) (*InverseCompton, error) {
	rt, cdf, err := rates.Build(rates.InverseCompton, field, grid)
	if err != nil {
		return nil, err
	}
	if cdf == nil {
		return nil, fmt.Errorf("%w: no inverse Compton scattering on %s", rates.ErrNoInteraction, field.Name())
	}
	sec, err := rates.DefaultICSSecondaries()
	if err != nil {
		return nil, err
	}
	return NewInverseCompton(field, rt, cdf, sec, cfg)
}

// LoadInverseCompton reads rate_<field>.txt and cdf_<field>.txt from
// dir/EMInverseComptonScattering.
func LoadInverseCompton(field photonfield.PhotonField, dir string, cfg Config) (*InverseCompton, error) {
	base := filepath.Join(dir, "EMInverseComptonScattering")
	rt, err := table.ReadRateFile(filepath.Join(base, "rate_"+field.Name()+".txt"))
	if err != nil {
		return nil, err
	}
	cdf, err := table.ReadCDFFile(filepath.Join(base, "cdf_"+field.Name()+".txt"))
	if err != nil {
		return nil, err
	}
	sec, err := rates.DefaultICSSecondaries()
	if err != nil {
		return nil, err
	}
	return NewInverseCompton(field, rt, cdf, sec, cfg)
}

func (m *InverseCompton) Name() string { return "EMInverseComptonScattering" }

func (m *InverseCompton) Field() photonfield.PhotonField { return m.field }

func (m *InverseCompton) Rates() *table.RateTable { return m.rates }

func (m *InverseCompton) Distribution() *table.CDFTable { return m.sKin }

func (m *InverseCompton) Config() Config { return m.cfg }

// InteractionRate is the rate [1/m] of an electron of energy [J] at
// redshift z.
func (m *InverseCompton) InteractionRate(energy, z float64) float64 {
	zp := 1 + z
	return m.rates.Rate(energy*zp) * zp * zp * m.field.RedshiftScaling(z)
}

// InteractionProbability is the chance of at least one scattering within a
// comoving step [m].
func (m *InverseCompton) InteractionProbability(energy, z, step float64) float64 {
	return table.InteractionProbability(m.InteractionRate(energy, z), step/(1+z))
}

func (m *InverseCompton) Process(c *candidate.Candidate, rng Random) {
	if c.ID != candidate.Electron && c.ID != candidate.Positron {
		return
	}
	z := c.Redshift
	step := c.CurrentStep / (1 + z)
	for step > 0 {
		rate := m.InteractionRate(c.Energy, z)
		if !(rate > 0) || math.IsInf(rate, 0) {
			return
		}
		d := randomDistance(rate, rng)
		if step < d {
			c.LimitNextStep(m.cfg.Limit / rate)
			return
		}
		m.interact(c, rng)
		step -= d
	}
}

func (m *InverseCompton) interact(c *candidate.Candidate, rng Random) {
	zp := 1 + c.Redshift
	E := c.Energy * zp
	s := m.sKin.Sample(E, rng.Float64()) + constants.ElectronRestEnergy2
	eNew := m.secondaries.Sample(E, s, rng.Float64())
	eGamma := E - eNew

	if m.cfg.Secondaries && eGamma > 0 {
		if keep, w := m.cfg.Thinning.Decide(eGamma/E, rng.Float64()); keep {
			pos := c.RandomInterpolatedPosition(rng.Float64())
			c.AddSecondary(candidate.Photon, eGamma/zp, pos, w, m.cfg.Tag)
		}
	}
	c.SetEnergy(eNew / zp)
}
