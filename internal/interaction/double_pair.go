package interaction

import (
	"fmt"
	"path/filepath"

	"github.com/wildstyl3r/emcascade/internal/candidate"
	"github.com/wildstyl3r/emcascade/internal/constants"
	"github.com/wildstyl3r/emcascade/internal/photonfield"
	"github.com/wildstyl3r/emcascade/internal/rates"
	"github.com/wildstyl3r/emcascade/internal/table"
)

// DoublePair converts a photon into an electron-positron pair, gamma gamma
// -> e+ e- e+ e-, of which the leading pair is tracked.
type DoublePair struct {
	field photonfield.PhotonField
	rates *table.RateTable
	cfg   Config
}

func NewDoublePair(field photonfield.PhotonField, rt *table.RateTable, cfg Config) (*DoublePair, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if field == nil || rt == nil {
		return nil, fmt.Errorf("%w: double pair production needs a field and a rate table", ErrInvalidConfig)
	}
	cfg.Tag = cfg.tag("EMDP")
	return &DoublePair{field: field, rates: rt, cfg: cfg}, nil
}

func BuildDoublePair(field photonfield.PhotonField, grid rates.Grid, cfg Config) (*DoublePair, error) {
	rt, err := rates.BuildRateTable(rates.DoublePairProduction, field, grid)
	if err != nil {
		return nil, err
	}
	return NewDoublePair(field, rt, cfg)
}

// LoadDoublePair reads dir/EMDoublePairProduction/rate_<field>.txt.
func LoadDoublePair(field photonfield.PhotonField, dir string, cfg Config) (*DoublePair, error) {
	rt, err := table.ReadRateFile(filepath.Join(dir, "EMDoublePairProduction", "rate_"+field.Name()+".txt"))
	if err != nil {
		return nil, err
	}
	return NewDoublePair(field, rt, cfg)
}

func (m *DoublePair) Name() string { return "EMDoublePairProduction" }

func (m *DoublePair) Field() photonfield.PhotonField { return m.field }

func (m *DoublePair) Rates() *table.RateTable { return m.rates }

func (m *DoublePair) Config() Config { return m.cfg }

func (m *DoublePair) InteractionRate(energy, z float64) float64 {
	zp := 1 + z
	return m.rates.Rate(energy*zp) * zp * zp * m.field.RedshiftScaling(z)
}

// InteractionProbability is the chance that a photon of energy [J] at
// redshift z converts within a comoving step [m].
func (m *DoublePair) InteractionProbability(energy, z, step float64) float64 {
	return table.InteractionProbability(m.InteractionRate(energy, z), step)
}

func (m *DoublePair) Process(c *candidate.Candidate, rng Random) {
	if c.ID != candidate.Photon {
		return
	}
	rate := m.InteractionRate(c.Energy, c.Redshift)
	p := table.InteractionProbability(rate, c.CurrentStep)
	if !(p > 0) {
		return
	}
	if !(rng.Float64() < p) {
		c.LimitNextStep(m.cfg.Limit / rate)
		return
	}
	m.interact(c, rng)
}

func (m *DoublePair) interact(c *candidate.Candidate, rng Random) {
	c.SetActive(false)
	if !m.cfg.Secondaries {
		return
	}
	zp := 1 + c.Redshift
	E := c.Energy * zp
	ee := (E - 2*constants.ElectronRestEnergy) / 2
	if !(ee > 0) {
		return
	}
	f := ee / E
	pos := c.RandomInterpolatedPosition(rng.Float64())
	if keep, w := m.cfg.Thinning.Decide(1-f, rng.Float64()); keep {
		c.AddSecondary(candidate.Electron, ee/zp, pos, w, m.cfg.Tag)
	}
	if keep, w := m.cfg.Thinning.Decide(f, rng.Float64()); keep {
		c.AddSecondary(candidate.Positron, ee/zp, pos, w, m.cfg.Tag)
	}
}
