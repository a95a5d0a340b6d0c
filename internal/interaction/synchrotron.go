package interaction

import (
	"fmt"
	"math"

	"github.com/wildstyl3r/emcascade/internal/candidate"
	"github.com/wildstyl3r/emcascade/internal/constants"
	"github.com/wildstyl3r/emcascade/internal/magnetic"
	"github.com/wildstyl3r/emcascade/internal/rates"
	"github.com/wildstyl3r/emcascade/internal/table"
	"github.com/wildstyl3r/emcascade/internal/utils"
)

// SynchrotronConfig adds the field and photon sampling settings.
type SynchrotronConfig struct {
	Config
	// Field, if set, takes precedence over Brms.
	Field magnetic.Field
	// Brms is the RMS strength [T] of an isotropic turbulent field.
	Brms float64
	// Threshold is the minimum photon energy [J] to create.
	Threshold float64
	// MaximumSamples caps the photons created per step, 0 for no cap.
	MaximumSamples int
}

const spectrumPoints = 801

type Synchrotron struct {
	cfg      SynchrotronConfig
	spectrum table.Distribution
}

func NewSynchrotron(cfg SynchrotronConfig) (*Synchrotron, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.MaximumSamples < 0 {
		return nil, fmt.Errorf("%w: maximum samples must not be negative, got %d", ErrInvalidConfig, cfg.MaximumSamples)
	}
	if !(cfg.Brms >= 0) || math.IsInf(cfg.Brms, 0) {
		return nil, fmt.Errorf("%w: invalid Brms %v", ErrInvalidConfig, cfg.Brms)
	}
	if !(cfg.Threshold >= 0) {
		return nil, fmt.Errorf("%w: invalid photon threshold %v", ErrInvalidConfig, cfg.Threshold)
	}
	spectrum, err := rates.SynchrotronSpectrum(spectrumPoints)
	if err != nil {
		return nil, err
	}
	cfg.Tag = cfg.tag("SYN")
	return &Synchrotron{cfg: cfg, spectrum: spectrum}, nil
}

// DefaultSynchrotronThreshold is 1 MeV.
var DefaultSynchrotronThreshold = utils.EV2J(1e6)

func (m *Synchrotron) Name() string { return "SynchrotronRadiation" }

func (m *Synchrotron) Config() SynchrotronConfig { return m.cfg }

// PerpendicularField is the field [T] bending the candidate, including the
// (1+z)^2 cosmological scaling.
func (m *Synchrotron) PerpendicularField(c *candidate.Candidate) float64 {
	var b float64
	if m.cfg.Field != nil {
		b = magnetic.Perpendicular(m.cfg.Field.FieldAt(c.Position, c.Redshift), c.Direction)
	} else {
		b = magnetic.RMSPerpendicular(m.cfg.Brms)
	}
	zp := 1 + c.Redshift
	return b * zp * zp
}

// EnergyLoss returns dE/dx [J/m] and the gyroradius [m] of the candidate.
func (m *Synchrotron) EnergyLoss(c *candidate.Candidate) (dEdx, rg float64) {
	q := math.Abs(c.Charge())
	b := m.PerpendicularField(c)
	p := c.Momentum()
	if q == 0 || !(b > 0) || !(p > 0) {
		return 0, math.Inf(1)
	}
	rg = p / (q * b)
	g2 := c.LorentzFactor()
	g2 *= g2
	qr := q / rg
	return (g2 - 1) * (g2 - 1) * qr * qr / (6 * math.Pi * constants.FreeSpacePermittivityE0), rg
}

// CriticalEnergy is 3/(4 pi) h c gamma^3 / Rg [J].
func CriticalEnergy(lorentzFactor, rg float64) float64 {
	return 3 / (4 * math.Pi) * constants.HPlanck * constants.SpeedOfLight * lorentzFactor * lorentzFactor * lorentzFactor / rg
}

func (m *Synchrotron) Process(c *candidate.Candidate, rng Random) {
	if c.Charge() == 0 {
		return
	}
	dEdx, rg := m.EnergyLoss(c)
	if !(dEdx > 0) {
		return
	}
	step := c.CurrentStep / (1 + c.Redshift)
	dE := step * dEdx
	E := c.Energy
	gamma := c.LorentzFactor()
	c.SetEnergy(math.Max(E-dE, 0))
	c.LimitNextStep(m.cfg.Limit * E / dEdx)
	if c.Energy == 0 {
		c.SetActive(false)
	}

	if !m.cfg.Secondaries || !(dE > 0) {
		return
	}
	eCrit := CriticalEnergy(gamma, rg)
	if 14*eCrit < m.cfg.Threshold {
		return
	}
	m.emit(c, rng, E, dE, eCrit)
}

// emit draws photons until the loss dE0 is used up. With a sample cap k,
// a uniform reservoir of k photons above threshold is instantiated instead
// of all n of them, each carrying weight n/k.
func (m *Synchrotron) emit(c *candidate.Candidate, rng Random, E, dE0, eCrit float64) {
	k := m.cfg.MaximumSamples
	var reservoir []float64
	var n int
	dE := dE0
	for dE > 0 {
		ePhoton := m.spectrum.Sample(rng.Float64()) * eCrit
		if ePhoton > dE && rng.Float64() > dE/ePhoton {
			break
		}
		dE -= ePhoton
		if ePhoton <= m.cfg.Threshold {
			continue
		}
		n++
		switch {
		case k == 0:
			m.addPhoton(c, rng, ePhoton, E, 1)
		case n <= k:
			reservoir = append(reservoir, ePhoton)
		default:
			if j := int(rng.Float64() * float64(n)); j < k {
				reservoir[j] = ePhoton
			}
		}
	}
	if len(reservoir) == 0 {
		return
	}
	w := float64(n) / float64(len(reservoir))
	for _, e := range reservoir {
		m.addPhoton(c, rng, e, E, w)
	}
}

func (m *Synchrotron) addPhoton(c *candidate.Candidate, rng Random, ePhoton, E, w float64) {
	keep, tw := m.cfg.Thinning.Decide(ePhoton/E, rng.Float64())
	if !keep {
		return
	}
	c.AddSecondary(candidate.Photon, ePhoton, c.RandomInterpolatedPosition(rng.Float64()), w*tw, m.cfg.Tag)
}
