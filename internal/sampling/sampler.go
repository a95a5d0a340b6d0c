// Package sampling draws the energy of the background photon a nucleon
// interacts with, following the SOPHIA photo-pion cross section.
package sampling

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/wildstyl3r/emcascade/internal/constants"
	"github.com/wildstyl3r/emcascade/internal/utils"
)

var (
	ErrInvalidConfig  = errors.New("sampling: invalid configuration")
	ErrBelowThreshold = errors.New("sampling: nucleon below photo-pion threshold")
	ErrSamplingFailed = errors.New("sampling: iteration limit reached")
)

type Background int

const (
	// BackgroundCMB is a Planck spectrum at 2.73(1+z) K.
	BackgroundCMB Background = iota + 1
	// BackgroundTabular is a user spectrum given with WithSpectrum.
	BackgroundTabular
)

func (b Background) String() string {
	switch b {
	case BackgroundCMB:
		return "CMB"
	case BackgroundTabular:
		return "tabular"
	}
	return fmt.Sprintf("Background(%d)", int(b))
}

// Random is a uniform source in [0,1).
type Random interface {
	Float64() float64
}

const (
	// sTh is the squared threshold centre-of-mass energy [GeV^2]
	sTh              = 1.1646
	cmbTemperature   = 2.73 // [K]
	correctionFactor = 1.6
	quadraturePoints = 48
	// resonance region upper edge in s [GeV^2]
	sResonance = 4.0

	DefaultMaxIterations = 100000
)

// Sampler is read-only after construction and safe for concurrent use.
type Sampler struct {
	background    Background
	maxIterations int

	// tabular spectrum at z = 0: eps [eV], dn/deps [1/(eV cm^3)]
	eps     []float64
	density []float64
}

type Option func(*Sampler)

// WithSpectrum sets the z = 0 photon spectrum of BackgroundTabular:
// energies [eV] and number densities dn/deps [1/(eV cm^3)].
func WithSpectrum(eps, density []float64) Option {
	return func(s *Sampler) {
		s.eps = append([]float64(nil), eps...)
		s.density = append([]float64(nil), density...)
	}
}

func WithMaxIterations(n int) Option {
	return func(s *Sampler) { s.maxIterations = n }
}

func NewSampler(background Background, opts ...Option) (*Sampler, error) {
	s := &Sampler{background: background, maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxIterations <= 0 {
		return nil, fmt.Errorf("%w: iteration limit must be positive, got %d", ErrInvalidConfig, s.maxIterations)
	}
	switch background {
	case BackgroundCMB:
	case BackgroundTabular:
		if len(s.eps) < 2 || len(s.eps) != len(s.density) {
			return nil, fmt.Errorf("%w: tabular background needs matching spectrum columns of length >= 2", ErrInvalidConfig)
		}
		if !(s.eps[0] > 0) {
			return nil, fmt.Errorf("%w: spectrum energies must be positive", ErrInvalidConfig)
		}
		if i := utils.StrictlyIncreasing(s.eps); i >= 0 {
			return nil, fmt.Errorf("%w: spectrum energies not strictly increasing at index %d", ErrInvalidConfig, i)
		}
		for i, n := range s.density {
			if !(n >= 0) || math.IsInf(n, 0) {
				return nil, fmt.Errorf("%w: invalid spectral density %v at index %d", ErrInvalidConfig, n, i)
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown background %v", ErrInvalidConfig, background)
	}
	return s, nil
}

func (s *Sampler) Background() Background { return s.background }

// kT of the CMB at redshift z [eV]
func cmbKT(z float64) float64 {
	return constants.KBolzmann * cmbTemperature * (1 + z) / constants.ElectronVolt
}

// PhotonDensity is dn/deps [1/(eV cm^3)] at eps [eV] and redshift z.
func (s *Sampler) PhotonDensity(eps, z float64) float64 {
	if !(eps > 0) {
		return 0
	}
	if s.background == BackgroundCMB {
		// 8 pi / (hc)^3 with hc in eV cm
		hc := constants.HPlanck * constants.SpeedOfLight / constants.ElectronVolt * 100
		return 8 * math.Pi / (hc * hc * hc) * eps * eps / math.Expm1(eps/cmbKT(z))
	}
	zp := 1 + z
	return zp * zp * utils.LogLogInterpolate(eps/zp, s.eps, s.density)
}

// EpsRange is the support of the background at redshift z [eV].
func (s *Sampler) EpsRange(z float64) (epsMin, epsMax float64) {
	if s.background == BackgroundCMB {
		kT := cmbKT(z)
		return 1e-4 * kT, 30 * kT
	}
	return s.eps[0] * (1 + z), s.eps[len(s.eps)-1] * (1 + z)
}

// ProbEps is the interaction probability density of a nucleon of energy
// e [GeV] with a background photon of energy eps [eV], up to a constant.
func (s *Sampler) ProbEps(eps float64, onProton bool, e, z float64) float64 {
	m := nucleonMass(onProton)
	if !(e > m) || !(eps > 0) {
		return 0
	}
	p := math.Sqrt(e*e - m*m)
	sMax := m*m + 2*eps*(e+p)/1e9
	if sMax <= sTh {
		return 0
	}
	return s.PhotonDensity(eps, z) / eps / eps * integrateFuncts(sMax, onProton) / (8 * e * p)
}

func integrateFuncts(sMax float64, onProton bool) float64 {
	f := func(s float64) float64 { return Functs(s, onProton) }
	if sMax <= sResonance {
		return quad.Fixed(f, sTh, sMax, quadraturePoints, quad.Legendre{}, 0)
	}
	return quad.Fixed(f, sTh, sResonance, quadraturePoints, quad.Legendre{}, 0) +
		quad.Fixed(f, sResonance, sMax, quadraturePoints, quad.Legendre{}, 0)
}

// Limits returns the sampled photon energy range [eV] for a nucleon of
// energy e [GeV] at redshift z.
func (s *Sampler) Limits(onProton bool, e, z float64) (epsMin, epsMax float64, err error) {
	m := nucleonMass(onProton)
	if !(e > m) {
		return 0, 0, fmt.Errorf("%w: nucleon energy %v GeV not above its mass", ErrBelowThreshold, e)
	}
	p := math.Sqrt(e*e - m*m)
	bgMin, bgMax := s.EpsRange(z)
	epsMin = math.Max(bgMin, 1e9*(sTh-m*m)/(2*(e+p)))
	if epsMin >= bgMax {
		return 0, 0, fmt.Errorf("%w: needs photons above %v eV, background ends at %v eV", ErrBelowThreshold, epsMin, bgMax)
	}
	return epsMin, bgMax, nil
}

// envelope bounds eps * ProbEps over [epsMin, epsMax] in log10 eps.
func (s *Sampler) envelope(onProton bool, e, z, epsMin, epsMax float64) float64 {
	g := func(x float64) float64 {
		eps := math.Pow(10, x)
		return eps * s.ProbEps(eps, onProton, e, z)
	}
	lo, hi := math.Log10(epsMin), math.Log10(epsMax)
	step := math.Min(0.01, (hi-lo)/100)
	var best, bestX float64
	for x := lo; x <= hi; x += step {
		if v := g(x); v > best {
			best, bestX = v, x
		}
	}
	refined := utils.TernarySearchMaxF(g, math.Max(lo, bestX-step), math.Min(hi, bestX+step), step*1e-3)
	return math.Max(best, refined) * correctionFactor
}

// Sample draws a background photon energy [J] for a nucleon of energy [J]
// at redshift z. The nucleon is a proton if onProton, a neutron otherwise.
func (s *Sampler) Sample(onProton bool, energy, z float64, rng Random) (float64, error) {
	if !(z >= 0) || math.IsInf(z, 0) {
		return 0, fmt.Errorf("%w: redshift must be finite and non-negative, got %v", ErrInvalidConfig, z)
	}
	e := energy / constants.GeV
	epsMin, epsMax, err := s.Limits(onProton, e, z)
	if err != nil {
		return 0, err
	}
	gMax := s.envelope(onProton, e, z, epsMin, epsMax)
	if !(gMax > 0) {
		return 0, fmt.Errorf("%w: vanishing interaction probability at %v GeV", ErrBelowThreshold, e)
	}
	lo, hi := math.Log10(epsMin), math.Log10(epsMax)
	for range s.maxIterations {
		eps := math.Pow(10, lo+rng.Float64()*(hi-lo))
		if rng.Float64()*gMax < eps*s.ProbEps(eps, onProton, e, z) {
			return eps * constants.ElectronVolt, nil
		}
	}
	return 0, fmt.Errorf("%w: %d draws at %v GeV, z = %v", ErrSamplingFailed, s.maxIterations, e, z)
}
