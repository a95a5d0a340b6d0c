// Package thinning decides which secondaries are tracked and with what
// statistical weight, keeping ensemble averages unbiased.
package thinning

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("thinning: invalid configuration")

type Mode int

const (
	// Uniform keeps every secondary with probability 1-t.
	Uniform Mode = iota
	// EnergyFraction keeps a secondary carrying the energy fraction f with
	// probability f^t.
	EnergyFraction
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "uniform":
		return Uniform, nil
	case "energy", "fraction":
		return EnergyFraction, nil
	}
	return Uniform, fmt.Errorf("%w: unknown thinning mode %q", ErrInvalidConfig, s)
}

func (m Mode) String() string {
	if m == EnergyFraction {
		return "energy"
	}
	return "uniform"
}

// Policy is an immutable thinning setting.
type Policy struct {
	thinning float64
	mode     Mode
}

func New(thinning float64, mode Mode) (Policy, error) {
	if !(thinning >= 0 && thinning <= 1) {
		return Policy{}, fmt.Errorf("%w: thinning must be in [0,1], got %v", ErrInvalidConfig, thinning)
	}
	if mode != Uniform && mode != EnergyFraction {
		return Policy{}, fmt.Errorf("%w: unknown thinning mode %d", ErrInvalidConfig, mode)
	}
	return Policy{thinning: thinning, mode: mode}, nil
}

func (p Policy) Thinning() float64 { return p.thinning }

func (p Policy) Mode() Mode { return p.mode }

// Decide applies the policy to a secondary holding the energy fraction f of
// the interaction; f is ignored in Uniform mode. u is a uniform draw in [0,1).
func (p Policy) Decide(f, u float64) (keep bool, weight float64) {
	if p.mode == EnergyFraction {
		return Fractional(p.thinning, f, u)
	}
	return Decide(p.thinning, u)
}

// Decide keeps with probability 1-thinning and weight 1/(1-thinning).
// With thinning 0 everything is kept with weight 1, with thinning 1 nothing is.
func Decide(thinning, u float64) (keep bool, weight float64) {
	if thinning == 0 {
		return true, 1
	}
	survival := 1 - thinning
	if !(u < survival) {
		return false, 0
	}
	return true, 1 / survival
}

// Fractional keeps with probability f^thinning and weight f^-thinning.
func Fractional(thinning, f, u float64) (keep bool, weight float64) {
	if thinning == 0 {
		return true, 1
	}
	if !(f > 0) {
		return false, 0
	}
	survival := math.Pow(math.Min(f, 1), thinning)
	if !(u < survival) {
		return false, 0
	}
	return true, 1 / survival
}
