// Package interaction applies electromagnetic interactions to candidates
// over one propagation step.
package interaction

import (
	"errors"
	"fmt"
	"math"

	"github.com/wildstyl3r/emcascade/internal/candidate"
	"github.com/wildstyl3r/emcascade/internal/thinning"
)

var ErrInvalidConfig = errors.New("interaction: invalid configuration")

// Random is a uniform source in [0,1). *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// Module acts on a candidate over its current step. Modules keep no
// mutable state, so one module may serve many goroutines as long as each
// brings its own Random.
type Module interface {
	Name() string
	Process(c *candidate.Candidate, rng Random)
}

// Config is shared by all modules.
type Config struct {
	// Secondaries enables the creation of secondary particles.
	Secondaries bool
	Thinning    thinning.Policy
	// Limit is the fraction of the mean free path, or of the energy loss
	// length, the next step may span.
	Limit float64
	// Tag marks the secondaries created by the module.
	Tag string
}

const DefaultLimit = 0.1

func (c Config) validate() error {
	if !(c.Limit > 0 && c.Limit <= 1) {
		return fmt.Errorf("%w: step limit must be in (0,1], got %v", ErrInvalidConfig, c.Limit)
	}
	if t := c.Thinning.Thinning(); !(t >= 0 && t <= 1) {
		return fmt.Errorf("%w: thinning must be in [0,1], got %v", ErrInvalidConfig, t)
	}
	return nil
}

func (c Config) tag(fallback string) string {
	if c.Tag == "" {
		return fallback
	}
	return c.Tag
}

// randomDistance draws a free path for the given rate.
func randomDistance(rate float64, rng Random) float64 {
	return -math.Log1p(-rng.Float64()) / rate
}
