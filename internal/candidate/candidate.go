// Package candidate holds the particle state the interaction modules act on.
package candidate

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wildstyl3r/emcascade/internal/constants"
)

// PDG particle codes
const (
	Electron = 11
	Positron = -11
	Photon   = 22
	Proton   = 1000010010
	Neutron  = 1000000010
)

// Secondary is a particle created during an interaction.
type Secondary struct {
	ID       int
	Energy   float64 // [J]
	Position r3.Vec
	Weight   float64
	Tag      string
}

type Candidate struct {
	ID       int
	Energy   float64 // [J]
	Redshift float64
	Weight   float64

	Position         r3.Vec // [m]
	PreviousPosition r3.Vec
	Direction        r3.Vec // unit vector

	CurrentStep float64 // [m]
	NextStep    float64

	Active      bool
	Secondaries []Secondary
}

// New returns an active candidate with weight 1 and no step limit. A zero or
// non-finite direction is replaced by the x axis.
func New(id int, energy float64, position, direction r3.Vec) *Candidate {
	return &Candidate{
		ID:               id,
		Energy:           energy,
		Weight:           1,
		Position:         position,
		PreviousPosition: position,
		Direction:        unitDirection(direction),
		NextStep:         math.Inf(1),
		Active:           true,
	}
}

func unitDirection(d r3.Vec) r3.Vec {
	n := r3.Norm(d)
	if !(n > 0) || math.IsInf(n, 0) {
		return r3.Vec{X: 1}
	}
	return r3.Scale(1/n, d)
}

func (c *Candidate) SetEnergy(energy float64) { c.Energy = energy }

func (c *Candidate) MultiplyWeight(w float64) { c.Weight *= w }

func (c *Candidate) SetActive(active bool) { c.Active = active }

// LimitNextStep lowers the next step to at most step.
func (c *Candidate) LimitNextStep(step float64) {
	c.NextStep = math.Min(c.NextStep, step)
}

// AddSecondary records a secondary. Its weight is relative to the parent's.
func (c *Candidate) AddSecondary(id int, energy float64, position r3.Vec, weight float64, tag string) {
	c.Secondaries = append(c.Secondaries, Secondary{
		ID:       id,
		Energy:   energy,
		Position: position,
		Weight:   c.Weight * weight,
		Tag:      tag,
	})
}

// Step moves the candidate along its direction.
func (c *Candidate) Step(length float64) {
	c.PreviousPosition = c.Position
	c.Position = r3.Add(c.Position, r3.Scale(length, c.Direction))
	c.CurrentStep = length
	c.NextStep = math.Inf(1)
}

// RandomInterpolatedPosition is a point on the last step at fraction u.
func (c *Candidate) RandomInterpolatedPosition(u float64) r3.Vec {
	return r3.Add(c.PreviousPosition, r3.Scale(u, r3.Sub(c.Position, c.PreviousPosition)))
}

// Charge [C]
func (c *Candidate) Charge() float64 {
	switch c.ID {
	case Electron:
		return -constants.ElectronCharge
	case Positron, Proton:
		return constants.ElectronCharge
	}
	return 0
}

// Mass [kg]
func (c *Candidate) Mass() float64 {
	switch c.ID {
	case Electron, Positron:
		return constants.ElectornMass
	case Proton:
		return constants.ProtonMass
	case Neutron:
		return constants.NeutronMass
	}
	return 0
}

func (c *Candidate) LorentzFactor() float64 {
	m := c.Mass()
	if m == 0 {
		return math.Inf(1)
	}
	return c.Energy / (m * constants.CSquared)
}

// Momentum is |p| [kg m/s].
func (c *Candidate) Momentum() float64 {
	mc2 := c.Mass() * constants.CSquared
	if c.Energy <= mc2 {
		return 0
	}
	return math.Sqrt(c.Energy*c.Energy-mc2*mc2) / constants.SpeedOfLight
}

// TotalSecondaryEnergy is the weighted energy carried by the secondaries.
func (c *Candidate) TotalSecondaryEnergy() float64 {
	var sum float64
	for _, s := range c.Secondaries {
		sum += s.Energy * s.Weight
	}
	return sum
}
