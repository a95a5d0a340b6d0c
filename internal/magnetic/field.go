// Package magnetic provides magnetic field values along a trajectory.
package magnetic

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// mu0 / 4 pi [T m / A]
const mu0Over4Pi = 1e-7

type Field interface {
	// FieldAt returns the field [T] at position [m] and redshift z.
	FieldAt(pos r3.Vec, z float64) r3.Vec
}

type Uniform struct {
	B r3.Vec
}

func (u Uniform) FieldAt(r3.Vec, float64) r3.Vec { return u.B }

// Bottle is the field of two identical dipoles of moment M [A m^2] along
// the z axis, placed at (0, 0, +-D), multiplied by Scale.
type Bottle struct {
	Scale float64
	D     float64 // [m]
	M     float64 // [A m^2]
}

func NewBottle(scale, d, m float64) Bottle {
	return Bottle{Scale: scale, D: d, M: m}
}

func (b Bottle) FieldAt(pos r3.Vec, _ float64) r3.Vec {
	moment := r3.Vec{Z: b.M}
	upper := dipole(r3.Sub(pos, r3.Vec{Z: b.D}), moment)
	lower := dipole(r3.Sub(pos, r3.Vec{Z: -b.D}), moment)
	return r3.Scale(b.Scale, r3.Add(upper, lower))
}

// dipole field at offset r from a point dipole m; zero at the dipole itself.
func dipole(r, m r3.Vec) r3.Vec {
	d := r3.Norm(r)
	if d == 0 {
		return r3.Vec{}
	}
	n := r3.Scale(1/d, r)
	radial := r3.Scale(3*r3.Dot(m, n), n)
	return r3.Scale(mu0Over4Pi/(d*d*d), r3.Sub(radial, m))
}

// Perpendicular is |B x dir|.
func Perpendicular(b, dir r3.Vec) float64 {
	return r3.Norm(r3.Cross(b, dir))
}

// RMSPerpendicular is the mean perpendicular component sqrt(2/3) Brms of an
// isotropic turbulent field.
func RMSPerpendicular(brms float64) float64 {
	return math.Sqrt(2./3) * brms
}
