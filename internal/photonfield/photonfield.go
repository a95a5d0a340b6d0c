// Package photonfield provides the diffuse background photon fields that
// electrons and photons interact with.
package photonfield

import "errors"

var ErrInvalidConfig = errors.New("photonfield: invalid configuration")

// PhotonField is a comoving photon number density provider.
type PhotonField interface {
	Name() string
	// HasRedshiftDependence reports whether Density itself varies with z.
	// When false, callers apply RedshiftScaling to densities at z = 0.
	HasRedshiftDependence() bool
	// Density returns the comoving density eps*dn/deps [1/m^3] at photon
	// energy ePhoton [J].
	Density(ePhoton, z float64) float64
	// RedshiftScaling is the overall comoving scaling factor relative to z = 0.
	RedshiftScaling(z float64) float64
	// MinimumEnergy and MaximumEnergy bound the support of the field [J].
	MinimumEnergy() float64
	MaximumEnergy() float64
}
