package config

import (
	"github.com/wildstyl3r/emcascade/internal/constants"
	"github.com/wildstyl3r/emcascade/internal/utils"
)

var unitToSI = map[string]float64{
	"J":   1,                         // [J]
	"eV":  constants.ElectronVolt,    // [J]
	"keV": 1e3 * constants.ElectronVolt,
	"MeV": 1e6 * constants.ElectronVolt,
	"GeV": constants.GeV,
	"TeV": 1e12 * constants.ElectronVolt,
	"PeV": 1e15 * constants.ElectronVolt,
	"EeV": 1e18 * constants.ElectronVolt,
	"m":   1,                // [m]
	"km":  1e3,              // [m]
	"pc":  constants.Parsec, // [m]
	"kpc": 1e3 * constants.Parsec,
	"Mpc": constants.Mpc,
	"T":   1,               // [T]
	"G":   constants.Gauss, // [T]
	"muG": 1e-6 * constants.Gauss,
	"nG":  constants.NanoGauss,
}

type UnitClass int

const (
	Length UnitClass = iota
	Energy
	MagneticField
)

var unitsInClass = map[UnitClass][]string{
	Length:        {"m", "km", "pc", "kpc", "Mpc"},
	Energy:        {"J", "eV", "keV", "MeV", "GeV", "TeV", "PeV", "EeV"},
	MagneticField: {"T", "G", "muG", "nG"},
}

var classesOfUnits = func() map[string]UnitClass {
	m := map[string]UnitClass{}
	for class, units := range unitsInClass {
		for _, u := range units {
			m[u] = class
		}
	}
	return m
}()

type UnitElement = struct {
	Class UnitClass
	Power int
}

var defaultUnits = []string{"eV", "Mpc", "nG"}

// checkUnits completes units with defaults for missing classes and reports
// unknown units and repeated classes as conflicts.
func checkUnits(units []string) (extended, conflicts []string) {
	classes := map[UnitClass]struct{}{}
	for _, unit := range units {
		class, known := classesOfUnits[unit]
		if !known {
			conflicts = append(conflicts, unit)
			continue
		}
		if _, some := classes[class]; some {
			conflicts = append(conflicts, unit)
		} else {
			classes[class] = struct{}{}
		}
	}
	extended = append([]string(nil), units...)
	for _, unit := range defaultUnits {
		if _, some := classes[classesOfUnits[unit]]; !some {
			extended = append(extended, unit)
		}
	}
	return
}

// SI converts v given in units to SI when direct, and from SI otherwise.
func SI(v float64, classes []UnitElement, units []string, direct bool) float64 {
	for i := range classes {
		uc := classes[i]
		unit := utils.Intersect(unitsInClass[uc.Class], units)
		if unit == nil {
			continue
		}
		absPower := utils.IntAbs(uc.Power)
		if direct == (uc.Power > 0) {
			for range absPower {
				v *= unitToSI[*unit]
			}
		} else {
			for range absPower {
				v /= unitToSI[*unit]
			}
		}
	}
	return v
}

// UnitName returns the unit of class selected in units.
func UnitName(class UnitClass, units []string) string {
	if unit := utils.Intersect(unitsInClass[class], units); unit != nil {
		return *unit
	}
	return ""
}
