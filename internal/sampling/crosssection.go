package sampling

import "math"

// SOPHIA resonance parameters, proton set then neutron set.
var (
	amres = [18]float64{
		1.231, 1.440, 1.515, 1.525, 1.675, 1.680, 1.690, 1.895, 1.950,
		1.231, 1.440, 1.515, 1.525, 1.675, 1.675, 1.690, 1.895, 1.950,
	}
	bgamma = [18]float64{
		5.6, 0.5, 4.6, 2.5, 1.0, 2.1, 2.0, 0.2, 1.0,
		6.1, 0.3, 4.0, 2.5, 0.0, 0.2, 2.0, 0.2, 1.0,
	}
	width = [18]float64{
		0.11, 0.35, 0.11, 0.1, 0.16, 0.125, 0.29, 0.35, 0.3,
		0.11, 0.35, 0.11, 0.1, 0.16, 0.150, 0.29, 0.35, 0.3,
	}
	ratioj = [18]float64{
		1., 0.5, 1., 0.5, 0.5, 1.5, 1., 1.5, 2.,
		1., 0.5, 1., 0.5, 0.5, 1.5, 1., 1.5, 2.,
	}
	// squared nucleon masses [GeV^2], neutron then proton
	am2 = [2]float64{0.882792, 0.880351}
)

// pion production threshold in the nucleon rest frame [GeV]
const epsThreshold = 0.152

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nucleonMass [GeV]
func nucleonMass(onProton bool) float64 {
	return math.Sqrt(am2[boolIndex(onProton)])
}

// CrossSection is the total photon-nucleon cross section [μb] at photon
// energy epsPrime [GeV] in the nucleon rest frame.
func CrossSection(epsPrime float64, onProton bool) float64 {
	if epsPrime < epsThreshold {
		return 0
	}
	m := nucleonMass(onProton)
	s := m*m + 2*m*epsPrime
	idx := 9
	if onProton {
		idx = 0
	}

	var res, dir float64
	if epsPrime <= 10 {
		for i := range 9 {
			sig0 := 4.893089117 / am2[boolIndex(onProton)] * ratioj[i+idx] * bgamma[i+idx]
			shape := Ef(epsPrime, epsThreshold, 0.38)
			if i == 0 {
				shape = Ef(epsPrime, epsThreshold, 0.17)
			}
			res += BreitWigner(sig0, width[i+idx], amres[i+idx], epsPrime, onProton) * shape
		}
		// single pion
		dir = 92.7 * Pl(epsPrime, .152, .25, 2)
		if epsPrime > 0.1 && epsPrime < 0.6 {
			dir += 40*math.Exp(-(epsPrime-0.29)*(epsPrime-0.29)/0.002) -
				15*math.Exp(-(epsPrime-0.37)*(epsPrime-0.37)/0.002)
		}
		// double pion
		dir += 37.7 * Pl(epsPrime, .4, .6, 2)
	}

	frag2 := 60.2
	if onProton {
		frag2 = 80.3
	}
	frag2 *= Ef(epsPrime, .5, .1) * math.Pow(s, -.34)

	var multidiff float64
	if epsPrime > .85 {
		ss1 := (epsPrime - .85) / .69
		ss2 := 26.4
		if onProton {
			ss2 = 29.3
		}
		ss2 = ss2*math.Pow(s, -.34) + 59.3*math.Pow(s, .095)
		multidiff = (1 - math.Exp(-ss1)) * ss2
		multi := .89 * multidiff
		diffr := .11 * multidiff

		ss1 = math.Pow(epsPrime-.85, .75) / .64
		ss2 = 74.1*math.Pow(epsPrime, -.44) + 62*math.Pow(s, .08)
		tmp := .96 * (1 - math.Exp(-ss1)) * ss2
		diffr1 := .14 * tmp
		diffr2 := .013 * tmp
		delta := frag2 - (diffr1 + diffr2 - diffr)
		if delta < 0 {
			frag2 = 0
			multi += delta
		} else {
			frag2 = delta
		}
		multidiff = multi + diffr1 + diffr2
	}
	return res + dir + multidiff + frag2
}

// BreitWigner is a resonance of peak cross section sigma0, width and mass
// [GeV] at photon energy epsPrime [GeV].
func BreitWigner(sigma0, width, mass, epsPrime float64, onProton bool) float64 {
	m := nucleonMass(onProton)
	s := m*m + 2*m*epsPrime
	gam2s := width * width * s
	d := s - mass*mass
	return sigma0 * (s / epsPrime / epsPrime) * gam2s / (d*d + gam2s)
}

// Pl rises from 0 at xth as a power law, peaks at xmax and falls off as
// x^-alpha.
func Pl(x, xth, xmax, alpha float64) float64 {
	if x <= xth {
		return 0
	}
	a := alpha * xmax / xth
	return math.Pow((x-xth)/(xmax-xth), a-alpha) * math.Pow(x/xmax, -a)
}

// Ef turns on linearly from 0 at th to 1 at th+w.
func Ef(x, th, w float64) float64 {
	switch {
	case x <= th:
		return 0
	case x < th+w:
		return (x - th) / w
	default:
		return 1
	}
}

// Functs is (s - m^2) σ(ε') with ε' = (s - m^2)/2m, s in GeV^2.
func Functs(s float64, onProton bool) float64 {
	m := nucleonMass(onProton)
	factor := s - m*m
	return factor * CrossSection(factor/2/m, onProton)
}
