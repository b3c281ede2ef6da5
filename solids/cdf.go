// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solids

import "math"

// normalCDF approximates the standard normal cumulative distribution
// function using the Abramowitz-Stegun rational approximation (formula
// 26.2.17), accurate to within 7.5e-8. Avoids pulling in a statistics
// dependency for a single closed-form evaluation used by the deposition
// kinetics below.
func normalCDF(y float64) float64 {
	const (
		b1 = 0.319381530
		b2 = -0.356563782
		b3 = 1.781477937
		b4 = -1.821255978
		b5 = 1.330274429
		p  = 0.2316419
	)
	neg := y < 0
	if neg {
		y = -y
	}
	t := 1 / (1 + p*y)
	poly := t * (b1 + t*(b2+t*(b3+t*(b4+t*b5))))
	pdf := math.Exp(-y*y/2) / math.Sqrt(2*math.Pi)
	cdf := 1 - pdf*poly
	if neg {
		return 1 - cdf
	}
	return cdf
}

// gesslerSigma and partheniadesSigma are the standard deviations of the
// deposition probability kernel for cohesionless (Gessler) and cohesive
// (Partheniades) classes (spec §4.5 "deposition").
const (
	gesslerSigma     = 0.57
	partheniadesSigma = 0.49
)

// PDeposition returns the probability that solids class cl deposits under
// bed shear stress tau (spec §4.5 "deposition kinetics"):
//   - cohesionless (Gessler): p = Phi( (tau_cd/tau - 1) / sigma )
//   - cohesive (Partheniades): p = Phi( ln(0.25*(tau/tau_cd - 1)*exp(1.27*tau_cd)) / sigma ),
//     saturating to 1 whenever tau <= tau_cd.
func PDeposition(cl Class, tau float64) float64 {
	if tau <= 0 {
		return 1
	}
	if !cl.Cohesive {
		y := (cl.CritShearDep/tau - 1) / gesslerSigma
		return normalCDF(y)
	}
	if tau <= cl.CritShearDep {
		return 1
	}
	arg := 0.25 * (tau/cl.CritShearDep - 1) * math.Exp(1.27*cl.CritShearDep)
	if arg <= 0 {
		return 1
	}
	y := math.Log(arg) / partheniadesSigma
	return normalCDF(y)
}
