// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package water

import (
	"math"

	"github.com/cpmech/gosl/num"
)

// gaCumulative is bound to one implicitInfiltrationRate call: it solves the implicit
// Mein-Larson cumulative Green-Ampt equation
//
//	(F1 - F0) - Kh*dt - PsiF*ThetaDefic*ln((F1+PsiF*ThetaDefic)/(F0+PsiF*ThetaDefic)) = 0
//
// for the cumulative infiltration F1 at the end of the step, instead of the
// explicit point-rate approximation infiltrationRate uses (spec §4.4 item 3
// "Green-Ampt infiltration"), grounded on the teacher's num.NlSolver usage in
// ana.PressCylin.Calc_c.
type gaCumulative struct {
	soil   SoilType
	f0, dt float64
}

func (g gaCumulative) residual(fx, X []float64) error {
	F1 := X[0]
	psiTheta := g.soil.PsiF * g.soil.ThetaDefic
	fx[0] = (F1 - g.f0) - g.soil.Kh*g.dt - psiTheta*math.Log((F1+psiTheta)/(g.f0+psiTheta))
	return nil
}

func (g gaCumulative) jacobian(dfdx [][]float64, X []float64) error {
	F1 := X[0]
	psiTheta := g.soil.PsiF * g.soil.ThetaDefic
	dfdx[0][0] = 1.0 - psiTheta/(F1+psiTheta)
	return nil
}

// implicitInfiltrationRate returns the average infiltration rate over [0,dt]
// implied by the implicit cumulative Green-Ampt solution, falling back to
// the explicit infiltrationRate estimate as the solver's initial guess and
// as the answer outright when there is no capillary suction term to make
// the equation genuinely implicit (PsiF or ThetaDefic zero).
func implicitInfiltrationRate(soil SoilType, F, h, dt float64) float64 {
	explicit := infiltrationRate(soil, F, h, dt)
	if soil.PsiF <= 0 || soil.ThetaDefic <= 0 || dt <= 0 {
		return explicit
	}
	f0 := F
	if f0 <= 0 {
		f0 = 1e-6
	}

	g := gaCumulative{soil: soil, f0: f0, dt: dt}
	var nls num.NlSolver
	defer nls.Clean()
	nls.Init(1, g.residual, nil, g.jacobian, true, false, nil)
	X := []float64{f0 + explicit*dt}
	if err := nls.Solve(X, true); err != nil {
		return explicit
	}
	F1 := X[0]
	if F1 < f0 {
		F1 = f0
	}
	rate := (F1 - f0) / dt
	maxFromDepth := h / dt
	if rate > maxFromDepth {
		rate = maxFromDepth
	}
	if rate < 0 {
		rate = 0
	}
	return rate
}
