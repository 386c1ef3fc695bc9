// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"gopipes/fluid"
	"gopipes/pit"
)

// meanPressure returns the cubic-mean pressure of a branch and its
// derivatives w.r.t. the two end pressures. For (nearly) equal ends the
// cubic mean degenerates to the end value itself.
func meanPressure(pf, pt float64) (pm, dpmdpf, dpmdpt float64) {
	if math.Abs(pf-pt) < 1e-12 {
		return pf, 0.5, 0.5
	}
	num := pf*pf*pf - pt*pt*pt
	den := pf*pf - pt*pt
	pm = 2.0 / 3.0 * num / den
	dpmdpf = 2.0 / 3.0 * (3.0*pf*pf*den - 2.0*pf*num) / (den * den)
	dpmdpt = 2.0 / 3.0 * (-3.0*pt*pt*den + 2.0*pt*num) / (den * den)
	return
}

// gasDensity returns the compressible density at pm [bar abs] and Tm [K],
// with z, z' and dρ/dpm
func gasDensity(med *fluid.Medium, pm, tm float64) (rho, z, dz, drhodpm float64) {
	z = med.Compressibility(pm)
	dz = med.DerCompressibility()
	rhoN := med.Density(fluid.NormTemp)
	fac := rhoN * fluid.NormTemp / (fluid.NormPressure * tm)
	rho = fac * pm / z
	drhodpm = fac * (z - pm*dz) / (z * z)
	return
}

// calcDerivativesHyd fills the Jacobian and load columns of all active
// branches from the current pressure/flow state. The branch residual is
//
//	F = p_f − p_t + Δp_lift + ρ g (h_f − h_t)/PConv − fr·ṁ|ṁ|
//
// with fr = (λL/D + ζ)/(2 ρ A² PConv). For gas media the density is
// evaluated at the cubic-mean absolute pressure, which couples fr to the
// end pressures.
func calcDerivativesHyd(act *pit.Active, med *fluid.Medium, opts *Options) error {
	for _, row := range act.Branch {
		fr := int(row[pit.BranchFrom])
		to := int(row[pit.BranchTo])
		nf := act.Node[fr]
		nt := act.Node[to]

		m := row[pit.BranchMdot]
		L := row[pit.BranchLength]
		d := row[pit.BranchD]
		area := row[pit.BranchArea]
		zeta := row[pit.BranchZeta]
		k := row[pit.BranchK]
		tm := 0.5 * (nf[pit.NodeT] + nt[pit.NodeT])

		eta := med.Viscosity(tm)
		cp := med.HeatCapacity(tm)

		// density and its pressure sensitivity
		var rho, drhodpm, dpmdpf, dpmdpt float64
		row[pit.BranchCompr] = 1
		row[pit.BranchDCompr] = 0
		if med.Gas {
			pfAbs := nf[pit.NodeP] + nf[pit.NodePAmb]
			ptAbs := nt[pit.NodeP] + nt[pit.NodePAmb]
			var pm, z, dz float64
			pm, dpmdpf, dpmdpt = meanPressure(pfAbs, ptAbs)
			rho, z, dz, drhodpm = gasDensity(med, pm, tm)
			row[pit.BranchCompr] = z
			row[pit.BranchDCompr] = dz
		} else {
			rho = med.Density(tm)
		}

		// friction; dimensionless control branches stay frictionless and
		// get their rows rewritten by their component afterwards
		var Re, lam, dlamdm, cf, dcfdm float64
		if d > 0 && area > 0 {
			var err error
			Re, lam, dlamdm, err = calcFriction(opts.FrictionModel, m, L, d, k, area, eta, med.Gas,
				opts.ColebrookTol, opts.ColebrookMaxIter)
			if err != nil {
				return err
			}
			den := 2.0 * rho * area * area * PConv
			cf = (lam*L/d + zeta) / den
			dcfdm = (dlamdm * L / d) / den
		}
		height := rho * Grav * (nf[pit.NodeHeight] - nt[pit.NodeHeight]) / PConv
		mAbs := math.Abs(m)
		F := nf[pit.NodeP] - nt[pit.NodeP] + row[pit.BranchPLift] + height - cf*m*mAbs

		// derivatives
		dFdm := -dcfdm*m*mAbs - 2.0*cf*mAbs
		dFdpf := 1.0
		dFdpt := -1.0
		if med.Gas {
			// fr and the height term track the mean-pressure density
			dcfdpm := -cf / rho * drhodpm
			dhdpm := Grav * (nf[pit.NodeHeight] - nt[pit.NodeHeight]) / PConv * drhodpm
			dFdpf += (dhdpm - dcfdpm*m*mAbs) * dpmdpf
			dFdpt += (dhdpm - dcfdpm*m*mAbs) * dpmdpt
		}

		row[pit.BranchRe] = Re
		row[pit.BranchLambda] = lam
		row[pit.BranchRho] = rho
		row[pit.BranchEta] = eta
		row[pit.BranchCp] = cp
		row[pit.BranchJacDm] = dFdm
		row[pit.BranchJacDpf] = dFdpf
		row[pit.BranchJacDpt] = dFdpt
		row[pit.BranchJacDmNode] = 1
		row[pit.BranchLoad] = F
	}
	return nil
}
