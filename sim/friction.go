// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// ln(10), for log10 derivatives
var ln10 = math.Log(10.0)

// reynolds computes the Reynolds number of a branch from the mass-flow
// magnitude, flooring |ṁ| at ZeroFlow so zero-flow branches stay finite
func reynolds(m, d, area, eta float64) float64 {
	mAbs := math.Abs(m)
	if mAbs < ZeroFlow {
		mAbs = ZeroFlow
	}
	return mAbs * d / (area * eta)
}

// dReDm returns dRe/dṁ (signed)
func dReDm(m, d, area, eta float64) float64 {
	der := d / (area * eta)
	if m < 0 {
		return -der
	}
	return der
}

// lambdaNikuradse computes the Nikuradse friction factor: the laminar term
// 64/Re (zero at zero Reynolds number) plus the turbulent roughness term,
// summed unconditionally. The missing laminar-turbulent regime switch is a
// known modeling approximation kept for compatibility.
func lambdaNikuradse(Re, d, k float64, gas bool) (lam float64) {
	if Re > ZeroFlow {
		lam = 64.0 / Re
	}
	if k > 0 {
		if gas {
			t := 2.0*math.Log10(d/k) + 1.14
			lam += 1.0 / (t * t)
		} else {
			t := -2.0 * math.Log10(k/(3.71*d))
			lam += 1.0 / (t * t)
		}
	}
	return
}

// derLambdaNikuradse returns dλ/dṁ for the Nikuradse model; only the
// laminar term depends on the mass flow
func derLambdaNikuradse(Re, m, d, area, eta float64) float64 {
	if Re <= ZeroFlow {
		return 0
	}
	return -64.0 / (Re * Re) * dReDm(m, d, area, eta)
}

// lambdaSwameeJain computes the Swamee-Jain closed-form approximation
func lambdaSwameeJain(Re, d, k float64) float64 {
	w := k/(3.7*d) + 5.74/math.Pow(Re, 0.9)
	l := math.Log10(w)
	return 0.25 / (l * l)
}

// colebrookResidual evaluates F(λ) = λ^{-1/2} + 2·log10(2.51/(Re·√λ) + k/(3.71·d))
// and its derivatives w.r.t. λ and Re
func colebrookResidual(lam, Re, d, k float64) (f, dfdlam, dfdre float64) {
	sq := math.Sqrt(lam)
	x := 2.51/(Re*sq) + k/(3.71*d)
	f = 1.0/sq + 2.0*math.Log10(x)
	dfdlam = -0.5*math.Pow(lam, -1.5) * (1.0 + 2.0*2.51/(ln10*x*Re))
	dfdre = -2.0 * 2.51 / (ln10 * x * Re * Re * sq)
	return
}

// lambdaColebrook solves the implicit Colebrook-White equation by Newton's
// method, seeded with the Nikuradse value. Returns the friction factor and
// dλ/dRe via implicit differentiation. Non-convergence within the iteration
// budget is a hard error.
func lambdaColebrook(seed, Re, d, k, tol float64, maxit int) (lam, dlamdre float64, err error) {
	lam = seed
	if lam < 1e-4 {
		lam = 1e-4
	}
	for it := 0; it < maxit; it++ {
		f, dfdlam, dfdre := colebrookResidual(lam, Re, d, k)
		dlam := f / dfdlam
		lam -= dlam
		if lam <= 0 {
			lam = 1e-6
		}
		if math.Abs(dlam) < tol {
			dlamdre = -dfdre / dfdlam
			return lam, dlamdre, nil
		}
	}
	return lam, 0, &NotConvergedError{Mode: "colebrook", Iterations: maxit, Residual: lam}
}

// calcFriction computes the friction factor λ and its analytic derivative
// dλ/dṁ for one branch, according to the selected model. Branches with zero
// length or (effectively) zero Reynolds number keep the Nikuradse value and
// are excluded from the Colebrook-White root finding.
func calcFriction(model string, m, L, d, k, area, eta float64, gas bool, cbTol float64, cbMaxit int) (Re, lam, dlamdm float64, err error) {
	Re = reynolds(m, d, area, eta)
	lam = lambdaNikuradse(Re, d, k, gas)
	dlamdm = derLambdaNikuradse(Re, m, d, area, eta)
	switch model {
	case FrictionNikuradse:
		// seed values are the result
	case FrictionSwameeJain:
		lam = lambdaSwameeJain(Re, d, k)
		w := k/(3.7*d) + 5.74/math.Pow(Re, 0.9)
		l := math.Log10(w)
		dwdre := -0.9 * 5.74 * math.Pow(Re, -1.9)
		dlamdre := -0.5 / (l * l * l) * dwdre / (w * ln10)
		dlamdm = dlamdre * dReDm(m, d, area, eta)
	case FrictionColebrook:
		if L <= 0 || math.Abs(m) <= ZeroFlow {
			return // keep the Nikuradse seed
		}
		var dlamdre float64
		lam, dlamdre, err = lambdaColebrook(lam, Re, d, k, cbTol, cbMaxit)
		if err != nil {
			return
		}
		dlamdm = dlamdre * dReDm(m, d, area, eta)
	default:
		err = chk.Err("unknown friction model %q", model)
	}
	return
}
