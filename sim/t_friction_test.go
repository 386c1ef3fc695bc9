// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_friction01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("friction01. laminar Nikuradse and its derivative")

	// Re = m d / (A η)
	d := 0.05
	area := math.Pi * d * d / 4.0
	eta := 1.0e-3
	m := 1000.0 * area * eta / d // Re = 1000
	Re, lam, dlamdm, err := calcFriction(FrictionNikuradse, m, 100, d, 0, area, eta, false, 1e-7, 100)
	if err != nil {
		tst.Fatalf("calcFriction failed:\n%v", err)
	}
	chk.Float64(tst, "Re", 1e-10, Re, 1000)
	chk.Float64(tst, "lambda = 64/Re", 1e-12, lam, 0.064)

	// compare the analytic derivative against central differences
	h := 1e-8
	_, lp, _, _ := calcFriction(FrictionNikuradse, m+h, 100, d, 0, area, eta, false, 1e-7, 100)
	_, lm, _, _ := calcFriction(FrictionNikuradse, m-h, 100, d, 0, area, eta, false, 1e-7, 100)
	chk.Float64(tst, "dlam/dm", 1e-4, dlamdm, (lp-lm)/(2*h))

	// rough wall adds the turbulent term
	k := 1e-4
	_, lamk, _, _ := calcFriction(FrictionNikuradse, m, 100, d, k, area, eta, false, 1e-7, 100)
	t := -2.0 * math.Log10(k/(3.71*d))
	chk.Float64(tst, "lambda with roughness", 1e-12, lamk, 0.064+1.0/(t*t))
}

func Test_friction02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("friction02. Colebrook-White against Swamee-Jain")

	d := 0.1
	area := math.Pi * d * d / 4.0
	eta := 1.0e-3
	k := 1e-4
	m := 1.0e5 * area * eta / d // Re = 1e5

	Re, lamCB, dlamCB, err := calcFriction(FrictionColebrook, m, 100, d, k, area, eta, false, 1e-10, 100)
	if err != nil {
		tst.Fatalf("Colebrook did not converge:\n%v", err)
	}
	chk.Float64(tst, "Re", 1e-6, Re, 1e5)

	// the converged value satisfies the implicit equation
	f, _, _ := colebrookResidual(lamCB, Re, d, k)
	chk.Float64(tst, "residual at root", 1e-8, f, 0)

	// Swamee-Jain approximates Colebrook-White within a few percent
	_, lamSJ, dlamSJ, err := calcFriction(FrictionSwameeJain, m, 100, d, k, area, eta, false, 1e-10, 100)
	if err != nil {
		tst.Fatalf("Swamee-Jain failed:\n%v", err)
	}
	if math.Abs(lamSJ-lamCB)/lamCB > 0.05 {
		tst.Fatalf("Swamee-Jain %g deviates more than 5%% from Colebrook-White %g", lamSJ, lamCB)
	}

	// both derivatives must at least agree in sign (λ falls with rising Re)
	if dlamCB >= 0 || dlamSJ >= 0 {
		tst.Fatalf("turbulent friction must fall with rising flow: dCB=%g dSJ=%g", dlamCB, dlamSJ)
	}

	// derivative against central differences
	h := m * 1e-6
	_, lp, _, _ := calcFriction(FrictionSwameeJain, m+h, 100, d, k, area, eta, false, 1e-10, 100)
	_, lm, _, _ := calcFriction(FrictionSwameeJain, m-h, 100, d, k, area, eta, false, 1e-10, 100)
	chk.Float64(tst, "SJ dlam/dm", 1e-6, dlamSJ, (lp-lm)/(2*h))
}

func Test_friction03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("friction03. zero flow and zero length stay finite")

	d := 0.05
	area := math.Pi * d * d / 4.0
	eta := 1.0e-3

	// stagnant branch: the Reynolds floor keeps λ finite
	Re, lam, _, err := calcFriction(FrictionNikuradse, 0, 100, d, 1e-4, area, eta, false, 1e-7, 100)
	if err != nil {
		tst.Fatalf("calcFriction failed:\n%v", err)
	}
	if math.IsNaN(lam) || math.IsInf(lam, 0) {
		tst.Fatalf("stagnant branch produced non-finite lambda %v", lam)
	}
	if Re <= 0 {
		tst.Fatalf("floored Reynolds number must stay positive: %v", Re)
	}

	// stagnant and zero-length branches skip the Colebrook-White iteration
	_, lamSeed, _, _ := calcFriction(FrictionNikuradse, 0, 100, d, 1e-4, area, eta, false, 1e-7, 100)
	_, lamCB, _, err := calcFriction(FrictionColebrook, 0, 100, d, 1e-4, area, eta, false, 1e-7, 100)
	if err != nil {
		tst.Fatalf("calcFriction failed:\n%v", err)
	}
	chk.Float64(tst, "stagnant keeps seed", 1e-17, lamCB, lamSeed)
	_, lamL0, _, err := calcFriction(FrictionColebrook, 0.5, 0, d, 1e-4, area, eta, false, 1e-7, 100)
	if err != nil {
		tst.Fatalf("calcFriction failed:\n%v", err)
	}
	_, seedL0, _, _ := calcFriction(FrictionNikuradse, 0.5, 0, d, 1e-4, area, eta, false, 1e-7, 100)
	chk.Float64(tst, "zero length keeps seed", 1e-17, lamL0, seedL0)

	// gas networks use the alternative turbulent expression
	_, lamGas, _, _ := calcFriction(FrictionNikuradse, 0, 100, d, 1e-4, area, eta, true, 1e-7, 100)
	t := 2.0*math.Log10(d/1e-4) + 1.14
	chk.Float64(tst, "gas turbulent term", 1e-6, lamGas-64.0/Re, 1.0/(t*t))
}
