// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_fluid01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fluid01. water properties")

	w := Water()
	chk.Float64(tst, "rho @ 293.15", 1e-12, w.Density(293.15), 998.2)
	chk.Float64(tst, "rho @ 353.15", 1e-12, w.Density(353.15), 998.2-0.37*60)
	chk.Float64(tst, "cp constant", 1e-12, w.HeatCapacity(300), w.HeatCapacity(350))
	chk.Float64(tst, "z == 1 for liquid", 1e-15, w.Compressibility(5), 1.0)
	chk.Float64(tst, "dzdp == 0 for liquid", 1e-15, w.DerCompressibility(), 0)
	if w.Gas {
		tst.Errorf("water must not be a gas")
	}
}

func Test_fluid02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fluid02. methane compressibility")

	g := Methane()
	if !g.Gas {
		tst.Errorf("methane must be a gas")
	}
	chk.Float64(tst, "rho_N", 1e-12, g.Density(NormTemp), 0.717)
	chk.Float64(tst, "z @ 0 bar", 1e-15, g.Compressibility(0), 1.0)
	chk.Float64(tst, "z @ 20 bar", 1e-15, g.Compressibility(20), 1.0+g.Zc*20)
	chk.Float64(tst, "dzdp", 1e-15, g.DerCompressibility(), g.Zc)
}

func Test_fluid03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fluid03. premixed media")

	mix := Mix("airch4", []*Medium{Air(), Methane()}, []float64{0.5, 0.5})
	chk.Float64(tst, "rho mixes", 1e-12, mix.Density(NormTemp), 0.5*1.292+0.5*0.717)
	chk.Float64(tst, "zc mixes", 1e-15, mix.Zc, 0.5*0+0.5*(-2.5e-3))

	// harmonic mean of molar masses by mass fraction
	correct := 1.0 / (0.5/0.02896 + 0.5/0.01604)
	chk.Float64(tst, "molar mass", 1e-15, mix.MolarMass, correct)

	// bad fractions must fail fast
	defer func() {
		if recover() == nil {
			tst.Errorf("fractions not summing to one must panic")
		}
	}()
	Mix("bad", []*Medium{Air()}, []float64{0.9})
}
