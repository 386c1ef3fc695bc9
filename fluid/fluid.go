// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fluid implements models for fluid properties consumed by the
// derivative engine: density, viscosity, heat capacity and compressibility,
// all deterministic pure functions of pressure/temperature
package fluid

import (
	"github.com/cpmech/gosl/chk"
)

// reference (normal) conditions
const (
	NormPressure = 1.01325 // [bar] absolute pressure at normal conditions
	NormTemp     = 273.15  // [K] temperature at normal conditions
)

// Prop is a property linear in temperature:
//   value(T) = V0 + C·(T - T0)
type Prop struct {
	V0 float64 // value at reference temperature T0
	T0 float64 // reference temperature [K]
	C  float64 // temperature coefficient
}

// At computes the property value at temperature T
func (o Prop) At(T float64) float64 {
	return o.V0 + o.C*(T-o.T0)
}

// Medium holds the property model of one fluid. For gases Density refers to
// normal conditions; the solver scales it to the actual mean pressure and
// temperature via the compressibility factor. The compressibility model is
//   z(p) = 1 + Zc·p   thus   dz/dp = Zc
type Medium struct {
	Name      string
	Gas       bool    // gas instead of liquid
	MolarMass float64 // [kg/mol]; zero when unknown
	Rho       Prop    // density [kg/m³]; at normal pressure for gases
	Eta       Prop    // dynamic viscosity [Pa·s]
	Cp        Prop    // heat capacity [J/(kg·K)]
	Zc        float64 // compressibility coefficient [1/bar]
}

// Density returns the density at temperature T (normal density for gases)
func (o *Medium) Density(T float64) float64 { return o.Rho.At(T) }

// Viscosity returns the dynamic viscosity at temperature T
func (o *Medium) Viscosity(T float64) float64 { return o.Eta.At(T) }

// HeatCapacity returns the isobaric heat capacity at temperature T
func (o *Medium) HeatCapacity(T float64) float64 { return o.Cp.At(T) }

// Compressibility returns the compressibility factor at absolute pressure p [bar]
func (o *Medium) Compressibility(p float64) float64 { return 1.0 + o.Zc*p }

// DerCompressibility returns dz/dp [1/bar]
func (o *Medium) DerCompressibility() float64 { return o.Zc }

// Water returns liquid water
func Water() *Medium {
	return &Medium{
		Name:      "water",
		MolarMass: 0.01802,
		Rho:       Prop{998.2, 293.15, -0.37},
		Eta:       Prop{1.0e-3, 293.15, -1.08e-5},
		Cp:        Prop{4182.0, 293.15, 0},
	}
}

// Air returns dry air
func Air() *Medium {
	return &Medium{
		Name:      "air",
		Gas:       true,
		MolarMass: 0.02896,
		Rho:       Prop{1.292, NormTemp, -4.73e-3},
		Eta:       Prop{1.72e-5, NormTemp, 4.8e-8},
		Cp:        Prop{1006.0, NormTemp, 0},
		Zc:        0,
	}
}

// Methane returns methane gas
func Methane() *Medium {
	return &Medium{
		Name:      "methane",
		Gas:       true,
		MolarMass: 0.01604,
		Rho:       Prop{0.717, NormTemp, -2.62e-3},
		Eta:       Prop{1.02e-5, NormTemp, 3.1e-8},
		Cp:        Prop{2190.0, NormTemp, 0},
		Zc:        -2.5e-3,
	}
}

// Mix premixes media by mass fraction into one effective medium. The solver
// always sees a single medium; compound fluids are realized here. Fractions
// must sum to one and all constituents must share the phase.
func Mix(name string, media []*Medium, fractions []float64) *Medium {
	chk.IntAssert(len(media), len(fractions))
	if len(media) < 1 {
		chk.Panic("cannot mix empty media list")
	}
	var sum float64
	for _, x := range fractions {
		sum += x
	}
	if sum < 1.0-1e-9 || sum > 1.0+1e-9 {
		chk.Panic("mass fractions must sum to one. sum = %g is invalid", sum)
	}
	out := &Medium{Name: name, Gas: media[0].Gas}
	var invMM float64
	for i, m := range media {
		if m.Gas != out.Gas {
			chk.Panic("cannot mix gas and liquid media (%q)", m.Name)
		}
		x := fractions[i]
		out.Rho.V0 += x * m.Rho.V0
		out.Rho.C += x * m.Rho.C
		out.Eta.V0 += x * m.Eta.V0
		out.Eta.C += x * m.Eta.C
		out.Cp.V0 += x * m.Cp.V0
		out.Cp.C += x * m.Cp.C
		out.Zc += x * m.Zc
		if m.MolarMass > 0 {
			invMM += x / m.MolarMass
		}
	}
	out.Rho.T0 = media[0].Rho.T0
	out.Eta.T0 = media[0].Eta.T0
	out.Cp.T0 = media[0].Cp.T0
	if invMM > 0 {
		out.MolarMass = 1.0 / invMM
	}
	return out
}
