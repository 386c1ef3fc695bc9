// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comp

import (
	"math"

	"github.com/cpmech/gosl/io"

	"gopipes/fluid"
	"gopipes/pit"
)

// universal gas constant [J/(mol·K)]
const gasConstant = 8.314462618

// Compressors are zero-length branches lifting the absolute pressure by a
// fixed ratio. The lift is recomputed from the current from-node pressure
// before every derivative computation; the heat pass sees the matching
// isentropic temperature rise. Compression power is computed during result
// extraction when requested and the medium carries a molar mass.
type Compressors struct {

	// input
	From  []int     // [nele] from-junction (suction)
	To    []int     // [nele] to-junction (discharge)
	D     []float64 // [nele] nominal diameter [m]
	Ratio []float64 // [nele] absolute pressure ratio [-]

	// results
	ResMdot  []float64 // mass flow [kg/s]
	ResPower []float64 // compression power [W]; NaN when not computed
}

// side array columns: 0 = compression power, 1 = realized pressure ratio
const ncolCompressorArray = 2

// NewCompressor returns a single compressor
func NewCompressor(from, to int, diameter, ratio float64) *Compressors {
	return &Compressors{
		From:  []int{from},
		To:    []int{to},
		D:     []float64{diameter},
		Ratio: []float64{ratio},
	}
}

func (o *Compressors) Name() string     { return "compressor" }
func (o *Compressors) NumNodes() int    { return 0 }
func (o *Compressors) NumBranches() int { return len(o.From) }

// CreateArray allocates the per-network state array
func (o *Compressors) CreateArray(tabs *pit.Tables) {
	a := tabs.NewArray(o.Name(), o.NumBranches(), ncolCompressorArray)
	for i := 0; i < o.NumBranches(); i++ {
		a[i][0] = math.NaN()
		a[i][1] = o.Ratio[i]
	}
}

func (o *Compressors) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// CreateBranchEntries fills one frictionless branch row per compressor
func (o *Compressors) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	rng := tabs.Branches(o.Name())
	num := float64(tabs.Num(o.Name()))
	for i := 0; i < o.NumBranches(); i++ {
		fr := jrow(tabs, o.From[i])
		row := p.Branch[rng.A+i]
		row[pit.BranchTable] = num
		row[pit.BranchElement] = float64(i)
		row[pit.BranchFrom] = float64(fr)
		row[pit.BranchTo] = float64(jrow(tabs, o.To[i]))
		row[pit.BranchType] = pit.BranchPlain
		row[pit.BranchActive] = 1
		row[pit.BranchD] = o.D[i]
		row[pit.BranchArea] = math.Pi * o.D[i] * o.D[i] / 4.0
		row[pit.BranchMdot] = env.MdotInit
		row[pit.BranchTout] = p.Node[fr][pit.NodeT]
		row[pit.BranchText] = env.AmbientTemp
	}
	return nil
}

// AdaptBeforeDerivativesHyd recomputes the lift from the current suction
// pressure: Δp = (ratio−1)·p_abs_from. Reads the from-node row other
// components may have updated this iteration.
func (o *Compressors) AdaptBeforeDerivativesHyd(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	for _, j := range act.BranchRows(tabs.Branches(o.Name())) {
		row := act.Branch[j]
		i := int(row[pit.BranchElement])
		fr := int(row[pit.BranchFrom])
		pabs := act.Node[fr][pit.NodeP] + act.Node[fr][pit.NodePAmb]
		row[pit.BranchPLift] = (o.Ratio[i] - 1.0) * pabs
	}
	return nil
}

func (o *Compressors) AdaptAfterDerivativesHyd(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// AdaptBeforeDerivativesTherm sets the temperature lift to the isentropic
// discharge temperature rise ΔT = T_in·(ratio^{(κ−1)/κ} − 1) at the current
// flow-corrected inlet. A medium without molar mass keeps a zero lift.
func (o *Compressors) AdaptBeforeDerivativesTherm(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	if med.MolarMass <= 0 {
		return nil
	}
	for _, j := range act.BranchRows(tabs.Branches(o.Name())) {
		row := act.Branch[j]
		in := int(row[pit.BranchFrom])
		if row[pit.BranchSwitch] == 1 {
			in = int(row[pit.BranchTo])
		}
		tin := act.Node[in][pit.NodeT]
		cp := med.HeatCapacity(tin)
		rs := gasConstant / med.MolarMass
		kappa := cp / (cp - rs)
		ex := (kappa - 1.0) / kappa
		i := int(row[pit.BranchElement])
		row[pit.BranchTLift] = tin * (math.Pow(o.Ratio[i], ex) - 1.0)
	}
	return nil
}

func (o *Compressors) AdaptAfterDerivativesTherm(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// ExtractResults reads mass flows and, when requested, computes isentropic
// compression power. A missing molar mass skips the computation with a
// warning instead of failing the whole invocation.
func (o *Compressors) ExtractResults(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	rng := tabs.Branches(o.Name())
	a := tabs.Array(o.Name())
	n := o.NumBranches()
	o.ResMdot = make([]float64, n)
	o.ResPower = make([]float64, n)
	for i := 0; i < n; i++ {
		row := p.Branch[rng.A+i]
		o.ResMdot[i] = row[pit.BranchMdot]
		o.ResPower[i] = math.NaN()
		if !env.CalcComprPower {
			continue
		}
		if med.MolarMass <= 0 {
			io.Pfyel("compression power for %q requires the medium's molar mass; skipping\n", o.Name())
			continue
		}
		fr := int(row[pit.BranchFrom])
		tin := p.Node[fr][pit.NodeT]
		cp := med.HeatCapacity(tin)
		rs := gasConstant / med.MolarMass // specific gas constant [J/(kg·K)]
		kappa := cp / (cp - rs)
		ex := (kappa - 1.0) / kappa
		power := math.Abs(row[pit.BranchMdot]) * cp * tin * (math.Pow(o.Ratio[i], ex) - 1.0)
		o.ResPower[i] = power
		a[i][0] = power
		a[i][1] = o.Ratio[i]
	}
	return nil
}
