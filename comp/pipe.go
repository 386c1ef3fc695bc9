// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comp

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"gopipes/fluid"
	"gopipes/pit"
)

// Pipes holds pipe segments. One branch row per pipe; diameter and area are
// kept consistent here (area = π d²/4) and components must not set one
// without the other.
type Pipes struct {

	// input
	From      []int     // [nele] from-junction
	To        []int     // [nele] to-junction
	Length    []float64 // [nele] length [m]
	D         []float64 // [nele] diameter [m]
	K         []float64 // [nele] absolute roughness [m]
	Zeta      []float64 // [nele] additional loss coefficient
	Alpha     []float64 // [nele] heat transfer coefficient [W/(m²K)]
	Text      []float64 // [nele] external temperature [K]; 0 => ambient
	Qext      []float64 // [nele] external heat input [W]
	InService []bool    // [nele]

	// results
	ResMdot   []float64 // mass flow [kg/s]
	ResVMean  []float64 // mean velocity [m/s]
	ResPFrom  []float64 // pressure at from-junction [bar]
	ResPTo    []float64 // pressure at to-junction [bar]
	ResTFrom  []float64 // temperature at from-junction [K]
	ResTOut   []float64 // branch outlet temperature [K]
	ResRe     []float64 // Reynolds number
	ResLambda []float64 // friction factor
}

// NewPipes allocates n pipes with the given uniform geometry
func NewPipes(n int, length, diameter, roughness float64) (o *Pipes) {
	o = new(Pipes)
	o.From = make([]int, n)
	o.To = make([]int, n)
	o.Length = make([]float64, n)
	o.D = make([]float64, n)
	o.K = make([]float64, n)
	o.Zeta = make([]float64, n)
	o.Alpha = make([]float64, n)
	o.Text = make([]float64, n)
	o.Qext = make([]float64, n)
	o.InService = make([]bool, n)
	for i := 0; i < n; i++ {
		o.Length[i] = length
		o.D[i] = diameter
		o.K[i] = roughness
		o.InService[i] = true
	}
	return
}

func (o *Pipes) Name() string     { return "pipe" }
func (o *Pipes) NumNodes() int    { return 0 }
func (o *Pipes) NumBranches() int { return len(o.From) }

func (o *Pipes) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// CreateBranchEntries fills one branch row per pipe
func (o *Pipes) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	chk.IntAssert(len(o.To), len(o.From))
	rng := tabs.Branches(o.Name())
	num := float64(tabs.Num(o.Name()))
	for i := 0; i < o.NumBranches(); i++ {
		fr := jrow(tabs, o.From[i])
		to := jrow(tabs, o.To[i])
		row := p.Branch[rng.A+i]
		row[pit.BranchTable] = num
		row[pit.BranchElement] = float64(i)
		row[pit.BranchFrom] = float64(fr)
		row[pit.BranchTo] = float64(to)
		row[pit.BranchType] = pit.BranchPlain
		if o.InService[i] {
			row[pit.BranchActive] = 1
		}
		row[pit.BranchLength] = o.Length[i]
		row[pit.BranchD] = o.D[i]
		row[pit.BranchArea] = math.Pi * o.D[i] * o.D[i] / 4.0
		row[pit.BranchK] = o.K[i]
		row[pit.BranchZeta] = o.Zeta[i]
		row[pit.BranchMdot] = env.MdotInit
		row[pit.BranchTout] = p.Node[fr][pit.NodeT]
		row[pit.BranchAlpha] = o.Alpha[i]
		if o.Text[i] > 0 {
			row[pit.BranchText] = o.Text[i]
		} else {
			row[pit.BranchText] = env.AmbientTemp
		}
		row[pit.BranchQext] = o.Qext[i]
	}
	return nil
}

// ExtractResults reads solved flows, pressures and friction data
func (o *Pipes) ExtractResults(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	rng := tabs.Branches(o.Name())
	n := o.NumBranches()
	o.ResMdot = make([]float64, n)
	o.ResVMean = make([]float64, n)
	o.ResPFrom = make([]float64, n)
	o.ResPTo = make([]float64, n)
	o.ResTFrom = make([]float64, n)
	o.ResTOut = make([]float64, n)
	o.ResRe = make([]float64, n)
	o.ResLambda = make([]float64, n)
	for i := 0; i < n; i++ {
		row := p.Branch[rng.A+i]
		fr := int(row[pit.BranchFrom])
		to := int(row[pit.BranchTo])
		o.ResMdot[i] = row[pit.BranchMdot]
		o.ResPFrom[i] = p.Node[fr][pit.NodeP]
		o.ResPTo[i] = p.Node[to][pit.NodeP]
		o.ResTFrom[i] = p.Node[fr][pit.NodeT]
		o.ResTOut[i] = row[pit.BranchTout]
		o.ResRe[i] = row[pit.BranchRe]
		o.ResLambda[i] = row[pit.BranchLambda]
		rho := row[pit.BranchRho]
		if rho > 0 {
			o.ResVMean[i] = row[pit.BranchMdot] / (rho * row[pit.BranchArea])
		} else {
			o.ResVMean[i] = math.NaN()
		}
	}
	return nil
}
