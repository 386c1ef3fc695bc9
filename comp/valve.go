// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comp

import (
	"math"

	"gopipes/fluid"
	"gopipes/pit"
)

// Valves are zero-length branches with a loss coefficient. Closed valves
// take their branch out of service, which makes the connectivity reduction
// excise everything only reachable through them.
type Valves struct {

	// input
	From   []int     // [nele] from-junction
	To     []int     // [nele] to-junction
	D      []float64 // [nele] diameter [m]
	Zeta   []float64 // [nele] loss coefficient
	Opened []bool    // [nele]

	// results
	ResMdot []float64 // mass flow [kg/s]
}

// NewValve returns a single valve
func NewValve(from, to int, diameter, zeta float64, opened bool) *Valves {
	return &Valves{
		From:   []int{from},
		To:     []int{to},
		D:      []float64{diameter},
		Zeta:   []float64{zeta},
		Opened: []bool{opened},
	}
}

func (o *Valves) Name() string     { return "valve" }
func (o *Valves) NumNodes() int    { return 0 }
func (o *Valves) NumBranches() int { return len(o.From) }

func (o *Valves) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// CreateBranchEntries fills one zero-length branch row per valve
func (o *Valves) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
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
		if o.Opened[i] {
			row[pit.BranchActive] = 1
		}
		row[pit.BranchD] = o.D[i]
		row[pit.BranchArea] = math.Pi * o.D[i] * o.D[i] / 4.0
		row[pit.BranchZeta] = o.Zeta[i]
		row[pit.BranchMdot] = env.MdotInit
		row[pit.BranchTout] = p.Node[fr][pit.NodeT]
		row[pit.BranchText] = env.AmbientTemp
	}
	return nil
}

// ExtractResults reads the solved mass flows
func (o *Valves) ExtractResults(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	rng := tabs.Branches(o.Name())
	o.ResMdot = make([]float64, o.NumBranches())
	for i := 0; i < o.NumBranches(); i++ {
		o.ResMdot[i] = p.Branch[rng.A+i][pit.BranchMdot]
	}
	return nil
}
