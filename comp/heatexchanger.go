// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comp

import (
	"math"

	"gopipes/fluid"
	"gopipes/pit"
)

// HeatExchangers are short branches exchanging a prescribed heat flow with
// the medium. Positive Qext heats the medium, negative cools it.
type HeatExchangers struct {

	// input
	From      []int     // [nele] from-junction
	To        []int     // [nele] to-junction
	D         []float64 // [nele] diameter [m]
	Qext      []float64 // [nele] exchanged heat flow [W]
	Zeta      []float64 // [nele] loss coefficient
	InService []bool    // [nele]

	// results
	ResMdot []float64 // mass flow [kg/s]
	ResTOut []float64 // outlet temperature [K]
}

// NewHeatExchanger returns a single heat exchanger
func NewHeatExchanger(from, to int, diameter, qext float64) *HeatExchangers {
	return &HeatExchangers{
		From:      []int{from},
		To:        []int{to},
		D:         []float64{diameter},
		Qext:      []float64{qext},
		Zeta:      []float64{0},
		InService: []bool{true},
	}
}

func (o *HeatExchangers) Name() string     { return "heat_exchanger" }
func (o *HeatExchangers) NumNodes() int    { return 0 }
func (o *HeatExchangers) NumBranches() int { return len(o.From) }

func (o *HeatExchangers) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// CreateBranchEntries fills one zero-length branch row per exchanger
func (o *HeatExchangers) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
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
		if o.InService[i] {
			row[pit.BranchActive] = 1
		}
		row[pit.BranchD] = o.D[i]
		row[pit.BranchArea] = math.Pi * o.D[i] * o.D[i] / 4.0
		row[pit.BranchZeta] = o.Zeta[i]
		row[pit.BranchQext] = o.Qext[i]
		row[pit.BranchMdot] = env.MdotInit
		row[pit.BranchTout] = p.Node[fr][pit.NodeT]
		row[pit.BranchText] = env.AmbientTemp
	}
	return nil
}

// ExtractResults reads mass flow and outlet temperature
func (o *HeatExchangers) ExtractResults(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	rng := tabs.Branches(o.Name())
	o.ResMdot = make([]float64, o.NumBranches())
	o.ResTOut = make([]float64, o.NumBranches())
	for i := 0; i < o.NumBranches(); i++ {
		o.ResMdot[i] = p.Branch[rng.A+i][pit.BranchMdot]
		o.ResTOut[i] = p.Branch[rng.A+i][pit.BranchTout]
	}
	return nil
}
