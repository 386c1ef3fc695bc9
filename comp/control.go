// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comp

import (
	"math"

	"gopipes/fluid"
	"gopipes/pit"
)

// PressureControls are branches regulating the pressure of their to-junction
// to a set value. The controlled junction gets an identity row like a slack
// node; the controlling branch carries the pressure-control branch type so
// the matrix builder replaces its pressure-loss equation with the controlled
// node's mass balance.
type PressureControls struct {

	// input
	From []int     // [nele] from-junction
	To   []int     // [nele] controlled junction
	PSet []float64 // [nele] controlled pressure [bar gauge]

	// results
	ResMdot []float64 // mass flow through the control [kg/s]
}

// NewPressureControl returns a single pressure control
func NewPressureControl(from, to int, pset float64) *PressureControls {
	return &PressureControls{From: []int{from}, To: []int{to}, PSet: []float64{pset}}
}

func (o *PressureControls) Name() string     { return "press_control" }
func (o *PressureControls) NumNodes() int    { return 0 }
func (o *PressureControls) NumBranches() int { return len(o.From) }

// CreateNodeEntries marks the controlled junctions
func (o *PressureControls) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	for i, j := range o.To {
		row := p.Node[jrow(tabs, j)]
		row[pit.NodeTypeP] = pit.NodeControlled
		row[pit.NodeP] = o.PSet[i]
	}
	return nil
}

// CreateBranchEntries fills one pressure-control branch row per element
func (o *PressureControls) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	rng := tabs.Branches(o.Name())
	num := float64(tabs.Num(o.Name()))
	for i := 0; i < o.NumBranches(); i++ {
		fr := jrow(tabs, o.From[i])
		row := p.Branch[rng.A+i]
		row[pit.BranchTable] = num
		row[pit.BranchElement] = float64(i)
		row[pit.BranchFrom] = float64(fr)
		row[pit.BranchTo] = float64(jrow(tabs, o.To[i]))
		row[pit.BranchType] = pit.BranchPressCtrl
		row[pit.BranchActive] = 1
		row[pit.BranchMdot] = env.MdotInit
		row[pit.BranchTout] = p.Node[fr][pit.NodeT]
		row[pit.BranchText] = env.AmbientTemp
	}
	return nil
}

// ExtractResults reads the solved mass flows
func (o *PressureControls) ExtractResults(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	rng := tabs.Branches(o.Name())
	o.ResMdot = make([]float64, o.NumBranches())
	for i := 0; i < o.NumBranches(); i++ {
		o.ResMdot[i] = p.Branch[rng.A+i][pit.BranchMdot]
	}
	return nil
}

// FlowControls pin the mass flow of their branch to a set value by
// overriding the branch Jacobian row after the derivative computation.
// Per-network state lives in the component side array, never in package
// or type level variables.
type FlowControls struct {

	// input
	From []int     // [nele] from-junction
	To   []int     // [nele] to-junction
	Mdot []float64 // [nele] controlled mass flow [kg/s]

	// results
	ResPFrom []float64 // pressure before the control [bar]
	ResPTo   []float64 // pressure after the control [bar]
}

// side array columns: 0 = target flow, 1 = last solved flow
const ncolFlowControlArray = 2

// NewFlowControl returns a single flow control
func NewFlowControl(from, to int, mdot float64) *FlowControls {
	return &FlowControls{From: []int{from}, To: []int{to}, Mdot: []float64{mdot}}
}

func (o *FlowControls) Name() string     { return "flow_control" }
func (o *FlowControls) NumNodes() int    { return 0 }
func (o *FlowControls) NumBranches() int { return len(o.From) }

// CreateArray allocates the per-network state array
func (o *FlowControls) CreateArray(tabs *pit.Tables) {
	a := tabs.NewArray(o.Name(), o.NumBranches(), ncolFlowControlArray)
	for i := 0; i < o.NumBranches(); i++ {
		a[i][0] = o.Mdot[i]
		a[i][1] = math.NaN()
	}
}

func (o *FlowControls) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// CreateBranchEntries fills one branch row per control, starting at the
// controlled flow already
func (o *FlowControls) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
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
		row[pit.BranchMdot] = o.Mdot[i]
		row[pit.BranchTout] = p.Node[fr][pit.NodeT]
		row[pit.BranchText] = env.AmbientTemp
	}
	return nil
}

func (o *FlowControls) AdaptBeforeDerivativesHyd(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// AdaptAfterDerivativesHyd overrides the branch equation with ṁ = ṁ_set
func (o *FlowControls) AdaptAfterDerivativesHyd(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	a := tabs.Array(o.Name())
	for _, j := range act.BranchRows(tabs.Branches(o.Name())) {
		row := act.Branch[j]
		target := a[int(row[pit.BranchElement])][0]
		row[pit.BranchJacDm] = 1
		row[pit.BranchJacDpf] = 0
		row[pit.BranchJacDpt] = 0
		row[pit.BranchLoad] = row[pit.BranchMdot] - target
	}
	return nil
}

// ExtractResults reads junction pressures and records the achieved flow
func (o *FlowControls) ExtractResults(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	rng := tabs.Branches(o.Name())
	a := tabs.Array(o.Name())
	o.ResPFrom = make([]float64, o.NumBranches())
	o.ResPTo = make([]float64, o.NumBranches())
	for i := 0; i < o.NumBranches(); i++ {
		row := p.Branch[rng.A+i]
		o.ResPFrom[i] = p.Node[int(row[pit.BranchFrom])][pit.NodeP]
		o.ResPTo[i] = p.Node[int(row[pit.BranchTo])][pit.NodeP]
		a[i][1] = row[pit.BranchMdot]
	}
	return nil
}
