// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comp

import (
	"math"

	"gopipes/fluid"
	"gopipes/pit"
)

// Pumps are zero-length branches imposing a pressure lift given by the
// characteristic Δp(ṁ) = A0 + A1·|ṁ| + A2·ṁ². The lift is rewritten into
// the branch pit before every derivative computation, so the operating
// point follows the Newton iteration.
type Pumps struct {

	// input
	From       []int     // [nele] from-junction (suction)
	To         []int     // [nele] to-junction (discharge)
	D          []float64 // [nele] nominal diameter [m]
	A0, A1, A2 []float64 // [nele] characteristic coefficients [bar], [bar·s/kg], [bar·s²/kg²]
	InService  []bool    // [nele]

	// results
	ResMdot  []float64 // mass flow [kg/s]
	ResPLift []float64 // pressure lift at the operating point [bar]
}

// NewPump returns a single pump with constant lift
func NewPump(from, to int, diameter, plift float64) *Pumps {
	return &Pumps{
		From:      []int{from},
		To:        []int{to},
		D:         []float64{diameter},
		A0:        []float64{plift},
		A1:        []float64{0},
		A2:        []float64{0},
		InService: []bool{true},
	}
}

func (o *Pumps) Name() string     { return "pump" }
func (o *Pumps) NumNodes() int    { return 0 }
func (o *Pumps) NumBranches() int { return len(o.From) }

func (o *Pumps) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// CreateBranchEntries fills one frictionless branch row per pump
func (o *Pumps) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
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
		row[pit.BranchPLift] = o.A0[i]
		row[pit.BranchMdot] = env.MdotInit
		row[pit.BranchTout] = p.Node[fr][pit.NodeT]
		row[pit.BranchText] = env.AmbientTemp
	}
	return nil
}

// AdaptBeforeDerivativesHyd moves the pressure lift to the current
// operating point on the pump characteristic
func (o *Pumps) AdaptBeforeDerivativesHyd(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	for _, j := range act.BranchRows(tabs.Branches(o.Name())) {
		row := act.Branch[j]
		i := int(row[pit.BranchElement])
		m := row[pit.BranchMdot]
		row[pit.BranchPLift] = o.A0[i] + o.A1[i]*math.Abs(m) + o.A2[i]*m*m
	}
	return nil
}

func (o *Pumps) AdaptAfterDerivativesHyd(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// ExtractResults reads mass flow and operating-point lift
func (o *Pumps) ExtractResults(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	rng := tabs.Branches(o.Name())
	o.ResMdot = make([]float64, o.NumBranches())
	o.ResPLift = make([]float64, o.NumBranches())
	for i := 0; i < o.NumBranches(); i++ {
		o.ResMdot[i] = p.Branch[rng.A+i][pit.BranchMdot]
		o.ResPLift[i] = p.Branch[rng.A+i][pit.BranchPLift]
	}
	return nil
}

// CircPumpsPressure model circulation pumps fixing the flow-side pressure
// and the lift across the pump. Both attached junctions become slack nodes
// of the same hydraulic island; the pump mass flow is the solved slack
// correction at the flow node. The flow-side temperature is fixed, making
// the pump the thermal infeed of its loop.
type CircPumpsPressure struct {

	// input
	FromJunction []int     // [nele] return side
	ToJunction   []int     // [nele] flow side
	PFlow        []float64 // [nele] fixed flow-side pressure [bar gauge]
	PLift        []float64 // [nele] pressure lift across the pump [bar]
	TFlow        []float64 // [nele] fixed flow-side temperature [K]

	// results
	ResMdot []float64 // circulating mass flow [kg/s]
}

// NewCircPumpPressure returns a single pressure-controlled circulation pump
func NewCircPumpPressure(fromJ, toJ int, pflow, plift, tflow float64) *CircPumpsPressure {
	return &CircPumpsPressure{
		FromJunction: []int{fromJ},
		ToJunction:   []int{toJ},
		PFlow:        []float64{pflow},
		PLift:        []float64{plift},
		TFlow:        []float64{tflow},
	}
}

func (o *CircPumpsPressure) Name() string     { return "circ_pump_pressure" }
func (o *CircPumpsPressure) NumNodes() int    { return 0 }
func (o *CircPumpsPressure) NumBranches() int { return 0 }

// CreateNodeEntries fixes flow- and return-side pressures
func (o *CircPumpsPressure) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	for i := range o.FromJunction {
		flow := p.Node[jrow(tabs, o.ToJunction[i])]
		ret := p.Node[jrow(tabs, o.FromJunction[i])]
		flow[pit.NodeTypeP] = pit.NodeSlack
		flow[pit.NodeP] = o.PFlow[i]
		flow[pit.NodeOccP]++
		flow[pit.NodeTypeT] = pit.NodeSlack
		flow[pit.NodeT] = o.TFlow[i]
		flow[pit.NodeOccT]++
		flow[pit.NodeInfeed] = 1
		ret[pit.NodeTypeP] = pit.NodeSlack
		ret[pit.NodeP] = o.PFlow[i] - o.PLift[i]
		ret[pit.NodeOccP]++
	}
	return nil
}

func (o *CircPumpsPressure) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// ExtractResults reads the circulating mass flow from the flow-side slack
func (o *CircPumpsPressure) ExtractResults(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	o.ResMdot = make([]float64, len(o.FromJunction))
	for i := range o.FromJunction {
		o.ResMdot[i] = p.Node[jrow(tabs, o.ToJunction[i])][pit.NodeMSlack]
	}
	return nil
}

// CircPumpsMassFlow model circulation pumps fixing the flow-side pressure
// and the circulating mass flow. The fixed flow is imposed as a load pair:
// withdrawal at the return side, injection at the flow side.
type CircPumpsMassFlow struct {

	// input
	FromJunction []int     // [nele] return side
	ToJunction   []int     // [nele] flow side
	PFlow        []float64 // [nele] fixed flow-side pressure [bar gauge]
	Mdot         []float64 // [nele] circulating mass flow [kg/s]
	TFlow        []float64 // [nele] fixed flow-side temperature [K]
}

// NewCircPumpMassFlow returns a single flow-controlled circulation pump
func NewCircPumpMassFlow(fromJ, toJ int, pflow, mdot, tflow float64) *CircPumpsMassFlow {
	return &CircPumpsMassFlow{
		FromJunction: []int{fromJ},
		ToJunction:   []int{toJ},
		PFlow:        []float64{pflow},
		Mdot:         []float64{mdot},
		TFlow:        []float64{tflow},
	}
}

func (o *CircPumpsMassFlow) Name() string     { return "circ_pump_mass" }
func (o *CircPumpsMassFlow) NumNodes() int    { return 0 }
func (o *CircPumpsMassFlow) NumBranches() int { return 0 }

// CreateNodeEntries fixes the flow-side pressure and imposes the load pair
func (o *CircPumpsMassFlow) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	for i := range o.FromJunction {
		flow := p.Node[jrow(tabs, o.ToJunction[i])]
		ret := p.Node[jrow(tabs, o.FromJunction[i])]
		flow[pit.NodeTypeP] = pit.NodeSlack
		flow[pit.NodeP] = o.PFlow[i]
		flow[pit.NodeOccP]++
		flow[pit.NodeTypeT] = pit.NodeSlack
		flow[pit.NodeT] = o.TFlow[i]
		flow[pit.NodeOccT]++
		flow[pit.NodeInfeed] = 1
		flow[pit.NodeLoad] -= o.Mdot[i]
		ret[pit.NodeLoad] += o.Mdot[i]
	}
	return nil
}

func (o *CircPumpsMassFlow) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}
