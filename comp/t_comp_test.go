// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"gopipes/fluid"
	"gopipes/pit"
)

// buildPits registers and fills the given components, in order
func buildPits(tst *testing.T, med *fluid.Medium, env *Env, comps ...Component) (*pit.Pit, *pit.Tables) {
	tabs := pit.NewTables()
	for _, c := range comps {
		tabs.Register(c.Name(), c.NumNodes(), c.NumBranches())
	}
	p := pit.NewPit(tabs.Nnode(), tabs.Nbranch())
	for _, c := range comps {
		if w, ok := c.(WithArray); ok {
			w.CreateArray(tabs)
		}
	}
	for _, c := range comps {
		if err := c.CreateNodeEntries(p, tabs, med, env); err != nil {
			tst.Fatalf("CreateNodeEntries failed:\n%v", err)
		}
	}
	for _, c := range comps {
		if err := c.CreateBranchEntries(p, tabs, med, env); err != nil {
			tst.Fatalf("CreateBranchEntries failed:\n%v", err)
		}
	}
	return p, tabs
}

func testenv() *Env {
	return &Env{AmbientTemp: 293.15, MdotInit: 0.1}
}

func Test_comp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("comp01. junctions, pipes and boundaries fill the pit")

	jns := NewJunctions(3, 1.0, 330.0)
	jns.Height[2] = 10
	pps := NewPipes(2, 100, 0.05, 1e-4)
	pps.From = []int{0, 1}
	pps.To = []int{1, 2}
	grid := NewExtGrid(0, 2.0, 353.15)
	snk := NewSink(2, 0.01)

	p, _ := buildPits(tst, fluid.Water(), testenv(), jns, pps, grid, snk)
	chk.IntAssert(p.Nnode(), 3)
	chk.IntAssert(p.Nbranch(), 2)

	// junction rows
	chk.Float64(tst, "node 0 is slack", 1e-17, p.Node[0][pit.NodeTypeP], pit.NodeSlack)
	chk.Float64(tst, "node 0 p", 1e-17, p.Node[0][pit.NodeP], 2.0)
	chk.Float64(tst, "node 0 T", 1e-17, p.Node[0][pit.NodeT], 353.15)
	chk.Float64(tst, "node 0 infeed", 1e-17, p.Node[0][pit.NodeInfeed], 1)
	chk.Float64(tst, "node 1 free", 1e-17, p.Node[1][pit.NodeTypeP], pit.NodeFree)
	chk.Float64(tst, "node 2 load", 1e-17, p.Node[2][pit.NodeLoad], 0.01)
	chk.Float64(tst, "node 2 height", 1e-17, p.Node[2][pit.NodeHeight], 10)

	// pipe rows: diameter and area must stay consistent
	for i := 0; i < 2; i++ {
		row := p.Branch[i]
		d := row[pit.BranchD]
		chk.Float64(tst, "area = pi d^2/4", 1e-15, row[pit.BranchArea], math.Pi*d*d/4.0)
	}
	chk.IntAssert(int(p.Branch[1][pit.BranchFrom]), 1)
	chk.IntAssert(int(p.Branch[1][pit.BranchTo]), 2)
	chk.Float64(tst, "mdot init", 1e-17, p.Branch[0][pit.BranchMdot], 0.1)
	chk.Float64(tst, "tout init from node", 1e-17, p.Branch[0][pit.BranchTout], 330.0)
}

func Test_comp02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("comp02. flow control overrides its Jacobian row")

	jns := NewJunctions(2, 1.0, 293.15)
	fc := NewFlowControl(0, 1, 0.25)
	grid := &ExtGrids{Junction: []int{0}, P: []float64{1}, T: []float64{293.15}, Mode: []string{ExtGridP}}
	p, tabs := buildPits(tst, fluid.Water(), testenv(), jns, fc, grid)

	keepN := []bool{true, true}
	keepB := []bool{true}
	act := pit.NewActive(p, keepN, keepB)

	// pretend the derivative engine filled the row
	act.Branch[0][pit.BranchJacDm] = -42
	act.Branch[0][pit.BranchJacDpf] = 1
	act.Branch[0][pit.BranchJacDpt] = -1
	act.Branch[0][pit.BranchLoad] = 3.3
	act.Branch[0][pit.BranchMdot] = 0.4

	err := fc.AdaptAfterDerivativesHyd(act, tabs, fluid.Water(), testenv())
	if err != nil {
		tst.Fatalf("adaptation failed:\n%v", err)
	}
	chk.Float64(tst, "dF/dm", 1e-17, act.Branch[0][pit.BranchJacDm], 1)
	chk.Float64(tst, "dF/dpf", 1e-17, act.Branch[0][pit.BranchJacDpf], 0)
	chk.Float64(tst, "dF/dpt", 1e-17, act.Branch[0][pit.BranchJacDpt], 0)
	chk.Float64(tst, "residual", 1e-15, act.Branch[0][pit.BranchLoad], 0.4-0.25)
}

func Test_comp03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("comp03. pump characteristic moves the lift")

	jns := NewJunctions(2, 1.0, 293.15)
	pmp := NewPump(0, 1, 0.05, 0.8)
	pmp.A1[0] = -0.1
	pmp.A2[0] = -0.2
	p, tabs := buildPits(tst, fluid.Water(), testenv(), jns, pmp)

	act := pit.NewActive(p, []bool{true, true}, []bool{true})
	act.Branch[0][pit.BranchMdot] = -0.5
	err := pmp.AdaptBeforeDerivativesHyd(act, tabs, fluid.Water(), testenv())
	if err != nil {
		tst.Fatalf("adaptation failed:\n%v", err)
	}
	correct := 0.8 - 0.1*0.5 - 0.2*0.25
	chk.Float64(tst, "plift", 1e-15, act.Branch[0][pit.BranchPLift], correct)
}

func Test_comp04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("comp04. circulation pump fixes both loop ends")

	jns := NewJunctions(2, 1.0, 293.15)
	cp := NewCircPumpPressure(1, 0, 5.0, 1.5, 350.0)
	p, _ := buildPits(tst, fluid.Water(), testenv(), jns, cp)

	chk.Float64(tst, "flow node slack", 1e-17, p.Node[0][pit.NodeTypeP], pit.NodeSlack)
	chk.Float64(tst, "flow node p", 1e-17, p.Node[0][pit.NodeP], 5.0)
	chk.Float64(tst, "flow node T slack", 1e-17, p.Node[0][pit.NodeTypeT], pit.NodeSlack)
	chk.Float64(tst, "return node slack", 1e-17, p.Node[1][pit.NodeTypeP], pit.NodeSlack)
	chk.Float64(tst, "return node p", 1e-15, p.Node[1][pit.NodeP], 3.5)
	chk.Float64(tst, "infeed count", 1e-17, p.Node[0][pit.NodeInfeed], 1)
}

func Test_comp05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("comp05. compressor heats the gas on the way through")

	jns := NewJunctions(2, 3.0, 293.15)
	cmp := NewCompressor(0, 1, 0.1, 1.8)
	med := fluid.Methane()
	p, tabs := buildPits(tst, med, testenv(), jns, cmp)
	act := pit.NewActive(p, []bool{true, true}, []bool{true})

	rise := func(tin float64) float64 {
		cp := med.HeatCapacity(tin)
		rs := gasConstant / med.MolarMass
		kappa := cp / (cp - rs)
		return tin * (math.Pow(1.8, (kappa-1.0)/kappa) - 1.0)
	}

	err := cmp.AdaptBeforeDerivativesTherm(act, tabs, med, testenv())
	if err != nil {
		tst.Fatalf("adaptation failed:\n%v", err)
	}
	chk.Float64(tst, "isentropic rise", 1e-12, act.Branch[0][pit.BranchTLift], rise(293.15))

	// reversed flow reads its inlet at the other end
	act.Branch[0][pit.BranchSwitch] = 1
	act.Node[1][pit.NodeT] = 310.0
	if err = cmp.AdaptBeforeDerivativesTherm(act, tabs, med, testenv()); err != nil {
		tst.Fatalf("adaptation failed:\n%v", err)
	}
	chk.Float64(tst, "reversed rise", 1e-12, act.Branch[0][pit.BranchTLift], rise(310.0))
}
