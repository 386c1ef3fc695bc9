// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"

	"gopipes/comp"
	"gopipes/fluid"
	"gopipes/pit"
)

// laggedRegulators steer their branch towards a flow setpoint through the
// relaxed residual F = (1+gain)·(ṁ − ṁ_set). A full Newton step lands
// gain-fold past the setpoint on the opposite side, so with a gain above
// one the undamped iteration oscillates with growing amplitude.
type laggedRegulators struct {
	From, To []int
	Target   float64
	Gain     float64
}

func (o *laggedRegulators) Name() string     { return "lagged_regulator" }
func (o *laggedRegulators) NumNodes() int    { return 0 }
func (o *laggedRegulators) NumBranches() int { return len(o.From) }

func (o *laggedRegulators) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *comp.Env) error {
	return nil
}

func (o *laggedRegulators) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *comp.Env) error {
	rng := tabs.Branches(o.Name())
	num := float64(tabs.Num(o.Name()))
	jns := tabs.Nodes(comp.JunctionTable)
	for i := 0; i < o.NumBranches(); i++ {
		fr := jns.A + o.From[i]
		row := p.Branch[rng.A+i]
		row[pit.BranchTable] = num
		row[pit.BranchElement] = float64(i)
		row[pit.BranchFrom] = float64(fr)
		row[pit.BranchTo] = float64(jns.A + o.To[i])
		row[pit.BranchType] = pit.BranchPlain
		row[pit.BranchActive] = 1
		row[pit.BranchMdot] = env.MdotInit
		row[pit.BranchTout] = p.Node[fr][pit.NodeT]
		row[pit.BranchText] = env.AmbientTemp
	}
	return nil
}

func (o *laggedRegulators) AdaptBeforeDerivativesHyd(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *comp.Env) error {
	return nil
}

// AdaptAfterDerivativesHyd overrides the branch equation with the relaxed
// setpoint residual
func (o *laggedRegulators) AdaptAfterDerivativesHyd(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *comp.Env) error {
	for _, j := range act.BranchRows(tabs.Branches(o.Name())) {
		row := act.Branch[j]
		row[pit.BranchJacDm] = 1
		row[pit.BranchJacDpf] = 0
		row[pit.BranchJacDpt] = 0
		row[pit.BranchLoad] = (1.0 + o.Gain) * (row[pit.BranchMdot] - o.Target)
	}
	return nil
}

// regulatorLoop strings the regulator and a pipe between two supply grids,
// so the flow split between the grids follows the regulator
func regulatorLoop() (*Network, *comp.Pipes) {
	jns := comp.NewJunctions(3, 1.0, 293.15)
	reg := &laggedRegulators{From: []int{0}, To: []int{1}, Target: 0.02, Gain: 1.5}
	pps := comp.NewPipes(1, 100, 0.05, 1e-4)
	pps.From = []int{1}
	pps.To = []int{2}
	grids := &comp.ExtGrids{
		Junction: []int{0, 2},
		P:        []float64{2.0, 2.0},
		T:        []float64{293.15, 293.15},
		Mode:     []string{comp.ExtGridP, comp.ExtGridP},
	}
	net := NewNetwork(fluid.Water())
	if err := net.Register(jns, reg, pps, grids); err != nil {
		chk.Panic("register failed: %v", err)
	}
	return net, pps
}

func Test_newton01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("newton01. step-width damping tames an overshooting regulator")

	// constant full steps multiply the setpoint error every iteration
	net, _ := regulatorLoop()
	opts := NewOptions()
	opts.MdotInit = 0.021
	opts.MaxIterHyd = 20
	err := Pipeflow(net, opts)
	var nce *NotConvergedError
	if !errors.As(err, &nce) {
		tst.Fatalf("expected NotConvergedError with constant steps, got %v", err)
	}
	if net.Res.ConvergedHyd {
		tst.Fatalf("result flags must record the failure")
	}

	// the automatic method detects the growing updates, halves the step
	// width and retakes the iteration from the saved state
	net2, pps := regulatorLoop()
	opts2 := NewOptions()
	opts2.MdotInit = 0.021
	opts2.NonlinMethod = NonlinAutomatic
	if err := Pipeflow(net2, opts2); err != nil {
		tst.Fatalf("pipeflow failed:\n%v", err)
	}
	if !net2.Res.ConvergedHyd {
		tst.Fatalf("automatic damping must converge this network")
	}
	if net2.Res.ItHyd <= 3 {
		tst.Fatalf("damped retries take extra iterations, got %d", net2.Res.ItHyd)
	}
	chk.Float64(tst, "regulated flow", 1e-5, pps.ResMdot[0], 0.02)
}

func Test_newton02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("newton02. damping factor mechanics")

	// halve on divergence down to the floor, then grow back towards one
	a := damp(1.0, 1.0/64.0, true)
	chk.Float64(tst, "halved", 1e-17, a, 0.5)
	a = damp(1.0/40.0, 1.0/64.0, true)
	chk.Float64(tst, "floored", 1e-17, a, 1.0/64.0)
	a = damp(0.5, 1.0/64.0, false)
	chk.Float64(tst, "restored", 1e-17, a, 1.0)
	a = damp(0.25, 1.0/64.0, false)
	chk.Float64(tst, "doubled", 1e-17, a, 0.5)

	if allIncreased([]float64{2, 3}, []float64{1, 4}) {
		tst.Fatalf("mixed growth must not count as divergence")
	}
	if !allIncreased([]float64{2, 5}, []float64{1, 4}) {
		tst.Fatalf("growth in every group is divergence")
	}
}
