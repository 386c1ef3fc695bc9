// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"gopipes/fluid"
	"gopipes/pit"
)

// thermalPit builds a two-node, one-branch active pit for residual checks
func thermalPit(tin, tout, mdot, length, d, alpha, text float64) *pit.Active {
	p := pit.NewPit(2, 1)
	p.Node[0][pit.NodeT] = tin
	p.Node[1][pit.NodeT] = tout
	for _, row := range p.Node {
		row[pit.NodeActive] = 1
	}
	br := p.Branch[0]
	br[pit.BranchFrom] = 0
	br[pit.BranchTo] = 1
	br[pit.BranchActive] = 1
	br[pit.BranchMdot] = mdot
	br[pit.BranchLength] = length
	br[pit.BranchD] = d
	br[pit.BranchArea] = math.Pi * d * d / 4.0
	br[pit.BranchAlpha] = alpha
	br[pit.BranchText] = text
	br[pit.BranchTout] = tout
	return pit.NewActive(p, []bool{true, true}, []bool{true})
}

func Test_thermal01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermal01. steady exponential cooling residual")

	med := fluid.Water()
	opts := NewOptions()
	tin, text := 353.15, 283.15
	mdot, length, d, alpha := 0.5, 200.0, 0.05, 5.0

	// evaluate at the exact solution: the residual must vanish
	toutGuess := 340.0
	act := thermalPit(tin, toutGuess, mdot, length, d, alpha, text)
	setBranchSwitch(act)
	cp := med.HeatCapacity(0.5 * (tin + toutGuess))
	a := alpha * math.Pi * d * length / (mdot * cp)
	toutExact := text + (tin-text)*math.Exp(-a)
	act.Branch[0][pit.BranchTout] = toutExact

	err := calcDerivativesTherm(act, med, opts, nil)
	if err != nil {
		tst.Fatalf("calcDerivativesTherm failed:\n%v", err)
	}
	chk.Float64(tst, "G at solution", 1e-10, act.Branch[0][pit.BranchLoadT], 0)
	chk.Float64(tst, "dG/dTout", 1e-15, act.Branch[0][pit.BranchJacDTout], 1)
	if act.Branch[0][pit.BranchJacDTin] >= 0 {
		tst.Fatalf("dG/dTin must be negative, got %v", act.Branch[0][pit.BranchJacDTin])
	}
}

func Test_thermal02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermal02. reversed flow swaps inlet and outlet")

	med := fluid.Water()
	opts := NewOptions()
	act := thermalPit(300.0, 320.0, -0.5, 200.0, 0.05, 5.0, 283.15)
	setBranchSwitch(act)
	chk.Float64(tst, "switch", 1e-17, act.Branch[0][pit.BranchSwitch], 1)
	in, out := thermalEnds(act.Branch[0])
	chk.IntAssert(in, 1)
	chk.IntAssert(out, 0)

	err := calcDerivativesTherm(act, med, opts, nil)
	if err != nil {
		tst.Fatalf("calcDerivativesTherm failed:\n%v", err)
	}
	// inlet sensitivity now refers to node 1
	e := math.Exp(-act.Branch[0][pit.BranchAlpha] * math.Pi * 0.05 * 200.0 /
		(0.5 * act.Branch[0][pit.BranchCp]))
	chk.Float64(tst, "dG/dTin = -exp(-a)", 1e-12, act.Branch[0][pit.BranchJacDTin], -e)
}

func Test_thermal03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermal03. lumped balance of a zero-length exchanger")

	med := fluid.Water()
	opts := NewOptions()
	tin := 300.0
	mdot := 0.2
	qext := 5000.0
	act := thermalPit(tin, tin, mdot, 0, 0.05, 0, 283.15)
	act.Branch[0][pit.BranchQext] = qext
	setBranchSwitch(act)

	// exact outlet: |m| cp (Tout - Tin) = Qext
	cp := med.HeatCapacity(tin)
	toutExact := tin + qext/(mdot*cp)
	act.Branch[0][pit.BranchTout] = toutExact
	err := calcDerivativesTherm(act, med, opts, nil)
	if err != nil {
		tst.Fatalf("calcDerivativesTherm failed:\n%v", err)
	}
	chk.Float64(tst, "G at solution", 1e-8, act.Branch[0][pit.BranchLoadT], 0)
	chk.Float64(tst, "dG/dTout", 1e-10, act.Branch[0][pit.BranchJacDTout], mdot*act.Branch[0][pit.BranchCp])
	chk.Float64(tst, "dG/dTin", 1e-10, act.Branch[0][pit.BranchJacDTin], -mdot*act.Branch[0][pit.BranchCp])
}

func Test_thermal04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermal04. transient stepping adds the storage term")

	med := fluid.Water()
	opts := NewOptions()
	opts.Transient = true
	opts.Dt = 30

	act := thermalPit(330.0, 320.0, 0.5, 100.0, 0.05, 0, 283.15)
	act.Branch[0][pit.BranchRho] = med.Density(325.0)
	setBranchSwitch(act)
	prev := snapshotTout(act)
	chk.Float64(tst, "snapshot", 1e-17, prev[0], 320.0)

	err := calcDerivativesTherm(act, med, opts, prev)
	if err != nil {
		tst.Fatalf("calcDerivativesTherm failed:\n%v", err)
	}
	// the outlet sensitivity grows by ρ V cp / Δt
	cp := act.Branch[0][pit.BranchCp]
	cap := act.Branch[0][pit.BranchRho] * act.Branch[0][pit.BranchArea] * 100.0 * cp / opts.Dt
	chk.Float64(tst, "dG/dTout", 1e-8, act.Branch[0][pit.BranchJacDTout], 0.5*cp+cap)

	// at Tout == ToutPrev and steady balance the storage term vanishes
	act2 := thermalPit(330.0, 330.0, 0.5, 100.0, 0.05, 0, 283.15)
	act2.Branch[0][pit.BranchRho] = med.Density(330.0)
	setBranchSwitch(act2)
	prev2 := snapshotTout(act2)
	err = calcDerivativesTherm(act2, med, opts, prev2)
	if err != nil {
		tst.Fatalf("calcDerivativesTherm failed:\n%v", err)
	}
	chk.Float64(tst, "G steady", 1e-8, act2.Branch[0][pit.BranchLoadT], 0)
}
