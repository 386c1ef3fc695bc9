// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"gopipes/pit"
)

// hydSystem holds the equation layout of one hydraulic solve. Unknowns are
// ordered [p(nn) | ṁ(nb) | ṁ_slack(ns)]: node pressures, branch mass flows
// and one slack correction per pressure-slack node.
type hydSystem struct {
	nn, nb, ns int
	slackOf    []int   // active node row => slack index, or -1
	slackNodes []int   // slack index => active node row
	inBr       [][]int // active node row => branches with to == row
	outBr      [][]int // active node row => branches with from == row
	nnz        int     // assembly slot count
}

// neq returns the total number of equations
func (o *hydSystem) neq() int { return o.nn + o.nb + o.ns }

// buildHydSystem derives the layout from the active pit topology. The
// layout only depends on which rows are active, so it is built once per
// solve pass.
func buildHydSystem(act *pit.Active) (o *hydSystem) {
	o = new(hydSystem)
	o.nn = act.Nnode()
	o.nb = act.Nbranch()
	o.slackOf = make([]int, o.nn)
	o.inBr = make([][]int, o.nn)
	o.outBr = make([][]int, o.nn)
	for i, row := range act.Node {
		o.slackOf[i] = -1
		if row[pit.NodeTypeP] == pit.NodeSlack {
			o.slackOf[i] = len(o.slackNodes)
			o.slackNodes = append(o.slackNodes, i)
		}
	}
	o.ns = len(o.slackNodes)
	for j, row := range act.Branch {
		o.inBr[int(row[pit.BranchTo])] = append(o.inBr[int(row[pit.BranchTo])], j)
		o.outBr[int(row[pit.BranchFrom])] = append(o.outBr[int(row[pit.BranchFrom])], j)
	}

	// exact nonzero count
	deg := func(i int) int { return len(o.inBr[i]) + len(o.outBr[i]) }
	for i, row := range act.Node {
		if row[pit.NodeTypeP] == pit.NodeSlack || row[pit.NodeTypeP] == pit.NodeControlled {
			o.nnz++
		} else {
			o.nnz += deg(i)
		}
	}
	for _, row := range act.Branch {
		if row[pit.BranchType] == pit.BranchPressCtrl {
			o.nnz += deg(int(row[pit.BranchTo]))
		} else {
			o.nnz += 3
		}
	}
	for _, i := range o.slackNodes {
		o.nnz += deg(i) + 1
	}
	return
}

// continuity adds the mass-balance entries of node i to matrix row r and
// returns the balance residual (without slack correction)
func (o *hydSystem) continuity(act *pit.Active, K *la.Triplet, r, i int) (res float64) {
	for _, j := range o.inBr[i] {
		K.Put(r, o.nn+j, act.Branch[j][pit.BranchJacDmNode])
		res += act.Branch[j][pit.BranchMdot]
	}
	for _, j := range o.outBr[i] {
		K.Put(r, o.nn+j, -act.Branch[j][pit.BranchJacDmNode])
		res -= act.Branch[j][pit.BranchMdot]
	}
	res -= act.Node[i][pit.NodeLoad]
	return
}

// assembleHyd fills the triplet and residual vector from the derivative
// columns of the active pit
func (o *hydSystem) assembleHyd(act *pit.Active, K *la.Triplet, fb []float64) {
	K.Start()

	// node equations
	for i, row := range act.Node {
		if row[pit.NodeTypeP] == pit.NodeSlack || row[pit.NodeTypeP] == pit.NodeControlled {
			K.Put(i, i, 1)
			fb[i] = 0
			continue
		}
		fb[i] = o.continuity(act, K, i, i)
	}

	// branch equations; pressure-control branches trade their pressure-loss
	// equation for the controlled node's mass balance
	for j, row := range act.Branch {
		r := o.nn + j
		if row[pit.BranchType] == pit.BranchPressCtrl {
			fb[r] = o.continuity(act, K, r, int(row[pit.BranchTo]))
			continue
		}
		K.Put(r, int(row[pit.BranchFrom]), row[pit.BranchJacDpf])
		K.Put(r, int(row[pit.BranchTo]), row[pit.BranchJacDpt])
		K.Put(r, r, row[pit.BranchJacDm])
		fb[r] = row[pit.BranchLoad]
	}

	// slack balances with the slack correction unknown
	for s, i := range o.slackNodes {
		r := o.nn + o.nb + s
		fb[r] = o.continuity(act, K, r, i) + act.Node[i][pit.NodeMSlack]
		K.Put(r, r, 1)
	}
}

// applyHyd subtracts the scaled Newton step from the active pit state
func (o *hydSystem) applyHyd(act *pit.Active, dx []float64, alpha float64) {
	for i, row := range act.Node {
		row[pit.NodeP] -= alpha * dx[i]
	}
	for j, row := range act.Branch {
		row[pit.BranchMdot] -= alpha * dx[o.nn+j]
	}
	for s, i := range o.slackNodes {
		act.Node[i][pit.NodeMSlack] -= alpha * dx[o.nn+o.nb+s]
	}
}

// thermSystem holds the equation layout of one thermal solve. Unknowns are
// ordered [T(nn) | T_out(nb)]: node temperatures and branch outlet
// temperatures. Inlet/outlet follow the flow direction recorded in the
// branch switch column.
type thermSystem struct {
	nn, nb int
	inBr   [][]int // active node row => branches discharging into it
	nnz    int
}

// neq returns the total number of equations
func (o *thermSystem) neq() int { return o.nn + o.nb }

// buildThermSystem derives the thermal layout; setBranchSwitch must have
// run on the active pit already
func buildThermSystem(act *pit.Active) (o *thermSystem) {
	o = new(thermSystem)
	o.nn = act.Nnode()
	o.nb = act.Nbranch()
	o.inBr = make([][]int, o.nn)
	for j, row := range act.Branch {
		_, out := thermalEnds(row)
		o.inBr[out] = append(o.inBr[out], j)
	}
	for i, row := range act.Node {
		if row[pit.NodeTypeT] == pit.NodeSlack {
			o.nnz++
		} else {
			o.nnz += len(o.inBr[i]) + 1
		}
	}
	o.nnz += 2 * o.nb
	return
}

// assembleTherm fills the triplet and residual vector. Node equations mix
// the incoming outlet temperatures
//
//	H = Σ_in |ṁ| c_p T_out − (Σ_in |ṁ| c_p) T − Q_load
//
// nodes without incoming flow relax to the ambient temperature instead.
func (o *thermSystem) assembleTherm(act *pit.Active, K *la.Triplet, fb []float64, ambient float64) {
	K.Start()

	for i, row := range act.Node {
		if row[pit.NodeTypeT] == pit.NodeSlack {
			K.Put(i, i, 1)
			fb[i] = 0
			continue
		}
		sum := 0.0
		res := 0.0
		for _, j := range o.inBr[i] {
			br := act.Branch[j]
			mcp := math.Abs(br[pit.BranchMdot]) * br[pit.BranchCp]
			sum += mcp
			res += mcp * br[pit.BranchTout]
			K.Put(i, o.nn+j, mcp)
		}
		if sum < ZeroFlow {
			// no through-flow: hold the node at ambient
			K.Put(i, i, -1)
			fb[i] = ambient - row[pit.NodeT]
			continue
		}
		K.Put(i, i, -sum)
		fb[i] = res - sum*row[pit.NodeT] - row[pit.NodeLoadT]
	}

	for j, row := range act.Branch {
		r := o.nn + j
		in, _ := thermalEnds(row)
		K.Put(r, in, row[pit.BranchJacDTin])
		K.Put(r, r, row[pit.BranchJacDTout])
		fb[r] = row[pit.BranchLoadT]
	}
}

// applyTherm subtracts the scaled Newton step from the active pit state
func (o *thermSystem) applyTherm(act *pit.Active, dx []float64, alpha float64) {
	for i, row := range act.Node {
		row[pit.NodeT] -= alpha * dx[i]
	}
	for j, row := range act.Branch {
		row[pit.BranchTout] -= alpha * dx[o.nn+j]
	}
}

// linSystem wraps the sparse solver lifecycle. With reuse on, one solver
// instance is kept across iterations and only refactored; otherwise every
// iteration initializes a fresh instance. Both paths factor the same
// triplet values, so results are identical.
type linSystem struct {
	K       la.Triplet
	fb, dx  la.Vector
	slv     la.SparseSolver
	name    string
	reuse   bool
	started bool
}

// newLinSystem allocates the triplet and work vectors
func newLinSystem(neq, nnz int, name string, reuse bool) (o *linSystem) {
	o = new(linSystem)
	o.K.Init(neq, neq, nnz)
	o.fb = la.NewVector(neq)
	o.dx = la.NewVector(neq)
	o.name = name
	o.reuse = reuse
	return
}

// solve factors the current triplet and solves K·dx = fb. The solver
// panics on failure, e.g. on a singular matrix; the panic is converted to
// an error here so the Newton driver can report it.
func (o *linSystem) solve(verbose bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("linear solver %q failed: %v", o.name, r)
		}
	}()
	if !o.started || !o.reuse {
		if o.started {
			o.slv.Free()
		}
		o.slv = la.NewSparseSolver(o.name)
		o.slv.Init(&o.K, &la.SpArgs{Verbose: verbose})
		o.started = true
	}
	o.slv.Fact()
	o.slv.Solve(o.dx, o.fb, false)
	return
}

// free releases the solver
func (o *linSystem) free() {
	if o.started {
		o.slv.Free()
		o.started = false
	}
}
