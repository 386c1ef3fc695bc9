// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"gopipes/pit"
)

// columns written back to the full pit after each pass
var (
	hydNodeCols   = []int{pit.NodeP, pit.NodeMSlack}
	hydBranchCols = []int{pit.BranchMdot, pit.BranchRe, pit.BranchLambda, pit.BranchRho,
		pit.BranchEta, pit.BranchCp, pit.BranchPLift, pit.BranchCompr, pit.BranchDCompr}
	thermNodeCols   = []int{pit.NodeT}
	thermBranchCols = []int{pit.BranchTout, pit.BranchCp, pit.BranchSwitch}
)

// fillPruned writes fill values into the given columns of all full-pit
// rows excised by the reduction; the subsequent writeback overwrites the
// kept rows with solved values
func fillPruned(p *pit.Pit, act *pit.Active, nodeCols, branchCols []int, nodeFill, branchFill float64) {
	for i := 0; i < p.Nnode(); i++ {
		if act.NodeRow(i) >= 0 {
			continue
		}
		for _, c := range nodeCols {
			p.Node[i][c] = nodeFill
		}
	}
	kept := make(map[int]bool, len(act.BranchIdx))
	for _, j := range act.BranchIdx {
		kept[j] = true
	}
	for j := 0; j < p.Nbranch(); j++ {
		if kept[j] {
			continue
		}
		for _, c := range branchCols {
			p.Branch[j][c] = branchFill
		}
	}
}

// hydPass reduces, solves and writes back the hydraulic state. Rows cut
// off from every pressure boundary come back as NaN.
func (o *Network) hydPass(opts *Options) error {
	act, err := reduceHydraulic(o.Pit, opts)
	if err != nil {
		return err
	}
	it, err := o.solveHydraulics(act, opts)
	o.Res.ItHyd = it
	o.Res.ConvergedHyd = err == nil
	if err != nil {
		return err
	}
	fillPruned(o.Pit, act, hydNodeCols, hydBranchCols, math.NaN(), math.NaN())
	act.Writeback(o.Pit, hydNodeCols, hydBranchCols)
	return nil
}

// thermPass reduces, solves and writes back the thermal state. Stagnant
// rows relax to the ambient temperature.
func (o *Network) thermPass(opts *Options) error {
	if err := o.checkHeatBoundaries(); err != nil {
		return err
	}
	act, err := reduceThermal(o.Pit, opts)
	if err != nil {
		return err
	}
	it, err := o.solveThermal(act, opts)
	o.Res.ItTherm = it
	o.Res.ConvergedTherm = err == nil
	if err != nil {
		return err
	}
	fillPruned(o.Pit, act, thermNodeCols, []int{pit.BranchTout}, opts.AmbientTemp, opts.AmbientTemp)
	act.Writeback(o.Pit, thermNodeCols, thermBranchCols)
	return nil
}

// checkHeatBoundaries requires every infeed point to fix its temperature:
// the number of net infeeds and of temperature-slack nodes must agree
func (o *Network) checkHeatBoundaries() error {
	ninfeed, nslack := 0, 0
	for _, row := range o.Pit.Node {
		if row[pit.NodeActive] != 1 {
			continue
		}
		if row[pit.NodeInfeed] == 1 {
			ninfeed++
		}
		if row[pit.NodeTypeT] == pit.NodeSlack {
			nslack++
		}
	}
	if ninfeed != nslack {
		return chk.Err("heat transfer needs a fixed temperature at every infeed point: %d infeeds vs %d fixed temperatures", ninfeed, nslack)
	}
	return nil
}

// bidirState snapshots the coupled fields of the full pit for the outer
// convergence measure
type bidirState struct {
	p, t, m, tout []float64
}

func snapshotBidir(p *pit.Pit) (s bidirState) {
	s.p = make([]float64, p.Nnode())
	s.t = make([]float64, p.Nnode())
	s.m = make([]float64, p.Nbranch())
	s.tout = make([]float64, p.Nbranch())
	for i, row := range p.Node {
		s.p[i] = row[pit.NodeP]
		s.t[i] = row[pit.NodeT]
	}
	for j, row := range p.Branch {
		s.m[j] = row[pit.BranchMdot]
		s.tout[j] = row[pit.BranchTout]
	}
	return
}

// meanAbsDiffFinite ignores entries that are NaN on either side, so
// pruned rows do not poison the outer convergence measure
func meanAbsDiffFinite(a, b []float64) float64 {
	sum, n := 0.0, 0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if math.IsNaN(d) {
			continue
		}
		sum += d
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Pipeflow computes the steady state of the network. The mode selects
// hydraulics only, heat only (on the present mass flows), one hydraulic
// pass followed by one thermal pass, or the fully coupled fixed-point
// loop over both. Component results are extracted afterwards in
// registration order.
func Pipeflow(net *Network, opts *Options) (err error) {
	if opts == nil {
		opts = NewOptions()
	}
	if err = net.initialize(opts); err != nil {
		return
	}
	net.Res = Results{}

	switch opts.Mode {
	case ModeHydraulics:
		err = net.hydPass(opts)
	case ModeHeat:
		err = net.thermPass(opts)
	case ModeSequential:
		if err = net.hydPass(opts); err != nil {
			return
		}
		err = net.thermPass(opts)
	case ModeBidirectional:
		err = net.bidirectional(opts)
	default:
		return chk.Err("unknown pipeflow mode %q", opts.Mode)
	}
	if err != nil {
		return
	}
	return net.extractResults(env(opts))
}

// bidirectional alternates full hydraulic and thermal solves until the
// coupled fields stop moving between outer steps
func (o *Network) bidirectional(opts *Options) error {
	if err := o.checkHeatBoundaries(); err != nil {
		return err
	}
	prev := snapshotBidir(o.Pit)
	for s := 1; s <= opts.MaxIterBidirect; s++ {
		o.Res.ItBidirect = s
		if err := o.hydPass(opts); err != nil {
			return err
		}
		if err := o.thermPass(opts); err != nil {
			return err
		}
		now := snapshotBidir(o.Pit)
		if opts.Verbose {
			io.Pf("bid it=%2d dP=%10.3e dM=%10.3e dT=%10.3e dTo=%10.3e\n", s,
				meanAbsDiffFinite(now.p, prev.p), meanAbsDiffFinite(now.m, prev.m),
				meanAbsDiffFinite(now.t, prev.t), meanAbsDiffFinite(now.tout, prev.tout))
		}
		if s > 1 &&
			meanAbsDiffFinite(now.p, prev.p) <= opts.TolP &&
			meanAbsDiffFinite(now.m, prev.m) <= opts.TolM &&
			meanAbsDiffFinite(now.t, prev.t) <= opts.TolT &&
			meanAbsDiffFinite(now.tout, prev.tout) <= opts.TolT {
			return nil
		}
		prev = now
	}
	return &NotConvergedError{Mode: ModeBidirectional, Iterations: opts.MaxIterBidirect}
}
