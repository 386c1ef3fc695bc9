// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"gopipes/fluid"
	"gopipes/pit"
)

// setBranchSwitch records, per branch, whether the solved mass flow runs
// against the defined from→to orientation. The thermal pass reads its
// inlet and outlet through this flag.
func setBranchSwitch(act *pit.Active) {
	for _, row := range act.Branch {
		if row[pit.BranchMdot] < 0 {
			row[pit.BranchSwitch] = 1
		} else {
			row[pit.BranchSwitch] = 0
		}
	}
}

// thermalEnds returns the flow-corrected inlet and outlet active node rows
func thermalEnds(row []float64) (in, out int) {
	in = int(row[pit.BranchFrom])
	out = int(row[pit.BranchTo])
	if row[pit.BranchSwitch] == 1 {
		in, out = out, in
	}
	return
}

// snapshotTout copies the current outlet temperatures of the active
// branches; the transient residual references this previous-step state
// throughout the Newton iteration
func snapshotTout(act *pit.Active) []float64 {
	prev := make([]float64, act.Nbranch())
	for j, row := range act.Branch {
		prev[j] = row[pit.BranchTout]
	}
	return prev
}

// calcDerivativesTherm fills the thermal Jacobian and load columns of all
// active branches. Branches with positive length solve the steady
// exponential cooling profile
//
//	G = T_out − T_ext − (T_in − T_ext)·e^{−a} − Q_ext/(|ṁ| c_p) − ΔT_lift
//
// with a = α π D L/(|ṁ| c_p). Zero-length branches, and all branches in
// transient stepping, use the lumped heat balance (backward Euler in the
// transient case). toutPrev holds the previous-step outlet temperatures
// and is only read when transient stepping is on.
func calcDerivativesTherm(act *pit.Active, med *fluid.Medium, opts *Options, toutPrev []float64) error {
	for j, row := range act.Branch {
		in, _ := thermalEnds(row)
		tin := act.Node[in][pit.NodeT]
		tout := row[pit.BranchTout]

		mAbs := math.Abs(row[pit.BranchMdot])
		if mAbs < ZeroFlow {
			mAbs = ZeroFlow
		}
		tm := 0.5 * (tin + tout)
		cp := med.HeatCapacity(tm)
		row[pit.BranchCp] = cp

		L := row[pit.BranchLength]
		d := row[pit.BranchD]
		surf := row[pit.BranchAlpha] * math.Pi * d * L
		text := row[pit.BranchText]
		qext := row[pit.BranchQext]
		tlift := row[pit.BranchTLift]

		var G, dGdTin, dGdTout float64
		if L > 0 && !opts.Transient {
			a := surf / (mAbs * cp)
			e := math.Exp(-a)
			G = tout - text - (tin-text)*e - qext/(mAbs*cp) - tlift
			dGdTout = 1
			dGdTin = -e
		} else {
			G = mAbs*cp*(tout-tin-tlift) + surf*(0.5*(tin+tout)-text) - qext
			dGdTout = mAbs*cp + 0.5*surf
			dGdTin = -mAbs*cp + 0.5*surf
			if opts.Transient {
				rho := row[pit.BranchRho]
				if rho <= 0 {
					rho = med.Density(tm)
					row[pit.BranchRho] = rho
				}
				cap := rho * row[pit.BranchArea] * L * cp / opts.Dt
				G += cap * (tout - toutPrev[j])
				dGdTout += cap
			}
		}

		row[pit.BranchJacDTin] = dGdTin
		row[pit.BranchJacDTout] = dGdTout
		row[pit.BranchLoadT] = G
	}
	return nil
}
