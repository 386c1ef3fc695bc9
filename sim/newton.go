// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"github.com/cpmech/gosl/io"

	"gopipes/pit"
)

// meanAbsDiff returns the mean absolute difference between two states
func meanAbsDiff(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	sum := 0.0
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum / float64(len(a))
}

// allIncreased reports whether every error group grew w.r.t. the previous
// iteration
func allIncreased(now, prev []float64) bool {
	for i := range now {
		if now[i] <= prev[i] {
			return false
		}
	}
	return true
}

// damp adjusts the damping factor for the automatic method: halve when the
// iteration diverged in all groups, otherwise grow back towards one
func damp(alpha, alphaMin float64, diverged bool) float64 {
	if diverged {
		alpha *= 0.5
		if alpha < alphaMin {
			alpha = alphaMin
		}
		return alpha
	}
	alpha *= 2
	if alpha > 1 {
		alpha = 1
	}
	return alpha
}

// hydState backs up the hydraulic unknowns for error measurement and for
// the automatic method's rollback
type hydState struct {
	p, m, ms []float64
}

func saveHyd(act *pit.Active, sys *hydSystem, s *hydState) {
	for i, row := range act.Node {
		s.p[i] = row[pit.NodeP]
	}
	for j, row := range act.Branch {
		s.m[j] = row[pit.BranchMdot]
	}
	for k, i := range sys.slackNodes {
		s.ms[k] = act.Node[i][pit.NodeMSlack]
	}
}

func restoreHyd(act *pit.Active, sys *hydSystem, s *hydState) {
	for i, row := range act.Node {
		row[pit.NodeP] = s.p[i]
	}
	for j, row := range act.Branch {
		row[pit.BranchMdot] = s.m[j]
	}
	for k, i := range sys.slackNodes {
		act.Node[i][pit.NodeMSlack] = s.ms[k]
	}
}

func currentHyd(act *pit.Active, sys *hydSystem) (s hydState) {
	s.p = make([]float64, act.Nnode())
	s.m = make([]float64, act.Nbranch())
	s.ms = make([]float64, sys.ns)
	saveHyd(act, sys, &s)
	return
}

// solveHydraulics runs the damped Newton-Raphson iteration on the active
// hydraulic system until the pressure and mass-flow updates and the
// residual norm all drop below tolerance
func (o *Network) solveHydraulics(act *pit.Active, opts *Options) (it int, err error) {
	sys := buildHydSystem(act)
	lin := newLinSystem(sys.neq(), sys.nnz, opts.LinSolName, opts.OnlyUpdateHydMatrix)
	defer lin.free()
	ev := env(opts)

	old := currentHyd(act, sys)
	now := currentHyd(act, sys)
	alpha := opts.Alpha
	var prevErrs []float64

	for it = 1; it <= opts.MaxIterHyd; it++ {

		// derivative columns, with component hooks around them
		if err = o.adaptHyd(act, ev, false); err != nil {
			return
		}
		if err = calcDerivativesHyd(act, o.Med, opts); err != nil {
			return
		}
		if err = o.adaptHyd(act, ev, true); err != nil {
			return
		}

		// assemble and solve
		sys.assembleHyd(act, &lin.K, lin.fb)
		resid := lin.fb.Norm()
		if err = lin.solve(opts.Verbose); err != nil {
			return
		}

		// damped update
		saveHyd(act, sys, &old)
		sys.applyHyd(act, lin.dx, alpha)
		saveHyd(act, sys, &now)
		errs := []float64{
			meanAbsDiff(now.p, old.p),
			meanAbsDiff(now.m, old.m),
			meanAbsDiff(now.ms, old.ms),
		}
		if opts.Verbose {
			io.Pf("hyd it=%2d α=%.4f errP=%10.3e errM=%10.3e res=%10.3e\n",
				it, alpha, errs[0], errs[1], resid)
		}
		converged := errs[0] <= opts.TolP && errs[1] <= opts.TolM && errs[2] <= opts.TolM &&
			resid <= opts.TolRes

		if opts.NonlinMethod == NonlinAutomatic {
			diverged := prevErrs != nil && allIncreased(errs, prevErrs)
			alpha = damp(alpha, opts.AlphaMin, diverged)
			if alpha != 1 {
				// damped steps never count as converged; retry from the
				// previous state with the adjusted factor
				restoreHyd(act, sys, &old)
				converged = false
			}
		}
		prevErrs = errs

		if converged {
			return it, nil
		}
	}
	it = opts.MaxIterHyd
	return it, &NotConvergedError{Mode: ModeHydraulics, Iterations: it, Residual: lin.fb.Norm()}
}

// thermState backs up the thermal unknowns
type thermState struct {
	t, tout []float64
}

func saveTherm(act *pit.Active, s *thermState) {
	for i, row := range act.Node {
		s.t[i] = row[pit.NodeT]
	}
	for j, row := range act.Branch {
		s.tout[j] = row[pit.BranchTout]
	}
}

func restoreTherm(act *pit.Active, s *thermState) {
	for i, row := range act.Node {
		row[pit.NodeT] = s.t[i]
	}
	for j, row := range act.Branch {
		row[pit.BranchTout] = s.tout[j]
	}
}

func currentTherm(act *pit.Active) (s thermState) {
	s.t = make([]float64, act.Nnode())
	s.tout = make([]float64, act.Nbranch())
	saveTherm(act, &s)
	return
}

// solveThermal runs the damped Newton-Raphson iteration on the active
// thermal system. The branch switches and, for transient stepping, the
// previous outlet temperatures are frozen before iterating.
func (o *Network) solveThermal(act *pit.Active, opts *Options) (it int, err error) {
	setBranchSwitch(act)
	toutPrev := snapshotTout(act)
	sys := buildThermSystem(act)
	lin := newLinSystem(sys.neq(), sys.nnz, opts.LinSolName, false)
	defer lin.free()
	ev := env(opts)

	old := currentTherm(act)
	now := currentTherm(act)
	alpha := opts.Alpha
	var prevErrs []float64

	for it = 1; it <= opts.MaxIterTherm; it++ {

		if err = o.adaptTherm(act, ev, false); err != nil {
			return
		}
		if err = calcDerivativesTherm(act, o.Med, opts, toutPrev); err != nil {
			return
		}
		if err = o.adaptTherm(act, ev, true); err != nil {
			return
		}

		sys.assembleTherm(act, &lin.K, lin.fb, opts.AmbientTemp)
		resid := lin.fb.Norm()
		if err = lin.solve(opts.Verbose); err != nil {
			return
		}

		saveTherm(act, &old)
		sys.applyTherm(act, lin.dx, alpha)
		saveTherm(act, &now)
		errs := []float64{
			meanAbsDiff(now.t, old.t),
			meanAbsDiff(now.tout, old.tout),
		}
		if opts.Verbose {
			io.Pf("thm it=%2d α=%.4f errT=%10.3e errTo=%10.3e res=%10.3e\n",
				it, alpha, errs[0], errs[1], resid)
		}
		converged := errs[0] <= opts.TolT && errs[1] <= opts.TolT && resid <= opts.TolRes

		if opts.NonlinMethod == NonlinAutomatic {
			diverged := prevErrs != nil && allIncreased(errs, prevErrs)
			alpha = damp(alpha, opts.AlphaMin, diverged)
			if alpha != 1 {
				restoreTherm(act, &old)
				converged = false
			}
		}
		prevErrs = errs

		if converged {
			return it, nil
		}
	}
	it = opts.MaxIterTherm
	return it, &NotConvergedError{Mode: ModeHeat, Iterations: it, Residual: lin.fb.Norm()}
}
