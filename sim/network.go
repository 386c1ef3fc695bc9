// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"gopipes/comp"
	"gopipes/fluid"
	"gopipes/pit"
)

// Results holds iteration counters and solved state vectors of the last
// pipeflow invocation
type Results struct {
	ItHyd          int  // hydraulic Newton iterations performed
	ItTherm        int  // thermal Newton iterations performed
	ItBidirect     int  // outer bidirectional steps performed
	ConvergedHyd   bool // hydraulic pass converged
	ConvergedTherm bool // thermal pass converged
}

// Network holds the medium, the components in registration order and the
// pit tables built from them. A Network is rebuilt (tables, pit, arrays)
// on every pipeflow invocation; only the component result fields persist.
type Network struct {
	Med   *fluid.Medium    // transported medium
	Comps []comp.Component // components, in registration order
	Tabs  *pit.Tables      // component table registry of the last invocation
	Pit   *pit.Pit         // full pit of the last invocation
	Res   Results          // counters of the last invocation
}

// NewNetwork returns a network transporting the given medium
func NewNetwork(med *fluid.Medium) *Network {
	return &Network{Med: med}
}

// Register appends components. Table names must be unique across the
// network; a duplicate is a wiring error.
func (o *Network) Register(comps ...comp.Component) error {
	for _, c := range comps {
		for _, have := range o.Comps {
			if have.Name() == c.Name() {
				return chk.Err("component table %q registered twice; merge the elements into one component", c.Name())
			}
		}
		o.Comps = append(o.Comps, c)
	}
	return nil
}

// env maps solver options onto the component callback environment
func env(opts *Options) *comp.Env {
	return &comp.Env{
		AmbientTemp:    opts.AmbientTemp,
		MdotInit:       opts.MdotInit,
		CalcComprPower: opts.CalcCompressionPower,
		Transient:      opts.Transient,
		Dt:             opts.Dt,
		Verbose:        opts.Verbose,
	}
}

// barometric returns the height-corrected ambient pressure [bar]
func barometric(height float64) float64 {
	return fluid.NormPressure * math.Pow(1.0-2.25577e-5*height, 5.25588)
}

// initialize builds the tables and the pit from scratch and lets every
// component fill its rows, then derives the ambient-pressure column and
// checks geometric consistency
func (o *Network) initialize(opts *Options) error {
	o.Tabs = pit.NewTables()
	for _, c := range o.Comps {
		o.Tabs.Register(c.Name(), c.NumNodes(), c.NumBranches())
	}
	o.Tabs.Finish()
	o.Pit = pit.NewPit(o.Tabs.Nnode(), o.Tabs.Nbranch())
	ev := env(opts)
	for _, c := range o.Comps {
		if w, ok := c.(comp.WithArray); ok {
			w.CreateArray(o.Tabs)
		}
	}
	for _, c := range o.Comps {
		if err := c.CreateNodeEntries(o.Pit, o.Tabs, o.Med, ev); err != nil {
			return err
		}
	}
	for _, c := range o.Comps {
		if err := c.CreateBranchEntries(o.Pit, o.Tabs, o.Med, ev); err != nil {
			return err
		}
	}
	for _, row := range o.Pit.Node {
		row[pit.NodePAmb] = barometric(row[pit.NodeHeight])
	}
	// dimensionless control branches carry no diameter; everything else
	// must keep diameter and area consistent
	for i, row := range o.Pit.Branch {
		d := row[pit.BranchD]
		if d <= 0 {
			continue
		}
		area := math.Pi * d * d / 4.0
		if math.Abs(row[pit.BranchArea]-area) > 1e-12*area {
			return chk.Err("branch row %d area %g does not match diameter %g", i, row[pit.BranchArea], d)
		}
	}
	return nil
}

// adaptHyd runs the before- or after-derivative hydraulic hooks of all
// components, in registration order
func (o *Network) adaptHyd(act *pit.Active, ev *comp.Env, after bool) error {
	for _, c := range o.Comps {
		a, ok := c.(comp.HydraulicAdapter)
		if !ok {
			continue
		}
		var err error
		if after {
			err = a.AdaptAfterDerivativesHyd(act, o.Tabs, o.Med, ev)
		} else {
			err = a.AdaptBeforeDerivativesHyd(act, o.Tabs, o.Med, ev)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// adaptTherm is the thermal counterpart of adaptHyd
func (o *Network) adaptTherm(act *pit.Active, ev *comp.Env, after bool) error {
	for _, c := range o.Comps {
		a, ok := c.(comp.ThermalAdapter)
		if !ok {
			continue
		}
		var err error
		if after {
			err = a.AdaptAfterDerivativesTherm(act, o.Tabs, o.Med, ev)
		} else {
			err = a.AdaptBeforeDerivativesTherm(act, o.Tabs, o.Med, ev)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// extractResults transcribes solved pit values into component result
// fields, in registration order
func (o *Network) extractResults(ev *comp.Env) error {
	for _, c := range o.Comps {
		if e, ok := c.(comp.ResultExtractor); ok {
			if err := e.ExtractResults(o.Pit, o.Tabs, o.Med, ev); err != nil {
				return err
			}
		}
	}
	return nil
}
