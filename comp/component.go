// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package comp implements network components. Components populate and read
// their own row ranges of the pit; the solver invokes their hooks in fixed
// registration order, once per phase.
package comp

import (
	"gopipes/fluid"
	"gopipes/pit"
)

// Env carries per-solve environment data handed to component callbacks
type Env struct {
	AmbientTemp    float64 // [K] fallback/ambient temperature
	MdotInit       float64 // [kg/s] initial mass-flow guess for branches
	CalcComprPower bool    // compute compressor power during result extraction
	Transient      bool    // transient thermal stepping active
	Dt             float64 // [s] time step for transient stepping
	Verbose        bool    // show messages
}

// Component defines what all components must implement
type Component interface {

	// information
	Name() string     // unique table name
	NumNodes() int    // number of node rows owned
	NumBranches() int // number of branch rows owned

	// called once per pipeflow invocation, in registration order
	CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error
	CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error
}

// WithArray defines components carrying a per-network side array. The array
// is sized to the component's element count and owned by the component; it
// replaces any class- or package-level mutable state.
type WithArray interface {
	CreateArray(tabs *pit.Tables)
}

// HydraulicAdapter defines components that rewrite branch/node pit fields
// around the hydraulic derivative computation. Before-hooks may mutate
// inputs such as the pressure lift; after-hooks may override Jacobian rows
// entirely, e.g. to pin a fixed mass flow.
type HydraulicAdapter interface {
	AdaptBeforeDerivativesHyd(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *Env) error
	AdaptAfterDerivativesHyd(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *Env) error
}

// ThermalAdapter is the thermal counterpart of HydraulicAdapter
type ThermalAdapter interface {
	AdaptBeforeDerivativesTherm(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *Env) error
	AdaptAfterDerivativesTherm(act *pit.Active, tabs *pit.Tables, med *fluid.Medium, env *Env) error
}

// ResultExtractor defines components that transcribe solved pit values into
// their result fields after a pipeflow invocation
type ResultExtractor interface {
	ExtractResults(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error
}

// JunctionTable is the name of the node-owning junction table; all other
// components resolve their junction references against it
const JunctionTable = "junction"

// jrow returns the full-pit node row of a junction index
func jrow(tabs *pit.Tables, junction int) int {
	return tabs.Nodes(JunctionTable).A + junction
}
