// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package pit implements the flat per-node / per-branch numeric tables
// shared by all components and by the solver
package pit

import (
	"github.com/cpmech/gosl/utl"
)

// node pit columns
const (
	NodeTable   = iota // number of the component table owning this row
	NodeElement        // element index within the owning table
	NodeTypeP          // pressure node type: NodeFree, NodeSlack or NodeControlled
	NodeTypeT          // temperature node type: NodeFree or NodeSlack
	NodeActive         // in-service flag (1 or 0)
	NodeHeight         // geodetic height [m]
	NodeP              // pressure [bar gauge]
	NodePAmb           // height-corrected ambient pressure [bar]
	NodeT              // temperature [K]
	NodeLoad           // mass load [kg/s]; consumption positive
	NodeLoadT          // heat load [W]
	NodeOccP           // number of pressure boundaries attached to this node
	NodeOccT           // number of temperature boundaries attached to this node
	NodeInfeed         // net infeed marker, for temperature slack validation
	NodeMSlack         // solved slack mass-flow correction [kg/s]
	NodeNcol           // number of node columns
)

// node types (stored as float64 in the pit)
const (
	NodeFree       = 0.0 // solved pressure/temperature
	NodeSlack      = 1.0 // externally fixed value
	NodeControlled = 2.0 // fixed by a controlling branch
)

// branch pit columns
const (
	BranchTable    = iota // number of the component table owning this row
	BranchElement         // element index within the owning table
	BranchFrom            // from-node row; remapped in the active pit
	BranchTo              // to-node row; remapped in the active pit
	BranchActive          // in-service flag (1 or 0)
	BranchType            // BranchPlain or BranchPressCtrl
	BranchLength          // length [m]
	BranchD               // diameter [m]
	BranchArea            // cross-section area = π d²/4 [m²]
	BranchK               // absolute roughness [m]
	BranchZeta            // additional loss coefficient [-]
	BranchPLift           // pressure lift [bar]
	BranchTLift           // temperature lift [K]
	BranchMdot            // mass flow [kg/s]; positive from→to
	BranchTout            // outlet temperature [K]
	BranchRe              // Reynolds number [-]
	BranchLambda          // friction factor [-]
	BranchAlpha           // heat transfer coefficient [W/(m²K)]
	BranchText            // external (ambient) temperature [K]
	BranchQext            // external heat input [W]
	BranchSwitch          // 1 if from/to are swapped for the thermal pass
	BranchRho             // density at the branch mean state [kg/m³]
	BranchEta             // dynamic viscosity [Pa·s]
	BranchCp              // heat capacity [J/(kg·K)]
	BranchCompr           // compressibility factor at the medium pressure [-]
	BranchDCompr          // derivative of compressibility w.r.t. pressure [1/bar]
	BranchJacDm           // hydraulic Jacobian: ∂F/∂ṁ
	BranchJacDpf          // hydraulic Jacobian: ∂F/∂p_from
	BranchJacDpt          // hydraulic Jacobian: ∂F/∂p_to
	BranchJacDmNode       // node continuity derivative w.r.t. this branch flow
	BranchLoad            // hydraulic branch residual (load vector entry)
	BranchJacDTin         // thermal Jacobian: ∂G/∂T_in (flow corrected)
	BranchJacDTout        // thermal Jacobian: ∂G/∂T_out
	BranchLoadT           // thermal branch residual
	BranchNcol            // number of branch columns
)

// branch types (stored as float64 in the pit)
const (
	BranchPlain     = 0.0
	BranchPressCtrl = 1.0 // controls the pressure of a downstream node
)

// Pit holds the two flat tables: one row per node, one row per branch segment.
// Rows are allocated once per pipeflow invocation and mutated in place.
type Pit struct {
	Node   [][]float64 // [nnode][NodeNcol]
	Branch [][]float64 // [nbranch][BranchNcol]
}

// NewPit allocates a pit with all entries zeroed
func NewPit(nnode, nbranch int) (o *Pit) {
	o = new(Pit)
	o.Node = utl.Alloc(nnode, NodeNcol)
	o.Branch = utl.Alloc(nbranch, BranchNcol)
	return
}

// Nnode returns the number of node rows
func (o *Pit) Nnode() int { return len(o.Node) }

// Nbranch returns the number of branch rows
func (o *Pit) Nbranch() int { return len(o.Branch) }
