// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comp

import (
	"gopipes/fluid"
	"gopipes/pit"
)

// ext-grid modes
const (
	ExtGridP  = "p"  // fixes pressure only
	ExtGridT  = "t"  // fixes temperature only
	ExtGridPT = "pt" // fixes both
)

// ExtGrids attach external supply grids to junctions, fixing pressure
// and/or temperature there. The attached junction becomes a slack node;
// the net mass flow exchanged with the grid is a solver unknown.
type ExtGrids struct {

	// input
	Junction []int     // [nele] attached junction
	P        []float64 // [nele] fixed pressure [bar gauge]
	T        []float64 // [nele] fixed temperature [K]
	Mode     []string  // [nele] ExtGridP, ExtGridT or ExtGridPT

	// results
	ResMdot []float64 // net mass flow into the network [kg/s]
}

// NewExtGrid returns a single ext grid fixing p and T at one junction
func NewExtGrid(junction int, pset, tset float64) *ExtGrids {
	return &ExtGrids{
		Junction: []int{junction},
		P:        []float64{pset},
		T:        []float64{tset},
		Mode:     []string{ExtGridPT},
	}
}

func (o *ExtGrids) Name() string     { return "ext_grid" }
func (o *ExtGrids) NumNodes() int    { return 0 }
func (o *ExtGrids) NumBranches() int { return 0 }

// CreateNodeEntries marks the attached junction rows as slack
func (o *ExtGrids) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	for i, j := range o.Junction {
		row := p.Node[jrow(tabs, j)]
		mode := o.Mode[i]
		if mode == ExtGridP || mode == ExtGridPT {
			row[pit.NodeTypeP] = pit.NodeSlack
			row[pit.NodeP] = o.P[i]
			row[pit.NodeOccP]++
		}
		if mode == ExtGridT || mode == ExtGridPT {
			row[pit.NodeTypeT] = pit.NodeSlack
			row[pit.NodeT] = o.T[i]
			row[pit.NodeOccT]++
		}
		row[pit.NodeInfeed] = 1
	}
	return nil
}

func (o *ExtGrids) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// ExtractResults reads the solved slack mass-flow corrections
func (o *ExtGrids) ExtractResults(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	o.ResMdot = make([]float64, len(o.Junction))
	for i, j := range o.Junction {
		o.ResMdot[i] = p.Node[jrow(tabs, j)][pit.NodeMSlack]
	}
	return nil
}

// Sinks withdraw a fixed mass flow at junctions
type Sinks struct {
	Junction []int     // [nele] attached junction
	Mdot     []float64 // [nele] withdrawal [kg/s], positive
}

// NewSink returns a single sink
func NewSink(junction int, mdot float64) *Sinks {
	return &Sinks{Junction: []int{junction}, Mdot: []float64{mdot}}
}

func (o *Sinks) Name() string     { return "sink" }
func (o *Sinks) NumNodes() int    { return 0 }
func (o *Sinks) NumBranches() int { return 0 }

// CreateNodeEntries adds the withdrawals to the junction loads
func (o *Sinks) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	for i, j := range o.Junction {
		p.Node[jrow(tabs, j)][pit.NodeLoad] += o.Mdot[i]
	}
	return nil
}

func (o *Sinks) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// Sources inject a fixed mass flow at junctions
type Sources struct {
	Junction []int     // [nele] attached junction
	Mdot     []float64 // [nele] injection [kg/s], positive
}

// NewSource returns a single source
func NewSource(junction int, mdot float64) *Sources {
	return &Sources{Junction: []int{junction}, Mdot: []float64{mdot}}
}

func (o *Sources) Name() string     { return "source" }
func (o *Sources) NumNodes() int    { return 0 }
func (o *Sources) NumBranches() int { return 0 }

// CreateNodeEntries subtracts the injections from the junction loads
func (o *Sources) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	for i, j := range o.Junction {
		p.Node[jrow(tabs, j)][pit.NodeLoad] -= o.Mdot[i]
	}
	return nil
}

func (o *Sources) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}
