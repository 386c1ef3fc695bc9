// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comp

import (
	"github.com/cpmech/gosl/chk"

	"gopipes/fluid"
	"gopipes/pit"
)

// Junctions is the node-owning component table. Every network needs exactly
// one, registered first, so that all other components can resolve junction
// indices against it.
type Junctions struct {

	// input
	PInit     []float64 // [nele] initial pressure [bar gauge]
	TInit     []float64 // [nele] initial temperature [K]
	Height    []float64 // [nele] geodetic height [m]
	InService []bool    // [nele] in-service flags

	// results
	ResP []float64 // solved pressure [bar gauge]; NaN if out of service
	ResT []float64 // solved temperature [K]
}

// NewJunctions allocates n junctions with uniform initial state
func NewJunctions(n int, pinit, tinit float64) (o *Junctions) {
	o = new(Junctions)
	o.PInit = make([]float64, n)
	o.TInit = make([]float64, n)
	o.Height = make([]float64, n)
	o.InService = make([]bool, n)
	for i := 0; i < n; i++ {
		o.PInit[i] = pinit
		o.TInit[i] = tinit
		o.InService[i] = true
	}
	return
}

func (o *Junctions) Name() string     { return JunctionTable }
func (o *Junctions) NumNodes() int    { return len(o.PInit) }
func (o *Junctions) NumBranches() int { return 0 }

// CreateNodeEntries fills one node row per junction
func (o *Junctions) CreateNodeEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	chk.IntAssert(len(o.TInit), len(o.PInit))
	chk.IntAssert(len(o.Height), len(o.PInit))
	rng := tabs.Nodes(o.Name())
	num := float64(tabs.Num(o.Name()))
	for i := 0; i < o.NumNodes(); i++ {
		row := p.Node[rng.A+i]
		row[pit.NodeTable] = num
		row[pit.NodeElement] = float64(i)
		row[pit.NodeTypeP] = pit.NodeFree
		row[pit.NodeTypeT] = pit.NodeFree
		if o.InService[i] {
			row[pit.NodeActive] = 1
		}
		row[pit.NodeHeight] = o.Height[i]
		row[pit.NodeP] = o.PInit[i]
		row[pit.NodeT] = o.TInit[i]
	}
	return nil
}

func (o *Junctions) CreateBranchEntries(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	return nil
}

// ExtractResults reads solved pressures and temperatures
func (o *Junctions) ExtractResults(p *pit.Pit, tabs *pit.Tables, med *fluid.Medium, env *Env) error {
	rng := tabs.Nodes(o.Name())
	o.ResP = make([]float64, o.NumNodes())
	o.ResT = make([]float64, o.NumNodes())
	for i := 0; i < o.NumNodes(); i++ {
		o.ResP[i] = p.Node[rng.A+i][pit.NodeP]
		o.ResT[i] = p.Node[rng.A+i][pit.NodeT]
	}
	return nil
}
