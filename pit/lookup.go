// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pit

import (
	"github.com/cpmech/gosl/chk"
)

// Range holds a half-open row interval [A,B) in the pit
type Range struct {
	A, B int
}

// N returns the number of rows in the range
func (o Range) N() int { return o.B - o.A }

// Tables maps component table names to row ranges in the node and branch pits
// and holds the per-component side arrays. Lookups on unknown names panic:
// a missing table indicates a wiring bug, not a runtime condition.
type Tables struct {
	names    []string         // registration order
	tabnum   map[string]int   // table name => table number
	nodeRng  map[string]Range // table name => node row range
	brchRng  map[string]Range // table name => branch row range
	arrays   map[string][][]float64
	nnode    int
	nbranch  int
	finished bool
}

// NewTables returns an empty registry
func NewTables() (o *Tables) {
	o = new(Tables)
	o.tabnum = make(map[string]int)
	o.nodeRng = make(map[string]Range)
	o.brchRng = make(map[string]Range)
	o.arrays = make(map[string][][]float64)
	return
}

// Register reserves node and branch rows for one component table.
// Registration order determines table numbers and row placement.
// Registering after Finish would shift rows under an already allocated
// pit and panics.
func (o *Tables) Register(name string, nnode, nbranch int) {
	if o.finished {
		chk.Panic("cannot register component table %q after Finish", name)
	}
	if _, ok := o.tabnum[name]; ok {
		chk.Panic("component table %q registered twice", name)
	}
	o.tabnum[name] = len(o.names)
	o.names = append(o.names, name)
	o.nodeRng[name] = Range{o.nnode, o.nnode + nnode}
	o.brchRng[name] = Range{o.nbranch, o.nbranch + nbranch}
	o.nnode += nnode
	o.nbranch += nbranch
}

// Num returns the table number of a registered component table
func (o *Tables) Num(name string) int {
	num, ok := o.tabnum[name]
	if !ok {
		chk.Panic("unknown component table %q", name)
	}
	return num
}

// Nodes returns the node row range of a component table
func (o *Tables) Nodes(name string) Range {
	rng, ok := o.nodeRng[name]
	if !ok {
		chk.Panic("unknown component table %q", name)
	}
	return rng
}

// Branches returns the branch row range of a component table
func (o *Tables) Branches(name string) Range {
	rng, ok := o.brchRng[name]
	if !ok {
		chk.Panic("unknown component table %q", name)
	}
	return rng
}

// Finish seals the registry; the row layout is fixed from here on
func (o *Tables) Finish() { o.finished = true }

// Nnode returns the total number of node rows reserved so far
func (o *Tables) Nnode() int { return o.nnode }

// Nbranch returns the total number of branch rows reserved so far
func (o *Tables) Nbranch() int { return o.nbranch }

// NewArray allocates the side array of one component, sized to the
// component's element count (not the reduced pit). The array carries
// per-network component state; components must not keep such state in
// package or type level variables.
func (o *Tables) NewArray(name string, nele, ncol int) [][]float64 {
	if _, ok := o.arrays[name]; ok {
		chk.Panic("component array %q allocated twice", name)
	}
	a := make([][]float64, nele)
	for i := 0; i < nele; i++ {
		a[i] = make([]float64, ncol)
	}
	o.arrays[name] = a
	return a
}

// Array returns the side array of a component
func (o *Tables) Array(name string) [][]float64 {
	a, ok := o.arrays[name]
	if !ok {
		chk.Panic("unknown component array %q", name)
	}
	return a
}
