// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pit

import (
	"github.com/cpmech/gosl/chk"
)

// Active is the connectivity-reduced copy of the pit used for an actual
// solve. It holds fresh compacted copies of the kept rows, with from/to
// node references remapped by cumulative-count reindexing. It is rebuilt
// for every solve pass and discarded afterwards.
type Active struct {
	Node      [][]float64 // compacted node rows
	Branch    [][]float64 // compacted branch rows, from/to remapped
	NodeIdx   []int       // active node row => full pit row
	BranchIdx []int       // active branch row => full pit row
	newNode   []int       // full pit row => active row, or -1 if excised
}

// NewActive compacts the pit to the rows flagged in keepNode/keepBranch.
// A kept branch whose from or to node was excised indicates inconsistent
// topology and is a bug in the caller's reduction.
func NewActive(p *Pit, keepNode, keepBranch []bool) (o *Active) {
	chk.IntAssert(len(keepNode), p.Nnode())
	chk.IntAssert(len(keepBranch), p.Nbranch())
	o = new(Active)

	// cumulative-count reindexing of nodes
	o.newNode = make([]int, p.Nnode())
	for i := 0; i < p.Nnode(); i++ {
		if keepNode[i] {
			o.newNode[i] = len(o.NodeIdx)
			o.NodeIdx = append(o.NodeIdx, i)
		} else {
			o.newNode[i] = -1
		}
	}

	// copy node rows
	o.Node = make([][]float64, len(o.NodeIdx))
	for i, full := range o.NodeIdx {
		row := make([]float64, NodeNcol)
		copy(row, p.Node[full])
		o.Node[i] = row
	}

	// copy branch rows and remap from/to
	for j := 0; j < p.Nbranch(); j++ {
		if !keepBranch[j] {
			continue
		}
		row := make([]float64, BranchNcol)
		copy(row, p.Branch[j])
		from := o.newNode[int(row[BranchFrom])]
		to := o.newNode[int(row[BranchTo])]
		if from < 0 || to < 0 {
			chk.Panic("internal error: kept branch %d references excised node (from=%d to=%d)", j, from, to)
		}
		row[BranchFrom] = float64(from)
		row[BranchTo] = float64(to)
		o.Branch = append(o.Branch, row)
		o.BranchIdx = append(o.BranchIdx, j)
	}
	return
}

// Nnode returns the number of active node rows
func (o *Active) Nnode() int { return len(o.Node) }

// Nbranch returns the number of active branch rows
func (o *Active) Nbranch() int { return len(o.Branch) }

// NodeRow returns the active row of a full pit node row, or -1 if excised
func (o *Active) NodeRow(full int) int { return o.newNode[full] }

// NodeRows returns the active node rows whose full pit rows lie in rng
func (o *Active) NodeRows(rng Range) (rows []int) {
	for i, full := range o.NodeIdx {
		if full >= rng.A && full < rng.B {
			rows = append(rows, i)
		}
	}
	return
}

// BranchRows returns the active branch rows whose full pit rows lie in rng
func (o *Active) BranchRows(rng Range) (rows []int) {
	for j, full := range o.BranchIdx {
		if full >= rng.A && full < rng.B {
			rows = append(rows, j)
		}
	}
	return
}

// Writeback transcribes the given columns of all active rows into the
// full pit. From/to references keep their full-pit values there.
func (o *Active) Writeback(p *Pit, nodeCols, branchCols []int) {
	for i, full := range o.NodeIdx {
		for _, c := range nodeCols {
			p.Node[full][c] = o.Node[i][c]
		}
	}
	for j, full := range o.BranchIdx {
		for _, c := range branchCols {
			p.Branch[full][c] = o.Branch[j][c]
		}
	}
}
