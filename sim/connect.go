// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/lvlath/go/bfs"
	"github.com/lvlath/go/core"

	"gopipes/pit"
)

// virtual vertex tying all slack nodes into one BFS root
const slackRoot = "slack"

// nodeID formats a full pit node row as a graph vertex ID
func nodeID(row int) string { return io.Sf("%d", row) }

// reachableFromSlack builds the undirected connectivity graph over the
// nodes flagged as slack by isSlack and the branches admitted by useBranch,
// then returns the full pit node rows reachable from any slack node.
// Out-of-service nodes take part in the walk so that inconsistencies
// (in-service branches leading to out-of-service nodes) can be detected.
func reachableFromSlack(p *pit.Pit, isSlack func(i int) bool, useBranch func(j int) bool) (map[int]bool, error) {
	g, err := core.NewGraph(core.WithMultiEdges(), core.WithLoops())
	if err != nil {
		return nil, err
	}
	if err := g.AddVertex(slackRoot); err != nil {
		return nil, err
	}
	nslack := 0
	for i := 0; i < p.Nnode(); i++ {
		if isSlack(i) {
			if _, err := g.AddEdge(slackRoot, nodeID(i), 0); err != nil {
				return nil, err
			}
			nslack++
		}
	}
	if nslack == 0 {
		return nil, chk.Err("network has no pressure or temperature boundary to start from")
	}
	for j := 0; j < p.Nbranch(); j++ {
		if !useBranch(j) {
			continue
		}
		row := p.Branch[j]
		from := nodeID(int(row[pit.BranchFrom]))
		to := nodeID(int(row[pit.BranchTo]))
		if _, err := g.AddEdge(from, to, 0); err != nil {
			return nil, err
		}
	}
	res, err := bfs.BFS(g, slackRoot)
	if err != nil {
		return nil, err
	}
	reached := make(map[int]bool, len(res.Depth))
	for i := 0; i < p.Nnode(); i++ {
		if _, ok := res.Depth[nodeID(i)]; ok {
			reached[i] = true
		}
	}
	return reached, nil
}

// applyReachability turns a reachability set into keep masks. Reached
// nodes that are out of service either fail the invocation or are put
// back in service with a warning.
func applyReachability(p *pit.Pit, reached map[int]bool, quit bool) (keepNode, keepBranch []bool, err error) {
	keepNode = make([]bool, p.Nnode())
	for i := 0; i < p.Nnode(); i++ {
		if !reached[i] {
			continue
		}
		if p.Node[i][pit.NodeActive] != 1 {
			if quit {
				err = chk.Err("node row %d is out of service but reachable through in-service branches", i)
				return
			}
			io.Pfyel("node row %d is out of service but reachable; putting it back in service\n", i)
			p.Node[i][pit.NodeActive] = 1
		}
		keepNode[i] = true
	}
	keepBranch = make([]bool, p.Nbranch())
	for j := 0; j < p.Nbranch(); j++ {
		row := p.Branch[j]
		if row[pit.BranchActive] != 1 {
			continue
		}
		keepBranch[j] = keepNode[int(row[pit.BranchFrom])] && keepNode[int(row[pit.BranchTo])]
	}
	return
}

// reduceHydraulic compacts the pit to the hydraulic subnetwork reachable
// from a pressure-slack node. With the connectivity check off only the
// in-service flags decide.
func reduceHydraulic(p *pit.Pit, opts *Options) (*pit.Active, error) {
	isSlack := func(i int) bool {
		return p.Node[i][pit.NodeActive] == 1 && p.Node[i][pit.NodeTypeP] == pit.NodeSlack
	}
	if !opts.CheckConnectivity {
		keepNode := make([]bool, p.Nnode())
		for i := range keepNode {
			keepNode[i] = p.Node[i][pit.NodeActive] == 1
		}
		keepBranch := make([]bool, p.Nbranch())
		for j := range keepBranch {
			row := p.Branch[j]
			keepBranch[j] = row[pit.BranchActive] == 1 &&
				keepNode[int(row[pit.BranchFrom])] && keepNode[int(row[pit.BranchTo])]
		}
		return pit.NewActive(p, keepNode, keepBranch), nil
	}
	useBranch := func(j int) bool { return p.Branch[j][pit.BranchActive] == 1 }
	reached, err := reachableFromSlack(p, isSlack, useBranch)
	if err != nil {
		return nil, err
	}
	keepNode, keepBranch, err := applyReachability(p, reached, opts.QuitOnInconsistency)
	if err != nil {
		return nil, err
	}
	return pit.NewActive(p, keepNode, keepBranch), nil
}

// reduceThermal compacts the pit to the thermal subnetwork: nodes
// reachable from a temperature-slack node through branches that actually
// carry flow. Stagnant regions keep the ambient temperature instead of
// entering the system.
func reduceThermal(p *pit.Pit, opts *Options) (*pit.Active, error) {
	isSlack := func(i int) bool {
		return p.Node[i][pit.NodeActive] == 1 && p.Node[i][pit.NodeTypeT] == pit.NodeSlack
	}
	useBranch := func(j int) bool {
		return p.Branch[j][pit.BranchActive] == 1 &&
			math.Abs(p.Branch[j][pit.BranchMdot]) > ZeroFlow
	}
	reached, err := reachableFromSlack(p, isSlack, useBranch)
	if err != nil {
		return nil, err
	}
	keepNode, keepBranch, err := applyReachability(p, reached, opts.QuitOnInconsistency)
	if err != nil {
		return nil, err
	}
	// flow-corrected reduction still excludes stagnant branches
	for j := range keepBranch {
		keepBranch[j] = keepBranch[j] && useBranch(j)
	}
	return pit.NewActive(p, keepNode, keepBranch), nil
}
