// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

package planner

import (
	"fmt"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/flexswitch/p4ctl/internal/graph"
	"github.com/flexswitch/p4ctl/internal/nametag"
	"github.com/flexswitch/p4ctl/internal/primitive"
)

// mountBranch resolves a mount-point branch's true_next/false_next
// targets, failing if the branch is missing or does not carry exactly
// the two expected outgoing edges (spec §4.5 precondition).
func mountBranch(g *graph.Graph, mount string) (trueNext, falseNext string, err error) {
	if !g.HasVertex(mount) {
		return "", "", diagnostics.New(diagnostics.InvalidCommand, "mount branch %s does not exist", mount)
	}
	edges := g.OutEdges(mount)
	if len(edges) != 2 {
		return "", "", diagnostics.New(diagnostics.InvalidCommand, "mount branch %s must have exactly 2 outgoing edges, got %d", mount, len(edges))
	}
	for _, e := range edges {
		switch e.Label {
		case "true_next":
			trueNext = e.To
		case "false_next":
			falseNext = e.To
		default:
			return "", "", diagnostics.New(diagnostics.InvalidCommand, "mount branch %s has unexpected edge label %q", mount, e.Label)
		}
	}
	if trueNext == "" || falseNext == "" {
		return "", "", diagnostics.New(diagnostics.InvalidCommand, "mount branch %s is missing true_next or false_next", mount)
	}
	return trueNext, falseNext, nil
}

// Uninstall emits the primitive sequence that removes the subgraph
// mounted at slot k, bypassing it so its parent reconnects directly to
// its downstream continuation F (spec §4.5).
func Uninstall(runtime *graph.Graph, k int) ([]string, error) {
	if err := primitive.ValidateSlot(k); err != nil {
		return nil, err
	}
	mount := nametag.MountPoint(k)

	trueNext, falseNext, err := mountBranch(runtime, mount)
	if err != nil {
		return nil, err
	}

	var out []string
	out = append(out, fmt.Sprintf("trigger off %d", k))

	body := runtime.Reachable(trueNext, falseNext)
	bodySet := make(map[string]bool, len(body))
	for _, v := range body {
		bodySet[v] = true
	}
	for _, v := range runtime.Vertices() {
		if !bodySet[v] {
			continue
		}
		kw, ok := nametag.TargetKeyword(v)
		if !ok {
			continue
		}
		out = append(out, fmt.Sprintf("delete %s ingress %s", kw, nametag.WireName(v)))
	}

	parents := runtime.InEdges(mount)
	fWire := nametag.WireOrNull(falseNext)
	for _, e := range parents {
		if e.From == nametag.Root {
			if len(parents) != 1 {
				return nil, diagnostics.New(diagnostics.InvalidCommand, "root cannot be one of multiple parents of mount branch %s", mount)
			}
			out = append(out, fmt.Sprintf("change init ingress %s", fWire))
			continue
		}
		kw, ok := nametag.TargetKeyword(e.From)
		if !ok {
			return nil, diagnostics.New(diagnostics.InvalidCommand, "mount branch %s has a parent %q that is not root, table, or conditional", mount, e.From)
		}
		out = append(out, fmt.Sprintf("change %s ingress %s %s %s", kw, nametag.WireName(e.From), e.Label, fWire))
	}

	out = append(out, fmt.Sprintf("delete flex ingress %s", mount))
	return out, nil
}

