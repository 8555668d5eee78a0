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

// Install emits the primitive sequence that splices the merged pipeline's
// subgraph into the runtime graph between startPoint and endPoint, behind
// mount slot k (spec §4.4). mergedJSONPath is the splice artifact's
// on-disk path, passed verbatim to init_p4objects_new.
func Install(runtime, merged *graph.Graph, mergedJSONPath, startPoint, endPoint string, k int) ([]string, error) {
	if err := primitive.ValidateSlot(k); err != nil {
		return nil, err
	}
	mount := nametag.MountPoint(k)
	if runtime.HasVertex(mount) {
		return nil, diagnostics.New(diagnostics.InvalidCommand, "mount slot %d already in use", k)
	}

	edges := runtime.EdgesBetween(startPoint, endPoint)
	if len(edges) == 0 {
		return nil, diagnostics.New(diagnostics.InvalidCommand, "no edge from %s to %s to splice across", startPoint, endPoint)
	}
	labels := graph.EdgeLabels(edges)

	rootEdges := merged.OutEdges(nametag.Root)
	if len(rootEdges) != 1 {
		return nil, diagnostics.New(diagnostics.InvalidCommand, "merged pipeline must have exactly one edge from root, got %d", len(rootEdges))
	}
	entry := rootEdges[0].To

	var body []string
	for _, v := range merged.Vertices() {
		if v == nametag.Root || v == nametag.Sink {
			continue
		}
		body = append(body, v)
	}

	spliced, err := build(spliceOptions{
		body:       body,
		outEdges:   merged.OutEdges,
		exitTarget: nametag.Sink,
		mount:      mount,
		entry:      entry,
		endPoint:   endPoint,
		startPoint: startPoint,
		labels:     labels,
		slot:       k,
	})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(spliced)+1)
	out = append(out, fmt.Sprintf("init_p4objects_new %s", mergedJSONPath))
	out = append(out, spliced...)
	return out, nil
}
