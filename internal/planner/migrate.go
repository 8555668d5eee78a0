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

// Migrate emits the primitive sequence that copies the subgraph currently
// mounted at sourceSlot on the source switch onto the destination switch,
// splicing it between destStartPoint and destEndPoint behind destSlot
// (spec §4.6). The source switch is left untouched — this is a copy, not
// a move.
func Migrate(
	sourceSwitch, destSwitch string,
	source *graph.Graph, sourceSlot int,
	dest *graph.Graph, destMigrateJSONPath, destStartPoint, destEndPoint string, destSlot int,
) ([]string, error) {
	if err := primitive.ValidateSlot(sourceSlot); err != nil {
		return nil, err
	}
	if err := primitive.ValidateSlot(destSlot); err != nil {
		return nil, err
	}

	sourceMount := nametag.MountPoint(sourceSlot)
	entry, bodyBoundary, err := mountBranch(source, sourceMount)
	if err != nil {
		return nil, err
	}

	destMount := nametag.MountPoint(destSlot)
	if dest.HasVertex(destMount) {
		return nil, diagnostics.New(diagnostics.InvalidCommand, "destination mount slot %d already in use", destSlot)
	}
	destEdges := dest.EdgesBetween(destStartPoint, destEndPoint)
	if len(destEdges) == 0 {
		return nil, diagnostics.New(diagnostics.InvalidCommand, "no edge from %s to %s on destination to splice across", destStartPoint, destEndPoint)
	}
	labels := graph.EdgeLabels(destEdges)

	body := source.Reachable(entry, bodyBoundary)

	spliced, err := build(spliceOptions{
		body:       body,
		outEdges:   source.OutEdges,
		exitTarget: bodyBoundary,
		mount:      destMount,
		entry:      entry,
		endPoint:   destEndPoint,
		startPoint: destStartPoint,
		labels:     labels,
		slot:       destSlot,
	})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(spliced)+3)
	out = append(out, fmt.Sprintf("connect %s", destSwitch))
	out = append(out, fmt.Sprintf("init_p4objects_new %s", destMigrateJSONPath))
	out = append(out, spliced...)
	out = append(out, fmt.Sprintf("connect %s", sourceSwitch))
	return out, nil
}
