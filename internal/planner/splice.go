// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

// Package planner implements the graph-diff planners of spec §4.4–§4.6:
// Install, Uninstall and Migrate each translate a high-level intent into
// a totally-ordered sequence of primitive command lines (spec §6).
package planner

import (
	"fmt"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/flexswitch/p4ctl/internal/graph"
	"github.com/flexswitch/p4ctl/internal/nametag"
	"github.com/flexswitch/p4ctl/internal/primitive"
)

// exit is a (source vertex, label) pair whose edge led to the splice's
// notional sink (old_s for Install, F for Migrate) and must be redirected
// to the operation's end point (spec §4.4 step 5-6).
type exit struct {
	from  string
	label string
}

// spliceOptions parameterizes the shared body of Install and Migrate
// (spec §4.4 steps 3-10, reused verbatim by §4.6): both splice a body of
// vertices behind a fresh mount branch and redirect one existing
// connection into it.
type spliceOptions struct {
	body       []string                    // vertices to `insert`, in declaration order, excluding root/sink/boundary
	outEdges   func(v string) []graph.Edge // outgoing edges to walk for each body vertex
	exitTarget string                      // the flex-name that marks "leaves the splice" (old_s, or F for Migrate)
	mount      string                      // this operation's mount-point flex-name
	entry      string                      // flex-name the mount's true_next should point to
	endPoint   string                      // flex-name the mount's false_next, and every exit, redirect to
	startPoint string                      // the existing connection being redirected into the mount
	labels     []string                    // labels of startPoint -> endPoint to redirect (ignored if startPoint is root)
	slot       int
}

// build emits the §4.4 steps 3 through 10 primitive sequence (insert
// mount, insert body, change body edges, redirect exits, wire the mount's
// two branches, redirect the original connection, trigger on).
func build(o spliceOptions) ([]string, error) {
	var out []string

	out = append(out, fmt.Sprintf("insert flex ingress %s null null", o.mount))

	for _, v := range o.body {
		kw, ok := nametag.TargetKeyword(v)
		if !ok {
			continue
		}
		out = append(out, fmt.Sprintf("insert %s ingress %s", kw, nametag.WireName(v)))
	}

	var exits []exit
	for _, v := range o.body {
		kw, ok := nametag.TargetKeyword(v)
		if !ok {
			continue
		}
		for _, e := range o.outEdges(v) {
			if e.To == o.exitTarget {
				exits = append(exits, exit{from: v, label: e.Label})
				continue
			}
			out = append(out, fmt.Sprintf("change %s ingress %s %s %s", kw, nametag.WireName(v), e.Label, nametag.WireOrNull(e.To)))
		}
	}

	endWire := nametag.WireOrNull(o.endPoint)
	for _, x := range exits {
		kw, _ := nametag.TargetKeyword(x.from)
		out = append(out, fmt.Sprintf("change %s ingress %s %s %s", kw, nametag.WireName(x.from), x.label, endWire))
	}

	out = append(out, fmt.Sprintf("change flex ingress %s false_next %s", o.mount, endWire))
	out = append(out, fmt.Sprintf("change flex ingress %s true_next %s", o.mount, nametag.WireOrNull(o.entry)))

	if o.startPoint == nametag.Root {
		out = append(out, fmt.Sprintf("change init ingress %s", o.mount))
	} else {
		kw, ok := nametag.TargetKeyword(o.startPoint)
		if !ok {
			return nil, diagnostics.New(diagnostics.InvalidCommand, "start point %q is not a table, conditional, or root", o.startPoint)
		}
		for _, l := range o.labels {
			out = append(out, fmt.Sprintf("change %s ingress %s %s %s", kw, nametag.WireName(o.startPoint), l, o.mount))
		}
	}

	out = append(out, fmt.Sprintf("trigger on %d", o.slot))

	for _, cmd := range out {
		if _, err := primitive.Parse(cmd); err != nil {
			return nil, diagnostics.Wrap(diagnostics.InvalidCommand, err, "planner produced an unparsable primitive %q", cmd)
		}
	}
	return out, nil
}
