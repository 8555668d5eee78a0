// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"fmt"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/flexswitch/p4ctl/internal/nametag"
	"github.com/flexswitch/p4ctl/internal/pipeline"
)

// Diagnostic is a non-fatal dangling-reference report from Build (spec
// §4.2: "Any successor name not present in the map is reported as a
// dangling reference diagnostic (non-fatal; edge is omitted)").
type Diagnostic struct {
	From  string // flex-name of the node with the dangling successor
	Label string // edge label that would have been emitted
	Ref   string // the unresolved original object name
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("dangling reference: %s -%s-> %q", d.From, d.Label, d.Ref)
}

type builder struct {
	g          *Graph
	nameToFlex map[string]string
	diags      []Diagnostic
}

// Build constructs the annotated directed multigraph for a tagged ingress
// pipeline (spec §4.2). Vertex insertion follows the pipeline's declared
// order (tables, then conditionals) so that vertex iteration is
// deterministic, as required by spec §8.
func Build(p *pipeline.Pipeline) (*Graph, []Diagnostic, error) {
	if err := p.RequireTags(); err != nil {
		return nil, nil, err
	}

	b := &builder{
		g:          New(),
		nameToFlex: make(map[string]string, len(p.Tables)+len(p.Conditionals)+1),
	}
	b.g.AddVertex(nametag.Root)
	b.g.AddVertex(nametag.Sink)
	b.nameToFlex[""] = nametag.Sink // null -> sink (spec §4.2 step 2)

	for _, t := range p.Tables {
		b.g.AddVertex(t.FlexName)
		b.nameToFlex[t.Name] = t.FlexName
	}
	for _, c := range p.Conditionals {
		b.g.AddVertex(c.FlexName)
		b.nameToFlex[c.Name] = c.FlexName
	}

	entryFlex, ok := b.nameToFlex[p.InitTable]
	if !ok {
		return nil, nil, diagnostics.New(diagnostics.MalformedPipeline, "init_table %q not found among tables", p.InitTable)
	}
	b.g.AddEdge(nametag.Root, entryFlex, "base_default_next")

	for _, t := range p.Tables {
		if next, omit := b.resolve(t.BaseDefaultNext); !omit {
			b.g.AddEdge(t.FlexName, next, "base_default_next")
		} else {
			b.diags = append(b.diags, Diagnostic{From: t.FlexName, Label: "base_default_next", Ref: orEmpty(t.BaseDefaultNext)})
		}
		for _, entry := range t.NextTables.Entries() {
			if next, omit := b.resolve(entry.Next); !omit {
				b.g.AddEdge(t.FlexName, next, entry.Label)
			} else {
				b.diags = append(b.diags, Diagnostic{From: t.FlexName, Label: entry.Label, Ref: orEmpty(entry.Next)})
			}
		}
	}

	for _, c := range p.Conditionals {
		if next, omit := b.resolve(c.TrueNext); !omit {
			b.g.AddEdge(c.FlexName, next, "true_next")
		} else {
			b.diags = append(b.diags, Diagnostic{From: c.FlexName, Label: "true_next", Ref: orEmpty(c.TrueNext)})
		}
		if next, omit := b.resolve(c.FalseNext); !omit {
			b.g.AddEdge(c.FlexName, next, "false_next")
		} else {
			b.diags = append(b.diags, Diagnostic{From: c.FlexName, Label: "false_next", Ref: orEmpty(c.FalseNext)})
		}
	}

	return b.g, b.diags, nil
}

// resolve maps a successor reference to its flex-name. A nil reference is
// the explicit "null" of spec invariant 3 and always resolves to the
// sink, never a dangling diagnostic. A non-nil reference that names no
// known table/conditional is dangling: the caller omits the edge.
func (b *builder) resolve(name *string) (flex string, omit bool) {
	if name == nil {
		return nametag.Sink, false
	}
	if flex, ok := b.nameToFlex[*name]; ok {
		return flex, false
	}
	return "", true
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
