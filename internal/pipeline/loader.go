// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
)

// IngressName is the conventional name of the ingress pipeline element
// within Document.Pipelines, matching the bmv2/simple_switch JSON
// convention the original compiler emits.
const IngressName = "ingress"

// Parse decodes a compiled pipeline description and returns its ingress
// sub-object. It fails with MalformedPipeline if the ingress pipeline is
// absent or if action_calls is present (spec §3, §4.1: "An optional
// action_calls field is explicitly unsupported — presence is a fatal
// configuration error").
func Parse(data []byte) (*Document, *Pipeline, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, diagnostics.Wrap(diagnostics.MalformedPipeline, err, "invalid pipeline JSON")
	}

	var ingress *Pipeline
	for i := range doc.Pipelines {
		if strings.EqualFold(doc.Pipelines[i].Name, IngressName) {
			ingress = &doc.Pipelines[i]
			break
		}
	}
	if ingress == nil {
		return nil, nil, diagnostics.New(diagnostics.MalformedPipeline, "no ingress pipeline present")
	}
	if len(ingress.ActionCalls) > 0 && string(ingress.ActionCalls) != "null" {
		return nil, nil, diagnostics.New(diagnostics.MalformedPipeline, "action_calls is not supported")
	}
	return &doc, ingress, nil
}

// RequireTags fails with MissingTag if any table or conditional lacks a
// previously-assigned flex-name, the precondition the Graph Builder (C2)
// and the migration tagger (C3) both rely on.
func (p *Pipeline) RequireTags() error {
	for _, t := range p.Tables {
		if t.FlexName == "" {
			return diagnostics.New(diagnostics.MissingTag, "table %q has no flex-name tag", t.Name)
		}
	}
	for _, c := range p.Conditionals {
		if c.FlexName == "" {
			return diagnostics.New(diagnostics.MissingTag, "conditional %q has no flex-name tag", c.Name)
		}
	}
	return nil
}

// Marshal re-serializes the full document (used by taggers and the
// session controller to persist a tagged artifact before upload).
func (d *Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
