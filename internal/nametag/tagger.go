// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

package nametag

import (
	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/flexswitch/p4ctl/internal/pipeline"
)

// TagInitial assigns old_* flex-names to every table and conditional of a
// freshly-loaded initial pipeline (spec §4.3). It mutates a copy and
// returns it; persistence is the caller's concern (spec §9: taggers are
// pure, writing the tagged artifact is a distinct side effect).
func TagInitial(p *pipeline.Pipeline) (*pipeline.Pipeline, error) {
	return tag(p, PrefixOld)
}

// TagMerged assigns new_* flex-names to every table and conditional of a
// compiled splice pipeline (spec §4.3).
func TagMerged(p *pipeline.Pipeline) (*pipeline.Pipeline, error) {
	return tag(p, PrefixNew)
}

func tag(p *pipeline.Pipeline, prefix string) (*pipeline.Pipeline, error) {
	if len(p.ActionCalls) > 0 && string(p.ActionCalls) != "null" {
		return nil, diagnostics.New(diagnostics.MalformedPipeline, "action_calls is not supported")
	}
	out := *p
	out.Tables = append([]pipeline.Table(nil), p.Tables...)
	out.Conditionals = append([]pipeline.Conditional(nil), p.Conditionals...)
	for i := range out.Tables {
		out.Tables[i].FlexName = TableFlex(prefix, out.Tables[i].Name)
	}
	for i := range out.Conditionals {
		out.Conditionals[i].FlexName = ConditionalFlex(prefix, out.Conditionals[i].Name)
	}
	return &out, nil
}

// TagMigrate renames every old_* flex-name in a runtime pipeline to new_*,
// preserving any flx_* flex-name (spec §3, §4.3, §8 property 6). It fails
// with MissingTag if any table/conditional lacks a flex-name.
func TagMigrate(p *pipeline.Pipeline) (*pipeline.Pipeline, error) {
	if err := p.RequireTags(); err != nil {
		return nil, err
	}
	out := *p
	out.Tables = append([]pipeline.Table(nil), p.Tables...)
	out.Conditionals = append([]pipeline.Conditional(nil), p.Conditionals...)
	for i := range out.Tables {
		out.Tables[i].FlexName = migrateOne(out.Tables[i].FlexName)
	}
	for i := range out.Conditionals {
		out.Conditionals[i].FlexName = migrateOne(out.Conditionals[i].FlexName)
	}
	return &out, nil
}

func migrateOne(flex string) string {
	if IsFlx(flex) {
		return flex
	}
	if len(flex) >= 4 && flex[:4] == PrefixOld {
		return PrefixNew + flex[4:]
	}
	return flex
}
