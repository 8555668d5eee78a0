// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

// Package primitive parses and validates the textual reconfiguration
// primitives of spec §4.7/§6: action, target, arity. Every primitive a
// planner emits must round-trip through Parse without error (spec §8
// property 3).
package primitive

import (
	"strconv"
	"strings"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
)

// Action keywords.
const (
	Insert  = "insert"
	Change  = "change"
	Delete  = "delete"
	Trigger = "trigger"
	InitP4  = "init_p4objects_new"
)

// Target keywords.
const (
	TargetTable              = "tabl"
	TargetConditional        = "cond"
	TargetFlex               = "flex"
	TargetRegisterArray      = "register_array"
	TargetRegisterArraySize  = "register_array_size"
	TargetRegisterArrayBit   = "register_array_bitwidth"
	TargetInit               = "init"
)

// MinSlot and MaxSlot bound the valid mount-slot range [0, 128) of spec §3/§6.
const (
	MinSlot = 0
	MaxSlot = 128
)

// Command is a parsed, validated primitive.
type Command struct {
	Action string
	Target string // empty for trigger/init_p4objects_new
	Args   []string
}

var arity = map[[2]string]int{
	{Insert, TargetTable}:             2,
	{Insert, TargetConditional}:       2,
	{Insert, TargetFlex}:              4,
	{Insert, TargetRegisterArray}:     3,
	{Change, TargetTable}:             4,
	{Change, TargetConditional}:       4,
	{Change, TargetFlex}:              4,
	{Change, TargetRegisterArraySize}: 2,
	{Change, TargetRegisterArrayBit}:  2,
	{Change, TargetInit}:              2,
	{Delete, TargetTable}:             2,
	{Delete, TargetConditional}:       2,
	{Delete, TargetFlex}:              2,
	{Delete, TargetRegisterArray}:     1,
}

// Parse tokenizes and validates a single primitive command line, failing
// with InvalidCommand on any unknown action, unknown target for the
// action, or arity mismatch (spec §4.7).
func Parse(line string) (*Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, diagnostics.New(diagnostics.InvalidCommand, "empty command")
	}
	action := tokens[0]

	// The grammar distinguishes "neither trigger nor init_p4objects_new"
	// (which always carry a TARGET keyword) from the two that never do
	// (spec §9 open question: the source's parser used an equality check
	// that admitted every non-empty action; the intent is this explicit
	// negative guard).
	switch action {
	case InitP4:
		rest := tokens[1:]
		if len(rest) != 1 {
			return nil, diagnostics.New(diagnostics.InvalidCommand, "%s requires exactly 1 argument, got %d", action, len(rest))
		}
		return &Command{Action: action, Args: rest}, nil

	case Trigger:
		rest := tokens[1:]
		if len(rest) != 2 {
			return nil, diagnostics.New(diagnostics.InvalidCommand, "trigger requires <on|off> <slot>, got %d arguments", len(rest))
		}
		if rest[0] != "on" && rest[0] != "off" {
			return nil, diagnostics.New(diagnostics.InvalidCommand, "trigger state must be on|off, got %q", rest[0])
		}
		slot, err := strconv.Atoi(rest[1])
		if err != nil {
			return nil, diagnostics.Wrap(diagnostics.InvalidCommand, err, "trigger slot must be an integer")
		}
		if slot < MinSlot || slot >= MaxSlot {
			return nil, diagnostics.New(diagnostics.InvalidCommand, "trigger slot %d out of range [%d, %d)", slot, MinSlot, MaxSlot)
		}
		return &Command{Action: action, Args: rest}, nil

	case Insert, Change, Delete:
		if len(tokens) < 2 {
			return nil, diagnostics.New(diagnostics.InvalidCommand, "%s requires a target", action)
		}
		target := tokens[1]
		rest := tokens[2:]
		want, ok := arity[[2]string{action, target}]
		if !ok {
			return nil, diagnostics.New(diagnostics.InvalidCommand, "unknown target %q for action %q", target, action)
		}
		if len(rest) != want {
			return nil, diagnostics.New(diagnostics.InvalidCommand, "%s %s requires %d arguments, got %d", action, target, want, len(rest))
		}
		return &Command{Action: action, Target: target, Args: rest}, nil

	default:
		return nil, diagnostics.New(diagnostics.InvalidCommand, "unknown action %q", action)
	}
}

// ValidateSlot reports an InvalidCommand error if k is outside [0, 128),
// the check planners perform up front alongside the validator (spec §8
// boundary behaviors).
func ValidateSlot(k int) error {
	if k < MinSlot || k >= MaxSlot {
		return diagnostics.New(diagnostics.InvalidCommand, "mount slot %d out of range [%d, %d)", k, MinSlot, MaxSlot)
	}
	return nil
}
