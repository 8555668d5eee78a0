// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

// Package nametag implements the flex-name identity discipline of spec
// §3/§4.3: lineage-prefixed, kind-tagged internal names, their
// human-readable form, and the wire encoding used on the primitive
// command line (spec §6).
package nametag

import (
	"strconv"
	"strings"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
)

// Lineage prefixes (spec §3).
const (
	PrefixOld = "old_"
	PrefixNew = "new_"
	PrefixFlx = "flx_"
)

// Kind letters (spec §3): only meaningful for old_*/new_* nodes.
const (
	KindTable       byte = 't'
	KindConditional byte = 'c'
)

// Synthetic root and sink vertex identities (spec §3).
const (
	Root = PrefixOld + "r"
	Sink = PrefixOld + "s"
)

// MountPoint returns the fixed-form flex-name of the mount-point branch
// for slot k (spec §3: "flx_flex_func_mount_point_number_$k$").
func MountPoint(k int) string {
	return PrefixFlx + "flex_func_mount_point_number_$" + strconv.Itoa(k) + "$"
}

// TableFlex builds the flex-name of a table given its lineage prefix and
// original name.
func TableFlex(prefix, name string) string {
	return prefix + string(KindTable) + name
}

// ConditionalFlex builds the flex-name of a conditional given its lineage
// prefix and original name.
func ConditionalFlex(prefix, name string) string {
	return prefix + string(KindConditional) + name
}

// IsFlx reports whether flex is a mount-point branch name (no kind
// letter, lineage prefix flx_).
func IsFlx(flex string) bool {
	return strings.HasPrefix(flex, PrefixFlx)
}

// Kind returns the kind letter of a non-synthetic, non-flx_ flex-name, and
// false if flex is too short or not old_*/new_*-prefixed.
func Kind(flex string) (byte, bool) {
	if len(flex) < 5 {
		return 0, false
	}
	prefix := flex[:4]
	if prefix != PrefixOld && prefix != PrefixNew {
		return 0, false
	}
	k := flex[4]
	if k != KindTable && k != KindConditional {
		return 0, false
	}
	return k, true
}

// WireName strips the kind letter from a flex-name for transmission on
// the wire (spec §6: "old_tMyIngress.acl" -> "old_MyIngress.acl").
// flx_* names and the synthetic root/sink pass through unchanged.
func WireName(flex string) string {
	if IsFlx(flex) || flex == Root || flex == Sink {
		return flex
	}
	if _, ok := Kind(flex); !ok {
		return flex
	}
	return flex[:4] + flex[5:]
}

// WireOrNull returns WireName(flex), except Sink maps to the literal
// token "null" used for every dangling successor slot on the wire (spec
// §6).
func WireOrNull(flex string) string {
	if flex == Sink {
		return "null"
	}
	return WireName(flex)
}

// TargetKeyword returns the primitive-grammar target keyword ("tabl" or
// "cond") for a table/conditional flex-name, and false for anything else
// (root, sink, flx_*).
func TargetKeyword(flex string) (string, bool) {
	k, ok := Kind(flex)
	if !ok {
		return "", false
	}
	switch k {
	case KindTable:
		return "tabl", true
	case KindConditional:
		return "cond", true
	default:
		return "", false
	}
}

// FlexToHuman converts a flex-name to its human-readable form (spec §3,
// §8 property 2, §8 scenario F).
func FlexToHuman(flex string) (string, error) {
	switch flex {
	case Root:
		return "[root]", nil
	case Sink:
		return "[sink]", nil
	}
	if IsFlx(flex) {
		return flex, nil
	}
	k, ok := Kind(flex)
	if !ok {
		return "", diagnostics.New(diagnostics.InvalidName, "malformed flex-name %q", flex)
	}
	prefix := flex[:4]
	suffix := flex[5:]
	switch k {
	case KindTable:
		return "table[" + prefix + suffix + "]", nil
	case KindConditional:
		return "conditional[" + prefix + suffix + "]", nil
	default:
		return "", diagnostics.New(diagnostics.InvalidName, "malformed flex-name %q", flex)
	}
}

// HumanToFlex is the inverse of FlexToHuman.
func HumanToFlex(human string) (string, error) {
	switch human {
	case "[root]":
		return Root, nil
	case "[sink]":
		return Sink, nil
	}
	if IsFlx(human) {
		return human, nil
	}
	if inner, ok := cut(human, "table[", "]"); ok {
		if len(inner) < 4 {
			return "", diagnostics.New(diagnostics.InvalidName, "malformed human-readable name %q", human)
		}
		return TableFlex(inner[:4], inner[4:]), nil
	}
	if inner, ok := cut(human, "conditional[", "]"); ok {
		if len(inner) < 4 {
			return "", diagnostics.New(diagnostics.InvalidName, "malformed human-readable name %q", human)
		}
		return ConditionalFlex(inner[:4], inner[4:]), nil
	}
	return "", diagnostics.New(diagnostics.InvalidName, "malformed human-readable name %q", human)
}

func cut(s, prefix, suffix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, suffix) {
		return "", false
	}
	return s[len(prefix) : len(s)-len(suffix)], true
}
