// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

// Package diagnostics defines the tagged error and warning values produced
// by the reconfiguration engine (spec kinds InvalidCommand, InvalidName,
// MalformedPipeline, MissingTag, PreconditionUnmet, CompileFailed and
// TransportError). Every planner and session-controller failure is one of
// these, never a bare fmt.Errorf, so callers can branch on Kind with
// errors.As instead of string matching.
package diagnostics

import (
	"errors"
	"fmt"
)

// Kind identifies which of the seven core error categories an Error belongs
// to.
type Kind int

const (
	InvalidCommand Kind = iota + 1
	InvalidName
	MalformedPipeline
	MissingTag
	PreconditionUnmet
	CompileFailed
	TransportError
)

func (k Kind) String() string {
	switch k {
	case InvalidCommand:
		return "InvalidCommand"
	case InvalidName:
		return "InvalidName"
	case MalformedPipeline:
		return "MalformedPipeline"
	case MissingTag:
		return "MissingTag"
	case PreconditionUnmet:
		return "PreconditionUnmet"
	case CompileFailed:
		return "CompileFailed"
	case TransportError:
		return "TransportError"
	default:
		return "Unknown"
	}
}

// Error is the concrete carrier for every core failure kind.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports equality by Kind, so errors.Is(err, diagnostics.New(diagnostics.InvalidCommand, ""))
// matches any InvalidCommand regardless of message.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around a lower-level cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// Of reports whether err is a diagnostics.Error of the given kind anywhere
// in its chain.
func Of(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// Warning is a recoverable misuse that should not tear down the caller's
// session (spec §7: "surfaced distinctly so interactive surfaces can keep
// the session alive").
type Warning struct {
	Msg string
}

func (w *Warning) Error() string { return w.Msg }

// NewWarning builds a Warning with a formatted message.
func NewWarning(format string, args ...interface{}) *Warning {
	return &Warning{Msg: fmt.Sprintf(format, args...)}
}
