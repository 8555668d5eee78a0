// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

// Package transport carries primitives to a switch and returns the
// recompiled pipeline JSON, over whatever RPC link a Session Controller
// is configured to use. The core depends only on the Transport interface,
// never on a specific generated P4Runtime stub.
package transport

import (
	"context"
)

// Response is what a switch hands back after applying a primitive: the
// recompiled pipeline JSON, or an empty payload for primitives the switch
// acknowledges without replying (trigger).
type Response struct {
	PipelineJSON []byte
}

// Transport is the collaborator the Session Controller depends on. Dial
// establishes the link, Send carries one primitive at a time (the
// single-writer-per-switch rule lives above this interface, in the
// controller), Close releases the link.
type Transport interface {
	Dial(ctx context.Context, addr string) error
	Send(ctx context.Context, primitive string) (*Response, error)
	Close() error
}
