// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

package transport

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/flexswitch/p4ctl/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// applyMethod is the fixed gRPC method invoked for every primitive. p4ctl
// carries no generated P4Runtime stub, so this is called directly through
// grpc.ClientConn.Invoke rather than a typed client.
const applyMethod = "/p4runtime.reconfig.v1.Reconfigure/Apply"

// GRPCTransport is the default Transport: a single gRPC connection per
// switch, primitives carried as wrapperspb.StringValue, pipeline JSON
// returned as a structpb.Struct.
type GRPCTransport struct {
	mu   sync.Mutex
	conn *grpc.ClientConn
	log  interface {
		Trace(msg string, args ...interface{})
	}
}

// NewGRPCTransport returns an unconnected transport ready for Dial.
func NewGRPCTransport() *GRPCTransport {
	return &GRPCTransport{log: logging.Logger("transport.grpc")}
}

func (t *GRPCTransport) Dial(ctx context.Context, addr string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return diagnostics.Wrap(diagnostics.TransportError, err, "dial %s", addr)
	}
	t.conn = conn
	return nil
}

func (t *GRPCTransport) Send(ctx context.Context, primitive string) (*Response, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return nil, diagnostics.New(diagnostics.TransportError, "send called before Dial")
	}

	reqID := logging.NewRequestID()
	t.log.Trace("apply", "req_id", reqID, "primitive", primitive)

	req := wrapperspb.String(primitive)
	resp := &structpb.Struct{}
	if err := conn.Invoke(ctx, applyMethod, req, resp); err != nil {
		return nil, diagnostics.Wrap(diagnostics.TransportError, err, "apply primitive (req_id=%s)", reqID)
	}

	if len(resp.GetFields()) == 0 {
		return &Response{}, nil
	}
	body, err := json.Marshal(resp.AsMap())
	if err != nil {
		return nil, diagnostics.Wrap(diagnostics.TransportError, err, "marshal pipeline response (req_id=%s)", reqID)
	}
	return &Response{PipelineJSON: body}, nil
}

func (t *GRPCTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	if err != nil {
		return diagnostics.Wrap(diagnostics.TransportError, err, "close connection")
	}
	return nil
}
