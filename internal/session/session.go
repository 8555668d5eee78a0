// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

// Package session implements the per-switch Session Controller (spec §4.8):
// connection identity, latest pipeline graph, staging-area flag, and the
// state machine gating which primitives a switch will accept.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/flexswitch/p4ctl/internal/graph"
	hclog "github.com/hashicorp/go-hclog"

	"github.com/flexswitch/p4ctl/internal/logging"
	"github.com/flexswitch/p4ctl/internal/nametag"
	"github.com/flexswitch/p4ctl/internal/pipeline"
	"github.com/flexswitch/p4ctl/internal/primitive"
	"github.com/flexswitch/p4ctl/internal/transport"
)

// State is one of the four session states of spec §4.8.
type State int

const (
	Disconnected State = iota
	Connected
	Pipelined
	Ready
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Connected:
		return "CONNECTED"
	case Pipelined:
		return "PIPELINED"
	case Ready:
		return "READY"
	default:
		return "UNKNOWN"
	}
}

// GraphManager holds the first-built (initial) graph and the most recently
// rebuilt (current) graph of spec §4.8: "first successful rebuild
// populates both, later rebuilds only update current_graph".
type GraphManager struct {
	Initial *graph.Graph
	Current *graph.Graph
}

// Controller is one switch's reconfiguration session: exactly the state
// spec §4.8 names, sequencing primitives over a Transport and feeding
// responses back into the graph builder.
type Controller struct {
	mu sync.Mutex

	Name     string
	Address  string
	DeviceID int

	transport transport.Transport
	log       hclog.Logger

	state              State
	pipelineConfigured bool
	latestPipelineJSON []byte
	graphs             GraphManager
}

// New returns a DISCONNECTED controller for one switch.
func New(name, address string, deviceID int, tr transport.Transport) *Controller {
	return &Controller{
		Name:      name,
		Address:   address,
		DeviceID:  deviceID,
		transport: tr,
		log:       logging.Logger("session." + name),
		state:     Disconnected,
	}
}

// State reports the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentGraph returns the most recently rebuilt pipeline graph, or nil if
// none has been built yet.
func (c *Controller) CurrentGraph() *graph.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graphs.Current
}

// LatestPipelineJSON returns the most recently persisted compiled pipeline
// document for this switch, or nil if none has been uploaded yet.
func (c *Controller) LatestPipelineJSON() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latestPipelineJSON
}

// Connect dials the transport and arbitrates ownership of the switch
// (spec §4.8: DISCONNECTED -> CONNECTED).
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Disconnected {
		return diagnostics.New(diagnostics.PreconditionUnmet, "switch %s: connect called from state %s", c.Name, c.state)
	}
	if err := c.transport.Dial(ctx, c.Address); err != nil {
		return err
	}
	c.log.Debug("connected", "address", c.Address, "device_id", c.DeviceID)
	c.state = Connected
	return nil
}

// SetForwardingPipelineConfig tags the given pipeline JSON with old_*
// lineage names, records the tagged document as the switch's latest
// pipeline and builds the initial graph from it, moving CONNECTED ->
// PIPELINED. It sends nothing over the transport: the tagged document is
// not uploaded to the switch by this call. It MUST NOT
// be called twice on the same switch (spec §4.8): the second call fails
// with PreconditionUnmet rather than silently re-tagging a stale P4Info.
func (c *Controller) SetForwardingPipelineConfig(ctx context.Context, pipelineJSON []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Connected {
		return diagnostics.New(diagnostics.PreconditionUnmet, "switch %s: set_forwarding_pipeline_config called from state %s", c.Name, c.state)
	}
	if c.pipelineConfigured {
		return diagnostics.New(diagnostics.PreconditionUnmet, "switch %s: set_forwarding_pipeline_config already called once", c.Name)
	}

	doc, ingress, err := pipeline.Parse(pipelineJSON)
	if err != nil {
		return err
	}
	tagged, err := nametag.TagInitial(ingress)
	if err != nil {
		return err
	}
	replaceIngress(doc, tagged)

	body, err := doc.Marshal()
	if err != nil {
		return diagnostics.Wrap(diagnostics.MalformedPipeline, err, "switch %s: marshal tagged pipeline", c.Name)
	}

	built, diags, err := graph.Build(tagged)
	if err != nil {
		return err
	}
	for _, d := range diags {
		c.log.Warn("graph builder diagnostic", "detail", d.String())
	}

	c.latestPipelineJSON = body
	c.graphs = GraphManager{Initial: built, Current: built}
	c.pipelineConfigured = true
	c.state = Pipelined
	c.log.Debug("pipeline configured", "tables", len(tagged.Tables), "conditionals", len(tagged.Conditionals))
	return nil
}

// Execute dispatches primitives one at a time, in order, blocking on each
// response before sending the next (spec §5's single-writer-per-switch
// rule). The first primitive accepted from PIPELINED must be
// init_p4objects_new, which advances the controller to READY; every other
// action outside READY fails with PreconditionUnmet.
func (c *Controller) Execute(ctx context.Context, primitives []string) error {
	for _, line := range primitives {
		if err := c.executeOne(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) executeOne(ctx context.Context, line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd, err := primitive.Parse(line)
	if err != nil {
		return err
	}

	switch {
	case c.state == Ready:
		// always allowed
	case c.state == Pipelined && cmd.Action == primitive.InitP4:
		// the one primitive PIPELINED accepts
	default:
		return diagnostics.New(diagnostics.PreconditionUnmet, "switch %s: %s not accepted in state %s", c.Name, cmd.Action, c.state)
	}

	resp, err := c.transport.Send(ctx, line)
	if err != nil {
		return err
	}

	if cmd.Action != primitive.Trigger && len(resp.PipelineJSON) > 0 {
		if err := c.rebuild(resp.PipelineJSON); err != nil {
			return err
		}
	}

	if c.state == Pipelined && cmd.Action == primitive.InitP4 {
		c.state = Ready
		c.log.Debug("staging initialized, session ready")
	}
	return nil
}

// rebuild re-parses a response's compiled pipeline and refreshes
// current_graph (mu is already held by the caller).
func (c *Controller) rebuild(data []byte) error {
	_, ingress, err := pipeline.Parse(data)
	if err != nil {
		return err
	}
	if err := ingress.RequireTags(); err != nil {
		return err
	}
	built, diags, err := graph.Build(ingress)
	if err != nil {
		return err
	}
	for _, d := range diags {
		c.log.Warn("graph builder diagnostic", "detail", d.String())
	}
	c.latestPipelineJSON = data
	c.graphs.Current = built
	return nil
}

// Close tears down the transport connection.
func (c *Controller) Close() error {
	return c.transport.Close()
}

func replaceIngress(doc *pipeline.Document, tagged *pipeline.Pipeline) {
	for i := range doc.Pipelines {
		if strings.EqualFold(doc.Pipelines[i].Name, pipeline.IngressName) {
			doc.Pipelines[i] = *tagged
			return
		}
	}
}
