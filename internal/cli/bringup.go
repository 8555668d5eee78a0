// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"context"
	"os"

	"github.com/flexswitch/p4ctl/internal/config"
	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/flexswitch/p4ctl/internal/session"
)

// bringUp loads the fleet at fleetPath, locates switchName, and sequences
// it from DISCONNECTED to READY using the pipeline JSON at pipelinePath
// (spec §4.8: connect -> set_forwarding_pipeline_config -> init_p4objects_new).
// Every p4ctl invocation performs this in full since no session state
// survives a process restart.
func bringUp(ctx context.Context, fleetPath, switchName, pipelinePath string) (*session.Controller, error) {
	fleet, err := config.Load(fleetPath)
	if err != nil {
		return nil, err
	}
	c, err := fleet.Registry.Get(switchName)
	if err != nil {
		return nil, err
	}

	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	pipelineJSON, err := os.ReadFile(pipelinePath)
	if err != nil {
		return nil, diagnostics.Wrap(diagnostics.MalformedPipeline, err, "read pipeline file %s", pipelinePath)
	}
	if err := c.SetForwardingPipelineConfig(ctx, pipelineJSON); err != nil {
		return nil, err
	}
	if err := c.Execute(ctx, []string{"init_p4objects_new " + pipelinePath}); err != nil {
		return nil, err
	}
	return c, nil
}
