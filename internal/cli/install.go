// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flexswitch/p4ctl/internal/compiler"
	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/flexswitch/p4ctl/internal/graph"
	"github.com/flexswitch/p4ctl/internal/nametag"
	"github.com/flexswitch/p4ctl/internal/pipeline"
	"github.com/flexswitch/p4ctl/internal/planner"
)

func newInstallCommand() *cobra.Command {
	var (
		pipelinePath string
		headersPath  string
		controlPath  string
		compilerBin  string
		cacheDir     string
		startPoint   string
		endPoint     string
		slot         int
	)
	cmd := &cobra.Command{
		Use:   "install <switch>",
		Short: "Splice a compiled function into a switch's running pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fleetPath, _ := cmd.Flags().GetString("fleet")

			c, err := bringUp(ctx, fleetPath, args[0], pipelinePath)
			if err != nil {
				return err
			}

			run := compiler.New(compilerBin, cacheDir)
			mergedJSONPath, err := run.Run(ctx, headersPath, controlPath)
			if err != nil {
				return err
			}

			mergedBytes, err := os.ReadFile(mergedJSONPath)
			if err != nil {
				return diagnostics.Wrap(diagnostics.CompileFailed, err, "read compiled merge artifact %s", mergedJSONPath)
			}
			_, mergedPipeline, err := pipeline.Parse(mergedBytes)
			if err != nil {
				return err
			}
			taggedMerged, err := nametag.TagMerged(mergedPipeline)
			if err != nil {
				return err
			}
			mergedGraph, diags, err := graph.Build(taggedMerged)
			if err != nil {
				return err
			}
			for _, d := range diags {
				fmt.Fprintln(cmd.ErrOrStderr(), colorize.Color("[yellow]"+d.String()+"[reset]"))
			}

			startFlex, err := nametag.HumanToFlex(startPoint)
			if err != nil {
				startFlex = startPoint
			}
			endFlex, err := nametag.HumanToFlex(endPoint)
			if err != nil {
				endFlex = endPoint
			}

			prims, err := planner.Install(c.CurrentGraph(), mergedGraph, mergedJSONPath, startFlex, endFlex, slot)
			if err != nil {
				return err
			}
			if err := c.Execute(ctx, prims); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), colorize.Color(fmt.Sprintf("[green]installed at slot %d on %s[reset]", slot, c.Name)))
			return nil
		},
	}
	cmd.Flags().StringVar(&pipelinePath, "pipeline", "", "initial compiled pipeline JSON to upload")
	cmd.Flags().StringVar(&headersPath, "headers", "", "header source file for the compiler")
	cmd.Flags().StringVar(&controlPath, "control", "", "control-block source file for the compiler")
	cmd.Flags().StringVar(&compilerBin, "compiler", "p4c", "path to the P4 compiler binary")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "/tmp/p4ctl-cache", "compiler output cache directory")
	cmd.Flags().StringVar(&startPoint, "start", "", "splice start point (human-readable or flex-name)")
	cmd.Flags().StringVar(&endPoint, "end", "", "splice end point (human-readable or flex-name)")
	cmd.Flags().IntVar(&slot, "slot", 0, "mount slot number")
	for _, f := range []string{"pipeline", "headers", "control", "start", "end"} {
		cmd.MarkFlagRequired(f)
	}
	return cmd
}
