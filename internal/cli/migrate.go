// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
	"github.com/flexswitch/p4ctl/internal/nametag"
	"github.com/flexswitch/p4ctl/internal/pipeline"
	"github.com/flexswitch/p4ctl/internal/planner"
)

// cliExecutor adapts a session.Controller's Execute method so the plan
// router below can hold one without depending on the concrete type twice.
type cliExecutor struct {
	exec func(ctx context.Context, primitives []string) error
}

// connectTarget reports whether line is one of the plan's "connect
// <switch>" addressing markers (spec §4.6), and if so which switch it
// names.
func connectTarget(line string) (string, bool) {
	const prefix = "connect "
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	return strings.TrimPrefix(line, prefix), true
}

func newMigrateCommand() *cobra.Command {
	var (
		sourcePipelinePath string
		destPipelinePath   string
		sourceSlot         int
		destSlot           int
		destStart          string
		destEnd            string
		workDir            string
	)
	cmd := &cobra.Command{
		Use:   "migrate <source-switch> <dest-switch>",
		Short: "Copy an installed function from one switch's mount slot onto another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fleetPath, _ := cmd.Flags().GetString("fleet")
			sourceName, destName := args[0], args[1]

			source, err := bringUp(ctx, fleetPath, sourceName, sourcePipelinePath)
			if err != nil {
				return err
			}
			dest, err := bringUp(ctx, fleetPath, destName, destPipelinePath)
			if err != nil {
				return err
			}

			sourceJSON := source.LatestPipelineJSON()
			_, sourcePipeline, err := pipeline.Parse(sourceJSON)
			if err != nil {
				return err
			}
			migrated, err := nametag.TagMigrate(sourcePipeline)
			if err != nil {
				return err
			}

			doc := &pipeline.Document{Pipelines: []pipeline.Pipeline{*migrated}}
			body, err := doc.Marshal()
			if err != nil {
				return diagnostics.Wrap(diagnostics.MalformedPipeline, err, "marshal migration artifact")
			}
			// Suffixed with a random id so concurrent migrations between
			// the same pair of switches never clobber each other's
			// artifact file.
			artifactPath := filepath.Join(workDir, fmt.Sprintf("%s-to-%s-%s-migrate.json", sourceName, destName, uuid.NewString()))
			if err := os.WriteFile(artifactPath, body, 0o644); err != nil {
				return diagnostics.Wrap(diagnostics.TransportError, err, "write migration artifact %s", artifactPath)
			}

			destStartFlex, err := nametag.HumanToFlex(destStart)
			if err != nil {
				destStartFlex = destStart
			}
			destEndFlex, err := nametag.HumanToFlex(destEnd)
			if err != nil {
				destEndFlex = destEnd
			}

			prims, err := planner.Migrate(sourceName, destName, source.CurrentGraph(), sourceSlot, dest.CurrentGraph(), artifactPath, destStartFlex, destEndFlex, destSlot)
			if err != nil {
				return err
			}

			// The plan's "connect <switch>" lines (spec §4.6) address a
			// peer session rather than naming a primitive (§6 grammar);
			// route each run of primitives between them to the named
			// controller instead of handing "connect" itself to Execute.
			controllers := map[string]*cliExecutor{
				sourceName: {exec: source.Execute},
				destName:   {exec: dest.Execute},
			}
			var active *cliExecutor
			var batch []string
			flush := func() error {
				if active == nil || len(batch) == 0 {
					batch = nil
					return nil
				}
				err := active.exec(ctx, batch)
				batch = nil
				return err
			}
			for _, line := range prims {
				if target, ok := connectTarget(line); ok {
					if err := flush(); err != nil {
						return err
					}
					active = controllers[target]
					continue
				}
				batch = append(batch, line)
			}
			if err := flush(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), colorize.Color(fmt.Sprintf("[green]migrated slot %d on %s to slot %d on %s[reset]", sourceSlot, sourceName, destSlot, destName)))
			return nil
		},
	}
	cmd.Flags().StringVar(&sourcePipelinePath, "source-pipeline", "", "source switch's initial compiled pipeline JSON")
	cmd.Flags().StringVar(&destPipelinePath, "dest-pipeline", "", "destination switch's initial compiled pipeline JSON")
	cmd.Flags().IntVar(&sourceSlot, "source-slot", 0, "source mount slot number")
	cmd.Flags().IntVar(&destSlot, "dest-slot", 0, "destination mount slot number")
	cmd.Flags().StringVar(&destStart, "dest-start", "", "destination splice start point")
	cmd.Flags().StringVar(&destEnd, "dest-end", "", "destination splice end point")
	cmd.Flags().StringVar(&workDir, "work-dir", os.TempDir(), "directory to write the migration artifact into")
	for _, f := range []string{"source-pipeline", "dest-pipeline", "dest-start", "dest-end"} {
		cmd.MarkFlagRequired(f)
	}
	return cmd
}
