// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flexswitch/p4ctl/internal/planner"
)

func newUninstallCommand() *cobra.Command {
	var (
		pipelinePath string
		slot         int
	)
	cmd := &cobra.Command{
		Use:   "uninstall <switch>",
		Short: "Remove a previously installed function from a switch's running pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fleetPath, _ := cmd.Flags().GetString("fleet")

			c, err := bringUp(ctx, fleetPath, args[0], pipelinePath)
			if err != nil {
				return err
			}

			prims, err := planner.Uninstall(c.CurrentGraph(), slot)
			if err != nil {
				return err
			}
			if err := c.Execute(ctx, prims); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), colorize.Color(fmt.Sprintf("[green]uninstalled slot %d from %s[reset]", slot, c.Name)))
			return nil
		},
	}
	cmd.Flags().StringVar(&pipelinePath, "pipeline", "", "initial compiled pipeline JSON to upload")
	cmd.Flags().IntVar(&slot, "slot", 0, "mount slot number")
	cmd.MarkFlagRequired("pipeline")
	return cmd
}
