// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConnectCommand() *cobra.Command {
	var pipelinePath string
	cmd := &cobra.Command{
		Use:   "connect <switch>",
		Short: "Bring a switch's session up to READY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fleetPath, _ := cmd.Flags().GetString("fleet")
			c, err := bringUp(cmd.Context(), fleetPath, args[0], pipelinePath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), colorize.Color(fmt.Sprintf("[green]%s is READY (state=%s)[reset]", c.Name, c.State())))
			return nil
		},
	}
	cmd.Flags().StringVar(&pipelinePath, "pipeline", "", "initial compiled pipeline JSON to upload")
	cmd.MarkFlagRequired("pipeline")
	return cmd
}
