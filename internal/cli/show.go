// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/flexswitch/p4ctl/internal/nametag"
	"github.com/spf13/cobra"
)

func newShowCommand() *cobra.Command {
	var pipelinePath string
	cmd := &cobra.Command{
		Use:   "show <switch>",
		Short: "Print a switch's current pipeline graph in human-readable form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fleetPath, _ := cmd.Flags().GetString("fleet")
			c, err := bringUp(cmd.Context(), fleetPath, args[0], pipelinePath)
			if err != nil {
				return err
			}
			g := c.CurrentGraph()
			out := cmd.OutOrStdout()
			for _, v := range g.Vertices() {
				human, herr := nametag.FlexToHuman(v)
				if herr != nil {
					human = v
				}
				for _, e := range g.OutEdges(v) {
					toHuman, herr := nametag.FlexToHuman(e.To)
					if herr != nil {
						toHuman = e.To
					}
					fmt.Fprintf(out, "%s -%s-> %s\n", human, e.Label, toHuman)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pipelinePath, "pipeline", "", "initial compiled pipeline JSON to upload")
	cmd.MarkFlagRequired("pipeline")
	return cmd
}
