// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

// Package cli wires the cobra command surface described in spec.md's CLI
// addition: connect, install, uninstall, migrate, show. It is deliberately
// thin — every subcommand loads a fleet, brings one switch's session up to
// the state the operation needs, executes it, and exits.
package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mitchellh/colorstring"
	"github.com/spf13/cobra"
)

var colorize = &colorstring.Colorize{
	Colors:  colorstring.DefaultColors,
	Disable: !isatty.IsTerminal(os.Stdout.Fd()),
	Reset:   true,
}

// NewRootCommand builds the p4ctl root cobra command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "p4ctl",
		Short:         "Runtime P4 pipeline reconfiguration control plane",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("fleet", "fleet.hcl", "path to the fleet definition file")

	root.AddCommand(
		newConnectCommand(),
		newShowCommand(),
		newInstallCommand(),
		newUninstallCommand(),
		newMigrateCommand(),
	)
	return root
}
