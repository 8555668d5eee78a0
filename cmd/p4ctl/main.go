// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

// Command p4ctl is a thin operator-facing entry point over the
// reconfiguration engine: connect, install, uninstall, migrate, show. It
// is not the interactive shell spec.md places out of scope — every
// invocation is a single, self-contained pass from DISCONNECTED to
// whichever state the requested operation needs, since no session state
// is persisted across process restarts.
package main

import (
	"fmt"
	"os"

	"github.com/flexswitch/p4ctl/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
