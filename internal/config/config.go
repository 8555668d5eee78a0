// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

// Package config loads the multi-switch fleet definition (spec §9: "make
// the Session Controller an explicit collection keyed by switch name") from
// an HCL file and builds the session.Registry it backs.
package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/flexswitch/p4ctl/internal/session"
	"github.com/flexswitch/p4ctl/internal/transport"
)

// SwitchDef is one `switch "name" { ... }` block of fleet.hcl.
type SwitchDef struct {
	Name     string            `hcl:"name,label"`
	Address  string            `hcl:"address"`
	DeviceID int               `hcl:"device_id"`
	Options  map[string]string `hcl:"options,optional"`
}

// SwitchOptions is a per-switch knob bag, decoded from SwitchDef.Options
// with mapstructure so new fields can be added without breaking existing
// fleet.hcl files.
type SwitchOptions struct {
	CompilerBin string `mapstructure:"compiler_bin"`
	CacheDir    string `mapstructure:"cache_dir"`
}

// Fleet is a parsed fleet.hcl: every switch definition, plus the
// session.Registry constructed from them.
type Fleet struct {
	Switches []SwitchDef
	Registry *session.Registry
}

// fleetFile is the top-level HCL schema hclsimple decodes into.
type fleetFile struct {
	Switches []SwitchDef `hcl:"switch,block"`
}

// Load parses path as an HCL fleet definition and constructs one
// session.Controller per switch block, each wired to a fresh
// transport.GRPCTransport. Per-block decode errors are aggregated with
// go-multierror so a fleet with one bad entry still reports every problem
// in a single pass, rather than stopping at the first.
func Load(path string) (*Fleet, error) {
	var raw fleetFile
	if err := hclsimple.DecodeFile(path, nil, &raw); err != nil {
		return nil, fmt.Errorf("decode fleet file %s: %w", path, err)
	}

	var errs *multierror.Error
	registry := session.NewRegistry()
	seen := make(map[string]bool, len(raw.Switches))

	for _, def := range raw.Switches {
		if def.Name == "" {
			errs = multierror.Append(errs, fmt.Errorf("switch block missing a label"))
			continue
		}
		if seen[def.Name] {
			errs = multierror.Append(errs, fmt.Errorf("switch %q declared more than once", def.Name))
			continue
		}
		seen[def.Name] = true

		if def.Address == "" {
			errs = multierror.Append(errs, fmt.Errorf("switch %q: address is required", def.Name))
			continue
		}

		var opts SwitchOptions
		if len(def.Options) > 0 {
			if err := mapstructure.Decode(toAnyMap(def.Options), &opts); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("switch %q: decode options: %w", def.Name, err))
				continue
			}
		}

		registry.Add(session.New(def.Name, def.Address, def.DeviceID, transport.NewGRPCTransport()))
	}

	if errs != nil {
		return nil, errs.ErrorOrNil()
	}

	return &Fleet{Switches: raw.Switches, Registry: registry}, nil
}

func toAnyMap(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
