// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

// Package logging provides the leveled, structured logger shared by every
// component, in the same style as the teacher's per-backend hclog loggers
// (Named per component, a "req_id" field per request).
package logging

import (
	"os"
	"sync"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-uuid"
)

// EnvVar is the environment variable that controls the base log level.
const EnvVar = "P4CTL_LOG"

var (
	once sync.Once
	base hclog.Logger
)

func root() hclog.Logger {
	once.Do(func() {
		level := hclog.LevelFromString(os.Getenv(EnvVar))
		if level == hclog.NoLevel {
			level = hclog.Warn
		}
		base = hclog.New(&hclog.LoggerOptions{
			Name:  "p4ctl",
			Level: level,
		})
	})
	return base
}

// Logger returns a named child of the package logger, the way the teacher's
// backend loggers are scoped (e.g. "backend-oracle_oci").
func Logger(name string) hclog.Logger {
	return root().Named(name)
}

// NewRequestID generates a short correlation id for a single transport
// call, attached to its log lines as a "req_id" key/value field.
func NewRequestID() string {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "unknown"
	}
	return id
}
