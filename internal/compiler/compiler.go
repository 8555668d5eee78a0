// Copyright (c) The p4ctl Authors
// SPDX-License-Identifier: MPL-2.0

// Package compiler invokes the external P4 compiler binary that Install
// needs to turn a (headers, control-block) splice description into a
// compiled pipeline JSON (spec §4.4, §6).
package compiler

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/flexswitch/p4ctl/internal/diagnostics"
)

// pipelineFileName is the artifact the compiler is expected to leave in
// its output directory.
const pipelineFileName = "pipeline.json"

// Runner invokes the external compiler, caching its output by a
// process-stable content digest of its inputs (spec §9: "the canonical
// identifier is a cryptographic hash of (header text ∥ control-block
// text) — process-stable across runs — rather than an in-process hash").
type Runner struct {
	// BinPath is the compiler executable's path.
	BinPath string
	// CacheDir is the parent directory under which content-addressed
	// output folders are created.
	CacheDir string
}

// New returns a Runner for the given compiler binary and cache root.
func New(binPath, cacheDir string) *Runner {
	return &Runner{BinPath: binPath, CacheDir: cacheDir}
}

// Run compiles headersPath and controlPath into a pipeline JSON, returning
// its path. A cache hit — a prior run already produced this exact
// (headers, control) pair's output — skips re-invoking the compiler.
func (r *Runner) Run(ctx context.Context, headersPath, controlPath string) (string, error) {
	headers, err := os.ReadFile(headersPath)
	if err != nil {
		return "", diagnostics.Wrap(diagnostics.CompileFailed, err, "read headers file %s", headersPath)
	}
	control, err := os.ReadFile(controlPath)
	if err != nil {
		return "", diagnostics.Wrap(diagnostics.CompileFailed, err, "read control-block file %s", controlPath)
	}

	dgst := digest.FromBytes(append(append([]byte{}, headers...), control...))
	outDir := filepath.Join(r.CacheDir, dgst.Encoded())
	outPath := filepath.Join(outDir, pipelineFileName)

	if _, err := os.Stat(outPath); err == nil {
		return outPath, nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", diagnostics.Wrap(diagnostics.CompileFailed, err, "create cache directory %s", outDir)
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := exec.CommandContext(ctx, r.BinPath, headersPath, controlPath, outDir)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", diagnostics.New(diagnostics.CompileFailed,
				"compiler exited with code %d\nstdout:\n%s\nstderr:\n%s", exitErr.ExitCode(), stdout, stderr)
		}
		return "", diagnostics.Wrap(diagnostics.CompileFailed, err, "invoke compiler %s", r.BinPath)
	}

	if _, err := os.Stat(outPath); err != nil {
		return "", diagnostics.New(diagnostics.CompileFailed, "compiler reported success but %s was not produced", outPath)
	}
	return outPath, nil
}

// CacheKey returns the content-addressed cache key Run would use for the
// given (headers, control) pair, without invoking the compiler.
func CacheKey(headers, control []byte) string {
	return digest.FromBytes(append(append([]byte{}, headers...), control...)).Encoded()
}
