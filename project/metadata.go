/*
Copyright © 2025 Jayson Grace <jayson.e.grace@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package project describes the local Cargo project being built: where its
// workspace root is and which directory on the build server mirrors it.
package project

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cowdogmoo/cargo-remote/errors"
	"github.com/cowdogmoo/cargo-remote/logging"
	"github.com/cowdogmoo/cargo-remote/sys"
)

// Metadata is the subset of `cargo metadata` output cargo-remote uses.
type Metadata struct {
	WorkspaceRoot   string `json:"workspace_root"`
	TargetDirectory string `json:"target_directory"`
}

// MetadataResolver queries cargo for project metadata.
type MetadataResolver struct {
	Runner sys.Runner

	// Cargo is the cargo executable; empty means "cargo" from PATH.
	Cargo string
}

// NewMetadataResolver returns a MetadataResolver using runner.
func NewMetadataResolver(runner sys.Runner) *MetadataResolver {
	return &MetadataResolver{Runner: runner, Cargo: "cargo"}
}

// Resolve runs `cargo metadata` for the manifest at manifestPath without
// resolving dependencies.
func (m *MetadataResolver) Resolve(ctx context.Context, manifestPath string) (*Metadata, error) {
	cargo := m.Cargo
	if cargo == "" {
		cargo = "cargo"
	}

	var stdout, stderr bytes.Buffer
	spec := sys.CommandSpec{
		Name:   cargo,
		Args:   []string{"metadata", "--no-deps", "--format-version", "1", "--manifest-path", manifestPath},
		Stdout: &stdout,
		Stderr: &stderr,
	}

	logging.DebugContext(ctx, "Reading project metadata: %s", spec)
	code, err := m.Runner.Run(ctx, spec)
	if err != nil {
		return nil, errors.Wrap("read cargo metadata", manifestPath, err)
	}
	if code != 0 {
		return nil, errors.Wrap("read cargo metadata", manifestPath,
			fmt.Errorf("cargo exited with status %d: %s", code, strings.TrimSpace(stderr.String())))
	}

	var md Metadata
	if err := json.Unmarshal(stdout.Bytes(), &md); err != nil {
		return nil, errors.Wrap("decode cargo metadata", manifestPath, err)
	}
	if md.WorkspaceRoot == "" {
		return nil, errors.Wrap("decode cargo metadata", manifestPath, errors.New("workspace_root is missing"))
	}
	return &md, nil
}
