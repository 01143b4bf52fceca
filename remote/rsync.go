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

package remote

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/cowdogmoo/cargo-remote/errors"
	"github.com/cowdogmoo/cargo-remote/logging"
	"github.com/cowdogmoo/cargo-remote/sys"
)

const (
	// CreateBuildRoot is passed as --rsync-path on uploads so the parent of
	// every build directory exists on the build server.
	CreateBuildRoot = "mkdir -p remote-builds && rsync"

	// progressConstraint is the first rsync release with --info=progress2.
	progressConstraint = ">= 3.1.0"
)

var (
	rsyncVersionPattern = regexp.MustCompile(`version\s+v?(\d+\.\d+(?:\.\d+)?)`)
	errUnknownVersion   = errors.New("no version found in rsync output")
)

// TransferOptions controls one rsync invocation.
type TransferOptions struct {
	// Delete removes destination files that no longer exist in the source.
	Delete bool

	// Exclude patterns, passed as repeated --exclude arguments in order.
	Exclude []string

	// RsyncPath overrides the program started on the remote side.
	RsyncPath string
}

// UploadOptions returns the options used to mirror the project to the
// build server. The target directory is never uploaded and dot files are
// only included when transferHidden is set.
func UploadOptions(transferHidden bool, extra []string) TransferOptions {
	exclude := []string{"target"}
	if !transferHidden {
		exclude = append(exclude, ".*")
	}
	exclude = append(exclude, extra...)

	return TransferOptions{
		Delete:    true,
		Exclude:   exclude,
		RsyncPath: CreateBuildRoot,
	}
}

// Rsync transfers files with the rsync binary.
type Rsync struct {
	Runner sys.Runner

	// Binary is the rsync executable; empty means "rsync" from PATH.
	Binary string

	once     sync.Once
	progress string
}

// NewRsync returns an Rsync transport using runner.
func NewRsync(runner sys.Runner) *Rsync {
	return &Rsync{Runner: runner, Binary: "rsync"}
}

func (r *Rsync) binary() string {
	if r.Binary == "" {
		return "rsync"
	}
	return r.Binary
}

// Transfer copies src to dst. Either side may be a remote host:path.
// It returns rsync's exit status, or -1 and an error when rsync could not
// be run.
func (r *Rsync) Transfer(ctx context.Context, src, dst string, opts TransferOptions) (int, error) {
	args := []string{"-a"}
	if opts.Delete {
		args = append(args, "--delete")
	}
	args = append(args, "--compress", r.progressFlag(ctx))
	for _, pattern := range opts.Exclude {
		args = append(args, "--exclude", pattern)
	}
	if opts.RsyncPath != "" {
		args = append(args, "--rsync-path", opts.RsyncPath)
	}
	args = append(args, src, dst)

	spec := sys.CommandSpec{Name: r.binary(), Args: args}
	logging.DebugContext(ctx, "Running %s", spec)
	return r.Runner.Run(ctx, spec)
}

// progressFlag picks the progress option supported by the local rsync.
// The version is probed once per Rsync value.
func (r *Rsync) progressFlag(ctx context.Context) string {
	r.once.Do(func() {
		r.progress = "--progress"

		version, err := r.version(ctx)
		if err != nil {
			logging.DebugContext(ctx, "Could not determine rsync version, using %s: %v", r.progress, err)
			return
		}

		c, err := semver.NewConstraint(progressConstraint)
		if err != nil {
			return
		}
		if c.Check(version) {
			r.progress = "--info=progress2"
		}
		logging.DebugContext(ctx, "Detected rsync %s, using %s", version, r.progress)
	})
	return r.progress
}

func (r *Rsync) version(ctx context.Context) (*semver.Version, error) {
	var out bytes.Buffer
	spec := sys.CommandSpec{
		Name:   r.binary(),
		Args:   []string{"--version"},
		Stdout: &out,
		Stderr: &bytes.Buffer{},
	}

	code, err := r.Runner.Run(ctx, spec)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, fmt.Errorf("rsync --version exited with status %d", code)
	}
	return ParseRsyncVersion(out.String())
}

// ParseRsyncVersion extracts the version from `rsync --version` output.
func ParseRsyncVersion(output string) (*semver.Version, error) {
	m := rsyncVersionPattern.FindStringSubmatch(output)
	if m == nil {
		return nil, errUnknownVersion
	}
	return semver.NewVersion(m[1])
}
