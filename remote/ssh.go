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
	"context"

	"github.com/cowdogmoo/cargo-remote/logging"
	"github.com/cowdogmoo/cargo-remote/sys"
)

// ExecOptions controls one remote execution.
type ExecOptions struct {
	// PTY requests a pseudo-terminal (ssh -t) so the remote build can
	// detect a terminal and render its own progress output.
	PTY bool
}

// SSH runs commands on a remote host with the ssh binary. The local
// standard streams are connected to the remote command.
type SSH struct {
	Runner sys.Runner

	// Binary is the ssh executable; empty means "ssh" from PATH.
	Binary string
}

// NewSSH returns an SSH transport using runner.
func NewSSH(runner sys.Runner) *SSH {
	return &SSH{Runner: runner, Binary: "ssh"}
}

// RemoteExec runs command on host and returns the exit status reported by
// ssh, which is the remote command's status or 255 for an ssh error. It
// returns -1 and an error when ssh could not be started or was killed.
func (s *SSH) RemoteExec(ctx context.Context, host, command string, opts ExecOptions) (int, error) {
	binary := s.Binary
	if binary == "" {
		binary = "ssh"
	}

	var args []string
	if opts.PTY {
		args = append(args, "-t")
	}
	args = append(args, host, command)

	spec := sys.CommandSpec{Name: binary, Args: args}
	logging.DebugContext(ctx, "Running %s", logging.RedactSensitivePatterns(spec.String()))
	return s.Runner.Run(ctx, spec)
}
