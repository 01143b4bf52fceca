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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/cowdogmoo/cargo-remote/sys/systest"
	"github.com/stretchr/testify/require"
)

// testEnv is an isolated workspace with scripted external programs.
type testEnv struct {
	root    string
	xdgHome string
	rec     *systest.Recorder
}

// newTestEnv creates a workspace root whose `cargo metadata` is scripted
// and points the user config lookup at an empty directory.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		root:    t.TempDir(),
		xdgHome: t.TempDir(),
		rec:     systest.NewRecorder(),
	}

	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", env.xdgHome)
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	t.Setenv("CARGO_REMOTE_LOG_LEVEL", "")
	t.Setenv("CARGO_REMOTE_LOG_FORMAT", "")
	xdg.Reload()

	env.rec.On("cargo", systest.Response{Stdout: `{"workspace_root":"` + env.root + `","version":1}`})
	return env
}

func (e *testEnv) writeProjectConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(e.root, ".cargo-remote.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (e *testEnv) writeUserConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(e.xdgHome, "cargo-remote", "cargo-remote.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the command tree with args the way Execute does and
// returns what it wrote to stdout and stderr.
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	a := &app{runner: e.rec}
	rootCmd := newRootCmd(a)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	a.report(&stderr, err)
	return stdout.String(), stderr.String(), err
}
