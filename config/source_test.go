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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "valid.toml", `
remote = "builder@10.0.0.5"
build_env = ["RUST_LOG=info", "CC=clang"]
copy_lock = false
`)
	malformed := writeFile(t, dir, "malformed.toml", "remote = \n[[")

	tests := []struct {
		name     string
		path     string
		explicit bool
		wantNil  bool
		wantLog  string
	}{
		{name: "valid file", path: valid, wantLog: `"level":"DEBUG"`},
		{name: "missing optional file", path: filepath.Join(dir, "absent.toml"), wantNil: true, wantLog: `"level":"DEBUG"`},
		{name: "missing explicit file", path: filepath.Join(dir, "absent.toml"), explicit: true, wantNil: true, wantLog: `"level":"WARN"`},
		{name: "malformed file", path: malformed, wantNil: true, wantLog: `"level":"WARN"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, logs := testContext(t)

			src := LoadFile(ctx, tt.path, tt.explicit)
			if tt.wantNil {
				assert.Nil(t, src)
				assert.Contains(t, logs.String(), "Can't parse config file '"+tt.path+"'")
			} else {
				require.NotNil(t, src)
				assert.Equal(t, tt.path, src.Name())
				assert.Contains(t, logs.String(), "Loaded config file")
			}
			assert.Contains(t, logs.String(), tt.wantLog)
		})
	}
}

func TestFileSourceLookup(t *testing.T) {
	ctx, _ := testContext(t)
	path := writeFile(t, t.TempDir(), "cfg.toml", `
remote = "builder"
build_env = ["RUST_LOG=info"]
copy_lock = false
`)

	src := LoadFile(ctx, path, false)
	require.NotNil(t, src)

	remote, ok := src.Lookup(KeyRemote)
	require.True(t, ok)
	assert.Equal(t, "builder", remote)

	lock, ok := src.Lookup(KeyCopyLock)
	require.True(t, ok, "a key set to false is still defined")
	assert.Equal(t, false, lock)

	_, ok = src.Lookup(KeyRustupDefault)
	assert.False(t, ok)

	opts, err := Resolve(ctx, Overrides{}, []Source{src})
	require.NoError(t, err)
	assert.Equal(t, []string{"RUST_LOG=info"}, opts.BuildEnv)
	assert.False(t, opts.CopyLock)
}

func TestLoadFile_UnknownKeys(t *testing.T) {
	ctx, logs := testContext(t)
	path := writeFile(t, t.TempDir(), "cfg.toml", `
remote = "builder"
rustup_defualt = "nightly"
flavour = "vanilla"
`)

	src := LoadFile(ctx, path, false)
	require.NotNil(t, src, "unknown keys do not invalidate the file")

	assert.Contains(t, logs.String(), "Unknown key 'rustup_defualt'")
	assert.Contains(t, logs.String(), "did you mean 'rustup_default'?")
	assert.Contains(t, logs.String(), "Unknown key 'flavour' in config file")
}

func TestSuggestKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "remot", want: KeyRemote},
		{key: "copyback", want: KeyCopyBack},
		{key: "transfer_hiden", want: KeyTransferHidden},
		{key: "zzzzzzzzzz", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, suggestKey(tt.key))
		})
	}
}
