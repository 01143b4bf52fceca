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
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	ctx, _ := testContext(t)
	path := filepath.Join(t.TempDir(), "nested", ".cargo-remote.toml")

	require.NoError(t, WriteFile(path, StarterConfig("builder@10.0.0.5"), false))

	src := LoadFile(ctx, path, true)
	require.NotNil(t, src)
	opts, err := Resolve(ctx, Overrides{}, []Source{src})
	require.NoError(t, err)
	assert.Equal(t, "builder@10.0.0.5", opts.BuildServer)
	assert.Equal(t, []string{DefaultBuildEnv}, opts.BuildEnv)
	assert.Equal(t, DefaultToolchain, opts.Toolchain)
	assert.Equal(t, path, opts.Origins[KeyRemote])
	assert.Equal(t, OriginDefault, opts.Origins[KeyCopyBack], "copy_back is omitted from the starter file")

	err = WriteFile(path, StarterConfig("other"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, WriteFile(path, StarterConfig("other"), true))
	src = LoadFile(ctx, path, true)
	require.NotNil(t, src)
	remote, _ := src.Lookup(KeyRemote)
	assert.Equal(t, "other", remote)
}

func TestSchemaJSON(t *testing.T) {
	data, err := SchemaJSON()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "cargo-remote configuration", doc["title"])
	assert.Equal(t, false, doc["additionalProperties"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range Keys {
		assert.Contains(t, props, key)
	}
}
