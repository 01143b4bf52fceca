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
	"fmt"
	"os"
	"path/filepath"

	"github.com/cowdogmoo/cargo-remote/errors"
	"github.com/invopop/jsonschema"
	"github.com/pelletier/go-toml/v2"
)

// StarterConfig returns the content written by `config init`: the given
// remote plus the built-in defaults spelled out.
func StarterConfig(remote string) FileConfig {
	copyLock := true
	hidden := false
	return FileConfig{
		Remote:         remote,
		BuildEnv:       []string{DefaultBuildEnv},
		RustupDefault:  DefaultToolchain,
		Env:            DefaultEnvProfile,
		CopyLock:       &copyLock,
		TransferHidden: &hidden,
	}
}

// WriteFile writes cfg as TOML to path. An existing file is only replaced
// when force is set.
func WriteFile(path string, cfg FileConfig, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap("marshal config", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), DirPermReadWriteExec); err != nil {
		return errors.Wrap("create config directory", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, data, FilePermReadWrite); err != nil {
		return errors.Wrap("write config file", path, err)
	}
	return nil
}

// Schema returns the JSON schema describing configuration files.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}

	schema := reflector.Reflect(&FileConfig{})
	schema.Title = "cargo-remote configuration"
	schema.Description = "Schema for .cargo-remote.toml and the user-level cargo-remote.toml"
	schema.Examples = []interface{}{
		map[string]interface{}{
			"remote":         "builder@10.0.0.5",
			"build_env":      []string{DefaultBuildEnv},
			"rustup_default": DefaultToolchain,
			"copy_back":      "release",
		},
	}
	return schema
}

// SchemaJSON renders [Schema] as indented JSON.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, errors.Wrap("marshal config schema", "", err)
	}
	return data, nil
}
