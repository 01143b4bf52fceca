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

// Package config resolves the options of a remote build from command-line
// overrides, layered TOML configuration files and built-in defaults.
//
// Precedence is fixed: an explicit flag wins, then the first configuration
// source that defines the key (project-level before user-level), then the
// option's default. The remote build server has no default; failing to
// resolve it is fatal.
package config

// Configuration keys recognized in configuration files.
const (
	KeyRemote           = "remote"
	KeyBuildEnv         = "build_env"
	KeyRustupDefault    = "rustup_default"
	KeyEnv              = "env"
	KeyCopyBack         = "copy_back"
	KeyCopyLock         = "copy_lock"
	KeyTransferHidden   = "transfer_hidden"
	KeyExclude          = "exclude"
	KeyParallelCopyBack = "parallel_copy_back"
)

// Keys lists every recognized configuration key.
var Keys = []string{
	KeyRemote,
	KeyBuildEnv,
	KeyRustupDefault,
	KeyEnv,
	KeyCopyBack,
	KeyCopyLock,
	KeyTransferHidden,
	KeyExclude,
	KeyParallelCopyBack,
}

// Built-in defaults.
const (
	DefaultBuildEnv     = "RUST_BACKTRACE=1"
	DefaultToolchain    = "stable"
	DefaultEnvProfile   = "/etc/profile"
	DefaultManifestPath = "Cargo.toml"
)

// Origins recorded by [Resolve] for values that did not come from a file.
const (
	OriginFlag    = "flag"
	OriginDefault = "default"
)

// CopyBack selects what is pulled back from the remote target directory.
// An empty Selector means the whole target directory.
type CopyBack struct {
	Selector string `yaml:"selector"`
}

// BuildOptions is the fully resolved, read-only configuration of one run.
type BuildOptions struct {
	// BuildServer is the ssh destination (host or user@host).
	BuildServer string `yaml:"remote"`

	// BuildEnv holds KEY=VALUE assignments exported for the remote cargo
	// invocation, in order. Duplicates are kept.
	BuildEnv []string `yaml:"build_env"`

	// Toolchain is passed to `rustup default`.
	Toolchain string `yaml:"rustup_default"`

	// EnvProfile is sourced on the remote host before anything else.
	EnvProfile string `yaml:"env"`

	// CopyBack is nil when no artifacts should be copied back.
	CopyBack *CopyBack `yaml:"copy_back,omitempty"`

	CopyLock         bool     `yaml:"copy_lock"`
	TransferHidden   bool     `yaml:"transfer_hidden"`
	Exclude          []string `yaml:"exclude,omitempty"`
	ParallelCopyBack bool     `yaml:"parallel_copy_back"`

	// PassThroughArgs are forwarded to the remote cargo verbatim.
	PassThroughArgs []string `yaml:"-"`

	// Origins maps each key to where its value came from: "flag",
	// "default" or the name of the configuration source.
	Origins map[string]string `yaml:"-"`
}

// FileConfig is the on-disk shape of a configuration file. It is used to
// write starter files and to generate the JSON schema.
type FileConfig struct {
	Remote           string   `toml:"remote,omitempty" json:"remote,omitempty" jsonschema:"description=Remote ssh build server (host or user@host)"`
	BuildEnv         []string `toml:"build_env,omitempty" json:"build_env,omitempty" jsonschema:"description=Environment assignments exported for the remote cargo invocation"`
	RustupDefault    string   `toml:"rustup_default,omitempty" json:"rustup_default,omitempty" jsonschema:"description=Toolchain selected with rustup default,default=stable"`
	Env              string   `toml:"env,omitempty" json:"env,omitempty" jsonschema:"description=Shell profile sourced before the build,default=/etc/profile"`
	CopyBack         *string  `toml:"copy_back,omitempty" json:"copy_back,omitempty" jsonschema:"description=Path under target/ copied back after the build (empty for the whole directory)"`
	CopyLock         *bool    `toml:"copy_lock,omitempty" json:"copy_lock,omitempty" jsonschema:"description=Copy Cargo.lock back after the build,default=true"`
	TransferHidden   *bool    `toml:"transfer_hidden,omitempty" json:"transfer_hidden,omitempty" jsonschema:"description=Transfer dot files and directories,default=false"`
	Exclude          []string `toml:"exclude,omitempty" json:"exclude,omitempty" jsonschema:"description=Additional rsync exclude patterns for the upload"`
	ParallelCopyBack *bool    `toml:"parallel_copy_back,omitempty" json:"parallel_copy_back,omitempty" jsonschema:"description=Copy artifacts and Cargo.lock back concurrently,default=false"`
}
