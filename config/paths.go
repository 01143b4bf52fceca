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
	"context"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// ProjectConfigName is the per-project configuration file, looked up
	// in the workspace root.
	ProjectConfigName = ".cargo-remote.toml"

	appName        = "cargo-remote"
	userConfigName = "cargo-remote.toml"

	// DirPermReadWriteExec is used for directories created for config files.
	DirPermReadWriteExec = 0o755

	// FilePermReadWrite is used for config files written by cargo-remote.
	FilePermReadWrite = 0o644
)

// ProjectConfigFile returns the project-level config path for root.
func ProjectConfigFile(root string) string {
	return filepath.Join(root, ProjectConfigName)
}

// UserConfigFile returns the first existing user-level config file in the
// XDG config search path ($XDG_CONFIG_HOME, then $XDG_CONFIG_DIRS).
func UserConfigFile() (string, bool) {
	path, err := xdg.SearchConfigFile(filepath.Join(appName, userConfigName))
	if err != nil {
		return "", false
	}
	return path, true
}

// UserConfigPath returns the path where a new user-level config file is
// written, creating its parent directory.
func UserConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(appName, userConfigName))
}

// UserConfigCandidates lists every location searched for the user-level
// config file, in priority order.
func UserConfigCandidates() []string {
	rel := filepath.Join(appName, userConfigName)
	candidates := []string{filepath.Join(xdg.ConfigHome, rel)}
	for _, dir := range xdg.ConfigDirs {
		candidates = append(candidates, filepath.Join(dir, rel))
	}
	return candidates
}

// SearchPaths lists the configuration files consulted for a project at
// root, highest priority first. explicit may be empty.
func SearchPaths(root, explicit string) []string {
	paths := []string{}
	if explicit != "" {
		paths = append(paths, explicit)
	}
	paths = append(paths, ProjectConfigFile(root))
	return append(paths, UserConfigCandidates()...)
}

// DiscoverSources loads the configuration layers for a project at root in
// priority order: the explicit file (if any), the project file, then the
// user file. Layers that are absent or invalid are left out.
func DiscoverSources(ctx context.Context, root, explicit string) []Source {
	var sources []Source

	if explicit != "" {
		if src := LoadFile(ctx, explicit, true); src != nil {
			sources = append(sources, src)
		}
	}

	if src := LoadFile(ctx, ProjectConfigFile(root), false); src != nil {
		sources = append(sources, src)
	}

	if path, ok := UserConfigFile(); ok {
		if src := LoadFile(ctx, path, false); src != nil {
			sources = append(sources, src)
		}
	}

	return sources
}
