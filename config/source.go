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
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"sort"

	"github.com/cowdogmoo/cargo-remote/logging"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/viper"
)

// Source is one layer of configuration.
type Source interface {
	// Name identifies the source in diagnostics, usually its file path.
	Name() string

	// Lookup returns the raw value of key and whether the source defines it.
	Lookup(key string) (any, bool)
}

// MapSource is an in-memory Source.
type MapSource struct {
	Label  string
	Values map[string]any
}

// Name implements [Source].
func (m MapSource) Name() string {
	return m.Label
}

// Lookup implements [Source].
func (m MapSource) Lookup(key string) (any, bool) {
	v, ok := m.Values[key]
	return v, ok
}

// FileSource is a parsed TOML configuration file.
type FileSource struct {
	path string
	v    *viper.Viper
}

// Name implements [Source].
func (f *FileSource) Name() string {
	return f.path
}

// Lookup implements [Source].
func (f *FileSource) Lookup(key string) (any, bool) {
	if !f.v.IsSet(key) {
		return nil, false
	}
	return f.v.Get(key), true
}

// Keys returns the keys defined in the file.
func (f *FileSource) Keys() []string {
	return f.v.AllKeys()
}

// LoadFile reads and parses the TOML file at path.
//
// It returns nil when the file cannot be used. A missing file is the normal
// case for optional layers and is only logged at debug level, unless the
// file was requested explicitly. A file that exists but cannot be read or
// parsed is logged as a warning. Either way resolution carries on without it.
func LoadFile(ctx context.Context, path string, explicit bool) *FileSource {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			logging.DebugContext(ctx, "Can't parse config file '%s' (error: %v)", path, err)
		} else {
			logging.WarnContext(ctx, "Can't parse config file '%s' (error: %v)", path, err)
		}
		return nil
	}

	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		logging.WarnContext(ctx, "Can't parse config file '%s' (error: %v)", path, err)
		return nil
	}

	src := &FileSource{path: path, v: v}
	warnUnknownKeys(ctx, src)
	logging.DebugContext(ctx, "Loaded config file '%s'", path)
	return src
}

// warnUnknownKeys flags keys that no option reads, suggesting the closest
// known key when one is similar enough.
func warnUnknownKeys(ctx context.Context, src *FileSource) {
	known := make(map[string]bool, len(Keys))
	for _, k := range Keys {
		known[k] = true
	}

	unknown := []string{}
	for _, k := range src.Keys() {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)

	for _, k := range unknown {
		if suggestion := suggestKey(k); suggestion != "" {
			logging.WarnContext(ctx, "Unknown key '%s' in config file '%s' (did you mean '%s'?)", k, src.Name(), suggestion)
			continue
		}
		logging.WarnContext(ctx, "Unknown key '%s' in config file '%s'", k, src.Name())
	}
}

// suggestKey returns the known key closest to key, or "" when none is close.
func suggestKey(key string) string {
	best, bestDistance := "", 3
	for _, candidate := range Keys {
		if fuzzy.MatchFold(key, candidate) {
			return candidate
		}
		if d := fuzzy.LevenshteinDistance(key, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}
