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
	"errors"
	"fmt"
	"strings"

	"github.com/cowdogmoo/cargo-remote/logging"
	"github.com/spf13/cast"
)

// ErrNoRemote is returned by [Resolve] when neither a flag nor any
// configuration source names the build server.
var ErrNoRemote = errors.New("no remote build server was defined (use config file or --remote flag)")

// Overrides holds the options given explicitly on the command line.
// A nil pointer or nil slice means the option was not supplied.
type Overrides struct {
	Remote           *string
	BuildEnv         []string
	Toolchain        *string
	EnvProfile       *string
	CopyBack         *string
	CopyLock         *bool
	TransferHidden   *bool
	Exclude          []string
	ParallelCopyBack *bool
	PassThroughArgs  []string
}

// Resolve merges overrides, sources and defaults into [BuildOptions].
// Sources are consulted in slice order; nil entries are skipped.
func Resolve(ctx context.Context, o Overrides, sources []Source) (*BuildOptions, error) {
	r := &resolver{ctx: ctx, sources: sources, origins: map[string]string{}}

	remote, ok := resolveKey(r, KeyRemote, o.Remote, toRemote, nil)
	if !ok || strings.TrimSpace(remote) == "" {
		return nil, ErrNoRemote
	}

	opts := &BuildOptions{
		BuildServer:      remote,
		BuildEnv:         resolveOrDefault(r, KeyBuildEnv, sliceOverride(o.BuildEnv), cast.ToStringSliceE, []string{DefaultBuildEnv}),
		Toolchain:        resolveOrDefault(r, KeyRustupDefault, o.Toolchain, toNonEmptyString, DefaultToolchain),
		EnvProfile:       resolveOrDefault(r, KeyEnv, o.EnvProfile, toNonEmptyString, DefaultEnvProfile),
		CopyBack:         resolveOrDefault(r, KeyCopyBack, copyBackOverride(o.CopyBack), toCopyBack, nil),
		CopyLock:         resolveOrDefault(r, KeyCopyLock, o.CopyLock, cast.ToBoolE, true),
		TransferHidden:   resolveOrDefault(r, KeyTransferHidden, o.TransferHidden, cast.ToBoolE, false),
		Exclude:          resolveOrDefault(r, KeyExclude, sliceOverride(o.Exclude), cast.ToStringSliceE, []string{}),
		ParallelCopyBack: resolveOrDefault(r, KeyParallelCopyBack, o.ParallelCopyBack, cast.ToBoolE, false),
		PassThroughArgs:  o.PassThroughArgs,
		Origins:          r.origins,
	}

	return opts, nil
}

type resolver struct {
	ctx     context.Context
	sources []Source
	origins map[string]string
}

// resolveKey applies the precedence chain for a single key:
// override, then the first source defining the key with a usable value,
// then def. The boolean is false only when every step came up empty.
func resolveKey[T any](r *resolver, key string, override *T, convert func(any) (T, error), def *T) (T, bool) {
	if override != nil {
		r.origins[key] = OriginFlag
		return *override, true
	}

	for _, src := range r.sources {
		if src == nil {
			continue
		}
		raw, ok := src.Lookup(key)
		if !ok {
			continue
		}
		value, err := convert(raw)
		if err != nil {
			logging.WarnContext(r.ctx, "Ignoring '%s' in config file '%s' (error: %v)", key, src.Name(), err)
			continue
		}
		r.origins[key] = src.Name()
		return value, true
	}

	if def != nil {
		r.origins[key] = OriginDefault
		return *def, true
	}

	var zero T
	return zero, false
}

// resolveOrDefault is resolveKey for options that always have a default.
func resolveOrDefault[T any](r *resolver, key string, override *T, convert func(any) (T, error), def T) T {
	v, _ := resolveKey(r, key, override, convert, &def)
	return v
}

func ptr[T any](v T) *T {
	return &v
}

func sliceOverride(values []string) *[]string {
	if values == nil {
		return nil
	}
	return &values
}

func copyBackOverride(selector *string) **CopyBack {
	if selector == nil {
		return nil
	}
	return ptr(&CopyBack{Selector: NormalizeSelector(*selector)})
}

// NormalizeSelector strips leading slashes so the selector is always
// relative to the target directory; "/" selects the whole directory.
func NormalizeSelector(selector string) string {
	return strings.TrimLeft(selector, "/")
}

func toNonEmptyString(raw any) (string, error) {
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", errors.New("value must not be empty")
	}
	return s, nil
}

func toRemote(raw any) (string, error) {
	if _, ok := raw.(string); !ok {
		return "", fmt.Errorf("expected a string, got %T", raw)
	}
	return toNonEmptyString(raw)
}

// toCopyBack accepts a selector string, true for the whole target
// directory, or false to disable copy-back.
func toCopyBack(raw any) (*CopyBack, error) {
	switch v := raw.(type) {
	case bool:
		if !v {
			return nil, nil
		}
		return &CopyBack{}, nil
	case string:
		return &CopyBack{Selector: NormalizeSelector(v)}, nil
	default:
		return nil, fmt.Errorf("expected a string or boolean, got %T", raw)
	}
}
