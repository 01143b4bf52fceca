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

package project

import (
	"context"
	"path/filepath"
)

// Context identifies the project of one run. It is computed once before
// any transport call and not modified afterwards.
type Context struct {
	// Root is the absolute workspace root reported by cargo.
	Root string

	// BuildPath is the mirror directory on the build server.
	BuildPath string

	// ManifestPath is the manifest cargo metadata was read from.
	ManifestPath string
}

// NewContext resolves the workspace of the manifest at manifestPath.
func NewContext(ctx context.Context, resolver *MetadataResolver, manifestPath string) (*Context, error) {
	md, err := resolver.Resolve(ctx, manifestPath)
	if err != nil {
		return nil, err
	}

	root := filepath.Clean(md.WorkspaceRoot)
	return &Context{
		Root:         root,
		BuildPath:    BuildPath(root),
		ManifestPath: manifestPath,
	}, nil
}

// Source returns the local root as an rsync source, with a trailing slash
// so the directory contents are transferred rather than the directory.
func (c *Context) Source() string {
	return c.Root + "/"
}

// RemoteTarget returns the remote target directory, or the path below it
// named by selector. An empty selector keeps the trailing slash.
func (c *Context) RemoteTarget(selector string) string {
	return c.BuildPath + "target/" + selector
}

// LocalTarget is the local counterpart of [Context.RemoteTarget].
func (c *Context) LocalTarget(selector string) string {
	return c.Root + "/target/" + selector
}

// RemoteLockfile returns the path of Cargo.lock on the build server.
func (c *Context) RemoteLockfile() string {
	return c.BuildPath + "Cargo.lock"
}

// LocalLockfile returns the path of the local Cargo.lock.
func (c *Context) LocalLockfile() string {
	return filepath.Join(c.Root, "Cargo.lock")
}
