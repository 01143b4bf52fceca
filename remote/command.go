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

// Package remote renders the build command run on the build server and
// drives the two transports that reach it: rsync for file transfer and ssh
// for remote execution.
package remote

import (
	"fmt"
	"strings"
)

// Command is the input of [RenderCommand].
type Command struct {
	EnvProfile string
	Toolchain  string
	BuildPath  string
	BuildEnv   []string
	Args       []string
}

// RenderCommand produces the shell line executed on the build server:
//
//	source <profile>; rustup default <toolchain>; cd <path>; <env...> cargo <args...>
//
// Values are interpolated as given. Nothing is quoted or escaped, so shell
// metacharacters in any field reach the remote shell unchanged.
func RenderCommand(c Command) string {
	return fmt.Sprintf("source %s; rustup default %s; cd %s; %s cargo %s",
		c.EnvProfile,
		c.Toolchain,
		c.BuildPath,
		strings.Join(c.BuildEnv, " "),
		strings.Join(c.Args, " "),
	)
}
