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

package pipeline

import (
	"fmt"
)

// Stage is one step of a remote build.
type Stage int

// Stages in execution order.
const (
	StageTransfer Stage = iota
	StageRemoteExecute
	StageCopyArtifacts
	StageCopyLock
)

// String returns the stage name used in logs.
func (s Stage) String() string {
	switch s {
	case StageTransfer:
		return "transfer"
	case StageRemoteExecute:
		return "remote-execute"
	case StageCopyArtifacts:
		return "copy-artifacts"
	case StageCopyLock:
		return "copy-lock"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ExitCode returns the process status reported when the stage fails.
func (s Stage) ExitCode() int {
	switch s {
	case StageTransfer:
		return ExitTransfer
	case StageRemoteExecute:
		return ExitRemoteExec
	case StageCopyArtifacts:
		return ExitCopyArtifacts
	case StageCopyLock:
		return ExitCopyLock
	default:
		return ExitUnknownStatus
	}
}

func (s Stage) failure() string {
	switch s {
	case StageTransfer:
		return "Failed to transfer project to build server"
	case StageRemoteExecute:
		return "Failed to run cargo command remotely"
	case StageCopyArtifacts:
		return "Failed to transfer target back to local machine"
	case StageCopyLock:
		return "Failed to transfer Cargo.lock back to local machine"
	default:
		return "Failed to run " + s.String()
	}
}

// StageError reports a transport failure. Status is the transport's exit
// status, or -1 when the transport could not be run at all.
type StageError struct {
	Stage  Stage
	Status int
	Err    error
}

func (e *StageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (error: %v)", e.Stage.failure(), e.Err)
	}
	return fmt.Sprintf("%s (error: exit status %d)", e.Stage.failure(), e.Status)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// ExitCode implements errors.ExitCoder.
func (e *StageError) ExitCode() int {
	return e.Stage.ExitCode()
}
