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

// Package pipeline sequences a remote build: upload the project, run cargo
// on the build server, then copy artifacts and Cargo.lock back.
//
// Transport failures end the run with the failing stage's exit code. A
// failing remote build does not: the copy-back stages still run and the
// remote status becomes the run's result afterwards.
package pipeline

import (
	"context"

	"github.com/cowdogmoo/cargo-remote/config"
	"github.com/cowdogmoo/cargo-remote/errors"
	"github.com/cowdogmoo/cargo-remote/logging"
	"github.com/cowdogmoo/cargo-remote/project"
	"github.com/cowdogmoo/cargo-remote/remote"
	"github.com/cowdogmoo/cargo-remote/sys"
	"golang.org/x/sync/errgroup"
)

// Transferer copies files between the local machine and the build server.
type Transferer interface {
	Transfer(ctx context.Context, src, dst string, opts remote.TransferOptions) (int, error)
}

// RemoteExecutor runs a shell command on the build server.
type RemoteExecutor interface {
	RemoteExec(ctx context.Context, host, command string, opts remote.ExecOptions) (int, error)
}

// Pipeline is one remote build. Options and Project are read-only.
type Pipeline struct {
	Transfer Transferer
	Exec     RemoteExecutor
	Options  *config.BuildOptions
	Project  *project.Context
}

// Run executes every stage in order.
//
// It returns nil when every stage succeeded and the remote build exited 0,
// a *StageError when a transport failed, and an *errors.ExitError carrying
// the remote build's status when only the build failed.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.Options == nil || p.Options.BuildServer == "" {
		return errors.NewExitError(ExitNoRemote, config.ErrNoRemote)
	}

	if err := p.upload(ctx); err != nil {
		return err
	}

	status, err := p.execute(ctx)
	if err != nil {
		return err
	}

	if err := p.copyBack(ctx); err != nil {
		return err
	}

	if status != ExitSuccess {
		logging.DebugContext(ctx, "Remote build exited with status %d", status)
		return errors.NewExitError(status, nil)
	}
	return nil
}

// Command returns the shell line run on the build server.
func (p *Pipeline) Command() string {
	return remote.RenderCommand(remote.Command{
		EnvProfile: p.Options.EnvProfile,
		Toolchain:  p.Options.Toolchain,
		BuildPath:  p.Project.BuildPath,
		BuildEnv:   p.Options.BuildEnv,
		Args:       p.Options.PassThroughArgs,
	})
}

func (p *Pipeline) remotePath(path string) string {
	return p.Options.BuildServer + ":" + path
}

func (p *Pipeline) upload(ctx context.Context) error {
	logging.InfoContext(ctx, "Transferring sources to build server.")
	opts := remote.UploadOptions(p.Options.TransferHidden, p.Options.Exclude)
	return p.transfer(ctx, StageTransfer, p.Project.Source(), p.remotePath(p.Project.BuildPath), opts)
}

// execute runs the build and returns its status. ssh that cannot be
// started, or that is stopped by cancellation, fails the stage. ssh killed
// by any other signal counts as a failed build.
func (p *Pipeline) execute(ctx context.Context) (int, error) {
	logging.InfoContext(ctx, "Build ENV: %v", logging.RedactEnv(p.Options.BuildEnv))
	logging.InfoContext(ctx, "Environment profile: %s", p.Options.EnvProfile)
	logging.InfoContext(ctx, "Build path: %s", p.Project.BuildPath)

	command := p.Command()
	logging.DebugContext(ctx, "Remote command: %s", logging.RedactSensitivePatterns(command))

	logging.InfoContext(ctx, "Starting build process.")
	status, err := p.Exec.RemoteExec(ctx, p.Options.BuildServer, command, remote.ExecOptions{PTY: true})
	switch {
	case err == nil:
		return status, nil
	case ctx.Err() == nil && errors.Is(err, sys.ErrTerminated):
		logging.WarnContext(ctx, "Remote build did not report an exit status (error: %v)", err)
		return ExitUnknownStatus, nil
	default:
		stageErr := &StageError{Stage: StageRemoteExecute, Status: status, Err: err}
		logging.ErrorContext(ctx, stageErr)
		return 0, stageErr
	}
}

func (p *Pipeline) copyBack(ctx context.Context) error {
	var stages []func(context.Context) error
	if p.Options.CopyBack != nil {
		stages = append(stages, p.copyArtifacts)
	}
	if p.Options.CopyLock {
		stages = append(stages, p.copyLock)
	}

	if !p.Options.ParallelCopyBack || len(stages) < 2 {
		for _, stage := range stages {
			if err := stage(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	// The child processes are not canceled when a sibling fails, so a
	// failing artifact copy still lets the lockfile copy finish. When both
	// fail, the earlier stage is reported.
	var g errgroup.Group
	errs := make([]error, len(stages))
	for i, stage := range stages {
		i, stage := i, stage
		g.Go(func() error {
			errs[i] = stage(ctx)
			return errs[i]
		})
	}
	if g.Wait() == nil {
		return nil
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) copyArtifacts(ctx context.Context) error {
	logging.InfoContext(ctx, "Transferring artifacts back to client.")
	selector := p.Options.CopyBack.Selector
	return p.transfer(ctx, StageCopyArtifacts,
		p.remotePath(p.Project.RemoteTarget(selector)),
		p.Project.LocalTarget(selector),
		remote.TransferOptions{Delete: true})
}

func (p *Pipeline) copyLock(ctx context.Context) error {
	logging.InfoContext(ctx, "Transferring Cargo.lock file back to client.")
	return p.transfer(ctx, StageCopyLock,
		p.remotePath(p.Project.RemoteLockfile()),
		p.Project.LocalLockfile(),
		remote.TransferOptions{Delete: true})
}

// transfer runs one rsync stage. Any non-zero status fails the stage.
func (p *Pipeline) transfer(ctx context.Context, stage Stage, src, dst string, opts remote.TransferOptions) error {
	status, err := p.Transfer.Transfer(ctx, src, dst, opts)
	if err == nil && status == ExitSuccess {
		return nil
	}

	stageErr := &StageError{Stage: stage, Status: status, Err: err}
	logging.ErrorContext(ctx, stageErr)
	return stageErr
}
