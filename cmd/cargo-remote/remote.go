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

package main

import (
	"github.com/cowdogmoo/cargo-remote/config"
	"github.com/cowdogmoo/cargo-remote/errors"
	"github.com/cowdogmoo/cargo-remote/logging"
	"github.com/cowdogmoo/cargo-remote/pipeline"
	"github.com/cowdogmoo/cargo-remote/project"
	"github.com/cowdogmoo/cargo-remote/remote"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// copyBackWholeTarget is the value --copy-back takes when given no selector.
const copyBackWholeTarget = "/"

func newRemoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote [flags] <cargo subcommand> [args...]",
		Short: "Run a cargo command on the remote build server",
		Long: `Mirror the project to the build server, run the given cargo command there,
then copy artifacts (with --copy-back) and Cargo.lock back.

Everything after the first non-flag argument is passed to cargo unchanged.

Options not given as flags are read from --config, <workspace>/.cargo-remote.toml
and $XDG_CONFIG_HOME/cargo-remote/cargo-remote.toml, in that order.

Exit status is the remote build's own, or one of:
  -3  no remote build server configured
  -4  transferring the project failed
  -5  the remote command could not be started
  -6  copying artifacts back failed
  -7  copying Cargo.lock back failed`,
		Example: `  # Build in release mode and copy the whole target directory back
  cargo remote -r builder@10.0.0.5 -c build --release

  # Copy back a single binary, build with nightly
  cargo remote -d nightly --copy-back=release/app build --release

  # Run tests remotely without touching the local Cargo.lock
  cargo remote --no-copy-lock test -- --nocapture`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runRemote,
	}

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.StringP("remote", "r", "", "Remote ssh build server (host or user@host)")
	flags.StringArrayP("build-env", "b", []string{config.DefaultBuildEnv}, "Environment assignment for the remote cargo (repeatable)")
	flags.StringP("rustup-default", "d", config.DefaultToolchain, "Rustup toolchain to build with")
	flags.StringP("env", "e", config.DefaultEnvProfile, "Environment profile sourced on the remote host")
	flags.StringP("copy-back", "c", "", "Copy target/<selector> back after the build; without a value the whole target directory")
	flags.Lookup("copy-back").NoOptDefVal = copyBackWholeTarget
	flags.Bool("no-copy-lock", false, "Don't copy Cargo.lock back from the remote")
	flags.String("manifest-path", config.DefaultManifestPath, "Path to the manifest of the project to build")
	flags.BoolP("transfer-hidden", "h", false, "Transfer hidden files and directories to the build server")
	// Registered before cobra adds its own, which would claim -h.
	flags.Bool("help", false, "help for remote")
	flags.StringArray("exclude", nil, "Additional rsync exclude pattern for the upload (repeatable)")
	flags.Bool("parallel-copy-back", false, "Copy artifacts and Cargo.lock back concurrently")

	return cmd
}

func (a *app) runRemote(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	manifestPath, _ := cmd.Flags().GetString("manifest-path")
	pc, err := project.NewContext(ctx, project.NewMetadataResolver(a.runner), manifestPath)
	if err != nil {
		return err
	}
	logging.InfoContext(ctx, "Project dir: %s", pc.Root)

	overrides, err := overridesFromFlags(cmd.Flags(), args)
	if err != nil {
		return err
	}

	opts, err := config.Resolve(ctx, overrides, config.DiscoverSources(ctx, pc.Root, a.cfgFile))
	if err != nil {
		if errors.Is(err, config.ErrNoRemote) {
			return errors.NewExitError(pipeline.ExitNoRemote, err)
		}
		return err
	}

	p := &pipeline.Pipeline{
		Transfer: remote.NewRsync(a.runner),
		Exec:     remote.NewSSH(a.runner),
		Options:  opts,
		Project:  pc,
	}
	return p.Run(ctx)
}

// overridesFromFlags collects the flags the user actually passed. Flags
// left at their default are not overrides, so configuration files can
// still supply those options.
func overridesFromFlags(flags *pflag.FlagSet, args []string) (config.Overrides, error) {
	o := config.Overrides{PassThroughArgs: args}
	var err error

	if o.Remote, err = changedString(flags, "remote"); err != nil {
		return o, err
	}
	if o.Toolchain, err = changedString(flags, "rustup-default"); err != nil {
		return o, err
	}
	if o.EnvProfile, err = changedString(flags, "env"); err != nil {
		return o, err
	}
	if o.CopyBack, err = changedString(flags, "copy-back"); err != nil {
		return o, err
	}
	if o.BuildEnv, err = changedStringArray(flags, "build-env"); err != nil {
		return o, err
	}
	if o.Exclude, err = changedStringArray(flags, "exclude"); err != nil {
		return o, err
	}
	if o.TransferHidden, err = changedBool(flags, "transfer-hidden"); err != nil {
		return o, err
	}
	if o.ParallelCopyBack, err = changedBool(flags, "parallel-copy-back"); err != nil {
		return o, err
	}

	noCopyLock, err := changedBool(flags, "no-copy-lock")
	if err != nil {
		return o, err
	}
	if noCopyLock != nil {
		copyLock := !*noCopyLock
		o.CopyLock = &copyLock
	}

	return o, nil
}

func changedString(flags *pflag.FlagSet, name string) (*string, error) {
	if !flags.Changed(name) {
		return nil, nil
	}
	v, err := flags.GetString(name)
	if err != nil {
		return nil, errors.Wrap("read flag", name, err)
	}
	return &v, nil
}

func changedStringArray(flags *pflag.FlagSet, name string) ([]string, error) {
	if !flags.Changed(name) {
		return nil, nil
	}
	v, err := flags.GetStringArray(name)
	if err != nil {
		return nil, errors.Wrap("read flag", name, err)
	}
	return v, nil
}

func changedBool(flags *pflag.FlagSet, name string) (*bool, error) {
	if !flags.Changed(name) {
		return nil, nil
	}
	v, err := flags.GetBool(name)
	if err != nil {
		return nil, errors.Wrap("read flag", name, err)
	}
	return &v, nil
}
