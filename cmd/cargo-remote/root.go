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
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cowdogmoo/cargo-remote/errors"
	"github.com/cowdogmoo/cargo-remote/logging"
	"github.com/cowdogmoo/cargo-remote/pipeline"
	"github.com/cowdogmoo/cargo-remote/sys"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "CARGO_REMOTE"

// app carries the state shared by every command of one invocation.
type app struct {
	runner  sys.Runner
	cfgFile string
	logger  *logging.CustomLogger
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cargo-remote",
		Short: "Build a Cargo project on a remote machine",
		Long: `cargo-remote mirrors a Cargo project to a build server with rsync, runs
cargo there over ssh, and copies build artifacts and Cargo.lock back.

Installed on PATH it is available as a cargo subcommand:

  cargo remote -r builder@10.0.0.5 -c build --release`,
		Version:           versionString(),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.initLogging,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file consulted before .cargo-remote.toml and the user config")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json, color)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Quiet mode - only show errors")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose mode - show debug output")

	rootCmd.AddCommand(newRemoteCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// initLogging builds the logger from flags, then environment variables
// (CARGO_REMOTE_LOG_LEVEL, CARGO_REMOTE_LOG_FORMAT), then defaults, and
// stores it in the command context.
func (a *app) initLogging(cmd *cobra.Command, args []string) error {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "color")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlag("log.level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return fmt.Errorf("failed to bind log-level flag: %w", err)
	}
	if err := v.BindPFlag("log.format", cmd.Root().PersistentFlags().Lookup("log-format")); err != nil {
		return fmt.Errorf("failed to bind log-format flag: %w", err)
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")

	a.logger = logging.NewCustomLoggerWithOptions(v.GetString("log.level"), v.GetString("log.format"), quiet, verbose)
	a.logger.SetWriter(cmd.ErrOrStderr())
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	return nil
}

// Execute runs cargo-remote with the process arguments.
func Execute(ctx context.Context) error {
	a := &app{runner: sys.OSRunner{}}
	rootCmd := newRootCmd(a)
	err := rootCmd.ExecuteContext(ctx)
	a.report(rootCmd.ErrOrStderr(), err)
	return err
}

// report logs err unless a stage already did.
func (a *app) report(stderr io.Writer, err error) {
	if err == nil || reported(err) {
		return
	}

	logger := a.logger
	if logger == nil {
		logger = logging.NewCustomLoggerWithOptions("info", "color", false, false)
		logger.SetWriter(stderr)
	}
	logger.Errorf("%v", err)
}

func reported(err error) bool {
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		return true
	}

	var exitErr *errors.ExitError
	return errors.As(err, &exitErr) && exitErr.Err == nil
}
