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
	"fmt"
	"os"

	"github.com/cowdogmoo/cargo-remote/config"
	"github.com/cowdogmoo/cargo-remote/errors"
	"github.com/cowdogmoo/cargo-remote/logging"
	"github.com/cowdogmoo/cargo-remote/project"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create cargo-remote configuration",
		Long: `Inspect and create cargo-remote configuration files.

Configuration precedence (highest to lowest):
1. CLI flags of the remote command
2. The file given with --config
3. <workspace>/.cargo-remote.toml
4. $XDG_CONFIG_HOME/cargo-remote/cargo-remote.toml (then $XDG_CONFIG_DIRS)
5. Built-in defaults`,
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved options for the current project",
		Long: `Resolve the options for the current project exactly as the remote command
would, without flag overrides, and print them with the source of each value.`,
		Args: cobra.NoArgs,
		RunE: a.runConfigShow,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "List the configuration files consulted, in priority order",
		Args:  cobra.NoArgs,
		RunE:  a.runConfigPath,
	}

	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter configuration file",
		Long: `Write a configuration file with the built-in defaults spelled out.

By default the file is <workspace>/.cargo-remote.toml; with --user it is the
user-level file under $XDG_CONFIG_HOME. An existing file is only replaced
with --force.`,
		Args: cobra.NoArgs,
		RunE: a.runConfigInit,
	}

	configSchemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of configuration files",
		Args:  cobra.NoArgs,
		RunE:  runConfigSchema,
	}

	for _, cmd := range []*cobra.Command{configShowCmd, configPathCmd, configInitCmd} {
		cmd.Flags().String("manifest-path", config.DefaultManifestPath, "Path to the manifest of the project")
	}
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
	configInitCmd.Flags().Bool("user", false, "Write the user-level config file instead of the project file")
	configInitCmd.Flags().StringP("remote", "r", "", "Remote build server to put in the file")

	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd, configSchemaCmd)
	return configCmd
}

// resolvedConfig is the document printed by `config show`.
type resolvedConfig struct {
	config.BuildOptions `yaml:",inline"`
	BuildPath           string            `yaml:"build_path"`
	Origins             map[string]string `yaml:"origins"`
}

func (a *app) runConfigShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pc, err := a.projectContext(cmd)
	if err != nil {
		return err
	}

	opts, err := config.Resolve(ctx, config.Overrides{}, config.DiscoverSources(ctx, pc.Root, a.cfgFile))
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(resolvedConfig{
		BuildOptions: *opts,
		BuildPath:    pc.BuildPath,
		Origins:      opts.Origins,
	})
	if err != nil {
		return errors.Wrap("marshal resolved config", "", err)
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func (a *app) runConfigPath(cmd *cobra.Command, args []string) error {
	root := a.projectRoot(cmd)

	for _, path := range config.SearchPaths(root, a.cfgFile) {
		status := "missing"
		if _, err := os.Stat(path); err == nil {
			status = "found"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-8s%s\n", status, path); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) runConfigInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	force, _ := cmd.Flags().GetBool("force")
	user, _ := cmd.Flags().GetBool("user")
	remoteHost, _ := cmd.Flags().GetString("remote")

	var path string
	if user {
		p, err := config.UserConfigPath()
		if err != nil {
			return errors.Wrap("locate user config directory", "", err)
		}
		path = p
	} else {
		path = config.ProjectConfigFile(a.projectRoot(cmd))
	}

	if err := config.WriteFile(path, config.StarterConfig(remoteHost), force); err != nil {
		return err
	}

	logging.InfoContext(ctx, "Configuration file created at: %s", path)
	if remoteHost == "" {
		logging.InfoContext(ctx, "Set 'remote' in this file to choose the build server")
	}
	return nil
}

func runConfigSchema(cmd *cobra.Command, args []string) error {
	data, err := config.SchemaJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func (a *app) projectContext(cmd *cobra.Command) (*project.Context, error) {
	manifestPath, _ := cmd.Flags().GetString("manifest-path")
	return project.NewContext(cmd.Context(), project.NewMetadataResolver(a.runner), manifestPath)
}

// projectRoot returns the workspace root, or the working directory when
// cargo cannot describe the project.
func (a *app) projectRoot(cmd *cobra.Command) string {
	pc, err := a.projectContext(cmd)
	if err == nil {
		return pc.Root
	}

	logging.DebugContext(cmd.Context(), "Using the working directory as project root: %v", err)
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		return "."
	}
	return wd
}
