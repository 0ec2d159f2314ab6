package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/0xmhha/focustime/pkg/config"
)

// configCommand handles configuration management subcommands.
type configCommand struct {
	app *app
	out io.Writer
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management (show, path, init)",
	}

	cmd.AddCommand(
		newConfigShowCmd(a),
		newConfigPathCmd(a),
		newConfigInitCmd(a),
	)

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &configCommand{app: a, out: cmd.OutOrStdout()}
			if output == "json" {
				return c.showJSON()
			}
			return c.showYAML()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format (yaml, json)")

	return cmd
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &configCommand{app: a, out: cmd.OutOrStdout()}
			return c.runPath()
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		// The file may not exist or may be broken; that is why it is being
		// written.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &configCommand{app: a, out: cmd.OutOrStdout()}
			return c.runInit(cmd.InOrStdin(), output, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file without asking")
	cmd.Flags().StringVar(&output, "output", "", "config file path (default: --config or ~/.config/focustime/config.yaml)")

	return cmd
}

// showYAML displays configuration in YAML format.
func (c *configCommand) showYAML() error {
	data, err := yaml.Marshal(c.app.cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Fprintln(c.out, "# Current Configuration")
	fmt.Fprintln(c.out, "# Source:", c.source())
	fmt.Fprintln(c.out)
	fmt.Fprint(c.out, string(data))
	return nil
}

// showJSON displays configuration in JSON format.
func (c *configCommand) showJSON() error {
	data, err := json.MarshalIndent(c.app.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	fmt.Fprintln(c.out, string(data))
	return nil
}

// runPath shows the configuration file search paths.
func (c *configCommand) runPath() error {
	fmt.Fprintln(c.out, "Configuration file search paths (in order of precedence):")
	fmt.Fprintln(c.out)

	for i, p := range config.SearchPaths() {
		exists := "not found"
		if _, err := os.Stat(p); err == nil {
			exists = "found"
		}
		fmt.Fprintf(c.out, "  %d. %s [%s]\n", i+1, p, exists)
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Active configuration:", c.source())
	fmt.Fprintln(c.out, "Data directory:", c.app.cfg.Storage.DataDir)
	return nil
}

// runInit writes the default configuration, asking before overwriting.
func (c *configCommand) runInit(in io.Reader, output string, force bool) error {
	path := output
	if path == "" {
		path = c.app.configPath
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(c.out, "Configuration file already exists at: %s\n", path)
		fmt.Fprint(c.out, "Overwrite? [y/N]: ")

		response, _ := bufio.NewReader(in).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(c.out, "Init cancelled.")
			return nil
		}
	}

	if err := config.Save(config.Default(), path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(c.out, "Default configuration written to: %s\n", path)
	return nil
}

func (c *configCommand) source() string {
	if c.app.source == "" {
		return "defaults"
	}
	return c.app.source
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "focustime %s\n", version)
			return nil
		},
	}
}
