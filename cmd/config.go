package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/folio-cli/pkg/config"
	"github.com/kamal-hamza/folio-cli/pkg/ui"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the folio configuration",
	Long: `Open the folio configuration file in $EDITOR.

Subcommands:
  show   Print the effective configuration (file, .env and FOLIO_* variables)
  init   Write a config file with the default values
  path   Print the config file location`,
	RunE: runConfigEdit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatMuted("# "+appWorkspace.ConfigPath))
		fmt.Fprint(cmd.OutOrStdout(), string(data))

		if err := appConfig.Validate(); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.FormatWarning("Configuration has problems:"))
			fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appWorkspace.ConfigPath
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}

		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatSuccess("Config written to "+path))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), appWorkspace.ConfigPath)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path := appWorkspace.ConfigPath

	// Ensure it exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s (run 'folio config init')", path)
	}

	fmt.Println(ui.FormatInfo("Opening config: " + path))

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
