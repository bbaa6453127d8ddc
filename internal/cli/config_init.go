package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/fintrack/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// By default it writes the global ~/.fintrack/config.yaml. With --project it
// writes a .fintrack.yaml overlay in the current directory that only sets the
// server URL.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
		server  string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

With --project, creates a .fintrack.yaml in the current directory instead. It
is merged on top of the global configuration whenever fintrack runs in this
directory or below, e.g. to point a checkout at a staging server.`,
		Example: `  # Create global configuration
  fintrack config init

  # Point this directory at a staging server
  fintrack config init --project --server https://staging.example.com

  # Create configuration, overwriting existing
  fintrack config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if project {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolving current directory: %w", err)
				}
				return initProjectConfig(cmd, filepath.Join(cwd, config.ProjectFileName), server, force)
			}
			return initGlobalConfig(cmd, server, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "write a .fintrack.yaml overlay in the current directory")
	cmd.Flags().StringVar(&server, "server-url", "", "server URL to write (default "+config.DefaultServerURL+")")

	return cmd
}

// checkWritable refuses to overwrite path unless force is set.
func checkWritable(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}

// initProjectConfig writes an overlay holding only the server section.
func initProjectConfig(cmd *cobra.Command, path, server string, force bool) error {
	if err := checkWritable(path, force); err != nil {
		return err
	}
	if server == "" {
		server = config.DefaultServerURL
	}

	overlay := map[string]any{
		"server": config.ServerConfig{URL: server},
	}
	data, err := yaml.Marshal(overlay)
	if err != nil {
		return fmt.Errorf("encoding project configuration: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Project configuration initialized at %s\n", path)
	return nil
}

// initGlobalConfig writes the defaults to the global config file.
func initGlobalConfig(cmd *cobra.Command, server string, force bool) error {
	cfg := config.Defaults()
	if err := checkWritable(cfg.FilePath(), force); err != nil {
		return err
	}
	if server != "" {
		cfg.Server.URL = server
	}
	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.FilePath())

	return nil
}
