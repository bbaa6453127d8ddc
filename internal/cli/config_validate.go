package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/fintrack/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file at ~/.fintrack/config.yaml for syntax and semantic correctness.

This includes:
- YAML syntax
- The config schema version
- The server URL and request timeout
- The default page size against the allowed page sizes`,
		Example: `  # Validate current configuration
  fintrack config validate

  # Validate and show the effective values
  fintrack config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.Defaults()
	path := cfg.FilePath()
	if err := cfg.Load(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		cmd.Printf("No configuration file at %s, using defaults\n", path)
	}
	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Println("Configuration is valid")

	if verbose {
		cmd.Println()
		cmd.Printf("File:       %s\n", path)
		cmd.Printf("Version:    %s\n", cfg.Version)
		cmd.Printf("Server:     %s\n", cfg.Server.URL)
		cmd.Printf("Page size:  %d of %v\n", cfg.List.PageSize, cfg.List.PageSizeOptions)
		cmd.Printf("Currency:   %s (%s)\n", cfg.Display.Currency, cfg.Display.Locale)
		cmd.Printf("Log level:  %s\n", cfg.Logging.Level)
	}

	return nil
}
