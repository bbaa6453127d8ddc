package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/fintrack/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}

// tokenKey is masked by config list.
const tokenKey = "server.token"

// maskToken hides all but the last four characters of a token.
func maskToken(token string) string {
	const visible = 4
	if len(token) <= visible {
		if token == "" {
			return ""
		}
		return "****"
	}
	return "****" + token[len(token)-visible:]
}

// NewConfigGetCmd prints one effective configuration value.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a configuration value",
		Long:  "Prints the effective value of a key after the config file, project overlay and environment are applied.",
		Example: `  fintrack config get server.url
  fintrack config get list.page_size`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return usageError(err)
			}
			cmd.Println(v)
			return nil
		},
	}
}

// NewConfigSetCmd writes one value to the global config file.
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Example: `  fintrack config set server.url https://finance.example.com
  fintrack config set list.page_size 50
  fintrack config set display.currency USD`,
		Args: cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Defaults()
			path := cfg.FilePath()
			if err := cfg.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			cfg.SetFilePath(path)
			if err := cfg.Set(args[0], args[1]); err != nil {
				return usageError(err)
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			cmd.Printf("Set %s in %s\n", args[0], path)
			return nil
		},
	}
}

// NewConfigListCmd prints every effective configuration value.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			rows := make([][]string, 0, len(config.Keys()))
			for _, key := range config.Keys() {
				v, err := cfg.Get(key)
				if err != nil {
					return err
				}
				if key == tokenKey {
					v = maskToken(v)
				}
				rows = append(rows, []string{key, v})
			}
			plain, _ := cmd.Flags().GetBool(flagPlain)
			return writeTable(cmd.OutOrStdout(), plain || !isTerminal(os.Stdout), []string{"KEY", "VALUE"}, rows)
		},
	}
}
