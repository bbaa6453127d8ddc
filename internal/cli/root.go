package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/fintrack/internal/config"
	"github.com/rshade/fintrack/internal/logging"
	"github.com/rshade/fintrack/pkg/version"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// Persistent flag names shared by every command.
const (
	flagDebug         = "debug"
	flagServer        = "server"
	flagProjectConfig = "project-config"
	flagPlain         = "plain"
	flagNoColor       = "no-color"
)

// NewRootCmd creates the root Cobra command for the fintrack CLI.
// It loads configuration, wires up logging and tracing, and registers the
// transaction, category, budget, dashboard, report, login and config groups.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "fintrack",
		Short:         "Personal finance tracker client",
		Long:          "fintrack: browse, filter and manage transactions, categories and budgets on a finance tracker server",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loadConfig(cmd)
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
	cmd.SetVersionTemplate("fintrack {{.Version}} (commit " + version.GetCommit() + ")\n")

	cmd.PersistentFlags().Bool(flagDebug, false, "enable debug logging")
	cmd.PersistentFlags().String(flagServer, "", "backend URL (overrides server.url and FINTRACK_SERVER)")
	cmd.PersistentFlags().String(flagProjectConfig, "", "path to a .fintrack.yaml overlay")
	cmd.PersistentFlags().Bool(flagPlain, false, "plain text output without colors or interactive views")
	cmd.PersistentFlags().Bool(flagNoColor, false, "disable colors")

	cmd.AddGroup(
		&cobra.Group{ID: groupData, Title: "Data Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)
	for _, sub := range []*cobra.Command{
		newTxCmd(), newCategoryCmd(), newBudgetCmd(), newDashboardCmd(), newReportCmd(),
	} {
		sub.GroupID = groupData
		cmd.AddCommand(sub)
	}
	for _, sub := range []*cobra.Command{newLoginCmd(), newConfigCmd()} {
		sub.GroupID = groupSetup
		cmd.AddCommand(sub)
	}

	return cmd
}

// Command group IDs.
const (
	groupData  = "data"
	groupSetup = "setup"
)

// loadConfig builds the effective configuration: defaults, the config file,
// an optional project overlay, .env and environment, then CLI flags.
func loadConfig(cmd *cobra.Command) {
	ctx := cmd.Context()
	_ = config.LoadDotEnv(".env")

	projectFlag, _ := cmd.Flags().GetString(flagProjectConfig)
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg := config.NewWithProjectConfig(ctx, config.ResolveProjectConfig(ctx, projectFlag, cwd))

	if server, _ := cmd.Flags().GetString(flagServer); server != "" {
		cfg.Server.URL = server
	}
	config.SetGlobalConfig(cfg)
}

const rootCmdExample = `  # Log in and store the token
  fintrack login --email me@example.com

  # List this month's expenses, 50 per page
  fintrack tx list --type expense --page-size 50

  # Search notes and jump to page 3
  fintrack tx list --keyword coffee --page 3

  # Browse transactions interactively
  fintrack tx browse

  # Show the dashboard for March 2025
  fintrack dashboard --month 3 --year 2025

  # Export a month as CSV
  fintrack report export --format csv --month 3 --year 2025 -o ./exports

  # Set the default page size
  fintrack config set list.page_size 50`
