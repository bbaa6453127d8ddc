package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/config"
	"github.com/rshade/fintrack/internal/notify"
)

var errEmptyPassword = errors.New("password is empty")

func newLoginCmd() *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Long: `Logs in to the server and saves the returned token to the config file
(server.token). The password is read from the terminal without echo, or from
stdin with --password-stdin.`,
		Example: `  fintrack login --email me@example.com

  # In scripts
  echo "$PASSWORD" | fintrack login --email me@example.com --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			email = strings.TrimSpace(email)
			if email == "" {
				return usageError(errors.New("--email is required"))
			}
			password, err := readPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}

			auth, err := a.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
			if err != nil {
				if api.IsUnauthorized(err) {
					return &ExitError{Code: ExitAuth, Reason: "invalid email or password", Err: err}
				}
				return fmt.Errorf("logging in: %w", err)
			}

			cfg := config.GetGlobalConfig()
			if err = saveToken(cfg.FilePath(), auth.Token); err != nil {
				return err
			}
			cfg.Server.Token = auth.Token

			logger.Info().Ctx(ctx).Str("operation", "login").Int64("user_id", auth.UserID).Msg("logged in")
			name := auth.FullName
			if name == "" {
				name = auth.Email
			}
			a.sink.Notify(notify.Success, "Logged in as "+name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")

	return cmd
}

// saveToken writes token into the config file at path without copying
// environment overrides into it.
func saveToken(path, token string) error {
	stored := config.Defaults()
	if err := stored.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	stored.SetFilePath(path)
	stored.Server.Token = token
	if err := stored.Save(); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// readPassword reads the password from stdin or prompts without echo.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	var password string
	if fromStdin || !isTerminal(os.Stdin) {
		pw, err := readLine(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		password = pw
	} else {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd())) //nolint:gosec // Fd fits in int on supported platforms.
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		password = string(raw)
	}
	if password == "" {
		return "", usageError(errEmptyPassword)
	}
	return password, nil
}

func readLine(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", nil
	}
	return strings.TrimRight(scanner.Text(), "\r\n"), nil
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // Fd fits in int on supported platforms.
}
