package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/fintrack/internal/api"
	"github.com/rshade/fintrack/internal/config"
	"github.com/rshade/fintrack/internal/format"
	"github.com/rshade/fintrack/internal/logging"
	"github.com/rshade/fintrack/internal/notify"
	"github.com/rshade/fintrack/internal/tui"
	"github.com/rshade/fintrack/pkg/version"
)

// app is what a data command needs: the effective config, an API client,
// the formatter and the output mode.
type app struct {
	cfg    *config.Config
	client *api.Client
	format *format.Formatter
	mode   tui.OutputMode
	logger zerolog.Logger
	out    io.Writer
	errOut io.Writer
	sink   notify.Sink
}

// newApp builds the app for cmd from the global config and persistent flags.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg := config.GetGlobalConfig()
	log := *logging.FromContext(cmd.Context())

	client, err := api.New(cfg.Server.URL,
		api.WithToken(cfg.Server.Token),
		api.WithTimeout(cfg.Server.Timeout()),
		api.WithLogger(log),
		api.WithUserAgent("fintrack/"+version.GetVersion()),
	)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Reason: "invalid server url", Err: err}
	}

	f, err := format.New(cfg.Display.Currency, cfg.Display.Locale, cfg.Display.DateFormat)
	if err != nil {
		return nil, fmt.Errorf("display settings: %w", err)
	}

	plain, _ := cmd.Flags().GetBool(flagPlain)
	noColor, _ := cmd.Flags().GetBool(flagNoColor)
	mode := tui.DetectOutputMode(plain, noColor, false)

	return &app{
		cfg:    cfg,
		client: client,
		format: f,
		mode:   mode,
		logger: log,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		sink: notify.Multi{
			notify.NewWriterSink(cmd.ErrOrStderr(), mode == tui.OutputModePlain),
			notify.NewLogSink(log),
		},
	}, nil
}

// plain reports whether output must be unstyled.
func (a *app) plain() bool {
	return a.mode == tui.OutputModePlain
}

// interactive reports whether a Bubble Tea program may run.
func (a *app) interactive() bool {
	return a.mode == tui.OutputModeInteractive
}

// println writes one line to stdout.
func (a *app) println(s string) {
	_, _ = fmt.Fprintln(a.out, s)
}

// periodFlags holds --month and --year. Zero means the current month.
type periodFlags struct {
	month int
	year  int
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.month, "month", 0, "month 1-12 (default current month)")
	cmd.Flags().IntVar(&p.year, "year", 0, "year (default current year)")
}

// resolve fills unset fields from now and validates the result.
func (p periodFlags) resolve(now time.Time) (api.Period, error) {
	period := api.Period{Month: p.month, Year: p.year}
	if period.Month == 0 {
		period.Month = int(now.Month())
	}
	if period.Year == 0 {
		period.Year = now.Year()
	}
	if err := api.ValidatePeriod(period.Month, period.Year); err != nil {
		return api.Period{}, &ExitError{Code: ExitUsage, Reason: "invalid period", Err: err}
	}
	return period, nil
}

// errInvalidID is returned for non-numeric or non-positive IDs.
var errInvalidID = errors.New("id must be a positive integer")

// parseID parses a positional ID argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ExitError{Code: ExitUsage, Reason: fmt.Sprintf("invalid id %q", s), Err: errInvalidID}
	}
	return id, nil
}

// parseIDs parses every positional ID argument, failing on the first bad one.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// requireFlags fails with ExitUsage unless every named flag was passed.
func requireFlags(cmd *cobra.Command, names ...string) error {
	var missing []string
	for _, name := range names {
		if !cmd.Flags().Changed(name) {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return usageError(fmt.Errorf("required flag(s) %s not set", strings.Join(missing, ", ")))
}

// usageError wraps a flag validation failure with ExitUsage.
func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Reason: "invalid arguments", Err: err}
}
