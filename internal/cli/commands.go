package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zappabad/stocksuggester/internal/backend"
	"github.com/zappabad/stocksuggester/internal/chart"
	"github.com/zappabad/stocksuggester/internal/config"
	"github.com/zappabad/stocksuggester/internal/dashboard"
	"github.com/zappabad/stocksuggester/internal/logging"
	"github.com/zappabad/stocksuggester/internal/search"
	"github.com/zappabad/stocksuggester/internal/stock"
	"github.com/zappabad/stocksuggester/tui"
	"github.com/zappabad/stocksuggester/tui/panels"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

// app is everything a command needs once flags and config are resolved.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
	client   *backend.Client
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var a app

	rootCmd := &cobra.Command{
		Use:   "stocksuggester",
		Short: "Stock Suggester - terminal stock lookup dashboard",
		Long: `Stock Suggester shows a grid of hot stocks, looks up any ticker with its latest
news and draws its price history. Data comes from the stock backend over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start the dashboard
			return runDashboard(&a)
		},
	}

	// Add subcommands
	rootCmd.AddCommand(newLookupCmd(&a))
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Configuration file path")
	flags.String("base-url", "", "Backend base URL")
	flags.Duration("timeout", 0, "Backend request timeout")
	flags.Bool("dark", false, "Start in dark mode")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Log file path; empty discards logs")

	return rootCmd
}

// setup loads the configuration, applies flag overrides and builds the
// logger and backend client.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if flags.Changed("base-url") {
		cfg.Backend.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("timeout") {
		if d, _ := flags.GetDuration("timeout"); d > 0 {
			cfg.Backend.Timeout = d
		}
	}
	if flags.Changed("dark") {
		cfg.UI.DarkMode, _ = flags.GetBool("dark")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.Logging.File, _ = flags.GetString("log-file")
	}

	w, closeLog, err := logging.Open(cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	a.cfg = cfg
	a.closeLog = closeLog
	a.log = logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, w)
	a.client = backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, a.log)

	a.log.Info("starting",
		"version", Version,
		"command", cmd.Name(),
		"base_url", cfg.Backend.BaseURL,
		"timeout", cfg.Backend.Timeout,
	)
	return nil
}

func (a *app) period() stock.Period {
	p, err := stock.ParsePeriod(a.cfg.UI.DefaultPeriod)
	if err != nil {
		a.log.Warn("invalid default period, using 1M", "period", a.cfg.UI.DefaultPeriod)
		return stock.DefaultPeriod
	}
	return p
}

// runDashboard starts the full-screen terminal UI.
func runDashboard(a *app) error {
	dash := dashboard.NewController(a.client, search.NewController(a.client, a.log), a.log)
	dash.SetDarkMode(a.cfg.UI.DarkMode)
	adapter := chart.NewAdapter(a.client, a.log)

	model := tui.NewModel(dash, adapter, a.period(), a.log)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// newLookupCmd creates the lookup command
func newLookupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [TICKER]",
		Short: "Print a stock's details and news without the dashboard",
		Long: `Look up a single ticker and print its detail card and latest news.
Example: stocksuggester lookup RELIANCE.NS --chart --period 1y`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withChart, _ := cmd.Flags().GetBool("chart")
			periodFlag, _ := cmd.Flags().GetString("period")
			width, _ := cmd.Flags().GetInt("width")

			period := a.period()
			if periodFlag != "" {
				p, err := stock.ParsePeriod(periodFlag)
				if err != nil {
					return err
				}
				period = p
			}

			return runLookup(cmd.Context(), a, cmd.OutOrStdout(), args[0], lookupOptions{
				chart:  withChart,
				period: period,
				width:  width,
			})
		},
	}

	// Lookup command flags
	cmd.Flags().Bool("chart", false, "Also print the price history chart")
	cmd.Flags().String("period", "", "Chart period (1D, 1W, 1M, 1Y, Max)")
	cmd.Flags().Int("width", 80, "Output width")

	return cmd
}

type lookupOptions struct {
	chart  bool
	period stock.Period
	width  int
}

// runLookup performs one combined search and prints the result.
func runLookup(ctx context.Context, a *app, out io.Writer, ticker string, opts lookupOptions) error {
	res, ok := search.NewController(a.client, a.log).Submit(ctx, ticker)
	if !ok {
		return fmt.Errorf("ticker is required")
	}
	if res.Selected == nil && len(res.News) == 0 {
		return fmt.Errorf("no data found for %q", ticker)
	}

	card := panels.NewCardView()
	card.SetTitle(ticker)
	card.SetSize(opts.width, 0)
	card.SetSnapshot(res.Selected)
	card.SetNews(res.News)
	fmt.Fprintln(out, card.View())

	if !opts.chart || res.Selected == nil {
		return nil
	}

	chartPanel := panels.NewChartPanel(chart.NewAdapter(a.client, a.log), opts.period)
	chartPanel.SetSize(opts.width, 20)

	if cmd := chartPanel.Show(*res.Selected); cmd != nil {
		chartPanel.Update(cmd())
	}
	fmt.Fprintln(out, chartPanel.View())
	return nil
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// No config or logger needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stocksuggester %s\n", Version)
		},
	}
}
