package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"smartdoc-admin/internal/api"
	"smartdoc-admin/internal/format"
	"smartdoc-admin/internal/logging"
	"smartdoc-admin/internal/session"
	"smartdoc-admin/internal/store"
	"smartdoc-admin/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	APIURL     string
	Token      string
	Email      string
	Timeout    time.Duration
	PrettyJSON bool
	Format     string

	log      *slog.Logger
	closeLog func() error
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "smartdoc-admin",
		Short:        "SmartDoc AI admin console (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  smartdoc-admin

  # Scriptable commands
  smartdoc-admin documents list --token $SMARTDOC_ADMIN_TOKEN

  # Filter and export
  smartdoc-admin documents list --search report --format csv --all

  # Check whether the backend answers
  smartdoc-admin ping --wait 5s
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal and scripts own stdout, so diagnostics
		// go to the file log. A failed open degrades to a discard logger.
		log, closeLog, _ := logging.Open()
		app.log = log
		app.closeLog = closeLog
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeLog != nil {
			return app.closeLog()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", envOr("BACKEND_API_URL", ""), "Backend base URL (default: config file, then "+api.DefaultBaseURL+")")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("SMARTDOC_ADMIN_TOKEN", ""), "Bearer token (skips the login round trip)")
	cmd.PersistentFlags().StringVar(&app.Email, "email", envOr("SMARTDOC_ADMIN_EMAIL", ""), "Admin email for login (password from SMARTDOC_ADMIN_PASSWORD or prompt)")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 30*time.Second, "Per-request timeout")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SMARTDOC_ADMIN_FORMAT", "json"), "Output format (json|csv)")

	cmd.AddCommand(newPingCmd(app))
	cmd.AddCommand(newDocumentsCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newStatsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open()
	if err != nil {
		return err
	}
	c := app.client()

	if err := tui.Run(tui.Options{
		Client:  c,
		Session: session.New(),
		Store:   st,
		Config:  cfg,
		Log:     app.log,
	}); err != nil {
		return err
	}

	// Remember the backend for the next bare invocation.
	if cfg.APIURL != c.BaseURL() {
		cfg.APIURL = c.BaseURL()
		_ = store.SaveConfig(cfg)
	}
	return nil
}

// client builds the API client from --api-url, falling back to the persisted
// config and finally the compiled-in default.
func (app *App) client() *api.Client {
	url := strings.TrimSpace(app.APIURL)
	if url == "" {
		if cfg, err := store.LoadConfig(); err == nil {
			url = cfg.APIURL
		}
	}
	c := api.New(url, app.log)
	if app.Timeout > 0 {
		c.SetTimeout(app.Timeout)
	}
	return c
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

// writeRows picks the payload per format: csv gets the flat table, json gets
// the data/meta envelope.
func writeRows(cmd *cobra.Command, app *App, table format.Table, envelope any) error {
	if app.Format == "csv" {
		return writeOut(cmd, app, table)
	}
	return writeOut(cmd, app, envelope)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
