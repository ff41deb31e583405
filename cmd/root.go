package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"bioskop-cli/config"
	"bioskop-cli/listing"
	"bioskop-cli/service"
	"bioskop-cli/session"
	"bioskop-cli/store"
	"bioskop-cli/tui"
	"bioskop-cli/validate"
)

const appName = "bioskop-cli"

var errLoginRequired = errors.New("login required")

// usageError marks a command line that could not be parsed: an unknown flag
// or command, or the wrong arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usage(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

// app carries the wiring shared by every command.
type app struct {
	version string
	commit  string

	envFile  string
	apiURL   string
	logLevel string
	strict   bool

	cfg       config.Config
	logger    *slog.Logger
	logFile   io.Closer
	client    *service.Client
	services  service.Services
	session   *session.Manager
	validator *validate.Validator
}

// Execute runs the command line and returns the process exit code.
func Execute(version, commit string) int {
	root := newRootCmd(&app{version: version, commit: commit})
	return exitCode(root.Execute(), os.Stderr)
}

// exitCode reports err on stderr and maps it to the process exit code:
// 1 for failures, 2 for usage errors, 3 when a login is required.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var bad *usageError
	switch {
	case errors.As(err, &bad):
		fmt.Fprintln(stderr, "Error:", err)
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", appName)
		return 2
	case errors.Is(err, service.ErrTransport):
		fmt.Fprintln(stderr, "Error:", listing.FallbackMessage)
		return 1
	case errors.Is(err, errLoginRequired):
		fmt.Fprintln(stderr, "Error:", err)
		return 3
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
}

// tagUsageErrors makes argument checks on c and its subcommands return
// usage errors. Flag errors are tagged once on the root and inherited.
func tagUsageErrors(c *cobra.Command) {
	if check := c.Args; check != nil {
		c.Args = func(cmd *cobra.Command, args []string) error {
			return usage(check(cmd, args))
		}
	}
	for _, sub := range c.Commands() {
		tagUsageErrors(sub)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Browse films and book cinema tickets from the terminal",
		Long:          "Bioskop CLI: browse what's playing, book tickets and manage the cinema back office.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, cmd.Parent() == nil)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", "", "load settings from this file (default .env)")
	flags.StringVar(&a.apiURL, "api-url", "", "API base URL (overrides BIOSKOP_API_URL)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.strict, "strict", false, "treat unrecognized list responses as errors")

	root.AddCommand(
		newVersionCmd(a),
		newFilmsCmd(a),
		newNowPlayingCmd(a),
		newComingSoonCmd(a),
		newFilmCmd(a),
		newPromosCmd(a),
		newSearchCmd(a),
		newBookCmd(a),
		newBookingsCmd(a),
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newProfileCmd(a),
		newPasswordCmd(a),
		newAdminCmd(a),
	)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usage(err)
	})
	tagUsageErrors(root)
	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", appName, a.version)
			if a.commit != "none" && a.commit != "" {
				fmt.Fprintf(out, " (%s)", a.commit)
			}
			fmt.Fprintln(out)
		},
	}
}

func (a *app) setup(cmd *cobra.Command, interactive bool) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	if a.logLevel != "" {
		level, err := config.ParseLevel(a.logLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = a.strict
	}
	a.cfg = cfg

	if err := a.setupLogger(cmd.ErrOrStderr(), interactive); err != nil {
		return err
	}

	persist, err := store.NewSessionFile("")
	if err != nil {
		return err
	}
	a.validator = validate.New()
	a.session = session.NewManager(
		session.WithPersister(persist),
		session.WithLogger(a.logger),
		session.WithValidator(a.validator),
	)
	a.client = service.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.Timeout},
		service.WithTokenSource(a.session),
		service.WithUnauthorizedHandler(a.session.Expire),
		service.WithLogger(a.logger),
		service.WithMaxAttempts(cfg.MaxAttempts),
		service.WithUserAgent(appName+"/"+a.version),
	)
	a.services = service.NewServices(a.client)
	a.session.SetAuth(a.services.Auth)

	if _, err := a.session.Restore(); err != nil {
		a.logger.Warn("could not restore session", "err", err)
	}
	return nil
}

// setupLogger writes to stderr for subcommands. The TUI owns the terminal, so
// it logs to a file instead.
func (a *app) setupLogger(stderr io.Writer, interactive bool) error {
	opts := &slog.HandlerOptions{Level: a.cfg.LogLevel}
	if !interactive {
		a.logger = slog.New(slog.NewTextHandler(stderr, opts))
		return nil
	}

	path := a.cfg.LogFile
	if path == "" {
		var err error
		path, err = store.CachePath("bioskop.log")
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	a.logFile = f
	a.logger = slog.New(slog.NewTextHandler(f, opts))
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func (a *app) runTUI() error {
	model := tui.New(tui.Deps{
		Services:    a.services,
		Session:     a.session,
		Validator:   a.validator,
		Logger:      a.logger,
		Strict:      a.cfg.Strict,
		SearchDelay: a.cfg.SearchDelay,
		APIURL:      a.cfg.APIURL,
	})
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// require checks the session against access before a guarded command runs.
func (a *app) require(access session.Access) error {
	decision := session.Allow(a.session.Current(), access)
	if decision.Allowed {
		return nil
	}
	if decision.Reason == errLoginRequired.Error() {
		return fmt.Errorf("%w: run `%s %s` first", errLoginRequired, appName, decision.Redirect)
	}
	return fmt.Errorf("%w: %s", errLoginRequired, decision.Reason)
}
