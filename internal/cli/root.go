// Package cli is the todo command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/config"
	tlog "github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Env is what a run reads from and writes to.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Creds overrides the credential store; nil uses ~/.tada.
	Creds *auth.Store
}

// app is the state shared by every command of one run.
type app struct {
	env Env

	configPath string
	backend    string
	logLevel   string
	color      string

	cfg config.Config
	log zerolog.Logger
}

// Execute runs the command line of the current process and returns its
// exit code.
func Execute() int {
	return Run(os.Args[1:], Env{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr})
}

// Run executes args and maps the outcome to an exit code (0 ok, 1 error,
// 2 usage).
func Run(args []string, env Env) int {
	a := &app{env: env}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(env.Stdin)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	ui.Fail(env.Stderr, err.Error())

	var ue *usageError
	if errors.As(err, &ue) {
		if ue.hint != "" {
			ui.Hint(env.Stderr, ue.hint)
		}
		return ExitUsage
	}
	return ExitFailure
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "todo - a terminal todo board",
		Long: `todo keeps a list of todos on a remote service or in a local file.

Run "todo ls" for the interactive board: drag rows with the mouse to reorder
them or to move them between the To do and Completed columns.`,
		Example: `  todo add "Buy milk"
  todo ls
  todo ls --plain --group
  todo done 2
  todo rm 3`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown subcommand: %s", args[0]).withHint(`run "todo --help" for usage`)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usagef("missing subcommand")
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{msg: err.Error(), hint: fmt.Sprintf(`run "%s --help" for usage`, cmd.CommandPath())}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ~/.config/tada/config.toml, or $TADA_CONFIG)")
	pf.StringVar(&a.backend, "backend", "", `storage backend: "remote" or "local"`)
	pf.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&a.color, "color", "", `colored output: "auto", "always" or "never"`)

	root.AddCommand(
		a.lsCmd(),
		a.addCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.editCmd(),
		a.authCmd(),
		a.configCmd(),
	)
	return root
}

// setup loads configuration, applies flag overrides and configures logging
// and the theme. Commands run after it.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Backend = a.backend
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.color != "" {
		cfg.UI.Color = a.color
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{msg: err.Error()}
	}
	a.cfg = cfg

	tlog.Configure(tlog.Config{Level: cfg.Log.Level, Output: a.env.Stderr})
	a.log = tlog.WithComponent("cli")

	if err := ui.SetColorMode(cfg.UI.Color); err != nil {
		return &usageError{msg: err.Error()}
	}
	if err := ui.SetTheme(cfg.UI.Theme); err != nil {
		a.log.Warn().Err(err).Msg("falling back to default theme")
	}
	return nil
}

func (a *app) creds() (*auth.Store, error) {
	if a.env.Creds != nil {
		return a.env.Creds, nil
	}
	return auth.DefaultStore()
}

// openBackend builds the configured backend. The returned func releases it.
func (a *app) openBackend() (model.Backend, func(), error) {
	if a.cfg.Backend == config.BackendLocal {
		return jsonstore.New(a.cfg.Local.Dir), func() {}, nil
	}

	var token string
	creds, err := a.creds()
	if err != nil {
		return nil, nil, err
	}
	ti, err := creds.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("credentials: %w", err)
	}
	if ti != nil {
		if ti.Expired(time.Now()) {
			a.log.Warn().Str("source", ti.Source).Msg("stored token has expired")
		}
		token = ti.Token
	}

	l := tlog.WithComponent("api")
	c := api.New(a.cfg.API.BaseURL, api.Options{
		Timeout:        a.cfg.API.Timeout,
		RateLimit:      rate.Limit(a.cfg.API.Rate),
		RateLimitBurst: a.cfg.API.Burst,
		Token:          token,
		Logger:         &l,
	})
	return c, c.Close, nil
}

// timeout bounds a one-shot command.
func (a *app) timeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	d := a.cfg.API.Timeout
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(cmd.Context(), d)
}
