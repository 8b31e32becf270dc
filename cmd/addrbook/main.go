package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/smileynet/addrbook"
	"github.com/smileynet/addrbook/internal/book"
	"github.com/smileynet/addrbook/internal/config"
	"github.com/smileynet/addrbook/internal/contact"
	"github.com/smileynet/addrbook/internal/logging"
	"github.com/smileynet/addrbook/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitSuccess = 0
	exitError   = 1
)

// Globals are flags shared by every command.
type Globals struct {
	ConfigFile string `name:"config" help:"Extra config file layered over user and project config." placeholder:"PATH"`
}

// CLI is the top-level command structure for addrbook.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Open    OpenCmd          `cmd:"" default:"withargs" help:"Open the address book (default)."`
	Config  ConfigCmd        `cmd:"" help:"Print the default configuration file."`
}

// OpenCmd opens the address book window.
type OpenCmd struct {
	Plain bool `help:"Force the line-oriented session even if stdout is a TTY." default:"false"`
}

// loadConfig loads layered config from user, project, and explicit paths with env overrides.
func loadConfig(extra string) (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/addrbook/config.yaml"),
		".addrbook.yaml",
		extra,
	)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run builds the store, logger, and display, then runs the session.
func (o *OpenCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g.ConfigFile)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	display := tui.NewDisplay(tui.DisplayOptions{
		ForcePlain: o.Plain,
		Dispatcher: book.NewDispatcher(contact.NewStore(), book.WithLogger(logger)),
		UI:         cfg.UI,
		Theme:      cfg.Theme,
	})
	return o.run(ctx, display, logger)
}

// run executes the display session, enabling testable wiring.
func (o *OpenCmd) run(ctx context.Context, display tui.Display, logger *zap.Logger) error {
	logger.Info("session started", zap.Bool("plain_forced", o.Plain), zap.String("version", version))

	err := display.Run(ctx)
	if errors.Is(err, context.Canceled) {
		// Interrupted by the user; contacts are discarded either way.
		err = nil
	}
	if err != nil {
		logger.Error("session failed", zap.Error(err))
		return fmt.Errorf("open: %w", err)
	}

	logger.Info("session ended")
	return nil
}

// ConfigCmd prints the commented default config file.
type ConfigCmd struct{}

// Run executes the config command.
func (c *ConfigCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *ConfigCmd) run(w io.Writer) error {
	if _, err := w.Write(addrbook.DefaultConfig()); err != nil {
		return fmt.Errorf("config: writing: %w", err)
	}
	return nil
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	return exitError
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("addrbook"),
		kong.Description("Record and search contacts in an in-memory address book."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
