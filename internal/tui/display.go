package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/addrbook/internal/book"
	"github.com/smileynet/addrbook/internal/config"
)

// Display runs an interactive address book session until the user quits.
type Display interface {
	Run(ctx context.Context) error
}

// DisplayOptions configures display creation.
type DisplayOptions struct {
	Reader     io.Reader        // Input source (default: os.Stdin).
	Writer     io.Writer        // Output destination (default: os.Stdout).
	ForcePlain bool             // Force the plain session even if TTY.
	Dispatcher *book.Dispatcher // Shared by both displays; nil starts empty.
	UI         config.UI
	Theme      config.Theme
}

// NewDisplay returns a TUI display when the writer is a TTY, or a plain
// line-oriented display otherwise. ForcePlain overrides TTY detection.
func NewDisplay(opts DisplayOptions) Display {
	if opts.Reader == nil {
		opts.Reader = os.Stdin
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = book.NewDispatcher(nil)
	}
	if opts.UI.Title == "" {
		opts.UI = config.DefaultConfig().UI
	}
	if opts.Theme == (config.Theme{}) {
		opts.Theme = config.DefaultConfig().Theme
	}

	plain := &PlainDisplay{r: opts.Reader, w: opts.Writer, dispatcher: opts.Dispatcher, title: opts.UI.Title}
	if opts.ForcePlain || !isTTY(opts.Writer) {
		return plain
	}

	return &TUIDisplay{
		r:         opts.Reader,
		w:         opts.Writer,
		altScreen: opts.UI.AltScreen,
		model: NewModel(opts.Dispatcher,
			WithTitle(opts.UI.Title),
			WithTheme(opts.Theme),
			WithTableHeight(opts.UI.TableHeight),
		),
		fallback: plain,
	}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TUIDisplay runs the form as a Bubble Tea program.
// Falls back to PlainDisplay if the program fails; contacts survive the
// switch because both share one dispatcher.
type TUIDisplay struct {
	r         io.Reader
	w         io.Writer
	altScreen bool
	model     Model
	fallback  *PlainDisplay
}

// Run starts the Bubble Tea program and blocks until the user quits or
// ctx is cancelled.
func (d *TUIDisplay) Run(ctx context.Context) error {
	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(d.w),
	}
	if d.r != os.Stdin {
		opts = append(opts, tea.WithInput(d.r))
	}
	if d.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	p := tea.NewProgram(d.model, opts...)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, _ = fmt.Fprintf(d.w, "warning: terminal UI failed (%v), switching to plain mode\n", err)
		return d.fallback.Run(ctx)
	}
	return nil
}
