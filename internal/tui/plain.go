package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/smileynet/addrbook/internal/book"
	"github.com/smileynet/addrbook/internal/contact"
)

// errQuit ends a plain session normally.
var errQuit = errors.New("quit")

const plainHelp = `commands:
  add     record a contact (prompts for name, phone, email)
  search  filter contacts by name (empty term lists everything)
  list    show every contact
  help    show this text
  quit    leave the address book
`

// PlainDisplay serves the address book as a line-oriented session.
// Field values are taken verbatim; only the line terminator is removed.
type PlainDisplay struct {
	r          io.Reader
	w          io.Writer
	dispatcher *book.Dispatcher
	title      string
}

// NewPlainDisplay creates a plain session reading commands from r and writing to w.
func NewPlainDisplay(r io.Reader, w io.Writer, d *book.Dispatcher) *PlainDisplay {
	if d == nil {
		d = book.NewDispatcher(nil)
	}
	return &PlainDisplay{r: r, w: w, dispatcher: d, title: "Address Book"}
}

// Run reads commands until quit, EOF, or ctx is cancelled.
// Cancellation interrupts a pending read, including one inside add or search.
func (d *PlainDisplay) Run(ctx context.Context) error {
	lr := newLineReader(d.r, ctx.Done())
	_, _ = fmt.Fprintf(d.w, "%s (type \"help\" for commands)\n", d.title)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, _ = fmt.Fprint(d.w, "> ")
		line, err := lr.next(ctx)
		if err == nil {
			err = d.exec(ctx, lr, strings.ToLower(strings.TrimSpace(line)))
		}
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// exec runs one command. It returns errQuit to end the session.
func (d *PlainDisplay) exec(ctx context.Context, lr *lineReader, cmd string) error {
	switch cmd {
	case "":
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		_, _ = fmt.Fprint(d.w, plainHelp)
		return nil
	case "list", "ls":
		d.show(d.dispatcher.Dispatch(book.ActionSearch, book.Form{}))
		return nil
	case "add", "a":
		var f book.Form
		for _, p := range []struct {
			label string
			dst   *string
		}{
			{"name", &f.Name},
			{"phone", &f.Phone},
			{"email", &f.Email},
		} {
			_, _ = fmt.Fprintf(d.w, "%s: ", p.label)
			v, err := lr.next(ctx)
			if err != nil {
				return err
			}
			*p.dst = v
		}
		d.show(d.dispatcher.Dispatch(book.ActionAdd, f))
		return nil
	case "search", "s", "find":
		_, _ = fmt.Fprint(d.w, "search: ")
		term, err := lr.next(ctx)
		if err != nil {
			return err
		}
		d.show(d.dispatcher.Dispatch(book.ActionSearch, book.Form{Search: term}))
		return nil
	default:
		_, _ = fmt.Fprintf(d.w, "unknown command %q (type \"help\" for commands)\n", cmd)
		return nil
	}
}

// show prints the outcome: the table when it is re-rendered, then the message.
func (d *PlainDisplay) show(out book.Outcome) {
	if out.Err != nil {
		_, _ = fmt.Fprintf(d.w, "error: %v\n", out.Err)
		return
	}
	if out.Render {
		_, _ = fmt.Fprintln(d.w, RenderTable(out.Rows))
	}
	if out.Message != "" {
		_, _ = fmt.Fprintln(d.w, out.Message)
	}
}

// RenderTable draws contacts as a bordered three-column table.
func RenderTable(cs []contact.Contact) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Name", "Phone", "Email")
	for _, c := range cs {
		t.Row(c.Row()...)
	}
	return t.String()
}

// lineReader scans lines on its own goroutine so a blocked read never
// holds up cancellation.
type lineReader struct {
	lines chan string
	err   error // scanner error; valid once lines is closed
}

// newLineReader starts scanning r. The goroutine stops sending once done
// is closed; a read already blocked in r ends only when r does.
func newLineReader(r io.Reader, done <-chan struct{}) *lineReader {
	lr := &lineReader{lines: make(chan string)}
	go func() {
		defer close(lr.lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lr.lines <- sc.Text():
			case <-done:
				return
			}
		}
		lr.err = sc.Err()
	}()
	return lr
}

// next returns the next line without its terminator. It returns io.EOF
// at clean end of input and ctx.Err() once ctx is cancelled.
func (lr *lineReader) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lr.lines:
		if !ok {
			if lr.err != nil {
				return "", fmt.Errorf("tui: reading input: %w", lr.err)
			}
			return "", io.EOF
		}
		return line, nil
	}
}
