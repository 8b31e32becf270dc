package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/smileynet/addrbook/internal/book"
	"github.com/smileynet/addrbook/internal/contact"
)

// --- isTTY ---

func TestIsTTY_NonFileWriter(t *testing.T) {
	var buf bytes.Buffer
	if isTTY(&buf) {
		t.Error("non-*os.File writer should not be a TTY")
	}
}

func TestIsTTY_RegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "test")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	if isTTY(f) {
		t.Error("regular file should not be a TTY")
	}
}

// --- NewDisplay factory ---

func TestNewDisplay_ForcePlainReturnsPlainDisplay(t *testing.T) {
	d := NewDisplay(DisplayOptions{Writer: os.Stdout, ForcePlain: true})

	if _, ok := d.(*PlainDisplay); !ok {
		t.Errorf("ForcePlain should return *PlainDisplay, got %T", d)
	}
}

func TestNewDisplay_NonTTYReturnsPlainDisplay(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplay(DisplayOptions{Writer: &buf})

	if _, ok := d.(*PlainDisplay); !ok {
		t.Errorf("non-TTY writer should return *PlainDisplay, got %T", d)
	}
}

func TestNewDisplay_DefaultsReaderAndWriter(t *testing.T) {
	d := NewDisplay(DisplayOptions{ForcePlain: true})

	pd, ok := d.(*PlainDisplay)
	if !ok {
		t.Fatalf("expected *PlainDisplay, got %T", d)
	}
	if pd.w != os.Stdout {
		t.Error("default Writer should be os.Stdout")
	}
	if pd.r != os.Stdin {
		t.Error("default Reader should be os.Stdin")
	}
	if pd.dispatcher == nil {
		t.Error("default Dispatcher should be created")
	}
	if pd.title != "Address Book" {
		t.Errorf("title = %q, want default", pd.title)
	}
}

func TestNewDisplay_SharesDispatcher(t *testing.T) {
	store := contact.NewStore()
	if _, err := store.Add("Alice", "111", "a@x.com"); err != nil {
		t.Fatal(err)
	}
	disp := book.NewDispatcher(store)
	var out bytes.Buffer

	d := NewDisplay(DisplayOptions{
		Reader:     strings.NewReader("list\n"),
		Writer:     &out,
		Dispatcher: disp,
	})
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out.String(), "Alice") {
		t.Errorf("list should show contacts from the shared dispatcher, got:\n%s", out.String())
	}
}

// --- PlainDisplay ---

func runPlain(t *testing.T, input string) (string, *book.Dispatcher) {
	t.Helper()
	var out bytes.Buffer
	disp := book.NewDispatcher(nil)
	d := NewPlainDisplay(strings.NewReader(input), &out, disp)
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String(), disp
}

func TestPlainDisplay_Scenario(t *testing.T) {
	input := strings.Join([]string{
		"add", "Alice", "111", "a@x.com",
		"add", "Bob", "222", "b@x.com",
		"search", "ali",
		"search", "z",
		"add", "", "333", "c@x.com",
		"quit",
	}, "\n") + "\n"

	out, disp := runPlain(t, input)

	if disp.Len() != 2 {
		t.Errorf("store size = %d, want 2", disp.Len())
	}
	if strings.Count(out, book.MsgNoResults) != 1 {
		t.Errorf("output should report no results once, got:\n%s", out)
	}
	if strings.Count(out, book.MsgEmptyField) != 1 {
		t.Errorf("output should report the empty field once, got:\n%s", out)
	}

	rows := disp.Dispatch(book.ActionSearch, book.Form{Search: "ali"}).Rows
	if len(rows) != 1 || rows[0].Name != "Alice" {
		t.Errorf("search ali = %v, want [Alice]", rows)
	}
}

func TestPlainDisplay_KeepsFieldWhitespace(t *testing.T) {
	_, disp := runPlain(t, "add\n  Ann \n 1\r\n e@x.com\n")

	rows := disp.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	want := contact.Contact{Name: "  Ann ", Phone: " 1", Email: " e@x.com"}
	if rows[0] != want {
		t.Errorf("stored %+v, want %+v", rows[0], want)
	}
}

func TestPlainDisplay_CommandsAreCaseAndSpaceInsensitive(t *testing.T) {
	out, disp := runPlain(t, "  ADD \nAlice\n111\na@x.com\n LIST\n")

	if disp.Len() != 1 {
		t.Errorf("store size = %d, want 1", disp.Len())
	}
	if strings.Count(out, "Alice") < 2 {
		t.Errorf("add and list should both render Alice, got:\n%s", out)
	}
}

func TestPlainDisplay_Help(t *testing.T) {
	out, _ := runPlain(t, "help\n")

	for _, want := range []string{"add", "search", "list", "quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("help should mention %q, got:\n%s", want, out)
		}
	}
}

func TestPlainDisplay_UnknownCommand(t *testing.T) {
	out, _ := runPlain(t, "frobnicate\nquit\n")

	if !strings.Contains(out, `unknown command "frobnicate"`) {
		t.Errorf("output should flag unknown command, got:\n%s", out)
	}
}

func TestPlainDisplay_EOFMidAddEndsSession(t *testing.T) {
	_, disp := runPlain(t, "add\nAlice\n111")

	// The last line has no terminator but still reads as the phone; email is missing.
	if disp.Len() != 0 {
		t.Errorf("store size = %d, want 0", disp.Len())
	}
}

func TestPlainDisplay_EmptySearchListsAllWithoutMessage(t *testing.T) {
	out, _ := runPlain(t, "add\nAlice\n111\na@x.com\nsearch\n\n")

	if strings.Contains(out, book.MsgNoResults) {
		t.Errorf("empty search must not report no results, got:\n%s", out)
	}
}

func TestPlainDisplay_HandlesContextCancellation(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewPlainDisplay(strings.NewReader("list\n"), &buf, nil)

	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx)
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestPlainDisplay_CancelInterruptsBlockedRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "at the prompt"},
		{name: "mid add", input: "add\nAlice\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: input that stalls without ever closing
			pr, pw := io.Pipe()
			t.Cleanup(func() { _ = pw.Close() })
			if tt.input != "" {
				go func() { _, _ = io.WriteString(pw, tt.input) }()
			}

			d := NewPlainDisplay(pr, io.Discard, nil)
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() {
				done <- d.Run(ctx)
			}()

			// When: the session is cancelled while waiting for a line
			time.Sleep(50 * time.Millisecond)
			cancel()

			// Then: Run returns promptly and nothing was added
			select {
			case err := <-done:
				if !errors.Is(err, context.Canceled) {
					t.Errorf("expected context.Canceled, got %v", err)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("Run stayed blocked on input after cancellation")
			}
			if n := d.dispatcher.Len(); n != 0 {
				t.Errorf("store size = %d, want 0", n)
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestPlainDisplay_ReturnsReadError(t *testing.T) {
	var buf bytes.Buffer
	d := NewPlainDisplay(failingReader{}, &buf, nil)

	err := d.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]contact.Contact{
		{Name: "Alice", Phone: "111", Email: "a@x.com"},
		{Name: "Bob", Phone: "222", Email: "b@x.com"},
	})

	plain := stripANSI(out)
	for _, want := range []string{"Name", "Phone", "Email", "Alice", "a@x.com", "Bob"} {
		if !strings.Contains(plain, want) {
			t.Errorf("table should contain %q, got:\n%s", want, plain)
		}
	}
	if strings.Index(plain, "Alice") > strings.Index(plain, "Bob") {
		t.Error("rows should keep insertion order")
	}
}

func TestRenderTable_Empty(t *testing.T) {
	plain := stripANSI(RenderTable(nil))
	if !strings.Contains(plain, "Name") {
		t.Errorf("empty table should still show headers, got:\n%s", plain)
	}
}
