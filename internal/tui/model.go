// Package tui renders the address book form: a Bubble Tea model for
// terminals and a line-oriented plain session for everything else.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/addrbook/internal/book"
	"github.com/smileynet/addrbook/internal/config"
	"github.com/smileynet/addrbook/internal/contact"
)

// defaultWidth is used until the first tea.WindowSizeMsg arrives.
const defaultWidth = 60

// Field identifies a focusable element of the form, in tab order.
type Field int

const (
	FieldName         Field = iota // Name input.
	FieldPhone                     // Phone input.
	FieldEmail                     // Email input.
	FieldAdd                       // Add button.
	FieldSearch                    // Search input.
	FieldSearchButton              // Search button.
	FieldTable                     // Result table.
	fieldCount
)

// Indexes into Model.inputs.
const (
	inputName = iota
	inputPhone
	inputEmail
	inputSearch
	inputCount
)

// Placeholders for the four text inputs.
var placeholders = [inputCount]string{
	inputName:   "Enter a name.",
	inputPhone:  "Enter a phone number.",
	inputEmail:  "Enter an email address.",
	inputSearch: "Search by name.",
}

// Model is the Bubble Tea model for the address book form.
type Model struct {
	dispatcher *book.Dispatcher
	inputs     [inputCount]textinput.Model
	table      table.Model
	help       help.Model
	keys       keyMap
	styles     Styles
	title      string
	focus      Field
	message    string
	width      int
	height     int
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithTitle sets the heading shown above the form.
func WithTitle(title string) ModelOption {
	return func(m *Model) {
		m.title = title
	}
}

// WithTheme sets the colors used by the form.
func WithTheme(theme config.Theme) ModelOption {
	return func(m *Model) {
		m.styles = NewStyles(theme)
		m.table.SetStyles(m.styles.Table)
	}
}

// WithTableHeight sets how many result rows are visible at once.
func WithTableHeight(h int) ModelOption {
	return func(m *Model) {
		if h > 0 {
			m.table.SetHeight(h)
		}
	}
}

// NewModel creates a form bound to d with focus on the name input.
// The table starts with every contact already in d.
func NewModel(d *book.Dispatcher, opts ...ModelOption) Model {
	if d == nil {
		d = book.NewDispatcher(nil)
	}
	defaults := config.DefaultConfig()

	m := Model{
		dispatcher: d,
		help:       help.New(),
		keys:       FormKeyMap(),
		styles:     NewStyles(defaults.Theme),
		title:      defaults.UI.Title,
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = ""
		ti.CharLimit = 0 // no limit; values are stored verbatim
		m.inputs[i] = ti
	}

	name, phone, email := ColumnWidths(defaultWidth)
	m.table = table.New(
		table.WithColumns(columns(name, phone, email)),
		table.WithHeight(defaults.UI.TableHeight),
		table.WithStyles(m.styles.Table),
	)

	for _, opt := range opts {
		opt(&m)
	}

	m.resize(defaultWidth)
	m.setRows(d.Rows())
	m.setFocus(FieldName)
	return m
}

func columns(name, phone, email int) []table.Column {
	return []table.Column{
		{Title: "Name", Width: name},
		{Title: "Phone", Width: phone},
		{Title: "Email", Width: email},
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

// handleKey routes key presses: global bindings first, then the focused element.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Add):
		cmd = m.Dispatch(book.ActionAdd)

	case key.Matches(msg, m.keys.Search):
		cmd = m.Dispatch(book.ActionSearch)

	case key.Matches(msg, m.keys.Submit):
		if a, ok := submitAction(m.focus); ok {
			cmd = m.Dispatch(a)
		}

	case msg.String() == "tab" || msg.String() == "shift+tab":
		cmd = m.cycle(msg.String() == "tab")

	case m.focus != FieldTable && key.Matches(msg, m.keys.Next):
		cmd = m.cycle(true)

	case m.focus != FieldTable && key.Matches(msg, m.keys.Prev):
		cmd = m.cycle(false)

	default:
		return m.forward(msg)
	}
	return m, cmd
}

// submitAction maps the focused element to the action enter triggers.
func submitAction(f Field) (book.Action, bool) {
	switch f {
	case FieldName, FieldPhone, FieldEmail, FieldAdd:
		return book.ActionAdd, true
	case FieldSearch, FieldSearchButton:
		return book.ActionSearch, true
	default:
		return 0, false
	}
}

// forward passes msg to the focused input or the table.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FieldTable:
		m.table, cmd = m.table.Update(msg)
	default:
		if i, ok := inputFor(m.focus); ok {
			m.inputs[i], cmd = m.inputs[i].Update(msg)
		}
	}
	return m, cmd
}

// Dispatch runs action a against the current form contents and applies
// the outcome. It returns the command produced by any focus change.
func (m *Model) Dispatch(a book.Action) tea.Cmd {
	out := m.dispatcher.Dispatch(a, m.Form())
	return m.apply(out)
}

// Form returns the literal contents of the form inputs.
func (m Model) Form() book.Form {
	return book.Form{
		Name:   m.inputs[inputName].Value(),
		Phone:  m.inputs[inputPhone].Value(),
		Email:  m.inputs[inputEmail].Value(),
		Search: m.inputs[inputSearch].Value(),
	}
}

// SetInput replaces the text of the input behind f. Non-input fields are ignored.
func (m *Model) SetInput(f Field, value string) {
	if i, ok := inputFor(f); ok {
		m.inputs[i].SetValue(value)
	}
}

// Rows returns the rows currently shown in the result table.
func (m Model) Rows() []table.Row {
	return m.table.Rows()
}

// Message returns the current status message.
func (m Model) Message() string {
	return m.message
}

// Focus returns the focused element.
func (m Model) Focus() Field {
	return m.focus
}

// apply updates the view from an outcome.
func (m *Model) apply(out book.Outcome) tea.Cmd {
	if out.Err != nil {
		m.message = out.Err.Error()
		return nil
	}
	if out.Render {
		m.setRows(out.Rows)
	}
	m.message = out.Message
	if out.ClearInputs {
		for _, i := range []int{inputName, inputPhone, inputEmail} {
			m.inputs[i].Reset()
		}
		return m.setFocus(FieldName)
	}
	return nil
}

// setRows fully replaces the table rows with the given contacts.
func (m *Model) setRows(cs []contact.Contact) {
	rows := make([]table.Row, len(cs))
	for i, c := range cs {
		rows[i] = table.Row(c.Row())
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// cycle moves focus to the next or previous element, wrapping around.
func (m *Model) cycle(forward bool) tea.Cmd {
	next := m.focus + 1
	if !forward {
		next = m.focus - 1
	}
	next = (next + fieldCount) % fieldCount
	return m.setFocus(next)
}

// setFocus blurs everything and focuses f.
func (m *Model) setFocus(f Field) tea.Cmd {
	m.focus = f
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.table.Blur()

	if f == FieldTable {
		m.table.Focus()
		return nil
	}
	if i, ok := inputFor(f); ok {
		return m.inputs[i].Focus()
	}
	return nil
}

// inputFor maps a field to its index in Model.inputs.
func inputFor(f Field) (int, bool) {
	switch f {
	case FieldName:
		return inputName, true
	case FieldPhone:
		return inputPhone, true
	case FieldEmail:
		return inputEmail, true
	case FieldSearch:
		return inputSearch, true
	default:
		return 0, false
	}
}

// resize fits inputs and table columns to the terminal width.
func (m *Model) resize(width int) {
	// Border and padding take four cells around each input.
	inputWidth := width - 4
	if inputWidth < minColumnWidth {
		inputWidth = minColumnWidth
	}
	for i := range m.inputs {
		m.inputs[i].Width = inputWidth
	}
	m.table.SetColumns(columns(ColumnWidths(width)))
}

// View renders the form, result table, status message, and help bar.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n")
	for _, f := range []Field{FieldName, FieldPhone, FieldEmail} {
		b.WriteString(m.viewInput(f))
		b.WriteString("\n")
	}
	b.WriteString(m.viewButton(FieldAdd, "Add"))
	b.WriteString("\n")
	b.WriteString(m.viewInput(FieldSearch))
	b.WriteString("\n")
	b.WriteString(m.viewButton(FieldSearchButton, "Search"))
	b.WriteString("\n")

	frame := m.styles.TableFrame
	if m.focus == FieldTable {
		frame = m.styles.TableFocused
	}
	b.WriteString(frame.Render(m.table.View()))

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Message.Render(m.message))
	}

	return lipgloss.JoinVertical(lipgloss.Left, b.String(), "", m.help.View(m.keys))
}

func (m Model) viewInput(f Field) string {
	i, _ := inputFor(f)
	style := m.styles.Input
	if m.focus == f {
		style = m.styles.InputFocused
	}
	return style.Render(m.inputs[i].View())
}

func (m Model) viewButton(f Field, label string) string {
	style := m.styles.Button
	if m.focus == f {
		style = m.styles.ButtonFocused
	}
	return style.Render("[ " + label + " ]")
}
