// Package book translates the two user actions of the address book form
// (add and search) into contact store operations and describes how the
// view should change in response. It holds no rendering state.
package book

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/smileynet/addrbook/internal/contact"
)

// User-facing messages shown after an action.
const (
	MsgEmptyField = "please fill in all fields."
	MsgNoResults  = "no results found."
)

// Action is a user-triggered command dispatched to the book.
type Action int

const (
	ActionAdd    Action = iota // Record the entry fields as a new contact.
	ActionSearch               // Filter contacts by the search field.
)

// String returns the action name used in logs and plain-mode commands.
func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionSearch:
		return "search"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ErrUnknownAction is returned in Outcome.Err for actions the book does not handle.
var ErrUnknownAction = errors.New("book: unknown action")

// Form is the literal text of the form inputs at the time of an action.
type Form struct {
	Name   string
	Phone  string
	Email  string
	Search string
}

// Outcome describes how the view changes after an action.
type Outcome struct {
	Action Action
	// Rows replaces the displayed rows when Render is true.
	Rows   []contact.Contact
	Render bool
	// Message replaces the status line; empty clears it.
	Message string
	// ClearInputs empties the name, phone, and email inputs.
	ClearInputs bool
	Err         error
}

// Dispatcher owns the contact store and applies actions to it.
type Dispatcher struct {
	store  *contact.Store
	logger *zap.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for action tracing.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a Dispatcher over store. A nil store starts empty.
func NewDispatcher(store *contact.Store, opts ...Option) *Dispatcher {
	if store == nil {
		store = contact.NewStore()
	}
	d := &Dispatcher{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Rows returns every contact for the initial render.
func (d *Dispatcher) Rows() []contact.Contact {
	return d.store.All()
}

// Len reports the number of stored contacts.
func (d *Dispatcher) Len() int {
	return d.store.Len()
}

// Dispatch runs a single action to completion and returns its Outcome.
func (d *Dispatcher) Dispatch(a Action, f Form) Outcome {
	switch a {
	case ActionAdd:
		return d.add(f)
	case ActionSearch:
		return d.search(f.Search)
	default:
		d.logger.Warn("unknown action", zap.Stringer("action", a))
		return Outcome{Action: a, Err: fmt.Errorf("%w: %s", ErrUnknownAction, a)}
	}
}

func (d *Dispatcher) add(f Form) Outcome {
	if _, err := d.store.Add(f.Name, f.Phone, f.Email); err != nil {
		if errors.Is(err, contact.ErrEmptyField) {
			d.logger.Info("add rejected", zap.Error(err))
			return Outcome{Action: ActionAdd, Message: MsgEmptyField}
		}
		return Outcome{Action: ActionAdd, Err: err}
	}

	d.logger.Debug("contact added", zap.Int("size", d.store.Len()))
	return Outcome{
		Action:      ActionAdd,
		Rows:        d.store.All(),
		Render:      true,
		ClearInputs: true,
	}
}

func (d *Dispatcher) search(term string) Outcome {
	rows := d.store.Search(term)
	d.logger.Debug("search",
		zap.Int("term_len", len(term)),
		zap.Int("results", len(rows)))

	out := Outcome{Action: ActionSearch, Rows: rows, Render: true}
	if len(rows) == 0 && term != "" {
		out.Message = MsgNoResults
	}
	return out
}
