// Package contact holds the in-memory address book: an append-only,
// insertion-ordered list of name/phone/email records.
package contact

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyField is returned by Store.Add when any of the three fields is empty.
var ErrEmptyField = errors.New("contact: empty field")

// Contact is one name/phone/email record. Values are stored verbatim.
type Contact struct {
	Name  string
	Phone string
	Email string
}

// Row returns the contact as a (name, phone, email) triple for tabular display.
func (c Contact) Row() []string {
	return []string{c.Name, c.Phone, c.Email}
}

// Store is an ordered, append-only collection of contacts.
// It is not safe for concurrent use; the owning view serializes access.
type Store struct {
	contacts []Contact
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a new contact built from the given fields.
// Fields are not trimmed: a value made only of spaces counts as filled in.
func (s *Store) Add(name, phone, email string) (Contact, error) {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if phone == "" {
		missing = append(missing, "phone")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return Contact{}, fmt.Errorf("%w: %s", ErrEmptyField, strings.Join(missing, ", "))
	}

	c := Contact{Name: name, Phone: phone, Email: email}
	s.contacts = append(s.contacts, c)
	return c, nil
}

// Search returns every contact whose name contains term, ignoring case,
// in insertion order. An empty term returns the whole store.
func (s *Store) Search(term string) []Contact {
	if term == "" {
		return s.All()
	}

	needle := strings.ToLower(term)
	matches := make([]Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			matches = append(matches, c)
		}
	}
	return matches
}

// All returns a copy of every stored contact in insertion order.
func (s *Store) All() []Contact {
	out := make([]Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// Len reports the number of stored contacts.
func (s *Store) Len() int {
	return len(s.contacts)
}
