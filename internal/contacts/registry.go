package contacts

import (
	"errors"
	"strings"
	"sync"

	"github.com/samber/lo"

	"chatroom-service/internal/models"
)

var (
	ErrMissingField     = errors.New("please enter both name and phone number")
	ErrDuplicateContact = errors.New("contact already exists")
	ErrUnknownContact   = errors.New("contact not found")
	ErrEmptyMessage     = errors.New("message is empty")
)

// SenderPrefix marks messages sent from this side of the conversation.
const SenderPrefix = "You: "

// Registry holds contacts and the message log of each contact name in memory.
type Registry struct {
	mu       sync.RWMutex
	contacts []models.Contact
	messages map[string][]string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{messages: make(map[string][]string)}
}

// Add stores a contact unless one with the same name and phone number exists.
func (r *Registry) Add(name, phone string) (models.Contact, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return models.Contact{}, ErrMissingField
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addLocked(models.Contact{Name: name, PhoneNumber: phone})
}

func (r *Registry) addLocked(c models.Contact) (models.Contact, error) {
	if lo.Contains(r.contacts, c) {
		return models.Contact{}, ErrDuplicateContact
	}
	r.contacts = append(r.contacts, c)
	// Logs are keyed by name; a second contact with the same name shares it.
	if _, ok := r.messages[c.Name]; !ok {
		r.messages[c.Name] = []string{}
	}
	return c, nil
}

// List returns the contacts in insertion order.
func (r *Registry) List() []models.Contact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Contact, len(r.contacts))
	copy(out, r.contacts)
	return out
}

// Messages returns the log for a contact name.
func (r *Registry) Messages(name string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs, ok := r.messages[name]
	if !ok {
		return nil, ErrUnknownContact
	}
	out := make([]string, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Send appends "You: <body>" to the contact's log and returns the stored line.
func (r *Registry) Send(name, body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", ErrEmptyMessage
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[name]; !ok {
		return "", ErrUnknownContact
	}
	line := SenderPrefix + body
	r.messages[name] = append(r.messages[name], line)
	return line, nil
}

// State returns every contact with its current log.
func (r *Registry) State() models.ContactsState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	views := lo.Map(r.contacts, func(c models.Contact, _ int) models.ContactView {
		msgs := make([]string, len(r.messages[c.Name]))
		copy(msgs, r.messages[c.Name])
		return models.ContactView{Contact: c, Messages: msgs}
	})
	return models.ContactsState{Contacts: views}
}
