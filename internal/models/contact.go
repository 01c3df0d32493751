package models

// Contact is unique by its (Name, PhoneNumber) pair.
type Contact struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// ContactsState is the contacts view: every contact with its message log.
type ContactsState struct {
	Contacts []ContactView `json:"contacts"`
}

// ContactView pairs a contact with the messages sent to it.
type ContactView struct {
	Contact
	Messages []string `json:"messages"`
}
