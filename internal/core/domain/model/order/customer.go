package order

import (
	"strings"

	"farmacia/internal/core/domain/model/kernel"
)

// Customer identifies who placed the order. ID is the preferred key; Name, Phone and Email
// are used for matching when ID is absent.
type Customer struct {
	ID    string
	Name  string
	Phone string
	Email string
}

// CustomerRef is a lookup key for a customer's orders.
type CustomerRef struct {
	ID    string
	Name  string
	Phone string
	Email string
}

// IsEmpty reports whether the reference carries no key at all.
func (r CustomerRef) IsEmpty() bool {
	return r.ID == "" && r.Name == "" && r.Phone == "" && r.Email == ""
}

// ContactPhone returns the customer's phone in channel addressing form, if it is usable.
func (c Customer) ContactPhone() (kernel.PhoneNumber, bool) {
	phone, err := kernel.NewPhoneNumber(c.Phone)
	if err != nil {
		return kernel.PhoneNumber{}, false
	}
	return phone, true
}

// FirstName returns the first word of Name, for greetings.
func (c Customer) FirstName() string {
	fields := strings.Fields(c.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Matches reports whether ref designates this customer.
//
// When both sides carry an ID, only the IDs are compared. Otherwise a normalized phone or a
// case-insensitive email match is enough; the name is only consulted when ref has neither.
func (c Customer) Matches(ref CustomerRef) bool {
	if ref.IsEmpty() {
		return false
	}

	if ref.ID != "" && c.ID != "" {
		return ref.ID == c.ID
	}

	if ref.Phone != "" {
		if samePhone(c.Phone, ref.Phone) {
			return true
		}
	}

	if ref.Email != "" && strings.EqualFold(strings.TrimSpace(c.Email), strings.TrimSpace(ref.Email)) {
		return true
	}

	if ref.Phone == "" && ref.Email == "" && ref.Name != "" {
		return strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(ref.Name))
	}

	return false
}

func samePhone(a, b string) bool {
	pa, errA := kernel.NewPhoneNumber(a)
	pb, errB := kernel.NewPhoneNumber(b)
	if errA != nil || errB != nil {
		return false
	}
	return pa.IsEqual(pb)
}
