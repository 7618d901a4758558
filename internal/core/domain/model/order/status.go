package order

import (
	"fmt"

	"farmacia/internal/pkg/errs"
)

// Status is the lifecycle state of an order. Exactly one value holds at any time.
type Status int

const (
	// Unknown is the zero value and never a valid status.
	Unknown Status = iota

	// Pending is set by checkout; the pharmacy has not looked at the order yet.
	Pending

	// Confirmed means staff accepted the order.
	Confirmed

	// Preparing means the items are being picked and packed.
	Preparing

	// OutForDelivery means the order left the store.
	OutForDelivery

	// Delivered is terminal.
	Delivered

	// Cancelled is terminal.
	Cancelled
)

type statusInfo struct {
	code     string
	label    string
	terminal bool
}

// statusTable is the single source for codes, customer-facing labels and terminality.
//
//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
var statusTable = map[Status]statusInfo{
	Pending:        {code: "pending", label: "Pendente"},
	Confirmed:      {code: "confirmed", label: "Confirmado"},
	Preparing:      {code: "preparing", label: "Em preparação"},
	OutForDelivery: {code: "out_for_delivery", label: "Saiu para entrega"},
	Delivered:      {code: "delivered", label: "Entregue", terminal: true},
	Cancelled:      {code: "cancelled", label: "Cancelado", terminal: true},
}

// AllStatuses lists the valid statuses in pipeline order, Cancelled last.
func AllStatuses() []Status {
	return []Status{Pending, Confirmed, Preparing, OutForDelivery, Delivered, Cancelled}
}

// ParseStatus maps a persistence/API code such as "out_for_delivery" to its Status.
func ParseStatus(code string) (Status, error) {
	for s, info := range statusTable {
		if info.code == code {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", code))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusTable[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persistence code, or "unknown".
func (s Status) String() string {
	if info, ok := statusTable[s]; ok {
		return info.code
	}
	return "unknown"
}

// Label returns the customer-facing name used in messages and denial reasons.
func (s Status) Label() string {
	if info, ok := statusTable[s]; ok {
		return info.label
	}
	return "Desconhecido"
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return statusTable[s].terminal
}

// MarshalText encodes the status as its code.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status code.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
