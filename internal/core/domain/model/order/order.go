package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructors")
)

// Details is the data captured at checkout. It never changes after the order is placed.
type Details struct {
	Number          string
	Customer        Customer
	Items           []LineItem
	Amounts         Amounts
	DeliveryAddress string
	PaymentMethod   string
}

// Order is the aggregate root of the lifecycle core.
//
// Order follows these invariants:
//   - id is valid and immutable
//   - status is a valid Status
//   - items and amounts are fixed at checkout
//   - updatedAt is never before createdAt
type Order struct {
	id        kernel.UUID
	details   Details
	status    Status
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder places a new order in Pending. Checkout is the only caller in production;
// seeding and tests use it too.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
//	    Number:   "1042",
//	    Customer: order.Customer{Name: "Ana Souza", Phone: "(11) 98765-4321"},
//	    Items:    items,
//	    Amounts:  amounts,
//	}, time.Now())
func NewOrder(id kernel.UUID, details Details, placedAt time.Time) (*Order, error) {
	return RestoreOrder(id, details, Pending, placedAt, placedAt)
}

// RestoreOrder rebuilds an order read from the Order Store.
func RestoreOrder(
	id kernel.UUID,
	details Details,
	status Status,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setDetails(details),
		o.setStatus(status),
		o.setTimestamps(createdAt, updatedAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// WithStatus returns a copy of the order carrying status and updatedAt. It applies a
// persisted patch and does not consult the transition guard.
func (o *Order) WithStatus(status Status, updatedAt time.Time) (*Order, error) {
	return RestoreOrder(o.id, o.details, status, o.createdAt, updatedAt)
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID         { return o.id }
func (o *Order) Number() string          { return o.details.Number }
func (o *Order) Status() Status          { return o.status }
func (o *Order) Customer() Customer      { return o.details.Customer }
func (o *Order) Amounts() Amounts        { return o.details.Amounts }
func (o *Order) DeliveryAddress() string { return o.details.DeliveryAddress }
func (o *Order) PaymentMethod() string   { return o.details.PaymentMethod }
func (o *Order) CreatedAt() time.Time    { return o.createdAt }
func (o *Order) UpdatedAt() time.Time    { return o.updatedAt }
func (o *Order) Items() []LineItem       { return slices.Clone(o.details.Items) }

// Details returns a copy of the checkout data.
func (o *Order) Details() Details {
	d := o.details
	d.Items = slices.Clone(o.details.Items)
	return d
}

// MatchesSearch reports whether term appears, case-insensitively, in the order number,
// customer name, phone or email. An empty term matches everything.
func (o *Order) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}

	c := o.details.Customer
	for _, field := range []string{o.details.Number, c.Name, c.Phone, c.Email} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setDetails(details Details) error {
	var problems []error

	if strings.TrimSpace(details.Number) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("order number"))
	}
	if len(details.Items) == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("order items"))
	}
	for i, item := range details.Items {
		if err := item.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("item %d: %w", i, err))
		}
	}
	if err := details.Amounts.Validate(); err != nil {
		problems = append(problems, err)
	}

	if err := errors.Join(problems...); err != nil {
		return err
	}

	details.Items = slices.Clone(details.Items)
	o.details = details
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setTimestamps(createdAt, updatedAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	if updatedAt.Before(createdAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"updated at", fmt.Errorf("%s is before created at %s", updatedAt, createdAt))
	}
	o.createdAt = createdAt
	o.updatedAt = updatedAt
	return nil
}
