// Package ordertest builds valid orders for tests.
package ordertest

import (
	"testing"
	"time"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// PlacedAt is the default creation time of fixture orders.
var PlacedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// Option customizes a fixture order.
type Option func(*fixture)

type fixture struct {
	id        kernel.UUID
	details   order.Details
	status    order.Status
	createdAt time.Time
	updatedAt time.Time
}

func WithID(id kernel.UUID) Option {
	return func(f *fixture) { f.id = id }
}

func WithStatus(s order.Status) Option {
	return func(f *fixture) { f.status = s }
}

func WithNumber(n string) Option {
	return func(f *fixture) { f.details.Number = n }
}

func WithCustomer(c order.Customer) Option {
	return func(f *fixture) { f.details.Customer = c }
}

func WithUpdatedAt(at time.Time) Option {
	return func(f *fixture) { f.updatedAt = at }
}

// Details returns checkout data for a two-item order totalling 57.40.
func Details() order.Details {
	return order.Details{
		Number: "1042",
		Customer: order.Customer{
			ID:    "cus_7781",
			Name:  "Ana Souza",
			Phone: "(11) 98765-4321",
			Email: "ana.souza@example.com",
		},
		Items: []order.LineItem{
			{ProductID: "dipirona-500", Name: "Dipirona 500mg", UnitPrice: decimal.RequireFromString("12.90"), Quantity: 2},
			{ProductID: "protetor-fps50", Name: "Protetor Solar FPS 50", UnitPrice: decimal.RequireFromString("29.90"), Quantity: 1},
		},
		Amounts: order.Amounts{
			Subtotal:    decimal.RequireFromString("55.70"),
			DeliveryFee: decimal.RequireFromString("6.70"),
			Discount:    decimal.RequireFromString("5.00"),
			Total:       decimal.RequireFromString("57.40"),
		},
		DeliveryAddress: "Rua Augusta, 1500 - São Paulo/SP",
		PaymentMethod:   "pix",
	}
}

// New returns a valid order, Pending unless overridden.
func New(t testing.TB, opts ...Option) *order.Order {
	t.Helper()

	f := &fixture{
		id:        kernel.NewUUID(),
		details:   Details(),
		status:    order.Pending,
		createdAt: PlacedAt,
		updatedAt: PlacedAt,
	}
	for _, opt := range opts {
		opt(f)
	}

	o, err := order.RestoreOrder(f.id, f.details, f.status, f.createdAt, f.updatedAt)
	require.NoError(t, err)
	return o
}
