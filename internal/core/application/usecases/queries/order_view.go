// Package queries contains read-only operations over orders.
// Staff and tracking reads are served by the view synchronizer so they observe every
// committed transition immediately; customer history reads go to the order store.
package queries

import (
	"context"
	"time"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// Views is the synchronizer surface the staff and tracking queries read from.
type Views interface {
	StaffList(ctx context.Context) ([]*order.Order, error)
	StaffDetail(ctx context.Context, id kernel.UUID) (*order.Order, error)
	Tracking(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// StatusView is a status as shown to people.
type StatusView struct {
	Code  string
	Label string
}

func newStatusView(s order.Status) StatusView {
	return StatusView{Code: s.String(), Label: s.Label()}
}

type LineItemView struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// OrderView is the staff-facing projection of an order.
type OrderView struct {
	ID              kernel.UUID
	Number          string
	Status          StatusView
	Customer        order.Customer
	Items           []LineItemView
	Amounts         order.Amounts
	DeliveryAddress string
	PaymentMethod   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func newOrderView(o *order.Order) OrderView {
	items := make([]LineItemView, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, LineItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}

	return OrderView{
		ID:              o.ID(),
		Number:          o.Number(),
		Status:          newStatusView(o.Status()),
		Customer:        o.Customer(),
		Items:           items,
		Amounts:         o.Amounts(),
		DeliveryAddress: o.DeliveryAddress(),
		PaymentMethod:   o.PaymentMethod(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
}

func statusViews(statuses []order.Status) []StatusView {
	out := make([]StatusView, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, newStatusView(s))
	}
	return out
}
