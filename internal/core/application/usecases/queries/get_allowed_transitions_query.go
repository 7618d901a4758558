package queries

import (
	"context"
	"errors"
	"slices"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/pkg/guard"
)

var (
	ErrGetAllowedTransitionsQueryIsNotConstructed = errors.New(
		"GetAllowedTransitionsQuery must be created via NewGetAllowedTransitionsQuery constructor",
	)
)

// GetAllowedTransitionsQuery asks which options a status selector should enable.
type GetAllowedTransitionsQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetAllowedTransitionsQuery(orderID kernel.UUID) (GetAllowedTransitionsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetAllowedTransitionsQuery{}, err
	}
	return GetAllowedTransitionsQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAllowedTransitionsQuery) Validate() error {
	return q.guard.Validate(ErrGetAllowedTransitionsQueryIsNotConstructed)
}

func (q GetAllowedTransitionsQuery) OrderID() kernel.UUID { return q.orderID }

// StatusOption is one entry of the status selector.
type StatusOption struct {
	StatusView

	Enabled bool
	Current bool
}

// AllowedTransitions lists every status, in pipeline order, marking which ones the
// transition rules accept from the current one.
type AllowedTransitions struct {
	Current StatusView
	Options []StatusOption
}

// OrderLookup reads an order's latest known copy, without mounting any view.
type OrderLookup interface {
	Lookup(id kernel.UUID) (*order.Order, bool)
}

// OrderGetter reads an order from the store.
type OrderGetter interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

type GetAllowedTransitionsQueryHandler struct {
	lookup OrderLookup
	store  OrderGetter
}

func NewGetAllowedTransitionsQueryHandler(lookup OrderLookup, store OrderGetter) GetAllowedTransitionsQueryHandler {
	return GetAllowedTransitionsQueryHandler{lookup: lookup, store: store}
}

// Handle uses the same current status the transition handler would decide on.
func (h GetAllowedTransitionsQueryHandler) Handle(
	ctx context.Context,
	query GetAllowedTransitionsQuery,
) (AllowedTransitions, error) {
	if err := query.Validate(); err != nil {
		return AllowedTransitions{}, err
	}

	o, ok := h.lookup.Lookup(query.OrderID())
	if !ok {
		var err error
		if o, err = h.store.Get(ctx, query.OrderID()); err != nil {
			return AllowedTransitions{}, err
		}
	}

	current := o.Status()
	allowed := order.AllowedTargets(current)
	options := make([]StatusOption, 0, len(order.AllStatuses()))
	for _, s := range order.AllStatuses() {
		options = append(options, StatusOption{
			StatusView: newStatusView(s),
			Enabled:    slices.Contains(allowed, s),
			Current:    s == current,
		})
	}

	return AllowedTransitions{Current: newStatusView(current), Options: options}, nil
}
