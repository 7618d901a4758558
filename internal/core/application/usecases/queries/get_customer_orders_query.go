package queries

import (
	"context"
	"errors"
	"strings"

	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/ports"
	"farmacia/internal/pkg/errs"
	"farmacia/internal/pkg/guard"
)

var (
	ErrGetCustomerOrdersQueryIsNotConstructed = errors.New(
		"GetCustomerOrdersQuery must be created via NewGetCustomerOrdersQuery constructor",
	)
)

// GetCustomerOrdersQuery lists the orders of one customer. The customer id is the preferred
// key; phone, email and name are used for orders placed without one.
type GetCustomerOrdersQuery struct {
	ref order.CustomerRef

	guard guard.ConstructorGuard
}

func NewGetCustomerOrdersQuery(ref order.CustomerRef) (GetCustomerOrdersQuery, error) {
	ref = order.CustomerRef{
		ID:    strings.TrimSpace(ref.ID),
		Name:  strings.TrimSpace(ref.Name),
		Phone: strings.TrimSpace(ref.Phone),
		Email: strings.TrimSpace(ref.Email),
	}
	if ref.IsEmpty() {
		return GetCustomerOrdersQuery{}, errs.NewValueIsRequiredError("customer reference")
	}
	return GetCustomerOrdersQuery{ref: ref, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerOrdersQueryIsNotConstructed)
}

func (q GetCustomerOrdersQuery) Ref() order.CustomerRef { return q.ref }

// OrderLister reads collections from the order store.
type OrderLister interface {
	List(ctx context.Context, spec ports.ListSpec) ([]*order.Order, error)
}

// GetCustomerOrdersQueryHandler reads the store directly: customer history is not one of the
// synchronized views.
type GetCustomerOrdersQueryHandler struct {
	store OrderLister
}

func NewGetCustomerOrdersQueryHandler(store OrderLister) GetCustomerOrdersQueryHandler {
	return GetCustomerOrdersQueryHandler{store: store}
}

// Handle returns the customer's orders, newest first.
func (h GetCustomerOrdersQueryHandler) Handle(ctx context.Context, query GetCustomerOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.store.List(ctx, ports.ListSpec{SortBy: ports.SortByCreatedAt, Descending: true})
	if err != nil {
		return nil, err
	}

	result := make([]OrderView, 0)
	for _, o := range orders {
		if o.Customer().Matches(query.Ref()) {
			result = append(result, newOrderView(o))
		}
	}
	return result, nil
}
