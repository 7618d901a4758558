package queries

import (
	"context"
	"errors"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/pkg/guard"
)

var (
	ErrGetOrderDetailQueryIsNotConstructed = errors.New(
		"GetOrderDetailQuery must be created via NewGetOrderDetailQuery constructor",
	)
)

// GetOrderDetailQuery opens one order in the staff detail view.
type GetOrderDetailQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderDetailQuery(orderID kernel.UUID) (GetOrderDetailQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderDetailQuery{}, err
	}
	return GetOrderDetailQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderDetailQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDetailQueryIsNotConstructed)
}

func (q GetOrderDetailQuery) OrderID() kernel.UUID { return q.orderID }

// OrderDetail is the detail view: the order plus the statuses its selector may offer.
type OrderDetail struct {
	OrderView

	AllowedTransitions []StatusView
}

// GetOrderDetailQueryHandler mounts the staff detail scope on the requested order.
type GetOrderDetailQueryHandler struct {
	views Views
}

func NewGetOrderDetailQueryHandler(views Views) GetOrderDetailQueryHandler {
	return GetOrderDetailQueryHandler{views: views}
}

// Handle returns errs.ObjectNotFoundError when the order does not exist.
func (h GetOrderDetailQueryHandler) Handle(ctx context.Context, query GetOrderDetailQuery) (OrderDetail, error) {
	if err := query.Validate(); err != nil {
		return OrderDetail{}, err
	}

	o, err := h.views.StaffDetail(ctx, query.OrderID())
	if err != nil {
		return OrderDetail{}, err
	}

	return OrderDetail{
		OrderView:          newOrderView(o),
		AllowedTransitions: statusViews(order.AllowedTargets(o.Status())),
	}, nil
}
