package queries

import (
	"context"
	"errors"
	"time"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/pkg/guard"
)

var (
	ErrGetTrackingQueryIsNotConstructed = errors.New(
		"GetTrackingQuery must be created via NewGetTrackingQuery constructor",
	)
)

// GetTrackingQuery reads the customer tracking view of one order.
type GetTrackingQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetTrackingQuery(orderID kernel.UUID) (GetTrackingQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetTrackingQuery{}, err
	}
	return GetTrackingQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingQueryIsNotConstructed)
}

func (q GetTrackingQuery) OrderID() kernel.UUID { return q.orderID }

// TrackingStep is one stage of the delivery pipeline as the customer sees it.
type TrackingStep struct {
	StatusView

	Reached bool
}

// Tracking is what a customer sees for an order. Cancelled orders mark no step as reached;
// Status reports the cancellation.
type Tracking struct {
	OrderID   kernel.UUID
	Number    string
	Status    StatusView
	Steps     []TrackingStep
	Total     string
	UpdatedAt time.Time
}

// pipeline is the forward path shown as tracking steps.
var pipeline = []order.Status{order.Pending, order.Confirmed, order.Preparing, order.OutForDelivery, order.Delivered}

type GetTrackingQueryHandler struct {
	views Views
}

func NewGetTrackingQueryHandler(views Views) GetTrackingQueryHandler {
	return GetTrackingQueryHandler{views: views}
}

func (h GetTrackingQueryHandler) Handle(ctx context.Context, query GetTrackingQuery) (Tracking, error) {
	if err := query.Validate(); err != nil {
		return Tracking{}, err
	}

	o, err := h.views.Tracking(ctx, query.OrderID())
	if err != nil {
		return Tracking{}, err
	}

	reachedUntil := -1
	for i, s := range pipeline {
		if s == o.Status() {
			reachedUntil = i
		}
	}

	steps := make([]TrackingStep, 0, len(pipeline))
	for i, s := range pipeline {
		steps = append(steps, TrackingStep{StatusView: newStatusView(s), Reached: i <= reachedUntil})
	}

	return Tracking{
		OrderID:   o.ID(),
		Number:    o.Number(),
		Status:    newStatusView(o.Status()),
		Steps:     steps,
		Total:     o.Amounts().Total.StringFixed(2),
		UpdatedAt: o.UpdatedAt(),
	}, nil
}
