package commands

import (
	"context"
	"time"

	"farmacia/internal/core/application/views"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/ports"
)

// ViewInvalidator drops cached view data so the next read reloads it.
type ViewInvalidator interface {
	Invalidate(scope views.Scope)
}

// PlaceOrderCommandHandler persists newly placed orders.
//
// Example:
//
//	handler := NewPlaceOrderCommandHandler(uowFactory, synchronizer, clock)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order placement failed: %w", err)
//	}
//	// The staff list reloads on its next read and shows the new order.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	views      ViewInvalidator
	clock      ports.Clock
}

func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	views ViewInvalidator,
	clock ports.Clock,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		views:      views,
		clock:      clock,
	}
}

// Handle creates the order in Pending, stamped with the current time, and stores it.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	placed, err := order.NewOrder(cmd.OrderID(), cmd.Details(), h.clock.Now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.views.Invalidate(views.StaffList)
	return nil
}
