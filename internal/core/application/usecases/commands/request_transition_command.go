package commands

import (
	"errors"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/pkg/guard"
)

var (
	ErrRequestTransitionCommandIsNotConstructed = errors.New(
		"RequestTransitionCommand must be created via NewRequestTransitionCommand constructor",
	)
)

// RequestTransitionCommand asks for an order to move to a new status.
//
// Example:
//
//	cmd, err := NewRequestTransitionCommand(orderID, order.Confirmed)
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
type RequestTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.Status

	guard guard.ConstructorGuard
}

// NewRequestTransitionCommand validates the order id and requested status.
// Whether the transition is legal is decided by the handler, not here.
func NewRequestTransitionCommand(orderID kernel.UUID, status order.Status) (RequestTransitionCommand, error) {
	cmd := RequestTransitionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
	); err != nil {
		return RequestTransitionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestTransitionCommand) Validate() error {
	return c.guard.Validate(ErrRequestTransitionCommandIsNotConstructed)
}

func (c RequestTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RequestTransitionCommand) Status() order.Status {
	return c.status
}

func (c *RequestTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RequestTransitionCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}
