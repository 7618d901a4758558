package commands

import (
	"errors"
	"time"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
)

// placeholderTime stands in for the placement time while validating details.
var placeholderTime = time.Unix(0, 0).UTC()

// PlaceOrderCommand registers an order handed over by checkout. The order enters the
// lifecycle in Pending.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(kernel.NewUUID(), order.Details{
//	    Number:   "1042",
//	    Customer: order.Customer{Name: "Ana Souza", Phone: "(11) 98765-4321"},
//	    Items:    items,
//	    Amounts:  amounts,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	details order.Details

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand checks the id and that the details would build a valid order.
func NewPlaceOrderCommand(orderID kernel.UUID, details order.Details) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDetails(details),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c PlaceOrderCommand) Details() order.Details {
	return c.details
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setDetails(details order.Details) error {
	probe, err := order.NewOrder(kernel.NewUUID(), details, placeholderTime)
	if err != nil {
		return err
	}

	c.details = probe.Details()
	return nil
}
