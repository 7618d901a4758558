// Package commands contains the operations that change order state.
// Every handler follows the same shape: validate the command, open a unit of work,
// write through the repository, commit, then run post-commit effects.
package commands

import (
	"context"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/notification"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/domain/model/settings"
	"farmacia/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order operations.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   updated, err := uow.OrderRepository().Update(ctx, id, patch)
	//   // ...
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// Post-commit collaborators.
type (
	// OrderViews is what the controller needs from the view synchronizer: the latest known
	// copy of an order and a way to push a committed change to every view.
	OrderViews interface {
		Lookup(id kernel.UUID) (*order.Order, bool)
		Propagate(o *order.Order)
	}

	// Composer builds the customer message for a transition.
	Composer interface {
		Compose(o *order.Order, newStatus order.Status, profile settings.StoreProfile) (notification.Message, bool)
	}
)
