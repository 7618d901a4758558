// Package ports defines the contracts between the order lifecycle core and the
// infrastructure it runs on. Adapters under internal/adapters implement them.
package ports

import (
	"context"
	"time"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"
)

// SortField names an order attribute the store can sort by.
type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
	SortByNumber    SortField = "number"
)

// ListSpec controls ordering and size of a List call. The store never filters;
// search and status filters are applied by the core on the returned collection.
type ListSpec struct {
	SortBy     SortField
	Descending bool

	// Limit caps the result size. Zero means no limit.
	Limit int
}

// DefaultListSpec is what the staff list and the polling job read: newest first.
func DefaultListSpec() ListSpec {
	return ListSpec{SortBy: SortByCreatedAt, Descending: true, Limit: 200}
}

// OrderPatch is the partial update the lifecycle core is allowed to make.
type OrderPatch struct {
	Status    order.Status
	UpdatedAt time.Time
}

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// List returns orders sorted and capped by the given ListSpec.
	List(ctx context.Context, spec ListSpec) ([]*order.Order, error)

	// Get retrieves an order by its identifier.
	// Returns errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Add persists a new order. Used by seeding and checkout collaborators.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes patch to the order and returns the order as stored afterwards.
	// Returns errs.ObjectNotFoundError when no such order exists.
	Update(ctx context.Context, id kernel.UUID, patch OrderPatch) (*order.Order, error)
}
