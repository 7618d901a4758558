// Package memory provides an in-process order store with the same Unit of Work contract as
// the PostgreSQL adapter. It backs local development and demos; data is lost on restart.
package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/ports"
	"farmacia/internal/pkg/errs"
)

var (
	ErrDuplicateOrder     = errors.New("order already exists")
	ErrInvalidTransaction = errors.New("no transaction in progress")
)

var _ ports.UnitOfWorkFactory = (*OrderStore)(nil)

// OrderStore holds committed orders. It doubles as the UnitOfWorkFactory.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[kernel.UUID]*order.Order
}

// NewOrderStore creates a store holding seed.
func NewOrderStore(seed ...*order.Order) (*OrderStore, error) {
	s := &OrderStore{orders: make(map[kernel.UUID]*order.Order, len(seed))}
	for _, o := range seed {
		if err := s.insert(o); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Create returns a unit of work over the store.
func (s *OrderStore) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

func (s *OrderStore) insert(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUniqueLocked(o, nil); err != nil {
		return err
	}
	s.orders[o.ID()] = o
	return nil
}

// checkUniqueLocked rejects o if its ID or number is already taken, either committed or staged.
func (s *OrderStore) checkUniqueLocked(o *order.Order, staged map[kernel.UUID]*order.Order) error {
	for _, set := range []map[kernel.UUID]*order.Order{s.orders, staged} {
		if _, ok := set[o.ID()]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateOrder, o.ID())
		}
		for _, existing := range set {
			if existing.Number() == o.Number() {
				return fmt.Errorf("%w: number %s", ErrDuplicateOrder, o.Number())
			}
		}
	}
	return nil
}

// UnitOfWork stages writes and applies them to the store on Commit.
// Without Begin, writes apply immediately.
type UnitOfWork struct {
	store  *OrderStore
	active bool
	staged map[kernel.UUID]*order.Order
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	if uow.active {
		return nil
	}
	uow.active = true
	uow.staged = make(map[kernel.UUID]*order.Order)
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if !uow.active {
		return ErrInvalidTransaction
	}

	uow.store.mu.Lock()
	defer uow.store.mu.Unlock()

	for id, o := range uow.staged {
		uow.store.orders[id] = o
	}
	uow.active = false
	uow.staged = nil
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrInvalidTransaction
	}
	uow.active = false
	uow.staged = nil
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return orderRepository{uow: uow}
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r orderRepository) List(_ context.Context, spec ports.ListSpec) ([]*order.Order, error) {
	compare, err := comparator(spec.SortBy)
	if err != nil {
		return nil, err
	}

	s := r.uow.store
	s.mu.RLock()
	merged := make(map[kernel.UUID]*order.Order, len(s.orders)+len(r.uow.staged))
	for id, o := range s.orders {
		merged[id] = o
	}
	s.mu.RUnlock()
	for id, o := range r.uow.staged {
		merged[id] = o
	}

	orders := make([]*order.Order, 0, len(merged))
	for _, o := range merged {
		orders = append(orders, o)
	}

	slices.SortFunc(orders, func(a, b *order.Order) int {
		c := compare(a, b)
		if spec.Descending {
			c = -c
		}
		if c == 0 {
			c = strings.Compare(a.ID().String(), b.ID().String())
		}
		return c
	})

	if spec.Limit > 0 && len(orders) > spec.Limit {
		orders = orders[:spec.Limit]
	}
	return orders, nil
}

func (r orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	if o, ok := r.uow.staged[id]; ok {
		return o, nil
	}

	s := r.uow.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return o, nil
}

func (r orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if !r.uow.active {
		return r.uow.store.insert(aggregate)
	}

	if err := aggregate.Validate(); err != nil {
		return err
	}

	s := r.uow.store
	s.mu.RLock()
	err := s.checkUniqueLocked(aggregate, r.uow.staged)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	r.uow.staged[aggregate.ID()] = aggregate
	return nil
}

func (r orderRepository) Update(ctx context.Context, id kernel.UUID, patch ports.OrderPatch) (*order.Order, error) {
	if patch.UpdatedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("updated at")
	}

	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := current.WithStatus(patch.Status, patch.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if r.uow.active {
		r.uow.staged[id] = next
		return next, nil
	}

	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[id] = next
	return next, nil
}

func comparator(field ports.SortField) (func(a, b *order.Order) int, error) {
	switch field {
	case ports.SortByCreatedAt:
		return func(a, b *order.Order) int { return a.CreatedAt().Compare(b.CreatedAt()) }, nil
	case ports.SortByUpdatedAt:
		return func(a, b *order.Order) int { return a.UpdatedAt().Compare(b.UpdatedAt()) }, nil
	case ports.SortByNumber:
		return func(a, b *order.Order) int { return cmp.Compare(a.Number(), b.Number()) }, nil
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("sort by", fmt.Errorf("%q is not sortable", field))
	}
}
