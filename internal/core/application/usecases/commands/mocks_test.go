package commands_test

import (
	"context"
	"time"

	"farmacia/internal/core/application/usecases/commands"
	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/notification"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/domain/model/settings"
	"farmacia/internal/core/domain/services"
	"farmacia/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) List(ctx context.Context, spec ports.ListSpec) ([]*order.Order, error) {
	args := m.Called(ctx, spec)
	if v := args.Get(0); v != nil {
		return v.([]*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, id kernel.UUID, patch ports.OrderPatch) (*order.Order, error) {
	args := m.Called(ctx, id, patch)
	if v := args.Get(0); v != nil {
		return v.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockStatusEventPublisher struct{ mock.Mock }

func (m *MockStatusEventPublisher) Publish(ctx context.Context, event ports.OrderStatusChanged) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// spyComposer counts calls and delegates to the real composer.
type spyComposer struct {
	calls int
}

func (s *spyComposer) Compose(
	o *order.Order,
	newStatus order.Status,
	profile settings.StoreProfile,
) (notification.Message, bool) {
	s.calls++
	return services.NewNotificationComposer().Compose(o, newStatus, profile)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
