package queries_test

import (
	"context"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderStore struct{ mock.Mock }

func (m *MockOrderStore) List(ctx context.Context, spec ports.ListSpec) ([]*order.Order, error) {
	args := m.Called(ctx, spec)
	if v := args.Get(0); v != nil {
		return v.([]*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderStore) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}
