package queries_test

import (
	"testing"

	"farmacia/internal/core/application/usecases/queries"
	"farmacia/internal/core/application/views"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/domain/model/order/ordertest"
	"farmacia/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func reachedCodes(tr queries.Tracking) []string {
	var codes []string
	for _, step := range tr.Steps {
		if step.Reached {
			codes = append(codes, step.Code)
		}
	}
	return codes
}

func TestGetTrackingQueryHandler_Handle(t *testing.T) {
	t.Run("marks the steps reached so far", func(t *testing.T) {
		o := ordertest.New(t, ordertest.WithStatus(order.Preparing))
		store := new(MockOrderStore)
		store.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
		h := queries.NewGetTrackingQueryHandler(views.NewSynchronizer(store, ports.DefaultListSpec()))
		q, err := queries.NewGetTrackingQuery(o.ID())
		require.NoError(t, err)

		tr, err := h.Handle(t.Context(), q)

		require.NoError(t, err)
		assert.Equal(t, "1042", tr.Number)
		assert.Equal(t, "Em preparação", tr.Status.Label)
		assert.Equal(t, "57.40", tr.Total)
		assert.Len(t, tr.Steps, 5)
		assert.Equal(t, []string{"pending", "confirmed", "preparing"}, reachedCodes(tr))
	})

	t.Run("cancelled orders reach no step", func(t *testing.T) {
		o := ordertest.New(t, ordertest.WithStatus(order.Cancelled))
		store := new(MockOrderStore)
		store.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
		h := queries.NewGetTrackingQueryHandler(views.NewSynchronizer(store, ports.DefaultListSpec()))
		q, _ := queries.NewGetTrackingQuery(o.ID())

		tr, err := h.Handle(t.Context(), q)

		require.NoError(t, err)
		assert.Equal(t, "cancelled", tr.Status.Code)
		assert.Empty(t, reachedCodes(tr))
	})
}
