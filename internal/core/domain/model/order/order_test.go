package order_test

import (
	"testing"
	"time"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/domain/model/order/ordertest"
	"farmacia/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Run("should place a pending order", func(t *testing.T) {
		id := kernel.NewUUID()
		placedAt := ordertest.PlacedAt

		o, err := order.NewOrder(id, ordertest.Details(), placedAt)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, "1042", o.Number())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, placedAt, o.CreatedAt())
		assert.Equal(t, placedAt, o.UpdatedAt())
		assert.Equal(t, "pix", o.PaymentMethod())
		assert.Len(t, o.Items(), 2)
	})

	t.Run("should reject missing checkout data", func(t *testing.T) {
		details := ordertest.Details()
		details.Number = " "
		details.Items = nil

		o, err := order.NewOrder(kernel.NewUUID(), details, ordertest.PlacedAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "order number")
		assert.Contains(t, err.Error(), "order items")
	})

	t.Run("should reject a nil id", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, ordertest.Details(), ordertest.PlacedAt)
		require.Error(t, err)
	})

	t.Run("should reject inconsistent totals", func(t *testing.T) {
		details := ordertest.Details()
		details.Amounts.Total = details.Amounts.Total.Add(details.Amounts.DeliveryFee)

		_, err := order.NewOrder(kernel.NewUUID(), details, ordertest.PlacedAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "total")
	})
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should restore any valid status", func(t *testing.T) {
		for _, s := range order.AllStatuses() {
			o := ordertest.New(t, ordertest.WithStatus(s))
			assert.Equal(t, s, o.Status())
		}
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		_, err := order.RestoreOrder(kernel.NewUUID(), ordertest.Details(), order.Unknown,
			ordertest.PlacedAt, ordertest.PlacedAt)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject updated at before created at", func(t *testing.T) {
		_, err := order.RestoreOrder(kernel.NewUUID(), ordertest.Details(), order.Pending,
			ordertest.PlacedAt, ordertest.PlacedAt.Add(-time.Second))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_WithStatus(t *testing.T) {
	o := ordertest.New(t)
	later := ordertest.PlacedAt.Add(time.Minute)

	next, err := o.WithStatus(order.Confirmed, later)

	require.NoError(t, err)
	assert.True(t, next.IsEqual(o))
	assert.Equal(t, order.Confirmed, next.Status())
	assert.Equal(t, later, next.UpdatedAt())
	assert.Equal(t, order.Pending, o.Status(), "receiver is left untouched")
	assert.Equal(t, o.Details(), next.Details())
}

func TestOrder_Validate(t *testing.T) {
	var zero order.Order
	require.ErrorIs(t, zero.Validate(), order.ErrOrderIsNotConstructed)

	var nilOrder *order.Order
	require.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrder_ItemsAreCopies(t *testing.T) {
	o := ordertest.New(t)

	items := o.Items()
	items[0].Quantity = 99

	assert.Equal(t, 2, o.Items()[0].Quantity)
}

func TestOrder_MatchesSearch(t *testing.T) {
	o := ordertest.New(t)

	testCases := map[string]bool{
		"":            true,
		"1042":        true,
		"ana":         true,
		"SOUZA":       true,
		"98765":       true,
		"example.com": true,
		"joão":        false,
		"rua augusta": false,
	}

	for term, want := range testCases {
		t.Run(term, func(t *testing.T) {
			assert.Equal(t, want, o.MatchesSearch(term))
		})
	}
}
