package views_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"farmacia/internal/core/application/views"
	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/domain/model/order/ordertest"
	"farmacia/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) List(ctx context.Context, spec ports.ListSpec) ([]*order.Order, error) {
	args := m.Called(ctx, spec)
	if v := args.Get(0); v != nil {
		return v.([]*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func advanced(t *testing.T, o *order.Order, s order.Status, by time.Duration) *order.Order {
	t.Helper()
	next, err := o.WithStatus(s, o.UpdatedAt().Add(by))
	require.NoError(t, err)
	return next
}

func TestSynchronizer_StaffList(t *testing.T) {
	t.Run("should fetch once and then serve the cache", func(t *testing.T) {
		ctx := t.Context()
		o := ordertest.New(t)
		reader := new(MockOrderReader)
		reader.On("List", ctx, ports.DefaultListSpec()).Return([]*order.Order{o}, nil).Once()
		sync := views.NewSynchronizer(reader, ports.DefaultListSpec())

		first, err := sync.StaffList(ctx)
		require.NoError(t, err)
		second, err := sync.StaffList(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.True(t, sync.Loaded(views.StaffList))
		reader.AssertExpectations(t)
	})

	t.Run("should wrap fetch errors and stay unloaded", func(t *testing.T) {
		ctx := t.Context()
		reader := new(MockOrderReader)
		reader.On("List", ctx, mock.Anything).Return(nil, errors.New("connection reset")).Once()
		sync := views.NewSynchronizer(reader, ports.DefaultListSpec())

		_, err := sync.StaffList(ctx)

		require.ErrorContains(t, err, "load staff list: connection reset")
		assert.False(t, sync.Loaded(views.StaffList))
	})
}

func TestSynchronizer_Propagate(t *testing.T) {
	t.Run("should update every scope holding the order without fetching", func(t *testing.T) {
		ctx := t.Context()
		o := ordertest.New(t)
		other := ordertest.New(t, ordertest.WithNumber("1043"))
		reader := new(MockOrderReader)
		reader.On("List", ctx, mock.Anything).Return([]*order.Order{other, o}, nil).Once()
		reader.On("Get", ctx, o.ID()).Return(o, nil).Twice()
		sync := views.NewSynchronizer(reader, ports.DefaultListSpec())

		_, err := sync.StaffList(ctx)
		require.NoError(t, err)
		_, err = sync.StaffDetail(ctx, o.ID())
		require.NoError(t, err)
		_, err = sync.Tracking(ctx, o.ID())
		require.NoError(t, err)

		confirmed := advanced(t, o, order.Confirmed, time.Second)
		sync.Propagate(confirmed)

		list, err := sync.StaffList(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, order.Pending, list[0].Status(), "position and other entries are kept")
		assert.Equal(t, order.Confirmed, list[1].Status())

		detail, err := sync.StaffDetail(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, detail.Status())

		tracked, err := sync.Tracking(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, tracked.Status())

		reader.AssertExpectations(t)
	})

	t.Run("should invalidate unmounted scopes that do not hold the order", func(t *testing.T) {
		ctx := t.Context()
		o := ordertest.New(t)
		elsewhere := ordertest.New(t)
		reader := new(MockOrderReader)
		reader.On("List", ctx, mock.Anything).Return([]*order.Order{elsewhere}, nil).Once()
		sync := views.NewSynchronizer(reader, ports.DefaultListSpec())

		_, err := sync.StaffList(ctx)
		require.NoError(t, err)
		sync.Unmount(views.StaffList)

		sync.Propagate(advanced(t, o, order.Confirmed, time.Second))

		assert.False(t, sync.Loaded(views.StaffList))
	})

	t.Run("should keep mounted scopes that do not hold the order", func(t *testing.T) {
		ctx := t.Context()
		reader := new(MockOrderReader)
		reader.On("List", ctx, mock.Anything).Return([]*order.Order{ordertest.New(t)}, nil).Once()
		sync := views.NewSynchronizer(reader, ports.DefaultListSpec())

		_, err := sync.StaffList(ctx)
		require.NoError(t, err)

		sync.Propagate(ordertest.New(t))

		assert.True(t, sync.Loaded(views.StaffList))
	})

	t.Run("should ignore orders not built by a constructor", func(t *testing.T) {
		sync := views.NewSynchronizer(new(MockOrderReader), ports.DefaultListSpec())

		assert.NotPanics(t, func() { sync.Propagate(&order.Order{}) })
	})
}

func TestSynchronizer_ReplaceStaffList(t *testing.T) {
	t.Run("stale poll result does not override a propagated status", func(t *testing.T) {
		o := ordertest.New(t)
		sync := views.NewSynchronizer(new(MockOrderReader), ports.DefaultListSpec())
		sync.ReplaceStaffList([]*order.Order{o})

		sync.Propagate(advanced(t, o, order.Confirmed, time.Second))
		sync.ReplaceStaffList([]*order.Order{o})

		list, err := sync.StaffList(t.Context())
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, order.Confirmed, list[0].Status())
	})

	t.Run("newer polled copies win everywhere", func(t *testing.T) {
		ctx := t.Context()
		o := ordertest.New(t)
		reader := new(MockOrderReader)
		reader.On("Get", ctx, o.ID()).Return(o, nil).Twice()
		sync := views.NewSynchronizer(reader, ports.DefaultListSpec())
		_, err := sync.StaffDetail(ctx, o.ID())
		require.NoError(t, err)
		_, err = sync.Tracking(ctx, o.ID())
		require.NoError(t, err)

		sync.ReplaceStaffList([]*order.Order{advanced(t, o, order.Cancelled, time.Minute)})

		detail, err := sync.StaffDetail(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, detail.Status())
		tracked, err := sync.Tracking(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, tracked.Status())
		reader.AssertExpectations(t)
	})

	t.Run("orders missing from the poll are dropped", func(t *testing.T) {
		a, b := ordertest.New(t), ordertest.New(t)
		sync := views.NewSynchronizer(new(MockOrderReader), ports.DefaultListSpec())
		sync.ReplaceStaffList([]*order.Order{a, b})

		sync.ReplaceStaffList([]*order.Order{b})

		list, err := sync.StaffList(t.Context())
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.True(t, list[0].IsEqual(b))
	})
}

func TestSynchronizer_StaffDetail(t *testing.T) {
	t.Run("switching orders drops the previous one", func(t *testing.T) {
		ctx := t.Context()
		a, b := ordertest.New(t), ordertest.New(t)
		reader := new(MockOrderReader)
		reader.On("Get", ctx, a.ID()).Return(a, nil).Twice()
		reader.On("Get", ctx, b.ID()).Return(b, nil).Once()
		sync := views.NewSynchronizer(reader, ports.DefaultListSpec())

		_, err := sync.StaffDetail(ctx, a.ID())
		require.NoError(t, err)
		got, err := sync.StaffDetail(ctx, b.ID())
		require.NoError(t, err)
		assert.True(t, got.IsEqual(b))
		_, err = sync.StaffDetail(ctx, a.ID())
		require.NoError(t, err)

		reader.AssertExpectations(t)
	})

	t.Run("should surface store errors", func(t *testing.T) {
		ctx := t.Context()
		id := kernel.NewUUID()
		reader := new(MockOrderReader)
		reader.On("Get", ctx, id).Return(nil, errors.New("boom")).Once()
		sync := views.NewSynchronizer(reader, ports.DefaultListSpec())

		_, err := sync.StaffDetail(ctx, id)

		require.EqualError(t, err, "boom")
		assert.False(t, sync.Loaded(views.StaffDetail))
	})
}

func TestSynchronizer_Lookup(t *testing.T) {
	o := ordertest.New(t)
	sync := views.NewSynchronizer(new(MockOrderReader), ports.DefaultListSpec())

	_, ok := sync.Lookup(o.ID())
	assert.False(t, ok)

	sync.ReplaceStaffList([]*order.Order{o})
	sync.TrackOrder(o.ID())
	sync.Propagate(advanced(t, o, order.Confirmed, time.Second))

	got, ok := sync.Lookup(o.ID())
	require.True(t, ok)
	assert.Equal(t, order.Confirmed, got.Status())
}

func TestSynchronizer_Invalidate(t *testing.T) {
	ctx := t.Context()
	o := ordertest.New(t)
	reader := new(MockOrderReader)
	reader.On("List", ctx, mock.Anything).Return([]*order.Order{o}, nil).Twice()
	reader.On("Get", ctx, o.ID()).Return(o, nil).Twice()
	sync := views.NewSynchronizer(reader, ports.DefaultListSpec())

	_, err := sync.StaffList(ctx)
	require.NoError(t, err)
	_, err = sync.Tracking(ctx, o.ID())
	require.NoError(t, err)

	sync.Invalidate(views.StaffList)
	sync.Invalidate(views.CustomerTracking)
	assert.False(t, sync.Loaded(views.StaffList))
	assert.False(t, sync.Loaded(views.CustomerTracking))

	_, err = sync.StaffList(ctx)
	require.NoError(t, err)
	_, err = sync.Tracking(ctx, o.ID())
	require.NoError(t, err)
	reader.AssertExpectations(t)
}

type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time { return c.now }

func TestSynchronizer_StalePollAfterTransition(t *testing.T) {
	t.Run("unloaded list does not take a snapshot read before the transition", func(t *testing.T) {
		o := ordertest.New(t)
		snapshot := []*order.Order{o}
		sync := views.NewSynchronizer(new(MockOrderReader), ports.DefaultListSpec())

		sync.Invalidate(views.StaffList)
		sync.Propagate(advanced(t, o, order.Confirmed, time.Second))
		sync.ReplaceStaffList(snapshot)

		list, err := sync.StaffList(t.Context())
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, order.Confirmed, list[0].Status())
		got, ok := sync.Lookup(o.ID())
		require.True(t, ok)
		assert.Equal(t, order.Confirmed, got.Status())
	})

	t.Run("list activation fetch older than the transition is corrected", func(t *testing.T) {
		ctx := t.Context()
		o := ordertest.New(t)
		reader := new(MockOrderReader)
		reader.On("List", ctx, mock.Anything).Return([]*order.Order{o}, nil).Once()
		sync := views.NewSynchronizer(reader, ports.DefaultListSpec())

		sync.Propagate(advanced(t, o, order.Preparing, time.Second))
		list, err := sync.StaffList(ctx)

		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, order.Preparing, list[0].Status())
	})

	t.Run("detail and tracking fetches older than the transition are corrected", func(t *testing.T) {
		ctx := t.Context()
		o := ordertest.New(t)
		reader := new(MockOrderReader)
		reader.On("Get", ctx, o.ID()).Return(o, nil).Twice()
		sync := views.NewSynchronizer(reader, ports.DefaultListSpec())

		sync.Propagate(advanced(t, o, order.Confirmed, time.Second))

		detail, err := sync.StaffDetail(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, detail.Status())
		tracked, err := sync.Tracking(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, tracked.Status())
		reader.AssertExpectations(t)
	})

	t.Run("changes made elsewhere after the transition still win", func(t *testing.T) {
		o := ordertest.New(t)
		confirmed := advanced(t, o, order.Confirmed, time.Second)
		sync := views.NewSynchronizer(new(MockOrderReader), ports.DefaultListSpec())

		sync.Propagate(confirmed)
		sync.ReplaceStaffList([]*order.Order{advanced(t, confirmed, order.Cancelled, time.Minute)})

		got, ok := sync.Lookup(o.ID())
		require.True(t, ok)
		assert.Equal(t, order.Cancelled, got.Status())
	})
}

func TestSynchronizer_Tracking(t *testing.T) {
	t.Run("unknown ids leave no entry behind", func(t *testing.T) {
		ctx := t.Context()
		reader := new(MockOrderReader)
		reader.On("Get", ctx, mock.Anything).Return(nil, errors.New("order not found"))
		sync := views.NewSynchronizer(reader, ports.DefaultListSpec())

		for range 50 {
			_, err := sync.Tracking(ctx, kernel.NewUUID())
			require.Error(t, err)
		}

		assert.Zero(t, sync.TrackedOrders())
		assert.False(t, sync.Loaded(views.CustomerTracking))
	})

	t.Run("should evict the entry loaded longest ago past the limit", func(t *testing.T) {
		ctx := t.Context()
		clock := &stubClock{now: ordertest.PlacedAt}
		orders := []*order.Order{ordertest.New(t), ordertest.New(t), ordertest.New(t)}
		reader := new(MockOrderReader)
		for _, o := range orders {
			reader.On("Get", ctx, o.ID()).Return(o, nil)
		}
		sync := views.NewSynchronizer(reader, ports.DefaultListSpec(),
			views.WithClock(clock), views.WithTrackingLimit(2))

		for _, o := range orders {
			_, err := sync.Tracking(ctx, o.ID())
			require.NoError(t, err)
			clock.now = clock.now.Add(time.Second)
		}

		assert.Equal(t, 2, sync.TrackedOrders())
		_, ok := sync.Lookup(orders[0].ID())
		assert.False(t, ok)
		_, ok = sync.Lookup(orders[2].ID())
		assert.True(t, ok)
	})

	t.Run("should re-read the store once the entry is older than the TTL", func(t *testing.T) {
		ctx := t.Context()
		clock := &stubClock{now: ordertest.PlacedAt}
		o := ordertest.New(t)
		changedElsewhere := advanced(t, o, order.Confirmed, time.Minute)
		reader := new(MockOrderReader)
		reader.On("Get", ctx, o.ID()).Return(o, nil).Once()
		reader.On("Get", ctx, o.ID()).Return(changedElsewhere, nil).Once()
		sync := views.NewSynchronizer(reader, ports.DefaultListSpec(),
			views.WithClock(clock), views.WithTrackingTTL(time.Minute))

		first, err := sync.Tracking(ctx, o.ID())
		require.NoError(t, err)
		clock.now = clock.now.Add(59 * time.Second)
		cached, err := sync.Tracking(ctx, o.ID())
		require.NoError(t, err)
		clock.now = clock.now.Add(time.Second)
		refreshed, err := sync.Tracking(ctx, o.ID())
		require.NoError(t, err)

		assert.Equal(t, order.Pending, first.Status())
		assert.Equal(t, order.Pending, cached.Status())
		assert.Equal(t, order.Confirmed, refreshed.Status())
		reader.AssertExpectations(t)
	})
}
