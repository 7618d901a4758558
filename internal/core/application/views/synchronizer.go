package views

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"farmacia/internal/core/domain/model/kernel"
	"farmacia/internal/core/domain/model/order"
	"farmacia/internal/core/ports"
)

// Scope names one consumer of order data.
type Scope string

const (
	StaffList        Scope = "staff_list"
	StaffDetail      Scope = "staff_detail"
	CustomerTracking Scope = "customer_tracking"
)

// OrderReader is the part of the order store the views read from.
type OrderReader interface {
	List(ctx context.Context, spec ports.ListSpec) ([]*order.Order, error)
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

type listScope struct {
	orders  []*order.Order
	loaded  bool
	mounted bool
}

type detailScope struct {
	id      kernel.UUID
	order   *order.Order
	mounted bool
}

type trackedOrder struct {
	// order is nil while the entry is mounted but not loaded yet.
	order    *order.Order
	loadedAt time.Time
}

type trackingScope struct {
	entries map[kernel.UUID]trackedOrder
	mounted bool
}

const (
	// DefaultTrackingTTL bounds how long a tracking page serves a cached order before
	// re-reading it. Tracked orders outside the polled list only refresh this way.
	DefaultTrackingTTL = 30 * time.Second
	// DefaultTrackingLimit caps the number of tracked orders held at once.
	DefaultTrackingLimit = 1024

	// propagatedRetention is how long a propagated order keeps overriding fetched copies.
	// It must outlast any fetch that can be in flight when the order is propagated.
	propagatedRetention = 10 * time.Minute
)

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithClock sets the clock used to age tracking entries.
func WithClock(clock ports.Clock) Option {
	return func(s *Synchronizer) { s.clock = clock }
}

// WithTrackingTTL sets how long a tracked order is served from memory.
func WithTrackingTTL(ttl time.Duration) Option {
	return func(s *Synchronizer) { s.trackingTTL = ttl }
}

// WithTrackingLimit caps the tracking scope; the entry loaded longest ago is evicted first.
func WithTrackingLimit(limit int) Option {
	return func(s *Synchronizer) { s.trackingLimit = limit }
}

// Synchronizer is safe for concurrent use.
type Synchronizer struct {
	reader        OrderReader
	listSpec      ports.ListSpec
	clock         ports.Clock
	trackingTTL   time.Duration
	trackingLimit int

	mu       sync.RWMutex
	list     listScope
	detail   detailScope
	tracking trackingScope
	// propagated holds the latest order written by Propagate per id, whatever the scopes hold.
	// Fetched copies are merged against it, so a fetch that started before a transition
	// cannot bring the old status back into a scope that was unloaded at the time.
	propagated map[kernel.UUID]*order.Order
}

// NewSynchronizer creates a Synchronizer with every scope unloaded. listSpec is used for
// staff list activation; polling supplies its own collection through ReplaceStaffList.
func NewSynchronizer(reader OrderReader, listSpec ports.ListSpec, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		reader:        reader,
		listSpec:      listSpec,
		clock:         ports.SystemClock{},
		trackingTTL:   DefaultTrackingTTL,
		trackingLimit: DefaultTrackingLimit,
		tracking:      trackingScope{entries: make(map[kernel.UUID]trackedOrder)},
		propagated:    make(map[kernel.UUID]*order.Order),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StaffList returns the staff list, fetching it if the scope is not loaded.
// Reading mounts the scope.
func (s *Synchronizer) StaffList(ctx context.Context) ([]*order.Order, error) {
	s.mu.Lock()
	s.list.mounted = true
	if s.list.loaded {
		orders := slices.Clone(s.list.orders)
		s.mu.Unlock()
		return orders, nil
	}
	s.mu.Unlock()

	fetched, err := s.reader.List(ctx, s.listSpec)
	if err != nil {
		return nil, fmt.Errorf("load staff list: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceListLocked(fetched)
	return slices.Clone(s.list.orders), nil
}

// ShowDetail mounts the detail scope on id. A previously shown order is dropped.
func (s *Synchronizer) ShowDetail(id kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.detail.id.IsEqual(id) {
		s.detail.order = nil
	}
	s.detail.id = id
	s.detail.mounted = true
}

// StaffDetail shows id in the detail scope and returns it, fetching when needed.
func (s *Synchronizer) StaffDetail(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	s.ShowDetail(id)

	s.mu.RLock()
	cached := s.detail.order
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	fetched, err := s.reader.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fetched = s.latestLocked(fetched)
	if s.detail.id.IsEqual(id) {
		s.detail.order = newer(s.detail.order, fetched)
		return s.detail.order, nil
	}
	return fetched, nil
}

// TrackOrder mounts the tracking scope on id without loading it.
func (s *Synchronizer) TrackOrder(id kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracking.mounted = true
	if _, ok := s.tracking.entries[id]; !ok {
		s.trackLocked(id, trackedOrder{})
	}
}

// Tracking returns the tracking view of id. A cached copy is served until it is older than
// the tracking TTL; otherwise the order is read from the store. Orders the store does not
// know are never tracked.
func (s *Synchronizer) Tracking(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.Lock()
	s.tracking.mounted = true
	entry := s.tracking.entries[id]
	fresh := entry.order != nil && s.clock.Now().Sub(entry.loadedAt) < s.trackingTTL
	s.mu.Unlock()
	if fresh {
		return entry.order, nil
	}

	fetched, err := s.reader.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	merged := s.latestLocked(newer(s.tracking.entries[id].order, fetched))
	s.trackLocked(id, trackedOrder{order: merged, loadedAt: s.clock.Now()})
	return merged, nil
}

// TrackedOrders reports how many orders the tracking scope holds, loaded or not.
func (s *Synchronizer) TrackedOrders() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracking.entries)
}

// Unmount marks scope as torn down. Its data is kept until the next Propagate that does not
// concern it, after which it reloads on activation.
func (s *Synchronizer) Unmount(scope Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch scope {
	case StaffList:
		s.list.mounted = false
	case StaffDetail:
		s.detail.mounted = false
	case CustomerTracking:
		s.tracking.mounted = false
	}
}

// Invalidate drops the data held by scope so its next read fetches from the store.
func (s *Synchronizer) Invalidate(scope Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch scope {
	case StaffList:
		s.list.orders = nil
		s.list.loaded = false
	case StaffDetail:
		s.detail.order = nil
	case CustomerTracking:
		clear(s.tracking.entries)
	}
}

// Propagate writes o into every scope that holds it. It never fetches.
func (s *Synchronizer) Propagate(o *order.Order) {
	if o.Validate() != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rememberLocked(o)

	if i := s.listIndexLocked(o.ID()); i >= 0 {
		s.list.orders[i] = newer(s.list.orders[i], o)
	} else if !s.list.mounted {
		s.list.orders = nil
		s.list.loaded = false
	}

	if s.detail.id.IsEqual(o.ID()) {
		s.detail.order = newer(s.detail.order, o)
	} else if !s.detail.mounted {
		s.detail.order = nil
	}

	if cached, ok := s.tracking.entries[o.ID()]; ok {
		s.tracking.entries[o.ID()] = trackedOrder{order: newer(cached.order, o), loadedAt: s.clock.Now()}
	} else if !s.tracking.mounted {
		clear(s.tracking.entries)
	}
}

// ReplaceStaffList installs a freshly polled collection. Per order, the copy with the later
// UpdatedAt is kept. Newer polled copies also refresh the detail and tracking scopes.
func (s *Synchronizer) ReplaceStaffList(orders []*order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceListLocked(orders)

	now := s.clock.Now()
	for _, o := range s.list.orders {
		if s.detail.order != nil && s.detail.id.IsEqual(o.ID()) {
			s.detail.order = newer(s.detail.order, o)
		}
		if cached := s.tracking.entries[o.ID()]; cached.order != nil {
			s.tracking.entries[o.ID()] = trackedOrder{order: newer(cached.order, o), loadedAt: now}
		}
	}
}

// Lookup returns the latest copy of id held by any scope, without fetching.
func (s *Synchronizer) Lookup(id kernel.UUID) (*order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *order.Order
	if i := s.listIndexLocked(id); i >= 0 {
		latest = s.list.orders[i]
	}
	if s.detail.id.IsEqual(id) {
		latest = newer(latest, s.detail.order)
	}
	latest = newer(latest, s.tracking.entries[id].order)

	return latest, latest != nil
}

// Loaded reports whether scope holds data that reads will serve without fetching.
func (s *Synchronizer) Loaded(scope Scope) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch scope {
	case StaffList:
		return s.list.loaded
	case StaffDetail:
		return s.detail.order != nil
	case CustomerTracking:
		for _, e := range s.tracking.entries {
			if e.order != nil {
				return true
			}
		}
	}
	return false
}

func (s *Synchronizer) replaceListLocked(incoming []*order.Order) {
	merged := make([]*order.Order, 0, len(incoming))
	for _, o := range incoming {
		if o == nil {
			continue
		}
		if i := s.listIndexLocked(o.ID()); i >= 0 {
			o = newer(s.list.orders[i], o)
		}
		merged = append(merged, s.latestLocked(o))
	}

	s.list.orders = merged
	s.list.loaded = true
}

// latestLocked returns the propagated copy of o when it is newer than o.
func (s *Synchronizer) latestLocked(o *order.Order) *order.Order {
	return newer(s.propagated[o.ID()], o)
}

func (s *Synchronizer) rememberLocked(o *order.Order) {
	s.propagated[o.ID()] = newer(s.propagated[o.ID()], o)

	horizon := o.UpdatedAt().Add(-propagatedRetention)
	for id, p := range s.propagated {
		if p.UpdatedAt().Before(horizon) {
			delete(s.propagated, id)
		}
	}
}

func (s *Synchronizer) trackLocked(id kernel.UUID, entry trackedOrder) {
	if _, ok := s.tracking.entries[id]; !ok && len(s.tracking.entries) >= s.trackingLimit {
		var oldest kernel.UUID
		first := true
		for candidate, e := range s.tracking.entries {
			if first || e.loadedAt.Before(s.tracking.entries[oldest].loadedAt) {
				oldest, first = candidate, false
			}
		}
		delete(s.tracking.entries, oldest)
	}
	s.tracking.entries[id] = entry
}

func (s *Synchronizer) listIndexLocked(id kernel.UUID) int {
	return slices.IndexFunc(s.list.orders, func(o *order.Order) bool {
		return o.ID().IsEqual(id)
	})
}

// newer returns whichever copy was updated last; b wins ties. Nil loses.
func newer(a, b *order.Order) *order.Order {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.UpdatedAt().After(b.UpdatedAt()):
		return a
	default:
		return b
	}
}
