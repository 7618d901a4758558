// Package views keeps every in-process consumer of an order consistent after a change.
//
// A Synchronizer owns three named scopes:
//   - StaffList: the staff order list, refreshed by polling
//   - StaffDetail: the order a staff member has open
//   - CustomerTracking: tracking pages keyed by order id
//
// Reads serve cached data and fetch from the order store only when a scope is not loaded.
// After a successful transition the controller calls Propagate, which writes the new order
// into every scope that holds it without fetching. Scopes that are not mounted and do not
// hold the order are invalidated and reload on their next read.
//
// Whenever two copies of the same order meet (propagation, polling, activation) the copy with
// the later UpdatedAt wins. The Synchronizer also remembers every propagated order for a
// while, independently of the scopes, so a poll that started before a local transition cannot
// bring the old status back even when no scope held the order at propagation time.
//
// Tracking entries are created only for orders the store returned. They are capped in number
// and re-read from the store once older than the tracking TTL.
package views
