// Package order holds the Order aggregate of the pharmacy storefront and the status state
// machine that governs it.
//
// The package includes:
//   - Order: the aggregate root, created in Pending by checkout and changed only through
//     status transitions
//   - Status: a closed enum with one table describing every value (code, label, terminal flag)
//   - ValidateTransition: the table-driven guard deciding whether a status change is legal
//   - Customer, LineItem, Amounts: read-only data captured at checkout
//
// Status workflow:
//
//	Pending -> Confirmed -> Preparing -> OutForDelivery -> Delivered
//	   |           |            |              |
//	   +-----------+------------+--------------+--> Cancelled
//
// Delivered and Cancelled are terminal.
package order
