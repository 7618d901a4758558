// Package services provides domain services that work on orders without belonging to the
// Order aggregate itself.
//
// The package includes:
//   - NotificationComposer: builds the customer status-update message for a transition
//
// Services are pure: they read domain values and return new ones, never touching storage.
package services
