// Package kernel provides the value objects shared by the order lifecycle domain.
//
// The package includes:
//   - UUID: opaque identifier for orders, wrapping github.com/google/uuid
//   - PhoneNumber: a customer or store contact number normalized to the
//     digits-only, country-code-qualified form used by the messaging channel
//
// Both are immutable and fail Validate when used as zero values.
package kernel
