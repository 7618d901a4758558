// Package errs provides the typed errors shared by the order lifecycle service.
//
// Every error type follows the same shape:
//   - a sentinel (ErrValueIsRequired, ErrObjectNotFound, ...) matched with errors.Is
//   - a struct carrying the offending parameter and an optional Cause
//   - New... and New...WithCause constructors
//
// TemporaryError marks failures of external collaborators (the order store, the message
// broker) that the caller may retry unchanged; IsRetryable checks for it.
package errs
