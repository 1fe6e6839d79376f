// Package errs provides the standardized error types of the dispatch service.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// Two families of errors live here:
//
// Value errors, raised during construction and validation of domain objects:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is malformed
//   - ValueIsOutOfRangeError: a value is outside its allowed bounds
//   - ObjectNotFoundError: a referenced entity is absent
//
// Domain errors, forming the error taxonomy of the dispatch core:
//   - InvalidTransitionError: an illegal state-machine transition was attempted
//   - ForbiddenError: the acting party lacks authority over the entity
//   - ConflictError: an expected race outcome (e.g. a delivery was accepted by
//     someone else first); callers treat it as contention, not as a bug
//   - InvalidLocationError: malformed or sentinel coordinates; recoverable,
//     the parent operation degrades instead of failing
//
// Each type follows the same pattern: a sentinel error variable for
// errors.Is classification, a struct carrying the error details, constructor
// functions with and without a cause, an Error() method, and an Unwrap()
// method returning the sentinel.
package errs
