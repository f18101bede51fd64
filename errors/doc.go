// Package errors provides structured error types for the hal library.
//
// Errors are categorized by Phase (which manager operation failed) and
// Kind (error category). Cycle failures on the control loop's hot path
// are never reported through this package; they travel as status values
// plus failed component name lists. These errors cover the cold path:
// loading, claiming, lifecycle transitions and name lookups.
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseClaim, errors.KindAlreadyClaimed).
//		Interface("joint1/position").
//		Detail("claimed by another controller").
//		Build()
//
// Or the convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseClaim, "interface", name)
//	err := errors.AlreadyClaimed(name)
//
// All errors implement the standard error interface and support
// errors.Is/As.
package errors
