// Package errors provides structured error types for the bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/WIT type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("Style", "Font", "Size").
//		GoType("string").
//		WitType("f64").
//		Detail("cannot convert string to float").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidStyleField(errors.PhaseDecode, path, 9, "vertical-alignment")
//	err := errors.MalformedCollection(errors.PhaseDecode, path, 3)
//
// Sentinels such as ErrInvalidStyleField match any phase through errors.Is.
package errors
