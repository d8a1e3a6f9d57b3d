// Package errors provides structured error types for the regmap toolkit.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: register name, address, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMerge, errors.KindMalformedRegister).
//		Register("SPCR").
//		Addr(0x2C).
//		Detail("register size %d not supported", 4).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MalformedRegister("SPCR", 0x2C, 4)
//	err := errors.InvalidAttr("register", "offset", "0xZZ", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// BatchError aggregates per-file failures from a multi-file run.
package errors
