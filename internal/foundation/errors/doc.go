// Package errors provides the classified error primitives used across beandoc.
//
// Every failure in a documentation run is fatal, but callers still need to
// know what kind of failure ended the run so the CLI can pick an exit code
// and a log line. ClassifiedError carries that classification:
//
//   - ErrorCategory: where the failure came from (config, registry, format, ...)
//   - ErrorSeverity: impact level (fatal, error, warning)
//   - ErrorContext: structured key/value pairs attached to the error
//
// Example usage:
//
//	err := errors.RegistryError("bean disappeared").
//		WithContext("object_name", name.String()).
//		WithCause(cause).
//		Build()
package errors
