// Package errors provides structured error types shared across the tagging
// pipeline.
//
// Errors carry a closed ErrorCode classification so callers can branch on
// failure class without string matching:
//
//   - MALFORMED_VERSION: a tag or upstream version string failed to parse;
//     fatal, the run aborts.
//   - UPSTREAM_MAJOR_CHANGE: the base image jumped an upstream major
//     version; a policy stop surfaced verbatim to the operator.
//   - MISSING_VERSION_METADATA: an image configuration had no matching
//     version environment variable; the detection that needed it is skipped.
//   - INVALID_REQUEST, INTERNAL: input validation and internal failures.
//
// StructuredError implements Unwrap, so errors.Is and errors.As work through
// wrapped causes. Use IsCode to test for a classification anywhere in a
// chain.
package errors
