// Package errors provides error handling conventions for the strata CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions. It also re-exports the wrapping
// primitives from github.com/cockroachdb/errors so domain packages only
// need one errors import.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [errors.Is]:
//
//	if errors.Is(err, strataerrors.ErrPresetNotFound) {
//	    // handle missing preset
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid profile, bad reference, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
package errors
