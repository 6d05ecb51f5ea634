// Package errors provides standardized error handling for the omero-rdf
// exporter.
//
// # Overview
//
// The exporter distinguishes four error classes: Invalid (malformed encoded
// input or configuration, never retried), NotFound (a requested target is
// absent server-side), Unsupported (a format-contract violation such as
// calling Add on a streaming format), and Fatal (everything else that must
// stop the export).
//
// All fatal errors unwind to the command dispatch in cmd/omero-rdf, which
// maps them to an exit status with ExitStatus: 110 for missing targets, 111
// for unrecognized target types, 2 for malformed input, 1 otherwise.
//
// # Quick Start
//
// Return standard error variables for known conditions:
//
//	if obj.ID == nil {
//	    return errors.WrapInvalid(errors.ErrMissingID, "Handler", "Handle", "identity check")
//	}
//
// Map an error chain to a process exit status:
//
//	os.Exit(errors.ExitStatus(err))
//
// The classification integrates with Go's standard error handling patterns,
// supporting errors.Is, errors.As, and wrapping chains.
package errors
