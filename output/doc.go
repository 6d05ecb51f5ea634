// Package output handles export destinations.
//
// # Overview
//
// Open resolves a destination string: "-" or an empty string write to
// stdout, a ".gz" suffix compresses on the fly, everything else creates a
// plain file. CheckExtension compares the destination's extension against
// the chosen format before anything is written and asks for confirmation on
// a mismatch, unless --yes was given.
//
// The natspub subpackage provides an alternative streaming sink that
// publishes triples to a NATS subject instead of writing them to a file.
package output
