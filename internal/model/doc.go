// Package model defines the domain types and value objects for the
// animstack exporter.
//
// This package contains pure data structures with no external dependencies.
// All entities (Action, CurveChannel, AnimStack, ExportSelection, ...) are
// transient representations that live for a single export invocation —
// there is no persisted state.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
