// Package model defines the domain types and value objects for the
// envup CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (BootstrapResult, StepResult, Activation, etc.) are
// transient representations of a single bootstrap run — there are no
// persistent state files: the virtual environment directory on disk is
// the only durable artifact, and it is owned by the Python tooling.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
