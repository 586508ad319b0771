// Package pyenv provides Python virtual-environment management for the
// envup CLI.
//
// This package wraps the Python interpreter (via os/exec) to create and
// inspect venv-style virtual environments. It serves as the interpreter
// integration layer: interpreter discovery on the search path, idempotent
// environment creation, and the activation model.
//
// Design decisions:
//   - We shell out to `python -m venv` rather than reimplementing venv
//     layout, because the layout is owned by the interpreter version and
//     copying it would break across Python releases.
//   - "Activation" is not a sourced shell script: a compiled binary
//     cannot modify its parent shell. Instead, Activate computes the
//     environment variables the activation script would export
//     (VIRTUAL_ENV, PATH, PYTHONHOME) and hands them to every subsequent
//     tool invocation, which is what activation actually does.
//   - All errors from interpreter commands are wrapped in model.CLIError
//     with an appropriate exit code for CLI exit handling.
package pyenv
