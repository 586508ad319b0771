package model

import (
	"fmt"
	"strings"
)

// StepName identifies one step of the bootstrap sequence. The steps always
// execute in the order they are declared below; a step that does not apply
// to the current run (e.g. pip upgrade with --skip-upgrade) is recorded
// with StatusSkipped rather than omitted, so the step list of a completed
// run always has the same shape.
type StepName string

const (
	// StepPolicyRead captures the current shell execution-policy setting
	// so it can be restored at the end of the run.
	StepPolicyRead StepName = "policy-read"

	// StepPolicyRelax sets the execution policy to a permissive value for
	// the current process scope only.
	StepPolicyRelax StepName = "policy-relax"

	// StepEnsureVenv creates the virtual environment directory if it does
	// not already exist. An existing environment is left untouched.
	StepEnsureVenv StepName = "ensure-venv"

	// StepActivate computes the activated process environment (VIRTUAL_ENV,
	// PATH) used by all subsequent tool invocations.
	StepActivate StepName = "activate"

	// StepUpgradePip runs the package installer's self-upgrade.
	StepUpgradePip StepName = "upgrade-pip"

	// StepInstall installs dependencies from the manifest file, or records
	// a warning when the manifest is absent.
	StepInstall StepName = "install"

	// StepPolicyRestore restores the execution policy captured at the start.
	StepPolicyRestore StepName = "policy-restore"
)

// String returns the string representation of StepName.
func (s StepName) String() string {
	return string(s)
}

// StepStatus represents the outcome of a single bootstrap step.
type StepStatus string

const (
	// StatusOK indicates the step completed successfully.
	StatusOK StepStatus = "ok"

	// StatusSkipped indicates the step did not need to run (e.g. the
	// virtual environment already existed, or a flag disabled the step).
	StatusSkipped StepStatus = "skipped"

	// StatusWarning indicates the step hit a non-fatal condition and the
	// run continued. The only warning source today is a missing manifest.
	StatusWarning StepStatus = "warning"

	// StatusFailed indicates the step failed and aborted the run.
	// The policy-restore step still executes after a failure.
	StatusFailed StepStatus = "failed"
)

// String returns the string representation of StepStatus.
func (s StepStatus) String() string {
	return string(s)
}

// IsValid checks whether the StepStatus value is one of the
// predefined valid outcomes.
func (s StepStatus) IsValid() bool {
	switch s {
	case StatusOK, StatusSkipped, StatusWarning, StatusFailed:
		return true
	default:
		return false
	}
}

// StepResult records the outcome of a single step within a bootstrap run.
type StepResult struct {
	// Name identifies which step this result belongs to.
	Name StepName `json:"name"`

	// Status is the outcome of the step.
	Status StepStatus `json:"status"`

	// Detail is an optional human-readable note, e.g. the policy value
	// that was captured, or the reason a step was skipped.
	Detail string `json:"detail,omitempty"`
}

// Activation describes how subsequent tooling runs inside the virtual
// environment. A compiled binary cannot source an activation script into
// its own shell; instead, activation is modeled the way venv actually
// works under the hood — a modified process environment plus direct paths
// to the environment's own binaries.
type Activation struct {
	// Python is the absolute path to the interpreter inside the
	// virtual environment (venv/bin/python or venv\Scripts\python.exe).
	Python string `json:"python"`

	// VenvDir is the absolute path to the virtual environment directory.
	VenvDir string `json:"venvDir"`

	// Env is the full process environment with VIRTUAL_ENV set, the
	// environment's bin directory prepended to PATH, and PYTHONHOME
	// removed. All external tool invocations after activation use it.
	Env []string `json:"-"`
}

// BootstrapResult is the aggregate outcome of a bootstrap run. It is
// built incrementally as steps execute and rendered as text or JSON by
// the CLI layer at the end.
type BootstrapResult struct {
	// Root is the resolved project root directory.
	Root string `json:"root"`

	// VenvDir is the absolute path to the virtual environment directory.
	VenvDir string `json:"venvDir"`

	// VenvCreated is true when this run created the environment,
	// false when a pre-existing environment was reused.
	VenvCreated bool `json:"venvCreated"`

	// ManifestPath is the absolute path to the dependency manifest.
	ManifestPath string `json:"manifestPath"`

	// ManifestFound is false when the manifest was absent and the
	// install step was downgraded to a warning.
	ManifestFound bool `json:"manifestFound"`

	// PackageCount is the number of dependency specifiers found in the
	// manifest. Zero when the manifest is absent.
	PackageCount int `json:"packageCount"`

	// InitialPolicy is the execution-policy value captured at the start.
	InitialPolicy string `json:"initialPolicy,omitempty"`

	// Steps records every step outcome in execution order.
	Steps []StepResult `json:"steps"`
}

// Record appends a step outcome to the result. It is the only way steps
// are added, which keeps the slice in execution order.
func (r *BootstrapResult) Record(name StepName, status StepStatus, detail string) {
	r.Steps = append(r.Steps, StepResult{Name: name, Status: status, Detail: detail})
}

// Step returns the recorded result for the named step, or nil if the
// step has not been recorded (yet).
func (r *BootstrapResult) Step(name StepName) *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Name == name {
			return &r.Steps[i]
		}
	}
	return nil
}

// Warnings returns all steps that completed with StatusWarning.
func (r *BootstrapResult) Warnings() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Status == StatusWarning {
			out = append(out, s)
		}
	}
	return out
}

// ValidateVenvDir checks that a configured virtual environment directory
// name is usable. Absolute paths are allowed; relative paths must stay
// inside the project root (no ".." traversal) and must not be empty.
func ValidateVenvDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("virtual environment directory must not be empty")
	}
	for _, part := range strings.Split(strings.ReplaceAll(dir, "\\", "/"), "/") {
		if part == ".." {
			return fmt.Errorf("virtual environment directory %q must not traverse outside the project root", dir)
		}
	}
	return nil
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInterpreterNotFound indicates no Python interpreter could be
	// located on the search path.
	ExitInterpreterNotFound ExitCode = 2

	// ExitVenvCreateFailed indicates the virtual environment creation
	// command failed.
	ExitVenvCreateFailed ExitCode = 3

	// ExitInstallFailed indicates a pip invocation (self-upgrade or
	// dependency install) exited non-zero.
	ExitInstallFailed ExitCode = 4

	// ExitPolicyError indicates the execution policy could not be read,
	// relaxed, or restored.
	ExitPolicyError ExitCode = 5

	// ExitVenvNotFound indicates the virtual environment directory does
	// not exist (clean command).
	ExitVenvNotFound ExitCode = 6

	// ExitUserCancelled indicates the user cancelled an interactive prompt.
	ExitUserCancelled ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
// This follows Go's error wrapping convention introduced in Go 1.13.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
