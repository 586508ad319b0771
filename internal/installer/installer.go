// Package installer wraps the pip package installer for the envup CLI.
//
// All pip invocations go through the virtual environment's own
// interpreter as `python -m pip ...` rather than a bare `pip` binary.
// Using -m guarantees the pip that runs belongs to the venv regardless
// of PATH quirks, and is the form pip's own documentation recommends for
// self-upgrade on Windows (where an in-place `pip install --upgrade pip`
// fails because pip.exe cannot replace itself while running).
//
// pip's console output is streamed through to the configured writers:
// the bootstrapper does not parse or summarize it, matching the contract
// that diagnostics belong to the invoked tool.
package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/mmr-tortoise/envup/internal/model"
)

// Pip invokes the package installer inside an activated virtual
// environment.
type Pip struct {
	// stdout and stderr receive pip's streamed console output.
	stdout io.Writer
	stderr io.Writer

	// extraArgs are appended to every `pip install` invocation,
	// sourced from the optional project configuration (e.g. a custom
	// index URL).
	extraArgs []string
}

// Option configures a Pip instance.
type Option func(*Pip)

// WithOutput redirects pip's console output, primarily for tests.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(p *Pip) {
		p.stdout = stdout
		p.stderr = stderr
	}
}

// WithExtraArgs appends additional arguments to every install invocation.
func WithExtraArgs(args []string) Option {
	return func(p *Pip) {
		p.extraArgs = args
	}
}

// New creates a Pip installer. By default pip output streams to the
// process's own stdout/stderr.
func New(opts ...Option) *Pip {
	p := &Pip{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Upgrade runs pip's self-upgrade inside the activated environment:
// `python -m pip install --upgrade pip`. No version pinning — always
// attempts the latest release.
func (p *Pip) Upgrade(ctx context.Context, act model.Activation) error {
	return p.run(ctx, act, "pip self-upgrade", "install", "--upgrade", "pip")
}

// InstallFrom performs a bulk install from the manifest file:
// `python -m pip install -r <manifestPath>`. Callers must check manifest
// existence first; a missing file surfaces as pip's own error here.
func (p *Pip) InstallFrom(ctx context.Context, act model.Activation, manifestPath string) error {
	return p.run(ctx, act, fmt.Sprintf("install from %s", manifestPath), "install", "-r", manifestPath)
}

// run executes `python -m pip <args...> <extraArgs...>` with the
// activated environment, streaming output to the configured writers.
// Non-zero exits are wrapped in a model.CLIError with ExitInstallFailed.
func (p *Pip) run(ctx context.Context, act model.Activation, what string, args ...string) error {
	fullArgs := append([]string{"-m", "pip"}, args...)
	fullArgs = append(fullArgs, p.extraArgs...)

	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, act.Python, fullArgs...)
	cmd.Env = act.Env
	cmd.Stdout = p.stdout
	cmd.Stderr = p.stderr

	if err := cmd.Run(); err != nil {
		return model.WrapCLIError(model.ExitInstallFailed,
			fmt.Sprintf("%s failed", what), err)
	}
	return nil
}
