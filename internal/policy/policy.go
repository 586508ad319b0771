package policy

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mmr-tortoise/envup/internal/model"
)

// Setting is an execution-policy value as reported by the shell,
// e.g. "Restricted", "RemoteSigned", "Bypass", "Undefined".
// The value is treated as opaque: it is captured, compared, and written
// back verbatim, never interpreted.
type Setting string

// Bypass is the permissive value the guard switches to for the
// duration of a bootstrap run.
const Bypass Setting = "Bypass"

// String returns the string representation of the policy setting.
func (s Setting) String() string {
	return string(s)
}

// Manager abstracts execution-policy reads and writes so the bootstrap
// orchestrator can run against a fake in tests.
//
// Both operations apply to the current process scope only.
type Manager interface {
	// Current returns the execution policy for the current process scope.
	Current(ctx context.Context) (Setting, error)

	// Set changes the execution policy for the current process scope.
	Set(ctx context.Context, s Setting) error
}

// NewManager returns the execution-policy manager for the current
// platform: a PowerShell-backed implementation on Windows, a no-op
// implementation everywhere else.
func NewManager() Manager {
	if runtime.GOOS == "windows" {
		return &powershellManager{shell: "powershell.exe"}
	}
	return noopManager{}
}

// powershellManager reads and writes the Process-scope execution policy
// by shelling out to PowerShell. Only the exit code and trimmed stdout
// are inspected; diagnostics surface through the wrapped error.
type powershellManager struct {
	// shell is the PowerShell binary name. A field rather than a constant
	// so tests can point it at a stub executable.
	shell string
}

// Current runs `Get-ExecutionPolicy -Scope Process` and returns the
// trimmed output as a Setting.
func (m *powershellManager) Current(ctx context.Context) (Setting, error) {
	out, err := m.run(ctx, "Get-ExecutionPolicy", "-Scope", "Process")
	if err != nil {
		return "", err
	}
	return Setting(strings.TrimSpace(out)), nil
}

// Set runs `Set-ExecutionPolicy -Scope Process <value> -Force`.
// -Force suppresses the interactive confirmation prompt.
func (m *powershellManager) Set(ctx context.Context, s Setting) error {
	_, err := m.run(ctx, "Set-ExecutionPolicy", "-Scope", "Process", string(s), "-Force")
	return err
}

// run executes a PowerShell command non-interactively and returns its
// stdout. Failures are wrapped in a model.CLIError with ExitPolicyError,
// including stderr output for diagnostics.
func (m *powershellManager) run(ctx context.Context, args ...string) (string, error) {
	// -NoProfile keeps user profile scripts from interfering, and
	// -NonInteractive turns any would-be prompt into a hard error
	// instead of a hang.
	fullArgs := append([]string{"-NoProfile", "-NonInteractive", "-Command"}, strings.Join(args, " "))

	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, m.shell, fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("powershell %s failed", args[0])
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(model.ExitPolicyError, message, err)
	}

	return stdout.String(), nil
}

// noopManager is the execution-policy manager for platforms without an
// execution policy. Current always reports "Unrestricted" and Set
// succeeds without doing anything, so the guard round-trip still holds.
type noopManager struct{}

func (noopManager) Current(ctx context.Context) (Setting, error) {
	return "Unrestricted", nil
}

func (noopManager) Set(ctx context.Context, s Setting) error {
	return nil
}

// Guard holds a temporarily relaxed execution policy. It is created by
// Acquire, which captures the current setting and switches to Bypass,
// and undone by Release, which restores the captured setting.
//
// Release must be deferred immediately after a successful Acquire so the
// policy is restored on every exit path. A Guard whose Acquire failed
// partway (policy read succeeded but the relax write failed) is never
// returned — Acquire returns an error instead and nothing needs undoing,
// because the policy was never changed.
type Guard struct {
	mgr      Manager
	original Setting
	active   bool
}

// Acquire reads the current execution policy via mgr, relaxes it to
// Bypass, and returns a Guard that restores the original value.
//
// If the policy is already Bypass, no write is issued and the returned
// Guard's Release is a no-op: there is nothing to restore, and skipping
// the write avoids touching state the process does not own.
func Acquire(ctx context.Context, mgr Manager) (*Guard, error) {
	original, err := mgr.Current(ctx)
	if err != nil {
		return nil, err
	}

	if original == Bypass {
		// Already permissive — record the value but change nothing.
		return &Guard{mgr: mgr, original: original, active: false}, nil
	}

	if err := mgr.Set(ctx, Bypass); err != nil {
		return nil, err
	}

	return &Guard{mgr: mgr, original: original, active: true}, nil
}

// Original returns the policy setting captured at Acquire time.
func (g *Guard) Original() Setting {
	return g.original
}

// Release restores the execution policy captured by Acquire.
//
// Release is idempotent: the first call restores and deactivates the
// guard, subsequent calls return nil without touching the policy.
// A guard that never changed the policy (already-Bypass case) also
// returns nil immediately.
func (g *Guard) Release(ctx context.Context) error {
	if !g.active {
		return nil
	}
	g.active = false
	return g.mgr.Set(ctx, g.original)
}
