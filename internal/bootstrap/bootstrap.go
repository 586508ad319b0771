package bootstrap

import (
	"context"
	"fmt"

	"github.com/mmr-tortoise/envup/internal/manifest"
	"github.com/mmr-tortoise/envup/internal/model"
	"github.com/mmr-tortoise/envup/internal/policy"
)

// EnvironmentManager abstracts virtual-environment operations so the
// orchestrator can run against a fake in tests. The exec-backed
// implementation is pyenv.Manager.
type EnvironmentManager interface {
	// Exists reports whether an environment directory is present.
	Exists(venvDir string) bool

	// Create builds a new environment at venvDir.
	Create(ctx context.Context, venvDir string) error

	// Activate computes the activation state for the environment.
	Activate(venvDir string) model.Activation
}

// PackageInstaller abstracts the package installer. The exec-backed
// implementation is installer.Pip.
type PackageInstaller interface {
	// Upgrade runs the installer's self-upgrade inside the environment.
	Upgrade(ctx context.Context, act model.Activation) error

	// InstallFrom performs a bulk install from the manifest file.
	InstallFrom(ctx context.Context, act model.Activation, manifestPath string) error
}

// Options carries the resolved inputs for a bootstrap run. Path fields
// are absolute; resolution (flags, config, root discovery) is the CLI
// layer's job.
type Options struct {
	// Root is the project root directory.
	Root string

	// VenvDir is the virtual environment directory.
	VenvDir string

	// ManifestPath is the dependency manifest location. Its absence is
	// the warning branch, not an error.
	ManifestPath string

	// SkipUpgrade disables the pip self-upgrade step.
	SkipUpgrade bool

	// NoInstall disables the dependency install step entirely
	// (environment creation and activation still run).
	NoInstall bool
}

// Bootstrapper orchestrates the bootstrap sequence over injected
// collaborators.
type Bootstrapper struct {
	// Env manages the virtual environment.
	Env EnvironmentManager

	// Installer runs pip operations inside the environment.
	Installer PackageInstaller

	// Policy reads and writes the shell execution policy.
	Policy policy.Manager

	// Logf receives verbose progress lines. May be nil.
	Logf func(format string, args ...interface{})
}

// logf forwards to the configured verbose logger, if any.
func (b *Bootstrapper) logf(format string, args ...interface{}) {
	if b.Logf != nil {
		b.Logf(format, args...)
	}
}

// Run executes the bootstrap sequence and returns the per-step outcome.
//
// On failure, the returned result covers the steps that ran (including
// the deferred policy restore) alongside the error, so the CLI can still
// render a meaningful step report.
func (b *Bootstrapper) Run(ctx context.Context, opts Options) (*model.BootstrapResult, error) {
	res := &model.BootstrapResult{
		Root:         opts.Root,
		VenvDir:      opts.VenvDir,
		ManifestPath: opts.ManifestPath,
	}

	// Steps 1-2: capture the execution policy and relax it for the
	// process scope. Acquire never leaves the policy half-changed: on
	// error the original value is still in place and nothing needs
	// restoring.
	guard, err := policy.Acquire(ctx, b.Policy)
	if err != nil {
		res.Record(model.StepPolicyRead, model.StatusFailed, err.Error())
		return res, err
	}
	res.InitialPolicy = guard.Original().String()
	res.Record(model.StepPolicyRead, model.StatusOK, guard.Original().String())
	res.Record(model.StepPolicyRelax, model.StatusOK, policy.Bypass.String())
	b.logf("Execution policy: %s (relaxed to %s)", guard.Original(), policy.Bypass)

	// Step 8 is deferred here so the restore runs on every exit path —
	// success, installer failure, or context cancellation. A restore
	// failure is recorded but never masks the primary error.
	defer func() {
		if rerr := guard.Release(ctx); rerr != nil {
			b.logf("Warning: failed to restore execution policy: %v", rerr)
			res.Record(model.StepPolicyRestore, model.StatusFailed, rerr.Error())
			return
		}
		res.Record(model.StepPolicyRestore, model.StatusOK, guard.Original().String())
	}()

	// Step 4: ensure the environment exists. The existence check gates
	// creation — a pre-existing directory is left untouched, which is
	// what makes repeated runs safe.
	if b.Env.Exists(opts.VenvDir) {
		res.Record(model.StepEnsureVenv, model.StatusSkipped, "already exists")
		b.logf("Virtual environment already exists at %s", opts.VenvDir)
	} else {
		b.logf("Creating virtual environment at %s...", opts.VenvDir)
		if err := b.Env.Create(ctx, opts.VenvDir); err != nil {
			res.Record(model.StepEnsureVenv, model.StatusFailed, err.Error())
			return res, err
		}
		res.VenvCreated = true
		res.Record(model.StepEnsureVenv, model.StatusOK, "created")
	}

	// Step 5: activate. All subsequent tool invocations run with the
	// activated environment.
	act := b.Env.Activate(opts.VenvDir)
	res.Record(model.StepActivate, model.StatusOK, act.Python)
	b.logf("Activated environment: %s", opts.VenvDir)

	// Step 6: pip self-upgrade.
	if opts.SkipUpgrade {
		res.Record(model.StepUpgradePip, model.StatusSkipped, "--skip-upgrade")
		b.logf("Skipping pip self-upgrade")
	} else {
		b.logf("Upgrading pip...")
		if err := b.Installer.Upgrade(ctx, act); err != nil {
			res.Record(model.StepUpgradePip, model.StatusFailed, err.Error())
			return res, err
		}
		res.Record(model.StepUpgradePip, model.StatusOK, "")
	}

	// Step 7: install dependencies, or warn when the manifest is absent.
	// The warning is the only downgraded failure in the sequence.
	switch {
	case opts.NoInstall:
		res.Record(model.StepInstall, model.StatusSkipped, "--no-install")
		b.logf("Skipping dependency install")

	case !manifest.Exists(opts.ManifestPath):
		res.Record(model.StepInstall, model.StatusWarning,
			fmt.Sprintf("manifest not found at %s", opts.ManifestPath))
		b.logf("Warning: no manifest at %s, skipping install", opts.ManifestPath)

	default:
		res.ManifestFound = true
		if count, err := manifest.Count(opts.ManifestPath); err == nil {
			res.PackageCount = count
		}
		b.logf("Installing %d package(s) from %s...", res.PackageCount, opts.ManifestPath)
		if err := b.Installer.InstallFrom(ctx, act, opts.ManifestPath); err != nil {
			res.Record(model.StepInstall, model.StatusFailed, err.Error())
			return res, err
		}
		res.Record(model.StepInstall, model.StatusOK,
			fmt.Sprintf("%d package(s)", res.PackageCount))
	}

	return res, nil
}
