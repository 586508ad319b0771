// Package bootstrap implements the environment bootstrap sequence for
// the envup CLI.
//
// The sequence is strictly linear and runs once per invocation:
//
//	read policy → relax policy → ensure venv → activate →
//	upgrade pip → install dependencies → restore policy
//
// Each step is idempotent from the caller's point of view: a second run
// against an already-bootstrapped project changes nothing except
// re-running the installer steps, and a pre-existing environment is
// never recreated.
//
// The orchestrator depends on small injected collaborator interfaces
// (EnvironmentManager, PackageInstaller, policy.Manager) rather than on
// the concrete exec-backed implementations, so the full sequence —
// including every failure path — is testable without invoking a Python
// interpreter or a shell.
//
// Error policy: the missing-manifest case is downgraded to a warning and
// the run continues; every other failure aborts the run and propagates
// unmodified. There are no retries and no rollback. The one guaranteed
// cleanup is the execution-policy restore, which runs via defer on every
// exit path so a mid-run failure cannot leave the policy permissive.
package bootstrap
