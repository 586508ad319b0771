// Package policy manages the shell execution policy for the current
// process scope.
//
// On Windows, scripts invoked during environment setup (notably the venv
// activation helpers) are subject to the PowerShell execution policy.
// This package reads the current Process-scope policy, relaxes it to
// Bypass for the duration of a bootstrap run, and restores the captured
// value afterwards. The Process scope guarantees the change never
// outlives the process — that scoping is provided by PowerShell itself,
// not re-implemented here.
//
// On non-Windows platforms the Manager is a no-op: there is no execution
// policy to relax, and the guard machinery degrades to recording a
// constant value.
//
// The Guard type implements the relax/restore pair as a scoped resource:
// Release is safe to defer, idempotent, and a no-op when Acquire never
// ran, so a failure anywhere in the bootstrap sequence can neither leak
// a permissive policy nor clobber a policy that was never changed.
package policy
