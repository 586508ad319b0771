package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeManager is an in-memory Manager implementation that records every
// Set call. It lets the Guard tests assert on the exact sequence of
// policy writes without shelling out to PowerShell.
type fakeManager struct {
	// current is the value returned by Current.
	current Setting

	// sets records every value passed to Set, in order.
	sets []Setting

	// currentErr / setErr, when non-nil, are returned by the
	// corresponding method to simulate shell failures.
	currentErr error
	setErr     error
}

func (f *fakeManager) Current(ctx context.Context) (Setting, error) {
	if f.currentErr != nil {
		return "", f.currentErr
	}
	return f.current, nil
}

func (f *fakeManager) Set(ctx context.Context, s Setting) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets = append(f.sets, s)
	f.current = s
	return nil
}

// TestAcquireRelaxesAndReleaseRestores verifies the core round-trip:
// Acquire switches the policy to Bypass, Release puts back exactly the
// value that was read at the start.
func TestAcquireRelaxesAndReleaseRestores(t *testing.T) {
	ctx := context.Background()
	mgr := &fakeManager{current: "RemoteSigned"}

	guard, err := Acquire(ctx, mgr)
	require.NoError(t, err)

	assert.Equal(t, Setting("RemoteSigned"), guard.Original())
	require.Equal(t, []Setting{Bypass}, mgr.sets, "Acquire should issue exactly one Set(Bypass)")

	err = guard.Release(ctx)
	require.NoError(t, err)

	// The second write restores the original value — the round-trip
	// property: value read at start == value restored at end.
	require.Len(t, mgr.sets, 2)
	assert.Equal(t, Setting("RemoteSigned"), mgr.sets[1])
	assert.Equal(t, Setting("RemoteSigned"), mgr.current)
}

// TestReleaseIsIdempotent verifies that calling Release twice does not
// issue a second restore write.
func TestReleaseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mgr := &fakeManager{current: "Restricted"}

	guard, err := Acquire(ctx, mgr)
	require.NoError(t, err)

	require.NoError(t, guard.Release(ctx))
	require.NoError(t, guard.Release(ctx))

	// One relax + one restore, nothing more.
	assert.Equal(t, []Setting{Bypass, "Restricted"}, mgr.sets)
}

// TestAcquireSkipsWriteWhenAlreadyBypass verifies that a policy already
// at Bypass is neither rewritten on Acquire nor touched on Release.
func TestAcquireSkipsWriteWhenAlreadyBypass(t *testing.T) {
	ctx := context.Background()
	mgr := &fakeManager{current: Bypass}

	guard, err := Acquire(ctx, mgr)
	require.NoError(t, err)
	assert.Empty(t, mgr.sets, "no Set call expected when policy is already Bypass")

	require.NoError(t, guard.Release(ctx))
	assert.Empty(t, mgr.sets, "Release must not write when Acquire changed nothing")
}

// TestAcquireFailsWhenReadFails verifies that a failed policy read
// aborts Acquire before any write happens.
func TestAcquireFailsWhenReadFails(t *testing.T) {
	ctx := context.Background()
	readErr := errors.New("powershell not found")
	mgr := &fakeManager{currentErr: readErr}

	guard, err := Acquire(ctx, mgr)
	assert.Nil(t, guard)
	require.ErrorIs(t, err, readErr)
	assert.Empty(t, mgr.sets, "no Set call may happen when the read fails")
}

// TestNoopManagerRoundTrip verifies the non-Windows manager: a constant
// Current value and a Set that always succeeds, so the guard machinery
// works unchanged on platforms without an execution policy.
func TestNoopManagerRoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := noopManager{}

	current, err := mgr.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, Setting("Unrestricted"), current)

	guard, err := Acquire(ctx, mgr)
	require.NoError(t, err)
	assert.Equal(t, Setting("Unrestricted"), guard.Original())
	require.NoError(t, guard.Release(ctx))
}
