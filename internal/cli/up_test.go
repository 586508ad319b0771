package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/envup/internal/model"
)

// TestResolveProjectDefaults verifies that an explicit --root with no
// config file yields the conventional layout.
func TestResolveProjectDefaults(t *testing.T) {
	root := t.TempDir()

	resolved, project, err := resolveProject(&upFlags{root: root})
	require.NoError(t, err)

	assert.Equal(t, root, resolved)
	assert.Equal(t, filepath.Join(root, "venv"), project.VenvPath(resolved))
	assert.Equal(t, filepath.Join(root, "requirements.txt"), project.RequirementsPath(resolved))
}

// TestResolveProjectFlagsOverrideConfig verifies the precedence chain:
// flags beat the config file, which beats defaults.
func TestResolveProjectFlagsOverrideConfig(t *testing.T) {
	root := t.TempDir()
	cfg := filepath.Join(root, "envup.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("venv: .venv\npython: python3.11\n"), 0644))

	_, project, err := resolveProject(&upFlags{
		root:         root,
		venv:         "custom-venv",
		requirements: "requirements-dev.txt",
	})
	require.NoError(t, err)

	// Flag wins over config.
	assert.Equal(t, "custom-venv", project.Venv)
	// Flag wins over default.
	assert.Equal(t, "requirements-dev.txt", project.Requirements)
	// Config wins over default when no flag is set.
	assert.Equal(t, "python3.11", project.Python)
}

// TestResolveProjectWalksUpFromCwd verifies root auto-detection from a
// nested working directory.
func TestResolveProjectWalksUpFromCwd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "requirements.txt"), []byte("requests\n"), 0644))

	nested := filepath.Join(root, "src", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0755))
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	resolved, _, err := resolveProject(&upFlags{})
	require.NoError(t, err)

	// Resolve symlinks before comparing: on macOS t.TempDir() may be
	// under /var which is a symlink to /private/var, and os.Getwd
	// reports the resolved path.
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(resolved)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// TestResolveProjectRejectsBadVenvFlag verifies that a traversing
// --venv value is rejected with a CLIError.
func TestResolveProjectRejectsBadVenvFlag(t *testing.T) {
	_, _, err := resolveProject(&upFlags{root: t.TempDir(), venv: "../elsewhere"})
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
}
