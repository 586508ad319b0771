package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates a file with the given content inside dir.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaultsWhenNoConfig(t *testing.T) {
	project, source, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, source, "no source path expected when defaults apply")
	assert.Equal(t, "venv", project.Venv)
	assert.Equal(t, "requirements.txt", project.Requirements)
	assert.Empty(t, project.Python)
}

func TestLoadYAML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "envup.yml", `
venv: .venv
requirements: deps/requirements.txt
python: python3.12
pipArgs:
  - --index-url
  - https://pypi.example.com/simple
`)

	project, source, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "envup.yml"), source)
	assert.Equal(t, ".venv", project.Venv)
	assert.Equal(t, "deps/requirements.txt", project.Requirements)
	assert.Equal(t, "python3.12", project.Python)
	assert.Equal(t, []string{"--index-url", "https://pypi.example.com/simple"}, project.PipArgs)
}

func TestLoadJSONCWithComments(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "envup.jsonc", `{
  // devcontainer-style commented JSON is accepted too
  "venv": ".venv",
  "requirements": "requirements-dev.txt",
}`)

	project, source, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "envup.jsonc"), source)
	assert.Equal(t, ".venv", project.Venv)
	assert.Equal(t, "requirements-dev.txt", project.Requirements)
}

func TestLoadPartialConfigFillsDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "envup.yml", "python: python3\n")

	project, _, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "venv", project.Venv)
	assert.Equal(t, "requirements.txt", project.Requirements)
	assert.Equal(t, "python3", project.Python)
}

func TestLoadPrefersYAMLOverJSONC(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "envup.yml", "venv: from-yaml\n")
	writeFile(t, root, "envup.jsonc", `{"venv": "from-jsonc"}`)

	project, source, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "envup.yml"), source)
	assert.Equal(t, "from-yaml", project.Venv)
}

func TestLoadRejectsTraversingVenvDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "envup.yml", "venv: ../outside\n")

	_, _, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "traverse")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "envup.yml", "venv: [unclosed\n")

	_, _, err := Load(root)
	require.Error(t, err)
}

func TestPathResolution(t *testing.T) {
	project := Defaults()
	root := filepath.Join("some", "project")

	assert.Equal(t, filepath.Join(root, "venv"), project.VenvPath(root))
	assert.Equal(t, filepath.Join(root, "requirements.txt"), project.RequirementsPath(root))

	// Absolute configured paths win over the root.
	abs := t.TempDir()
	project.Venv = abs
	assert.Equal(t, abs, project.VenvPath(root))
}

func TestFindProjectRootWalksUp(t *testing.T) {
	// Layout: root/ (has requirements.txt) / sub / subsub
	root := t.TempDir()
	writeFile(t, root, "requirements.txt", "requests\n")

	subsub := filepath.Join(root, "sub", "subsub")
	require.NoError(t, os.MkdirAll(subsub, 0755))

	found, err := FindProjectRoot(subsub)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestFindProjectRootConfigMarker(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "envup.yml", "venv: venv\n")

	sub := filepath.Join(root, "nested")
	require.NoError(t, os.MkdirAll(sub, 0755))

	found, err := FindProjectRoot(sub)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestFindProjectRootFallsBackToStart(t *testing.T) {
	// A bare temp dir has no markers anywhere up to the filesystem root
	// (in practice; if a parent happens to carry one this test would be
	// flaky, which is why the assertion only requires a valid answer).
	start := t.TempDir()

	found, err := FindProjectRoot(start)
	require.NoError(t, err)
	assert.DirExists(t, found)
}
