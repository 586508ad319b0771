package installer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/envup/internal/model"
)

// stubInterpreter creates a fake "python" executable that records its
// arguments to a file and echoes a marker line. This exercises the real
// exec path without needing pip installed.
//
// Returns the activation pointing at the stub and the path of the file
// the stub writes its arguments to.
func stubInterpreter(t *testing.T) (model.Activation, string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("stub interpreter requires a Unix shell")
	}

	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	stub := filepath.Join(dir, "python")

	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\necho pip-stub-output\n"
	require.NoError(t, os.WriteFile(stub, []byte(script), 0755))

	act := model.Activation{
		Python:  stub,
		VenvDir: dir,
		Env:     os.Environ(),
	}
	return act, argsFile
}

// recordedArgs reads back the argument line the stub interpreter wrote.
func recordedArgs(t *testing.T, argsFile string) string {
	t.Helper()

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err, "stub interpreter was never invoked")
	return strings.TrimSpace(string(data))
}

func TestUpgradeInvokesPipSelfUpgrade(t *testing.T) {
	act, argsFile := stubInterpreter(t)

	var stdout, stderr bytes.Buffer
	pip := New(WithOutput(&stdout, &stderr))

	require.NoError(t, pip.Upgrade(context.Background(), act))

	assert.Equal(t, "-m pip install --upgrade pip", recordedArgs(t, argsFile))
	assert.Contains(t, stdout.String(), "pip-stub-output", "pip output must stream through")
}

func TestInstallFromPassesManifestPath(t *testing.T) {
	act, argsFile := stubInterpreter(t)

	manifestPath := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(manifestPath, []byte("requests\n"), 0644))

	pip := New(WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))
	require.NoError(t, pip.InstallFrom(context.Background(), act, manifestPath))

	// The exact manifest path must be handed to pip untouched.
	assert.Equal(t, "-m pip install -r "+manifestPath, recordedArgs(t, argsFile))
}

func TestExtraArgsAppended(t *testing.T) {
	act, argsFile := stubInterpreter(t)

	pip := New(
		WithOutput(&bytes.Buffer{}, &bytes.Buffer{}),
		WithExtraArgs([]string{"--index-url", "https://pypi.example.com/simple"}),
	)
	require.NoError(t, pip.Upgrade(context.Background(), act))

	assert.Equal(t,
		"-m pip install --upgrade pip --index-url https://pypi.example.com/simple",
		recordedArgs(t, argsFile))
}

func TestRunWrapsFailures(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub interpreter requires a Unix shell")
	}

	// A stub that always exits non-zero, like pip failing an install.
	dir := t.TempDir()
	stub := filepath.Join(dir, "python")
	require.NoError(t, os.WriteFile(stub, []byte("#!/bin/sh\nexit 1\n"), 0755))

	act := model.Activation{Python: stub, VenvDir: dir, Env: os.Environ()}
	pip := New(WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))

	err := pip.Upgrade(context.Background(), act)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitInstallFailed, cliErr.Code)
}
