package pyenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmr-tortoise/envup/internal/model"
)

// interpreterCandidates are the interpreter names probed on the search
// path, in preference order. "python3" comes first because on many Linux
// distributions a bare "python" is either absent or Python 2. "py" is
// the Windows launcher.
var interpreterCandidates = []string{"python3", "python", "py"}

// Manager provides virtual-environment operations backed by a resolved
// Python interpreter.
//
// The zero value is not usable; construct with NewManager, which performs
// interpreter discovery.
type Manager struct {
	// python is the resolved interpreter path used for venv creation.
	python string
}

// NewManager resolves a Python interpreter and returns a Manager bound
// to it.
//
// If override is non-empty it is used as-is (resolved through the search
// path when it is a bare name). Otherwise the standard candidates are
// probed in order. Returns a model.CLIError with ExitInterpreterNotFound
// when no interpreter is available — interpreter availability is assumed,
// not arranged, so there is no fallback beyond the candidate list.
func NewManager(override string) (*Manager, error) {
	if override != "" {
		path, err := exec.LookPath(override)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitInterpreterNotFound,
				fmt.Sprintf("python interpreter %q not found", override), err)
		}
		return &Manager{python: path}, nil
	}

	for _, candidate := range interpreterCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return &Manager{python: path}, nil
		}
	}

	return nil, model.NewCLIError(model.ExitInterpreterNotFound,
		fmt.Sprintf("no python interpreter found on PATH (tried %s)", strings.Join(interpreterCandidates, ", ")))
}

// Interpreter returns the resolved interpreter path.
func (m *Manager) Interpreter() string {
	return m.python
}

// Exists reports whether a virtual environment is present at venvDir.
//
// Presence means the directory exists; it deliberately does NOT require
// pyvenv.cfg, because the creation gate must be a plain existence check:
// a half-created or foreign directory at the venv path is left alone for
// the underlying tooling to complain about, rather than silently
// overwritten.
func (m *Manager) Exists(venvDir string) bool {
	info, err := os.Stat(venvDir)
	return err == nil && info.IsDir()
}

// IsVenv reports whether venvDir looks like an actual virtual
// environment, identified by the pyvenv.cfg marker file that
// `python -m venv` writes at the environment root. Used by the clean
// command to refuse deleting arbitrary directories.
func IsVenv(venvDir string) bool {
	info, err := os.Stat(filepath.Join(venvDir, "pyvenv.cfg"))
	return err == nil && !info.IsDir()
}

// Create builds a new virtual environment at venvDir by running
// `python -m venv <venvDir>`.
//
// Callers are expected to gate this on Exists — Create itself does not
// check, matching the single-responsibility split between the existence
// check and the creation call.
func (m *Manager) Create(ctx context.Context, venvDir string) error {
	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, m.python, "-m", "venv", venvDir)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("python -m venv %s failed", venvDir)
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return model.WrapCLIError(model.ExitVenvCreateFailed, message, err)
	}

	return nil
}

// Activate computes the activation state for the environment at venvDir.
//
// The returned Activation carries the venv's own interpreter path and a
// process environment equivalent to what bin/activate would export:
//
//   - VIRTUAL_ENV set to the environment directory
//   - the environment's bin (Scripts on Windows) directory prepended
//     to PATH, so bare "python"/"pip" resolve inside the venv
//   - PYTHONHOME removed, because a set PYTHONHOME overrides the venv's
//     interpreter configuration
func (m *Manager) Activate(venvDir string) model.Activation {
	binDir := BinDir(venvDir)

	env := make([]string, 0, len(os.Environ())+2)
	pathSet := false
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		switch {
		case strings.EqualFold(key, "PYTHONHOME"):
			// Dropped entirely — see function comment.
			continue
		case pathKeyMatches(key):
			env = append(env, key+"="+binDir+string(os.PathListSeparator)+kv[len(key)+1:])
			pathSet = true
		case strings.EqualFold(key, "VIRTUAL_ENV"):
			// Replaced below with the new value.
			continue
		default:
			env = append(env, kv)
		}
	}
	if !pathSet {
		env = append(env, "PATH="+binDir)
	}
	env = append(env, "VIRTUAL_ENV="+venvDir)

	return model.Activation{
		Python:  VenvPython(venvDir),
		VenvDir: venvDir,
		Env:     env,
	}
}

// pathKeyMatches reports whether an environment variable key is the PATH
// variable. Windows environment keys are case-insensitive ("Path" is
// common), so the comparison folds case.
func pathKeyMatches(key string) bool {
	return strings.EqualFold(key, "PATH")
}

// BinDir returns the executable directory of a virtual environment:
// venv/bin on Unix-like platforms, venv\Scripts on Windows.
func BinDir(venvDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvDir, "Scripts")
	}
	return filepath.Join(venvDir, "bin")
}

// VenvPython returns the path to the interpreter inside a virtual
// environment.
func VenvPython(venvDir string) string {
	name := "python"
	if runtime.GOOS == "windows" {
		name = "python.exe"
	}
	return filepath.Join(BinDir(venvDir), name)
}
