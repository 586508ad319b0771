// Package config handles optional project configuration and project
// root resolution for the envup CLI.
//
// A project may carry an envup.yml (or envup.yaml) file, or an
// envup.jsonc file for teams that prefer devcontainer-style commented
// JSON. Both formats map onto the same Project struct; JSONC comments
// are stripped with github.com/tidwall/jsonc before parsing with the
// standard encoding/json library, and YAML is parsed with yaml.v3.
//
// Configuration is entirely optional: with no file present, Defaults()
// applies and envup behaves exactly like the conventional
// venv + requirements.txt layout.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/envup/internal/model"
)

// configCandidates are the configuration filenames probed at the project
// root, in preference order. The first one found wins; multiple config
// files are not merged.
var configCandidates = []string{"envup.yml", "envup.yaml", "envup.jsonc"}

// rootMarkers are the files/directories whose presence identifies a
// project root during the walk-up search. Config files come first so an
// explicitly configured project wins over an enclosing Git repository.
var rootMarkers = []string{"envup.yml", "envup.yaml", "envup.jsonc", "requirements.txt", ".git"}

// Project is the optional per-project configuration. Zero values mean
// "use the default"; Normalize fills them in.
type Project struct {
	// Venv is the virtual environment directory, relative to the project
	// root unless absolute. Default: "venv".
	Venv string `yaml:"venv" json:"venv"`

	// Requirements is the dependency manifest path, relative to the
	// project root unless absolute. Default: "requirements.txt".
	Requirements string `yaml:"requirements" json:"requirements"`

	// Python is the interpreter used to create the environment. A bare
	// name is resolved on PATH. Default: automatic discovery
	// (python3, python, py).
	Python string `yaml:"python" json:"python"`

	// PipArgs are extra arguments appended to every pip install
	// invocation, e.g. a custom index URL.
	PipArgs []string `yaml:"pipArgs" json:"pipArgs"`
}

// Defaults returns the configuration used when no config file exists:
// the conventional <root>/venv + <root>/requirements.txt layout.
func Defaults() Project {
	return Project{
		Venv:         "venv",
		Requirements: "requirements.txt",
	}
}

// Normalize fills empty fields with their defaults and validates the
// result. Called by Load; exposed for callers that build a Project
// from flags.
func (p *Project) Normalize() error {
	if p.Venv == "" {
		p.Venv = "venv"
	}
	if p.Requirements == "" {
		p.Requirements = "requirements.txt"
	}
	return model.ValidateVenvDir(p.Venv)
}

// VenvPath resolves the virtual environment directory against the
// project root. Absolute configured paths are returned as-is.
func (p *Project) VenvPath(root string) string {
	if filepath.IsAbs(p.Venv) {
		return p.Venv
	}
	return filepath.Join(root, p.Venv)
}

// RequirementsPath resolves the manifest path against the project root.
// Absolute configured paths are returned as-is.
func (p *Project) RequirementsPath(root string) string {
	if filepath.IsAbs(p.Requirements) {
		return p.Requirements
	}
	return filepath.Join(root, p.Requirements)
}

// Load reads the project configuration from root.
//
// It probes the candidate filenames in order and parses the first one
// found. When no config file exists, it returns Defaults() with an empty
// source path — absence is not an error.
//
// Returns the loaded configuration and the path of the file it came from
// ("" when defaults applied).
func Load(root string) (Project, string, error) {
	for _, name := range configCandidates {
		path := filepath.Join(root, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		project, err := parseFile(path)
		if err != nil {
			return Project{}, "", err
		}
		if err := project.Normalize(); err != nil {
			return Project{}, "", model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("invalid configuration in %s", path), err)
		}
		return project, path, nil
	}

	return Defaults(), "", nil
}

// parseFile parses a single configuration file, dispatching on its
// extension: .jsonc goes through comment stripping + encoding/json,
// everything else is YAML.
func parseFile(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to read config %s", path), err)
	}

	var project Project
	if filepath.Ext(path) == ".jsonc" {
		// Strip JSONC comments, then parse as plain JSON. Same approach
		// as devcontainer.json tooling: comments and trailing commas are
		// allowed, everything else is standard JSON.
		if err := json.Unmarshal(jsonc.ToJSON(data), &project); err != nil {
			return Project{}, model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to parse config %s", path), err)
		}
		return project, nil
	}

	if err := yaml.Unmarshal(data, &project); err != nil {
		return Project{}, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to parse config %s", path), err)
	}
	return project, nil
}

// FindProjectRoot locates the project root by walking up from startDir
// until a directory containing one of the root markers is found.
//
// The original setup-script behavior resolved the root from the script's
// own location; a compiled binary has no such location, so the markers
// stand in for it. When no marker exists anywhere up the tree, startDir
// itself is the root — a bare directory is still a valid (if empty)
// project, and the missing-manifest warning path covers it.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to resolve directory %s", startDir), err)
	}

	for current := dir; ; {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached the filesystem root without finding a marker.
			return dir, nil
		}
		current = parent
	}
}
