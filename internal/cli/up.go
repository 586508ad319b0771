// Package cli — up.go implements the "envup up" command.
//
// The up command is the primary user-facing operation: it runs the full
// bootstrap sequence for the current project. It is also what a bare
// `envup` invocation executes.
//
// Orchestration steps:
//  1. Resolve the project root (--root flag or marker walk-up from cwd)
//  2. Load optional project configuration (envup.yml / envup.jsonc)
//  3. Merge flags over configuration
//  4. Wire the real collaborators (pyenv, pip, policy manager)
//  5. Run the bootstrap sequence
//  6. Output the per-step results (text or JSON)
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/envup/internal/bootstrap"
	"github.com/mmr-tortoise/envup/internal/config"
	"github.com/mmr-tortoise/envup/internal/installer"
	"github.com/mmr-tortoise/envup/internal/model"
	"github.com/mmr-tortoise/envup/internal/policy"
	"github.com/mmr-tortoise/envup/internal/pyenv"
)

// upFlags holds the flag values for the up command.
// These are bound to cobra flags in NewUpCommand. The zero value is
// valid and means "all defaults" — the bare `envup` invocation uses it.
type upFlags struct {
	root         string // --root: project root directory
	venv         string // --venv: virtual environment directory
	requirements string // --requirements: manifest path
	python       string // --python: interpreter override
	skipUpgrade  bool   // --skip-upgrade: skip pip self-upgrade
	noInstall    bool   // --no-install: skip dependency install
}

// NewUpCommand creates the "up" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewUpCommand() *cobra.Command {
	flags := &upFlags{}

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Bootstrap the project's Python environment",
		Long: `Bootstrap the project's local Python development environment.

The command automatically:
  - Creates the virtual environment if it does not exist
  - Runs subsequent tooling inside the activated environment
  - Upgrades pip to the latest release
  - Installs dependencies from requirements.txt (warns if absent)

On Windows, the PowerShell execution policy is set to Bypass for the
process scope during setup and restored afterwards.

Examples:
  envup up
  envup up --root ~/dev/myproject
  envup up --venv .venv --requirements requirements-dev.txt
  envup up --skip-upgrade --no-install`,

		// The up command takes no positional arguments — everything is
		// resolved from the project root.
		Args: cobra.NoArgs,

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(cmd.Context(), flags)
		},
	}

	// Register command-specific flags.
	cmd.Flags().StringVar(&flags.root, "root", "", "Project root directory (default: auto-detected)")
	cmd.Flags().StringVar(&flags.venv, "venv", "", "Virtual environment directory (default: venv)")
	cmd.Flags().StringVar(&flags.requirements, "requirements", "", "Dependency manifest path (default: requirements.txt)")
	cmd.Flags().StringVar(&flags.python, "python", "", "Python interpreter to use (default: auto-detected)")
	cmd.Flags().BoolVar(&flags.skipUpgrade, "skip-upgrade", false, "Skip the pip self-upgrade step")
	cmd.Flags().BoolVar(&flags.noInstall, "no-install", false, "Skip the dependency install step")

	return cmd
}

// runUp is the main orchestration function for the up command.
func runUp(ctx context.Context, flags *upFlags) error {
	// Step 1: Resolve the project root and configuration.
	root, project, err := resolveProject(flags)
	if err != nil {
		return err
	}
	VerboseLog("Project root: %s", root)

	opts := bootstrap.Options{
		Root:         root,
		VenvDir:      project.VenvPath(root),
		ManifestPath: project.RequirementsPath(root),
		SkipUpgrade:  flags.skipUpgrade,
		NoInstall:    flags.noInstall,
	}
	VerboseLog("Virtual environment: %s", opts.VenvDir)
	VerboseLog("Manifest: %s", opts.ManifestPath)

	// Step 2: Wire the real collaborators. Interpreter discovery happens
	// up front so a missing Python fails before any policy change.
	env, err := pyenv.NewManager(project.Python)
	if err != nil {
		return err // NewManager already returns CLIError with ExitInterpreterNotFound
	}
	VerboseLog("Interpreter: %s", env.Interpreter())

	pip := installer.New(installer.WithExtraArgs(project.PipArgs))

	b := &bootstrap.Bootstrapper{
		Env:       env,
		Installer: pip,
		Policy:    policy.NewManager(),
		Logf:      VerboseLog,
	}

	// Step 3: Run the bootstrap sequence.
	res, runErr := b.Run(ctx, opts)

	// Step 4: Output results. The step report is printed even on failure
	// so the user can see how far the run got (and that the policy was
	// restored); the error itself propagates to the Execute handler.
	printUpResult(res, runErr)
	return runErr
}

// resolveProject determines the project root and loads its configuration,
// applying flag overrides on top. Shared by the up and check commands.
func resolveProject(flags *upFlags) (string, config.Project, error) {
	root := flags.root
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			// The one genuinely fatal resolution failure: the working
			// directory is gone or unreadable.
			return "", config.Project{}, model.WrapCLIError(model.ExitGeneralError,
				"failed to determine working directory", err)
		}
		root, err = config.FindProjectRoot(cwd)
		if err != nil {
			return "", config.Project{}, err
		}
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return "", config.Project{}, model.WrapCLIError(model.ExitGeneralError,
			"failed to resolve project root", err)
	}

	project, source, err := config.Load(root)
	if err != nil {
		return "", config.Project{}, err
	}
	if source != "" {
		VerboseLog("Loaded configuration from %s", source)
	}

	// Flags override configuration, which overrides defaults.
	if flags.venv != "" {
		project.Venv = flags.venv
	}
	if flags.requirements != "" {
		project.Requirements = flags.requirements
	}
	if flags.python != "" {
		project.Python = flags.python
	}
	if err := project.Normalize(); err != nil {
		return "", config.Project{}, model.WrapCLIError(model.ExitGeneralError,
			"invalid environment settings", err)
	}

	return root, project, nil
}

// printUpResult outputs the bootstrap results in text or JSON format.
func printUpResult(res *model.BootstrapResult, runErr error) {
	if IsJSONOutput() {
		printUpResultJSON(res, runErr)
	} else {
		printUpResultText(res, runErr)
	}
}

// printUpResultJSON outputs the bootstrap result as structured JSON.
func printUpResultJSON(res *model.BootstrapResult, runErr error) {
	type resultJSON struct {
		*model.BootstrapResult
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	}

	out := resultJSON{BootstrapResult: res, Success: runErr == nil}
	if runErr != nil {
		out.Error = runErr.Error()
	}

	data, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(data))
}

// printUpResultText outputs the bootstrap result as human-readable,
// color-coded text.
func printUpResultText(res *model.BootstrapResult, runErr error) {
	fmt.Println(headerStyle.Render("envup") + " " + dimStyle.Render(res.Root))

	for _, step := range res.Steps {
		fmt.Println(StepLine(step))
	}

	for _, w := range res.Warnings() {
		fmt.Printf("%s %s\n", warnStyle.Render("Warning:"), w.Detail)
	}

	if runErr != nil {
		// The error line itself is printed by the Execute handler;
		// here we only mark the run as incomplete.
		fmt.Println(errorStyle.Render("Setup did not complete."))
		return
	}

	// The closing message prints on every successful run, warnings
	// included — a missing manifest is a usable (if empty) environment.
	summary := fmt.Sprintf("Environment ready at %s", res.VenvDir)
	if res.ManifestFound {
		summary += fmt.Sprintf(" (%d package(s) installed)", res.PackageCount)
	}
	fmt.Println(okStyle.Render("Done.") + " " + summary)
}
