// Package cli — check.go implements the "envup check" command.
//
// The check command is a read-only doctor: it reports the state of every
// collaborator the bootstrap depends on — interpreter, virtual
// environment, manifest, execution policy — without changing anything.
// It is useful before a first `envup up` and when diagnosing a broken
// setup.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/envup/internal/manifest"
	"github.com/mmr-tortoise/envup/internal/policy"
	"github.com/mmr-tortoise/envup/internal/pyenv"
)

// checkFlags holds the flag values for the check command.
type checkFlags struct {
	root string // --root: project root directory
}

// NewCheckCommand creates the "check" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report environment status without changing anything",
		Long: `Report the status of the project's development environment.

Shows the resolved project root, the Python interpreter that would be
used, whether the virtual environment and the dependency manifest exist,
and the current execution policy. Nothing is created or modified.

Examples:
  envup check
  envup check --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.root, "root", "", "Project root directory (default: auto-detected)")

	return cmd
}

// checkReport is the aggregate status the check command gathers.
// It doubles as the JSON output structure.
type checkReport struct {
	Root          string `json:"root"`
	Interpreter   string `json:"interpreter,omitempty"`
	VenvDir       string `json:"venvDir"`
	VenvExists    bool   `json:"venvExists"`
	VenvValid     bool   `json:"venvValid"`
	ManifestPath  string `json:"manifestPath"`
	ManifestFound bool   `json:"manifestFound"`
	PackageCount  int    `json:"packageCount"`
	Policy        string `json:"policy,omitempty"`
}

// runCheck is the main logic function for the check command.
func runCheck(ctx context.Context, flags *checkFlags) error {
	root, project, err := resolveProject(&upFlags{root: flags.root})
	if err != nil {
		return err
	}

	report := checkReport{
		Root:         root,
		VenvDir:      project.VenvPath(root),
		ManifestPath: project.RequirementsPath(root),
	}

	// Interpreter discovery failure is reportable here, not fatal —
	// the whole point of check is to surface what is missing.
	if env, err := pyenv.NewManager(project.Python); err == nil {
		report.Interpreter = env.Interpreter()
		report.VenvExists = env.Exists(report.VenvDir)
	} else {
		VerboseLog("Interpreter discovery failed: %v", err)
	}
	report.VenvValid = pyenv.IsVenv(report.VenvDir)

	report.ManifestFound = manifest.Exists(report.ManifestPath)
	if report.ManifestFound {
		if count, err := manifest.Count(report.ManifestPath); err == nil {
			report.PackageCount = count
		}
	}

	// Reading the policy is harmless; only writes are guarded.
	if setting, err := policy.NewManager().Current(ctx); err == nil {
		report.Policy = setting.String()
	}

	printCheckResult(report)
	return nil
}

// printCheckResult outputs the check report in text or JSON format.
func printCheckResult(report checkReport) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Println(headerStyle.Render("envup check") + " " + dimStyle.Render(report.Root))

	printCheckLine("interpreter", report.Interpreter != "", report.Interpreter, "no python found on PATH")

	venvDetail := report.VenvDir
	if report.VenvExists && !report.VenvValid {
		venvDetail += " (present, but missing pyvenv.cfg)"
	}
	printCheckLine("virtualenv", report.VenvExists, venvDetail, report.VenvDir+" (not created yet)")

	manifestDetail := fmt.Sprintf("%s (%d package(s))", report.ManifestPath, report.PackageCount)
	printCheckLine("manifest", report.ManifestFound, manifestDetail, report.ManifestPath+" (missing)")

	if report.Policy != "" {
		fmt.Printf("  %s %-14s %s\n", okStyle.Render("✓"), "policy", dimStyle.Render(report.Policy))
	}
}

// printCheckLine prints one doctor line: a green check with detail when
// present, a yellow warning with the absence detail otherwise.
func printCheckLine(label string, present bool, presentDetail, absentDetail string) {
	if present {
		fmt.Printf("  %s %-14s %s\n", okStyle.Render("✓"), label, dimStyle.Render(presentDetail))
	} else {
		fmt.Printf("  %s %-14s %s\n", warnStyle.Render("!"), label, dimStyle.Render(absentDetail))
	}
}
