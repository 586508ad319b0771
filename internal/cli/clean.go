// Package cli — clean.go implements the "envup clean" command.
//
// The clean command removes the project's virtual environment directory
// so the next `envup up` starts fresh. Because the venv path is
// configurable, the command refuses to delete a directory that does not
// carry the pyvenv.cfg marker unless --force is given — a typo in the
// config must not wipe an arbitrary directory.
//
// By default, the command prompts for confirmation before proceeding.
// The --force flag skips both the confirmation prompt and the marker check.
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/envup/internal/model"
	"github.com/mmr-tortoise/envup/internal/pyenv"
)

// cleanFlags holds the flag values for the clean command.
type cleanFlags struct {
	root string // --root: project root directory

	// force skips the interactive confirmation prompt and the
	// pyvenv.cfg marker check when true.
	force bool
}

// NewCleanCommand creates the "clean" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCleanCommand() *cobra.Command {
	flags := &cleanFlags{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the project's virtual environment",
		Long: `Remove the project's virtual environment directory.

The next "envup up" will recreate it from scratch. The directory is only
removed if it looks like a virtual environment (contains pyvenv.cfg);
use --force to override that check.

Unless --force is specified, the command prompts for confirmation.

Examples:
  envup clean
  envup clean --force`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(flags)
		},
	}

	cmd.Flags().StringVar(&flags.root, "root", "", "Project root directory (default: auto-detected)")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Remove without confirmation or marker check")

	return cmd
}

// runClean is the main logic function for the clean command.
func runClean(flags *cleanFlags) error {
	root, project, err := resolveProject(&upFlags{root: flags.root})
	if err != nil {
		return err
	}

	venvDir := project.VenvPath(root)

	// Step 1: The environment must exist to be removed.
	info, err := os.Stat(venvDir)
	if err != nil || !info.IsDir() {
		return model.NewCLIError(model.ExitVenvNotFound,
			fmt.Sprintf("no virtual environment at %s", venvDir))
	}

	// Step 2: Refuse to delete a directory that does not look like a
	// venv, unless forced.
	if !flags.force && !pyenv.IsVenv(venvDir) {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%s does not look like a virtual environment (no pyvenv.cfg); use --force to remove anyway", venvDir))
	}

	// Step 3: Prompt for confirmation unless --force is specified.
	if !flags.force {
		confirmed, err := promptConfirmation(venvDir)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to read user input", err)
		}
		if !confirmed {
			return model.NewCLIError(model.ExitUserCancelled, "operation cancelled by user")
		}
	}

	// Step 4: Remove the directory.
	VerboseLog("Removing %s...", venvDir)
	if err := os.RemoveAll(venvDir); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to remove %s", venvDir), err)
	}

	printCleanResult(venvDir)
	return nil
}

// promptConfirmation asks the user to confirm the clean operation.
// It reads a single line from stdin and checks for "y" or "yes".
// Returns true if the user confirmed, false otherwise.
func promptConfirmation(venvDir string) (bool, error) {
	fmt.Printf("About to remove the virtual environment at %s.\n", venvDir)
	fmt.Print("Continue? [y/N] ")

	// bufio.Scanner handles different line endings across platforms
	// (LF on Unix, CRLF on Windows).
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return answer == "y" || answer == "yes", nil
	}

	// If stdin is closed or an error occurred, treat it as "no".
	if err := scanner.Err(); err != nil {
		return false, err
	}

	return false, nil
}

// printCleanResult outputs the clean command result in text or JSON format.
func printCleanResult(venvDir string) {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"action":  "removed",
			"venvDir": venvDir,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Println(okStyle.Render("Removed.") + " " + dimStyle.Render(venvDir))
}
