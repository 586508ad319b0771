package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmr-tortoise/envup/internal/model"
)

// TestStepLine verifies the step report formatting. Tests run without a
// TTY, so lipgloss renders plain text and the assertions can match on
// the unstyled content.
func TestStepLine(t *testing.T) {
	tests := []struct {
		name   string
		step   model.StepResult
		marker string
	}{
		{
			name:   "ok step",
			step:   model.StepResult{Name: model.StepEnsureVenv, Status: model.StatusOK, Detail: "created"},
			marker: "✓",
		},
		{
			name:   "skipped step",
			step:   model.StepResult{Name: model.StepUpgradePip, Status: model.StatusSkipped, Detail: "--skip-upgrade"},
			marker: "-",
		},
		{
			name:   "warning step",
			step:   model.StepResult{Name: model.StepInstall, Status: model.StatusWarning, Detail: "manifest not found"},
			marker: "!",
		},
		{
			name:   "failed step",
			step:   model.StepResult{Name: model.StepInstall, Status: model.StatusFailed},
			marker: "✗",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := StepLine(tt.step)
			assert.Contains(t, line, tt.marker)
			assert.Contains(t, line, tt.step.Name.String())
			if tt.step.Detail != "" {
				assert.Contains(t, line, tt.step.Detail)
			}
		})
	}
}

// TestStepLineOmitsEmptyDetail verifies no trailing detail segment is
// rendered for steps without one.
func TestStepLineOmitsEmptyDetail(t *testing.T) {
	line := StepLine(model.StepResult{Name: model.StepUpgradePip, Status: model.StatusOK})
	assert.Contains(t, line, "upgrade-pip")
	assert.NotContains(t, line, "  \n")
}
