package output

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		wantBold bool
		wantFG   lipgloss.TerminalColor
		wantDim  bool
	}{
		{name: "configured returns green", status: StatusConfigured, wantFG: ColorGreen},
		{name: "published returns green", status: StatusPublished, wantFG: ColorGreen},
		{name: "dry-run returns yellow", status: StatusDryRun, wantFG: ColorYellow},
		{name: "skipped returns faint", status: StatusSkipped, wantDim: true},
		{name: "failed returns bold red", status: StatusFailed, wantBold: true, wantFG: ColorBoldRed},
		{name: "unknown returns default unstyled", status: "unknown-value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := StatusStyle(tt.status)
			assert.Equal(t, tt.wantBold, style.GetBold())
			assert.Equal(t, tt.wantDim, style.GetFaint())
			if tt.wantFG != nil {
				assert.Equal(t, tt.wantFG, style.GetForeground())
			}
		})
	}
}

func TestFormatModuleLine(t *testing.T) {
	line := FormatModuleLine("clusterless-commons-aws", StatusConfigured)

	assert.Contains(t, line, "m:")
	assert.Contains(t, line, "clusterless-commons-aws")
	assert.Contains(t, line, StatusConfigured)
}

func TestFormatModuleLine_LongNameKeepsGap(t *testing.T) {
	name := strings.Repeat("x", 60)
	line := FormatModuleLine(name, StatusFailed)
	assert.Contains(t, line, name+"  ")
}

func TestFormatCheckmark(t *testing.T) {
	assert.Contains(t, FormatCheckmark("done"), "done")
}
