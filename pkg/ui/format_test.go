package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/pybuild/pkg/steps"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"auto", FormatAuto, false},
		{"TERM", FormatTerminal, false},
		{"plain", FormatText, false},
		{"color", FormatTerminal, false},
		{" Never ", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatOnFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, FormatText, DetectFormat(f))
	assert.Equal(t, FormatText, FormatAuto.Resolve(f))
	assert.Equal(t, FormatTerminal, FormatTerminal.Resolve(f))
}

func TestDetectFormatNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, FormatText, DetectFormat(os.Stdout))
}

func TestStepPrinterText(t *testing.T) {
	var buf bytes.Buffer
	step := steps.Step{Group: "Run Live", Action: steps.RunSource{Src: "main.py"}}

	StepPrinter(FormatText)(&buf, 0, step)
	assert.Equal(t, "Run Live: runSource:: main.py\n", buf.String())
}

func TestStepPrinterTerminal(t *testing.T) {
	var buf bytes.Buffer
	step := steps.Step{Group: "Run Live", Action: steps.RunSource{Src: "main.py"}}

	StepPrinter(FormatTerminal)(&buf, 1, step)
	out := buf.String()
	assert.Contains(t, out, "[2]")
	assert.Contains(t, out, "runSource")
	assert.Contains(t, out, "main.py")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrintPlanText(t *testing.T) {
	var buf bytes.Buffer
	PrintPlan(&buf, FormatText, []steps.Step{
		{Action: steps.ShellCommand{Command: "echo a"}},
		{Group: "Run Live", Action: steps.RunSource{Src: "main.py"}},
	})
	assert.Equal(t, "1. runCommand:: echo a\n2. Run Live: runSource:: main.py\n", buf.String())
}
