package pybuild

import (
	"strings"
	"text/template"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/pybuild/pkg/ui"
)

// helpFuncs are available to the usage and help templates.
var helpFuncs = template.FuncMap{
	"bold":      formatBold,
	"upper":     strings.ToUpper,
	"boldUpper": func(s string) string { return formatBold(strings.ToUpper(s)) },
}

// formatBold emboldens s when help goes to a color terminal.
func formatBold(s string) string {
	if ui.DetectFormat(stdoutFile) != ui.FormatTerminal {
		return s
	}
	return pterm.Bold.Sprint(s)
}

func initTemplateFormatting() {
	cobra.AddTemplateFuncs(helpFuncs)
}
