package ui

import (
	"fmt"

	"github.com/arthur-debert/pybuild/pkg/style"
)

// ErrorMessage renders err for stderr.
func ErrorMessage(f Format, err error) string {
	if f != FormatTerminal {
		return fmt.Sprintf("Error: %v", err)
	}
	return style.ErrorIndicator + " " + style.ErrorStyle.Render("Error:") + " " + err.Error()
}

// Done renders a completion line prefixed with a check mark.
func Done(f Format, msg string) string {
	if f != FormatTerminal {
		return "✓ " + msg
	}
	return style.SuccessIndicator + " " + style.SuccessStyle.Render(msg)
}

// Notice renders an informational line that is easy to miss otherwise,
// such as the dry-run reminder.
func Notice(f Format, msg string) string {
	if f != FormatTerminal {
		return msg
	}
	return style.WarningStyle.Render(msg)
}

// Path renders a file path.
func Path(f Format, p string) string {
	if f != FormatTerminal {
		return p
	}
	return style.PathStyle.Render(p)
}

// Muted renders secondary information such as where settings came from.
func Muted(f Format, msg string) string {
	if f != FormatTerminal {
		return msg
	}
	return style.MutedStyle.Render(msg)
}
