package ui

import (
	"fmt"
	"io"

	"github.com/arthur-debert/pybuild/pkg/steps"
	"github.com/arthur-debert/pybuild/pkg/style"
)

// StepPrinter returns the label printer for f. Text output is the bare
// label, so logs and pipes see exactly what the plan lists.
func StepPrinter(f Format) steps.Printer {
	if f != FormatTerminal {
		return steps.PlainPrinter
	}
	return printStyled
}

func printStyled(w io.Writer, index int, step steps.Step) {
	line := style.StepIndexStyle.Render(fmt.Sprintf("[%d]", index+1)) + " "
	if step.Group != "" {
		line += style.GroupStyle(step.Group).Render(step.Group) + ": "
	}
	line += style.KindStyle.Render(step.Action.Kind().String()) + ":: "
	line += style.ArgsStyle.Render(step.Action.Describe())
	fmt.Fprintln(w, line)
}

// PrintPlan writes the numbered labels of steps to w.
func PrintPlan(w io.Writer, f Format, all []steps.Step) {
	if f != FormatTerminal {
		for i, s := range all {
			fmt.Fprintf(w, "%d. %s\n", i+1, s.Label())
		}
		return
	}
	for i, s := range all {
		printStyled(w, i, s)
	}
}
