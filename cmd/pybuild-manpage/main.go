package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/pybuild/cmd/pybuild"
	"github.com/arthur-debert/pybuild/internal/version"
)

func main() {
	rootCmd := pybuild.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "PYBUILD",
		Section: "1",
		Source:  "pybuild " + version.Version,
		Manual:  "pybuild manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
