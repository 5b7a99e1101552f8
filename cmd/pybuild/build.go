package pybuild

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/pybuild/pkg/config"
	"github.com/arthur-debert/pybuild/pkg/environment"
	"github.com/arthur-debert/pybuild/pkg/errors"
	"github.com/arthur-debert/pybuild/pkg/executor"
	"github.com/arthur-debert/pybuild/pkg/files"
	"github.com/arthur-debert/pybuild/pkg/orchestrator"
	"github.com/arthur-debert/pybuild/pkg/shell"
	"github.com/arthur-debert/pybuild/pkg/steps"
	"github.com/arthur-debert/pybuild/pkg/ui"
)

// buildOptions are the flags of build, run and plan.
type buildOptions struct {
	run        bool
	production bool
	failFast   bool
	dryRun     bool
	timeout    time.Duration
}

func runBuild(cmd *cobra.Command, g *globalOptions, b *buildOptions) error {
	format, err := outputFormat(g)
	if err != nil {
		return err
	}

	overrides := map[string]interface{}{}
	if b.failFast {
		overrides["build.failfast"] = true
	}
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		overrides["build.timeout"] = b.timeout.String()
	}

	s, err := loadSettings(g, overrides)
	if err != nil {
		return err
	}

	project, err := config.Load(projectPath(g, s))
	if err != nil {
		return err
	}

	log.Info().
		Str("project", project.Name).
		Str("path", project.Path()).
		Bool("production", b.production).
		Bool("run", b.run).
		Bool("dryRun", b.dryRun).
		Msg("Starting build")

	out := cmd.OutOrStdout()
	env := environment.FromOS()

	runner := shell.New(shell.Options{
		Stdout:   out,
		Stderr:   cmd.ErrOrStderr(),
		FailFast: s.Build.FailFast,
		Timeout:  s.Build.Timeout,
		Echo:     true,
	})
	exec := executor.New(executor.Options{
		Env:    env,
		Runner: runner,
		Tools: executor.Tools{
			Python:   s.Tools.Python,
			RCC:      s.Tools.RCC,
			Packager: s.Tools.Packager,
		},
	})

	opts := orchestrator.Options{
		RunApp:     b.run,
		Production: b.production,
		DryRun:     b.dryRun,
		Out:        out,
		Printer:    ui.StepPrinter(format),
		PlanPrinter: func(w io.Writer, all []steps.Step) {
			if len(all) == 0 {
				fmt.Fprintln(w, MsgNoSteps)
				return
			}
			ui.PrintPlan(w, format, all)
		},
	}

	if err := orchestrator.New(project, env, s).Run(cmd.Context(), opts, exec); err != nil {
		return err
	}

	switch {
	case b.dryRun && cmd.Name() != "plan":
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.Notice(format, MsgDryRunNotice))
	case !b.dryRun:
		fmt.Fprintln(out, ui.Done(format, MsgBuildDone))
	}
	return nil
}

func outputFormat(g *globalOptions) (ui.Format, error) {
	f, err := ui.ParseFormat(g.format)
	if err != nil {
		return ui.FormatText, errors.Wrapf(err, errors.ErrInvalidInput, MsgErrFormat, g.format)
	}
	return f.Resolve(stdoutFile), nil
}

func loadSettings(g *globalOptions, overrides map[string]interface{}) (*config.Settings, error) {
	return config.LoadSettings(config.SettingsOptions{
		File:      g.settingsFile,
		Overrides: overrides,
	})
}

func projectPath(g *globalOptions, s *config.Settings) string {
	if g.configFile != "" {
		return g.configFile
	}
	if s != nil && s.Build.Config != "" {
		return s.Build.Config
	}
	return config.DefaultProjectFile
}

// writeSampleProject writes the sample project file and returns its path.
func writeSampleProject(ctx context.Context, g *globalOptions, force bool) (string, error) {
	s, err := loadSettings(g, nil)
	if err != nil {
		return "", err
	}
	path := projectPath(g, s)

	if _, err := os.Stat(path); err == nil && !force {
		return "", errors.Newf(errors.ErrInvalidInput, MsgErrProjectExists, path).
			WithDetail("path", path)
	}

	if err := files.Write(ctx, files.File{Path: path, Content: []byte(config.SampleProject())}); err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, MsgErrWriteProject, path)
	}

	log.Info().Str("path", path).Msg("Sample project written")
	return path, nil
}
