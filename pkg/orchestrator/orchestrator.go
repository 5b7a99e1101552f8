// Package orchestrator turns a loaded project into an ordered build plan
// and drains it.
//
// Planning resolves the project environment up front: APPNAME first, then
// every declared variable in declaration order, each one able to reference
// the ones before it. Everything else is deferred to the steps, which
// resolve their own placeholders when they run.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/pybuild/pkg/config"
	"github.com/arthur-debert/pybuild/pkg/environment"
	"github.com/arthur-debert/pybuild/pkg/logging"
	"github.com/arthur-debert/pybuild/pkg/manifest"
	"github.com/arthur-debert/pybuild/pkg/packager"
	"github.com/arthur-debert/pybuild/pkg/steps"
	"github.com/arthur-debert/pybuild/pkg/templating"
)

// Step groups shown in labels.
const (
	GroupQtResources  = "Build Qt RC"
	GroupDistribution = "Build Distribution"
	GroupRunDist      = "Run Distribution"
	GroupRunLive      = "Run Live"
)

// DefaultDist is where the packaged application is looked for when the
// project does not set build.dist.
const DefaultDist = "dist"

// Options select what a run does.
type Options struct {
	// RunApp launches the application after building.
	RunApp bool
	// Production packages the application and, with RunApp, launches the
	// packaged executable instead of the sources.
	Production bool
	// DryRun prints the plan without executing it.
	DryRun bool

	// Out receives step labels; stdout when nil.
	Out io.Writer
	// Printer formats labels; steps.PlainPrinter when nil.
	Printer steps.Printer
	// PlanPrinter writes the dry-run listing; numbered plain labels when nil.
	PlanPrinter func(w io.Writer, all []steps.Step)
}

// Orchestrator plans and runs the build of one project.
type Orchestrator struct {
	project  *config.Project
	env      *environment.Environment
	settings *config.Settings
	logger   zerolog.Logger
}

// New creates an orchestrator. settings may be nil, in which case built-in
// defaults apply.
func New(project *config.Project, env *environment.Environment, settings *config.Settings) *Orchestrator {
	if env == nil {
		env = environment.FromOS()
	}
	return &Orchestrator{
		project:  project,
		env:      env,
		settings: settings,
		logger:   logging.GetLogger("orchestrator"),
	}
}

// Plan validates the project, prepares the environment and returns the
// queue of steps for opts. No step runs.
func (o *Orchestrator) Plan(opts Options) (*steps.Queue, error) {
	p := o.project
	if err := p.Validate(); err != nil {
		return nil, err
	}

	o.env.Set(environment.AppNameKey, p.Name)
	for _, v := range p.Environments {
		resolved, err := templating.ResolvePath(v.Value, o.env)
		if err != nil {
			return nil, err
		}
		o.logger.Debug().Str("name", v.Name).Str("value", resolved).Msg("Environment variable set")
		o.env.Set(v.Name, resolved)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	q := steps.NewQueue(out)
	q.SetPrinter(opts.Printer)

	if qt := p.QtResources; qt.Complete() {
		q.AddSingle(GroupQtResources, steps.WriteManifest{
			Resources: qt.Resources,
			Manifest:  qt.Src,
		})
		q.AddSingle(GroupQtResources, steps.CompileResources{
			Source:      qt.Src,
			Dest:        qt.Dest,
			Compression: o.compression(),
			Compiler:    qt.Compiler,
		})
	}

	if opts.Production && p.HasBuild {
		steps.AddMulti(q, GroupDistribution, p.PreCommands, shellCommand)
		q.AddSingle(GroupDistribution, steps.PackageApp{Options: o.packagerOptions()})
		steps.AddMulti(q, GroupDistribution, p.PostCommands, shellCommand)
	}

	if opts.RunApp {
		if opts.Production {
			q.AddSingle(GroupRunDist, steps.RunDistribution{Dist: o.dist(), Name: p.Name})
		} else {
			q.AddSingle(GroupRunLive, steps.RunSource{Src: p.Src, Args: p.RunCommands})
		}
	}

	o.logger.Info().
		Str("project", p.Name).
		Int("steps", q.Len()).
		Bool("production", opts.Production).
		Bool("run", opts.RunApp).
		Msg("Build planned")

	return q, nil
}

// Run plans the build and drains the queue through exec. In dry-run mode
// the labels are printed and nothing executes.
func (o *Orchestrator) Run(ctx context.Context, opts Options, exec steps.Executor) error {
	q, err := o.Plan(opts)
	if err != nil {
		return err
	}

	if opts.DryRun {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		if opts.PlanPrinter != nil {
			opts.PlanPrinter(out, q.Steps())
			return nil
		}
		for i, label := range q.Labels() {
			fmt.Fprintf(out, "%d. %s\n", i+1, label)
		}
		return nil
	}

	return q.Build(ctx, exec)
}

func shellCommand(command string) steps.Action {
	return steps.ShellCommand{Command: command}
}

// compression prefers the project's level, then the settings. Zero is a
// valid level.
func (o *Orchestrator) compression() int {
	if c := o.project.QtResources.Compression; c != nil {
		return *c
	}
	if o.settings != nil {
		return o.settings.Build.Compression
	}
	return manifest.DefaultCompression
}

func (o *Orchestrator) dist() string {
	if d := o.project.Build.Dist; d != "" {
		return d
	}
	return DefaultDist
}

func (o *Orchestrator) packagerOptions() packager.Options {
	p := o.project
	b := p.Build
	return packager.Options{
		Name:           p.Name,
		Src:            p.Src,
		Path:           b.Path,
		Icon:           b.Icon,
		OneFile:        b.OneFile,
		Clean:          b.Clean,
		UseUPX:         b.UPX,
		Dist:           b.Dist,
		Work:           b.Work,
		ExcludeModules: b.ExcludeModules,
		HiddenImports:  b.HiddenImports,
		Datas:          b.Datas,
		Binaries:       b.Binaries,
	}
}
