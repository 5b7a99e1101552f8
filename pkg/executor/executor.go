package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/pybuild/pkg/environment"
	"github.com/arthur-debert/pybuild/pkg/errors"
	"github.com/arthur-debert/pybuild/pkg/logging"
	"github.com/arthur-debert/pybuild/pkg/manifest"
	"github.com/arthur-debert/pybuild/pkg/packager"
	"github.com/arthur-debert/pybuild/pkg/shell"
	"github.com/arthur-debert/pybuild/pkg/steps"
	"github.com/arthur-debert/pybuild/pkg/templating"
)

// Runner is the part of shell.Runner the executor needs.
type Runner interface {
	RunShell(ctx context.Context, env []string, command string) (shell.Result, error)
	RunArgs(ctx context.Context, env []string, program string, args ...string) (shell.Result, error)
}

// Tools names the external programs the executor starts.
type Tools struct {
	Python   string
	RCC      string
	Packager string
}

// Options contains configuration for the executor
type Options struct {
	Env    *environment.Environment
	Runner Runner
	Tools  Tools
	Logger *zerolog.Logger
}

// Executor turns step actions into file writes and external commands.
// Placeholders in action fields are resolved against Env when the step
// runs, so they see every variable set before it.
type Executor struct {
	env    *environment.Environment
	runner Runner
	tools  Tools
	logger zerolog.Logger
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := logging.GetLogger("executor")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	env := opts.Env
	if env == nil {
		env = environment.FromOS()
	}

	runner := opts.Runner
	if runner == nil {
		runner = shell.New(shell.Options{})
	}

	tools := opts.Tools
	if tools.Python == "" {
		tools.Python = "python"
	}
	if tools.RCC == "" {
		tools.RCC = "pyside2-rcc"
	}
	if tools.Packager == "" {
		tools.Packager = packager.DefaultModule
	}

	return &Executor{
		env:    env,
		runner: runner,
		tools:  tools,
		logger: logger,
	}
}

// Execute performs a single action.
func (e *Executor) Execute(ctx context.Context, action steps.Action) error {
	if action == nil {
		return errors.New(errors.ErrUnknownAction, "no action to execute")
	}
	e.logger.Debug().
		Str("kind", action.Kind().String()).
		Str("args", action.Describe()).
		Msg("Executing action")

	switch a := action.(type) {
	case steps.WriteManifest:
		return e.writeManifest(ctx, a)
	case steps.CompileResources:
		return e.compileResources(ctx, a)
	case steps.ShellCommand:
		return e.runCommand(ctx, a)
	case steps.PackageApp:
		return e.packageApp(ctx, a)
	case steps.RunSource:
		return e.runSource(ctx, a)
	case steps.RunDistribution:
		return e.runDistribution(ctx, a)
	default:
		return errors.Newf(errors.ErrUnknownAction, "unknown action %T", action)
	}
}

func (e *Executor) writeManifest(ctx context.Context, a steps.WriteManifest) error {
	resources, err := templating.FormatAll(a.Resources, e.env)
	if err != nil {
		return err
	}
	path, err := templating.Format(a.Manifest, e.env)
	if err != nil {
		return err
	}
	_, err = manifest.Write(ctx, resources, path)
	return err
}

func (e *Executor) compileResources(ctx context.Context, a steps.CompileResources) error {
	src, err := templating.Format(a.Source, e.env)
	if err != nil {
		return err
	}
	dest, err := templating.Format(a.Dest, e.env)
	if err != nil {
		return err
	}
	compression := a.Compression
	if compression < 0 {
		compression = manifest.DefaultCompression
	}
	args, err := manifest.CompileArgs(src, dest, compression)
	if err != nil {
		return err
	}
	rcc := e.tools.RCC
	if a.Compiler != "" {
		rcc = a.Compiler
	}
	_, err = e.runner.RunArgs(ctx, e.env.Environ(), rcc, args...)
	return err
}

func (e *Executor) runCommand(ctx context.Context, a steps.ShellCommand) error {
	command := templating.FormatCommand(a.Command, e.env)
	_, err := e.runner.RunShell(ctx, e.env.Environ(), command)
	return err
}

func (e *Executor) packageApp(ctx context.Context, a steps.PackageApp) error {
	inv, err := packager.Command(e.tools.Python, e.tools.Packager, a.Options, e.env)
	if err != nil {
		return err
	}
	e.logger.Info().Str("command", inv.String()).Msg("Packaging application")
	_, err = e.runner.RunArgs(ctx, e.env.Environ(), inv.Program, inv.Args...)
	return err
}

// runSource starts the entry point through the shell so run commands may
// use redirections and other shell syntax.
func (e *Executor) runSource(ctx context.Context, a steps.RunSource) error {
	src, err := templating.Format(a.Src, e.env)
	if err != nil {
		return err
	}
	entry, err := templating.PosixAbs(src)
	if err != nil {
		return err
	}
	command := shell.Join(e.tools.Python, entry)
	if extra := strings.TrimSpace(templating.FormatCommand(a.Args, e.env)); extra != "" {
		command += " " + extra
	}
	_, err = e.runner.RunShell(ctx, e.env.Environ(), command)
	return err
}

func (e *Executor) runDistribution(ctx context.Context, a steps.RunDistribution) error {
	dist, err := templating.Format(a.Dist, e.env)
	if err != nil {
		return err
	}
	program, err := templating.Abs(filepath.Join(dist, a.Name, ExecutableName(a.Name)))
	if err != nil {
		return err
	}
	_, err = e.runner.RunArgs(ctx, e.env.Environ(), program)
	return err
}

// ExecutableName returns the file name of the packaged executable for name
// on the host platform.
func ExecutableName(name string) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("%s.exe", name)
	}
	return name
}
