// Package shell runs external commands for build steps.
//
// Two forms are supported: hook text written by the user, which is handed
// to the platform shell as is, and structured invocations (program plus
// argv) for the tools pybuild drives itself. Every command is logged before
// it starts, and with Echo set it is also written to the build output as
// "$ <command>" once its placeholders are resolved.
//
// By default a command that exits non-zero, or cannot be started at all, is
// reported in the log and otherwise ignored: the build carries on with the
// next step. Setting FailFast turns those outcomes into errors that stop
// the build.
package shell

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/pybuild/pkg/errors"
	"github.com/arthur-debert/pybuild/pkg/logging"
)

// Options configures a Runner.
type Options struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Dir      string
	FailFast bool
	// Timeout bounds each command; zero means wait indefinitely.
	Timeout time.Duration
	// Echo writes each command line to Stdout before it runs.
	Echo   bool
	Logger *zerolog.Logger
}

// Result describes a finished command.
type Result struct {
	Command  string
	ExitCode int
	Duration time.Duration
	// Err is set when the command could not be started or did not exit
	// cleanly, whether or not the runner returned it.
	Err error
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// Runner executes commands. The zero value is not usable; use New.
type Runner struct {
	stdout   io.Writer
	stderr   io.Writer
	dir      string
	failFast bool
	timeout  time.Duration
	echo     bool
	logger   zerolog.Logger
}

// New creates a Runner writing to the process stdout/stderr unless
// overridden.
func New(opts Options) *Runner {
	logger := logging.GetLogger("shell")
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Runner{
		stdout:   stdout,
		stderr:   stderr,
		dir:      opts.Dir,
		failFast: opts.FailFast,
		timeout:  opts.Timeout,
		echo:     opts.Echo,
		logger:   logger,
	}
}

// RunShell runs user supplied command text through the platform shell.
func (r *Runner) RunShell(ctx context.Context, env []string, command string) (Result, error) {
	program, args := shellInvocation(command)
	return r.run(ctx, env, command, program, args)
}

// RunArgs runs program with args directly, without a shell.
func (r *Runner) RunArgs(ctx context.Context, env []string, program string, args ...string) (Result, error) {
	return r.run(ctx, env, Join(program, args...), program, args)
}

func (r *Runner) run(ctx context.Context, env []string, display, program string, args []string) (Result, error) {
	r.logger.Info().Str("command", display).Msg("Running command")
	logging.LogInvocation(r.logger, program, args, env)
	if r.echo {
		fmt.Fprintf(r.stdout, "$ %s\n", display)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = r.dir
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	// Grandchildren can hold the output pipes open after a kill.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	result := Result{
		Command:  display,
		ExitCode: exitCode(cmd, err),
		Duration: time.Since(start),
		Err:      err,
	}

	if err == nil {
		r.logger.Debug().
			Str("command", display).
			Dur("duration", result.Duration).
			Msg("Command finished")
		return result, nil
	}

	// A cancelled build is never a tolerated command failure.
	if ctxErr := ctx.Err(); ctxErr != nil && stderrors.Is(ctxErr, context.Canceled) {
		return result, errors.Wrapf(ctxErr, errors.ErrCommandFailed, "command interrupted: %s", display).
			WithDetail("command", display)
	}

	r.logger.Warn().
		Err(err).
		Str("command", display).
		Int("exit_code", result.ExitCode).
		Bool("fail_fast", r.failFast).
		Msg("Command failed")

	if !r.failFast {
		return result, nil
	}
	return result, errors.Wrapf(err, errors.ErrCommandFailed, "command failed: %s", display).
		WithDetail("command", display).
		WithDetail("exit_code", result.ExitCode)
}

func exitCode(cmd *exec.Cmd, err error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

func shellInvocation(command string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", command}
	}
	return "/bin/sh", []string{"-c", command}
}

// Join renders program and args as a single shell-quoted command line.
func Join(program string, args ...string) string {
	return shellquote.Join(append([]string{program}, args...)...)
}
