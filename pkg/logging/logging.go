// Package logging wires zerolog for pybuild. Diagnostics go to stderr and,
// when it can be opened, to a log file under the XDG state directory.
// Build output proper (step labels, tool output) never goes through here.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls Setup.
type Options struct {
	// Verbosity is the number of -v flags.
	Verbosity int
	// Console receives human readable output, stderr when nil.
	Console io.Writer
	// LogFile is appended to in JSON form. Empty means LogFilePath().
	LogFile string
	// NoFile disables the log file.
	NoFile bool
}

// LevelFor maps a -v count to a level: warn, info, debug, then trace.
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger configures the global logger for the given verbosity with
// the default console and log file.
func SetupLogger(verbosity int) {
	Setup(Options{Verbosity: verbosity})
}

// Setup configures the global logger.
func Setup(opts Options) {
	zerolog.SetGlobalLevel(LevelFor(opts.Verbosity))

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}}

	var fileErr error
	logFile := opts.LogFile
	if !opts.NoFile {
		if logFile == "" {
			logFile = LogFilePath()
		}
		var f *os.File
		if f, fileErr = openLogFile(logFile); fileErr == nil {
			writers = append(writers, f)
		}
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if opts.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logFile).Msg("Log file unavailable, logging to console only")
	}
	log.Debug().Int("verbosity", opts.Verbosity).Str("logFile", logFile).Msg("Logger initialized")
}

// GetLogger returns the global logger tagged with a component name.
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogFilePath is ~/.local/state/pybuild/pybuild.log unless XDG_STATE_HOME
// says otherwise.
func LogFilePath() string {
	// XDG_STATE_HOME may change between invocations in tests
	xdg.Reload()
	return filepath.Join(xdg.StateHome, "pybuild", "pybuild.log")
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// LogInvocation records a child process about to start. The full
// environment is only written at trace level.
func LogInvocation(logger zerolog.Logger, program string, args, env []string) {
	logger.Debug().
		Str("program", program).
		Strs("args", args).
		Int("envVars", len(env)).
		Msg("Starting process")
	logger.Trace().Strs("env", env).Msg("Process environment")
}

// TrackBuild logs the start of a build of total steps. The returned
// function logs how many ran, how long it took and the error, if any.
func TrackBuild(logger zerolog.Logger, total int) func(ran int, err error) {
	start := time.Now()
	logger.Debug().Int("steps", total).Msg("Build started")

	return func(ran int, err error) {
		ev := logger.Info()
		if err != nil {
			ev = logger.Error().Err(err)
		}
		ev.Int("steps", total).
			Int("ran", ran).
			Dur("duration", time.Since(start)).
			Msg("Build finished")
	}
}
