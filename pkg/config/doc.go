// Package config loads the two kinds of configuration pybuild reads.
//
// The project file (pyproject.yml by default) declares what to build: the
// application name and entry point, Qt resources, packaging options, hook
// commands and extra environment variables. Its mapping keys are
// case-insensitive and lowercased on load.
//
// Settings configure pybuild itself (tool names, compression level, failure
// policy). They are layered from embedded defaults, a user settings file in
// the XDG config directory, PYBUILD_* environment variables and command-line
// overrides.
package config
