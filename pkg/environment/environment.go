// Package environment holds the variables visible to a build: the host
// environment plus everything the project configuration declares on top of
// it. A single Environment is threaded through every step so that later
// steps observe what earlier ones set, and every spawned command receives
// it as its process environment.
package environment

import (
	"os"
	"sort"
	"strings"
)

// AppNameKey is set to the project name before any other variable is resolved.
const AppNameKey = "APPNAME"

// Environment is a mutable key/value set. It is not safe for concurrent use;
// the build runs on a single goroutine.
type Environment struct {
	vars map[string]string
}

// New creates an Environment holding a copy of vars.
func New(vars map[string]string) *Environment {
	env := &Environment{vars: make(map[string]string, len(vars))}
	for k, v := range vars {
		env.vars[k] = v
	}
	return env
}

// FromOS seeds an Environment from the current process environment.
func FromOS() *Environment {
	env := &Environment{vars: make(map[string]string)}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env.vars[key] = value
	}
	return env
}

// Set stores value under key, replacing any previous value.
func (e *Environment) Set(key, value string) {
	e.vars[key] = value
}

// Get returns the value for key or the empty string.
func (e *Environment) Get(key string) string {
	return e.vars[key]
}

// Lookup returns the value for key and whether it is set.
func (e *Environment) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Environ returns the variables as sorted KEY=value pairs, the form
// expected by exec.Cmd.Env.
func (e *Environment) Environ() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}

// Len returns the number of variables.
func (e *Environment) Len() int {
	return len(e.vars)
}
