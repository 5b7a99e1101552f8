// Package executor provides the step execution engine for pybuild.
//
// The executor dispatches each step action to the code that performs it:
// writing a resource manifest, compiling it, running hook commands,
// packaging the application or launching it. Command failures follow the
// runner's policy; template and file errors are always returned.
package executor
