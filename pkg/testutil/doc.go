// Package testutil provides file system and environment helpers for
// pybuild tests.
//
// Helpers fail the test on error instead of returning it, and everything
// they create lives under t.TempDir so no cleanup is needed.
package testutil
