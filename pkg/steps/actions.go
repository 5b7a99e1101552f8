package steps

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/pybuild/pkg/packager"
)

// Kind identifies the payload carried by an Action.
type Kind int

const (
	KindWriteManifest Kind = iota
	KindCompileResources
	KindShellCommand
	KindPackageApp
	KindRunSource
	KindRunDistribution
)

// String returns the name used in step labels.
func (k Kind) String() string {
	switch k {
	case KindWriteManifest:
		return "writeManifest"
	case KindCompileResources:
		return "compileResources"
	case KindShellCommand:
		return "runCommand"
	case KindPackageApp:
		return "packageApp"
	case KindRunSource:
		return "runSource"
	case KindRunDistribution:
		return "runDistribution"
	default:
		return "unknown"
	}
}

// Action is one unit of deferred build work. The set of implementations is
// closed; executors dispatch on the concrete type.
type Action interface {
	Kind() Kind
	// Describe renders the action's arguments for the step label.
	Describe() string
	isAction()
}

// WriteManifest writes a resource manifest listing Resources to Manifest.
type WriteManifest struct {
	Resources []string
	Manifest  string
}

// CompileResources runs the resource compiler on Source, producing Dest.
// Compiler replaces the configured rcc program when set.
type CompileResources struct {
	Source      string
	Dest        string
	Compression int
	Compiler    string
}

// ShellCommand runs user supplied command text through the shell.
type ShellCommand struct {
	Command string
}

// PackageApp bundles the application with the packager.
type PackageApp struct {
	Options packager.Options
}

// RunSource starts the entry point with the Python interpreter. Args is
// the raw trailing argument string from the project.
type RunSource struct {
	Src  string
	Args string
}

// RunDistribution starts the packaged executable under Dist.
type RunDistribution struct {
	Dist string
	Name string
}

func (WriteManifest) Kind() Kind    { return KindWriteManifest }
func (CompileResources) Kind() Kind { return KindCompileResources }
func (ShellCommand) Kind() Kind     { return KindShellCommand }
func (PackageApp) Kind() Kind       { return KindPackageApp }
func (RunSource) Kind() Kind        { return KindRunSource }
func (RunDistribution) Kind() Kind  { return KindRunDistribution }

func (WriteManifest) isAction()    {}
func (CompileResources) isAction() {}
func (ShellCommand) isAction()     {}
func (PackageApp) isAction()       {}
func (RunSource) isAction()        {}
func (RunDistribution) isAction()  {}

func (a WriteManifest) Describe() string {
	return fmt.Sprintf("[%s], %s", strings.Join(a.Resources, ", "), a.Manifest)
}

func (a CompileResources) Describe() string {
	return fmt.Sprintf("%s, %s, compression=%d", a.Source, a.Dest, a.Compression)
}

func (a ShellCommand) Describe() string {
	return a.Command
}

func (a PackageApp) Describe() string {
	o := a.Options
	return fmt.Sprintf("name=%s, src=%s, onefile=%t, clean=%t, upx=%t, dist=%s, work=%s",
		o.Name, o.Src, o.OneFile, o.Clean, o.UseUPX, o.Dist, o.Work)
}

func (a RunSource) Describe() string {
	if a.Args == "" {
		return a.Src
	}
	return a.Src + ", " + a.Args
}

func (a RunDistribution) Describe() string {
	return fmt.Sprintf("%s, %s", a.Dist, a.Name)
}
