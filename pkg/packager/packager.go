// Package packager builds the PyInstaller invocation that bundles the
// application into a standalone distributable.
package packager

import (
	"github.com/arthur-debert/pybuild/pkg/shell"
	"github.com/arthur-debert/pybuild/pkg/templating"
)

// DefaultModule is the Python module run to package the application.
const DefaultModule = "PyInstaller"

// Options are the packaging settings of a project. String fields and list
// items may contain {name} placeholders.
type Options struct {
	Name           string
	Src            string
	Path           string
	Icon           string
	OneFile        bool
	Clean          bool
	UseUPX         bool
	Dist           string
	Work           string
	ExcludeModules []string
	HiddenImports  []string
	Datas          []string
	Binaries       []string
}

// Invocation is a program with its arguments.
type Invocation struct {
	Program string
	Args    []string
}

// String returns the composed command line.
func (i Invocation) String() string {
	return shell.Join(i.Program, i.Args...)
}

// Args resolves the options against env and returns the packager flags.
// Flags only appear for options that are set, always in the same order.
func Args(opts Options, env templating.Lookuper) ([]string, error) {
	var args []string
	flag := func(name, tmpl string) error {
		if tmpl == "" {
			return nil
		}
		v, err := templating.Format(tmpl, env)
		if err != nil {
			return err
		}
		args = append(args, name, v)
		return nil
	}
	repeat := func(name string, tmpls []string) error {
		values, err := templating.FormatAll(tmpls, env)
		if err != nil {
			return err
		}
		for _, v := range values {
			args = append(args, name, v)
		}
		return nil
	}

	if opts.OneFile {
		args = append(args, "--onefile")
	}
	if opts.Clean {
		args = append(args, "--clean")
	}
	if !opts.UseUPX {
		args = append(args, "--noupx")
	}

	steps := []func() error{
		func() error { return flag("--distpath", opts.Dist) },
		func() error { return flag("--workpath", opts.Work) },
		func() error { return repeat("--exclude-module", opts.ExcludeModules) },
		func() error { return repeat("--hidden-import", opts.HiddenImports) },
		func() error { return repeat("--add-data", opts.Datas) },
		func() error { return repeat("--add-binary", opts.Binaries) },
		func() error { return flag("-p", opts.Path) },
		func() error { return flag("-i", opts.Icon) },
		func() error { return flag("-n", opts.Name) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	src, err := templating.Format(opts.Src, env)
	if err != nil {
		return nil, err
	}
	return append(args, src), nil
}

// Command returns the full packager invocation: the interpreter running
// module in optimized mode followed by the flags from Args.
func Command(python, module string, opts Options, env templating.Lookuper) (Invocation, error) {
	if module == "" {
		module = DefaultModule
	}
	flags, err := Args(opts, env)
	if err != nil {
		return Invocation{}, err
	}
	return Invocation{
		Program: python,
		Args:    append([]string{"-O", "-m", module}, flags...),
	}, nil
}
