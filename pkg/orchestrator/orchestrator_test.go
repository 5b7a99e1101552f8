package orchestrator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/pybuild/pkg/config"
	"github.com/arthur-debert/pybuild/pkg/environment"
	"github.com/arthur-debert/pybuild/pkg/errors"
	"github.com/arthur-debert/pybuild/pkg/packager"
	"github.com/arthur-debert/pybuild/pkg/steps"
)

type recordingExecutor struct {
	actions []steps.Action
}

func (r *recordingExecutor) Execute(_ context.Context, a steps.Action) error {
	r.actions = append(r.actions, a)
	return nil
}

func parse(t *testing.T, content string) *config.Project {
	t.Helper()
	p, err := config.Parse([]byte(content))
	require.NoError(t, err)
	return p
}

func kinds(q *steps.Queue) []steps.Kind {
	var out []steps.Kind
	for _, s := range q.Steps() {
		out = append(out, s.Action.Kind())
	}
	return out
}

const fullProject = `
Name: App
Src: main.py
QtResources:
  Src: app.qrc
  Dest: py_rc.py
  Resources: [qml]
PreCommands: [echo pre1, echo pre2]
PostCommands: [echo post]
Build:
  Dist: ./out
RunCommands: --debug
`

func TestPlanInvalidProject(t *testing.T) {
	env := environment.New(nil)
	o := New(parse(t, "src: main.py\n"), env, nil)

	_, err := o.Plan(Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
	_, set := env.Lookup(environment.AppNameKey)
	assert.False(t, set, "nothing happens before validation")
}

func TestPlanDevelopment(t *testing.T) {
	o := New(parse(t, fullProject), environment.New(nil), nil)

	q, err := o.Plan(Options{})
	require.NoError(t, err)
	assert.Equal(t, []steps.Kind{steps.KindWriteManifest, steps.KindCompileResources}, kinds(q))

	q, err = o.Plan(Options{RunApp: true})
	require.NoError(t, err)
	assert.Equal(t, []steps.Kind{
		steps.KindWriteManifest,
		steps.KindCompileResources,
		steps.KindRunSource,
	}, kinds(q))

	run := q.Steps()[2]
	assert.Equal(t, GroupRunLive, run.Group)
	assert.Equal(t, steps.RunSource{Src: "main.py", Args: "--debug"}, run.Action)
}

func TestPlanProduction(t *testing.T) {
	o := New(parse(t, fullProject), environment.New(nil), nil)

	q, err := o.Plan(Options{Production: true, RunApp: true})
	require.NoError(t, err)
	assert.Equal(t, []steps.Kind{
		steps.KindWriteManifest,
		steps.KindCompileResources,
		steps.KindShellCommand,
		steps.KindShellCommand,
		steps.KindPackageApp,
		steps.KindShellCommand,
		steps.KindRunDistribution,
	}, kinds(q))

	all := q.Steps()
	assert.Equal(t, steps.ShellCommand{Command: "echo pre1"}, all[2].Action)
	assert.Equal(t, steps.ShellCommand{Command: "echo pre2"}, all[3].Action)
	assert.Equal(t, steps.ShellCommand{Command: "echo post"}, all[5].Action)
	assert.Equal(t, GroupDistribution, all[4].Group)
	assert.Equal(t, steps.RunDistribution{Dist: "./out", Name: "App"}, all[6].Action)
}

func TestPlanProductionPackagesOnlyWithBuildSection(t *testing.T) {
	// Property: a build section alone yields exactly one package step.
	o := New(parse(t, "name: App\nsrc: main.py\nbuild:\n  dist: ./out\n"), environment.New(nil), nil)

	q, err := o.Plan(Options{Production: true})
	require.NoError(t, err)
	require.Equal(t, []steps.Kind{steps.KindPackageApp}, kinds(q))

	pkg := q.Steps()[0].Action.(steps.PackageApp)
	inv, err := packager.Command("python", "", pkg.Options, environment.New(nil))
	require.NoError(t, err)
	command := inv.String()
	assert.Contains(t, command, "-n App")
	assert.Contains(t, command, "main.py")
	assert.Contains(t, command, "--distpath ./out")
}

func TestPlanProductionWithoutBuildSection(t *testing.T) {
	o := New(parse(t, "name: App\nsrc: main.py\nprecommands: [echo hi]\nbuild: {}\n"), environment.New(nil), nil)

	q, err := o.Plan(Options{Production: true, RunApp: true})
	require.NoError(t, err)
	assert.Equal(t, []steps.Kind{steps.KindRunDistribution}, kinds(q))
	assert.Equal(t, steps.RunDistribution{Dist: DefaultDist, Name: "App"}, q.Steps()[0].Action)
}

func TestPlanIncompleteResourcesAreSkipped(t *testing.T) {
	o := New(parse(t, "name: App\nsrc: main.py\nqtresources:\n  src: a.qrc\n  dest: a.py\n"), environment.New(nil), nil)

	q, err := o.Plan(Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, q.Len())
}

func TestPlanResolvesEnvironmentsInOrder(t *testing.T) {
	dir := t.TempDir()
	root, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	project := parse(t, `
name: App
src: main.py
environments:
  ROOT: `+filepath.ToSlash(root)+`
  DIST: "{root}/dist/{APPNAME}"
`)
	env := environment.New(nil)
	o := New(project, env, nil)

	_, err = o.Plan(Options{})
	require.NoError(t, err)

	assert.Equal(t, "App", env.Get(environment.AppNameKey))
	assert.Equal(t, root, env.Get("root"))
	assert.Equal(t, filepath.Join(root, "dist", "App"), env.Get("dist"))
}

func TestPlanUnknownPlaceholderFails(t *testing.T) {
	project := parse(t, "name: App\nsrc: main.py\nenvironments:\n  A: \"{missing}/x\"\n")
	_, err := New(project, environment.New(nil), nil).Plan(Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplate))
}

func TestCompressionPrecedence(t *testing.T) {
	level := func(n int) *int { return &n }
	project := parse(t, fullProject)
	settings := &config.Settings{Build: config.BuildSettings{Compression: 7}}

	q, err := New(project, environment.New(nil), settings).Plan(Options{})
	require.NoError(t, err)
	assert.Equal(t, 7, q.Steps()[1].Action.(steps.CompileResources).Compression)

	project.QtResources.Compression = level(1)
	q, err = New(project, environment.New(nil), settings).Plan(Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Steps()[1].Action.(steps.CompileResources).Compression)

	project.QtResources.Compression = level(0)
	q, err = New(project, environment.New(nil), settings).Plan(Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, q.Steps()[1].Action.(steps.CompileResources).Compression, "level 0 is a valid choice")

	settings.Build.Compression = 0
	project.QtResources.Compression = nil
	q, err = New(project, environment.New(nil), settings).Plan(Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, q.Steps()[1].Action.(steps.CompileResources).Compression)

	q, err = New(project, environment.New(nil), nil).Plan(Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, q.Steps()[1].Action.(steps.CompileResources).Compression)
}

func TestRunExecutesInOrder(t *testing.T) {
	var out bytes.Buffer
	exec := &recordingExecutor{}

	o := New(parse(t, fullProject), environment.New(nil), nil)
	err := o.Run(context.Background(), Options{Production: true, Out: &out}, exec)
	require.NoError(t, err)

	require.Len(t, exec.actions, 6)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], GroupQtResources+": writeManifest:: "))
	assert.Equal(t, GroupDistribution+": runCommand:: echo pre1", lines[2])
}

func TestRunDryRun(t *testing.T) {
	var out bytes.Buffer
	exec := &recordingExecutor{}

	o := New(parse(t, fullProject), environment.New(nil), nil)
	err := o.Run(context.Background(), Options{RunApp: true, DryRun: true, Out: &out}, exec)
	require.NoError(t, err)

	assert.Empty(t, exec.actions)
	assert.Contains(t, out.String(), "3. "+GroupRunLive+": runSource:: main.py, --debug")
}

func TestRunWithRealProjectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultProjectFile)
	require.NoError(t, os.WriteFile(path, []byte(fullProject), 0644))

	project, err := config.Load(path)
	require.NoError(t, err)

	exec := &recordingExecutor{}
	err = New(project, environment.New(nil), nil).Run(context.Background(), Options{RunApp: true, Out: &bytes.Buffer{}}, exec)
	require.NoError(t, err)
	assert.Len(t, exec.actions, 3)
}
