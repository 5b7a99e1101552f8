package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/pybuild/pkg/errors"
)

func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pyproject.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNormalizeKeys(t *testing.T) {
	input := map[string]interface{}{
		"Name": "App",
		"QtResources": map[string]interface{}{
			"SRC":       "App.qrc",
			"Resources": []interface{}{"Qml", map[string]interface{}{"Keep": "Case"}},
		},
		"Nested": map[interface{}]interface{}{
			"Deep": map[string]interface{}{"KEY": "Value"},
			1:      "one",
		},
		"RunCommands": "--Flag",
	}

	got := NormalizeKeys(input)

	want := map[string]interface{}{
		"name": "App",
		"qtresources": map[string]interface{}{
			"src":       "App.qrc",
			"resources": []interface{}{"Qml", map[string]interface{}{"Keep": "Case"}},
		},
		"nested": map[string]interface{}{
			"deep": map[string]interface{}{"key": "Value"},
			"1":    "one",
		},
		"runcommands": "--Flag",
	}
	assert.Equal(t, want, got)
}

func TestNormalizeKeysLeavesNonMappingsAlone(t *testing.T) {
	for _, v := range []interface{}{"String", []interface{}{"A", "B"}, 42, nil, true} {
		assert.Equal(t, v, NormalizeKeys(v))
	}
}

func TestLoad(t *testing.T) {
	path := writeProject(t, `
Name: App
SRC: main.py
QtResources:
  Src: res/app.qrc
  Dest: libs/py_rc.py
  Resources: [res/qml, res/img]
PreCommands:
  - echo pre
PostCommands: [echo post1, echo post2]
Build:
  OneFile: yes
  Clean: true
  UPX: false
  ExcludeModules: [tkinter]
  HiddenImports: PySide2.QtXml
  Dist: ./out
Environments:
  ZROOT: .
  ALPHA: "{zroot}/a"
  Middle: "{alpha}/m"
RunCommands: --debug
`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "App", p.Name)
	assert.Equal(t, "main.py", p.Src)
	assert.Equal(t, path, p.Path())
	assert.True(t, p.QtResources.Complete())
	assert.Equal(t, []string{"res/qml", "res/img"}, p.QtResources.Resources)
	assert.Equal(t, []string{"echo pre"}, p.PreCommands)
	assert.Equal(t, []string{"echo post1", "echo post2"}, p.PostCommands)
	assert.True(t, p.HasBuild)
	assert.True(t, p.Build.OneFile)
	assert.True(t, p.Build.Clean)
	assert.False(t, p.Build.UPX)
	assert.Equal(t, []string{"tkinter"}, p.Build.ExcludeModules)
	assert.Equal(t, []string{"PySide2.QtXml"}, p.Build.HiddenImports, "a single value becomes a list")
	assert.Equal(t, "./out", p.Build.Dist)
	assert.Equal(t, "--debug", p.RunCommands)

	assert.Equal(t, []EnvVar{
		{Name: "zroot", Value: "."},
		{Name: "alpha", Value: "{zroot}/a"},
		{Name: "middle", Value: "{alpha}/m"},
	}, p.Environments, "declaration order is kept and names are lowercased")

	assert.Equal(t, "res/app.qrc", p.QtResources.Src)
	assert.Nil(t, p.QtResources.Compression, "compression is unset unless given")
	assert.NoError(t, p.Validate())
}

func TestParseCompressionZeroIsKept(t *testing.T) {
	p, err := Parse([]byte("name: App\nsrc: main.py\nQtResources:\n  Compression: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, p.QtResources.Compression)
	assert.Equal(t, 0, *p.QtResources.Compression)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigNotFound))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeProject(t, "name: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestParseTopLevelMustBeMapping(t *testing.T) {
	_, err := Parse([]byte("- a\n- b\n"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		valid   bool
	}{
		{"complete", "name: App\nsrc: main.py\n", true},
		{"missing name", "src: main.py\n", false},
		{"missing src", "name: App\n", false},
		{"empty document", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse([]byte(tt.content))
			require.NoError(t, err)

			err = p.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
		})
	}
}

func TestParseOptionalSections(t *testing.T) {
	p, err := Parse([]byte("name: App\nsrc: main.py\nbuild: {}\nqtresources:\n  src: a.qrc\n"))
	require.NoError(t, err)

	assert.False(t, p.HasBuild, "an empty build section counts as absent")
	assert.False(t, p.QtResources.Complete())
	assert.Empty(t, p.Environments)
	assert.Empty(t, p.PreCommands)
}

func TestSampleProjectParses(t *testing.T) {
	p, err := Parse([]byte(SampleProject()))
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, "MyApp", p.Name)
	assert.True(t, p.HasBuild)
	require.Len(t, p.Environments, 2)
	assert.Equal(t, "approot", p.Environments[0].Name)
}
