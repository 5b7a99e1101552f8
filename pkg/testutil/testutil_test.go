package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
)

func TestCreateFile(t *testing.T) {
	dir := t.TempDir()

	path := CreateFile(t, dir, "nested/deep/file.txt", "content")
	assert.Equal(t, filepath.Join(dir, "nested", "deep", "file.txt"), path)
	AssertFileContent(t, path, "content")
	AssertNoFile(t, filepath.Join(dir, "other.txt"))
}

func TestCreateDir(t *testing.T) {
	path := CreateDir(t, t.TempDir(), "a/b")
	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteProject(t *testing.T) {
	dir := t.TempDir()
	path := WriteProject(t, dir, "name: App\n")
	assert.Equal(t, filepath.Join(dir, ProjectFile), path)
	assert.Equal(t, "name: App\n", ReadFile(t, path))
}

func TestIsolateXDG(t *testing.T) {
	dir := IsolateXDG(t)
	assert.True(t, strings.HasPrefix(xdg.ConfigHome, dir))
	assert.True(t, strings.HasPrefix(xdg.StateHome, dir))
}
