// Package manifest writes Qt resource collection files (.qrc) and builds the
// argument list for the resource compiler that turns them into Python
// modules.
//
// A manifest has a single RCC root, one qresource group with prefix "/" and
// one file entry per resource file. Entries are relative to the directory
// holding the manifest and always use forward slashes.
package manifest

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/beevik/etree"

	"github.com/arthur-debert/pybuild/pkg/errors"
	"github.com/arthur-debert/pybuild/pkg/files"
	"github.com/arthur-debert/pybuild/pkg/logging"
	"github.com/arthur-debert/pybuild/pkg/templating"
)

// DefaultCompression is the zlib level handed to the resource compiler.
const DefaultCompression = 3

// Manifest describes a written manifest file.
type Manifest struct {
	Path  string
	Files []string
}

// Write enumerates resources and writes the manifest to manifestPath.
//
// Directories are expanded recursively in filesystem walk order, which
// callers must not depend on. A resource that is neither an existing file
// nor an existing directory is skipped without error.
func Write(ctx context.Context, resources []string, manifestPath string) (*Manifest, error) {
	logger := logging.GetLogger("manifest")

	base, err := filepath.Abs(filepath.Dir(manifestPath))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestWrite, "cannot resolve manifest directory for %s", manifestPath)
	}

	doc := etree.NewDocument()
	root := doc.CreateElement("RCC")
	group := root.CreateElement("qresource")
	group.CreateAttr("prefix", "/")

	m := &Manifest{Path: manifestPath}
	add := func(path string) error {
		rel, err := relativeTo(base, path)
		if err != nil {
			return err
		}
		group.CreateElement("file").SetText(rel)
		m.Files = append(m.Files, rel)
		return nil
	}

	for _, resource := range resources {
		info, err := os.Stat(resource)
		if err != nil {
			logger.Debug().Str("resource", resource).Msg("Resource not found, skipping")
			continue
		}

		if !info.IsDir() {
			if err := add(resource); err != nil {
				return nil, err
			}
			continue
		}

		err = filepath.WalkDir(resource, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			return add(path)
		})
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestWrite, "cannot enumerate %s", resource)
		}
	}

	doc.Indent(2)

	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestWrite, "cannot render %s", manifestPath)
	}
	if err := files.Write(ctx, files.File{Path: manifestPath, Content: data}); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestWrite, "cannot write %s", manifestPath)
	}

	logger.Info().
		Str("manifest", manifestPath).
		Int("files", len(m.Files)).
		Msg("Resource manifest written")

	return m, nil
}

func relativeTo(base, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrManifestWrite, "cannot resolve %s", path)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrManifestWrite, "%s is not reachable from %s", path, base)
	}
	return filepath.ToSlash(rel), nil
}

// CompileArgs returns the resource compiler arguments that compile the
// manifest at src into the Python module at dest.
func CompileArgs(src, dest string, compression int) ([]string, error) {
	out, err := templating.PosixAbs(dest)
	if err != nil {
		return nil, err
	}
	in, err := templating.PosixAbs(src)
	if err != nil {
		return nil, err
	}
	return []string{
		"-o", out,
		"-g", "python",
		"-compress", strconv.Itoa(compression),
		in,
	}, nil
}
