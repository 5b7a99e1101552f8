// Package files writes the files pybuild generates itself, the Qt resource
// manifest and the sample project, as synthfs operations run against the
// host filesystem. Parent directories are created as needed and existing
// files are replaced.
package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"

	"github.com/arthur-debert/pybuild/pkg/logging"
)

// File is one file to write.
type File struct {
	Path    string
	Content []byte
	// Mode defaults to 0644.
	Mode os.FileMode
}

// Write writes every file in order, stopping at the first failure.
func Write(ctx context.Context, fs ...File) error {
	if len(fs) == 0 {
		return nil
	}
	logger := logging.GetLogger("files")

	sfs := synthfs.New()
	ops := make([]synthfs.Operation, 0, len(fs))
	for i, f := range fs {
		target, err := filepath.Abs(f.Path)
		if err != nil {
			return fmt.Errorf("cannot resolve %s: %w", f.Path, err)
		}
		mode := f.Mode
		if mode == 0 {
			mode = 0644
		}
		id := fmt.Sprintf("write_%d_%s", i, filepath.Base(target))
		ops = append(ops, sfs.CustomOperationWithID(id, writeFile(target, f.Content, mode)))
	}

	osfs := filesystem.NewOSFileSystem("/")
	target := synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths()

	logger.Debug().Int("files", len(ops)).Msg("Writing files")
	if _, err := synthfs.RunWithOptions(ctx, target, synthfs.DefaultPipelineOptions(), ops...); err != nil {
		return err
	}
	return nil
}

func writeFile(target string, content []byte, mode os.FileMode) func(context.Context, filesystem.FileSystem) error {
	return func(ctx context.Context, fs filesystem.FileSystem) error {
		if dir := filepath.Dir(target); dir != "." && dir != "/" {
			if err := fs.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create parent directory %s: %w", dir, err)
			}
		}
		if err := fs.WriteFile(target, content, mode); err != nil {
			return fmt.Errorf("failed to write file %s: %w", target, err)
		}
		return nil
	}
}
