package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store moves successfully ingested statement files into a type-keyed
// archive tree: <base>/<type>/<original filename>.
type Store struct {
	basePath string
}

// New creates the archive store, ensuring the base directory exists.
func New(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

// Move relocates srcPath under the subdirectory for the given statement
// type, creating it on demand. A plain rename is tried first; if the archive
// lives on another filesystem the file is copied and the original removed.
func (s *Store) Move(srcPath, kind string) error {
	destDir := filepath.Join(s.basePath, kind)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create archive subdirectory: %w", err)
	}

	destPath := filepath.Join(destDir, filepath.Base(srcPath))
	if err := os.Rename(srcPath, destPath); err == nil {
		return nil
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(destPath)
		return fmt.Errorf("copy to archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close archive file: %w", err)
	}

	if err := os.Remove(srcPath); err != nil {
		return fmt.Errorf("remove source file: %w", err)
	}
	return nil
}

// Path returns the archive location a file of the given type would move to.
func (s *Store) Path(kind, filename string) string {
	return filepath.Join(s.basePath, kind, filename)
}
