package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	Suffix       = ".bak"  // Previous generation
	SecondSuffix = ".bak2" // Generation before that
)

// Paths returns the first and second generation backup names for path.
func Paths(path string) (bak, bak2 string) {
	return path + Suffix, path + SecondSuffix
}

// Rotate moves path into the backup chain. If a .bak already exists it becomes .bak2,
// replacing any older .bak2, and path becomes the new .bak.
func Rotate(path string) error {
	bak, bak2 := Paths(path)

	_, err := os.Stat(bak)
	switch {
	case err == nil:
		if err := os.Remove(bak2); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove old backup %s: %w", bak2, err)
		}
		if err := os.Rename(bak, bak2); err != nil {
			return fmt.Errorf("failed to rotate %s to %s: %w", bak, bak2, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to check backup %s: %w", bak, err)
	}

	if err := os.Rename(path, bak); err != nil {
		return fmt.Errorf("failed to back up %s: %w", path, err)
	}
	return nil
}

// Commit replaces the content of path, keeping the previous content in the backup chain.
// The new content is staged in a temporary file next to path, so path is only ever
// replaced by a complete file and is written last.
func Commit(path string, content []byte) (err error) {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write staging file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close staging file: %w", err)
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set mode on staging file: %w", err)
	}

	if err := Rotate(path); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
