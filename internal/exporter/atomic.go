package exporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
)

// WriteFileAtomic writes through a temporary file in the target directory and
// renames it into place only when write succeeds. On failure no file is left
// at path.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create temporary file for %s", path), err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err := write(buf); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := buf.Flush(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to flush %s", path), err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to set permissions on %s", path), err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to close %s", path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to move %s into place", path), err)
	}
	return nil
}
