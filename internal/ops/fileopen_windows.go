//go:build windows

package ops

import (
	"os"

	"github.com/tms-archive/meetings/internal/errors"
)

// openFileNoFollow opens a file for writing.
// On Windows, O_NOFOLLOW is not available; checkOutputPath rejects symlinked
// outputs before we get here.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, flag, perm)
}

// openFileRead opens an input file. A missing file is NOT_FOUND.
func openFileRead(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path)
		}
		return nil, errors.NewInternal(err)
	}
	return f, nil
}
