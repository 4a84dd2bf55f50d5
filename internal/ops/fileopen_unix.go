//go:build !windows

package ops

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/tms-archive/meetings/internal/errors"
)

// openFileNoFollow opens a file for writing with O_NOFOLLOW, so a symlink
// planted at a temporary output name is never written through. O_CLOEXEC
// prevents FD leaks across exec.
func openFileNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	fd, err := syscall.Open(path, flag|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, uint32(perm))
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, errors.NewInvalidRequest("cannot write to symlink: " + path)
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}

// openFileRead opens an input file. A missing file is NOT_FOUND.
func openFileRead(path string) (*os.File, error) {
	fd, err := syscall.Open(path, syscall.O_RDONLY|syscall.O_CLOEXEC, 0)
	if err != nil {
		if stderrors.Is(err, syscall.ENOENT) {
			return nil, errors.NewNotFound(path)
		}
		return nil, errors.NewInternal(err)
	}
	return os.NewFile(uintptr(fd), path), nil
}
