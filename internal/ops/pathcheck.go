package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tms-archive/meetings/internal/errors"
)

// checkOutputPath validates an output file name before anything is read.
// It checks:
// 1. The name is present and has the expected extension
// 2. The output is not one of the action's inputs
// 3. The output, if it exists, is a regular file and not a symlink
func checkOutputPath(path, ext string, inputs ...string) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewInvalidRequest("output path is required")
	}
	if ext != "" && !strings.EqualFold(filepath.Ext(path), ext) {
		return errors.NewInvalidRequest(fmt.Sprintf("output path must have %s extension: %s", ext, path))
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}
	for _, in := range inputs {
		if in == "" {
			continue
		}
		absIn, err := filepath.Abs(filepath.Clean(in))
		if err != nil {
			return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
		}
		if absIn == absPath {
			return errors.NewInvalidRequest("output would overwrite input: " + path)
		}
	}

	if info, err := os.Lstat(absPath); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("output path must not be a symlink: " + path)
		}
		if !info.Mode().IsRegular() {
			return errors.NewInvalidRequest("output path is not a regular file: " + path)
		}
	}
	return nil
}
