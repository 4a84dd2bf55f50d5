package ops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/tms-archive/meetings/internal/canonical"
	"github.com/tms-archive/meetings/internal/errors"
	"github.com/tms-archive/meetings/internal/record"
)

// readArchive decodes the canonical file at path.
func readArchive(path string) (record.Archive, error) {
	f, err := openFileRead(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return canonical.Decode(f)
}

// readFile returns the whole of a UTF-8 input file.
func readFile(path string) ([]byte, error) {
	f, err := openFileRead(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("read %s: %w", path, err))
	}
	return data, nil
}

// encodeLatin1 converts ledger text to ISO-8859-1. A character outside the
// charset is a vocabulary error carrying its line number.
func encodeLatin1(text string) ([]byte, error) {
	out := make([]byte, 0, len(text))
	line := 1
	for _, r := range text {
		b, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			return nil, errors.NewVocabulary("ledger character", string(r)).AtLine(line)
		}
		if r == '\n' {
			line++
		}
		out = append(out, b)
	}
	return out, nil
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// into place, so a failed write leaves any existing file untouched.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create output directory: %w", err))
	}

	tempPath := path + "." + strings.ToLower(ulid.Make().String()) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		if _, ok := err.(*errors.ArchiveError); ok {
			return err
		}
		return errors.NewInternal(fmt.Errorf("failed to create output file: %w", err))
	}

	// Clean up temp file on failure (original file is preserved)
	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}

	// Close before rename (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close output file: %w", err))
	}
	file = nil

	// Check if destination is a symlink (os.Rename would replace the link,
	// not its target, which is never what the caller meant)
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("output path is a symlink: " + path)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to finalize output: %w", err))
	}

	success = true
	return nil
}
