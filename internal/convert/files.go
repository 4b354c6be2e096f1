// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// ErrNotUTF8 is wrapped by LoadSource when a file is not valid UTF-8.
var ErrNotUTF8 = errors.New("not valid UTF-8 text")

// FileError reports a failed read or write of a local file.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// LoadSource reads a UTF-8 text file verbatim.
func LoadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &FileError{Op: "read", Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &FileError{Op: "read", Path: path, Err: ErrNotUTF8}
	}
	return string(data), nil
}

// ReadSource is LoadSource for an open reader such as stdin. name labels errors.
func ReadSource(r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &FileError{Op: "read", Path: name, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &FileError{Op: "read", Path: name, Err: ErrNotUTF8}
	}
	return string(data), nil
}

// SaveText writes content verbatim to path, creating parent directories.
// Without overwrite an existing file is left alone and an error is returned.
func SaveText(path, content string, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &FileError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return &FileError{Op: "write", Path: path, Err: err}
	}
	if _, err := io.WriteString(f, content); err != nil {
		f.Close()
		return &FileError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &FileError{Op: "write", Path: path, Err: err}
	}
	return nil
}
