package fotosort

import (
	"errors"
	"fmt"
)

// ErrInvalidSource is returned when the source directory is missing or unusable.
var ErrInvalidSource = errors.New("invalid source")

// CorruptMetadataError means a capture date was present but could not be parsed.
type CorruptMetadataError struct {
	Path string
	Raw  string
	Err  error
}

func (e *CorruptMetadataError) Error() string {
	return fmt.Sprintf("corrupt capture date %q in %s: %v", e.Raw, e.Path, e.Err)
}

func (e *CorruptMetadataError) Unwrap() error { return e.Err }

// IsCorruptMetadata reports whether err carries a CorruptMetadataError.
func IsCorruptMetadata(err error) bool {
	var e *CorruptMetadataError
	return errors.As(err, &e)
}

// FilesystemError wraps any I/O failure along with the operation and path involved.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// IsFilesystem reports whether err carries a FilesystemError.
func IsFilesystem(err error) bool {
	var e *FilesystemError
	return errors.As(err, &e)
}

func fsErr(op string, path string, err error) error {
	return &FilesystemError{Op: op, Path: path, Err: err}
}
