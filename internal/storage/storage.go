package storage

import (
	"os"

	"github.com/pkg/errors"
)

const DefaultFilePerm os.FileMode = 0644

var ErrPermissionDenied = errors.New("permission denied")

type FileCloser func() error

func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}

// OpenFile opens path read-only. A permission failure is reported as
// ErrPermissionDenied so callers can tell it apart from other I/O errors.
func OpenFile(path string) (*os.File, FileCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, nil, errors.Wrapf(ErrPermissionDenied, "could not open %s", path)
		}

		return nil, nil, errors.Wrapf(err, "could not open %s", path)
	}

	return f, f.Close, nil
}

// CreateFileUnderLock truncates or creates path for writing.
// The caller is expected to hold the storage write lock.
func CreateFileUnderLock(path string, perm os.FileMode) (*os.File, FileCloser, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		if os.IsPermission(err) {
			return nil, nil, errors.Wrapf(ErrPermissionDenied, "could not create %s", path)
		}

		return nil, nil, errors.Wrapf(err, "could not create %s", path)
	}

	return f, f.Close, nil
}

func FileSize(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, errors.Wrapf(err, "could not measure file %s size", f.Name())
	}

	return info.Size(), nil
}
