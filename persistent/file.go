package persistent

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// NewFileStore creates new file-based store. Existing file is truncated.
func NewFileStore(path string) (*FileStore, func(), error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening file %q failed", path)
	}

	return &FileStore{
			file: file,
		}, func() {
			_ = file.Close()
		}, nil
}

// FileStore defines persistent file-based store.
type FileStore struct {
	file *os.File
}

// Write appends data to the file.
func (s *FileStore) Write(data []byte) error {
	_, err := s.file.Write(data)
	return errors.WithStack(err)
}

// Sync flushes written data to the disk.
func (s *FileStore) Sync() error {
	return errors.WithStack(unix.Fsync(int(s.file.Fd())))
}
