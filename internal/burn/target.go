package burn

import (
	"io"
	"os"
)

// Target is a burn destination. Sync forces previously written bytes to
// stable storage.
type Target interface {
	io.Writer
	Sync() error
	Close() error
}

type deviceFile struct {
	*os.File
}

func (d deviceFile) Sync() error {
	return syncData(d.File)
}

// OpenDevice opens an existing device node or regular file for writing.
// It does not create or truncate.
func OpenDevice(path string) (Target, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	return deviceFile{f}, nil
}
