package device

import (
	"fmt"
	"io"
	"os"
)

// Size returns the byte length of a regular file or block device.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}

	mode := info.Mode()
	if mode.IsRegular() {
		return info.Size(), nil
	}
	if mode&os.ModeDevice == 0 {
		return 0, fmt.Errorf("%s is neither a device nor a regular file", path)
	}

	return blockDeviceSize(path)
}

func seekSize(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return f.Seek(0, io.SeekEnd)
}
