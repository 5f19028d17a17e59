package device

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

const sectorSize = 512

var sysBlockDir = "/sys/class/block"

// blockDeviceSize prefers sysfs, which needs no open permission on the node,
// then falls back to BLKGETSIZE64 and finally to seeking.
func blockDeviceSize(path string) (int64, error) {
	if size, err := sysfsSize(filepath.Base(path)); err == nil {
		return size, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if size, err := blkGetSize64(int(f.Fd())); err == nil {
		return int64(size), nil
	}
	return seekSize(path)
}

func sysfsSize(name string) (int64, error) {
	data, err := os.ReadFile(filepath.Join(sysBlockDir, name, "size"))
	if err != nil {
		return 0, err
	}
	sectors, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, err
	}
	return sectors * sectorSize, nil
}

// blkGetSize64 issues BLKGETSIZE64, which stores a u64 on every arch.
func blkGetSize64(fd int) (uint64, error) {
	var size uint64
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(unix.BLKGETSIZE64), uintptr(unsafe.Pointer(&size)))
	if errno != 0 {
		return 0, errno
	}
	return size, nil
}
