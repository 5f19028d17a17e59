package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func withSysBlockDir(t *testing.T, dir string) {
	t.Helper()
	old := sysBlockDir
	sysBlockDir = dir
	t.Cleanup(func() { sysBlockDir = old })
}

func TestSysfsSize(t *testing.T) {
	dir := t.TempDir()
	withSysBlockDir(t, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sdb"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sdb", "size"), []byte("62333952\n"), 0644))

	size, err := sysfsSize("sdb")
	require.NoError(t, err)
	assert.Equal(t, int64(62333952*sectorSize), size)

	_, err = sysfsSize("sdz")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBlkGetSize64_NotABlockDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(path, make([]byte, 4096), 0644))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	size, err := blkGetSize64(int(f.Fd()))
	assert.ErrorIs(t, err, unix.ENOTTY)
	assert.Zero(t, size)
}

func TestBlockDeviceSize_FallsBackToSeek(t *testing.T) {
	withSysBlockDir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "loop.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 2*mebibyte+5), 0644))

	size, err := blockDeviceSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2*mebibyte+5), size)
}
