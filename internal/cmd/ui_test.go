package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fcjr/acetylene/internal/device"
)

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KB", FormatBytes(1024))
	assert.Equal(t, "4.0 MB", FormatBytes(4*1024*1024))
	assert.Equal(t, "29.7 GB", FormatBytes(31914983424))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "12.5s", FormatDuration(12500*time.Millisecond))
	assert.Equal(t, "3m7s", FormatDuration(3*time.Minute+7*time.Second))
}

func TestDeviceLabel(t *testing.T) {
	d := device.Device{Name: "SanDisk", Path: "/dev/sdb", MBytes: 1024}
	assert.Equal(t, "SanDisk  /dev/sdb  1.0 GB", deviceLabel(d))
}
