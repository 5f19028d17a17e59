package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMountedPartitions(t *testing.T) {
	table := strings.Join([]string{
		"/dev/sda2 / ext4 rw,relatime 0 0",
		"/dev/sdb1 /media/pi/boot vfat rw 0 0",
		"/dev/sdb2 /media/pi/root\\040fs ext4 rw 0 0",
		"/dev/sdbb1 /media/other vfat rw 0 0",
		"/dev/mmcblk0p1 /boot vfat rw 0 0",
		"proc /proc proc rw 0 0",
	}, "\n")

	assert.Equal(t, []string{"/media/pi/boot", "/media/pi/root fs"}, mountedPartitions(strings.NewReader(table), "/dev/sdb"))
	assert.Equal(t, []string{"/boot"}, mountedPartitions(strings.NewReader(table), "/dev/mmcblk0"))
	assert.Empty(t, mountedPartitions(strings.NewReader(table), "/dev/sdc"))
}

func TestIsPartitionOf(t *testing.T) {
	assert.True(t, isPartitionOf("/dev/sdb", "/dev/sdb"))
	assert.True(t, isPartitionOf("/dev/sdb3", "/dev/sdb"))
	assert.True(t, isPartitionOf("/dev/mmcblk0p1", "/dev/mmcblk0"))
	assert.False(t, isPartitionOf("/dev/sdbc", "/dev/sdb"))
	assert.False(t, isPartitionOf("/dev/mmcblk0p", "/dev/mmcblk0"))
	assert.False(t, isPartitionOf("/dev/sda1", "/dev/sdb"))
}
