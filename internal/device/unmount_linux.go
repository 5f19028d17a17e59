package device

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

const mountTable = "/proc/self/mounts"

// Unmount releases every mounted partition of the disk at path.
func Unmount(ctx context.Context, path string) error {
	f, err := os.Open(mountTable)
	if err != nil {
		return fmt.Errorf("failed to read mount table: %w", err)
	}
	points := mountedPartitions(f, path)
	f.Close()

	for _, point := range points {
		output, err := exec.CommandContext(ctx, "umount", point).CombinedOutput()
		if err == nil {
			continue
		}
		output2, err2 := exec.CommandContext(ctx, "umount", "-f", point).CombinedOutput()
		if err2 != nil {
			return fmt.Errorf("failed to unmount %s: %w\nOutput: %s\nForce unmount output: %s", point, err, output, output2)
		}
	}
	return nil
}
