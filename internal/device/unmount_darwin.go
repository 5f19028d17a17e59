package device

import (
	"context"
	"fmt"
	"os/exec"
)

// Unmount releases every mounted volume of the disk at path.
func Unmount(ctx context.Context, path string) error {
	output, err := exec.CommandContext(ctx, "diskutil", "unmountDisk", "force", path).CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to unmount disk: %w\nOutput: %s", err, output)
	}
	return nil
}
