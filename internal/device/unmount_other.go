//go:build !linux && !darwin

package device

import "context"

// Unmount is a no-op where no unmount mechanism is known.
func Unmount(context.Context, string) error {
	return nil
}
