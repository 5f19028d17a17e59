//go:build !linux && !darwin

package device

import "go.uber.org/zap"

// Default returns the enumerator for the running platform.
func Default(*zap.Logger) Enumerator {
	return unsupported{}
}
