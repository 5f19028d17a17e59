package device

import "go.uber.org/zap"

// Default returns the enumerator for the running platform.
func Default(logger *zap.Logger) Enumerator {
	return NewByIDEnumerator(DefaultByIDDir, logger)
}
