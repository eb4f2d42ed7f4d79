//go:build !linux && !windows

package monitor

import "go.uber.org/zap"

// NewEnumerator uses the screen capture library, which covers macOS and the BSDs
func NewEnumerator(logger *zap.Logger) *Enumerator {
	return newEnumerator(logger, screenshotBackend{})
}
