//go:build windows

package executor

import (
	"context"
	"fmt"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	spiGetDeskWallpaper = 0x0073
	spiSetDeskWallpaper = 0x0014
	spifUpdateINIFile   = 0x01
	spifSendChange      = 0x02
	maxWallpaperPath    = 260

	desktopKey = `Control Panel\Desktop`
	// WallpaperStyle 22 together with TileWallpaper 0 spans one image across all monitors
	styleSpan = "22"
)

var (
	user32                    = windows.NewLazySystemDLL("user32.dll")
	procSystemParametersInfoW = user32.NewProc("SystemParametersInfoW")
)

// WindowsExecutor handles wallpaper setting on Windows systems
type WindowsExecutor struct {
	logger *zap.Logger
}

// NewExecutor creates a new platform-specific wallpaper executor (Windows implementation)
func NewExecutor(logger *zap.Logger) *WindowsExecutor {
	return &WindowsExecutor{logger: logger}
}

// SetWallpaper switches the desktop to span mode and sets imagePath as its wallpaper
func (e *WindowsExecutor) SetWallpaper(ctx context.Context, imagePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k, err := registry.OpenKey(registry.CURRENT_USER, desktopKey, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("failed to open desktop settings: %w", err)
	}
	defer k.Close()

	if err := k.SetStringValue("WallpaperStyle", styleSpan); err != nil {
		return fmt.Errorf("failed to set wallpaper style: %w", err)
	}
	if err := k.SetStringValue("TileWallpaper", "0"); err != nil {
		return fmt.Errorf("failed to disable tiling: %w", err)
	}

	path, err := windows.UTF16PtrFromString(absolute(imagePath))
	if err != nil {
		return err
	}
	ret, _, sysErr := procSystemParametersInfoW.Call(
		spiSetDeskWallpaper,
		0,
		uintptr(unsafe.Pointer(path)),
		spifUpdateINIFile|spifSendChange,
	)
	if ret == 0 {
		return fmt.Errorf("SystemParametersInfoW failed: %w", sysErr)
	}

	e.logger.Info("Wallpaper set successfully", zap.String("path", imagePath))
	return nil
}

// GetCurrentWallpaper asks the shell for the active wallpaper path
func (e *WindowsExecutor) GetCurrentWallpaper(ctx context.Context) (string, error) {
	buf := make([]uint16, maxWallpaperPath)
	ret, _, err := procSystemParametersInfoW.Call(
		spiGetDeskWallpaper,
		uintptr(maxWallpaperPath),
		uintptr(unsafe.Pointer(&buf[0])),
		0,
	)
	if ret == 0 {
		return "", fmt.Errorf("SystemParametersInfoW failed: %w", err)
	}
	return windows.UTF16ToString(buf), nil
}
