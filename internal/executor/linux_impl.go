//go:build linux

package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// WallpaperCommand is a desktop specific recipe for a spanned wallpaper.
// Each step runs Binary with %s replaced by the image path.
type WallpaperCommand struct {
	Name    string
	Desktop string // substring of XDG_CURRENT_DESKTOP that selects this command
	Binary  string
	Steps   [][]string
	Query   []string // prints the current wallpaper; empty when unsupported
}

// Ordered list of wallpaper commands to try (highest priority first).
// Only setters that can stretch one image across every output are listed.
var wallpaperCommands = []WallpaperCommand{
	{
		Name:    "gnome",
		Desktop: "gnome",
		Binary:  "gsettings",
		Steps: [][]string{
			{"set", "org.gnome.desktop.background", "picture-options", "spanned"},
			{"set", "org.gnome.desktop.background", "picture-uri", "file://%s"},
			{"set", "org.gnome.desktop.background", "picture-uri-dark", "file://%s"},
		},
		Query: []string{"get", "org.gnome.desktop.background", "picture-uri"},
	},
	{
		Name:    "cinnamon",
		Desktop: "cinnamon",
		Binary:  "gsettings",
		Steps: [][]string{
			{"set", "org.cinnamon.desktop.background", "picture-options", "spanned"},
			{"set", "org.cinnamon.desktop.background", "picture-uri", "file://%s"},
		},
		Query: []string{"get", "org.cinnamon.desktop.background", "picture-uri"},
	},
	{
		Name:    "mate",
		Desktop: "mate",
		Binary:  "gsettings",
		Steps: [][]string{
			{"set", "org.mate.background", "picture-options", "spanned"},
			{"set", "org.mate.background", "picture-filename", "%s"},
		},
		Query: []string{"get", "org.mate.background", "picture-filename"},
	},
	{
		// Generic X11; --no-xinerama treats the whole virtual screen as one
		Name:   "feh",
		Binary: "feh",
		Steps:  [][]string{{"--no-xinerama", "--bg-fill", "%s"}},
	},
}

var errNoCommand = errors.New("no supported spanned wallpaper command found on this system")

// LinuxExecutor handles wallpaper setting on Linux systems.
// The desktop is probed on first use, so constructing one never fails.
type LinuxExecutor struct {
	logger   *zap.Logger
	lookPath func(string) (string, error)
	getenv   func(string) string
	run      func(ctx context.Context, name string, args ...string) ([]byte, error)

	once    sync.Once
	command WallpaperCommand
	found   bool
}

// NewExecutor creates a new platform-specific wallpaper executor (Linux implementation)
func NewExecutor(logger *zap.Logger) *LinuxExecutor {
	return &LinuxExecutor{
		logger:   logger,
		lookPath: exec.LookPath,
		getenv:   os.Getenv,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

func (e *LinuxExecutor) detect() (WallpaperCommand, bool) {
	e.once.Do(func() {
		e.command, e.found = detectCommand(e.logger, e.getenv("XDG_CURRENT_DESKTOP"), e.lookPath)
		if e.found {
			e.logger.Debug("Wallpaper setter detected",
				zap.String("name", e.command.Name),
				zap.String("binary", e.command.Binary))
		}
	})
	return e.command, e.found
}

// detectCommand picks the setter matching the running desktop, then falls
// back to any generic setter present in PATH.
func detectCommand(logger *zap.Logger, desktop string, lookPath func(string) (string, error)) (WallpaperCommand, bool) {
	desktop = strings.ToLower(desktop)
	logger.Debug("Detecting wallpaper command", zap.String("desktop", desktop))

	exists := func(binary string) bool {
		_, err := lookPath(binary)
		return err == nil
	}

	for _, cmd := range wallpaperCommands {
		if cmd.Desktop != "" && strings.Contains(desktop, cmd.Desktop) && exists(cmd.Binary) {
			return cmd, true
		}
	}

	for _, cmd := range wallpaperCommands {
		if cmd.Desktop == "" && exists(cmd.Binary) {
			logger.Debug("Using fallback wallpaper command", zap.String("name", cmd.Name))
			return cmd, true
		}
	}

	return WallpaperCommand{}, false
}

// SetWallpaper sets the spanned desktop wallpaper to the specified image
func (e *LinuxExecutor) SetWallpaper(ctx context.Context, imagePath string) error {
	cmd, ok := e.detect()
	if !ok {
		return errNoCommand
	}

	path := absolute(imagePath)
	for _, step := range cmd.Steps {
		args := expandArgs(step, path)
		e.logger.Debug("Setting wallpaper",
			zap.String("command", cmd.Binary),
			zap.Strings("args", args))

		output, err := e.run(ctx, cmd.Binary, args...)
		if err != nil {
			return fmt.Errorf("failed to set wallpaper with %s: %w (output: %s)",
				cmd.Name, err, strings.TrimSpace(string(output)))
		}
	}

	e.logger.Info("Wallpaper set successfully",
		zap.String("command", cmd.Name),
		zap.String("path", path))
	return nil
}

// GetCurrentWallpaper retrieves the path to the currently set wallpaper
func (e *LinuxExecutor) GetCurrentWallpaper(ctx context.Context) (string, error) {
	cmd, ok := e.detect()
	if !ok {
		return "", errNoCommand
	}
	if len(cmd.Query) == 0 {
		return "", fmt.Errorf("wallpaper query not supported by %s", cmd.Name)
	}

	output, err := e.run(ctx, cmd.Binary, cmd.Query...)
	if err != nil {
		return "", fmt.Errorf("failed to query wallpaper with %s: %w", cmd.Name, err)
	}
	return parseSetting(string(output)), nil
}
