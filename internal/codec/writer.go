package codec

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/spanwall/internal/domain"
	"go.uber.org/zap"
)

const defaultExtension = ".jpg"

// supportedExtensions lists the output formats the writer can encode
var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".tif":  {},
	".tiff": {},
	".bmp":  {},
}

// ResolveOutputPath appends the default extension when name does not carry a
// supported one. Matching is case-insensitive.
func ResolveOutputPath(name string) string {
	if _, ok := supportedExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return name
	}
	return name + defaultExtension
}

// ExpandPath expands environment variables and a leading ~ in a user supplied
// output name
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}

// FileWriter encodes a canvas to disk, picking the format from the file extension
type FileWriter struct {
	logger  *zap.Logger
	quality int
}

// NewFileWriter creates a new file writer
func NewFileWriter(logger *zap.Logger, cfg domain.Config) *FileWriter {
	return &FileWriter{
		logger:  logger,
		quality: cfg.GetQuality(),
	}
}

// Write encodes img to path. The image is first written to a temporary file in
// the same directory and renamed into place, so a failed run never leaves a
// truncated wallpaper behind.
func (w *FileWriter) Write(ctx context.Context, path string, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("unsupported output format %q: %w", filepath.Ext(path), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".spanwall-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if err := imaging.Encode(tmp, img, format, imaging.JPEGQuality(w.quality)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush result: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write wallpaper file: %w", err)
	}

	b := img.Bounds()
	w.logger.Info("Wallpaper written",
		zap.String("path", path),
		zap.String("format", strings.ToLower(filepath.Ext(path))),
		zap.Int("w", b.Dx()),
		zap.Int("h", b.Dy()))
	return nil
}
