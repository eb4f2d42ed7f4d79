package codec

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/spanwall/internal/domain"
	"go.uber.org/zap"

	_ "golang.org/x/image/webp" // WebP decoding support
)

// Loader decodes local files and remote images into pixels
type Loader struct {
	logger  *zap.Logger
	fetcher domain.Fetcher
}

// NewLoader creates a new image loader. Remote references are resolved via fetcher.
func NewLoader(logger *zap.Logger, fetcher domain.Fetcher) *Loader {
	return &Loader{
		logger:  logger,
		fetcher: fetcher,
	}
}

// Load reads and decodes the image behind ref
func (l *Loader) Load(ctx context.Context, ref domain.ImageRef) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		img image.Image
		err error
	)
	if ref.Remote {
		img, err = l.loadRemote(ctx, ref.Location)
	} else {
		img, err = l.loadFile(ref.Location)
	}
	if err != nil {
		return nil, err
	}

	// Validate image dimensions before any geometry is derived from them
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	l.logger.Debug("Image decoded",
		zap.String("source", ref.Name),
		zap.Int("w", bounds.Dx()),
		zap.Int("h", bounds.Dy()))
	return img, nil
}

func (l *Loader) loadFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return decode(f)
}

func (l *Loader) loadRemote(ctx context.Context, url string) (image.Image, error) {
	if l.fetcher == nil {
		return nil, fmt.Errorf("no fetcher configured for %s", url)
	}
	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	return decode(bytes.NewReader(data))
}

func decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
