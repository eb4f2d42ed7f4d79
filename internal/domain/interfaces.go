package domain

import (
	"context"
	"image"
	"time"

	"github.com/genricoloni/spanwall/internal/geometry"
	"github.com/genricoloni/spanwall/internal/resize"
)

//go:generate mockgen -destination=mocks/domain_mock.go -package=mocks github.com/genricoloni/spanwall/internal/domain DisplayEnumerator,ImageLoader,ImageWriter,Fetcher,Executor,Prompter

// DisplayEnumerator lists the physical displays of the virtual desktop.
// Implementations are platform specific; the returned order is authoritative
// and is matched positionally against wallpaper sources.
type DisplayEnumerator interface {
	Enumerate(ctx context.Context) ([]geometry.Display, error)
}

// ImageLoader decodes a referenced image into pixels
type ImageLoader interface {
	// Load reads and decodes the image behind ref
	Load(ctx context.Context, ref ImageRef) (image.Image, error)
}

// ImageWriter encodes the final canvas and persists it.
// Implementations must not leave a partial file behind on failure.
type ImageWriter interface {
	Write(ctx context.Context, path string, img image.Image) error
}

// Fetcher defines the interface for retrieving remote images
type Fetcher interface {
	// Fetch downloads image data from a URL
	// Returns the raw image bytes or an error
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Executor defines the interface for applying a wallpaper to the desktop
type Executor interface {
	// SetWallpaper sets the spanned desktop wallpaper to the specified image path
	SetWallpaper(ctx context.Context, imagePath string) error

	// GetCurrentWallpaper retrieves the path to the currently set wallpaper
	// Returns an error if the operation is not supported or fails
	GetCurrentWallpaper(ctx context.Context) (string, error)
}

// Prompter asks the user questions on the terminal
type Prompter interface {
	// Confirm asks a yes/no question
	Confirm(message string) (bool, error)

	// Ask requests a non-empty line of text
	Ask(message string) (string, error)
}

// Config defines the interface for application configuration
type Config interface {
	// GetMode returns the resize policy applied to image sources
	GetMode() resize.Mode

	// GetOutputPath returns the destination file, already suffixed with an extension
	GetOutputPath() string

	// GetFilter returns the resampling filter name
	GetFilter() string

	// GetQuality returns the JPEG quality (1-100)
	GetQuality() int

	// GetWorkers returns how many slots may be prepared concurrently
	GetWorkers() int

	// ShouldOverwrite reports whether an existing output may be replaced without asking
	ShouldOverwrite() bool

	// ShouldApply reports whether the result is set as the desktop wallpaper
	ShouldApply() bool

	// GetFetchTimeout bounds a single remote image download
	GetFetchTimeout() time.Duration

	// GetMaxFetchBytes caps the size of a remote image
	GetMaxFetchBytes() int64
}
