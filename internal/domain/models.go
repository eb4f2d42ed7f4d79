package domain

import (
	"fmt"
	"image/color"
)

// Source is what a single display slot is painted with.
// It is a closed set: ImageSource, ColorSource or SkipSource.
type Source interface {
	// Describe returns a short human readable label for logs
	Describe() string
	isSource()
}

// ImageRef identifies an image that has not been decoded yet
type ImageRef struct {
	// Name is the token the user supplied, used in diagnostics
	Name string
	// Location is a filesystem path or an http(s) URL
	Location string
	// Remote is true when Location must be fetched over HTTP
	Remote bool
}

// ImageSource paints the slot with a resized image
type ImageSource struct {
	Ref ImageRef
}

// ColorSource fills the slot with a solid color
type ColorSource struct {
	Color color.NRGBA
}

// SkipSource leaves the slot unpainted (canvas background shows through)
type SkipSource struct{}

func (s ImageSource) Describe() string { return s.Ref.Name }

func (s ColorSource) Describe() string {
	return fmt.Sprintf("#%02X%02X%02X", s.Color.R, s.Color.G, s.Color.B)
}

func (SkipSource) Describe() string { return "skip" }

func (ImageSource) isSource() {}
func (ColorSource) isSource() {}
func (SkipSource) isSource()  {}
