package monitor

import (
	"image"

	"github.com/genricoloni/spanwall/internal/geometry"
	"github.com/kbinani/screenshot"
)

// screenshotBackend asks the screen capture library for display bounds.
// It is available on every platform but cannot resolve output names.
type screenshotBackend struct{}

func (screenshotBackend) Name() string { return "screenshot" }

func (screenshotBackend) Displays() ([]geometry.Display, error) {
	n := screenshot.NumActiveDisplays()
	bounds := make([]image.Rectangle, 0, n)
	for i := range n {
		bounds = append(bounds, screenshot.GetDisplayBounds(i))
	}
	return displaysFromBounds(bounds), nil
}

func displaysFromBounds(bounds []image.Rectangle) []geometry.Display {
	displays := make([]geometry.Display, 0, len(bounds))
	for i, b := range bounds {
		displays = append(displays, geometry.Display{
			Name:   placeholderName(i),
			Bounds: geometry.FromImageRect(b),
		})
	}
	return displays
}
