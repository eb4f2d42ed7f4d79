package monitor

import (
	"strings"

	"github.com/genricoloni/spanwall/internal/geometry"
)

// crtc is the part of a RandR CRTC reply the layout needs
type crtc struct {
	X, Y          int
	Width, Height int
	Outputs       int
	OutputName    string
}

// displaysFromCrtcs drops disabled CRTCs and names the rest after their
// first output, falling back to a positional placeholder.
func displaysFromCrtcs(crtcs []crtc) []geometry.Display {
	var displays []geometry.Display
	for _, c := range crtcs {
		if c.Width == 0 || c.Height == 0 || c.Outputs == 0 {
			continue
		}
		name := strings.TrimSpace(c.OutputName)
		if name == "" {
			name = placeholderName(len(displays))
		}
		displays = append(displays, geometry.Display{
			Name:   name,
			Bounds: geometry.Rect(c.X, c.Y, c.Width, c.Height),
		})
	}
	return displays
}
