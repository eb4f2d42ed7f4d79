package monitor

import (
	"image"
	"strings"

	"github.com/genricoloni/spanwall/internal/geometry"
)

// gdiMonitor is a monitor as GDI enumerates it, keyed by its device name
// such as \\.\DISPLAY1
type gdiMonitor struct {
	Device string
	Bounds image.Rectangle
}

// displaysFromGDI keeps the GDI enumeration order and names each monitor
// after the friendly name reported for its source device. Monitors without
// one get a positional placeholder.
func displaysFromGDI(monitors []gdiMonitor, friendly map[string]string) []geometry.Display {
	displays := make([]geometry.Display, 0, len(monitors))
	for _, m := range monitors {
		if m.Bounds.Empty() {
			continue
		}
		name := strings.TrimSpace(friendly[m.Device])
		if name == "" {
			name = placeholderName(len(displays))
		}
		displays = append(displays, geometry.Display{
			Name:   name,
			Bounds: geometry.FromImageRect(m.Bounds),
		})
	}
	return displays
}
