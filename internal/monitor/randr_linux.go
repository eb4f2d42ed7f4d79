//go:build linux

package monitor

import (
	"fmt"
	"io"

	"github.com/genricoloni/spanwall/internal/geometry"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
	"go.uber.org/zap"
)

// NewEnumerator prefers XRandR, which knows output names, and falls back to
// the screen capture library when no X server is reachable.
func NewEnumerator(logger *zap.Logger) *Enumerator {
	return newEnumerator(logger, randrBackend{}, screenshotBackend{})
}

type randrBackend struct{}

func (randrBackend) Name() string { return "xrandr" }

func (randrBackend) Displays() ([]geometry.Display, error) {
	// Stop polluting stderr
	xgb.Logger.SetOutput(io.Discard)

	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	defer conn.Close()

	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	root := xproto.Setup(conn).DefaultScreen(conn).Root
	resources, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	crtcs := make([]crtc, 0, len(resources.Crtcs))
	for _, id := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, id, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		c := crtc{
			X:       int(info.X),
			Y:       int(info.Y),
			Width:   int(info.Width),
			Height:  int(info.Height),
			Outputs: len(info.Outputs),
		}
		if len(info.Outputs) > 0 {
			out, err := randr.GetOutputInfo(conn, info.Outputs[0], resources.ConfigTimestamp).Reply()
			if err == nil {
				c.OutputName = string(out.Name)
			}
		}
		crtcs = append(crtcs, c)
	}

	return displaysFromCrtcs(crtcs), nil
}
