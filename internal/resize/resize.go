package resize

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// Mode selects how a source image is mapped onto a display region
type Mode int

const (
	// Stretch fills the region exactly, ignoring aspect ratio
	Stretch Mode = iota
	// Fill covers the region keeping aspect ratio, cropping around the center
	Fill
	// Fit shows the whole image keeping aspect ratio, letterboxing the rest
	Fit
)

// Crop describes whether the source is cropped before scaling
type Crop int

const (
	CropNone Crop = iota
	CropCenter
)

// fitEpsilon is the single-precision machine epsilon (2^-23).
const fitEpsilon = float32(1.0 / (1 << 23))

// ErrZeroSize is returned when either the source or the destination has no area.
var ErrZeroSize = errors.New("zero-size dimensions")

var modeNames = map[Mode]string{
	Stretch: "stretch",
	Fill:    "fill",
	Fit:     "fit",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a case-insensitive mode name
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return Stretch, fmt.Errorf("unknown resize mode %q (expected stretch, fill or fit)", s)
}

// Plan is the outcome of a policy decision: the size to scale the source to
// and whether to crop it first.
type Plan struct {
	Width  int
	Height int
	Crop   Crop
}

// Size returns the planned dimensions as a point
func (p Plan) Size() image.Point {
	return image.Pt(p.Width, p.Height)
}

// PlanFor computes destination dimensions for a source of size src placed
// into a region of size dst.
func PlanFor(mode Mode, src, dst image.Point) (Plan, error) {
	if src.X <= 0 || src.Y <= 0 {
		return Plan{}, fmt.Errorf("source %dx%d: %w", src.X, src.Y, ErrZeroSize)
	}
	if dst.X <= 0 || dst.Y <= 0 {
		return Plan{}, fmt.Errorf("destination %dx%d: %w", dst.X, dst.Y, ErrZeroSize)
	}

	switch mode {
	case Stretch:
		return Plan{Width: dst.X, Height: dst.Y, Crop: CropNone}, nil
	case Fill:
		return Plan{Width: dst.X, Height: dst.Y, Crop: CropCenter}, nil
	case Fit:
		w, h := fitSize(src, dst)
		if w <= 0 || h <= 0 {
			return Plan{}, fmt.Errorf("fit of %dx%d into %dx%d rounds to %dx%d: %w",
				src.X, src.Y, dst.X, dst.Y, w, h, ErrZeroSize)
		}
		return Plan{Width: w, Height: h, Crop: CropNone}, nil
	default:
		return Plan{}, fmt.Errorf("unsupported resize mode %v", mode)
	}
}

// fitSize computes in single precision. Ratios within fitEpsilon of each
// other take the height-bound branch; only a strictly larger width ratio
// makes width the binding edge.
func fitSize(src, dst image.Point) (int, int) {
	widthRatio := float32(src.X) / float32(dst.X)
	heightRatio := float32(src.Y) / float32(dst.Y)

	if widthRatio-heightRatio > fitEpsilon {
		return dst.X, roundToInt(float32(src.Y) / widthRatio)
	}
	return roundToInt(float32(src.X) / heightRatio), dst.Y
}

func roundToInt(v float32) int {
	return int(math.Round(float64(v)))
}

// Resizer applies plans to decoded images
type Resizer struct {
	filter imaging.ResampleFilter
}

// NewResizer creates a resizer using the named resampling filter
func NewResizer(filterName string) (*Resizer, error) {
	filter, err := ParseFilter(filterName)
	if err != nil {
		return nil, err
	}
	return &Resizer{filter: filter}, nil
}

// Apply scales img according to plan. The returned image always has bounds
// starting at the origin.
func (r *Resizer) Apply(img image.Image, plan Plan) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("source %dx%d: %w", b.Dx(), b.Dy(), ErrZeroSize)
	}
	if plan.Width <= 0 || plan.Height <= 0 {
		return nil, fmt.Errorf("destination %dx%d: %w", plan.Width, plan.Height, ErrZeroSize)
	}

	var out *image.NRGBA
	switch plan.Crop {
	case CropCenter:
		out = imaging.Fill(img, plan.Width, plan.Height, imaging.Center, r.filter)
	case CropNone:
		out = imaging.Resize(img, plan.Width, plan.Height, r.filter)
	default:
		return nil, fmt.Errorf("unsupported crop mode %d", plan.Crop)
	}

	if got := out.Bounds().Size(); got != plan.Size() {
		return nil, fmt.Errorf("resized to %dx%d, expected %dx%d", got.X, got.Y, plan.Width, plan.Height)
	}
	return out, nil
}

var filters = map[string]imaging.ResampleFilter{
	"lanczos":    imaging.Lanczos,
	"catmullrom": imaging.CatmullRom,
	"linear":     imaging.Linear,
	"box":        imaging.Box,
	"nearest":    imaging.NearestNeighbor,
}

// ParseFilter resolves a resampling filter by name. Empty selects Lanczos.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return imaging.Lanczos, nil
	}
	f, ok := filters[name]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("unknown resample filter %q", name)
	}
	return f, nil
}
