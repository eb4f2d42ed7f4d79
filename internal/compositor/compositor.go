package compositor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"runtime"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/spanwall/internal/domain"
	"github.com/genricoloni/spanwall/internal/geometry"
	"github.com/genricoloni/spanwall/internal/resize"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// Result is the composed canvas plus every slot that could not be painted
type Result struct {
	Canvas   *image.NRGBA
	Failures []*SlotError
}

// Err combines all slot failures, or returns nil when every slot succeeded
func (r *Result) Err() error {
	var err error
	for _, f := range r.Failures {
		err = multierr.Append(err, f)
	}
	return err
}

// tile is an image slot that has been decoded, resized and positioned
type tile struct {
	img    *image.NRGBA
	offset image.Point
	err    *SlotError
}

// Compositor paints one source per display onto a shared canvas
type Compositor struct {
	logger  *zap.Logger
	loader  domain.ImageLoader
	resizer *resize.Resizer
	mode    resize.Mode
	workers int
}

// NewCompositor creates a compositor using the configured resize policy
func NewCompositor(logger *zap.Logger, loader domain.ImageLoader, cfg domain.Config) (*Compositor, error) {
	resizer, err := resize.NewResizer(cfg.GetFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to create resizer: %w", err)
	}

	workers := cfg.GetWorkers()
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Compositor{
		logger:  logger,
		loader:  loader,
		resizer: resizer,
		mode:    cfg.GetMode(),
		workers: workers,
	}, nil
}

// Compose builds a canvas the size of the layout's union bounds and paints
// sources[i] onto layout.Displays[i]. The canvas starts opaque black.
//
// Image slots are decoded and resized concurrently, but painting happens in
// display order so that, where displays overlap, the later index wins exactly
// as in a sequential run. A failing slot is recorded in the result and left
// unpainted; it never aborts the remaining slots.
func (c *Compositor) Compose(ctx context.Context, layout geometry.Configuration, sources []domain.Source) (*Result, error) {
	if len(layout.Displays) == 0 {
		return nil, domain.ErrNoDisplays
	}
	if len(sources) != len(layout.Displays) {
		return nil, fmt.Errorf("%w: %d displays, %d sources",
			domain.ErrArgumentCountMismatch, len(layout.Displays), len(sources))
	}

	layout = layout.Normalized()
	width, height := layout.Bounds.Resolution()
	canvas := imaging.New(width, height, color.Black)

	c.logger.Debug("Canvas allocated",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.String("mode", c.mode.String()))

	tiles := c.prepare(ctx, layout, sources)
	result := &Result{Canvas: canvas}

	for i, src := range sources {
		display := layout.Displays[i]

		switch s := src.(type) {
		case domain.SkipSource:
			c.logger.Debug("Skipping display", zap.Int("slot", i), zap.String("display", display.Name))

		case domain.ColorSource:
			draw.Draw(canvas, display.Bounds.ImageRect(), image.NewUniform(s.Color), image.Point{}, draw.Src)
			c.logger.Debug("Filled display with color",
				zap.Int("slot", i),
				zap.String("display", display.Name),
				zap.String("color", s.Describe()))

		case domain.ImageSource:
			if tiles[i].err != nil {
				result.Failures = append(result.Failures, tiles[i].err)
				continue
			}
			if err := c.paint(canvas, tiles[i]); err != nil {
				result.Failures = append(result.Failures, c.fail(i, display, s, StageCopy, err))
				continue
			}
			c.logger.Debug("Painted image",
				zap.Int("slot", i),
				zap.String("display", display.Name),
				zap.String("source", s.Describe()),
				zap.Stringer("offset", tiles[i].offset))

		default:
			return nil, fmt.Errorf("unsupported source type %T in slot %d", src, i)
		}
	}

	return result, nil
}

// prepare decodes and resizes every image slot using a bounded worker pool.
// Each worker only writes its own index of the returned slice.
func (c *Compositor) prepare(ctx context.Context, layout geometry.Configuration, sources []domain.Source) []tile {
	tiles := make([]tile, len(sources))
	p := pool.New().WithMaxGoroutines(c.workers)

	for i, src := range sources {
		img, ok := src.(domain.ImageSource)
		if !ok {
			continue
		}
		display := layout.Displays[i]
		p.Go(func() {
			tiles[i] = c.prepareImage(ctx, i, display, img)
		})
	}

	p.Wait()
	return tiles
}

func (c *Compositor) prepareImage(ctx context.Context, slot int, display geometry.Display, src domain.ImageSource) tile {
	decoded, err := c.loader.Load(ctx, src.Ref)
	if err != nil {
		return tile{err: c.fail(slot, display, src, StageDecode, err)}
	}

	dw, dh := display.Bounds.Resolution()
	plan, err := resize.PlanFor(c.mode, decoded.Bounds().Size(), image.Pt(dw, dh))
	if err != nil {
		return tile{err: c.fail(slot, display, src, StageResize, err)}
	}

	resized, err := c.resizer.Apply(decoded, plan)
	if err != nil {
		return tile{err: c.fail(slot, display, src, StageResize, err)}
	}

	offset := display.Bounds.Min()
	if plan.Width < dw {
		offset.X += (dw - plan.Width) / 2
	}
	if plan.Height < dh {
		offset.Y += (dh - plan.Height) / 2
	}

	c.logger.Debug("Prepared image",
		zap.Int("slot", slot),
		zap.String("source", src.Describe()),
		zap.Int("sourceWidth", decoded.Bounds().Dx()),
		zap.Int("sourceHeight", decoded.Bounds().Dy()),
		zap.Int("width", plan.Width),
		zap.Int("height", plan.Height))

	// Transparent pixels show the black background, never a hole in the canvas
	flat := imaging.Overlay(imaging.New(resized.Bounds().Dx(), resized.Bounds().Dy(), color.Black), resized, image.Point{}, 1.0)

	return tile{img: flat, offset: offset}
}

// paint copies a prepared tile onto the canvas. A tile that would not fit
// entirely on the canvas is rejected without touching any pixel.
func (c *Compositor) paint(canvas *image.NRGBA, t tile) error {
	if t.img == nil {
		return fmt.Errorf("no prepared image")
	}
	dst := image.Rectangle{Min: t.offset, Max: t.offset.Add(t.img.Bounds().Size())}
	if !dst.In(canvas.Bounds()) {
		return fmt.Errorf("image region %v is outside of canvas %v", dst, canvas.Bounds())
	}
	draw.Draw(canvas, dst, t.img, t.img.Bounds().Min, draw.Src)
	return nil
}

func (c *Compositor) fail(slot int, display geometry.Display, src domain.ImageSource, stage Stage, err error) *SlotError {
	slotErr := &SlotError{
		Index:   slot,
		Display: display.Name,
		Source:  src.Describe(),
		Stage:   stage,
		Err:     err,
	}
	c.logger.Debug("Slot left unpainted",
		zap.Int("slot", slot),
		zap.String("display", display.Name),
		zap.String("source", src.Describe()),
		zap.String("stage", string(stage)),
		zap.Error(err))
	return slotErr
}
