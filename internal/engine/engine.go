package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize/english"
	"github.com/genricoloni/spanwall/internal/codec"
	"github.com/genricoloni/spanwall/internal/compositor"
	"github.com/genricoloni/spanwall/internal/domain"
	"github.com/genricoloni/spanwall/internal/geometry"
	"github.com/genricoloni/spanwall/internal/source"
	"go.uber.org/zap"
)

// Composer paints one canvas from a layout and its positional sources
type Composer interface {
	Compose(ctx context.Context, layout geometry.Configuration, sources []domain.Source) (*compositor.Result, error)
}

// Request is a single invocation of the tool
type Request struct {
	// Tokens are the positional source arguments, one per display
	Tokens []string
	// ShowDisplays prints the detected layout
	ShowDisplays bool
}

// Engine orchestrates one spanned wallpaper run.
// It parses sources, reads the display layout, composes the canvas, writes it
// to disk and optionally applies it to the desktop.
type Engine struct {
	logger   *zap.Logger
	cfg      domain.Config
	displays domain.DisplayEnumerator
	composer Composer
	writer   domain.ImageWriter
	executor domain.Executor
	prompter domain.Prompter
	out      io.Writer
	exists   func(path string) bool
}

// NewEngine creates a new orchestration engine
func NewEngine(
	logger *zap.Logger,
	cfg domain.Config,
	displays domain.DisplayEnumerator,
	composer Composer,
	writer domain.ImageWriter,
	exec domain.Executor,
	prompter domain.Prompter,
) *Engine {
	return &Engine{
		logger:   logger,
		cfg:      cfg,
		displays: displays,
		composer: composer,
		writer:   writer,
		executor: exec,
		prompter: prompter,
		out:      os.Stdout,
		exists:   fileExists,
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Run executes the pipeline for req. Per-display failures are reported but do
// not fail the run; everything that prevents a wallpaper from being written does.
func (e *Engine) Run(ctx context.Context, req Request) error {
	sources, err := source.ParseAll(req.Tokens)
	if err != nil {
		return err
	}

	displays, err := e.displays.Enumerate(ctx)
	if err != nil {
		return &domain.ConfigurationError{Err: err}
	}
	if len(displays) == 0 {
		return domain.ErrNoDisplays
	}

	if req.ShowDisplays {
		e.printDisplays(displays)
	}
	if len(sources) == 0 {
		return nil
	}

	if len(sources) != len(displays) {
		fmt.Fprintf(e.out, "! Detected %s but you provided %s, please check the arguments and try again.\n",
			english.Plural(len(displays), "display", ""),
			english.Plural(len(sources), "image", ""))
		if !req.ShowDisplays {
			e.printDisplays(displays)
		}
		return fmt.Errorf("%w: %d displays, %d sources",
			domain.ErrArgumentCountMismatch, len(displays), len(sources))
	}

	output, err := e.resolveOutput()
	if err != nil {
		return err
	}

	layout := geometry.NewConfiguration(displays)
	layout.Normalize()
	width, height := layout.Bounds.Resolution()
	e.logger.Info("Composing spanned wallpaper",
		zap.Int("displays", len(displays)),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Stringer("mode", e.cfg.GetMode()))

	result, err := e.composer.Compose(ctx, layout, sources)
	if err != nil {
		return err
	}
	for _, f := range result.Failures {
		fmt.Fprintf(e.out, "! %v\n", f)
	}
	if n := len(result.Failures); n > 0 {
		e.logger.Warn("Some displays were left unpainted", zap.Int("failed", n))
	}

	if err := e.writer.Write(ctx, output, result.Canvas); err != nil {
		return fmt.Errorf("unable to save wallpaper: %w", err)
	}

	if e.cfg.ShouldApply() {
		if err := e.apply(ctx, output); err != nil {
			return fmt.Errorf("wallpaper saved to %s but could not be applied: %w", output, err)
		}
	}

	fmt.Fprintln(e.out, "Done!")
	return nil
}

// resolveOutput asks before replacing an existing file unless overwriting is
// forced. Declining asks for another name, and the loop repeats until the
// name is free or the user agrees to overwrite.
func (e *Engine) resolveOutput() (string, error) {
	output := e.cfg.GetOutputPath()
	overwrite := e.cfg.ShouldOverwrite()

	for !overwrite && e.exists(output) {
		ok, err := e.prompter.Confirm(fmt.Sprintf("Output file '%s' already exists. Overwrite?", output))
		if err != nil {
			return "", fmt.Errorf("output file %s already exists (use --force to overwrite): %w", output, err)
		}
		if ok {
			overwrite = true
			continue
		}

		name, err := e.prompter.Ask("Please, enter new name for the output wallpaper:")
		if err != nil {
			return "", fmt.Errorf("failed to read new output name: %w", err)
		}
		output = codec.ResolveOutputPath(codec.ExpandPath(strings.TrimSpace(name)))
	}

	return output, nil
}

func (e *Engine) apply(ctx context.Context, path string) error {
	if previous, err := e.executor.GetCurrentWallpaper(ctx); err == nil {
		e.logger.Debug("Replacing current wallpaper", zap.String("previous", previous))
	} else {
		e.logger.Debug("Could not read current wallpaper", zap.Error(err))
	}

	return e.executor.SetWallpaper(ctx, path)
}

func (e *Engine) printDisplays(displays []geometry.Display) {
	fmt.Fprintf(e.out, "Detected displays (%d total):\n", len(displays))
	for i, d := range displays {
		w, h := d.Bounds.Resolution()
		fmt.Fprintf(e.out, "%d. %s (%dx%d)\n", i+1, d.Name, w, h)
	}
}

// IsUsageError reports whether err was caused by the arguments rather than the environment
func IsUsageError(err error) bool {
	var parseErr *domain.SourceParseError
	return errors.As(err, &parseErr) || errors.Is(err, domain.ErrArgumentCountMismatch)
}
