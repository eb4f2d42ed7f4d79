package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/genricoloni/spanwall/internal/geometry"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var errEmptyLayout = errors.New("backend reported no active displays")

// backend is one platform mechanism able to list displays
type backend interface {
	Name() string
	Displays() ([]geometry.Display, error)
}

// Enumerator lists displays by trying each backend in order until one
// reports at least one display.
type Enumerator struct {
	logger   *zap.Logger
	backends []backend
}

func newEnumerator(logger *zap.Logger, backends ...backend) *Enumerator {
	return &Enumerator{
		logger:   logger,
		backends: backends,
	}
}

// Enumerate returns the displays in backend order. The order is
// authoritative: sources are matched against it positionally.
func (e *Enumerator) Enumerate(ctx context.Context) ([]geometry.Display, error) {
	var errs error
	for _, b := range e.backends {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		displays, err := b.Displays()
		if err == nil && len(displays) == 0 {
			err = errEmptyLayout
		}
		if err != nil {
			e.logger.Debug("Display backend unavailable", zap.String("backend", b.Name()), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			continue
		}

		e.logger.Debug("Displays enumerated",
			zap.String("backend", b.Name()),
			zap.Int("count", len(displays)))
		return displays, nil
	}

	if errs == nil {
		return nil, errors.New("no display backend available")
	}
	return nil, errs
}

// placeholderName labels a display whose output name is unknown. index is zero based.
func placeholderName(index int) string {
	return fmt.Sprintf("Display %d", index+1)
}
