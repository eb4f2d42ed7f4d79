package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDisplays is returned when enumeration succeeds but finds nothing
	ErrNoDisplays = errors.New("no displays detected")

	// ErrArgumentCountMismatch is returned when sources and displays differ in number
	ErrArgumentCountMismatch = errors.New("number of wallpapers does not match number of displays")
)

// ConfigurationError means the display layout could not be determined
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unable to get display configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// SourceParseError reports a positional token that is neither a color, a
// readable file, a URL nor the empty skip token.
type SourceParseError struct {
	Token string
	Err   error
}

func (e *SourceParseError) Error() string {
	return fmt.Sprintf("unable to parse color or open file %q: %v", e.Token, e.Err)
}

func (e *SourceParseError) Unwrap() error { return e.Err }
