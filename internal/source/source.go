package source

import (
	"fmt"
	"image/color"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/genricoloni/spanwall/internal/domain"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/multierr"
)

var hexColorRE = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Parse converts one positional token into a wallpaper source.
//
// An empty token skips the display. "#RRGGBB" and "#RGB" are solid colors;
// pure black is treated as skip since the canvas background is already black.
// http(s) URLs and readable files are image sources.
func Parse(token string) (domain.Source, error) {
	if token == "" {
		return domain.SkipSource{}, nil
	}

	if hexColorRE.MatchString(token) {
		c, err := colorful.Hex(expandShortHex(token))
		if err != nil {
			return nil, &domain.SourceParseError{Token: token, Err: err}
		}
		r, g, b := c.RGB255()
		if r == 0 && g == 0 && b == 0 {
			return domain.SkipSource{}, nil
		}
		return domain.ColorSource{Color: color.NRGBA{R: r, G: g, B: b, A: 255}}, nil
	}

	if u, err := url.Parse(token); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return domain.ImageSource{Ref: domain.ImageRef{Name: token, Location: token, Remote: true}}, nil
	}

	if err := checkReadable(token); err != nil {
		return nil, &domain.SourceParseError{Token: token, Err: err}
	}
	return domain.ImageSource{Ref: domain.ImageRef{Name: token, Location: token}}, nil
}

// ParseAll parses every token, reporting all invalid ones at once
func ParseAll(tokens []string) ([]domain.Source, error) {
	sources := make([]domain.Source, 0, len(tokens))
	var errs error
	for _, tok := range tokens {
		src, err := Parse(tok)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		sources = append(sources, src)
	}
	if errs != nil {
		return nil, errs
	}
	return sources, nil
}

// expandShortHex turns "#abc" into "#aabbcc"
func expandShortHex(s string) string {
	if len(s) != 4 {
		return s
	}
	var b strings.Builder
	b.WriteByte('#')
	for _, ch := range s[1:] {
		b.WriteRune(ch)
		b.WriteRune(ch)
	}
	return b.String()
}

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	return nil
}
