package design

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrInvalidSize     = errors.New("invalid canvas size")
	ErrInvalidColor    = errors.New("invalid color")
	ErrInvalidFontSize = errors.New("invalid font size")
	ErrInvalidOpacity  = errors.New("invalid overlay opacity")
)

// ParseColor parses a #rgb or #rrggbb color.
func ParseColor(s string) (color.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	return c.Clamped(), nil
}

func validateSize(w, h int) error {
	if w < 1 || h < 1 || w > MaxDimension || h > MaxDimension {
		return fmt.Errorf("%w: %dx%d (each side must be 1..%d)", ErrInvalidSize, w, h, MaxDimension)
	}
	return nil
}

func clampOpacity(v float64) (float64, error) {
	if math.IsNaN(v) {
		return 0, ErrInvalidOpacity
	}
	return math.Max(0, math.Min(1, v)), nil
}

func validateLayer(l TextLayer) error {
	if l.FontSize < 1 || l.FontSize > MaxFontSize {
		return fmt.Errorf("%w: %d", ErrInvalidFontSize, l.FontSize)
	}
	if _, err := ParseColor(l.Color); err != nil {
		return err
	}
	return nil
}
