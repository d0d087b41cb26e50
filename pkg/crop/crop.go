package crop

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/menta2k/image-resizer/pkg/types"
)

// ErrInvalidCrop is returned when a crop string cannot be parsed
var ErrInvalidCrop = errors.New("invalid crop")

// AspectRatio represents common aspect ratios
type AspectRatio struct {
	Width  int
	Height int
	Name   string
}

// Ratio returns width divided by height
func (a AspectRatio) Ratio() float64 {
	return float64(a.Width) / float64(a.Height)
}

// Common aspect ratios
var (
	Square     = AspectRatio{1, 1, "square"}
	Portrait   = AspectRatio{3, 4, "portrait"}
	Landscape  = AspectRatio{4, 3, "landscape"}
	Widescreen = AspectRatio{16, 9, "widescreen"}
	Instagram  = AspectRatio{4, 5, "instagram"}
	Story      = AspectRatio{9, 16, "story"}
)

// CommonAspectRatios returns a list of commonly used aspect ratios
func CommonAspectRatios() []AspectRatio {
	return []AspectRatio{Square, Portrait, Landscape, Widescreen, Instagram, Story}
}

// Lookup finds a preset by name
func Lookup(name string) (AspectRatio, bool) {
	for _, r := range CommonAspectRatios() {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return AspectRatio{}, false
}

// Centered returns the largest crop of the given ratio centered in the image
func Centered(original types.ImageSize, ratio AspectRatio) types.Crop {
	if original.Width <= 0 || original.Height <= 0 || ratio.Width <= 0 || ratio.Height <= 0 {
		return types.Crop{}
	}

	var w, h int
	currentRatio := float64(original.Width) / float64(original.Height)
	if ratio.Ratio() > currentRatio {
		// Target is wider, constrain by width
		w = original.Width
		h = max(1, original.Width*ratio.Height/ratio.Width)
	} else {
		// Target is taller, constrain by height
		h = original.Height
		w = max(1, original.Height*ratio.Width/ratio.Height)
	}

	return types.Crop{
		X:      (original.Width - w) / 2,
		Y:      (original.Height - h) / 2,
		Width:  w,
		Height: h,
	}
}

// Clamp intersects c with the image bounds. A crop that falls entirely
// outside the image becomes the zero crop.
func Clamp(c types.Crop, original types.ImageSize) types.Crop {
	if c.IsEmpty() {
		return types.Crop{}
	}
	x0 := max(c.X, 0)
	y0 := max(c.Y, 0)
	x1 := min(c.X+c.Width, original.Width)
	y1 := min(c.Y+c.Height, original.Height)
	if x1 <= x0 || y1 <= y0 {
		return types.Crop{}
	}
	return types.Crop{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Parse reads a crop written as "x,y,w,h"
func Parse(s string) (types.Crop, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return types.Crop{}, fmt.Errorf("%w: expected x,y,w,h, got %q", ErrInvalidCrop, s)
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return types.Crop{}, fmt.Errorf("%w: %q: %w", ErrInvalidCrop, s, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return types.Crop{}, fmt.Errorf("%w: width and height must be positive", ErrInvalidCrop)
	}
	return types.Crop{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}
