// Package dimension computes valid width/height pairs for resizing an image.
//
// Every function here is pure: callers pass in the current ResizeState and
// receive a new one, and are responsible for committing it somewhere.
package dimension

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/menta2k/image-resizer/pkg/types"
)

// Field names one of the two editable dimensions
type Field int

const (
	Width Field = iota
	Height
)

// String returns the control name of the field
func (f Field) String() string {
	switch f {
	case Width:
		return "width"
	case Height:
		return "height"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// Other returns the opposite dimension
func (f Field) Other() Field {
	if f == Height {
		return Width
	}
	return Height
}

// ParseField maps an input control name to a Field
func ParseField(name string) (Field, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "width":
		return Width, true
	case "height":
		return Height, true
	default:
		return 0, false
	}
}

// Phase is the logical state of a ResizeState relative to its source image
type Phase int

const (
	Original Phase = iota
	Custom
)

func (p Phase) String() string {
	if p == Original {
		return "original"
	}
	return "custom"
}

// Restrict parses raw numeric input and clamps it to [lo, hi].
// Input that is not a number saturates at lo.
func Restrict(raw string, lo, hi int) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	switch {
	case math.IsInf(v, 1):
		// overflowing input comes back as +Inf alongside a range error
		return hi
	case err != nil || math.IsNaN(v):
		return lo
	}
	if v >= float64(hi) {
		return hi
	}
	if v <= float64(lo) {
		return lo
	}
	return clampInt(int(math.Round(v)), lo, hi)
}

// ApplyDimensionChange applies a raw edit of one dimension to state.
// The second result is false when the edit leaves state unchanged, in which
// case state is returned as is and nothing needs to be committed.
func ApplyDimensionChange(field Field, raw string, state types.ResizeState, original types.ImageSize) (types.ResizeState, bool) {
	original = sanitize(original)

	value := Restrict(raw, 1, get(original, field))
	next := state
	set(&next, field, value)

	other := field.Other()
	if !state.RatioUnlocked {
		ratio := float64(original.Width) / float64(original.Height)
		var derived float64
		if field == Height {
			derived = float64(value) * ratio
		} else {
			derived = float64(value) / ratio
		}
		set(&next, other, clampInt(int(math.Round(derived)), 1, get(original, other)))
	}

	if next.Width == state.Width && next.Height == state.Height {
		return state, false
	}
	return next, true
}

// ToggleRatioLock flips the ratio lock without touching the dimensions
func ToggleRatioLock(state types.ResizeState) types.ResizeState {
	state.RatioUnlocked = !state.RatioUnlocked
	return state
}

// ResetSize returns the state representing the original, locked size
func ResetSize() types.ResizeState {
	return types.ResizeState{}
}

// IsOriginalSize reports whether state describes no resizing at all
func IsOriginalSize(state types.ResizeState, original types.ImageSize) bool {
	if !state.HasDimensions() {
		return true
	}
	return state.Width == original.Width && state.Height == original.Height
}

// Classify returns the phase of state
func Classify(state types.ResizeState, original types.ImageSize) Phase {
	if IsOriginalSize(state, original) {
		return Original
	}
	return Custom
}

// CroppedSize returns the size of the crop clamped into the image, or the
// whole image when there is no usable crop.
func CroppedSize(crop types.Crop, original types.ImageSize) types.ImageSize {
	original = sanitize(original)
	if crop.IsEmpty() {
		return original
	}
	x0 := clampInt(crop.X, 0, original.Width)
	y0 := clampInt(crop.Y, 0, original.Height)
	x1 := clampInt(crop.X+crop.Width, 0, original.Width)
	y1 := clampInt(crop.Y+crop.Height, 0, original.Height)
	if x1 <= x0 || y1 <= y0 {
		return original
	}
	return types.ImageSize{Width: x1 - x0, Height: y1 - y0}
}

// ResolveDisplayDimensions projects the logical size into on-screen pixels.
//
// The logical size comes from override when it carries a dimension, otherwise
// from state; an unset dimension falls back to the cropped original. Each axis
// is scaled by shown/cropped and clamped to [1, original].
func ResolveDisplayDimensions(state types.ResizeState, override *types.ResizeState, vp types.ViewportContext, original types.ImageSize) types.ImageSize {
	original = sanitize(original)
	cropped := CroppedSize(vp.Crop, original)

	logical := state
	if override != nil && override.HasDimensions() {
		logical = *override
	}
	w, h := logical.Width, logical.Height
	if w <= 0 {
		w = cropped.Width
	}
	if h <= 0 {
		h = cropped.Height
	}

	return types.ImageSize{
		Width:  clampInt(scale(w, vp.Shown.Width, cropped.Width), 1, original.Width),
		Height: clampInt(scale(h, vp.Shown.Height, cropped.Height), 1, original.Height),
	}
}

func scale(v, shown, cropped int) int {
	if shown <= 0 || cropped <= 0 {
		return v
	}
	return int(math.Round(float64(v) * float64(shown) / float64(cropped)))
}

// sanitize keeps the resolver total when the source size is degenerate
func sanitize(s types.ImageSize) types.ImageSize {
	if s.Width < 1 {
		s.Width = 1
	}
	if s.Height < 1 {
		s.Height = 1
	}
	return s
}

func get(s types.ImageSize, f Field) int {
	if f == Height {
		return s.Height
	}
	return s.Width
}

func set(s *types.ResizeState, f Field, v int) {
	if f == Height {
		s.Height = v
		return
	}
	s.Width = v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
