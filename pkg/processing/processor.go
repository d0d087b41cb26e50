package processing

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/menta2k/image-resizer/pkg/crop"
	"github.com/menta2k/image-resizer/pkg/dimension"
	"github.com/menta2k/image-resizer/pkg/types"
)

// Processor applies a resolved resize state to image pixels
type Processor struct {
	filter imaging.ResampleFilter
}

// NewProcessor creates a new image processor using Lanczos resampling
func NewProcessor() *Processor {
	return &Processor{filter: imaging.Lanczos}
}

// NewProcessorWithFilter creates a processor with a custom resampling filter
func NewProcessorWithFilter(filter imaging.ResampleFilter) *Processor {
	return &Processor{filter: filter}
}

// OutputSize returns the size Apply produces for an image of the given size
func (p *Processor) OutputSize(original types.ImageSize, state types.ResizeState, c types.Crop) types.ImageSize {
	cropped := dimension.CroppedSize(c, original)
	if dimension.IsOriginalSize(state, original) {
		return cropped
	}

	// Unset dimensions follow the crop, scaled by the set one when the ratio is locked
	w, h := state.Width, state.Height
	switch {
	case w == 0 && h == 0:
		return cropped
	case w == 0:
		w = cropped.Width
		if !state.RatioUnlocked {
			w = max(1, h*cropped.Width/cropped.Height)
		}
	case h == 0:
		h = cropped.Height
		if !state.RatioUnlocked {
			h = max(1, w*cropped.Height/cropped.Width)
		}
	}
	return types.ImageSize{Width: w, Height: h}
}

// Apply crops img and resizes it to the size described by state
func (p *Processor) Apply(img image.Image, state types.ResizeState, c types.Crop) (image.Image, error) {
	b := img.Bounds()
	original := types.ImageSize{Width: b.Dx(), Height: b.Dy()}
	if original.Width == 0 || original.Height == 0 {
		return nil, fmt.Errorf("invalid image dimensions")
	}

	out := img
	if c = crop.Clamp(c, original); !c.IsEmpty() {
		rect := image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height).Add(b.Min)
		out = imaging.Crop(img, rect)
	}

	size := p.OutputSize(original, state, c)
	ob := out.Bounds()
	if size.Width == ob.Dx() && size.Height == ob.Dy() {
		return out, nil
	}
	return imaging.Resize(out, size.Width, size.Height, p.filter), nil
}

// Encode writes img to w in the given format
func (p *Processor) Encode(w io.Writer, img image.Image, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		return webp.Encode(w, img, &webp.Options{Lossless: lossless, Quality: float32(quality)})
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	case "jpg", "jpeg", "":
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// SaveImage writes img to path using the same encoder settings as Encode
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp", "png", "jpg", "jpeg", "":
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.Encode(f, img, format, quality, lossless); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
