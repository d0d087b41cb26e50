// Package imageresizer resizes images under the constraints of an image
// editor's resize control.
//
// The heart of the package is pkg/dimension, a set of pure functions that turn
// raw width/height input into a valid ResizeState: values are clamped to the
// source size, the aspect ratio is kept while the ratio lock is on, and edits
// that change nothing are reported as such. Everything else here is the host
// around it.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		imageresizer "github.com/menta2k/image-resizer"
//	)
//
//	func main() {
//		resizer := imageresizer.New()
//
//		session, err := resizer.Open(context.Background(), "photo.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// Feed input exactly as a user would type it
//		if err := session.Control.Change("width", "800"); err != nil {
//			log.Fatal(err)
//		}
//
//		img, err := session.Export()
//		if err != nil {
//			log.Fatal(err)
//		}
//		_ = img
//	}
//
// The package consists of these components:
//
// 1. Dimension (pkg/dimension): clamping, ratio lock and display projection
// 2. Store (pkg/store): single-writer state container and commit sink
// 3. Editor (pkg/editor): resize control and toolbar selection
// 4. Loader (pkg/loader): file and URL image loading
// 5. Crop (pkg/crop): crop presets and bounds handling
// 6. Processing (pkg/processing): applying a resize state to pixels
package imageresizer

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/menta2k/image-resizer/internal/utils"
	"github.com/menta2k/image-resizer/pkg/crop"
	"github.com/menta2k/image-resizer/pkg/dimension"
	"github.com/menta2k/image-resizer/pkg/editor"
	"github.com/menta2k/image-resizer/pkg/loader"
	"github.com/menta2k/image-resizer/pkg/processing"
	"github.com/menta2k/image-resizer/pkg/store"
	"github.com/menta2k/image-resizer/pkg/types"
)

// Version of the image resizer library
const Version = "1.0.0"

// Resizer provides a high-level interface for loading, resizing and saving images
type Resizer struct {
	loader    *loader.Loader
	processor *processing.Processor
}

// New creates a new Resizer with default configuration
func New() *Resizer {
	return &Resizer{
		loader:    loader.New(),
		processor: processing.NewProcessor(),
	}
}

// NewWithConfig creates a new Resizer with custom configuration
func NewWithConfig(loaderConfig loader.Config, filter imaging.ResampleFilter) *Resizer {
	return &Resizer{
		loader:    loader.NewWithConfig(loaderConfig),
		processor: processing.NewProcessorWithFilter(filter),
	}
}

// Session holds the editing state of one loaded image
type Session struct {
	Image   *loader.Handle
	Store   *store.Store
	Control *editor.ResizeControl

	crop      types.Crop
	processor *processing.Processor
}

// Open loads source and starts an editing session at the original size
func (r *Resizer) Open(ctx context.Context, source string) (*Session, error) {
	h, err := r.loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return r.NewSession(h), nil
}

// NewSession starts an editing session for an already loaded image
func (r *Resizer) NewSession(h *loader.Handle) *Session {
	st := store.New(dimension.ResetSize())
	return &Session{
		Image:     h,
		Store:     st,
		Control:   editor.NewResizeControl(st, h.Size),
		processor: r.processor,
	}
}

// SetCrop sets the crop rectangle, clamped to the image. The cropped area
// becomes the source size the control resizes against, so the size is reset.
func (s *Session) SetCrop(c types.Crop) {
	s.crop = crop.Clamp(c, s.Image.Size)
	s.Control.SetOriginal(dimension.CroppedSize(s.crop, s.Image.Size))
	s.Control.Reset()
}

// Crop returns the current crop rectangle
func (s *Session) Crop() types.Crop {
	return s.crop
}

// OutputSize returns the size Export will produce
func (s *Session) OutputSize() types.ImageSize {
	return s.processor.OutputSize(s.Image.Size, s.Store.State(), s.crop)
}

// Export renders the image at the committed size
func (s *Session) Export() (image.Image, error) {
	return s.processor.Apply(s.Image.Image, s.Store.State(), s.crop)
}

// Options describes one resize job. Width and Height are raw input values;
// empty means the field is not edited.
type Options struct {
	Width    string
	Height   string
	Unlock   bool
	Crop     types.Crop
	Ratio    string
	Format   string
	Quality  int
	Lossless bool
	Prefix   string
	Suffix   string
	MinSize  int
}

// ProcessFile loads input, applies the edits in opts and saves the result in
// outputDir. It returns the written path.
func (r *Resizer) ProcessFile(ctx context.Context, input, outputDir string, opts Options) (string, error) {
	return r.processFile(ctx, input, "", outputDir, opts)
}

// processFile is ProcessFile with the output base name overridden when name is set
func (r *Resizer) processFile(ctx context.Context, input, name, outputDir string, opts Options) (string, error) {
	session, err := r.Open(ctx, input)
	if err != nil {
		return "", err
	}

	if opts.MinSize > 0 {
		if err := loader.Validate(session.Image, opts.MinSize); err != nil {
			return "", fmt.Errorf("image validation failed: %w", err)
		}
	}

	if err := session.apply(opts); err != nil {
		return "", err
	}

	img, err := session.Export()
	if err != nil {
		return "", fmt.Errorf("resize failed: %w", err)
	}

	if name == "" {
		name = session.Image.Name
	}
	b := img.Bounds()
	outputPath := utils.OutputFilename(name, outputDir, opts.Prefix, opts.Suffix, b.Dx(), b.Dy(), opts.Format)
	if err := r.processor.SaveImage(img, outputPath, opts.Format, opts.Quality, opts.Lossless); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", outputPath, err)
	}
	return outputPath, nil
}

// ProcessAll runs ProcessFile for every input with at most workers in flight.
// Inputs sharing a base name get a _2, _3, ... suffix in input order so that
// no two of them write the same file. Results are returned in input order.
func (r *Resizer) ProcessAll(ctx context.Context, inputs []string, outputDir string, opts Options, workers int) ([]string, error) {
	if workers < 1 {
		workers = 1
	}
	outputs := make([]string, len(inputs))
	names := uniqueNames(inputs)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			out, err := r.processFile(gCtx, input, names[i], outputDir, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			outputs[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// uniqueNames returns one output base name per input, numbering repeats
func uniqueNames(inputs []string) []string {
	base := make([]string, len(inputs))
	taken := make(map[string]bool, len(inputs))
	for i, input := range inputs {
		name := utils.SanitizeFilename(loader.NameFromSource(input))
		if name == "" {
			name = "image"
		}
		base[i] = name
		taken[name] = true
	}

	names := make([]string, len(inputs))
	used := make(map[string]bool, len(inputs))
	for i, name := range base {
		if used[name] {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s_%d", base[i], n)
				if !taken[candidate] && !used[candidate] {
					name = candidate
					break
				}
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func (s *Session) apply(opts Options) error {
	switch {
	case opts.Ratio != "":
		ratio, ok := crop.Lookup(opts.Ratio)
		if !ok {
			return fmt.Errorf("unknown aspect ratio: %s", opts.Ratio)
		}
		s.SetCrop(crop.Centered(s.Image.Size, ratio))
	case !opts.Crop.IsEmpty():
		s.SetCrop(opts.Crop)
	}

	if opts.Unlock {
		s.Control.ToggleRatioLock()
	}
	if opts.Width != "" {
		if err := s.Control.Change("width", opts.Width); err != nil {
			return err
		}
	}
	if opts.Height != "" {
		if err := s.Control.Change("height", opts.Height); err != nil {
			return err
		}
	}
	return nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
