// Package loader fetches and decodes the source image that resizing works against.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/image-resizer/pkg/types"
)

// ErrLoad is wrapped by every error returned from Load
var ErrLoad = errors.New("error in loading the image")

// ErrTooLarge is returned when a source is bigger than Config.MaxBytes
var ErrTooLarge = errors.New("image exceeds the size limit")

// Config holds loader settings
type Config struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

// DefaultConfig returns the settings used by New
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		UserAgent: "Image-Resizer/1.0 (+https://github.com/menta2k/image-resizer)",
		MaxBytes:  64 << 20,
	}
}

// Handle is a decoded source image
type Handle struct {
	Image  image.Image
	Name   string
	Format string
	Size   types.ImageSize
}

// Loader loads images from files or http(s) URLs
type Loader struct {
	config Config
	client *http.Client
}

// New creates a loader with default configuration
func New() *Loader {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a loader with custom configuration
func NewWithConfig(config Config) *Loader {
	if config.MaxBytes <= 0 {
		config.MaxBytes = DefaultConfig().MaxBytes
	}
	return &Loader{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Load fetches and decodes source. It makes a single attempt.
func (l *Loader) Load(ctx context.Context, source string) (*Handle, error) {
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w with the provided url: %s: %w", ErrLoad, source, err)
	}

	img, format, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w with the provided url: %s: %w", ErrLoad, source, err)
	}

	b := img.Bounds()
	return &Handle{
		Image:  img,
		Name:   NameFromSource(source),
		Format: format,
		Size:   types.ImageSize{Width: b.Dx(), Height: b.Dy()},
	}, nil
}

// Validate checks that the image is at least minSize pixels on each side
func Validate(h *Handle, minSize int) error {
	if h == nil || h.Image == nil {
		return fmt.Errorf("no image loaded")
	}
	if h.Size.Width < minSize || h.Size.Height < minSize {
		return fmt.Errorf("image too small: %dx%d (minimum: %d)", h.Size.Width, h.Size.Height, minSize)
	}
	return nil
}

// NameFromSource returns the base name of a file path or URL without
// query string or extension.
func NameFromSource(source string) string {
	p := source
	if u, err := url.Parse(source); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	p = strings.ReplaceAll(p, "\\", "/")
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if !isURL(source) {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readLimited(f, l.config.MaxBytes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if l.config.UserAgent != "" {
		req.Header.Set("User-Agent", l.config.UserAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("URL does not point to an image (Content-Type: %s)", contentType)
	}

	data, err := readLimited(resp.Body, l.config.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}

// readLimited reads all of r, failing once more than limit bytes arrive.
// A limit of zero or less reads without a bound.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// decode tries the registered decoders first, then the libwebp decoder
func decode(data []byte) (image.Image, string, error) {
	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err == nil {
			return img, format, nil
		}
	}

	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, "webp", nil
	}

	return nil, "", fmt.Errorf("unknown or unsupported image format")
}
