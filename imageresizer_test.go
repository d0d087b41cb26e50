package imageresizer

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/menta2k/image-resizer/pkg/dimension"
	"github.com/menta2k/image-resizer/pkg/loader"
	"github.com/menta2k/image-resizer/pkg/types"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Create a pattern with a bright subject in the center
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x > width/3 && x < 2*width/3 && y > height/3 && y < 2*height/3 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.Set(x, y, color.RGBA{64, 64, 64, 255})
			}
		}
	}

	return img
}

func writeTestImage(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := imaging.Save(createTestImage(width, height), path); err != nil {
		t.Fatalf("save %s: %v", name, err)
	}
	return path
}

func newSession(width, height int) *Session {
	h := &loader.Handle{
		Image: createTestImage(width, height),
		Name:  "test",
		Size:  types.ImageSize{Width: width, Height: height},
	}
	return New().NewSession(h)
}

func TestNew(t *testing.T) {
	r := New()
	if r == nil {
		t.Fatal("New() returned nil")
	}
	if r.loader == nil {
		t.Error("loader component is nil")
	}
	if r.processor == nil {
		t.Error("processor component is nil")
	}

	r = NewWithConfig(loader.DefaultConfig(), imaging.Box)
	if r.loader == nil || r.processor == nil {
		t.Error("NewWithConfig() left components nil")
	}
}

func TestSessionEditAndExport(t *testing.T) {
	s := newSession(400, 200)

	if s.Control.Phase() != dimension.Original {
		t.Error("New session should start at original size")
	}
	if err := s.Control.Change("width", "100"); err != nil {
		t.Fatalf("Change failed: %v", err)
	}
	if got := s.OutputSize(); got != (types.ImageSize{Width: 100, Height: 50}) {
		t.Errorf("Expected 100x50, got %+v", got)
	}

	img, err := s.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("Expected 100x50, got %dx%d", b.Dx(), b.Dy())
	}

	s.Control.Reset()
	if got := s.OutputSize(); got != (types.ImageSize{Width: 400, Height: 200}) {
		t.Errorf("Expected original size after reset, got %+v", got)
	}
}

func TestSessionCrop(t *testing.T) {
	s := newSession(400, 200)
	if err := s.Control.Change("width", "100"); err != nil {
		t.Fatalf("Change failed: %v", err)
	}

	s.SetCrop(types.Crop{X: 300, Y: 0, Width: 200, Height: 200})
	if s.Crop() != (types.Crop{X: 300, Y: 0, Width: 100, Height: 200}) {
		t.Errorf("Crop should be clamped, got %+v", s.Crop())
	}
	if s.Store.State() != dimension.ResetSize() {
		t.Errorf("Crop should reset the size, got %+v", s.Store.State())
	}

	// Edits are now bounded by the cropped area
	if err := s.Control.Change("height", "1000"); err != nil {
		t.Fatalf("Change failed: %v", err)
	}
	if got := s.Store.State(); got.Width != 100 || got.Height != 200 {
		t.Errorf("Expected clamp to the crop, got %+v", got)
	}
	if err := s.Control.Change("height", "100"); err != nil {
		t.Fatalf("Change failed: %v", err)
	}

	img, err := s.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 100 {
		t.Errorf("Expected 50x100, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, "photo.png", 300, 200)
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		t.Fatal(err)
	}

	out, err := New().ProcessFile(context.Background(), input, outDir, Options{
		Width:   "150",
		Format:  "png",
		Quality: 90,
		Suffix:  "_small",
	})
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if want := filepath.Join(outDir, "photo_small_150x100.png"); out != want {
		t.Errorf("Expected %s, got %s", want, out)
	}

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 150 || b.Dy() != 100 {
		t.Errorf("Expected 150x100, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessFileOptions(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, "wide.jpg", 400, 300)

	tests := []struct {
		name     string
		opts     Options
		expected string
	}{
		{"unlocked", Options{Width: "100", Height: "100", Unlock: true}, "wide_100x100.jpg"},
		{"ratio preset", Options{Ratio: "square", Width: "50"}, "wide_50x50.jpg"},
		{"crop", Options{Crop: types.Crop{X: 0, Y: 0, Width: 200, Height: 100}}, "wide_200x100.jpg"},
		{"clamped", Options{Width: "99999"}, "wide_400x300.jpg"},
	}

	for _, test := range tests {
		test.opts.Quality = 80
		out, err := New().ProcessFile(context.Background(), input, dir, test.opts)
		if err != nil {
			t.Errorf("%s: ProcessFile failed: %v", test.name, err)
			continue
		}
		if filepath.Base(out) != test.expected {
			t.Errorf("%s: expected %s, got %s", test.name, test.expected, filepath.Base(out))
		}
	}
}

func TestProcessFileErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, "small.png", 20, 20)

	if _, err := New().ProcessFile(context.Background(), input, dir, Options{MinSize: 100}); err == nil {
		t.Error("Expected validation error for small image")
	}
	if _, err := New().ProcessFile(context.Background(), input, dir, Options{Ratio: "panorama"}); err == nil {
		t.Error("Expected error for unknown ratio")
	}
	if _, err := New().ProcessFile(context.Background(), filepath.Join(dir, "missing.png"), dir, Options{}); err == nil {
		t.Error("Expected error for missing input")
	}
}

func TestProcessAll(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		writeTestImage(t, dir, "a.png", 200, 100),
		writeTestImage(t, dir, "b.png", 100, 200),
		writeTestImage(t, dir, "c.png", 300, 300),
	}
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		t.Fatal(err)
	}

	outputs, err := New().ProcessAll(context.Background(), inputs, outDir, Options{Width: "50", Format: "png", Quality: 90}, 2)
	if err != nil {
		t.Fatalf("ProcessAll failed: %v", err)
	}

	expected := []string{"a_50x25.png", "b_50x100.png", "c_50x50.png"}
	for i, out := range outputs {
		if filepath.Base(out) != expected[i] {
			t.Errorf("Output %d: expected %s, got %s", i, expected[i], filepath.Base(out))
		}
	}

	_, err = New().ProcessAll(context.Background(), append(inputs, filepath.Join(dir, "missing.png")), outDir, Options{}, 2)
	if err == nil {
		t.Error("Expected error when one input is missing")
	}
}

func TestProcessAllSharedNames(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			t.Fatal(err)
		}
	}
	inputs := []string{
		writeTestImage(t, dir, filepath.Join("a", "photo.png"), 200, 100),
		writeTestImage(t, dir, filepath.Join("b", "photo.png"), 200, 100),
		writeTestImage(t, dir, "photo.jpg", 200, 100),
	}
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		t.Fatal(err)
	}

	outputs, err := New().ProcessAll(context.Background(), inputs, outDir, Options{Width: "50", Format: "png", Quality: 90}, 3)
	if err != nil {
		t.Fatalf("ProcessAll failed: %v", err)
	}

	expected := []string{"photo_50x25.png", "photo_2_50x25.png", "photo_3_50x25.png"}
	for i, out := range outputs {
		if filepath.Base(out) != expected[i] {
			t.Errorf("Output %d: expected %s, got %s", i, expected[i], filepath.Base(out))
		}
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(inputs) {
		t.Errorf("Expected %d files in %s, got %d", len(inputs), outDir, len(entries))
	}
}

func TestUniqueNames(t *testing.T) {
	tests := []struct {
		inputs   []string
		expected []string
	}{
		{[]string{"a.png", "b.png"}, []string{"a", "b"}},
		{[]string{"x/photo.png", "y/photo.png"}, []string{"photo", "photo_2"}},
		// An existing photo_2 input keeps its name
		{[]string{"photo.png", "photo.jpg", "photo_2.png"}, []string{"photo", "photo_3", "photo_2"}},
	}

	for _, test := range tests {
		got := uniqueNames(test.inputs)
		for i := range got {
			if got[i] != test.expected[i] {
				t.Errorf("uniqueNames(%v)[%d] = %s, expected %s", test.inputs, i, got[i], test.expected[i])
			}
		}
	}
}

func TestGetVersion(t *testing.T) {
	version := GetVersion()
	if version == "" {
		t.Error("Version should not be empty")
	}

	if version != Version {
		t.Errorf("GetVersion() returned %s, expected %s", version, Version)
	}
}

func BenchmarkExport(b *testing.B) {
	s := newSession(1920, 1080)
	s.Control.Change("width", "640")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Export()
	}
}
