package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"a.jpg", true},
		{"a.JPEG", true},
		{"dir/b.webp", true},
		{"c.txt", false},
		{"noext", false},
	}

	for _, test := range tests {
		if got := IsImageFile(test.name); got != test.expected {
			t.Errorf("IsImageFile(%s) = %v, expected %v", test.name, got, test.expected)
		}
	}
}

func TestOutputFilename(t *testing.T) {
	got := OutputFilename("photo", "out", "pre_", "_resized", 400, 200, "WEBP")
	want := filepath.Join("out", "pre_photo_resized_400x200.webp")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}

	got = OutputFilename("a:b", "out", "", "", 1, 1, "")
	want = filepath.Join("out", "a_b_1x1.jpg")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}

	got = OutputFilename("", "out", "", "", 2, 3, "png")
	want = filepath.Join("out", "image_2x3.png")
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestListImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.png", "notes.txt", "sub/c.webp"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ListImageFiles(dir)
	if err != nil {
		t.Fatalf("ListImageFiles failed: %v", err)
	}
	if len(files) != 3 {
		t.Errorf("Expected 3 image files, got %d: %v", len(files), files)
	}

	if !DirExists(dir) || DirExists(filepath.Join(dir, "a.jpg")) {
		t.Error("DirExists misreports directories")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"photo", "photo"},
		{"a/b\\c", "a_b_c"},
		{"  .hidden. ", "hidden"},
		{"what?*", "what__"},
	}

	for _, test := range tests {
		if got := SanitizeFilename(test.input); got != test.expected {
			t.Errorf("SanitizeFilename(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}
