package types

// ImageSize represents the pixel dimensions of an image
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ResizeState holds the requested output size of an image.
// A zero Width or Height means "use the original dimension".
type ResizeState struct {
	Width         int  `json:"width,omitempty"`
	Height        int  `json:"height,omitempty"`
	RatioUnlocked bool `json:"ratioUnlocked"`
}

// HasDimensions reports whether at least one dimension is explicitly set
func (s ResizeState) HasDimensions() bool {
	return s.Width != 0 || s.Height != 0
}

// Crop is a rectangle in original image pixels. The zero value means no crop.
type Crop struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsEmpty reports whether the crop selects no area
func (c Crop) IsEmpty() bool {
	return c.Width <= 0 || c.Height <= 0
}

// ViewportContext describes how the image is currently shown on screen
type ViewportContext struct {
	Crop  Crop      `json:"crop"`
	Shown ImageSize `json:"shown"`
}
