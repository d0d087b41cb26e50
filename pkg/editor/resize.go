// Package editor turns raw control events into resize state transitions.
package editor

import (
	"errors"
	"fmt"

	"github.com/menta2k/image-resizer/pkg/dimension"
	"github.com/menta2k/image-resizer/pkg/store"
	"github.com/menta2k/image-resizer/pkg/types"
)

// ErrUnknownField is returned when an input event names neither width nor height
var ErrUnknownField = errors.New("unknown dimension field")

// StateSource provides the currently committed resize state
type StateSource interface {
	State() types.ResizeState
}

// ResizeControl is the framework-free counterpart of the width/height inputs,
// the ratio lock toggle and the reset button.
type ResizeControl struct {
	source   StateSource
	sink     store.Sink
	original types.ImageSize
	viewport types.ViewportContext
	override *types.ResizeState
}

// NewResizeControl creates a control that reads from and commits to st
func NewResizeControl(st *store.Store, original types.ImageSize) *ResizeControl {
	return NewResizeControlWithSink(st, st, original)
}

// NewResizeControlWithSink creates a control with a separate commit sink,
// e.g. a caller-supplied change callback.
func NewResizeControlWithSink(source StateSource, sink store.Sink, original types.ImageSize) *ResizeControl {
	return &ResizeControl{
		source:   source,
		sink:     sink,
		original: original,
	}
}

// SetOriginal changes the source size edits are clamped against
func (c *ResizeControl) SetOriginal(original types.ImageSize) {
	c.original = original
}

// SetViewport updates the crop and on-screen size used for display
func (c *ResizeControl) SetViewport(vp types.ViewportContext) {
	c.viewport = vp
}

// SetOverride sets a transient size shown instead of the committed one.
// Its ratio lock flag takes precedence over the committed flag. Pass nil to clear.
func (c *ResizeControl) SetOverride(override *types.ResizeState) {
	c.override = override
}

// Change handles an edit of the named input
func (c *ResizeControl) Change(name, raw string) error {
	field, ok := dimension.ParseField(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	next, changed := dimension.ApplyDimensionChange(field, raw, c.current(), c.original)
	if !changed {
		return nil
	}
	c.sink.Commit(next)
	return nil
}

// ToggleRatioLock flips the ratio lock
func (c *ResizeControl) ToggleRatioLock() {
	c.sink.Commit(dimension.ToggleRatioLock(c.current()))
}

// Reset restores the original size
func (c *ResizeControl) Reset() {
	c.sink.Commit(dimension.ResetSize())
}

// ResetEnabled reports whether a reset would change anything
func (c *ResizeControl) ResetEnabled() bool {
	return !dimension.IsOriginalSize(c.source.State(), c.original)
}

// RatioLocked reports the state of the lock indicator
func (c *ResizeControl) RatioLocked() bool {
	if c.override != nil && c.override.RatioUnlocked {
		return false
	}
	return !c.source.State().RatioUnlocked
}

// Phase returns whether the committed state is the original size or custom
func (c *ResizeControl) Phase() dimension.Phase {
	return dimension.Classify(c.source.State(), c.original)
}

// Display returns the values shown in the width and height inputs
func (c *ResizeControl) Display() types.ImageSize {
	return dimension.ResolveDisplayDimensions(c.source.State(), c.override, c.viewport, c.original)
}

// current is the committed state with the override's ratio flag applied
func (c *ResizeControl) current() types.ResizeState {
	state := c.source.State()
	if c.override != nil {
		state.RatioUnlocked = c.override.RatioUnlocked
	}
	return state
}
