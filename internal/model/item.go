package model

import "image"

// StaticImage is a single decoded and transformed bitmap. The original
// decoded source is retained so rotating or resizing never re-decodes from
// disk, and the full-size edited image is retained for export. The viewer
// owns the record and confines all access to its own goroutine.
type StaticImage struct {
	Path     string
	Source   FrameSource // memoized decoded source
	Edited   image.Image // rotated, full size, used for saving
	Bitmap   image.Image // fitted to the viewport, handed to the surface
	Width    int
	Height   int
	Rotation int // quadrant, 0-3
	Loaded   bool
}

// ItemKind discriminates the two display item variants.
type ItemKind int

const (
	// ItemStatic is a single-frame image shown once.
	ItemStatic ItemKind = iota

	// ItemAnimated is a multi-frame image replayed in a loop.
	ItemAnimated
)

// Item is the display item union: exactly one of Static or Animated is set,
// selected once at load time from the source file extension.
type Item struct {
	Kind     ItemKind
	Static   *StaticImage
	Animated *Animation
}

// Path returns the source file path of whichever variant is set.
func (it *Item) Path() string {
	switch it.Kind {
	case ItemAnimated:
		if it.Animated != nil {
			return it.Animated.Path()
		}
	default:
		if it.Static != nil {
			return it.Static.Path
		}
	}
	return ""
}
