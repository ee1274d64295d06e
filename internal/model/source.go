package model

import (
	"image"
	"time"
)

// FrameSource is a sequential reader over the frames of a decoded image.
// Static images expose exactly one frame; animated sources expose frames in
// display order together with their display delays. Implementations are not
// required to be safe for concurrent use; a source is driven by a single
// producer at a time.
type FrameSource interface {
	// Size returns the natural pixel dimensions of the source.
	Size() (width, height int)

	// Next returns the next frame and its display delay. Once the sequence
	// is exhausted it returns an end-of-sequence error and keeps doing so
	// until Rewind is called.
	Next() (image.Image, time.Duration, error)

	// Rewind restarts the sequence from frame zero.
	Rewind()

	// FrameCount returns the total number of frames when known up front,
	// or 0 when the source only discovers frames as they are read.
	FrameCount() int
}
