package model

import (
	"image"
	"sync"
	"time"
)

// DefaultFrameDelay is used when a frame carries no delay of its own.
const DefaultFrameDelay = time.Second / 15

// Animation holds the decoded, transformed frames of one multi-frame image
// source together with their per-frame display delays. The load pipeline
// writes frames from several workers at once, so all frame and delay storage
// goes through the embedded mutex. Frame indexes are reliable for playback
// only once Finished reports true; until then the record must be treated as
// partially populated.
type Animation struct {
	mu sync.RWMutex

	frames     []image.Image
	delays     []time.Duration
	frameCount int
	finished   bool

	width    int
	height   int
	path     string
	rotation int

	// unedited is the decoded source, kept so repeated rotate or resize
	// passes never hit the disk decoder again.
	unedited FrameSource
}

// NewAnimation creates an empty animation record for the given source path,
// bound to the viewport dimensions at load time.
func NewAnimation(path string, width, height int) *Animation {
	return &Animation{
		path:   path,
		width:  width,
		height: height,
	}
}

// Reset drops all loaded frames and rebinds the record to new viewport
// dimensions. The memoized source survives so the reload skips decoding.
func (a *Animation) Reset(width, height int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frames = nil
	a.delays = nil
	a.frameCount = 0
	a.finished = false
	a.width = width
	a.height = height
}

// Path returns the source file path the animation was loaded from.
func (a *Animation) Path() string { return a.path }

// Size returns the viewport bounding box the frames were fitted to.
func (a *Animation) Size() (width, height int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.width, a.height
}

// Rotation returns the quadrant (0-3) the frames were rotated by.
func (a *Animation) Rotation() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.rotation
}

// SetRotation records the quadrant the frames are being rotated by.
func (a *Animation) SetRotation(quadrant int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rotation = quadrant
}

// Source returns the memoized decoded source, or nil before the first load.
func (a *Animation) Source() FrameSource {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.unedited
}

// SetSource memoizes the decoded source for later reloads.
func (a *Animation) SetSource(src FrameSource) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unedited = src
}

// FrameCount returns the number of frames discovered so far. It grows
// monotonically while the producer walks the source.
func (a *Animation) FrameCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frameCount
}

// EnsureFrameCount raises the frame count to n if it is lower. Resumed loads
// walk frames from zero again, so the count only ever moves forward.
func (a *Animation) EnsureFrameCount(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n > a.frameCount {
		a.frameCount = n
	}
}

// Finished reports whether every discovered frame has been stored.
func (a *Animation) Finished() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.finished
}

// SetFinished flips the finished flag. After it is set true the record is
// read-only by convention.
func (a *Animation) SetFinished(finished bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.finished = finished
}

// HasFrame reports whether the frame at index has already been stored,
// enabling resumable reloads of partially loaded animations.
func (a *Animation) HasFrame(index int) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return index < len(a.frames) && a.frames[index] != nil
}

// SetFrame stores a finished bitmap at its sequence index, growing the frame
// storage as needed. Safe to call from any pipeline worker.
func (a *Animation) SetFrame(index int, frame image.Image) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for len(a.frames) <= index {
		a.frames = append(a.frames, nil)
	}
	a.frames[index] = frame
}

// SetDelay stores the display delay for the frame at index.
func (a *Animation) SetDelay(index int, delay time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for len(a.delays) <= index {
		a.delays = append(a.delays, 0)
	}
	a.delays[index] = delay
}

// Frame returns the bitmap at index, or nil when it has not been stored yet.
func (a *Animation) Frame(index int) image.Image {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if index < 0 || index >= len(a.frames) {
		return nil
	}
	return a.frames[index]
}

// Delay returns the display delay for the frame at index, substituting
// DefaultFrameDelay when none was recorded.
func (a *Animation) Delay(index int) time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if index < 0 || index >= len(a.delays) || a.delays[index] <= 0 {
		return DefaultFrameDelay
	}
	return a.delays[index]
}

// Len returns the number of frame slots allocated so far.
func (a *Animation) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.frames)
}

// LoadedFrames returns how many frames have actually been stored.
func (a *Animation) LoadedFrames() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	n := 0
	for _, f := range a.frames {
		if f != nil {
			n++
		}
	}
	return n
}

// Snapshot copies out the frame and delay sequences for playback. Call only
// after Finished reports true; earlier snapshots may contain nil frames.
func (a *Animation) Snapshot() ([]image.Image, []time.Duration) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	frames := make([]image.Image, len(a.frames))
	copy(frames, a.frames)
	delays := make([]time.Duration, len(a.frames))
	for i := range delays {
		if i < len(a.delays) && a.delays[i] > 0 {
			delays[i] = a.delays[i]
		} else {
			delays[i] = DefaultFrameDelay
		}
	}
	return frames, delays
}
