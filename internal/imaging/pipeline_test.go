package imaging

import (
	"context"
	"errors"
	"image"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/imgview/imgview/internal/model"
)

// fakeSource yields a fixed number of identical frames, optionally failing
// at a chosen index. It counts how often Next is called.
type fakeSource struct {
	mu       sync.Mutex
	frames   int
	pos      int
	failAt   int // -1 disables
	nextCall int
	w, h     int
	delay    time.Duration
}

func newFakeSource(frames int) *fakeSource {
	return &fakeSource{frames: frames, failAt: -1, w: 800, h: 600, delay: 40 * time.Millisecond}
}

func (s *fakeSource) Size() (int, int) { return s.w, s.h }
func (s *fakeSource) FrameCount() int  { return s.frames }

func (s *fakeSource) Rewind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = 0
}

func (s *fakeSource) Next() (image.Image, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCall++
	if s.failAt >= 0 && s.pos == s.failAt {
		return nil, 0, errors.New("synthetic decode failure")
	}
	if s.pos >= s.frames {
		return nil, 0, ErrEndOfSequence
	}
	s.pos++
	return image.NewRGBA(image.Rect(0, 0, s.w, s.h)), s.delay, nil
}

func newTestAnimation(src model.FrameSource) *model.Animation {
	anim := model.NewAnimation("/tmp/test.gif", 40, 40)
	anim.SetSource(src)
	return anim
}

func TestPipelineLoadsAllFrames(t *testing.T) {
	src := newFakeSource(10)
	anim := newTestAnimation(src)

	if err := NewPipeline().Run(context.Background(), anim); err != nil {
		t.Fatalf("Expected clean run, got %v", err)
	}
	anim.SetFinished(true)

	if anim.FrameCount() != 10 {
		t.Errorf("Expected frame count 10, got %d", anim.FrameCount())
	}
	if anim.LoadedFrames() != 10 {
		t.Errorf("Expected 10 loaded frames, got %d", anim.LoadedFrames())
	}

	frames, delays := anim.Snapshot()
	if len(frames) != 10 || len(delays) != 10 {
		t.Fatalf("Expected 10 frames and 10 delays, got %d and %d", len(frames), len(delays))
	}
	for i, frame := range frames {
		if frame == nil {
			t.Fatalf("Frame %d missing", i)
		}
		// 800x600 fitted into 40x40 is 40x30.
		b := frame.Bounds()
		if b.Dx() != 40 || b.Dy() != 30 {
			t.Errorf("Frame %d: expected 40x30, got %dx%d", i, b.Dx(), b.Dy())
		}
		if delays[i] != 40*time.Millisecond {
			t.Errorf("Frame %d: expected 40ms delay, got %v", i, delays[i])
		}
	}
}

func TestPipelineRotatedFramesFitBox(t *testing.T) {
	src := newFakeSource(3)
	anim := newTestAnimation(src)
	anim.SetRotation(1)

	if err := NewPipeline().Run(context.Background(), anim); err != nil {
		t.Fatalf("Expected clean run, got %v", err)
	}

	// 800x600 rotated a quarter turn is 600x800, fitted into 40x40 -> 30x40.
	frame := anim.Frame(0)
	if frame == nil {
		t.Fatal("Expected frame 0 to be stored")
	}
	b := frame.Bounds()
	if b.Dx() != 30 || b.Dy() != 40 {
		t.Errorf("Expected 30x40, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestPipelineResumesPartialLoad(t *testing.T) {
	src := newFakeSource(6)
	anim := newTestAnimation(src)

	// Pretend frames 0-2 survived an earlier cancelled run.
	for i := 0; i < 3; i++ {
		anim.SetFrame(i, image.NewRGBA(image.Rect(0, 0, 40, 30)))
	}

	if err := NewPipeline().Run(context.Background(), anim); err != nil {
		t.Fatalf("Expected clean run, got %v", err)
	}

	if anim.LoadedFrames() != 6 {
		t.Errorf("Expected 6 loaded frames, got %d", anim.LoadedFrames())
	}
	if anim.FrameCount() != 6 {
		t.Errorf("Expected frame count 6, got %d", anim.FrameCount())
	}
}

func TestPipelineCancellation(t *testing.T) {
	before := runtime.NumGoroutine()

	src := newFakeSource(10000)
	anim := newTestAnimation(src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewPipeline().Run(ctx, anim)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Pipeline did not return after cancellation")
	}

	// All workers must be joined; allow the runtime a moment to settle.
	for attempt := 0; attempt < 50; attempt++ {
		if runtime.NumGoroutine() <= before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("Goroutines leaked after cancellation: before=%d after=%d", before, runtime.NumGoroutine())
}

func TestPipelinePropagatesDecodeError(t *testing.T) {
	src := newFakeSource(10)
	src.failAt = 4
	anim := newTestAnimation(src)

	err := NewPipeline().Run(context.Background(), anim)
	if err == nil {
		t.Fatal("Expected decode error to propagate")
	}
	if errors.Is(err, ErrEndOfSequence) {
		t.Error("End-of-sequence must not surface as an error")
	}
	if anim.Finished() {
		t.Error("Animation must not be marked finished after a failed run")
	}
}

func TestPipelineEndOfSequenceIsClean(t *testing.T) {
	src := newFakeSource(0)
	anim := newTestAnimation(src)

	if err := NewPipeline().Run(context.Background(), anim); err != nil {
		t.Errorf("Empty source should terminate cleanly, got %v", err)
	}
}

func TestPipelineMissingSource(t *testing.T) {
	anim := model.NewAnimation("/tmp/none.gif", 40, 40)
	if err := NewPipeline().Run(context.Background(), anim); err == nil {
		t.Error("Expected error for animation without a decoded source")
	}
}

func TestPipelineOnFrameCallback(t *testing.T) {
	src := newFakeSource(5)
	anim := newTestAnimation(src)

	var mu sync.Mutex
	seen := 0
	p := NewPipeline()
	p.OnFrame = func(int) {
		mu.Lock()
		seen++
		mu.Unlock()
	}

	if err := p.Run(context.Background(), anim); err != nil {
		t.Fatalf("Expected clean run, got %v", err)
	}
	if seen != 5 {
		t.Errorf("Expected 5 progress callbacks, got %d", seen)
	}
}
