package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Decoder registrations for the supported still-image containers.
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/fyne-io/image/ico"

	"github.com/imgview/imgview/internal/model"
)

// ErrEndOfSequence signals that a frame source has no more frames. It is the
// expected producer termination condition, not a failure.
var ErrEndOfSequence = errors.New("imaging: end of frame sequence")

// animatedExtensions are the extensions handled by the multi-frame path.
var animatedExtensions = map[string]bool{
	".gif": true,
}

// IsAnimated reports whether path should be displayed through the animated
// pipeline, decided by extension.
func IsAnimated(path string) bool {
	return animatedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Decode opens and decodes the image at path into a frame source. GIF files
// yield a multi-frame source; everything else yields a single-frame source.
// A missing file surfaces as an fs.ErrNotExist-wrapping error.
func Decode(path string) (model.FrameSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imaging: open %s: %w", path, err)
	}
	defer f.Close()

	if IsAnimated(path) {
		g, err := gif.DecodeAll(f)
		if err != nil {
			return nil, fmt.Errorf("imaging: decode gif %s: %w", path, err)
		}
		return newGIFSource(g), nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imaging: decode %s: %w", path, err)
	}
	return NewStaticSource(img), nil
}

// staticSource yields a single decoded frame.
type staticSource struct {
	img image.Image
	pos int
}

// NewStaticSource wraps a decoded still image as a one-frame source.
func NewStaticSource(img image.Image) model.FrameSource {
	return &staticSource{img: img}
}

func (s *staticSource) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *staticSource) Next() (image.Image, time.Duration, error) {
	if s.pos > 0 {
		return nil, 0, ErrEndOfSequence
	}
	s.pos++
	return s.img, 0, nil
}

func (s *staticSource) Rewind()         { s.pos = 0 }
func (s *staticSource) FrameCount() int { return 1 }

// gifSource walks a decoded GIF sequentially, compositing each paletted
// frame onto a persistent canvas so every yielded frame is a full image
// regardless of per-frame cropping and disposal.
type gifSource struct {
	g      *gif.GIF
	pos    int
	canvas *image.RGBA
	// prev holds the canvas state to restore for DisposalPrevious frames.
	prev *image.RGBA
}

func newGIFSource(g *gif.GIF) *gifSource {
	return &gifSource{g: g, canvas: image.NewRGBA(gifBounds(g))}
}

func gifBounds(g *gif.GIF) image.Rectangle {
	if g.Config.Width > 0 && g.Config.Height > 0 {
		return image.Rect(0, 0, g.Config.Width, g.Config.Height)
	}
	if len(g.Image) > 0 {
		return g.Image[0].Bounds()
	}
	return image.Rect(0, 0, 1, 1)
}

func (s *gifSource) Size() (int, int) {
	b := s.canvas.Bounds()
	return b.Dx(), b.Dy()
}

func (s *gifSource) FrameCount() int { return len(s.g.Image) }

func (s *gifSource) Rewind() {
	s.pos = 0
	s.canvas = image.NewRGBA(s.canvas.Bounds())
	s.prev = nil
}

func (s *gifSource) Next() (image.Image, time.Duration, error) {
	if s.pos >= len(s.g.Image) {
		return nil, 0, ErrEndOfSequence
	}

	frame := s.g.Image[s.pos]

	disposal := byte(gif.DisposalNone)
	if s.pos < len(s.g.Disposal) {
		disposal = s.g.Disposal[s.pos]
	}
	if disposal == gif.DisposalPrevious {
		s.prev = cloneRGBA(s.canvas)
	}

	draw.Draw(s.canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
	out := cloneRGBA(s.canvas)

	// Apply this frame's disposal so the canvas is ready for the next one.
	switch disposal {
	case gif.DisposalBackground:
		draw.Draw(s.canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		if s.prev != nil {
			s.canvas = s.prev
			s.prev = nil
		}
	}

	delay := model.DefaultFrameDelay
	if s.pos < len(s.g.Delay) && s.g.Delay[s.pos] > 0 {
		// GIF delays are in hundredths of a second.
		delay = time.Duration(s.g.Delay[s.pos]) * 10 * time.Millisecond
	}

	s.pos++
	return out, delay, nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
