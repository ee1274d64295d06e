package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// ImageSurface is the widget the current image or animation frame is painted
// on. It reports its pixel size to the viewer, forwards resize events, and
// turns taps near the left/right edge, scroll wheel ticks and horizontal
// swipes into previous/next navigation.
type ImageSurface struct {
	widget.BaseWidget

	image *canvas.Image

	onResize    func()
	onNavigate  func(delta int)
	onPaint     func(img image.Image)
	onLongPress func()

	gestures *GestureHandler
}

// NewImageSurface creates the paint surface. onNavigate receives -1 for
// previous and +1 for next; onResize fires on every size change; onPaint, if
// set, observes each painted frame.
func NewImageSurface(onNavigate func(delta int), onResize func()) *ImageSurface {
	s := &ImageSurface{
		image:      canvas.NewImageFromImage(nil),
		onNavigate: onNavigate,
		onResize:   onResize,
	}
	s.image.FillMode = canvas.ImageFillContain
	s.image.ScaleMode = canvas.ImageScaleFastest
	s.gestures = NewGestureHandler(s.handleGesture)
	s.ExtendBaseWidget(s)
	return s
}

// SetOnPaint registers an observer for painted frames. The root UI uses it to
// keep the window title in sync with the displayed bitmap.
func (s *ImageSurface) SetOnPaint(fn func(img image.Image)) {
	s.onPaint = fn
}

// SetOnLongPress registers a handler for the touch long-press gesture.
func (s *ImageSurface) SetOnLongPress(fn func()) {
	s.onLongPress = fn
}

// CreateRenderer implements fyne.Widget.
func (s *ImageSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.image)
}

// MinSize implements fyne.Widget.
func (s *ImageSurface) MinSize() fyne.Size {
	return fyne.NewSize(SurfaceMinWidth, SurfaceMinHeight)
}

// Resize implements fyne.Widget.
func (s *ImageSurface) Resize(size fyne.Size) {
	prev := s.Size()
	s.BaseWidget.Resize(size)
	if size != prev && s.onResize != nil {
		s.onResize()
	}
}

// pixelSize returns the surface dimensions in whole pixels, never smaller
// than the widget minimum. Safe to call from any goroutine.
func (s *ImageSurface) pixelSize() (int, int) {
	size := s.BaseWidget.Size()
	w, h := int(size.Width), int(size.Height)
	if w < 1 {
		w = int(SurfaceMinWidth)
	}
	if h < 1 {
		h = int(SurfaceMinHeight)
	}
	return w, h
}

// paintFrame displays a frame. Callers run on worker goroutines, so the
// canvas update is marshalled onto the Fyne thread.
func (s *ImageSurface) paintFrame(img image.Image) {
	fyne.Do(func() {
		s.image.Image = img
		s.image.Refresh()
	})
	if s.onPaint != nil {
		s.onPaint(img)
	}
}

// Viewport adapts the widget to the viewer's surface contract, which clashes
// with the fyne.CanvasObject method set on the widget itself.
func (s *ImageSurface) Viewport() SurfaceViewport {
	return SurfaceViewport{surface: s}
}

// SurfaceViewport exposes an ImageSurface as a paint target for the viewer.
type SurfaceViewport struct {
	surface *ImageSurface
}

// Size returns the viewport dimensions in pixels.
func (v SurfaceViewport) Size() (int, int) {
	return v.surface.pixelSize()
}

// Paint displays a frame on the surface.
func (v SurfaceViewport) Paint(img image.Image) {
	v.surface.paintFrame(img)
}

// Tapped implements fyne.Tappable. A tap within the edge region switches
// image; taps elsewhere are ignored.
func (s *ImageSurface) Tapped(e *fyne.PointEvent) {
	if s.onNavigate == nil {
		return
	}
	width := s.BaseWidget.Size().Width
	if width <= 0 {
		return
	}
	switch {
	case e.Position.X < width*NavRegionFraction:
		s.onNavigate(-1)
	case e.Position.X > width*(1-NavRegionFraction):
		s.onNavigate(1)
	}
}

// Scrolled implements fyne.Scrollable. Wheel down or right moves forward.
func (s *ImageSurface) Scrolled(e *fyne.ScrollEvent) {
	if s.onNavigate == nil {
		return
	}
	if e.Scrolled.DY < 0 || e.Scrolled.DX < 0 {
		s.onNavigate(1)
	} else if e.Scrolled.DY > 0 || e.Scrolled.DX > 0 {
		s.onNavigate(-1)
	}
}

// TouchDown implements mobile.Touchable.
func (s *ImageSurface) TouchDown(e *mobile.TouchEvent) {
	s.gestures.TouchDown(e)
}

// TouchUp implements mobile.Touchable.
func (s *ImageSurface) TouchUp(e *mobile.TouchEvent) {
	s.gestures.TouchUp(e)
}

// TouchCancel implements mobile.Touchable.
func (s *ImageSurface) TouchCancel(e *mobile.TouchEvent) {
	s.gestures.TouchCancel(e)
}

// handleGesture maps touch gestures to navigation. A swipe runs opposite to
// the travel direction, like flipping pages.
func (s *ImageSurface) handleGesture(gesture GestureType) {
	switch gesture {
	case GestureSwipeLeft:
		if s.onNavigate != nil {
			s.onNavigate(1)
		}
	case GestureSwipeRight:
		if s.onNavigate != nil {
			s.onNavigate(-1)
		}
	case GestureLongPress:
		if s.onLongPress != nil {
			s.onLongPress()
		}
	}
}
