package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestFitSizeLandscapeIntoSquare(t *testing.T) {
	w, h := FitSize(800, 600, 400, 400)
	if w != 400 || h != 300 {
		t.Errorf("Expected 400x300, got %dx%d", w, h)
	}
}

func TestFitSizePortraitIntoSquare(t *testing.T) {
	w, h := FitSize(600, 800, 400, 400)
	if w != 300 || h != 400 {
		t.Errorf("Expected 300x400, got %dx%d", w, h)
	}
}

func TestFitSizeNarrowBox(t *testing.T) {
	w, h := FitSize(800, 600, 100, 1000)
	if w != 100 || h != 75 {
		t.Errorf("Expected 100x75, got %dx%d", w, h)
	}
	if w > 100 || h > 1000 {
		t.Errorf("Result %dx%d exceeds the box", w, h)
	}
}

func TestFitSizeNeverUpscales(t *testing.T) {
	w, h := FitSize(200, 150, 800, 600)
	if w != 200 || h != 150 {
		t.Errorf("Expected natural size 200x150, got %dx%d", w, h)
	}
}

func TestFitSizeShortBox(t *testing.T) {
	// Wide source into a box limited by height: the second correction
	// step must kick in.
	w, h := FitSize(600, 800, 1000, 100)
	if h != 100 {
		t.Errorf("Expected height clamped to 100, got %d", h)
	}
	if w > 1000 {
		t.Errorf("Width %d exceeds the box", w)
	}
}

// markerImage builds a 2x3 image with a single red pixel at (0,0) so the
// rotation tests can track where a known corner lands.
func markerImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img
}

func isRed(img image.Image, x, y int) bool {
	r, _, _, a := img.At(x, y).RGBA()
	return r > 0x8000 && a > 0x8000
}

func TestRotateQuadrantZeroIsIdentity(t *testing.T) {
	src := markerImage()
	if got := Rotate(src, 0); got != image.Image(src) {
		t.Error("Quadrant 0 should return the input unchanged")
	}
}

func TestRotateQuadrantOne(t *testing.T) {
	got := Rotate(markerImage(), 1)

	b := got.Bounds()
	if b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("Expected 3x2 after 90 degrees, got %dx%d", b.Dx(), b.Dy())
	}
	// Clockwise 90: top-left corner moves to the top-right.
	if !isRed(got, 2, 0) {
		t.Error("Expected marker pixel at (2,0) after clockwise rotation")
	}
}

func TestRotateQuadrantTwo(t *testing.T) {
	got := Rotate(markerImage(), 2)

	b := got.Bounds()
	if b.Dx() != 2 || b.Dy() != 3 {
		t.Fatalf("Expected 2x3 after 180 degrees, got %dx%d", b.Dx(), b.Dy())
	}
	if !isRed(got, 1, 2) {
		t.Error("Expected marker pixel at (1,2) after 180 degree rotation")
	}
}

func TestRotateQuadrantThree(t *testing.T) {
	got := Rotate(markerImage(), 3)

	b := got.Bounds()
	if b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("Expected 3x2 after 270 degrees, got %dx%d", b.Dx(), b.Dy())
	}
	if !isRed(got, 0, 1) {
		t.Error("Expected marker pixel at (0,1) after counter-clockwise rotation")
	}
}

func TestRotateFullTurnRestoresDimensions(t *testing.T) {
	src := markerImage()
	got := Rotate(Rotate(Rotate(Rotate(src, 1), 1), 1), 1)

	if got.Bounds() != src.Bounds() {
		t.Errorf("Four quarter turns changed bounds: %v vs %v", got.Bounds(), src.Bounds())
	}
	if !isRed(got, 0, 0) {
		t.Error("Expected marker pixel back at (0,0) after a full turn")
	}
}

func TestResizeFrame(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	got := ResizeFrame(src, 50, 25)

	b := got.Bounds()
	if b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("Expected 50x25, got %dx%d", b.Dx(), b.Dy())
	}

	// Same dimensions short-circuit to the input.
	if same := ResizeFrame(src, 100, 50); same != image.Image(src) {
		t.Error("Expected no-op resize to return the input image")
	}
}

func TestToRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	got := ToRGBA(gray)
	if got.Bounds().Dx() != 4 || got.Bounds().Dy() != 4 {
		t.Errorf("Expected 4x4 RGBA, got %v", got.Bounds())
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if ToRGBA(rgba) != rgba {
		t.Error("Expected RGBA input to pass through unconverted")
	}
}
