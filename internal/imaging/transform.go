package imaging

import (
	"image"
	"image/draw"
	"math"

	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// FitSize fits (w, h) into the bounding box (boxW, boxH) preserving aspect
// ratio. It only ever downscales: a source already inside the box keeps its
// natural size. The second correction step guarantees both dimensions fit.
func FitSize(w, h, boxW, boxH int) (int, int) {
	if w <= boxW && h <= boxH {
		return w, h
	}

	ratio := float64(w) / float64(h)
	var nw, nh int
	if w >= h {
		nw, nh = boxW, int(math.Ceil(float64(boxW)/ratio))
		if nh > boxH {
			nw, nh = int(math.Ceil(float64(boxH)*ratio)), boxH
		}
	} else {
		nw, nh = int(math.Ceil(float64(boxH)*ratio)), boxH
		if nw > boxW {
			nw, nh = boxW, int(math.Ceil(float64(boxW)/ratio))
		}
	}
	return nw, nh
}

// Rotate rotates img clockwise by quadrant*90 degrees. Quadrant 0 returns
// the input unchanged. Axis-aligned affine mapping with nearest-neighbor
// sampling keeps the rotation pixel-exact.
func Rotate(img image.Image, quadrant int) image.Image {
	quadrant = ((quadrant % 4) + 4) % 4
	if quadrant == 0 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	var s2d f64.Aff3
	switch quadrant {
	case 1:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		s2d = f64.Aff3{0, -1, float64(h), 1, 0, 0}
	case 2:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		s2d = f64.Aff3{-1, 0, float64(w), 0, -1, float64(h)}
	default: // 3
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		s2d = f64.Aff3{0, 1, 0, -1, 0, float64(w)}
	}

	xdraw.NearestNeighbor.Transform(dst, s2d, img, b, xdraw.Src, nil)
	return dst
}

// ResizeFrame scales an animation frame to the target dimensions with
// bilinear filtering, the cheaper filter for bulk frame work.
func ResizeFrame(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	return resize.Resize(uint(w), uint(h), img, resize.Bilinear)
}

// ResizeStatic scales a still image to the target dimensions with bicubic
// filtering, favoring quality over throughput for the single-frame path.
func ResizeStatic(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	return resize.Resize(uint(w), uint(h), img, resize.Bicubic)
}

// ToRGBA converts img to the renderable RGBA format the surface expects.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
