package imagepkg

import (
	"image"
	"math"
)

// Rect is a rectangle in source image pixels.
type Rect struct {
	X, Y, W, H float64
}

// CoverRect returns the part of an iw x ih image that, stretched onto a
// w x h target, covers it completely while keeping the image's aspect
// ratio. The excess is cropped evenly from both sides and the result never
// leaves [0, iw] x [0, ih].
func CoverRect(iw, ih, w, h float64) Rect {
	if iw <= 0 || ih <= 0 || w <= 0 || h <= 0 {
		return Rect{}
	}
	r := math.Min(w/iw, h/ih)
	nw, nh := iw*r, ih*r
	ar := 1.0

	// fill whichever gap remains
	if nw < w {
		ar = w / nw
	}
	if math.Abs(ar-1) < 1e-14 && nh < h {
		ar = h / nh
	}
	nw *= ar
	nh *= ar

	cw := iw / (nw / w)
	ch := ih / (nh / h)
	cx := (iw - cw) * 0.5
	cy := (ih - ch) * 0.5

	if cx < 0 {
		cx = 0
	}
	if cy < 0 {
		cy = 0
	}
	if cw > iw {
		cw = iw
	}
	if ch > ih {
		ch = ih
	}
	return Rect{X: cx, Y: cy, W: cw, H: ch}
}

// coverCrop snaps the cover rectangle of src onto whole pixels inside b.
func coverCrop(b image.Rectangle, w, h int) image.Rectangle {
	iw, ih := b.Dx(), b.Dy()
	r := CoverRect(float64(iw), float64(ih), float64(w), float64(h))
	cw := clampInt(int(math.Round(r.W)), 1, iw)
	ch := clampInt(int(math.Round(r.H)), 1, ih)
	cx := clampInt(int(math.Round(r.X)), 0, iw-cw)
	cy := clampInt(int(math.Round(r.Y)), 0, ih-ch)
	return image.Rect(cx, cy, cx+cw, cy+ch).Add(b.Min)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
