package render

import (
	"image"
	"math"

	"github.com/bodgit/bitblit/bitmap"
	"github.com/bodgit/bitblit/surface"
)

const (
	fixedShift = 8
	fixedOne   = 1 << fixedShift
	// Sampling bias, just under half a pixel
	fixedBias = fixedOne/2 - 1
)

// Placement positions an image in destination space.
type Placement struct {
	X, Y int
	// Rotate is in radians
	Rotate float64
	// Scale less than or equal to zero, or not finite, means 1
	Scale float64
	// Center anchors the image by its center rather than top-left corner
	Center bool
	// Repeat tiles the image rather than leaving the area outside it
	// transparent
	Repeat bool
}

func (p Placement) scale() float64 {
	if p.Scale <= 0 || math.IsNaN(p.Scale) || math.IsInf(p.Scale, 0) {
		return 1
	}
	return p.Scale
}

// Layer maps destination pixels back to source pixels for one placed image.
// After Start, walk a row with StartRow and repeated Sample/NextX calls, then
// move down with NextY.
type Layer struct {
	d *bitmap.Descriptor

	x1, y1, x2, y2 int

	// Image extent in fixed point
	mx, my int
	// Source step per destination pixel
	sx, sy int
	// Row start position
	px, py int
	// Current position
	qx, qy int

	repeat bool
}

// NewLayer returns a Layer for d placed according to p.
func NewLayer(d *bitmap.Descriptor, p Placement) (*Layer, error) {
	l := new(Layer)
	if err := l.init(d, p); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Layer) init(d *bitmap.Descriptor, p Placement) error {
	if math.IsNaN(p.Rotate) || math.IsInf(p.Rotate, 0) {
		return ConfigError("rotation is not finite")
	}
	scale := p.scale()

	w, h := float64(d.Width), float64(d.Height)
	cos, sin := math.Cos(p.Rotate), math.Sin(p.Rotate)

	fw := 0.5 + scale*(w*math.Abs(cos)+h*math.Abs(sin))
	fh := 0.5 + scale*(w*math.Abs(sin)+h*math.Abs(cos))
	if fw > surface.MaxCoord || fh > surface.MaxCoord {
		return ConfigError("image footprint is too large")
	}
	iw, ih := int(fw), int(fh)

	*l = Layer{
		d:      d,
		x1:     p.X,
		y1:     p.Y,
		mx:     d.Width << fixedShift,
		my:     d.Height << fixedShift,
		sx:     int(math.Round(cos / scale * fixedOne)),
		sy:     int(math.Round(sin / scale * fixedOne)),
		repeat: p.Repeat,
	}

	if p.Center {
		l.x1 -= iw / 2
		l.y1 -= ih / 2
	}
	l.x2 = l.x1 + iw
	l.y2 = l.y1 + ih

	// The center of the first pixel of the bounding box lands on the center
	// of a source pixel, so the box covers the whole image in any direction
	l.px = d.Width*fixedOne/2 - (l.sx*(iw-1)+l.sy*(ih-1))/2 - fixedBias
	l.py = d.Height*fixedOne/2 - (l.sx*(ih-1)-l.sy*(iw-1))/2 - fixedBias
	l.wrap(&l.px, &l.py)

	return nil
}

func wrap(v, m int) int {
	if v < 0 {
		v += m
	}
	if v >= m {
		v -= m
	}
	if v < 0 || v >= m {
		if v %= m; v < 0 {
			v += m
		}
	}
	return v
}

func (l *Layer) wrap(x, y *int) {
	if l.repeat {
		*x = wrap(*x, l.mx)
		*y = wrap(*y, l.my)
	}
}

// Bounds returns the destination rectangle covered by the image, rotated
// and scaled.
func (l *Layer) Bounds() image.Rectangle {
	return image.Rect(l.x1, l.y1, l.x2, l.y2)
}

// Start positions the layer at destination pixel (x, y), which becomes the
// start of the first row.
func (l *Layer) Start(x, y int) {
	dx := x - l.x1
	dy := y - l.y1
	l.px += l.sx*dx + l.sy*dy
	l.py += l.sx*dy - l.sy*dx
	l.wrap(&l.px, &l.py)
}

// StartRow moves the cursor to the start of the current row.
func (l *Layer) StartRow() {
	l.qx, l.qy = l.px, l.py
}

// NextX moves the cursor one destination pixel to the right.
func (l *Layer) NextX() {
	l.qx += l.sx
	l.qy -= l.sy
	l.wrap(&l.qx, &l.qy)
}

// NextY moves the row start one destination pixel down.
func (l *Layer) NextY() {
	l.px += l.sy
	l.py += l.sx
	l.wrap(&l.px, &l.py)
}

// Sample returns the color under the cursor. The second result is false if
// there is nothing to draw; the cursor is outside a non-repeating image or
// the pixel is transparent.
func (l *Layer) Sample() (surface.Color, bool) {
	qx, qy := l.qx+fixedBias, l.qy+fixedBias
	if qx < 0 || qy < 0 {
		return 0, false
	}
	x, y := qx>>fixedShift, qy>>fixedShift
	if l.repeat {
		x %= l.d.Width
		y %= l.d.Height
	} else if x >= l.d.Width || y >= l.d.Height {
		return 0, false
	}
	return l.d.Color(l.d.At(x, y))
}
