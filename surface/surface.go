/*
Package surface defines the pixel surfaces that images are drawn onto.

A surface is written one pixel at a time through SetPixel and carries the small
amount of drawing state the image engine consults: a clip rectangle, the
foreground and background colors, the native bit depth and color ordering, and
an accumulated "modified" rectangle that tells a display driver what needs to
be flushed.

Colors are always surface-native values: an RGB565 word on a 16 bpp surface, a
palette index on a 4 bpp paletted surface, and so on.
*/
package surface

import (
	"fmt"
	"image"
)

// MaxCoord is the largest coordinate a surface or image may use.
const MaxCoord = 32767

// Color is a surface-native pixel value.
type Color uint32

// ColorOrder describes how a surface orders its color channels.
type ColorOrder uint8

// Supported channel orders.
const (
	RGB ColorOrder = iota
	BRG
	BGR
	GBR
	GRB
	RBG
)

// Surface is a destination for pixel writes.
//
// Clip returns the rectangle writes are constrained to; as with
// image.Rectangle, Max is exclusive. MarkModified grows the surface's dirty
// region.
type Surface interface {
	SetPixel(x, y int, c Color)
	Clip() image.Rectangle
	MarkModified(r image.Rectangle)
	BitsPerPixel() int
	Foreground() Color
	Background() Color
	ColorOrder() ColorOrder
	DevicePalette() bool
}

// Reader is a Surface that can also be read back.
type Reader interface {
	Surface
	Bounds() image.Rectangle
	Pixel(x, y int) Color
}

// ResourceError reports a surface that cannot be allocated.
type ResourceError string

func (e ResourceError) Error() string { return "surface: cannot allocate: " + string(e) }

// Options configure a surface.
type Options struct {
	// BPP is the native bit depth; 1, 2, 4, 8, 12, 16, 24 or 32.
	BPP   int
	Order ColorOrder
	// DevicePalette selects the fixed device palettes for paletted images.
	DevicePalette bool
	// Lookup optionally maps native values of a paletted (8 bpp or less)
	// surface to RGB565 when converting to RGBA.
	Lookup []Color
}

func (o Options) validate() error {
	switch o.BPP {
	case 1, 2, 4, 8, 12, 16, 24, 32:
		return nil
	}
	return fmt.Errorf("surface: unsupported bit depth %d", o.BPP)
}

// state is the drawing state shared by every surface implementation.
type state struct {
	opts     Options
	clip     image.Rectangle
	modified image.Rectangle
	fg, bg   Color
}

func newState(opts Options, bounds image.Rectangle) state {
	return state{
		opts: opts,
		clip: bounds,
		fg:   Color(mask(opts.BPP)),
	}
}

func mask(bpp int) uint32 {
	if bpp >= 32 {
		return 0xffffffff
	}
	return uint32(1)<<uint(bpp) - 1
}

// BitsPerPixel returns the native bit depth.
func (s *state) BitsPerPixel() int { return s.opts.BPP }

// ColorOrder returns the channel ordering.
func (s *state) ColorOrder() ColorOrder { return s.opts.Order }

// DevicePalette reports whether the fixed device palettes apply.
func (s *state) DevicePalette() bool { return s.opts.DevicePalette }

// Foreground returns the current foreground color.
func (s *state) Foreground() Color { return s.fg }

// Background returns the current background color.
func (s *state) Background() Color { return s.bg }

// SetForeground sets the foreground color.
func (s *state) SetForeground(c Color) { s.fg = c & Color(mask(s.opts.BPP)) }

// SetBackground sets the background color.
func (s *state) SetBackground(c Color) { s.bg = c & Color(mask(s.opts.BPP)) }

// Clip returns the current clip rectangle.
func (s *state) Clip() image.Rectangle { return s.clip }

// SetClip sets the clip rectangle. Like the rest of the package r is
// half-open, so an inclusive (x1,y1)-(x2,y2) becomes image.Rect(x1, y1,
// x2+1, y2+1).
func (s *state) SetClip(r image.Rectangle) { s.clip = r.Canon() }

// MarkModified adds r to the modified region.
func (s *state) MarkModified(r image.Rectangle) {
	s.modified = s.modified.Union(r)
}

// Modified returns the region modified since the last reset, or false if
// nothing has been touched. If reset is set the region is cleared.
func (s *state) Modified(reset bool) (image.Rectangle, bool) {
	r := s.modified
	if reset {
		s.modified = image.Rectangle{}
	}
	return r, !r.Empty()
}
