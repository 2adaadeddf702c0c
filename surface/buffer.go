package surface

import (
	"fmt"
	"image"
	"image/color"

	"github.com/bodgit/bitblit/internal/bitio"
)

// Buffer is an in-memory surface. Pixels are packed MSB-first into rows of
// whole bytes, the same layout the packed image format uses, so a Buffer can
// be snapshotted into an image cheaply.
//
// Buffer also implements image.Image so it can be handed to an encoder.
type Buffer struct {
	state
	width, height int
	stride        int
	pix           []byte
}

// NewBuffer allocates a width by height surface.
func NewBuffer(width, height int, opts Options) (*Buffer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || width > MaxCoord || height > MaxCoord {
		return nil, ResourceError(fmt.Sprintf("%dx%d", width, height))
	}
	stride := bitio.Stride(width, opts.BPP)
	b := &Buffer{
		state:  newState(opts, image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
		stride: stride,
		pix:    make([]byte, stride*height),
	}
	return b, nil
}

// Size returns the dimensions of the surface.
func (b *Buffer) Size() (int, int) {
	return b.width, b.height
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int {
	return b.stride
}

// Bytes returns the backing pixel rows. The slice is shared with the surface.
func (b *Buffer) Bytes() []byte {
	return b.pix
}

func (b *Buffer) offset(x, y int) int {
	return y*b.stride<<3 + x*b.opts.BPP
}

// SetPixel sets the pixel at (x, y). Writes outside the surface are ignored;
// the clip rectangle is the caller's concern.
func (b *Buffer) SetPixel(x, y int, c Color) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	bitio.Set(b.pix, b.offset(x, y), b.opts.BPP, uint32(c))
}

// Pixel returns the pixel at (x, y), or zero if it lies outside the surface.
func (b *Buffer) Pixel(x, y int) Color {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0
	}
	return Color(bitio.Get(b.pix, b.offset(x, y), b.opts.BPP))
}

// Clear fills the whole surface with c, ignoring the clip rectangle, and
// marks it modified.
func (b *Buffer) Clear(c Color) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.SetPixel(x, y, c)
		}
	}
	b.MarkModified(b.Bounds())
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	return color.RGBAModel
}

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color {
	return RGBA(b.opts.BPP, b.Pixel(x, y), b.opts.Lookup)
}
