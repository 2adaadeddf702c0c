package bitmap

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/bitblit/internal/bitio"
	"github.com/bodgit/bitblit/palette"
	"github.com/bodgit/bitblit/surface"
	"github.com/ericpauley/go-quantize/quantize"
)

var (
	errTooBig         = errors.New("bitmap: image is too large to pack")
	errTransparent    = errors.New("bitmap: transparent color must fit in a byte")
	errPaletteSize    = errors.New("bitmap: inline palette must have 2^bpp entries")
	errPaletteColor   = errors.New("bitmap: inline palette colors must fit in 16 bits")
	errNoTransparency = errors.New("bitmap: transparency needs bpp of 8 or less")
)

// Pack converts o into the packed wire format.
func Pack(o Object) (Packed, error) {
	d, err := o.descriptor()
	if err != nil {
		return nil, err
	}

	if d.Width > maxPackedSize || d.Height > maxPackedSize {
		return nil, errTooBig
	}

	header := []byte{byte(d.Width), byte(d.Height), byte(d.BPP)}

	if d.HasTransparent {
		if d.Transparent > 0xff {
			return nil, errTransparent
		}
		header[2] |= flagTransparent
		header = append(header, byte(d.Transparent))
	}

	if d.Palette != nil {
		if d.BPP > 8 || len(d.Palette) != 1<<uint(d.BPP) {
			return nil, errPaletteSize
		}
		header[2] |= flagPalette
		var tmp [2]byte
		for _, c := range d.Palette {
			if c > 0xffff {
				return nil, errPaletteColor
			}
			binary.LittleEndian.PutUint16(tmp[:], uint16(c))
			header = append(header, tmp[:]...)
		}
	}

	n := d.Stride * d.Height
	p := make(Packed, 0, len(header)+n)
	p = append(p, header...)
	p = append(p, d.Buffer[:n]...)

	return p, nil
}

// EncodeOptions are the parameters for Encode.
type EncodeOptions struct {
	// BPP defaults to 8
	BPP int
	// Transparent reserves code 0 for pixels that are less than half opaque.
	Transparent bool
	// NoPalette omits the inline palette. 1 and 2 bpp images are then stored
	// as grey levels for the surface to blend between background and
	// foreground, 4 and 8 bpp images as indices into the device palettes.
	NoPalette bool
}

func (o *EncodeOptions) bpp() int {
	if o == nil || o.BPP == 0 {
		return 8
	}
	return o.BPP
}

func grey(bpp int, c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 24
	return y * (uint32(1)<<uint(bpp) - 1) / 0xff
}

func rgb(c color.Color) (uint8, uint8, uint8) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R, n.G, n.B
}

// Encode writes the Image m to w in the packed format.
func Encode(w io.Writer, m image.Image, o *EncodeOptions) error {
	b := m.Bounds()
	if b.Dx() > maxPackedSize || b.Dy() > maxPackedSize {
		return errTooBig
	}

	bpp := o.bpp()
	transparent := o != nil && o.Transparent
	if transparent && bpp > 8 {
		return errNoTransparency
	}

	obj := Object{
		Width:  b.Dx(),
		Height: b.Dy(),
		BPP:    bpp,
		Buffer: make([]byte, bitio.Stride(b.Dx(), bpp)*b.Dy()),
	}
	if transparent {
		var zero uint32
		obj.Transparent = &zero
	}

	var code func(color.Color) uint32

	switch {
	case bpp > 8:
		code = func(c color.Color) uint32 {
			r, g, b := rgb(c)
			if bpp == 32 {
				_, _, _, a := c.RGBA()
				return uint32(a>>8)<<24 | uint32(surface.FromRGB(24, r, g, b))
			}
			return uint32(surface.FromRGB(bpp, r, g, b))
		}
	case o != nil && o.NoPalette && bpp <= 2:
		code = func(c color.Color) uint32 {
			return grey(bpp, c)
		}
	case o != nil && o.NoPalette:
		device := palette.Device(16, bpp)
		code = func(c color.Color) uint32 {
			r, g, b := rgb(c)
			return uint32(palette.Nearest(device, r, g, b))
		}
	default:
		p := colors(m, bpp, transparent)
		obj.Palette = make([]surface.Color, 1<<uint(bpp))
		for i, c := range p {
			r, g, b := rgb(c)
			obj.Palette[i] = surface.FromRGB(16, r, g, b)
		}
		code = func(c color.Color) uint32 {
			if transparent {
				return uint32(p[1:].Index(c)) + 1
			}
			return uint32(p.Index(c))
		}
	}

	off := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.At(x, y)
			if _, _, _, a := c.RGBA(); transparent && a < 0x8000 {
				bitio.Set(obj.Buffer, off, bpp, 0)
			} else {
				bitio.Set(obj.Buffer, off, bpp, code(c))
			}
			off += bpp
		}
		// Realign to the start of the next row
		off = (off + 7) &^ 7
	}

	p, err := Pack(obj)
	if err != nil {
		return err
	}
	_, err = w.Write(p)
	return err
}

// colors picks at most 2^bpp colors for m, using the palette of m directly
// if it is small enough and otherwise quantizing. If transparent is set the
// first entry is reserved.
func colors(m image.Image, bpp int, transparent bool) color.Palette {
	n := 1 << uint(bpp)
	if transparent {
		n--
	}

	var p color.Palette
	if cp, ok := m.ColorModel().(color.Palette); ok && len(cp) <= n {
		p = append(p, cp...)
	} else {
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(make(color.Palette, 0, n), m)
	}

	// Palette.Index needs at least one entry
	if len(p) == 0 {
		p = append(p, color.Black)
	}
	if transparent {
		p = append(color.Palette{color.Transparent}, p...)
	}
	return p
}
