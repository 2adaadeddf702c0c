package palette

import (
	"image/color"

	"github.com/bodgit/bitblit/surface"
)

// Surface is what ToColor needs to know about a destination.
type Surface interface {
	Target
	ColorOrder() surface.ColorOrder
}

func swap(o surface.ColorOrder, r, g, b uint8) (uint8, uint8, uint8) {
	switch o {
	case surface.BRG:
		return b, r, g
	case surface.BGR:
		return b, g, r
	case surface.GBR:
		return g, b, r
	case surface.GRB:
		return g, r, b
	case surface.RBG:
		return r, b, g
	}
	return r, g, b
}

// ToColor converts c to the native color of s, honouring its channel order.
// Paletted 4 and 8 bpp device palette surfaces get the index of the nearest
// device palette entry.
func ToColor(s Surface, c color.Color) surface.Color {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	r, g, b := swap(s.ColorOrder(), rgba.R, rgba.G, rgba.B)

	bpp := s.BitsPerPixel()
	if s.DevicePalette() && (bpp == 4 || bpp == 8) {
		return surface.Color(Nearest(Device(16, bpp), r, g, b))
	}
	return surface.FromRGB(bpp, r, g, b)
}

// Nearest returns the index of the RGB565 entry in p closest to the given
// color.
func Nearest(p []surface.Color, r, g, b uint8) int {
	best, index := -1, 0
	for i, c := range p {
		e := surface.RGBA(16, c, nil)
		dr := int(e.R) - int(r)
		dg := int(e.G) - int(g)
		db := int(e.B) - int(b)
		if d := dr*dr + dg*dg + db*db; best < 0 || d < best {
			best, index = d, i
		}
	}
	return index
}
