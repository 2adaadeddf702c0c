package surface

import (
	"image/color"
	"math/bits"

	"tinygo.org/x/drivers/pixel"
)

// RGBA converts a native color at the given bit depth to sRGB. lookup, if
// non-nil, maps paletted values to RGB565 first.
func RGBA(bpp int, c Color, lookup []Color) color.RGBA {
	if bpp <= 8 && len(lookup) > 0 {
		return rgb565(lookup[int(c)&(len(lookup)-1)])
	}
	switch bpp {
	case 1:
		return pixel.Monochrome(c&1 != 0).RGBA()
	case 12:
		return pixel.RGB444BE(c & 0xfff).RGBA()
	case 16:
		return rgb565(c)
	case 24, 32:
		return pixel.RGB888{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c)}.RGBA()
	}
	// Plain grey ramp for unpaletted low depths
	v := uint8(uint32(c&Color(mask(bpp))) * 255 / mask(bpp))
	return color.RGBA{R: v, G: v, B: v, A: 0xff}
}

func rgb565(c Color) color.RGBA {
	return pixel.RGB565BE(bits.ReverseBytes16(uint16(c))).RGBA()
}

// FromRGB packs 8-bit channels into a native color at the given bit depth.
// Depths without a direct RGB encoding pick white or black depending on
// brightness.
func FromRGB(bpp int, r, g, b uint8) Color {
	switch bpp {
	case 12:
		return Color(pixel.NewRGB444BE(r, g, b))
	case 16:
		return Color(bits.ReverseBytes16(uint16(pixel.NewRGB565BE(r, g, b))))
	case 24:
		c := pixel.NewRGB888(r, g, b)
		return Color(uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B))
	case 32:
		return 0xff000000 | FromRGB(24, r, g, b)
	}
	if int(r)+int(g)+int(b) >= 384 {
		return Color(mask(bpp))
	}
	return 0
}
