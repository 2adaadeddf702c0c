package palette

import (
	"github.com/bodgit/bitblit/surface"
)

// Apple Macintosh 16 color palette
var mac16 = [16]surface.Color{
	0x0000, 0x4228, 0x8c51, 0xbdd7, 0x9b26, 0x6180, 0x0320, 0x0540,
	0x04df, 0x0019, 0x3013, 0xf813, 0xd800, 0xfb20, 0xffe0, 0xffff,
}

var mac16x12 = [16]surface.Color{
	0x0000, 0x0444, 0x0888, 0x0bbb, 0x0963, 0x0630, 0x0060, 0x00a0,
	0x009f, 0x000c, 0x0309, 0x0f09, 0x0d00, 0x0f60, 0x0ff0, 0x0fff,
}

// Indices of the nearest web-safe color for each mac16 entry
var remap4to8 = [16]surface.Color{0, 43, 129, 172, 121, 78, 12, 18, 23, 4, 39, 183, 144, 192, 210, 215}

var (
	web256    = webSafe(16)
	web256x12 = webSafe(12)
)

// webSafe builds the 216 color web-safe cube, index r*36+g*6+b, padded out to
// 256 entries with black and a final white.
func webSafe(bpp int) (p [256]surface.Color) {
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[r*36+g*6+b] = surface.FromRGB(bpp, uint8(r*51), uint8(g*51), uint8(b*51))
			}
		}
	}
	p[255] = surface.FromRGB(bpp, 0xff, 0xff, 0xff)
	return
}

// Device returns the fixed palette for bpp bit images on a device palette
// surface of the given depth, or nil if there isn't one. The returned slice
// is shared and must not be modified.
func Device(depth, bpp int) []surface.Color {
	switch {
	case depth == 16 && bpp == 4:
		return mac16[:]
	case depth == 16 && bpp == 8:
		return web256[:]
	case depth == 12 && bpp == 4:
		return mac16x12[:]
	case depth == 12 && bpp == 8:
		return web256x12[:]
	}
	return nil
}
