/*
Package palette decides how the stored pixel codes of an image map onto the
colors of the surface it is drawn on.

An image either carries its own palette or it doesn't; when it doesn't, a
Policy picks a default table from the image bit depth and the capabilities of
the destination surface, or returns nil to have the codes written as-is.
*/
package palette

import (
	"github.com/bodgit/bitblit/surface"
)

// Target is the part of a surface a Policy may consult.
type Target interface {
	BitsPerPixel() int
	Foreground() surface.Color
	Background() surface.Color
	DevicePalette() bool
}

// Policy chooses the palette for an image of the given bit depth that has no
// palette of its own. A nil result means stored values are used directly.
type Policy interface {
	Palette(bpp int, t Target) []surface.Color
}

// PolicyFunc adapts a function to a Policy.
type PolicyFunc func(bpp int, t Target) []surface.Color

// Palette calls f(bpp, t).
func (f PolicyFunc) Palette(bpp int, t Target) []surface.Color {
	return f(bpp, t)
}

// DefaultPolicy applies the following rules, first match wins:
//
//   - 1 bpp images use [background, foreground].
//   - 2 bpp images on surfaces deeper than 8 bpp blend from background to
//     foreground in four steps.
//   - 4 and 8 bpp images on device palette surfaces use the fixed 16 and 256
//     color device tables, or on an 8 bpp device palette surface a 4 bpp image
//     is remapped onto the 256 color indices.
//   - Otherwise stored values are used directly.
var DefaultPolicy Policy = PolicyFunc(defaultPalette)

// DirectPolicy never supplies a palette.
var DirectPolicy Policy = PolicyFunc(func(int, Target) []surface.Color { return nil })

func defaultPalette(bpp int, t Target) []surface.Color {
	switch {
	case bpp == 1:
		return []surface.Color{t.Background(), t.Foreground()}
	case bpp == 2 && t.BitsPerPixel() > 8:
		return []surface.Color{
			t.Background(),
			Blend(t, 85),
			Blend(t, 171),
			t.Foreground(),
		}
	case !t.DevicePalette():
		return nil
	case t.BitsPerPixel() == 8 && bpp == 4:
		return remap4to8[:]
	}
	return Device(t.BitsPerPixel(), bpp)
}

// Blend mixes the background and foreground colors of t; amount runs from 0
// (all background) to 256 (all foreground).
func Blend(t Target, amount int) surface.Color {
	bpp := t.BitsPerPixel()
	switch bpp {
	case 12, 16, 24, 32:
	default:
		if amount >= 128 {
			return t.Foreground()
		}
		return t.Background()
	}
	bg := surface.RGBA(bpp, t.Background(), nil)
	fg := surface.RGBA(bpp, t.Foreground(), nil)
	mix := func(a, b uint8) uint8 {
		return uint8((int(a)*(256-amount) + int(b)*amount) >> 8)
	}
	return surface.FromRGB(bpp, mix(bg.R, fg.R), mix(bg.G, fg.G), mix(bg.B, fg.B))
}
