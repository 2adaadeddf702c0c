package surface

import (
	"image"

	"tinygo.org/x/drivers"
)

// Display adapts a TinyGo display driver to a Surface. Native colors are
// converted to RGBA on every write, so the surface bit depth only decides how
// images without a palette are interpreted.
type Display struct {
	state
	dev drivers.Displayer
}

// NewDisplay wraps dev. The clip rectangle starts as the whole display.
func NewDisplay(dev drivers.Displayer, opts Options) (*Display, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	w, h := dev.Size()
	return &Display{
		state: newState(opts, image.Rect(0, 0, int(w), int(h))),
		dev:   dev,
	}, nil
}

// SetPixel forwards the write to the driver.
func (d *Display) SetPixel(x, y int, c Color) {
	if x < 0 || y < 0 || x > MaxCoord || y > MaxCoord {
		return
	}
	d.dev.SetPixel(int16(x), int16(y), RGBA(d.opts.BPP, c, d.opts.Lookup))
}

// Flush pushes the driver buffer to the screen if anything has been modified
// since the last flush.
func (d *Display) Flush() error {
	if _, ok := d.Modified(true); !ok {
		return nil
	}
	return d.dev.Display()
}
