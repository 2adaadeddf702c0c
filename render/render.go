/*
Package render draws images onto surfaces.

DrawImage draws one image either 1:1, scaled up by a whole number, or through
the general affine stepper for any rotation and scale. DrawImages composites
a small stack of layers in a single pass, the frontmost opaque sample winning
each destination pixel.

All coordinate stepping is done in 8-bit fixed point; one unit is 1/256 of a
source pixel.
*/
package render

import (
	"context"
	"image"
	"log"

	"github.com/bodgit/bitblit/bitmap"
	"github.com/bodgit/bitblit/palette"
	"github.com/bodgit/bitblit/surface"
)

// DefaultMaxLayers is the number of layers DrawImages accepts unless the
// Renderer says otherwise.
const DefaultMaxLayers = 4

// A ConfigError reports an unusable drawing request.
type ConfigError string

func (e ConfigError) Error() string { return "render: invalid configuration: " + string(e) }

// Options transform a single image. The zero value draws the image at scale 1
// with its top-left corner at the given position.
type Options struct {
	// Rotate is in radians
	Rotate float64
	// Scale less than or equal to zero means 1
	Scale float64
	// Center anchors the image by its center rather than top-left corner
	Center bool
}

// Result describes what a draw did.
type Result struct {
	// Modified is the region that may have been written to
	Modified image.Rectangle
	// Interrupted is set if the context was cancelled part way through
	Interrupted bool
}

// Renderer draws images. The zero value is ready to use.
type Renderer struct {
	// Policy supplies palettes for images without one, nil means
	// palette.DefaultPolicy
	Policy palette.Policy
	// MaxLayers caps DrawImages, zero means DefaultMaxLayers
	MaxLayers int
	// Logger, if set, receives a line per draw
	Logger *log.Logger
}

func (r *Renderer) logf(format string, v ...interface{}) {
	if r.Logger != nil {
		r.Logger.Printf(format, v...)
	}
}

func (r *Renderer) maxLayers() int {
	if r.MaxLayers > 0 {
		return r.MaxLayers
	}
	return DefaultMaxLayers
}

// parse validates src and attaches a default palette if it has none.
func (r *Renderer) parse(dst surface.Surface, src bitmap.Source) (*bitmap.Descriptor, error) {
	d, err := bitmap.Parse(src)
	if err != nil {
		return nil, err
	}
	if d.Palette == nil {
		p := r.Policy
		if p == nil {
			p = palette.DefaultPolicy
		}
		d.Palette = p.Palette(d.BPP, dst)
	}
	return d, nil
}

var defaultRenderer Renderer

// DrawImage draws src with the default Renderer.
func DrawImage(ctx context.Context, dst surface.Surface, src bitmap.Source, x, y int, opts *Options) (Result, error) {
	return defaultRenderer.DrawImage(ctx, dst, src, x, y, opts)
}

// DrawImages composites layers with the default Renderer.
func DrawImages(ctx context.Context, dst surface.Surface, layers []LayerSource, area *image.Rectangle) (Result, error) {
	return defaultRenderer.DrawImages(ctx, dst, layers, area)
}
