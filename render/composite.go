package render

import (
	"context"
	"fmt"
	"image"

	"github.com/bodgit/bitblit/bitmap"
	"github.com/bodgit/bitblit/surface"
)

// LayerSource is one entry of a composite.
type LayerSource struct {
	Image bitmap.Source
	Placement
	// NoBounds leaves the layer out of the default scan area
	NoBounds bool
}

// DrawImages composites layers onto dst in a single pass. layers are ordered
// back to front; for each destination pixel the frontmost layer with an
// opaque sample wins and pixels with no opaque sample are left alone.
//
// The scan covers area, or if that is nil the union of the layer bounds.
// Every layer is parsed and placed before anything is drawn; one bad layer
// fails the whole composite.
func (r *Renderer) DrawImages(ctx context.Context, dst surface.Surface, layers []LayerSource, area *image.Rectangle) (Result, error) {
	if n := r.maxLayers(); len(layers) > n {
		return Result{}, ConfigError(fmt.Sprintf("%d layers, at most %d allowed", len(layers), n))
	}

	var stack [DefaultMaxLayers]Layer
	ls := stack[:0]
	if len(layers) > len(stack) {
		ls = make([]Layer, 0, len(layers))
	}

	var bounds image.Rectangle
	for i, src := range layers {
		d, err := r.parse(dst, src.Image)
		if err != nil {
			return Result{}, fmt.Errorf("render: layer %d: %w", i, err)
		}
		defer d.Release()

		ls = ls[:i+1]
		if err := ls[i].init(d, src.Placement); err != nil {
			return Result{}, fmt.Errorf("render: layer %d: %w", i, err)
		}
		if !src.NoBounds {
			bounds = bounds.Union(ls[i].Bounds())
		}
	}

	if area != nil {
		bounds = area.Canon()
	}
	bounds = bounds.Intersect(dst.Clip())
	if len(ls) == 0 || bounds.Empty() {
		return Result{}, nil
	}

	r.logf("Compositing %d layers over %v", len(ls), bounds)

	for i := range ls {
		ls[i].Start(bounds.Min.X, bounds.Min.Y)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if ctx.Err() != nil {
			r.logf("Composite interrupted at row %d", y)
			return done(dst, bounds, y, true)
		}
		for i := range ls {
			ls[i].StartRow()
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			for i := len(ls) - 1; i >= 0; i-- {
				if c, ok := ls[i].Sample(); ok {
					dst.SetPixel(x, y, c)
					break
				}
			}
			for i := range ls {
				ls[i].NextX()
			}
		}
		for i := range ls {
			ls[i].NextY()
		}
	}

	return done(dst, bounds, bounds.Max.Y, false)
}
