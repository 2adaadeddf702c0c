package render

import (
	"context"
	"image"
	"math"

	"github.com/bodgit/bitblit/bitmap"
	"github.com/bodgit/bitblit/internal/bitio"
	"github.com/bodgit/bitblit/surface"
)

// DrawImage draws src onto dst at (x, y). With nil opts the image is copied
// 1:1. An unrotated, uncentered image at a whole number scale is drawn by
// replicating source pixels, anything else goes through a Layer.
//
// The image is fully validated before anything is drawn. If ctx is cancelled
// drawing stops at the next row and the result is marked as interrupted.
func (r *Renderer) DrawImage(ctx context.Context, dst surface.Surface, src bitmap.Source, x, y int, opts *Options) (Result, error) {
	d, err := r.parse(dst, src)
	if err != nil {
		return Result{}, err
	}
	defer d.Release()

	if opts == nil {
		r.logf("Drawing %dx%d %d bpp image at (%d,%d)", d.Width, d.Height, d.BPP, x, y)
		return drawScaled(ctx, dst, d, x, y, 1)
	}

	p := Placement{
		X:      x,
		Y:      y,
		Rotate: opts.Rotate,
		Scale:  opts.Scale,
		Center: opts.Center,
	}
	scale := p.scale()

	if opts.Rotate == 0 && !opts.Center && scale == math.Floor(scale) {
		if float64(d.Width)*scale > surface.MaxCoord || float64(d.Height)*scale > surface.MaxCoord {
			return Result{}, ConfigError("image footprint is too large")
		}
		r.logf("Drawing %dx%d %d bpp image at (%d,%d) scaled by %d", d.Width, d.Height, d.BPP, x, y, int(scale))
		return drawScaled(ctx, dst, d, x, y, int(scale))
	}

	var l Layer
	if err := l.init(d, p); err != nil {
		return Result{}, err
	}
	r.logf("Drawing %dx%d %d bpp image at (%d,%d) rotated %g scaled %g", d.Width, d.Height, d.BPP, x, y, p.Rotate, scale)
	return drawLayer(ctx, dst, &l)
}

// done marks the rows above y of area as modified.
func done(dst surface.Surface, area image.Rectangle, y int, interrupted bool) (Result, error) {
	res := Result{
		Modified:    image.Rect(area.Min.X, area.Min.Y, area.Max.X, y).Intersect(area),
		Interrupted: interrupted,
	}
	if !res.Modified.Empty() {
		dst.MarkModified(res.Modified)
	}
	return res, nil
}

// drawScaled streams the source rows in order, writing each pixel as an s by
// s block. Each source row is read s times by rewinding the cursor. With s of
// 1 this is a plain copy.
func drawScaled(ctx context.Context, dst surface.Surface, d *bitmap.Descriptor, x, y, s int) (Result, error) {
	area := image.Rect(x, y, x+d.Width*s, y+d.Height*s).Intersect(dst.Clip())
	if area.Empty() {
		return Result{}, nil
	}

	br := bitio.NewReader(d.Buffer, 0, d.BPP)
	yp := y
	for row := 0; row < d.Height; row++ {
		start := d.RowOffset(row)
		for iy := 0; iy < s; iy, yp = iy+1, yp+1 {
			if yp < area.Min.Y || yp >= area.Max.Y {
				continue
			}
			if ctx.Err() != nil {
				return done(dst, area, yp, true)
			}
			br.Seek(start)
			xp := x
			for col := 0; col < d.Width; col++ {
				c, ok := d.Color(br.Next())
				if !ok || xp+s <= area.Min.X || xp >= area.Max.X {
					xp += s
					continue
				}
				for ix := 0; ix < s; ix, xp = ix+1, xp+1 {
					if xp >= area.Min.X && xp < area.Max.X {
						dst.SetPixel(xp, yp, c)
					}
				}
			}
		}
	}

	return done(dst, area, area.Max.Y, false)
}

// drawLayer scans the bounding box of l clipped to dst.
func drawLayer(ctx context.Context, dst surface.Surface, l *Layer) (Result, error) {
	area := l.Bounds().Intersect(dst.Clip())
	if area.Empty() {
		return Result{}, nil
	}

	l.Start(area.Min.X, area.Min.Y)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		if ctx.Err() != nil {
			return done(dst, area, y, true)
		}
		l.StartRow()
		for x := area.Min.X; x < area.Max.X; x++ {
			if c, ok := l.Sample(); ok {
				dst.SetPixel(x, y, c)
			}
			l.NextX()
		}
		l.NextY()
	}

	return done(dst, area, area.Max.Y, false)
}
