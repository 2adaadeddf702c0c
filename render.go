package bitblit

import (
	"context"
	"fmt"
	"image"

	"github.com/bodgit/bitblit/render"
	"github.com/bodgit/bitblit/surface"
)

// LayerRef places a named image as one layer of a composite.
type LayerRef struct {
	Name string
	render.Placement
	NoBounds bool
}

// Render composites the named images onto dst, back to front. See
// render.Renderer.DrawImages.
func (l *Library) Render(ctx context.Context, dst surface.Surface, layers []LayerRef, area *image.Rectangle) (render.Result, error) {
	sources := make([]render.LayerSource, 0, len(layers))
	for _, ref := range layers {
		p, err := l.Find(ref.Name)
		if err != nil {
			return render.Result{}, fmt.Errorf("%s: %w", ref.Name, err)
		}
		sources = append(sources, render.LayerSource{
			Image:     p,
			Placement: ref.Placement,
			NoBounds:  ref.NoBounds,
		})
	}
	return l.renderer.DrawImages(ctx, dst, sources, area)
}

// Draw draws the named image onto dst at (x, y). See
// render.Renderer.DrawImage.
func (l *Library) Draw(ctx context.Context, dst surface.Surface, name string, x, y int, opts *render.Options) (render.Result, error) {
	p, err := l.Find(name)
	if err != nil {
		return render.Result{}, fmt.Errorf("%s: %w", name, err)
	}
	return l.renderer.DrawImage(ctx, dst, p, x, y, opts)
}
