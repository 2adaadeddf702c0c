package bitblit

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/bitblit/bank"
	"github.com/bodgit/bitblit/bitmap"
	"github.com/bodgit/bitblit/render"
	"github.com/bodgit/bitblit/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func checkerboard() *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	m.SetColorIndex(0, 0, 1)
	m.SetColorIndex(1, 1, 1)
	return m
}

func writePNG(t *testing.T, file string, m image.Image) {
	t.Helper()
	require.Nil(t, os.MkdirAll(filepath.Dir(file), 0o755))
	f, err := os.Create(file)
	require.Nil(t, err)
	defer f.Close()
	require.Nil(t, png.Encode(f, m))
}

func writeGIF(t *testing.T, file string, m image.Image) {
	t.Helper()
	require.Nil(t, os.MkdirAll(filepath.Dir(file), 0o755))
	f, err := os.Create(file)
	require.Nil(t, err)
	defer f.Close()
	require.Nil(t, gif.Encode(f, m, nil))
}

func writeBMP(t *testing.T, file string, m image.Image) {
	t.Helper()
	require.Nil(t, os.MkdirAll(filepath.Dir(file), 0o755))
	f, err := os.Create(file)
	require.Nil(t, err)
	defer f.Close()
	require.Nil(t, bmp.Encode(f, m))
}

func newLibrary(t *testing.T, logger *log.Logger) *Library {
	t.Helper()
	l, err := New(filepath.Join(t.TempDir(), "test.db"), logger)
	require.Nil(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestImport(t *testing.T) {
	buf := new(bytes.Buffer)
	l := newLibrary(t, log.New(buf, "", 0))

	file := filepath.Join(t.TempDir(), "checker.png")
	writePNG(t, file, checkerboard())

	require.Nil(t, l.Import(file, "checker", 1))

	names, err := l.Names()
	require.Nil(t, err)
	assert.Equal(t, []string{"checker"}, names)

	p, err := l.Find("checker")
	require.Nil(t, err)
	d, err := bitmap.Parse(p)
	require.Nil(t, err)
	assert.Equal(t, 2, d.Width)
	assert.Equal(t, 2, d.Height)
	assert.Equal(t, 1, d.BPP)
	assert.Equal(t, uint32(1), d.At(0, 0))
	assert.Equal(t, uint32(0), d.At(1, 0))

	// Same file, same depth
	require.Nil(t, l.Import(file, "checker", 1))
	assert.Contains(t, buf.String(), "Skipping")

	// Different depth replaces the image
	require.Nil(t, l.Import(file, "checker", 8))
	p, err = l.Find("checker")
	require.Nil(t, err)
	d, err = bitmap.Parse(p)
	require.Nil(t, err)
	assert.Equal(t, 8, d.BPP)

	names, err = l.Names()
	require.Nil(t, err)
	assert.Len(t, names, 1)

	_, err = l.Find("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestImportBMP(t *testing.T) {
	l := newLibrary(t, nil)

	m := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if x == y {
				m.Set(x, y, color.White)
			} else {
				m.Set(x, y, color.Black)
			}
		}
	}
	file := filepath.Join(t.TempDir(), "checker.bmp")
	writeBMP(t, file, m)

	require.Nil(t, l.Import(file, "checker", 1))

	p, err := l.Find("checker")
	require.Nil(t, err)
	d, err := bitmap.Parse(p)
	require.Nil(t, err)
	assert.Equal(t, 2, d.Width)
	assert.Equal(t, 2, d.Height)
	assert.Equal(t, 1, d.BPP)
	assert.Equal(t, d.At(0, 0), d.At(1, 1))
	assert.Equal(t, d.At(1, 0), d.At(0, 1))
	assert.NotEqual(t, d.At(0, 0), d.At(1, 0))
}

func TestImportErrors(t *testing.T) {
	l := newLibrary(t, nil)
	dir := t.TempDir()

	assert.NotNil(t, l.Import(filepath.Join(dir, "missing.png"), "missing", 1))

	file := filepath.Join(dir, "notes.png")
	require.Nil(t, os.WriteFile(file, []byte("not an image"), 0o644))
	assert.NotNil(t, l.Import(file, "notes", 1))

	big := filepath.Join(dir, "big.png")
	writePNG(t, big, image.NewGray(image.Rect(0, 0, 300, 1)))
	assert.NotNil(t, l.Import(big, "big", 1))

	names, err := l.Names()
	require.Nil(t, err)
	assert.Empty(t, names)
}

func TestScan(t *testing.T) {
	l := newLibrary(t, nil)
	dir := t.TempDir()

	writePNG(t, filepath.Join(dir, "a.png"), checkerboard())
	writeGIF(t, filepath.Join(dir, "sub", "b.gif"), checkerboard())
	writePNG(t, filepath.Join(dir, ".hidden", "c.png"), checkerboard())
	writePNG(t, filepath.Join(dir, ".d.png"), checkerboard())
	require.Nil(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	require.Nil(t, l.Scan(dir, 4))

	names, err := l.Names()
	require.Nil(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	// Scanning again changes nothing
	require.Nil(t, l.Scan(dir, 4))

	assert.NotNil(t, l.Scan(filepath.Join(dir, "missing"), 4))
	assert.NotNil(t, l.Scan(filepath.Join(dir, "a.png"), 4))
}

func TestScanError(t *testing.T) {
	l := newLibrary(t, nil)
	dir := t.TempDir()

	writePNG(t, filepath.Join(dir, "a.png"), checkerboard())
	require.Nil(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("broken"), 0o644))

	assert.NotNil(t, l.Scan(dir, 1))
}

func TestExport(t *testing.T) {
	l := newLibrary(t, nil)
	dir := t.TempDir()

	writePNG(t, filepath.Join(dir, "a.png"), checkerboard())
	writePNG(t, filepath.Join(dir, "b.png"), checkerboard())
	require.Nil(t, l.Scan(dir, 1))

	b := new(bytes.Buffer)
	require.Nil(t, l.Export(b))

	db := bank.New()
	require.Nil(t, db.UnmarshalBinary(b.Bytes()))
	assert.Equal(t, 2, db.Length())

	want, err := l.Find("a")
	require.Nil(t, err)
	got, ok := db.Get("A")
	assert.True(t, ok)
	assert.Equal(t, want, got)

	b.Reset()
	require.Nil(t, l.Export(b, "b"))
	db = bank.New()
	require.Nil(t, db.UnmarshalBinary(b.Bytes()))
	assert.Equal(t, 1, db.Length())

	err = l.Export(b, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRender(t *testing.T) {
	l := newLibrary(t, nil)
	dir := t.TempDir()

	writePNG(t, filepath.Join(dir, "checker.png"), checkerboard())
	require.Nil(t, l.Scan(dir, 1))

	dst, err := surface.NewBuffer(6, 2, surface.Options{BPP: 16})
	require.Nil(t, err)

	res, err := l.Render(context.Background(), dst, []LayerRef{
		{Name: "checker"},
		{Name: "checker", Placement: render.Placement{X: 4}},
	}, nil)
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 2), res.Modified)

	for _, x := range []int{0, 4} {
		assert.Equal(t, surface.Color(0xffff), dst.Pixel(x, 0))
		assert.Equal(t, surface.Color(0x0000), dst.Pixel(x+1, 0))
		assert.Equal(t, surface.Color(0x0000), dst.Pixel(x, 1))
		assert.Equal(t, surface.Color(0xffff), dst.Pixel(x+1, 1))
	}

	_, err = l.Render(context.Background(), dst, []LayerRef{{Name: "missing"}}, nil)
	assert.True(t, errors.Is(err, ErrNotFound))

	dst.Clear(0)
	res, err = l.Draw(context.Background(), dst, "checker", 2, 0, &render.Options{Scale: 2})
	require.Nil(t, err)
	assert.Equal(t, image.Rect(2, 0, 6, 2), res.Modified)
	assert.Equal(t, surface.Color(0xffff), dst.Pixel(3, 1))
	assert.Equal(t, surface.Color(0x0000), dst.Pixel(4, 1))
}
