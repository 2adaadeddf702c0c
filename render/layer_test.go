package render

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/bodgit/bitblit/bitmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptor(t *testing.T, w, h int, codes ...byte) *bitmap.Descriptor {
	t.Helper()
	d, err := bitmap.Parse(bitmap.Object{Width: w, Height: h, BPP: 8, Buffer: codes})
	require.Nil(t, err)
	return d
}

// scan samples every pixel of the layer bounds, -1 for nothing
func scan(l *Layer) [][]int {
	b := l.Bounds()
	l.Start(b.Min.X, b.Min.Y)
	var rows [][]int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		l.StartRow()
		var row []int
		for x := b.Min.X; x < b.Max.X; x++ {
			if c, ok := l.Sample(); ok {
				row = append(row, int(c))
			} else {
				row = append(row, -1)
			}
			l.NextX()
		}
		rows = append(rows, row)
		l.NextY()
	}
	return rows
}

func TestLayerIdentity(t *testing.T) {
	d := descriptor(t, 3, 2, 1, 2, 3, 4, 5, 6)
	l, err := NewLayer(d, Placement{X: 10, Y: 20})
	require.Nil(t, err)
	assert.Equal(t, image.Rect(10, 20, 13, 22), l.Bounds())
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}}, scan(l))
}

func TestLayerScale(t *testing.T) {
	d := descriptor(t, 2, 1, 7, 8)
	l, err := NewLayer(d, Placement{Scale: 2})
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), l.Bounds())
	assert.Equal(t, [][]int{{7, 7, 8, 8}, {7, 7, 8, 8}}, scan(l))

	for _, scale := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		l, err := NewLayer(d, Placement{Scale: scale})
		require.Nil(t, err)
		assert.Equal(t, image.Rect(0, 0, 2, 1), l.Bounds(), "scale %v", scale)
		assert.Equal(t, [][]int{{7, 8}}, scan(l), "scale %v", scale)
	}
}

func TestLayerCenter(t *testing.T) {
	d := descriptor(t, 4, 2, make([]byte, 8)...)
	l, err := NewLayer(d, Placement{X: 10, Y: 10, Center: true})
	require.Nil(t, err)
	assert.Equal(t, image.Rect(8, 9, 12, 11), l.Bounds())

	// A quarter turn swaps the footprint
	l, err = NewLayer(d, Placement{X: 10, Y: 10, Center: true, Rotate: math.Pi / 2})
	require.Nil(t, err)
	assert.Equal(t, image.Rect(9, 8, 11, 12), l.Bounds())
}

func TestLayerFullTurn(t *testing.T) {
	d := descriptor(t, 3, 2, 1, 2, 3, 4, 5, 6)
	l, err := NewLayer(d, Placement{X: 4, Y: 4, Rotate: 2 * math.Pi})
	require.Nil(t, err)
	assert.Equal(t, image.Rect(4, 4, 7, 6), l.Bounds())
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}}, scan(l))
}

func TestLayerRotate(t *testing.T) {
	tables := []struct {
		name   string
		width  int
		height int
		codes  []byte
		rotate float64
		bounds image.Rectangle
		want   [][]int
	}{
		{
			name:   "quarter turn",
			width:  3,
			height: 2,
			codes:  []byte{1, 2, 3, 4, 5, 6},
			rotate: math.Pi / 2,
			bounds: image.Rect(0, 0, 2, 3),
			want:   [][]int{{4, 1}, {5, 2}, {6, 3}},
		},
		{
			name:   "half turn",
			width:  3,
			height: 2,
			codes:  []byte{1, 2, 3, 4, 5, 6},
			rotate: math.Pi,
			bounds: image.Rect(0, 0, 3, 2),
			want:   [][]int{{6, 5, 4}, {3, 2, 1}},
		},
		{
			name:   "three quarter turn",
			width:  3,
			height: 2,
			codes:  []byte{1, 2, 3, 4, 5, 6},
			rotate: 3 * math.Pi / 2,
			bounds: image.Rect(0, 0, 2, 3),
			want:   [][]int{{3, 6}, {2, 5}, {1, 4}},
		},
		{
			name:   "single row half turn",
			width:  3,
			height: 1,
			codes:  []byte{1, 2, 3},
			rotate: math.Pi,
			bounds: image.Rect(0, 0, 3, 1),
			want:   [][]int{{3, 2, 1}},
		},
		{
			name:   "square quarter turn",
			width:  2,
			height: 2,
			codes:  []byte{1, 2, 3, 4},
			rotate: math.Pi / 2,
			bounds: image.Rect(0, 0, 2, 2),
			want:   [][]int{{3, 1}, {4, 2}},
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			d := descriptor(t, table.width, table.height, table.codes...)
			l, err := NewLayer(d, Placement{Rotate: table.rotate})
			require.Nil(t, err)
			assert.Equal(t, table.bounds, l.Bounds())
			assert.Equal(t, table.want, scan(l))
		})
	}
}

func TestLayerRepeat(t *testing.T) {
	d := descriptor(t, 2, 2, 1, 2, 3, 4)
	l, err := NewLayer(d, Placement{X: 1, Repeat: true})
	require.Nil(t, err)

	l.Start(0, 0)
	var got [][]int
	for y := 0; y < 4; y++ {
		l.StartRow()
		var row []int
		for x := 0; x < 5; x++ {
			c, ok := l.Sample()
			require.True(t, ok)
			row = append(row, int(c))
			l.NextX()
		}
		got = append(got, row)
		l.NextY()
	}
	assert.Equal(t, [][]int{
		{2, 1, 2, 1, 2},
		{4, 3, 4, 3, 4},
		{2, 1, 2, 1, 2},
		{4, 3, 4, 3, 4},
	}, got)
}

func TestLayerOutside(t *testing.T) {
	d := descriptor(t, 2, 2, 1, 2, 3, 4)
	l, err := NewLayer(d, Placement{X: 1, Y: 1})
	require.Nil(t, err)

	l.Start(0, 0)
	l.StartRow()
	_, ok := l.Sample()
	assert.False(t, ok)
	l.NextX()
	_, ok = l.Sample()
	assert.False(t, ok)
	l.NextY()
	l.StartRow()
	l.NextX()
	c, ok := l.Sample()
	assert.True(t, ok)
	assert.EqualValues(t, 1, c)
}

func TestLayerTransparent(t *testing.T) {
	transparent := uint32(2)
	d, err := bitmap.Parse(bitmap.Object{Width: 2, Height: 1, BPP: 8, Transparent: &transparent, Buffer: []byte{1, 2}})
	require.Nil(t, err)
	l, err := NewLayer(d, Placement{})
	require.Nil(t, err)
	assert.Equal(t, [][]int{{1, -1}}, scan(l))
}

func TestLayerErrors(t *testing.T) {
	d := descriptor(t, 2, 2, 1, 2, 3, 4)

	for name, p := range map[string]Placement{
		"nan rotation":      {Rotate: math.NaN()},
		"infinite rotation": {Rotate: math.Inf(-1)},
		"huge footprint":    {Scale: 1e5},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewLayer(d, p)
			var ce ConfigError
			assert.True(t, errors.As(err, &ce), err)
		})
	}
}

func TestWrap(t *testing.T) {
	assert.Equal(t, 0, wrap(0, 512))
	assert.Equal(t, 256, wrap(-256, 512))
	assert.Equal(t, 0, wrap(512, 512))
	assert.Equal(t, 100, wrap(100+512*5, 512))
	assert.Equal(t, 412, wrap(-100-512*5, 512))
}
