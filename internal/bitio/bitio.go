// Package bitio reads and writes MSB-first bit-packed pixel values.
//
// Values of 8 bits or more are byte aligned and stored big-endian, smaller
// values are packed from the most significant bit of each byte down.
package bitio

// Stride returns the number of bytes needed for a row of width values of bpp
// bits each.
func Stride(width, bpp int) int {
	return (width*bpp + 7) >> 3
}

func mask(bpp int) uint32 {
	if bpp >= 32 {
		return 0xffffffff
	}
	return uint32(1)<<uint(bpp) - 1
}

// Get returns the bpp-bit value starting at bit offset off of b.
func Get(b []byte, off, bpp int) uint32 {
	if bpp&7 == 0 {
		i := off >> 3
		var v uint32
		for n := 0; n < bpp; n += 8 {
			v = v<<8 | uint32(b[i])
			i++
		}
		return v
	}
	if 8%bpp == 0 {
		shift := uint(8 - bpp - off&7)
		return uint32(b[off>>3]>>shift) & mask(bpp)
	}
	// Odd widths may straddle a byte boundary
	var v uint32
	for n := 0; n < bpp; n++ {
		bit := off + n
		v = v<<1 | uint32(b[bit>>3]>>uint(7-bit&7))&1
	}
	return v
}

// Set stores the low bpp bits of v at bit offset off of b.
func Set(b []byte, off, bpp int, v uint32) {
	if bpp&7 == 0 {
		i := off>>3 + bpp>>3 - 1
		for n := 0; n < bpp; n += 8 {
			b[i] = byte(v)
			v >>= 8
			i--
		}
		return
	}
	if 8%bpp == 0 {
		shift := uint(8 - bpp - off&7)
		m := byte(mask(bpp)) << shift
		b[off>>3] = b[off>>3]&^m | byte(v)<<shift&m
		return
	}
	for n := bpp - 1; n >= 0; n-- {
		bit := off + n
		m := byte(0x80) >> uint(bit&7)
		if v&1 != 0 {
			b[bit>>3] |= m
		} else {
			b[bit>>3] &^= m
		}
		v >>= 1
	}
}

// Reader streams consecutive values out of a bit-packed buffer.
type Reader struct {
	b   []byte
	off int
	bpp int
}

// NewReader returns a Reader positioned at bit offset off of b.
func NewReader(b []byte, off, bpp int) Reader {
	return Reader{b: b, off: off, bpp: bpp}
}

// Next returns the value under the cursor and advances past it.
func (r *Reader) Next() uint32 {
	v := Get(r.b, r.off, r.bpp)
	r.off += r.bpp
	return v
}

// Offset returns the current bit offset.
func (r *Reader) Offset() int {
	return r.off
}

// Seek moves the cursor to bit offset off.
func (r *Reader) Seek(off int) {
	r.off = off
}
