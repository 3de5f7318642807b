// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"bytes"
	"math/bits"

	"github.com/unixdj/qrencode/gf256"
)

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row
}

func newCode(siz int) *Code {
	stride := (siz + 7) >> 3
	return &Code{Bitmap: make([]byte, siz*stride), Size: siz, Stride: stride}
}

// Black reports whether the pixel at (x, y) is black.
// Pixels outside the code are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7&^x)) != 0
}

// getBit and setBit access pixel (x, y) of a bitmap with the given
// stride.
func getBit(bm []byte, stride, x, y int) bool {
	return bm[y*stride+x>>3]&(0x80>>uint(x&7)) != 0
}

func setBit(bm []byte, stride, x, y int, black bool) {
	if black {
		bm[y*stride+x>>3] |= 0x80 >> uint(x&7)
	} else {
		bm[y*stride+x>>3] &^= 0x80 >> uint(x&7)
	}
}

// Version returns the version of c, derived from its size.
func (c *Code) Version() Version { return Version((c.Size - 17) / 4) }

// formatHi returns format bits 14 to 10, as read from the pixels
// (0, 8) to (4, 8), with the format mask removed.
func (c *Code) formatHi() uint32 {
	var fb uint32
	for x := 0; x < 5; x++ {
		fb <<= 1
		if c.Black(x, 8) {
			fb |= 1
		}
	}
	return fb ^ formatMask>>10
}

// Level returns the error correction level recorded in the format
// bits of c.
func (c *Code) Level() Level { return Level(c.formatHi()>>3) ^ 1 }

// Mask returns the mask recorded in the format bits of c.
func (c *Code) Mask() Mask { return Mask(c.formatHi() & 7) }

// Equal reports whether c and d have the same size and pixels.
func (c *Code) Equal(d *Code) bool {
	return c.Size == d.Size && bytes.Equal(c.Bitmap, d.Bitmap)
}

// Penalty returns the penalty value for c.  The mask with the lowest
// penalty is chosen.
//
// The total is the sum of four penalties:
//
//   - N1: a row or column run of 5 same-colour pixels scores 3, each
//     further pixel in the run 1
//   - N2: each possibly overlapping 2x2 box of one colour scores 3
//   - N3: a 1:1:3:1:1 dark:light:dark:light:dark pattern with 4 light
//     pixels on either side scores 40; the area outside the code is
//     light
//   - N4: 10 points for every full 5% the share of dark pixels
//     deviates from 50%
//
// https://www.nayuki.io/page/creating-a-qr-code-step-by-step
func (c *Code) Penalty() int {
	siz := c.Size
	p := 0
	for y := 0; y < siz; y++ {
		p += runPenalty(siz, func(x int) bool { return c.Black(x, y) })
	}
	for x := 0; x < siz; x++ {
		p += runPenalty(siz, func(y int) bool { return c.Black(x, y) })
	}

	for y := 0; y < siz-1; y++ {
		for x := 0; x < siz-1; x++ {
			b := c.Black(x, y)
			if b == c.Black(x+1, y) && b == c.Black(x, y+1) &&
				b == c.Black(x+1, y+1) {
				p += penN2
			}
		}
	}

	dark := 0
	for _, b := range c.Bitmap {
		dark += bits.OnesCount8(b)
	}
	total := siz * siz
	d := dark*20 - total*10
	if d < 0 {
		d = -d
	}
	p += ((d+total-1)/total - 1) * penN4
	return p
}

// Penalty points.
const (
	penN1 = 3  // run of 5
	penN2 = 3  // 2x2 box
	penN3 = 40 // finder-like pattern
	penN4 = 10 // per 5% of imbalance
)

// runPenalty returns the N1 and N3 penalties for a row or column of
// siz pixels.
func runPenalty(siz int, black func(i int) bool) int {
	p := 0
	h := finderRuns{size: siz}
	color, run := false, 0
	for i := 0; i < siz; i++ {
		if b := black(i); b == color {
			run++
			if run == 5 {
				p += penN1
			} else if run > 5 {
				p++
			}
		} else {
			h.add(run)
			if !color {
				p += h.count() * penN3
			}
			color, run = b, 1
		}
	}
	return p + h.terminate(color, run)*penN3
}

// finderRuns holds the lengths of the last 7 runs in a row or column,
// most recent first, for detecting finder-like patterns.
type finderRuns struct {
	size int
	h    [7]int
}

// add records a finished run.  The first run is extended by the
// light area before the code.
func (f *finderRuns) add(run int) {
	if f.h[0] == 0 {
		run += f.size
	}
	copy(f.h[1:], f.h[:6])
	f.h[0] = run
}

// count returns 1 if the recorded runs end in a finder-like pattern
// with a light run of 4 on either side, 0 otherwise.
func (f *finderRuns) count() int {
	h := &f.h
	n := h[1]
	if n > 0 && h[2] == n && h[3] == n*3 && h[4] == n && h[5] == n &&
		(h[0] >= n*4 || h[6] >= n*4) {
		return 1
	}
	return 0
}

// terminate finishes the row or column with the light area after the
// code and counts a final pattern.
func (f *finderRuns) terminate(color bool, run int) int {
	if color {
		f.add(run)
		run = 0
	}
	f.add(run + f.size)
	return f.count()
}

// A Plan describes how to construct a QR code
// with a specific version and level.
type Plan struct {
	Version Version // QR code version
	Level   Level   // QR error correction level

	Size   int // number of pixels on a side
	Stride int // number of bytes per row

	Map     []byte // pixel map: 0 is data or checksum, 1 is other
	Pattern []byte // position and alignment boxes, timing, version
}

// NewPlan returns a Plan for a QR code with the given version and
// level.  It panics if either is invalid.
func NewPlan(v Version, l Level) *Plan {
	v.Check()
	l.Check()
	siz := v.Size()
	stride := (siz + 7) >> 3
	p := &Plan{
		Version: v,
		Level:   l,
		Size:    siz,
		Stride:  stride,
		Map:     make([]byte, siz*stride),
		Pattern: make([]byte, siz*stride),
	}

	// Timing markers (overwritten by boxes).
	for i := 0; i < siz; i++ {
		p.set(6, i, i&1 == 0)
		p.set(i, 6, i&1 == 0)
	}

	// Position boxes with their white separators.
	p.finderBox(3, 3)
	p.finderBox(siz-4, 3)
	p.finderBox(3, siz-4)

	// Alignment boxes, except where they would overlap position boxes.
	apos := v.AlignPos()
	last := len(apos) - 1
	for i, x := range apos {
		for j, y := range apos {
			if i == 0 && j == 0 || i == 0 && j == last || i == last && j == 0 {
				continue
			}
			p.alignBox(x, y)
		}
	}

	// Format pixels are reserved here and drawn per mask.
	for i := 0; i < 9; i++ {
		p.reserve(8, i)
		p.reserve(i, 8)
	}
	for i := 0; i < 8; i++ {
		p.reserve(siz-1-i, 8)
		p.reserve(8, siz-1-i)
	}

	// Version pattern: 3x6 pixels at (siz-11, 0) and 6x3 at (0, siz-11).
	if v >= 7 {
		vb := v.bits()
		for i := 0; i < 18; i++ {
			a, b := siz-11+i%3, i/3
			black := vb>>uint(i)&1 != 0
			p.set(a, b, black)
			p.set(b, a, black)
		}
	}

	// One lonely black pixel
	p.set(8, siz-8, true)
	return p
}

// set marks (x, y) as a function pixel of the given colour.
func (p *Plan) set(x, y int, black bool) {
	setBit(p.Map, p.Stride, x, y, true)
	setBit(p.Pattern, p.Stride, x, y, black)
}

// reserve marks (x, y) as a function pixel without changing its colour.
func (p *Plan) reserve(x, y int) {
	setBit(p.Map, p.Stride, x, y, true)
}

// IsData reports whether (x, y) holds data or checksum bits.
func (p *Plan) IsData(x, y int) bool {
	return !getBit(p.Map, p.Stride, x, y)
}

// finderBox draws a position box centred at (x, y) together with
// its separator, clipped to the code.
func (p *Plan) finderBox(x, y int) {
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			xx, yy := x+dx, y+dy
			if xx < 0 || xx >= p.Size || yy < 0 || yy >= p.Size {
				continue
			}
			d := max(abs(dx), abs(dy))
			p.set(xx, yy, d != 2 && d != 4)
		}
	}
}

// alignBox draws an alignment (small) box centred at (x, y).
func (p *Plan) alignBox(x, y int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			p.set(x+dx, y+dy, max(abs(dx), abs(dy)) != 1)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Format information constants.
const (
	formatPoly = 0x537
	formatMask = 0x5412
)

// formatBits returns the 15 format bits for level l and mask m:
// 5 data bits, a BCH(15,5) remainder, xored with formatMask.
func formatBits(l Level, m Mask) uint32 {
	data := l.formatBits()<<3 | uint32(m)
	rem := data
	for i := 0; i < 10; i++ {
		rem = rem<<1 ^ rem>>9*formatPoly
	}
	return (data<<10 | rem) ^ formatMask
}

// bits returns the 18 version bits: 6 data bits and a BCH(18,6)
// remainder.
func (v Version) bits() uint32 {
	rem := uint32(v)
	for i := 0; i < 12; i++ {
		rem = rem<<1 ^ rem>>11*0x1f25
	}
	return uint32(v)<<12 | rem
}

// drawFormat writes both copies of the format bits fb into bm.
func drawFormat(bm []byte, stride, siz int, fb uint32) {
	bit := func(i int) bool { return fb>>uint(i)&1 != 0 }
	for i := 0; i < 6; i++ {
		setBit(bm, stride, 8, i, bit(i))
	}
	setBit(bm, stride, 8, 7, bit(6))
	setBit(bm, stride, 8, 8, bit(7))
	setBit(bm, stride, 7, 8, bit(8))
	for i := 9; i < 15; i++ {
		setBit(bm, stride, 14-i, 8, bit(i))
	}
	for i := 0; i < 8; i++ {
		setBit(bm, stride, siz-1-i, 8, bit(i))
	}
	for i := 8; i < 15; i++ {
		setBit(bm, stride, 8, siz-15+i, bit(i))
	}
	setBit(bm, stride, 8, siz-8, true)
}

// Mask patterns:
//
//	0: ▄▀▄▀▄▀▄▀▄▀▄▀  1: ▄▄▄▄▄▄▄▄▄▄▄▄  2:  ██ ██ ██ ██  3: ▄█▀▄█▀▄█▀▄█▀
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▀▄█▀▄█▀▄█▀▄█
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     █▀▄█▀▄█▀▄█▀▄
//
//	4:    ███   ███  5:  ▄▄▄▄▄ ▄▄▄▄▄  6:    ▄▄▄   ▄▄▄  7: ▄█▄▀ ▀▄█▄▀ ▀
//	   ███   ███         █▀▄▀█ █▀▄▀█      ▄▀▄ █ ▄▀▄ █     ▄▀█▀▄ ▄▀█▀▄
//	      ███   ███      ██▄██ ██▄██      █▄▄▀  █▄▄▀      ▄  ▀██▄  ▀██
var maskFunc = [8]func(x, y int) bool{
	func(x, y int) bool { return (x+y)%2 == 0 },
	func(x, y int) bool { return y%2 == 0 },
	func(x, y int) bool { return x%3 == 0 },
	func(x, y int) bool { return (x+y)%3 == 0 },
	func(x, y int) bool { return (x/3+y/2)%2 == 0 },
	func(x, y int) bool { return x*y%2+x*y%3 == 0 },
	func(x, y int) bool { return (x*y%2+x*y%3)%2 == 0 },
	func(x, y int) bool { return ((x+y)%2+x*y%3)%2 == 0 },
}

// pattern returns the function pixels, the mask over data pixels and
// the format bits for mask m.  Xoring it with the serialised data
// yields the code.
func (p *Plan) pattern(m Mask) []byte {
	m.Check()
	b := make([]byte, len(p.Pattern))
	copy(b, p.Pattern)
	f := maskFunc[m]
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if p.IsData(x, y) && f(x, y) {
				setBit(b, p.Stride, x, y, true)
			}
		}
	}
	drawFormat(b, p.Stride, p.Size, formatBits(p.Level, m))
	return b
}

// AddCheckBytes returns the data codewords followed by the checksum
// bytes, with blocks interleaved for the given version and level.
// It panics unless len(data) is v.DataCodewords(l).
func AddCheckBytes(data []byte, v Version, l Level) []byte {
	nd := v.DataCodewords(l)
	if len(data) != nd {
		panic("qr: wrong data length")
	}
	nblock, check := l.blocks(v), l.checkBytes(v)
	src := make([]byte, v.RawCodewords())
	copy(src, data)

	// Short blocks come first, long blocks carry one more data byte.
	db := nd / nblock
	normal := (db+1)*nblock - nd
	rs := gf256.NewRSEncoder(Field, check)
	dat, chk := src[:nd], src[nd:]
	for i := 0; i < nblock; i++ {
		if i == normal {
			db++
		}
		rs.ECC(dat[:db], chk[:check])
		dat, chk = dat[db:], chk[check:]
	}

	dst := make([]byte, len(src))
	interleave(dst[:nd], src[:nd], nblock)
	interleave(dst[nd:], src[nd:], nblock)
	return dst
}

// interleave interleaves nblock blocks from src to dst, which must be
// of equal length.  Blocks longer by one byte go last.
func interleave(dst, src []byte, nblock int) {
	db := len(src) / nblock
	extra := dst[db*nblock:]
	dst = dst[:db*nblock]
	normal := nblock - len(extra)
	for i := 0; i < nblock; i++ {
		for j, v := range src[:db] {
			dst[j*nblock+i] = v
		}
		src = src[db:]
		if i >= normal {
			extra[i-normal] = src[0]
			src = src[1:]
		}
	}
}

// BitStream reads bits from the underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) *BitStream { return &BitStream{b: b} }

// Bytes returns the data underlying s.
func (s *BitStream) Bytes() []byte { return s.b }

// Done reports whether all bits have been read.
func (s *BitStream) Done() bool { return s.pos == len(s.b)*8 }

// Next returns the next bit from s as 0 or 1.
// Past end of buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}

// Serialise writes bits from s to the data pixels of bitmap in zigzag
// scan order: two columns at a time from the right, alternately
// upwards and downwards, skipping the vertical timing strip.  Pixels
// left over after s is exhausted stay white.  It panics if s doesn't
// fit.
func (p *Plan) Serialise(s *BitStream, bitmap []byte) {
	siz := p.Size
	for right := siz - 1; right >= 1; right -= 2 {
		if right == 6 { // vertical timing strip
			right = 5
		}
		up := (right+1)&2 == 0
		for vert := 0; vert < siz; vert++ {
			y := vert
			if up {
				y = siz - 1 - vert
			}
			for x := right; x > right-2; x-- {
				if p.IsData(x, y) && !s.Done() && s.Next() != 0 {
					setBit(bitmap, p.Stride, x, y, true)
				}
			}
		}
	}
	if !s.Done() {
		panic("qr: internal error")
	}
}

// xor xors a and b into dst.  a and b may not be shorter than dst.
// dst and a or b should not overlap unless they are the same slice.
func xor(dst, a, b []byte) {
	a = a[:len(dst)]
	b = b[:len(dst)]
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

// Compose builds the code for the data codewords at version v and
// level l, as returned by Codewords.  If mask is AutoMask, the mask
// with the lowest penalty is chosen, the lowest numbered on ties.
// Compose panics if the version, level or mask is invalid, or if
// len(data) is not v.DataCodewords(l).
func Compose(data []byte, v Version, l Level, mask Mask) *Code {
	p := NewPlan(v, l)
	if mask != AutoMask {
		mask.Check()
	}
	s := NewBitStream(AddCheckBytes(data, v, l))
	// Now we have the checksum bytes and the data bytes.
	// Construct the bitmap consisting of data and checksum bits.
	dat := make([]byte, len(p.Map))
	p.Serialise(s, dat)

	c := newCode(p.Size)
	if mask != AutoMask {
		xor(c.Bitmap, dat, p.pattern(mask))
		return c
	}
	// Apply masks to the bitmap to construct the actual codes.
	// Choose the code with the smallest penalty.
	best := make([]byte, len(dat)) // best bitmap so far
	pen := 1 << 30                 // largest penalty is < 1<<20
	for m := Mask(0); m < 8; m++ {
		xor(c.Bitmap, dat, p.pattern(m))
		if n := c.Penalty(); n < pen {
			best, pen, c.Bitmap = c.Bitmap, n, best
		}
	}
	c.Bitmap = best
	return c
}
