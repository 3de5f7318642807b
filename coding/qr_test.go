// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, 21, Version(1).Size())
	assert.Equal(t, 177, Version(40).Size())
	assert.Equal(t, "7", Version(7).String())
	assert.Panics(t, func() { Version(0).Size() })
	assert.Panics(t, func() { Version(41).Size() })

	for v, want := range map[Version]int{1: 0, 9: 0, 10: 1, 26: 1, 27: 2, 40: 2} {
		assert.Equal(t, want, v.SizeClass(), "version %v", v)
	}
	for v, want := range map[Version]int{1: 26, 2: 44, 7: 196, 14: 581, 21: 1156, 40: 3706} {
		assert.Equal(t, want, v.RawCodewords(), "version %v", v)
	}
	for l, want := range [4]int{19, 16, 13, 9} {
		assert.Equal(t, want, Version(1).DataCodewords(Level(l)), "level %v", Level(l))
	}
	assert.Equal(t, 1276*8, Version(40).DataBits(H))
	assert.Equal(t, 2956*8, Version(40).DataBits(L))
}

func TestAlignPos(t *testing.T) {
	for v, want := range map[Version][]int{
		1:  nil,
		2:  {6, 18},
		6:  {6, 34},
		7:  {6, 22, 38},
		14: {6, 26, 46, 66},
		32: {6, 34, 60, 86, 112, 138},
		36: {6, 24, 50, 76, 102, 128, 154},
		40: {6, 30, 58, 86, 114, 142, 170},
	} {
		assert.Equal(t, want, v.AlignPos(), "version %v", v)
	}
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "LMQH", L.String()+M.String()+Q.String()+H.String())
	assert.Equal(t, "4", Level(4).String())
	assert.Equal(t, [4]uint32{1, 0, 3, 2},
		[4]uint32{L.formatBits(), M.formatBits(), Q.formatBits(), H.formatBits()})
	assert.Panics(t, func() { Level(-1).Check() })
	assert.Panics(t, func() { Level(4).Check() })
}

func TestMask(t *testing.T) {
	assert.Equal(t, "auto", AutoMask.String())
	assert.Equal(t, "5", Mask(5).String())
	assert.NotPanics(t, func() { Mask(7).Check() })
	assert.Panics(t, func() { Mask(8).Check() })
	assert.Panics(t, func() { AutoMask.Check() })
}

func TestBits(t *testing.T) {
	b := NewBits(4)
	b.Write(1, 1)
	b.Write(0b101, 3)
	b.Write(0xff, 8)
	assert.Equal(t, 12, b.Bits())
	assert.PanicsWithValue(t, "qr: fractional byte", func() { b.Bytes() })
	b.Write(0, 4)
	assert.Equal(t, []byte{0xdf, 0xf0}, b.Bytes())
	b.Write(0, 0)
	assert.Equal(t, 16, b.Bits())
	b.Write(0x123456, 24)
	b.Write(0b010, 3)
	b.Write(0, 5)
	assert.Equal(t, []byte{0xdf, 0xf0, 0x12, 0x34, 0x56, 0x40}, b.Bytes())

	b.Reset()
	assert.Equal(t, 0, b.Bits())
	assert.Empty(t, b.Bytes())

	for _, w := range []struct {
		v    uint32
		nbit int
	}{{2, 1}, {0, 32}, {0, -1}, {1 << 31, 31}} {
		assert.Panics(t, func() { b.Write(w.v, w.nbit) }, "Write(%#x, %d)", w.v, w.nbit)
	}
}

func TestModeCountLength(t *testing.T) {
	want := map[Mode][3]int{
		Numeric:      {10, 12, 14},
		Alphanumeric: {9, 11, 13},
		Byte:         {8, 16, 16},
		Kanji:        {8, 10, 12},
		ECI:          {0, 0, 0},
	}
	for m, w := range want {
		got := [3]int{m.CountLength(1), m.CountLength(10), m.CountLength(27)}
		assert.Equal(t, w, got, "mode %v", m)
	}
	assert.Equal(t, [5]uint32{1, 2, 4, 8, 7}, [5]uint32{
		Numeric.Indicator(), Alphanumeric.Indicator(), Byte.Indicator(),
		Kanji.Indicator(), ECI.Indicator(),
	})
	assert.Equal(t, "alphanumeric", Alphanumeric.String())
}

func TestCharsets(t *testing.T) {
	assert.True(t, IsNumeric(""))
	assert.True(t, IsNumeric("0123456789"))
	assert.False(t, IsNumeric("12a"))
	assert.True(t, IsAlphanumeric("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"))
	for _, s := range []string{"a", "#", "@", "[", ";", "\x00", "\xff", "Ü"} {
		assert.False(t, IsAlphanumeric(s), "%q", s)
	}
}

func TestMakeNumeric(t *testing.T) {
	s := MakeNumeric("01234567")
	assert.Equal(t, Numeric, s.Mode)
	assert.Equal(t, 8, s.Count)
	assert.Equal(t, 27, s.NBits)
	assert.Equal(t, []byte{0x03, 0x15, 0x98, 0x60}, s.Data)

	for n, bits := range []int{0, 4, 7, 10, 14} {
		assert.Equal(t, bits, MakeNumeric(strings.Repeat("9", n)).NBits, "n=%d", n)
	}
	assert.Panics(t, func() { MakeNumeric("12x") })
}

func TestMakeAlphanumeric(t *testing.T) {
	s := MakeAlphanumeric("AC-42")
	assert.Equal(t, Alphanumeric, s.Mode)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 28, s.NBits)
	// 462 in 11 bits, 1849 in 11 bits, 2 in 6 bits.
	assert.Equal(t, []byte{0x39, 0xdc, 0xe4, 0x20}, s.Data)
	assert.Panics(t, func() { MakeAlphanumeric("abc") })
}

func TestMakeBytes(t *testing.T) {
	in := []byte("Hi!")
	s := MakeBytes(in)
	in[0] = 'X'
	assert.Equal(t, []byte("Hi!"), s.Data)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 24, s.NBits)
}

func TestMakeECI(t *testing.T) {
	for _, tt := range []struct {
		v    int
		data []byte
		bits int
	}{
		{3, []byte{0x03}, 8},
		{127, []byte{0x7f}, 8},
		{200, []byte{0x80, 0xc8}, 16},
		{999999, []byte{0xcf, 0x42, 0x3f}, 24},
	} {
		s := MakeECI(tt.v)
		assert.Equal(t, ECI, s.Mode)
		assert.Equal(t, 0, s.Count)
		assert.Equal(t, tt.bits, s.NBits, "eci %d", tt.v)
		assert.Equal(t, tt.data, s.Data, "eci %d", tt.v)
	}
	assert.Panics(t, func() { MakeECI(-1) })
	assert.Panics(t, func() { MakeECI(1000000) })
}

func TestNewSegment(t *testing.T) {
	s := NewSegment(Byte, 1, []byte{0xab, 0xcd}, 8)
	assert.Equal(t, []byte{0xab}, s.Data)
	assert.PanicsWithValue(t, "qr: kanji mode not supported", func() {
		NewSegment(Kanji, 1, []byte{0, 0}, 13)
	})
	assert.Panics(t, func() { NewSegment(Byte, 2, []byte{1}, 16) })
	assert.Panics(t, func() { NewSegment(Mode(9), 0, nil, 0) })
}

func TestBufferSize(t *testing.T) {
	for _, tt := range []struct {
		mode Mode
		n    int
		want int
	}{
		{Numeric, 0, 0},
		{Numeric, 8, 4},
		{Numeric, 3, 2},
		{Alphanumeric, 5, 4},
		{Alphanumeric, 2, 2},
		{Byte, 3, 3},
		{Kanji, 2, 4},
		{ECI, 0, 3},
	} {
		n, ok := BufferSize(tt.mode, tt.n)
		assert.True(t, ok)
		assert.Equal(t, tt.want, n, "%v %d", tt.mode, tt.n)
	}
	_, ok := BufferSize(Byte, -1)
	assert.False(t, ok)
	_, ok = BufferSize(Numeric, math.MaxInt)
	assert.False(t, ok)
	_, ok = BufferSize(Byte, math.MaxInt/8+1)
	assert.False(t, ok)
	assert.Panics(t, func() { BufferSize(ECI, 1) })
}

func TestTotalBits(t *testing.T) {
	segs := []Segment{MakeECI(26), MakeBytes([]byte("abc"))}
	n, ok := TotalBits(segs, 1)
	assert.True(t, ok)
	assert.Equal(t, 4+8+4+8+24, n)

	big := []Segment{MakeBytes(make([]byte, 256))}
	_, ok = TotalBits(big, 9)
	assert.False(t, ok)
	n, ok = TotalBits(big, 10)
	assert.True(t, ok)
	assert.Equal(t, 4+16+2048, n)
}

func TestCodewordsKnown(t *testing.T) {
	data, v, l, err := Codewords([]Segment{MakeNumeric("01234567")}, M, 1, 1, false)
	require.NoError(t, err)
	assert.Equal(t, Version(1), v)
	assert.Equal(t, M, l)
	assert.Equal(t, []byte{
		0x10, 0x20, 0x0c, 0x56, 0x61, 0x80, 0xec, 0x11,
		0xec, 0x11, 0xec, 0x11, 0xec, 0x11, 0xec, 0x11,
	}, data)
}

func TestCodewordsEmpty(t *testing.T) {
	data, v, l, err := Codewords(nil, L, 1, 40, false)
	require.NoError(t, err)
	assert.Equal(t, Version(1), v)
	assert.Equal(t, L, l)
	require.Len(t, data, 19)
	assert.Equal(t, []byte{0x00, 0xec, 0x11, 0xec}, data[:4])
}

func TestCodewordsMinVersion(t *testing.T) {
	data, v, _, err := Codewords([]Segment{MakeBytes([]byte("x"))}, L, 5, 40, false)
	require.NoError(t, err)
	assert.Equal(t, Version(5), v)
	assert.Len(t, data, Version(5).DataCodewords(L))
}

func TestCodewordsGrows(t *testing.T) {
	// 17 bytes fit 1-L (19 data bytes) but not 1-M (16).
	segs := []Segment{MakeBytes(make([]byte, 17))}
	_, v, l, err := Codewords(segs, M, 1, 40, false)
	require.NoError(t, err)
	assert.Equal(t, Version(2), v)
	assert.Equal(t, M, l)

	_, v, l, err = Codewords(segs, L, 1, 40, false)
	require.NoError(t, err)
	assert.Equal(t, Version(1), v)
	assert.Equal(t, L, l)
}

func TestCodewordsBoost(t *testing.T) {
	// 74 bits: fits 1-Q (104 bits) but not 1-H (72).
	segs := []Segment{MakeAlphanumeric("HELLO WORLD")}
	_, v, l, err := Codewords(segs, L, 1, 40, true)
	require.NoError(t, err)
	assert.Equal(t, Version(1), v)
	assert.Equal(t, Q, l)

	_, _, l, err = Codewords(segs, L, 1, 40, false)
	require.NoError(t, err)
	assert.Equal(t, L, l)
}

func TestCodewordsCapacity(t *testing.T) {
	_, _, _, err := Codewords([]Segment{MakeBytes(make([]byte, 1277))}, H, 1, 40, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataTooLong))
	var ce *CapacityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 10236, ce.Used)
	assert.Equal(t, 10208, ce.Capacity)
	assert.Equal(t, "qr: data length = 10236 bits, max capacity = 10208 bits", err.Error())

	// The largest fitting payload.
	data, v, _, err := Codewords([]Segment{MakeBytes(make([]byte, 1273))}, H, 1, 40, false)
	require.NoError(t, err)
	assert.Equal(t, Version(40), v)
	assert.Len(t, data, 1276)
}

func TestCodewordsSegmentTooLong(t *testing.T) {
	_, _, _, err := Codewords([]Segment{MakeBytes(make([]byte, 65536))}, L, 1, 40, false)
	assert.Equal(t, ErrSegmentTooLong, err)
	assert.True(t, errors.Is(err, ErrDataTooLong))

	// 256 bytes need a 16 bit count field, which starts at version 10.
	_, _, _, err = Codewords([]Segment{MakeBytes(make([]byte, 256))}, L, 1, 9, false)
	assert.Equal(t, ErrSegmentTooLong, err)
}

func TestCodewordsInvalid(t *testing.T) {
	assert.Panics(t, func() { Codewords(nil, L, 5, 4, false) })
	assert.Panics(t, func() { Codewords(nil, L, 0, 4, false) })
	assert.Panics(t, func() { Codewords(nil, Level(7), 1, 4, false) })
}
