// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details.
package coding // import "github.com/unixdj/qrencode/coding"

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/unixdj/qrencode/gf256"
)

var (
	// ErrDataTooLong is matched by every error reporting that data
	// does not fit into the allowed range of versions.
	ErrDataTooLong = errors.New("qr: data too long")

	// ErrSegmentTooLong is returned when a segment's character count
	// cannot be represented in any allowed version, or the content
	// cannot be encoded at all.
	ErrSegmentTooLong = fmt.Errorf("%w: segment too long", ErrDataTooLong)
)

// CapacityError is returned when the data fits the character count
// fields but exceeds the capacity of the largest allowed version.
type CapacityError struct {
	Used     int // bits needed
	Capacity int // bits available at the largest allowed version
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("qr: data length = %d bits, max capacity = %d bits",
		e.Used, e.Capacity)
}

func (e *CapacityError) Unwrap() error { return ErrDataTooLong }

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 pixels on a side.
// Versions run from 1 to 40: the larger the version,
// the more information the code can store.
type Version int

// Version range.
const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

// Check panics if v is not a valid version.
func (v Version) Check() {
	if v < MinVersion || v > MaxVersion {
		panic("qr: invalid version " + strconv.Itoa(int(v)))
	}
}

// Size returns the number of pixels on a side of a code of version v.
func (v Version) Size() int {
	v.Check()
	return int(v)*4 + 17
}

// QR version size classes.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
// The class selects the width of character count fields.
func (v Version) SizeClass() int {
	v.Check()
	return (int(v) + 7) / 17
}

// AlignPos returns the coordinates of alignment pattern centres,
// in ascending order.  Version 1 has none.
func (v Version) AlignPos() []int {
	v.Check()
	if v == 1 {
		return nil
	}
	n := int(v)/7 + 2
	step := 26
	if v != 32 {
		step = (int(v)*4 + n*2 + 1) / (n*2 - 2) * 2
	}
	pos := make([]int, n)
	pos[0] = 6
	for i, p := n-1, v.Size()-7; i > 0; i, p = i-1, p-step {
		pos[i] = p
	}
	return pos
}

// rawModules returns the number of pixels available for data and
// checksum bits, including remainder bits.
func (v Version) rawModules() int {
	v.Check()
	n := int(v)
	r := (16*n+128)*n + 64
	if n >= 2 {
		na := n/7 + 2
		r -= (25*na-10)*na - 55
		if n >= 7 {
			r -= 36
		}
	}
	return r
}

// RawCodewords returns the number of data and checksum bytes in a
// QR code with the given version.
func (v Version) RawCodewords() int { return v.rawModules() / 8 }

// DataCodewords returns the number of data bytes that can be
// stored in a QR code with the given version and level.
func (v Version) DataCodewords(l Level) int {
	return v.RawCodewords() - l.blocks(v)*l.checkBytes(v)
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int { return v.DataCodewords(l) * 8 }

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string {
	if L <= l && l <= H {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// Check panics if l is not a valid level.
func (l Level) Check() {
	if l < L || l > H {
		panic("qr: invalid level " + strconv.Itoa(int(l)))
	}
}

// formatBits returns the two bit level code used in format
// information: L=01, M=00, Q=11, H=10.
func (l Level) formatBits() uint32 { return uint32(l ^ 1) }

func (l Level) blocks(v Version) int {
	l.Check()
	v.Check()
	return int(numBlocks[l][v])
}

func (l Level) checkBytes(v Version) int {
	l.Check()
	v.Check()
	return int(eccPerBlock[l][v])
}

// A Mask selects one of the eight QR mask patterns.
type Mask int

// AutoMask requests the mask with the lowest penalty.
const AutoMask Mask = -1

func (m Mask) String() string {
	if m == AutoMask {
		return "auto"
	}
	return strconv.Itoa(int(m))
}

// Check panics if m is not a valid mask.  AutoMask is not.
func (m Mask) Check() {
	if m < 0 || m > 7 {
		panic("qr: invalid mask " + strconv.Itoa(int(m)))
	}
}

// Bits is an append-only bit buffer.  Bits are written most
// significant first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with capacity for n bytes.
func NewBits(n int) *Bits {
	return &Bits{b: make([]byte, 0, n)}
}

// Reset empties b, retaining the buffer.
func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the number of bits written.
func (b *Bits) Bits() int {
	return b.nbit
}

// Bytes returns the written bytes.  It panics unless a whole number
// of bytes has been written.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

// Write appends the nbit low bits of v to b.  It panics unless
// 0 <= nbit <= 31 and v < 1<<nbit.
func (b *Bits) Write(v uint32, nbit int) {
	if nbit < 0 || nbit > 31 || v>>nbit != 0 {
		panic("qr: invalid bit write")
	}
	if nbit == 0 {
		return
	}
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// A Mode is a QR segment encoding mode.
type Mode int

// Encoding modes.
const (
	Numeric      Mode = iota // digits 0-9
	Alphanumeric             // 0-9, A-Z, space $ % * + - . / :
	Byte                     // any data
	Kanji                    // JIS X 0208; not supported by the encoder
	ECI                      // extended channel interpretation designator
)

var modeNames = [...]string{"numeric", "alphanumeric", "byte", "kanji", "eci"}

func (m Mode) String() string {
	if Numeric <= m && m <= ECI {
		return modeNames[m]
	}
	return strconv.Itoa(int(m))
}

// Indicator returns the 4 bit mode indicator.
func (m Mode) Indicator() uint32 {
	return [...]uint32{1, 2, 4, 8, 7}[m]
}

// countLength lists lengths of the character count field in the
// three QR version size classes.
var countLength = [...][3]int{
	Numeric:      {10, 12, 14},
	Alphanumeric: {9, 11, 13},
	Byte:         {8, 16, 16},
	Kanji:        {8, 10, 12},
	ECI:          {0, 0, 0},
}

// CountLength returns the length of the character count field for
// mode m at version v.
func (m Mode) CountLength(v Version) int {
	return countLength[m][v.SizeClass()]
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table, indexed by byte&0x3f.  Used after
// validation.
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

func isAlpha(c byte) bool {
	return c >= ' ' && c < ' '+64 && alphamask>>(c-' ')&1 != 0
}

// IsNumeric reports whether s consists of digits only.
func IsNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if uint32(s[i]-'0') >= 10 {
			return false
		}
	}
	return true
}

// IsAlphanumeric reports whether every character of s is in the
// alphanumeric mode character set.
func IsAlphanumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isAlpha(s[i]) {
			return false
		}
	}
	return true
}

// A Segment is a mode tagged chunk of packed data.
// Segments are not modified after construction.
type Segment struct {
	Mode  Mode   // encoding mode
	Count int    // character count
	Data  []byte // packed bits, most significant first
	NBits int    // length of Data in bits
}

// NewSegment returns a segment with the given fields.  It panics if
// data holds fewer than nbits bits or mode is Kanji, for which no
// encoder exists.
func NewSegment(mode Mode, count int, data []byte, nbits int) Segment {
	if mode < Numeric || mode > ECI {
		panic("qr: invalid mode " + mode.String())
	}
	if mode == Kanji {
		panic("qr: kanji mode not supported")
	}
	if count < 0 || nbits < 0 || (nbits+7)/8 > len(data) {
		panic("qr: invalid segment")
	}
	d := make([]byte, (nbits+7)/8)
	copy(d, data)
	return Segment{Mode: mode, Count: count, Data: d, NBits: nbits}
}

func newSegment(mode Mode, count int, b *Bits) Segment {
	return Segment{Mode: mode, Count: count, Data: b.b, NBits: b.nbit}
}

// MakeNumeric returns a numeric mode segment for s.
// It panics if s contains a non-digit.
func MakeNumeric(s string) Segment {
	b := NewBits((len(s)*10 + 23) / 24 * 3)
	var acc uint32
	n := 0
	for i := 0; i < len(s); i++ {
		d := uint32(s[i] - '0')
		if d >= 10 {
			panic("qr: non-numeric string " + strconv.Quote(s))
		}
		acc = acc*10 + d
		if n++; n == 3 {
			b.Write(acc, 10)
			acc, n = 0, 0
		}
	}
	if n > 0 {
		b.Write(acc, n*3+1)
	}
	return newSegment(Numeric, len(s), b)
}

// MakeAlphanumeric returns an alphanumeric mode segment for s.
// It panics if s contains a character outside the alphanumeric set.
func MakeAlphanumeric(s string) Segment {
	b := NewBits((len(s)*11 + 15) / 16)
	for i := 0; i < len(s); i++ {
		if !isAlpha(s[i]) {
			panic("qr: non-alphanumeric string " + strconv.Quote(s))
		}
	}
	i := 0
	for ; i+1 < len(s); i += 2 {
		b.Write(uint32(alpha[s[i]&0x3f])*45+uint32(alpha[s[i+1]&0x3f]), 11)
	}
	if i < len(s) {
		b.Write(uint32(alpha[s[i]&0x3f]), 6)
	}
	return newSegment(Alphanumeric, len(s), b)
}

// MakeBytes returns a byte mode segment for data.
func MakeBytes(data []byte) Segment {
	d := make([]byte, len(data))
	copy(d, data)
	return Segment{Mode: Byte, Count: len(d), Data: d, NBits: len(d) * 8}
}

// MakeECI returns a segment setting the extended channel
// interpretation to designator v.  It panics unless 0 <= v < 1000000.
func MakeECI(v int) Segment {
	b := NewBits(3)
	switch {
	case v < 0:
		panic("qr: invalid eci designator " + strconv.Itoa(v))
	case v < 1<<7:
		b.Write(uint32(v), 8)
	case v < 1<<14:
		b.Write(0b10, 2)
		b.Write(uint32(v), 14)
	case v < 1e6:
		b.Write(0b110, 3)
		b.Write(uint32(v), 21)
	default:
		panic("qr: invalid eci designator " + strconv.Itoa(v))
	}
	return newSegment(ECI, 0, b)
}

// BufferSize returns the number of bytes needed to hold the packed
// data of a segment of n characters in the given mode, and false if
// the size overflows.  An ECI segment must have n == 0.
func BufferSize(mode Mode, n int) (int, bool) {
	if n < 0 {
		return 0, false
	}
	var num, den int
	switch mode {
	case Numeric:
		num, den = 10, 3
	case Alphanumeric:
		num, den = 11, 2
	case Byte:
		num, den = 8, 1
	case Kanji:
		num, den = 13, 1
	case ECI:
		if n != 0 {
			panic("qr: eci segment with characters")
		}
		return 3, true
	default:
		panic("qr: invalid mode " + mode.String())
	}
	if n > (math.MaxInt-den+1)/num {
		return 0, false
	}
	bits := (n*num + den - 1) / den
	return (bits + 7) / 8, true
}

// TotalBits returns the encoded length in bits of segs at version v,
// including headers, and false if a character count does not fit its
// field.
func TotalBits(segs []Segment, v Version) (int, bool) {
	n := 0
	for _, s := range segs {
		cl := s.Mode.CountLength(v)
		if s.Count >= 1<<cl {
			return 0, false
		}
		n += 4 + cl + s.NBits
	}
	return n, true
}

// write appends s to b with its header for version v.
func (s Segment) write(b *Bits, v Version) {
	b.Write(s.Mode.Indicator(), 4)
	b.Write(uint32(s.Count), s.Mode.CountLength(v))
	n := s.NBits
	for _, c := range s.Data[:n/8] {
		b.Write(uint32(c), 8)
	}
	if r := n & 7; r != 0 {
		b.Write(uint32(s.Data[n/8]>>(8-r)), r)
	}
}

// Codewords chooses the smallest version in [minv, maxv] that holds
// segs at level l and returns the data codewords, the version and the
// level.  If boost is set, the level is raised as far as the data
// still fits the chosen version.  Codewords returns ErrSegmentTooLong
// if a character count doesn't fit any version in range and a
// *CapacityError if the data doesn't fit maxv.
func Codewords(segs []Segment, l Level, minv, maxv Version, boost bool) ([]byte, Version, Level, error) {
	minv.Check()
	maxv.Check()
	l.Check()
	if minv > maxv {
		panic("qr: invalid version range")
	}

	v := minv
	var used int
	for {
		n, ok := TotalBits(segs, v)
		capacity := v.DataBits(l)
		if ok && n <= capacity {
			used = n
			break
		}
		if v >= maxv {
			if !ok {
				return nil, 0, 0, ErrSegmentTooLong
			}
			return nil, 0, 0, &CapacityError{Used: n, Capacity: capacity}
		}
		v++
	}

	if boost {
		for _, nl := range []Level{M, Q, H} {
			if nl > l && used <= v.DataBits(nl) {
				l = nl
			}
		}
	}

	capacity := v.DataBits(l)
	b := NewBits(capacity / 8)
	for _, s := range segs {
		s.write(b, v)
	}
	if b.Bits() != used {
		panic("qr: internal error")
	}
	// Terminator, byte alignment and pad bytes.
	b.Write(0, min(4, capacity-b.Bits()))
	b.Write(0, -b.Bits()&7)
	for pad := uint32(0xec); b.Bits() < capacity; pad ^= 0xec ^ 0x11 {
		b.Write(pad, 8)
	}
	return b.Bytes(), v, l, nil
}
