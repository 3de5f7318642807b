// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package split splits strings into QR code segments.

Text is split into numeric, alphanumeric and byte mode segments so
that the encoded length, including segment headers, is minimal.  As
the width of character count fields depends on the QR version, the
split is computed for a version size class.
*/
package split // import "github.com/unixdj/qrencode/split"

import (
	"github.com/samber/lo"

	"github.com/unixdj/qrencode/coding"
)

// Segment modes considered, in order of density.
const (
	Numeric      = coding.Numeric
	Alphanumeric = coding.Alphanumeric
	Byte         = coding.Byte

	modes = 3 // number of modes
)

// Bit fields of modes able to encode a byte.
const (
	numModes   = 1<<Numeric | 1<<Alphanumeric | 1<<Byte
	alphaModes = 1<<Alphanumeric | 1<<Byte
	byteModes  = 1 << Byte
)

// Version ranges of size classes.
var classVersions = [3][2]coding.Version{
	coding.Class0: {1, 9},
	coding.Class1: {10, 26},
	coding.Class2: {27, 40},
}

// Versions returns the smallest and the largest version in the given
// size class.  It panics if class is not one of coding.Class0,
// coding.Class1 and coding.Class2.
func Versions(class int) (min, max coding.Version) {
	v := classVersions[class]
	return v[0], v[1]
}

// Length returns the encoded length in bits of a segment of n bytes
// in the given mode at size class class, including the header.
func Length(mode coding.Mode, n, class int) int {
	v, _ := Versions(class)
	h := 4 + mode.CountLength(v)
	switch mode {
	case Numeric:
		return h + (10*n+2)/3
	case Alphanumeric:
		return h + (11*n+1)/2
	case Byte:
		return h + 8*n
	}
	panic("qr: invalid split mode " + mode.String())
}

type (
	// segment describes a segment encoded in a certain mode.
	segment struct {
		next   *segment    // link to next segment in the chain
		start  int         // start of string
		slen   int         // length of string in bytes
		weight int         // encoded size of all segments in the chain
		mode   coding.Mode // encoding mode
	}

	// span describes a span of bytes encodable in the same modes.
	span struct {
		start int            // start of string
		slen  int            // length of string in bytes
		modes byte           // bit field of valid encoding modes
		seg   [modes]segment // segments
	}
)

// modesOf returns the modes able to encode the single byte string c.
func modesOf(c string) byte {
	switch {
	case coding.IsNumeric(c):
		return numModes
	case coding.IsAlphanumeric(c):
		return alphaModes
	}
	return byteModes
}

// classify splits text into spans of bytes encodable in the same
// modes.
func classify(text string) []span {
	var sp []span
	common := ^byte(0) // bit field of modes common to all spans
	for i := 0; i < len(text); i++ {
		m := modesOf(text[i : i+1])
		if len(sp) == 0 || sp[len(sp)-1].modes != m {
			sp = append(sp, span{start: i, modes: m})
			common &= m
		}
		sp[len(sp)-1].slen++
	}
	// Modes common to all spans are never better than the densest
	// one among them.
	mask := ^common | -common
	for i := range sp {
		sp[i].modes &= mask
	}
	return sp
}

/*
split returns the optimal split for the string described by sp at
the given QR version size class.

For last span, for each valid mode j:
  - Create a segment sp[len(sp)-1].seg[j] describing the span
    encoded in mode j.  Calculate the weight (encoded length in
    bits).

Then walk backwards through the rest of the spans.
For each span i, for each valid mode j:
  - For each mode k valid for span i+1, create a segment linking
    to next=sp[i+1].seg[k].  If k==j, merge the segments by
    adding the length of next and linking to next.next instead.
    Calculate the weight of the segment.  If next is not nil, add
    the weight of next to get the combined weight of the chain.
  - From those segments choose the one with the smallest weight.
    Assign it to sp[i].seg[j].

Return the address of the segment in sp[0].seg with the smallest
weight.
*/
func split(sp []span, class int) *segment {
	const Inf = 1 << 30
	if len(sp) == 0 {
		return nil
	}
	for i := len(sp) - 1; i >= 0; i-- {
		v := &sp[i]
		for j := coding.Mode(0); j < modes; j++ {
			seg := &v.seg[j]
			*seg = segment{weight: Inf}
			if v.modes>>j&1 == 0 {
				continue
			}
			c := segment{
				start:  v.start,
				slen:   v.slen,
				weight: Length(j, v.slen, class),
				mode:   j,
			}
			if i == len(sp)-1 {
				*seg = c
				continue
			}
			for k := range sp[i+1].seg {
				next := &sp[i+1].seg[k]
				if next.weight == Inf {
					continue
				}
				cc := c
				cc.next = next
				if next.mode == j {
					cc.slen += next.slen
					cc.next = next.next
					cc.weight = Length(j, cc.slen, class)
				}
				if cc.next != nil {
					cc.weight += cc.next.weight
				}
				if cc.weight < seg.weight {
					*seg = cc
				}
			}
		}
	}

	// Choose the first segment with the smallest weight
	return lo.MinBy(lo.ToSlicePtr(sp[0].seg[:]), func(a, b *segment) bool {
		return a.weight < b.weight
	})
}

// Split returns the segments of the shortest encoding of text at the
// given size class.  Split returns nil for empty text.
func Split(text string, class int) []coding.Segment {
	var segs []coding.Segment
	for seg := split(classify(text), class); seg != nil; seg = seg.next {
		s := text[seg.start : seg.start+seg.slen]
		switch seg.mode {
		case Numeric:
			segs = append(segs, coding.MakeNumeric(s))
		case Alphanumeric:
			segs = append(segs, coding.MakeAlphanumeric(s))
		default:
			segs = append(segs, coding.MakeBytes([]byte(s)))
		}
	}
	return segs
}

// Bits returns the encoded length in bits of Split(text, class).
func Bits(text string, class int) int {
	if seg := split(classify(text), class); seg != nil {
		return seg.weight
	}
	return 0
}
