// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/unixdj/qrencode/coding"
)

// A Charset is a character encoding of byte mode data, announced by
// an ECI segment.
type Charset int

// Supported character sets.
const (
	UTF8     Charset = iota // UTF-8, ECI 26
	Latin1                  // ISO 8859-1, ECI 3
	ShiftJIS                // Shift JIS, ECI 20
	UTF16BE                 // UTF-16 big endian, ECI 25
)

// ECI designators.
const (
	Latin1ECI   = 3
	ShiftJISECI = 20
	UTF16BEECI  = 25
	UTF8ECI     = 26
)

var charsets = [...]struct {
	name string
	eci  int
	enc  encoding.Encoding // nil for UTF-8
}{
	UTF8:     {"utf-8", UTF8ECI, nil},
	Latin1:   {"latin1", Latin1ECI, charmap.ISO8859_1},
	ShiftJIS: {"shift-jis", ShiftJISECI, japanese.ShiftJIS},
	UTF16BE:  {"utf-16be", UTF16BEECI, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
}

func (cs Charset) valid() bool { return cs >= 0 && int(cs) < len(charsets) }

func (cs Charset) String() string {
	if !cs.valid() {
		return "charset(" + strconv.Itoa(int(cs)) + ")"
	}
	return charsets[cs].name
}

// ECI returns the ECI designator of cs.
func (cs Charset) ECI() int { return charsets[cs].eci }

// ParseCharset returns the charset named s, ignoring case.
// Accepted names are utf-8, latin1, shift-jis and utf-16be, with
// or without dashes.
func ParseCharset(s string) (Charset, error) {
	norm := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), "-", "")
	}
	for i := range charsets {
		if norm(charsets[i].name) == norm(s) {
			return Charset(i), nil
		}
	}
	return 0, errors.Errorf("qr: unknown charset %q", s)
}

// Bytes returns text, which must be UTF-8, converted to cs.
func (cs Charset) Bytes(text string) ([]byte, error) {
	if !cs.valid() {
		return nil, ErrArgs
	}
	enc := charsets[cs].enc
	if enc == nil {
		return []byte(text), nil
	}
	b, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, errors.Wrapf(err, "qr: converting to %s", cs)
	}
	return b, nil
}

// CharsetSegments returns an ECI segment announcing cs followed by a
// byte mode segment holding text converted to cs.
func CharsetSegments(text string, cs Charset) ([]coding.Segment, error) {
	b, err := cs.Bytes(text)
	if err != nil {
		return nil, err
	}
	return []coding.Segment{coding.MakeECI(cs.ECI()), coding.MakeBytes(b)}, nil
}

// EncodeCharset encodes text, which must be UTF-8, as an ECI segment
// designating cs followed by a byte mode segment holding text
// converted to cs.  Conversion errors are returned wrapped.
func EncodeCharset(text string, cs Charset, o Options) (*Code, error) {
	segs, err := CharsetSegments(text, cs)
	if err != nil {
		return nil, err
	}
	return EncodeSegments(segs, o)
}
