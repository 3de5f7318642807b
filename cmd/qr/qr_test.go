// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixdj/qrencode"
)

func TestRGBASet(t *testing.T) {
	defer func() { g.colSet = false }()
	for s, want := range map[string]rgba{
		"Navy Blue": {0x00, 0x00, 0x80, 0xff},
		"f00":       {0xff, 0x00, 0x00, 0xff},
		"f008":      {0xff, 0x00, 0x00, 0x88},
		"123456":    {0x12, 0x34, 0x56, 0xff},
		"12345678":  {0x12, 0x34, 0x56, 0x78},
	} {
		var c rgba
		require.NoError(t, c.Set(s, nil), s)
		assert.Equal(t, want, c, s)
	}
	var c rgba
	assert.Error(t, c.Set("12345", nil))
	assert.Error(t, c.Set("chartreuse-ish", nil))

	assert.Equal(t, "black", (&rgba{0, 0, 0, 0xff}).String())
	assert.Equal(t, "white", (&rgba{0xff, 0xff, 0xff, 0xff}).String())
	assert.Equal(t, "123456", (&rgba{0x12, 0x34, 0x56, 0xff}).String())
	assert.Equal(t, "12345678", (&rgba{0x12, 0x34, 0x56, 0x78}).String())
}

func testCode(t *testing.T) *qr.Code {
	c, err := qr.EncodeText("https://example.com/", qr.DefaultOptions)
	require.NoError(t, err)
	return c
}

func TestRandr(t *testing.T) {
	defer func() { g.cx, g.inc = 0, [2]int{1, 1} }()
	orig := testCode(t)
	siz := orig.Size

	c := *orig
	assert.Same(t, &c, randr(&c))
	assert.True(t, c.Equal(&orig.Code))

	flip()
	c = *orig
	randr(&c)
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			require.Equal(t, orig.Black(siz-1-x, y), c.Black(x, y), "flip (%d,%d)", x, y)
		}
	}

	flip()
	rotate()
	c = *orig
	randr(&c)
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; x++ {
			require.Equal(t, orig.Black(siz-1-y, x), c.Black(x, y), "rotate (%d,%d)", x, y)
		}
	}

	// Four rotations are the identity.
	rotate()
	rotate()
	rotate()
	assert.Equal(t, 0, g.cx)
	assert.Equal(t, [2]int{1, 1}, g.inc)
}

func TestEPS(t *testing.T) {
	c := testCode(t)
	c.Scale, c.Border = 4, 4
	var b bytes.Buffer
	require.NoError(t, eps(c, &b))
	s := b.String()
	assert.True(t, strings.HasPrefix(s, "%!PS-Adobe-2.0 EPSF-2.0\n"))
	assert.Contains(t, s, "4 dup neg scale\n")
	assert.True(t, strings.HasSuffix(s, "%%Trailer\n"))
	// One row command per QR row.
	rows := 0
	for _, l := range strings.Split(s, "\n") {
		if l == "r" || strings.HasSuffix(l, " r") {
			rows++
		}
	}
	assert.Equal(t, c.Size, rows)
	// The first row starts with a finder pattern.
	assert.Contains(t, s, "newpath 0 0 moveto\n7 0 p ")
}

func TestEncoders(t *testing.T) {
	c := testCode(t)
	c.Scale, c.Border = 1, 0
	require.Len(t, encoders, len(formats)/2)
	for i, enc := range encoders {
		var b bytes.Buffer
		require.NoError(t, enc(c, &b), formats[2*i])
		assert.NotZero(t, b.Len(), formats[2*i])
	}
}
