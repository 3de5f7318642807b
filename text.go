// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"strings"
)

// Half block characters indexed by top<<1|bottom, 1 meaning the
// foreground colour of the terminal.
var halfBlocks = [4]string{" ", "▄", "▀", "█"}

// dark reports whether pixel (x, y) of c, counted from the outer edge
// of the border, is shown dark.  Pixels past the border are shown
// like the border.
func (c *Code) dark(x, y int) bool {
	d := c.Size + 2*c.Border
	if x < 0 || y < 0 || x >= d || y >= d {
		return c.Reverse
	}
	return c.Black(x-c.Border, y-c.Border) != c.Reverse
}

// String returns the code with its border drawn with UTF-8 half
// block characters, two rows per line, dark pixels in the foreground
// colour.  Scale and Palette are ignored.
func (c *Code) String() string {
	if !c.isValid() {
		return ""
	}
	var b strings.Builder
	d := c.Size + 2*c.Border
	for y := 0; y < d; y += 2 {
		for x := 0; x < d; x++ {
			i := 0
			if c.dark(x, y) {
				i |= 2
			}
			if c.dark(x, y+1) {
				i |= 1
			}
			b.WriteString(halfBlocks[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ASCII returns the code with its border drawn with "##" for dark
// and two spaces for light pixels, one row per line.
func (c *Code) ASCII() string {
	if !c.isValid() {
		return ""
	}
	var b strings.Builder
	d := c.Size + 2*c.Border
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			if c.dark(x, y) {
				b.WriteString("##")
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
