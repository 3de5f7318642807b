// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"image"
	"image/color"
)

var (
	whiteColor color.Color = color.Gray{0xFF}
	blackColor color.Color = color.Gray{0x00}
)

// palette returns the light and dark colours of c.
func (c *Code) palette() color.Palette {
	pal := color.Palette{whiteColor, blackColor}
	if c.Palette != nil {
		pal[0], pal[1] = c.Palette[0], c.Palette[1]
	}
	if c.Reverse {
		pal[0], pal[1] = pal[1], pal[0]
	}
	return pal
}

// dim returns the number of image pixels on a side.
func (c *Code) dim() int {
	return (c.Size + 2*c.Border) * c.Scale
}

// Image returns an Image displaying the code.  The image has
// c.Border QR pixels of quiet zone on each side, each QR pixel
// scaled to c.Scale image pixels.  Image returns nil if c cannot be
// rendered.
func (c *Code) Image() image.PalettedImage {
	if !c.isValid() {
		return nil
	}
	return &codeImage{c, c.palette()}
}

// codeImage implements image.PalettedImage.
type codeImage struct {
	*Code
	pal color.Palette
}

func (c *codeImage) Bounds() image.Rectangle {
	d := c.dim()
	return image.Rect(0, 0, d, d)
}

func (c *codeImage) ColorIndexAt(x, y int) uint8 {
	if x < 0 || y < 0 {
		return 0
	}
	if c.Black(x/c.Scale-c.Border, y/c.Scale-c.Border) {
		return 1
	}
	return 0
}

func (c *codeImage) At(x, y int) color.Color {
	return c.pal[c.ColorIndexAt(x, y)]
}

func (c *codeImage) ColorModel() color.Model {
	return c.pal
}
