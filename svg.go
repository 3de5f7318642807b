// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/pkg/errors"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
`

// hexColor returns the #RRGGBB notation of col, ignoring alpha.
func hexColor(col color.Color) string {
	r, g, b, _ := col.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}

// EncodeSVG writes an SVG image displaying the code to w.  Each black
// pixel is a unit square in a single path; the view box is the code
// with its border, c.Scale pixels per unit.
func (c *Code) EncodeSVG(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	pal := c.palette()
	b := bufio.NewWriter(w)
	b.WriteString(svgHeader)
	d := c.Size + 2*c.Border
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" `+
		`width="%d" height="%d" viewBox="0 0 %d %d" stroke="none">`+"\n",
		d*c.Scale, d*c.Scale, d, d)
	fmt.Fprintf(b, "\t<rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n",
		hexColor(pal[0]))
	b.WriteString("\t<path d=\"")
	sep := ""
	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			if c.Black(x, y) {
				fmt.Fprintf(b, "%sM%d,%dh1v1h-1z", sep, x+c.Border, y+c.Border)
				sep = " "
			}
		}
	}
	fmt.Fprintf(b, "\" fill=\"%s\"/>\n</svg>\n", hexColor(pal[1]))
	return errors.Wrap(b.Flush(), "qr: svg")
}

// SVG returns an SVG image displaying the code, or nil if the code
// cannot be rendered.
func (c *Code) SVG() []byte {
	var buf bytes.Buffer
	if err := c.EncodeSVG(&buf); err != nil {
		return nil
	}
	return buf.Bytes()
}
