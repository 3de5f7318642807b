// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.  EncodePBM disregards c.Palette, as other PNM
// formats are not supported.
func (c *Code) EncodePBM(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	b := bufio.NewWriter(w)
	length := c.dim()
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return errors.Wrap(err, "qr: pbm")
	}
	var white byte
	if c.Reverse {
		white = 0xff
	}
	row := make([]byte, (length+7)/8)
	for y := -c.Border; y < c.Size+c.Border; y++ {
		for i := range row {
			row[i] = white
		}
		for x := 0; x < c.Size; x++ {
			if !c.Black(x, y) {
				continue
			}
			for i, o := 0, (x+c.Border)*c.Scale; i < c.Scale; i++ {
				row[(o+i)>>3] ^= 0x80 >> uint((o+i)&7)
			}
		}
		// Padding bits past the last pixel are zero.
		if n := length & 7; n != 0 {
			row[len(row)-1] &^= 0xff >> uint(n)
		}
		for i := 0; i < c.Scale; i++ {
			if _, err := b.Write(row); err != nil {
				return errors.Wrap(err, "qr: pbm")
			}
		}
	}
	return errors.Wrap(b.Flush(), "qr: pbm")
}
