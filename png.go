// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"image/png"
	"io"

	"github.com/pkg/errors"
)

// maxPNGSide is the largest side of a PNG image in pixels.
const maxPNGSide = 32767 * 8

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// PNG returns a PNG image displaying the code, or nil if the code
// cannot be rendered.
func (c *Code) PNG() []byte {
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil
	}
	return buf.Bytes()
}

// EncodePNG writes a PNG image displaying the code to w.
// The image is paletted with a bit depth of 1.
func (c *Code) EncodePNG(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	if c.dim() > maxPNGSide {
		return ErrLargeImage
	}
	return errors.Wrap(pngEncoder.Encode(w, c.Image()), "qr: png")
}
