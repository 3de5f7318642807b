// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.

Text and binary data are encoded into a QR Code Model 2 symbol,
versions 1 to 40.  EncodeText, EncodeBinary and EncodeSegments choose
the smallest version in the allowed range holding the data, optionally
raise the error correction level while the data still fits, and pick
the mask with the lowest penalty unless one is forced.  The resulting
Code can be rendered as an image, PNG, PBM, SVG or text.
*/
package qr // import "github.com/unixdj/qrencode"

import (
	"image/color"

	"github.com/pkg/errors"

	"github.com/unixdj/qrencode/coding"
	"github.com/unixdj/qrencode/split"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level = coding.Level

const (
	L = coding.L // 20% redundant
	M = coding.M // 38% redundant
	Q = coding.Q // 55% redundant
	H = coding.H // 65% redundant
)

// Errors returned by the encoders.
var (
	ErrDataTooLong    = coding.ErrDataTooLong
	ErrSegmentTooLong = coding.ErrSegmentTooLong
	ErrArgs           = errors.New("qr: invalid arguments")
	ErrLargeImage     = errors.New("qr: image too large")
)

// Options control encoding.
type Options struct {
	Level      Level          // minimum error correction level
	MinVersion coding.Version // smallest allowed version; 0 means 1
	MaxVersion coding.Version // largest allowed version; 0 means 40
	Mask       coding.Mask    // mask used if ForceMask is set
	ForceMask  bool           // use Mask instead of the lowest penalty mask
	Boost      bool           // raise Level while the data fits
}

// DefaultOptions selects level L, any version, automatic mask
// selection and level boosting.  The zero Options differ only in not
// boosting.
var DefaultOptions = Options{
	Level: L,
	Boost: true,
}

// versions returns the version range of o with defaults filled in.
func (o *Options) versions() (coding.Version, coding.Version) {
	vmin, vmax := o.MinVersion, o.MaxVersion
	if vmin == 0 {
		vmin = coding.MinVersion
	}
	if vmax == 0 {
		vmax = coding.MaxVersion
	}
	return vmin, vmax
}

// mask returns the mask to compose with.
func (o *Options) mask() coding.Mask {
	if o.ForceMask {
		return o.Mask
	}
	return coding.AutoMask
}

// Default rendering parameters.
const (
	DefaultScale  = 8 // image pixels per QR pixel
	DefaultBorder = 4 // quiet zone width in QR pixels
)

// A Code is a square pixel grid.
// It implements image.Image and direct PNG encoding.
type Code struct {
	coding.Code

	Scale   int             // number of image pixels per QR pixel
	Border  int             // quiet zone width in QR pixels
	Palette *[2]color.Color // white and black colours, nil for default
	Reverse bool            // reverse colours
}

func newCode(c *coding.Code) *Code {
	return &Code{Code: *c, Scale: DefaultScale, Border: DefaultBorder}
}

// isValid reports whether c can be rendered.
func (c *Code) isValid() bool {
	return c != nil && c.Size > 0 && c.Scale > 0 && c.Border >= 0 &&
		len(c.Bitmap) >= c.Size*c.Stride
}

// encode encodes segs at versions vmin to vmax.
func encode(segs []coding.Segment, o Options, vmin, vmax coding.Version) (*Code, error) {
	data, v, l, err := coding.Codewords(segs, o.Level, vmin, vmax, o.Boost)
	if err != nil {
		return nil, err
	}
	return newCode(coding.Compose(data, v, l, o.mask())), nil
}

// EncodeSegments encodes segs.  It returns ErrSegmentTooLong if a
// segment's character count doesn't fit any allowed version and a
// *coding.CapacityError if the data exceeds the largest allowed
// version; both match ErrDataTooLong.  EncodeSegments panics if the
// options are invalid.
func EncodeSegments(segs []coding.Segment, o Options) (*Code, error) {
	vmin, vmax := o.versions()
	return encode(segs, o, vmin, vmax)
}

// textSegments returns the segments of a single mode encoding of text:
// numeric if possible, otherwise alphanumeric, otherwise byte.  Whether
// the segment fits a version is left to coding.Codewords.
func textSegments(text string) ([]coding.Segment, error) {
	if text == "" {
		return nil, nil
	}
	mode := coding.Byte
	switch {
	case coding.IsNumeric(text):
		mode = coding.Numeric
	case coding.IsAlphanumeric(text):
		mode = coding.Alphanumeric
	}
	if _, ok := coding.BufferSize(mode, len(text)); !ok {
		return nil, ErrSegmentTooLong
	}
	switch mode {
	case coding.Numeric:
		return []coding.Segment{coding.MakeNumeric(text)}, nil
	case coding.Alphanumeric:
		return []coding.Segment{coding.MakeAlphanumeric(text)}, nil
	}
	return []coding.Segment{coding.MakeBytes([]byte(text))}, nil
}

// EncodeText encodes text in a single segment, using numeric mode if
// text consists of digits, alphanumeric mode if all its characters
// are in that mode's set and byte mode (UTF-8) otherwise.
func EncodeText(text string, o Options) (*Code, error) {
	segs, err := textSegments(text)
	if err != nil {
		return nil, err
	}
	return EncodeSegments(segs, o)
}

// EncodeBinary encodes data in a byte mode segment.
func EncodeBinary(data []byte, o Options) (*Code, error) {
	return EncodeSegments([]coding.Segment{coding.MakeBytes(data)}, o)
}

// EncodeMixed encodes text split into numeric, alphanumeric and byte
// mode segments so that the encoded length is minimal.  As the split
// depends on the version size class, each class in the allowed
// range is tried from the smallest.
func EncodeMixed(text string, o Options) (*Code, error) {
	vmin, vmax := o.versions()
	vmin.Check()
	vmax.Check()
	if vmin > vmax {
		panic("qr: invalid version range")
	}
	err := ErrSegmentTooLong
	for class := coding.Class0; class <= coding.Class2; class++ {
		cmin, cmax := split.Versions(class)
		cmin, cmax = max(cmin, vmin), min(cmax, vmax)
		if cmin > cmax {
			continue
		}
		var c *Code
		if c, err = encode(split.Split(text, class), o, cmin, cmax); err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrDataTooLong) {
			return nil, err
		}
	}
	return nil, err
}

// Encode returns an encoding of text at the given error correction
// level, using optimal mixed mode segmentation and DefaultOptions
// otherwise.
func Encode(text string, level Level) (*Code, error) {
	o := DefaultOptions
	o.Level = level
	return EncodeMixed(text, o)
}
