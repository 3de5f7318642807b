// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qr generates QR codes.
package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/op/go-logging"
	"github.com/pborman/getopt/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/unixdj/qrencode"
	"github.com/unixdj/qrencode/coding"
)

const progName = "qr"

var log = logging.MustGetLogger(progName)

var leveledLogBackend logging.Leveled

// Input encodings.
const (
	textInput   = iota // single mode text
	mixedInput         // optimally split text
	binaryInput        // raw bytes
	eciInput           // text converted to a charset
)

var inputNames = [...]string{"text", "mixed", "binary", "eci"}

var g = struct {
	scale   int             // scale
	border  int             // quiet zone
	palette *[2]color.Color // palette
	rev     bool            // reverse colours
	fn      string          // filename
	fext    string          // filename suffix
	opts    qr.Options      // encoding options
	input   int             // input encoding
	charset qr.Charset      // charset for eciInput
	format  int             // output file format
	cx      int             // randr source X coordinate index in inc
	inc     [2]int          // randr source X,Y coordinate increments
	bg, fg  rgba            // colour
	colSet  bool            // colour set
	noBoost bool            // level boost disabled
	mixed   bool            // mixed mode split
	binary  bool            // binary input
	lines   bool            // one code per line
	debug   bool            // debug logging
}{
	inc: [2]int{1, 1},
	bg:  rgba{0xff, 0xff, 0xff, 0xff},
	fg:  rgba{0x00, 0x00, 0x00, 0xff},
}

func startLogging() {
	backend := logging.NewLogBackend(os.Stderr, progName+": ", 0)
	formatter := logging.MustStringFormatter("%{level} %{message}")
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
	leveledLogBackend = leveled
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	prog := cl.Program()
	ul := make([]string, 1, 4)
	ul[0] = cl.UsageLine() + " [string ...]"
	ml := max(70-len("Usage: ")-1-len(prog), 0)
	for i := 0; len(ul[i]) > ml; i++ {
		s := ul[i]
		n := ml - 1
		for n > 0 && (s[n] != ' ' || s[n+1] != '[') {
			n--
		}
		ul = append(ul, s[n+1:])
		ul[i] = s[:max(n, 0)]
		ml = 60
	}
	fmt.Fprint(w, "QR code generator\nUsage: ", prog, " ",
		strings.Join(ul, "\n          "), `
If no string is given, data is read from standard input and the final
newline is stripped.  By default the input is encoded as a single
numeric, alphanumeric or byte mode segment, whichever is densest.

`)
	cl.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 0.9.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

func flip() {
	g.inc[0] = -g.inc[0]
}

func rotate() {
	g.cx ^= 1
	m := g.inc[0] * g.inc[1]
	g.inc[0] *= m
	g.inc[1] *= -m
}

type rgba struct {
	R, G, B, A uint8
}

func (c *rgba) String() string {
	if *c == (rgba{0x00, 0x00, 0x00, 0xff}) {
		return "black"
	} else if *c == (rgba{0xff, 0xff, 0xff, 0xff}) {
		return "white"
	} else if c.A == 0xff {
		return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	} else {
		return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
}

func (c *rgba) Set(s string, _ getopt.Option) error {
	g.colSet = true
	var ok bool
	if *c, ok = rgb[strings.ToLower(strings.ReplaceAll(s, " ", ""))]; ok {
		return nil
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return errors.Errorf("%q: bad colour spec", s)
	}
	switch len(s) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		var nn uint64
		for i := 0; i < 4; i++ {
			nn <<= 8
			nn |= n >> 12 & 0xf * 0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return errors.Errorf("%q: bad colour spec", s)
	}
	c.R, c.G, c.B, c.A = uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)
	return nil
}

var formats = []string{
	"png", "pngi", "pbm", "pbmi", "svg", "svgi", "eps", "epsi",
	"utf8", "utf8i", "ascii", "asciii",
}

var encoders = [...]func(*qr.Code, io.Writer) error{
	(*qr.Code).EncodePNG,
	(*qr.Code).EncodePBM,
	(*qr.Code).EncodeSVG,
	eps,
	func(c *qr.Code, w io.Writer) error {
		_, err := io.WriteString(w, c.String())
		return err
	},
	func(c *qr.Code, w io.Writer) error {
		_, err := io.WriteString(w, c.ASCII())
		return err
	},
}

var (
	levels   = []string{"l", "m", "q", "h", "L", "M", "Q", "H"}
	masks    = []string{"auto", "0", "1", "2", "3", "4", "5", "6", "7"}
	charsets = []string{"utf-8", "latin1", "shift-jis", "utf-16be"}
)

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.Flag(&g.debug, 'd', "log encoding details")
	getopt.FlagLong(&g.bg, "background", 'B', `background colour; see -F`,
		"RGB[A]|name")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3, 4, 6 or 8 hex digits or X11 colour name; `+
		`only for types png[i], svg[i] and eps[i]`, "RGB[A]|name")
	getopt.Flag(opt(flip), 'f', `flip code horizontally; `+
		`to flip vertically, use "-frr"`).SetFlag()
	getopt.Flag(opt(rotate), 'r', `rotate code 90° counterclockwise; `+
		`-r and -f may be given multiple times, `+
		`order matters: "-fr" = "-rfrr" = "-rrrf"`).SetFlag()
	getopt.Flag(&g.noBoost, 'N', "do not raise error correction level")
	getopt.Flag(&g.mixed, 'M', "split input into numeric, "+
		"alphanumeric and byte mode segments for the shortest encoding")
	getopt.Flag(&g.binary, 'b', "encode input as is in byte mode")
	getopt.Flag(&g.lines, 'L', `encode each input line as a separate `+
		`code; with -o, "-01", "-02" etc. is appended to the `+
		`filename before suffix`)
	getopt.Flag(&g.border, 'm', `quiet zone pixels`, "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	cs := getopt.Enum('e', charsets, "",
		"encode ECI segment and byte mode data in the given charset, "+
			"one of: "+strings.Join(charsets, ", "), "charset")
	minv := getopt.Unsigned('v', 1, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 1, Max: 40},
		"minimum QR code version", "ver")
	maxv := getopt.Unsigned('x', 40, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 1, Max: 40},
		"maximum QR code version", "ver")
	lev := getopt.Enum('l', levels, "l",
		"minimum error correction level, lowest to highest", "l|m|q|h")
	mask := getopt.Enum('k', masks, "auto",
		"mask pattern, 0 to 7, or auto for the lowest penalty", "mask")
	scale := getopt.Unsigned('s', 4,
		&(getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 1, Max: 1 << 28}),
		`image pixels (type eps[i]: points) per QR module ("pixel"); `+
			`ignored for types utf8[i] and ascii[i]`, "scale")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	g.border = qr.DefaultBorder
	getopt.Parse()
	if g.debug {
		leveledLogBackend.SetLevel(logging.DEBUG, "")
	}
	if n := lo.CountBy([]bool{g.mixed, g.binary, *cs != ""},
		func(b bool) bool { return b }); n > 1 {
		fmt.Fprintln(os.Stderr, "-M, -b and -e are incompatible")
		usage()
	}
	if *minv > *maxv {
		fmt.Fprintln(os.Stderr, "-v must not exceed -x")
		usage()
	}
	if g.border < 0 {
		fmt.Fprintln(os.Stderr, "-m must not be negative")
		usage()
	}

	g.scale = int(*scale)
	g.opts = qr.Options{
		Level:      qr.Level(lo.IndexOf(levels, *lev) & 3),
		MinVersion: coding.Version(*minv),
		MaxVersion: coding.Version(*maxv),
		Mask:       coding.Mask(lo.IndexOf(masks, *mask) - 1),
		ForceMask:  *mask != masks[0],
		Boost:      !g.noBoost,
	}
	switch {
	case *cs != "":
		var err error
		if g.charset, err = qr.ParseCharset(*cs); err != nil {
			log.Fatalf("%v", err)
		}
		g.input = eciInput
	case g.mixed:
		g.input = mixedInput
	case g.binary:
		g.input = binaryInput
	}
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	i := lo.IndexOf(formats, *ff)
	g.format = i >> 1
	g.rev = i&1 != 0
	if g.fn == "-" {
		g.fn = ""
	}
	if g.colSet {
		g.palette = &[2]color.Color{color.RGBA(g.bg), color.RGBA(g.fg)}
	}
}

// encode encodes s according to the input flags.
func encode(cache *qr.Cache, s string) (*qr.Code, error) {
	switch g.input {
	case mixedInput:
		return cache.EncodeMixed(s, g.opts)
	case binaryInput:
		return cache.EncodeBinary([]byte(s), g.opts)
	case eciInput:
		return qr.EncodeCharset(s, g.charset, g.opts)
	}
	return cache.EncodeText(s, g.opts)
}

func main() {
	startLogging()
	parseFlags()

	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalf("%v", errors.Wrap(err, "reading input"))
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}

	texts := []string{s}
	if g.lines {
		texts = strings.Split(s, "\n")
		g.fext = path.Ext(g.fn)
		g.fn = g.fn[:len(g.fn)-len(g.fext)]
	}
	cache := qr.NewCache(max(len(texts), 1))
	for i, t := range texts {
		c, err := encode(cache, t)
		if err != nil {
			if g.lines {
				err = errors.Wrapf(err, "line %d", i+1)
			}
			log.Fatalf("%v", err)
		}
		log.Debugf("%d bytes as %s: version %v, level %v, mask %v",
			len(t), inputNames[g.input], c.Version(), c.Level(), c.Mask())
		if !g.lines {
			i = -1
		}
		write(i, c)
	}
	if g.lines {
		log.Debugf("%d codes, %d repeated lines", len(texts), cache.Hits())
	}
}

func write(i int, c *qr.Code) {
	fn := g.fn
	open := fn != "" || g.fext != ""
	var w = os.Stdout
	if open {
		if i >= 0 {
			fn = fmt.Sprintf("%s-%02d%s", fn, i+1, g.fext)
		}
		var err error
		if w, err = os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatalf("%v", err)
		}
	}
	c = randr(c)
	c.Scale = g.scale
	c.Palette = g.palette
	c.Reverse = g.rev
	c.Border = g.border
	err := encoders[g.format](c, w)
	if open && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalf("%v", errors.Wrapf(err, "writing %s", lo.Ternary(open, fn, "output")))
	}
}

// randr rotates and reflects c.
func randr(c *qr.Code) *qr.Code {
	cx, inc := g.cx, g.inc
	if cx == 0 && inc == [2]int{1, 1} {
		return c
	}
	b := make([]byte, 0, len(c.Bitmap))
	var coord [2]int
	siz := c.Size
	coord[cx^1] = (siz - 1) & inc[1]
	for y := 0; y < siz; y++ {
		coord[cx] = (siz - 1) & inc[0]
		var bb byte
		for x := 0; x < siz; x++ {
			bb <<= 1
			if c.Black(coord[0], coord[1]) {
				bb |= 1
			}
			if x&7 == 7 {
				b = append(b, bb)
			}
			coord[cx] += inc[0]
		}
		if siz&7 != 0 {
			b = append(b, bb<<(8-siz&7))
		}
		coord[cx^1] += inc[1]
	}
	c.Bitmap = b
	return c
}

func eps(c *qr.Code, w io.Writer) error {
	const midx, midy = 306, 396
	siz := c.Size
	scale := c.Scale
	bord := c.Border
	xorig := (midx*2 - (siz+2*bord)*scale) / 2
	yorig := (midy*2 - (siz+2*bord)*scale) / 2
	var b bytes.Buffer
	fmt.Fprintf(&b, `%%!PS-Adobe-2.0 EPSF-2.0
%%%%Creator: QR https://github.com/unixdj/qrencode
%%%%Title: QR Code
%%%%BoundingBox: %d %d %d %d
%%%%EndComments
%%%%EndProlog
<< >> begin
gsave
%g %g translate
%d dup neg scale
/row 0 def
/p { 0 rmoveto 0 rlineto } def
/r { 0 row 1 add dup /row exch def moveto } def
`,
		xorig-1, yorig-1, midx*2-xorig, midy*2-yorig,
		midx-float64(siz*scale)/2, midy+float64((siz-1)*scale)/2-1,
		scale)
	if rev := c.Reverse; rev || g.colSet {
		bg, fg := g.bg, g.fg
		if rev {
			bg, fg = fg, bg
		}
		fmt.Fprintf(&b, `gsave
newpath %d %d moveto
%d dup neg scale
%.3g %.3g %.3g setrgbcolor
1 0 rlineto stroke
grestore
%.3g %.3g %.3g setrgbcolor
`,
			-bord, siz/2, siz+2*bord,
			float64(bg.R)/0xff, float64(bg.G)/0xff,
			float64(bg.B)/0xff, float64(fg.R)/0xff,
			float64(fg.G)/0xff, float64(fg.B)/0xff)
	}
	fmt.Fprintln(&b, "newpath 0 0 moveto")
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; {
			s := x
			for x < siz && !c.Black(x, y) {
				x++
			}
			if x == siz {
				break
			}
			start := x
			for x < siz && c.Black(x, y) {
				x++
			}
			fmt.Fprintf(&b, "%d %d p ", x-start, start-s)
		}
		fmt.Fprintln(&b, "r")
	}
	b.WriteString("stroke grestore\nend\n%%Trailer\n")
	_, err := b.WriteTo(w)
	return err
}
