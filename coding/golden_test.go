// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Symbols produced by an independent encoder, '#' for dark modules.
// The AutoMask cases pin the mask it selects.
var goldenSymbols = []struct {
	name string
	segs []Segment
	l    Level
	v    Version
	mask Mask // requested
	want Mask // read back
	rows []string
}{
	{
		"hello-world-q-mask2", []Segment{MakeAlphanumeric("HELLO WORLD")}, Q, 1, 2, 2,
		[]string{
			"#######.#.#...#######",
			"#.....#.....#.#.....#",
			"#.###.#..####.#.###.#",
			"#.###.#....##.#.###.#",
			"#.###.#.##....#.###.#",
			"#.....#.#.###.#.....#",
			"#######.#.#.#.#######",
			"...........##........",
			".#######.##.#..##...#",
			"#....#.####.##..#####",
			"....#####......#.#..#",
			"#.#.#.....#.#..#.....",
			"#.##..#..#.##.....#..",
			"........##..###..#.##",
			"#######.##....#.###.#",
			"#.....#.##...###..##.",
			"#.###.#.##.......###.",
			"#.###.#.##..#..#.##..",
			"#.###.#.####.#..##...",
			"#.....#.#.#.......#.#",
			"#######..###.#..#....",
		},
	},
	{
		"hello-world-q-auto", []Segment{MakeAlphanumeric("HELLO WORLD")}, Q, 1, AutoMask, 0,
		[]string{
			"#######.##....#######",
			"#.....#.#..#..#.....#",
			"#.###.#.#..##.#.###.#",
			"#.###.#.#.....#.###.#",
			"#.###.#.#.#...#.###.#",
			"#.....#...#...#.....#",
			"#######.#.#.#.#######",
			"........#............",
			".##.#.##....#.#.#####",
			".#......####....#...#",
			"..##.###.##...#.##...",
			".##.##.#..##.#.#.###.",
			"#...#.#.#.###.###.#.#",
			"........##.#..#...#.#",
			"#######.#.#....#.##..",
			"#.....#..#.##.##.#...",
			"#.###.#.#.#...#######",
			"#.###.#..#.#.#.#...#.",
			"#.###.#.#..#.###.#..#",
			"#.....#.#.####...#.##",
			"#######....#.###....#",
		},
	},
	{
		"hello-l-auto", []Segment{MakeBytes([]byte("Hello, world!"))}, L, 1, AutoMask, 2,
		[]string{
			"#######...###.#######",
			"#.....#.###.#.#.....#",
			"#.###.#...###.#.###.#",
			"#.###.#.##..#.#.###.#",
			"#.###.#..#..#.#.###.#",
			"#.....#.#..#..#.....#",
			"#######.#.#.#.#######",
			".........#...........",
			"#####.###..#.#.#.#.#.",
			"#...##..#.#.##..###.#",
			"##.##.#.#.#.###..###.",
			".##..#.##..###.#.##..",
			"..#####.#...#.##....#",
			"........##...#####...",
			"#######.#...####..##.",
			"#.....#..#..##.#.###.",
			"#.###.#.#.#####.#..##",
			"#.###.#.###....###...",
			"#.###.#.#..##.##..#..",
			"#.....#.###.##..###..",
			"#######.##.#..#.#..#.",
		},
	},
	{
		"digits-h-v7-mask5", []Segment{MakeNumeric(strings.Repeat("0123456789", 5))}, H, 7, 5, 5,
		[]string{
			"#######.##.#...###......#.#####..#..#.#######",
			"#.....#...#...###.#..#.##...#..#...#..#.....#",
			"#.###.#.###.###.#.#...........#..#.#..#.###.#",
			"#.###.#...####.#...#...##.###.####.##.#.###.#",
			"#.###.#.##.##.......######.#.##..####.#.###.#",
			"#.....#......##.....#...#..##.#.......#.....#",
			"#######.#.#.#.#.#.#.#.#.#.#.#.#.#.#.#.#######",
			"........#..###..##..#...#.#.######..#........",
			".....##..#..#..##..########..#..###.#.#.#.#.#",
			"...#.#.#..#...#.####.##.##.....#..##.#....#.#",
			"##.#.###....##.#...#.#.#.#.###.#..#.....#####",
			"#..###..##.#..#.###...#####.#.#..#.#.#.#..#.#",
			".#.#####..#.######....#..#.####.#...##.##.#..",
			"..#.##..#.#..#####....##.######..#..####..##.",
			"##.#.###.###.#.#.#....##.#.##.#...###.##..#..",
			"#..###.#####.#.###..######.#####....##..##.##",
			"..#...##..##....#...#####.##.#..#.#.#.#.#.#..",
			"###.......#####..#####..##..#..##.#.....##...",
			"..#...##.###...##.#.##.#..#.#...#..#..#..####",
			".#.#...##..#..#...####.#.####.###.......###..",
			".########.#..###.#.#######....#.##..########.",
			".#.##...#.#####.#####...#.##.###.####...##..#",
			"#.#.#.#.#.#.#......##.#.#.....#..#..#.#.#...#",
			"###.#...##...##.###.#...#...######.##...##...",
			"#...#####.#..##.##..#####.#....#...########..",
			"#...#...#.#.####..####..#.....###.##.#.#..#..",
			"#.##.###.#...#.#.#.###.#...##..#..###..######",
			"##..##..###...#####.##.#.##.###.#.#..##...#..",
			"###..###...#.#.######...##...###..###########",
			"#..###..##.##.##.#.#.##.####.#...###..#.##.#.",
			"###..##.#.#..#.#...#.......###.##.#....#.#.##",
			"#####...##.#...##.##.#.#.#.########.#..#.#.#.",
			"..###.####..#....#....#.##.##...#.#.......#..",
			"..#.#......##..#...#...#..###..#..#.###.###.#",
			"....#.###.#.#.#..##........#..#..##.#....####",
			".####..#.#####.#..##.#.#...##........#...##.#",
			"#..##.####.#.#############.#.#.####.######...",
			"........#############...##.#.#...#..#...####.",
			"#######...#.###.#####.#.#.#..###.#.##.#.#..#.",
			"#.....#.#.#....###.##...#..#.##.#####...###.#",
			"#.###.#..##.##...#..######......#.#######..##",
			"#.###.#..#...#..###.########..#.#.#.......#..",
			"#.###.#...#..##.####.###..###...#.....#...###",
			"#.....#...#..####.#.###...#..##.....##..#.##.",
			"#######...#.#....#.##..##..#.#.#.#.##...###..",
		},
	},
}

func TestComposeGolden(t *testing.T) {
	for _, tt := range goldenSymbols {
		data, v, l, err := Codewords(tt.segs, tt.l, tt.v, MaxVersion, false)
		require.NoError(t, err, tt.name)
		require.Equal(t, tt.v, v, tt.name)
		c := Compose(data, v, l, tt.mask)
		require.Equal(t, len(tt.rows), c.Size, tt.name)
		assert.Equal(t, tt.want, c.Mask(), tt.name)
		assert.Equal(t, tt.l, c.Level(), tt.name)
		for y, row := range tt.rows {
			var b strings.Builder
			for x := 0; x < c.Size; x++ {
				if c.Black(x, y) {
					b.WriteByte('#')
				} else {
					b.WriteByte('.')
				}
			}
			assert.Equal(t, row, b.String(), "%s row %d", tt.name, y)
		}
	}
}
