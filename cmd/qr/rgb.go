// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

// rgb maps X11 colour names, lowercase without spaces, to colours.
var rgb = map[string]rgba{
	"black":        {0x00, 0x00, 0x00, 0xff},
	"white":        {0xff, 0xff, 0xff, 0xff},
	"transparent":  {0x00, 0x00, 0x00, 0x00},
	"red":          {0xff, 0x00, 0x00, 0xff},
	"green":        {0x00, 0xff, 0x00, 0xff},
	"blue":         {0x00, 0x00, 0xff, 0xff},
	"cyan":         {0x00, 0xff, 0xff, 0xff},
	"magenta":      {0xff, 0x00, 0xff, 0xff},
	"yellow":       {0xff, 0xff, 0x00, 0xff},
	"gray":         {0xbe, 0xbe, 0xbe, 0xff},
	"grey":         {0xbe, 0xbe, 0xbe, 0xff},
	"darkgray":     {0xa9, 0xa9, 0xa9, 0xff},
	"darkgrey":     {0xa9, 0xa9, 0xa9, 0xff},
	"lightgray":    {0xd3, 0xd3, 0xd3, 0xff},
	"lightgrey":    {0xd3, 0xd3, 0xd3, 0xff},
	"navy":         {0x00, 0x00, 0x80, 0xff},
	"navyblue":     {0x00, 0x00, 0x80, 0xff},
	"darkblue":     {0x00, 0x00, 0x8b, 0xff},
	"darkgreen":    {0x00, 0x64, 0x00, 0xff},
	"darkred":      {0x8b, 0x00, 0x00, 0xff},
	"maroon":       {0xb0, 0x30, 0x60, 0xff},
	"purple":       {0xa0, 0x20, 0xf0, 0xff},
	"orange":       {0xff, 0xa5, 0x00, 0xff},
	"gold":         {0xff, 0xd7, 0x00, 0xff},
	"brown":        {0xa5, 0x2a, 0x2a, 0xff},
	"pink":         {0xff, 0xc0, 0xcb, 0xff},
	"ivory":        {0xff, 0xff, 0xf0, 0xff},
	"beige":        {0xf5, 0xf5, 0xdc, 0xff},
	"wheat":        {0xf5, 0xde, 0xb3, 0xff},
	"forestgreen":  {0x22, 0x8b, 0x22, 0xff},
	"seagreen":     {0x2e, 0x8b, 0x57, 0xff},
	"steelblue":    {0x46, 0x82, 0xb4, 0xff},
	"royalblue":    {0x41, 0x69, 0xe1, 0xff},
	"midnightblue": {0x19, 0x19, 0x70, 0xff},
	"slategray":    {0x70, 0x80, 0x90, 0xff},
	"slategrey":    {0x70, 0x80, 0x90, 0xff},
	"dimgray":      {0x69, 0x69, 0x69, 0xff},
	"dimgrey":      {0x69, 0x69, 0x69, 0xff},
}
