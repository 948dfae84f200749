// Package video implements the DMG picture processing unit: the per-line
// mode state machine and the background, window and sprite compositor.
package video

import (
	"fmt"
	"image/color"
)

// Color is one of the four DMG shades, after palette mapping.
type Color uint8

const (
	White Color = iota
	LightGray
	DarkGray
	Black
)

var colorNames = [...]string{"white", "light-gray", "dark-gray", "black"}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// glyphs is the text rendering of each shade used by frame dumps.
var glyphs = [...]byte{' ', '.', '+', '#'}

// Glyph returns the character used in text dumps: ' ', '.', '+' or '#'.
func (c Color) Glyph() byte {
	return glyphs[c&0x03]
}

var rgba = [...]color.RGBA{
	{0xFF, 0xFF, 0xFF, 0xFF},
	{0x98, 0x98, 0x98, 0xFF},
	{0x4C, 0x4C, 0x4C, 0xFF},
	{0x00, 0x00, 0x00, 0xFF},
}

// RGBA returns the grayscale display color.
func (c Color) RGBA() color.RGBA {
	return rgba[c&0x03]
}

// applyPalette maps a 2-bit dot value through a palette register
// (BGP, OBP0 or OBP1), 2 bits per shade.
func applyPalette(palette uint8, dot uint8) Color {
	return Color((palette >> (dot * 2)) & 0x03)
}
