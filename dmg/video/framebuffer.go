package video

import (
	"strings"
)

const (
	// FramebufferWidth is the visible screen width in pixels.
	FramebufferWidth = 160
	// FramebufferHeight is the visible screen height in pixels.
	FramebufferHeight = 144
)

// FrameBuffer is a grid of shades.
type FrameBuffer struct {
	width  int
	height int
	buffer []Color
}

// NewFrameBuffer creates a frame buffer with the specified size.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		width:  width,
		height: height,
		buffer: make([]Color, width*height),
	}
}

func (fb *FrameBuffer) Width() int  { return fb.width }
func (fb *FrameBuffer) Height() int { return fb.height }

func (fb *FrameBuffer) At(x, y int) Color {
	return fb.buffer[y*fb.width+x]
}

// Set stores a pixel. It has the PixelFunc signature so it can be used as a
// scanline sink directly.
func (fb *FrameBuffer) Set(x, y int, c Color) {
	fb.buffer[y*fb.width+x] = c
}

// Clear fills the buffer with White.
func (fb *FrameBuffer) Clear() {
	clear(fb.buffer)
}

// Pixels exposes the backing slice, row-major.
func (fb *FrameBuffer) Pixels() []Color {
	return fb.buffer
}

// Glyphs renders the buffer as text, one line per row, using Color.Glyph.
func (fb *FrameBuffer) Glyphs() string {
	var sb strings.Builder
	sb.Grow((fb.width + 1) * fb.height)
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			sb.WriteByte(fb.At(x, y).Glyph())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
