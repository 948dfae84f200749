package video

import (
	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/bit"
)

const mapSize = 256

// RenderBackgroundMap draws the whole 32x32 tile background map selected by
// lcdc through bgp, ignoring scroll and the window. Used by debug views.
func RenderBackgroundMap(mem MemoryReader, lcdc, bgp uint8) *FrameBuffer {
	fb := NewFrameBuffer(mapSize, mapSize)

	tileMap := addr.TileMap0
	if bit.IsSet(lcdcBGTileMap, lcdc) {
		tileMap = addr.TileMap1
	}

	for tileY := 0; tileY < 32; tileY++ {
		for tileX := 0; tileX < 32; tileX++ {
			id := mem.Read(tileMap + uint16(tileY*32+tileX))
			base := bgTileAddress(lcdc, id)
			for row := 0; row < 8; row++ {
				tr := FetchTileRow(mem, base, row)
				for col := 0; col < 8; col++ {
					fb.Set(tileX*8+col, tileY*8+row, applyPalette(bgp, tr.Dot(col)))
				}
			}
		}
	}
	return fb
}
