package video

import "github.com/valerio/go-dmgcore/dmg/bit"

// MemoryReader is the read side of the bus.
type MemoryReader interface {
	Read(address uint16) byte
}

const tileBytes = 16

// TileRow represents one row of a tile pattern (8 pixels).
//
// Each row is two bytes in bit-plane format: the low byte gives bit 0 of
// every pixel's dot value, the high byte bit 1. Bit 7 is the leftmost pixel.
//
//	Low  (0x3C): 0 0 1 1 1 1 0 0
//	High (0x7E): 0 1 1 1 1 1 1 0
//	            -----------------
//	Dots:        0 2 3 3 3 3 2 0
type TileRow struct {
	Low  byte
	High byte
}

// Dot extracts the dot value (0-3) of pixel x, 0 being the leftmost.
func (t TileRow) Dot(x int) uint8 {
	index := uint8(7 - x)
	return bit.Value(index, t.High)<<1 | bit.Value(index, t.Low)
}

// FetchTileRow reads row y (0-7, or 0-15 for tall sprites) of the tile at base.
func FetchTileRow(mem MemoryReader, base uint16, y int) TileRow {
	address := base + uint16(y*2)
	return TileRow{
		Low:  mem.Read(address),
		High: mem.Read(address + 1),
	}
}

// bgTileAddress returns the tile data address for a background or window
// tile id. With LCDC bit 4 set ids index 0x8000 unsigned; otherwise ids
// 0-127 live at 0x9000 and 128-255 at 0x8800.
func bgTileAddress(lcdc uint8, id uint8) uint16 {
	if !bit.IsSet(lcdcTileData, lcdc) && id < 128 {
		return 0x9000 + uint16(id)*tileBytes
	}
	return 0x8000 + uint16(id)*tileBytes
}
