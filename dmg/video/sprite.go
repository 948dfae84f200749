package video

import (
	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/bit"
)

const (
	oamEntries       = 40
	maxSpritesPerRow = 10
)

// Sprite is one OAM entry with its hardware offsets removed.
type Sprite struct {
	Y         int // screen row of the top line, raw Y - 16
	X         int // screen column of the left pixel, raw X - 8
	TileIndex uint8
	Flags     uint8
	OAMIndex  int
}

func (s Sprite) PaletteOBP1() bool { return bit.IsSet(4, s.Flags) }
func (s Sprite) FlipX() bool       { return bit.IsSet(5, s.Flags) }
func (s Sprite) FlipY() bool       { return bit.IsSet(6, s.Flags) }

// BehindBG is the BG-over-OBJ attribute: background dots 1-3 cover the sprite.
func (s Sprite) BehindBG() bool { return bit.IsSet(7, s.Flags) }

// ReadSprite decodes OAM entry index (0-39).
func ReadSprite(mem MemoryReader, index int) Sprite {
	base := addr.OAMStart + uint16(index*4)
	return Sprite{
		Y:         int(mem.Read(base)) - 16,
		X:         int(mem.Read(base+1)) - 8,
		TileIndex: mem.Read(base + 2),
		Flags:     mem.Read(base + 3),
		OAMIndex:  index,
	}
}

// rowFor returns the pattern row of the sprite that falls on line ly.
func (s Sprite) rowFor(mem MemoryReader, ly, height int) TileRow {
	y := ly - s.Y
	if s.FlipY() {
		y = height - 1 - y
	}
	tile := s.TileIndex
	if height == 16 {
		tile &= 0xFE
	}
	return FetchTileRow(mem, addr.TileData0+uint16(tile)*tileBytes, y)
}

// dotAt returns the dot value the sprite contributes at column x.
func (s Sprite) dotAt(row TileRow, x int) uint8 {
	px := x - s.X
	if s.FlipX() {
		px = 7 - px
	}
	return row.Dot(px)
}

// lineSprite is a sprite selected for the current line with its pattern row.
type lineSprite struct {
	Sprite
	row TileRow
}

// spriteLine selects and orders the sprites of one scanline.
type spriteLine struct {
	buf     [maxSpritesPerRow]lineSprite
	sprites []lineSprite
}

// collect scans OAM in order and keeps the first 10 sprites whose vertical
// extent covers ly, then orders them by drawing priority: lower X first,
// ties broken by lower OAM index.
func (l *spriteLine) collect(mem MemoryReader, ly, height int) {
	l.sprites = l.buf[:0]
	for i := 0; i < oamEntries; i++ {
		s := ReadSprite(mem, i)
		if ly < s.Y || ly >= s.Y+height {
			continue
		}
		l.sprites = append(l.sprites, lineSprite{Sprite: s, row: s.rowFor(mem, ly, height)})
		if len(l.sprites) == maxSpritesPerRow {
			break
		}
	}

	// insertion sort, stable, OAM order is already ascending
	for i := 1; i < len(l.sprites); i++ {
		for j := i; j > 0 && l.sprites[j].X < l.sprites[j-1].X; j-- {
			l.sprites[j], l.sprites[j-1] = l.sprites[j-1], l.sprites[j]
		}
	}
}

// at returns the highest priority sprite with an opaque dot at column x.
// Transparent dots (0) let lower priority sprites through.
func (l *spriteLine) at(x int) (lineSprite, uint8, bool) {
	for _, s := range l.sprites {
		if x < s.X || x >= s.X+8 {
			continue
		}
		if dot := s.dotAt(s.row, x); dot != 0 {
			return s, dot, true
		}
	}
	return lineSprite{}, 0, false
}
