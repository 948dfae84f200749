package video

import (
	"github.com/valerio/go-dmgcore/dmg/addr"
	"github.com/valerio/go-dmgcore/dmg/bit"
)

// Mode is the PPU state, valued as STAT bits 0-1.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OamScan
	PixelTransfer
)

func (m Mode) String() string {
	switch m {
	case HBlank:
		return "HBlank"
	case VBlank:
		return "VBlank"
	case OamScan:
		return "OamScan"
	case PixelTransfer:
		return "PixelTransfer"
	}
	return "Mode(?)"
}

// line timing, in cycles from the start of the line
const (
	oamScanEnd       = 80
	pixelTransferEnd = oamScanEnd + 170
	lineCycles       = 456

	visibleLines = 144
	totalLines   = 154
)

// LCDC bits
const (
	lcdcBGEnable      = 0
	lcdcSpriteEnable  = 1
	lcdcSpriteSize    = 2
	lcdcBGTileMap     = 3
	lcdcTileData      = 4
	lcdcWindowEnable  = 5
	lcdcWindowTileMap = 6
	lcdcDisplayEnable = 7
)

// STAT interrupt selects
const (
	statHBlankSelect = 3
	statVBlankSelect = 4
	statOAMSelect    = 5
	statLYCSelect    = 6
)

// PixelFunc receives every pixel of a completed scanline.
type PixelFunc func(x, y int, c Color)

// Bus is what the PPU needs from the memory unit: plain reads plus the
// registers it owns.
type Bus interface {
	MemoryReader
	SetLY(ly uint8)
	SetMode(mode uint8)
	SetCoincidence(on bool)
	RequestInterrupt(interrupt addr.Interrupt)
}

// PPU is the scanline renderer.
type PPU struct {
	bus Bus

	mode   Mode
	cycles int
	ly     int
	// windowLine counts the lines the window has actually been drawn on
	windowLine int
	lycMatch   bool
	// set while LCDC.7 is clear
	disabled bool

	frame   *FrameBuffer
	onPixel PixelFunc
	frames  uint64

	sprites spriteLine
}

// New returns a PPU at LY 0 in OamScan.
func New(bus Bus) *PPU {
	p := &PPU{
		bus:   bus,
		mode:  OamScan,
		frame: NewFrameBuffer(FramebufferWidth, FramebufferHeight),
	}
	bus.SetMode(uint8(p.mode))
	p.setLY(0)
	return p
}

// OnScanline registers the scanline sink, nil to disable.
func (p *PPU) OnScanline(fn PixelFunc) {
	p.onPixel = fn
}

func (p *PPU) Mode() Mode { return p.mode }
func (p *PPU) LY() int    { return p.ly }

// Frame is the picture as drawn so far; complete right after VBlank entry.
func (p *PPU) Frame() *FrameBuffer { return p.frame }

// Frames counts VBlank entries.
func (p *PPU) Frames() uint64 { return p.frames }

// Tick advances the mode machine and reports whether VBlank was entered.
func (p *PPU) Tick(cycles int) (vblank bool) {
	if !bit.IsSet(lcdcDisplayEnable, p.bus.Read(addr.LCDC)) {
		return p.tickDisabled(cycles)
	}
	if p.disabled {
		p.enable()
	}

	p.cycles += cycles

	for {
		switch p.mode {
		case OamScan:
			if p.cycles < oamScanEnd {
				return vblank
			}
			p.setMode(PixelTransfer)

		case PixelTransfer:
			if p.cycles < pixelTransferEnd {
				return vblank
			}
			p.drawScanline()
			p.setMode(HBlank)
			p.statInterrupt(statHBlankSelect)

		case HBlank:
			if p.cycles < lineCycles {
				return vblank
			}
			p.cycles -= lineCycles
			p.setLY(p.ly + 1)

			if p.ly == visibleLines {
				p.setMode(VBlank)
				p.bus.RequestInterrupt(addr.VBlankInterrupt)
				p.statInterrupt(statVBlankSelect)
				p.windowLine = 0
				p.frames++
				vblank = true
			} else {
				p.setMode(OamScan)
				p.statInterrupt(statOAMSelect)
			}

		case VBlank:
			if p.cycles < lineCycles {
				return vblank
			}
			p.cycles -= lineCycles

			if p.ly == totalLines-1 {
				p.setLY(0)
				p.setMode(OamScan)
				p.statInterrupt(statOAMSelect)
			} else {
				p.setLY(p.ly + 1)
			}
		}
	}
}

// tickDisabled holds LY at 0 in HBlank and raises nothing. Blank frames are
// still counted at the usual rate so hosts keep presenting.
func (p *PPU) tickDisabled(cycles int) bool {
	if !p.disabled {
		p.disabled = true
		p.cycles = 0
		p.windowLine = 0
		p.ly = 0
		p.bus.SetLY(0)
		p.lycMatch = p.bus.Read(addr.LYC) == 0
		p.bus.SetCoincidence(p.lycMatch)
		p.setMode(HBlank)
		p.frame.Clear()
	}

	p.cycles += cycles
	if p.cycles < lineCycles*totalLines {
		return false
	}
	p.cycles %= lineCycles * totalLines
	p.frames++
	return true
}

// enable restarts the mode machine at the top of a frame.
func (p *PPU) enable() {
	p.disabled = false
	p.cycles = 0
	p.lycMatch = false
	p.setMode(OamScan)
	p.setLY(0)
}

func (p *PPU) setMode(mode Mode) {
	p.mode = mode
	p.bus.SetMode(uint8(mode))
}

// setLY publishes LY and raises the LYC interrupt when the coincidence
// latch goes from false to true.
func (p *PPU) setLY(ly int) {
	p.ly = ly
	p.bus.SetLY(uint8(ly))

	match := uint8(ly) == p.bus.Read(addr.LYC)
	if match && !p.lycMatch {
		p.statInterrupt(statLYCSelect)
	}
	p.lycMatch = match
	p.bus.SetCoincidence(match)
}

func (p *PPU) statInterrupt(selectBit uint8) {
	if bit.IsSet(selectBit, p.bus.Read(addr.STAT)) {
		p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
	}
}

// drawScanline composes line LY and hands it to the frame buffer and sink.
func (p *PPU) drawScanline() {
	lcdc := p.bus.Read(addr.LCDC)
	y := p.ly

	bgEnabled := bit.IsSet(lcdcBGEnable, lcdc)
	bgp := p.bus.Read(addr.BGP)
	scx := int(p.bus.Read(addr.SCX))
	scy := int(p.bus.Read(addr.SCY))

	bgMap := addr.TileMap0
	if bit.IsSet(lcdcBGTileMap, lcdc) {
		bgMap = addr.TileMap1
	}
	windowMap := addr.TileMap0
	if bit.IsSet(lcdcWindowTileMap, lcdc) {
		windowMap = addr.TileMap1
	}

	wy := int(p.bus.Read(addr.WY))
	wxStart := int(p.bus.Read(addr.WX)) - 7
	windowOnLine := bgEnabled && bit.IsSet(lcdcWindowEnable, lcdc) && y >= wy && wxStart < FramebufferWidth
	windowDrawn := false

	spritesEnabled := bit.IsSet(lcdcSpriteEnable, lcdc)
	if spritesEnabled {
		height := 8
		if bit.IsSet(lcdcSpriteSize, lcdc) {
			height = 16
		}
		p.sprites.collect(p.bus, y, height)
	}

	for x := 0; x < FramebufferWidth; x++ {
		var dot uint8
		if bgEnabled {
			if windowOnLine && x >= wxStart {
				dot = p.mapDot(lcdc, windowMap, x-wxStart, p.windowLine)
				windowDrawn = true
			} else {
				dot = p.mapDot(lcdc, bgMap, (scx+x)&0xFF, (scy+y)&0xFF)
			}
		}

		c := applyPalette(bgp, dot)
		if !bgEnabled {
			c = White
		}

		if spritesEnabled {
			if s, spriteDot, ok := p.sprites.at(x); ok && (dot == 0 || !s.BehindBG()) {
				palette := p.bus.Read(addr.OBP0)
				if s.PaletteOBP1() {
					palette = p.bus.Read(addr.OBP1)
				}
				c = applyPalette(palette, spriteDot)
			}
		}

		p.emit(x, y, c)
	}

	if windowDrawn {
		p.windowLine++
	}
}

// mapDot samples the dot value at (x, y) of a 256x256 tile map.
func (p *PPU) mapDot(lcdc uint8, tileMap uint16, x, y int) uint8 {
	id := p.bus.Read(tileMap + uint16((y/8)*32+x/8))
	row := FetchTileRow(p.bus, bgTileAddress(lcdc, id), y%8)
	return row.Dot(x % 8)
}

func (p *PPU) emit(x, y int, c Color) {
	p.frame.Set(x, y, c)
	if p.onPixel != nil {
		p.onPixel(x, y, c)
	}
}
