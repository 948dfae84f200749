// Package addr names the memory-mapped locations of the DMG address space.
package addr

// Address space layout. Ranges are inclusive.
const (
	ROMStart uint16 = 0x0000
	// ROMEnd is the last byte reachable without bank switching.
	ROMEnd uint16 = 0x7FFF

	VRAMStart uint16 = 0x8000
	VRAMEnd   uint16 = 0x9FFF

	// cartridge RAM, only present on some cartridges
	ExtRAMStart uint16 = 0xA000
	ExtRAMEnd   uint16 = 0xBFFF

	WRAMStart uint16 = 0xC000
	WRAMEnd   uint16 = 0xDFFF

	// 40 entries of 4 bytes: Y, X, tile, flags
	OAMStart uint16 = 0xFE00
	OAMEnd   uint16 = 0xFE9F

	IOStart uint16 = 0xFF00
	IOEnd   uint16 = 0xFF7F

	// HRAMEnd stops one short of the top, 0xFFFF is IE.
	HRAMStart uint16 = 0xFF80
	HRAMEnd   uint16 = 0xFFFE
)

// VRAM layout. LCDC bit 4 picks between the two tile data modes: unsigned
// ids from TileData0, or signed ids centred on TileData2 (so ids 128-255
// land in TileData1). LCDC bits 3 and 6 pick a map for BG and window.
const (
	TileData0 uint16 = 0x8000
	TileData1 uint16 = 0x8800
	TileData2 uint16 = 0x9000

	TileMap0 uint16 = 0x9800
	TileMap1 uint16 = 0x9C00
)

// PPU registers.
const (
	LCDC uint16 = 0xFF40
	STAT uint16 = 0xFF41
	SCY  uint16 = 0xFF42
	SCX  uint16 = 0xFF43
	// LY is driven by the PPU; CPU writes are faults.
	LY  uint16 = 0xFF44
	LYC uint16 = 0xFF45
	// DMA copies 160 bytes from value<<8 into OAM.
	DMA  uint16 = 0xFF46
	BGP  uint16 = 0xFF47
	OBP0 uint16 = 0xFF48
	OBP1 uint16 = 0xFF49
	WY   uint16 = 0xFF4A
	// WX is offset by 7: WX=7 puts the window at the left edge.
	WX uint16 = 0xFF4B
)

// Sound registers and wave RAM. There is no APU, reads return constants.
const (
	AudioStart uint16 = 0xFF10
	AudioEnd   uint16 = 0xFF3F
)

// Interrupt request and enable masks, one bit per Interrupt.
const (
	IF uint16 = 0xFF0F
	IE uint16 = 0xFFFF
)

// P1 selects a button group with bits 4-5 and reads it back, active low,
// in bits 0-3.
const P1 uint16 = 0xFF00

// Serial link. A write to SC with bits 7 (start) and 0 (internal clock)
// set shifts SB out; with no partner SB reads back 0xFF and bit 7 clears.
const (
	SB uint16 = 0xFF01
	SC uint16 = 0xFF02
)

// Timer. DIV counts up freely and resets on any write; TIMA counts at the
// rate chosen by TAC and reloads from TMA on overflow, raising the timer
// interrupt.
const (
	DIV  uint16 = 0xFF04
	TIMA uint16 = 0xFF05
	TMA  uint16 = 0xFF06
	TAC  uint16 = 0xFF07
)

// Cartridge header bytes read at load.
const (
	CartridgeType uint16 = 0x0147
	ROMSize       uint16 = 0x0148
	RAMSize       uint16 = 0x0149
)
