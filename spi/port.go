package spi

import (
	"unsafe"

	"stm32g4hal/x/mmio"
)

// Register layout and bit definitions for the SPI controllers of the
// STM32G4 family (RM0440). Names follow the reference manual so they can
// be checked against it field by field.

// Control register 1.
const (
	CR1_CPHA     = 1 << 0
	CR1_CPOL     = 1 << 1
	CR1_MSTR     = 1 << 2
	CR1_BR_Pos   = 3
	CR1_BR_Msk   = 0x7 << CR1_BR_Pos
	CR1_SPE      = 1 << 6
	CR1_LSBFIRST = 1 << 7
	CR1_SSI      = 1 << 8
	CR1_SSM      = 1 << 9
	CR1_RXONLY   = 1 << 10
	CR1_CRCL     = 1 << 11
	CR1_CRCNEXT  = 1 << 12
	CR1_CRCEN    = 1 << 13
	CR1_BIDIOE   = 1 << 14
	CR1_BIDIMODE = 1 << 15
)

// Control register 2.
const (
	CR2_RXDMAEN = 1 << 0
	CR2_TXDMAEN = 1 << 1
	CR2_SSOE    = 1 << 2
	CR2_DS_Pos  = 8
	CR2_DS_8BIT = 0x7 << CR2_DS_Pos
	CR2_FRXTH   = 1 << 12
)

// Status register.
const (
	SR_RXNE      = 1 << 0
	SR_TXE       = 1 << 1
	SR_CRCERR    = 1 << 4
	SR_MODF      = 1 << 5
	SR_OVR       = 1 << 6
	SR_BSY       = 1 << 7
	SR_FRE       = 1 << 8
	SR_FRLVL_Pos = 9
	SR_FTLVL_Pos = 11
	SR_LVL_Msk   = 0x3
)

// Port is the register-level doorway to one SPI controller. Every method
// performs exactly one hardware-defined register access of the stated
// width; implementations must not cache, merge, or reorder accesses.
//
// The production implementation sits on the memory-mapped register block;
// package spitest substitutes a simulated controller behind the same
// interface so the transfer engine can be exercised off-target.
type Port interface {
	// Status reads SR once.
	Status() uint32
	// Control1 and SetControl1 access CR1.
	Control1() uint32
	SetControl1(v uint32)
	// Control2 and SetControl2 access CR2.
	Control2() uint32
	SetControl2(v uint32)
	// ReadData8 and WriteData8 access DR byte-wide. Width matters: the
	// data register fronts a FIFO, and a wider access would move more
	// than one frame.
	ReadData8() byte
	WriteData8(b byte)
	// DataAddress returns DR's bus address, for DMA programming.
	DataAddress() uintptr
}

// regs mirrors the controller's register block, offsets 0x00..0x20.
type regs struct {
	CR1     mmio.U32 // 0x00
	CR2     mmio.U32 // 0x04
	SR      mmio.U32 // 0x08
	DR      mmio.U32 // 0x0C
	CRCPR   mmio.U32 // 0x10
	RXCRCR  mmio.U32 // 0x14
	TXCRCR  mmio.U32 // 0x18
	I2SCFGR mmio.U32 // 0x1C
	I2SPR   mmio.U32 // 0x20
}

type mmPort struct {
	r *regs
}

func portAt(base uintptr) *mmPort {
	return &mmPort{r: (*regs)(unsafe.Pointer(base))}
}

func (p *mmPort) Status() uint32       { return p.r.SR.Get() }
func (p *mmPort) Control1() uint32     { return p.r.CR1.Get() }
func (p *mmPort) SetControl1(v uint32) { p.r.CR1.Set(v) }
func (p *mmPort) Control2() uint32     { return p.r.CR2.Get() }
func (p *mmPort) SetControl2(v uint32) { p.r.CR2.Set(v) }
func (p *mmPort) ReadData8() byte      { return p.r.DR.Get8() }
func (p *mmPort) WriteData8(b byte)    { p.r.DR.Set8(b) }
func (p *mmPort) DataAddress() uintptr { return p.r.DR.Addr() }
