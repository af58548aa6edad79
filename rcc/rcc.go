// Package rcc is the thin clock-tree collaborator for the peripheral
// drivers in this module: it answers "what bus clock feeds this
// controller" and performs the enable + reset pulse a controller needs
// before first use.
//
// Frequency derivation itself (PLL configuration, prescaler maths) is the
// board support code's job; Clocks just carries the resulting numbers.
package rcc

import (
	"unsafe"

	"stm32g4hal/x/mmio"
)

// Clocks carries the settled clock-tree frequencies in Hz. Fill it from
// the board's clock setup; the zero value is not usable.
type Clocks struct {
	Sysclk uint32
	Pclk1  uint32 // APB1 peripheral clock
	Pclk2  uint32 // APB2 peripheral clock
}

// Peripheral names a clock-gated peripheral this package can manage.
type Peripheral uint8

const (
	SPI1 Peripheral = iota
	SPI2
	SPI3
	SPI4
)

// BusFreq returns the bus clock frequency feeding p.
func (c Clocks) BusFreq(p Peripheral) uint32 {
	switch p {
	case SPI2, SPI3:
		return c.Pclk1
	}
	return c.Pclk2
}

// RCC register offsets from the 0x4002_1000 base (RM0440). Only the
// enable/reset registers this package touches are listed.
const (
	base uintptr = 0x4002_1000

	offAPB1RSTR1 uintptr = 0x38
	offAPB2RSTR  uintptr = 0x40
	offAPB1ENR1  uintptr = 0x58
	offAPB2ENR   uintptr = 0x60
)

var gates = [...]struct {
	enr, rstr uintptr
	bit       uint32
}{
	SPI1: {offAPB2ENR, offAPB2RSTR, 1 << 12},
	SPI2: {offAPB1ENR1, offAPB1RSTR1, 1 << 14},
	SPI3: {offAPB1ENR1, offAPB1RSTR1, 1 << 15},
	SPI4: {offAPB2ENR, offAPB2RSTR, 1 << 15},
}

func reg(off uintptr) *mmio.U32 {
	return (*mmio.U32)(unsafe.Pointer(base + off))
}

// EnableReset gates p's bus clock on and pulses its reset line. Callers
// must hold p's ownership token; once they do, this cannot fail.
func EnableReset(p Peripheral) {
	g := gates[p]
	reg(g.enr).SetBits(g.bit)
	reg(g.rstr).SetBits(g.bit)
	reg(g.rstr).ClearBits(g.bit)
}
