// Package spi drives the SPI controllers of the STM32G4 family in master
// mode.
//
// The package is built around three ideas:
//
//   - Wiring is checked at compile time. Each controller's constructor is
//     generic over the pin triple and constrained to the controller's role
//     sets (see matrix.go), so handing it a pin the silicon cannot route
//     to that controller is a build failure, not a runtime error.
//
//   - One controller, one owner. A constructor consumes the controller's
//     ownership token from package periph; the returned binding is the
//     only path to the hardware until Release hands the token and pins
//     back. No locks downstream.
//
//   - The line only clocks while the transmit FIFO feeds it. Every
//     multi-byte operation therefore prefills the 4-slot FIFO, pipelines
//     writes one FIFO depth ahead of reads, and drains the in-flight tail
//     (see transfer.go).
//
// All blocking calls are tight status-register polls with no timeout; a
// caller wanting one must wrap the call. Faults (overrun, mode fault, CRC
// error) end the call in progress and are never retried internally.
package spi

import (
	"tinygo.org/x/drivers"

	"stm32g4hal/errcode"
	"stm32g4hal/periph"
	"stm32g4hal/rcc"
	"stm32g4hal/x/mathx"
)

// Polarity is the clock idle level.
type Polarity uint8

const (
	IdleLow Polarity = iota
	IdleHigh
)

// Phase selects the sampling clock edge.
type Phase uint8

const (
	CaptureFirstEdge Phase = iota
	CaptureSecondEdge
)

// Mode pairs clock polarity and phase. Fixed for a binding's lifetime.
type Mode struct {
	Polarity Polarity
	Phase    Phase
}

// The four conventional SPI modes.
var (
	Mode0 = Mode{IdleLow, CaptureFirstEdge}
	Mode1 = Mode{IdleLow, CaptureSecondEdge}
	Mode2 = Mode{IdleHigh, CaptureFirstEdge}
	Mode3 = Mode{IdleHigh, CaptureSecondEdge}
)

// WordSize is the frame width of one FIFO slot. Only Word8 is wired
// through configuration and the transfer engine on this family port;
// Word16 is declared hardware capability, not implemented end to end.
type WordSize uint8

const (
	Word8  WordSize = 8
	Word16 WordSize = 16
)

// Config selects the line parameters of a binding. Frames are 8-bit,
// MSB-first; slave select is software-managed and left to the caller.
type Config struct {
	Mode Mode
	// Words selects the frame width; zero means Word8. Only 8-bit frames
	// are wired through the engine, so any other width is rejected.
	Words WordSize
	// TargetHz is the ceiling for the line rate. The divider picks the
	// fastest rate not exceeding it. Must be > 0 and no faster than the
	// bus clock feeding the controller; violating that is a programming
	// error and panics.
	TargetHz uint32
}

// Bus is the transfer engine of one configured controller. It is obtained
// through a controller constructor (hardware) or Open (simulated port)
// and is not safe for concurrent use - its owner is single-threaded by
// design.
type Bus struct {
	port  Port
	txReq DMARequest
}

// Bus satisfies the ecosystem bus interface, so chip drivers written
// against tinygo.org/x/drivers run on this HAL.
var _ drivers.SPI = (*Bus)(nil)

// Open programs the controller behind port and returns its transfer
// engine. Most callers want NewSPI1..NewSPI4, which also claim the
// hardware and check pin wiring; Open exists for simulated ports
// (package spitest) and alternate register access paths.
func Open(port Port, cfg Config, busHz uint32) *Bus {
	if cfg.Words != 0 && cfg.Words != Word8 {
		panic(errcode.Unsupported)
	}
	br := baudCode(busHz, cfg.TargetHz)

	// Software slave select only, so SSOE stays clear. FRXTH at
	// quarter-full makes a single 8-bit frame raise RXNE; DS selects
	// 8-bit frames to match.
	port.SetControl2(CR2_FRXTH | CR2_DS_8BIT)

	cr1 := uint32(CR1_MSTR|CR1_SSM|CR1_SSI) | br<<CR1_BR_Pos
	if cfg.Mode.Phase == CaptureSecondEdge {
		cr1 |= CR1_CPHA
	}
	if cfg.Mode.Polarity == IdleHigh {
		cr1 |= CR1_CPOL
	}
	port.SetControl1(cr1 | CR1_SPE)

	return &Bus{port: port}
}

// baudCode picks the BR field encoding the smallest division ratio in
// {2,4,...,256} whose resulting line rate does not exceed targetHz - the
// line must never run faster than asked. A demand finer than /256
// saturates at /256, the hardware floor. Asking for a rate above the bus
// clock (or zero) is a caller bug, not a runtime condition.
func baudCode(busHz, targetHz uint32) uint32 {
	if targetHz == 0 || targetHz > busHz {
		panic("spi: target rate not reachable from bus clock")
	}
	need := mathx.CeilDiv(busHz, targetHz)
	code := uint32(0)
	for ratio := uint32(2); ratio < 256 && ratio < need; ratio <<= 1 {
		code++
	}
	return code
}

// Controller base addresses (RM0440 memory map).
const (
	spi1Base uintptr = 0x4001_3000
	spi2Base uintptr = 0x4000_3800
	spi3Base uintptr = 0x4000_3C00
	spi4Base uintptr = 0x4001_3C00
)

// SPI is a live binding: a configured controller, the ownership token it
// was built from, and the pin triple it is wired to. The transfer engine
// is promoted from the embedded Bus.
type SPI[C any, S, I, O any] struct {
	*Bus
	ctl  *C
	pins Pins[S, I, O]
}

// Release tears the binding apart and returns the ownership token and
// pin triple, so the controller can be rebound with different settings.
// The binding must not be used afterwards.
func (s *SPI[C, S, I, O]) Release() (*C, Pins[S, I, O]) {
	ctl := s.ctl
	s.ctl = nil
	return ctl, s.pins
}

// bindHW is the shared hardware path behind the per-controller
// constructors: enable and reset the controller, then program it from
// the bus clock that feeds it.
func bindHW(p rcc.Peripheral, base uintptr, req DMARequest, cfg Config, clk rcc.Clocks) *Bus {
	rcc.EnableReset(p)
	b := Open(portAt(base), cfg, clk.BusFreq(p))
	b.txReq = req
	return b
}

// NewSPI1 binds the SPI1 controller to a pin triple drawn from its role
// sets. An invalid triple does not compile.
func NewSPI1[S SCK1, I MISO1, O MOSI1](ctl *periph.SPI1, p Pins[S, I, O], cfg Config, clk rcc.Clocks) *SPI[periph.SPI1, S, I, O] {
	return &SPI[periph.SPI1, S, I, O]{Bus: bindHW(rcc.SPI1, spi1Base, DMAReqSPI1TX, cfg, clk), ctl: ctl, pins: p}
}

// NewSPI2 binds the SPI2 controller; see NewSPI1.
func NewSPI2[S SCK2, I MISO2, O MOSI2](ctl *periph.SPI2, p Pins[S, I, O], cfg Config, clk rcc.Clocks) *SPI[periph.SPI2, S, I, O] {
	return &SPI[periph.SPI2, S, I, O]{Bus: bindHW(rcc.SPI2, spi2Base, DMAReqSPI2TX, cfg, clk), ctl: ctl, pins: p}
}

// NewSPI3 binds the SPI3 controller; see NewSPI1.
func NewSPI3[S SCK3, I MISO3, O MOSI3](ctl *periph.SPI3, p Pins[S, I, O], cfg Config, clk rcc.Clocks) *SPI[periph.SPI3, S, I, O] {
	return &SPI[periph.SPI3, S, I, O]{Bus: bindHW(rcc.SPI3, spi3Base, DMAReqSPI3TX, cfg, clk), ctl: ctl, pins: p}
}

// NewSPI4 binds the SPI4 controller (larger G47x/G48x packages); see
// NewSPI1.
func NewSPI4[S SCK4, I MISO4, O MOSI4](ctl *periph.SPI4, p Pins[S, I, O], cfg Config, clk rcc.Clocks) *SPI[periph.SPI4, S, I, O] {
	return &SPI[periph.SPI4, S, I, O]{Bus: bindHW(rcc.SPI4, spi4Base, DMAReqSPI4TX, cfg, clk), ctl: ctl, pins: p}
}
