// Package spitest provides a simulated SPI controller and duplex line
// behind the spi.Port interface, so the transfer engine and the chip
// drivers above it can be exercised off-target.
//
// The model is deliberately small but honest about the properties the
// engine depends on: a 4-slot transmit FIFO and a 4-slot receive FIFO,
// level and readiness flags synthesized the way the hardware reports
// them, and a line that only moves while the transmit FIFO feeds it. One
// byte shifts per status poll by default, so FIFO pressure is visible to
// the code under test; raise ShiftPerPoll to model a faster line.
//
// A Sim never blocks. If the code under test spins on status while
// neither FIFO can make progress, the line is dead and the test would
// hang; Sim panics instead after a generous poll budget.
package spitest

import (
	"stm32g4hal/errcode"
	"stm32g4hal/spi"
	"stm32g4hal/x/mathx"
)

const fifoDepth = 4

// stallBudget is how many consecutive status polls without line progress
// Sim tolerates before declaring the test deadlocked.
const stallBudget = 1 << 20

// Sim is a simulated SPI controller. The zero value is not usable;
// construct with New.
type Sim struct {
	// Responder produces the line's answer to the i-th byte shifted
	// out. The default echoes the byte back.
	Responder func(i int, out byte) byte

	// ShiftPerPoll is how many bytes the line may move per status read.
	ShiftPerPoll int

	cr1, cr2 uint32
	tx, rx   []byte
	shifted  int
	txLog    []byte

	ovr, modf, crcerr bool
	failKind          errcode.Code
	failAt            int

	idlePolls int

	statusReads, dataReads, dataWrites int
	ctrlReads, ctrlWrites              int
}

var _ spi.Port = (*Sim)(nil)

// New returns a Sim with an echoing line shifting one byte per poll.
func New() *Sim {
	return &Sim{
		Responder:    func(_ int, out byte) byte { return out },
		ShiftPerPoll: 1,
		failAt:       -1,
	}
}

// FailAt injects kind when the index-th byte (0-based, in shift order) is
// clocked: the byte received in exchange is lost and the matching status
// flag latches. Every response before the faulting one is delivered and
// consumed first, so a blocking receive observes exactly index good bytes
// before the fault. Later bytes still arrive, as they do on hardware
// while a sticky fault is pending.
func (s *Sim) FailAt(kind errcode.Code, index int) {
	s.failKind = kind
	s.failAt = index
}

// TxBytes returns every byte accepted for transmit, in line order.
func (s *Sim) TxBytes() []byte { return s.txLog }

// Shifted returns how many bytes have been clocked onto the line.
func (s *Sim) Shifted() int { return s.shifted }

// Levels returns the current transmit and receive FIFO fill levels.
func (s *Sim) Levels() (tx, rx int) { return len(s.tx), len(s.rx) }

// Accesses returns the total number of register accesses performed.
func (s *Sim) Accesses() int {
	return s.statusReads + s.dataReads + s.dataWrites + s.ctrlReads + s.ctrlWrites
}

// ResetCounters zeroes the register access counters, typically right
// after spi.Open so a test observes only the operation under test.
func (s *Sim) ResetCounters() {
	s.statusReads, s.dataReads, s.dataWrites = 0, 0, 0
	s.ctrlReads, s.ctrlWrites = 0, 0
}

func (s *Sim) txOnly() bool {
	return s.cr1&spi.CR1_BIDIMODE != 0 && s.cr1&spi.CR1_BIDIOE != 0
}

// step advances the line: shift up to ShiftPerPoll bytes from the
// transmit FIFO, answering each through Responder into the receive FIFO
// unless the controller is in transmit-only mode. Reports whether
// anything moved.
func (s *Sim) step() bool {
	if s.cr1&spi.CR1_SPE == 0 {
		return false
	}
	moved := false
	for n := 0; n < s.ShiftPerPoll && len(s.tx) > 0; n++ {
		// The line lands each answered byte before clocking the next:
		// hold the shift while the receive FIFO has no room. Genuine
		// receiver-too-slow overruns are injected with FailAt instead
		// of emerging from poll timing, which a test cannot make
		// faithful to wall-clock anyway.
		if !s.txOnly() && len(s.rx) >= fifoDepth {
			break
		}
		// An injected fault waits its turn at the head of the queue.
		if s.shifted == s.failAt && len(s.rx) > 0 {
			break
		}
		out := s.tx[0]
		s.tx = s.tx[1:]
		i := s.shifted
		s.shifted++
		moved = true

		in := s.Responder(i, out)
		if i == s.failAt {
			switch s.failKind {
			case errcode.ModeFault:
				s.modf = true
			case errcode.CRCError:
				s.crcerr = true
			default:
				s.ovr = true
			}
			continue // the answered byte is lost
		}
		if s.txOnly() {
			continue // receive path parked
		}
		s.rx = append(s.rx, in)
	}
	return moved
}

func lvl(n int) uint32 { return uint32(mathx.Min(n, 3)) }

// Status synthesizes SR from the FIFO and fault state, advancing the
// line first the way wall-clock time would on hardware.
func (s *Sim) Status() uint32 {
	s.statusReads++
	if s.step() {
		s.idlePolls = 0
	} else if s.idlePolls++; s.idlePolls > stallBudget {
		panic("spitest: status polled with a dead line (test deadlock)")
	}

	var sr uint32
	if len(s.rx) > 0 {
		sr |= spi.SR_RXNE
	}
	if len(s.tx) < fifoDepth {
		sr |= spi.SR_TXE
	}
	sr |= lvl(len(s.tx)) << spi.SR_FTLVL_Pos
	sr |= lvl(len(s.rx)) << spi.SR_FRLVL_Pos
	if s.ovr {
		sr |= spi.SR_OVR
	}
	if s.modf {
		sr |= spi.SR_MODF
	}
	if s.crcerr {
		sr |= spi.SR_CRCERR
	}
	return sr
}

func (s *Sim) Control1() uint32 {
	s.ctrlReads++
	return s.cr1
}

func (s *Sim) SetControl1(v uint32) {
	s.ctrlWrites++
	s.cr1 = v
}

func (s *Sim) Control2() uint32 {
	s.ctrlReads++
	return s.cr2
}

func (s *Sim) SetControl2(v uint32) {
	s.ctrlWrites++
	s.cr2 = v
}

func (s *Sim) WriteData8(b byte) {
	s.dataWrites++
	if len(s.tx) >= fifoDepth {
		panic("spitest: transmit FIFO overfilled (driver ignored TXE)")
	}
	s.idlePolls = 0
	s.tx = append(s.tx, b)
	s.txLog = append(s.txLog, b)
}

func (s *Sim) ReadData8() byte {
	s.dataReads++
	if len(s.rx) == 0 {
		panic("spitest: read of empty receive FIFO (driver ignored RXNE)")
	}
	s.idlePolls = 0
	v := s.rx[0]
	s.rx = s.rx[1:]
	return v
}

// DataAddress returns a placeholder; a simulated controller has no bus
// address.
func (s *Sim) DataAddress() uintptr { return 0 }
