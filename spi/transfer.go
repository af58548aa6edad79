package spi

import (
	"stm32g4hal/errcode"
	"stm32g4hal/x/mathx"
)

// The transfer engine.
//
// The duplex line only clocks while the transmit FIFO has data, so a
// receive can never just wait: something must be queued ahead of it or
// the line stalls. Every multi-byte operation therefore runs in three
// phases: prefill the FIFO (real data or fillers) to start the clock,
// pipeline one write ahead of each read to keep it running, then drain
// the in-flight tail with reads only. The prefill depth is clamped to
// the operation length so short buffers never under-run the drain
// arithmetic.

// fifoDepth is the transmit FIFO capacity in 8-bit frames.
const fifoDepth = 4

// TryWriteByte queues one byte if the FIFO has room. It returns
// errcode.WouldBlock when the FIFO is full and the fault code when the
// controller reports one. Status flags are checked in fixed priority:
// overrun, mode fault, CRC error, then readiness.
func (b *Bus) TryWriteByte(w byte) error {
	sr := b.port.Status()
	switch {
	case sr&SR_OVR != 0:
		return errcode.Overrun
	case sr&SR_MODF != 0:
		return errcode.ModeFault
	case sr&SR_CRCERR != 0:
		return errcode.CRCError
	case sr&SR_TXE != 0:
		b.port.WriteData8(w)
		return nil
	}
	return errcode.WouldBlock
}

// TryReadByte pops one received byte if one is ready. It returns
// errcode.WouldBlock when the receive FIFO is empty and the fault code
// when the controller reports one, in the same priority as TryWriteByte.
func (b *Bus) TryReadByte() (byte, error) {
	sr := b.port.Status()
	switch {
	case sr&SR_OVR != 0:
		return 0, errcode.Overrun
	case sr&SR_MODF != 0:
		return 0, errcode.ModeFault
	case sr&SR_CRCERR != 0:
		return 0, errcode.CRCError
	case sr&SR_RXNE != 0:
		return b.port.ReadData8(), nil
	}
	return 0, errcode.WouldBlock
}

// WriteByte blocks until the byte is queued or a fault ends the attempt.
func (b *Bus) WriteByte(w byte) error {
	for {
		if err := b.TryWriteByte(w); err != errcode.WouldBlock {
			return err
		}
	}
}

// ReadByte blocks until a byte arrives or a fault ends the attempt.
func (b *Bus) ReadByte() (byte, error) {
	for {
		v, err := b.TryReadByte()
		if err != errcode.WouldBlock {
			return v, err
		}
	}
}

// readWaitUnchecked spins on data-ready alone. Only valid directly after
// a checked write in the pipeline phase: that write has already looked at
// the fault flags for this slot.
func (b *Bus) readWaitUnchecked() byte {
	for {
		if b.port.Status()&SR_RXNE != 0 {
			return b.port.ReadData8()
		}
	}
}

// fifoCap returns the free transmit FIFO slots for 8-bit frames, read
// live from the FIFO level field.
func (b *Bus) fifoCap() int {
	switch b.port.Status() >> SR_FTLVL_Pos & SR_LVL_Msk {
	case 0:
		return 4
	case 1:
		return 3
	case 2:
		return 2
	}
	return 0
}

// setTxOnly forces the bidirectional line into transmit-only mode, so the
// receive path stays quiet while we push bytes we do not want echoed back.
func (b *Bus) setTxOnly() {
	b.port.SetControl1(b.port.Control1() | CR1_BIDIMODE | CR1_BIDIOE)
}

// setBidi restores full-duplex line mode.
func (b *Bus) setBidi() {
	b.port.SetControl1(b.port.Control1() &^ uint32(CR1_BIDIMODE|CR1_BIDIOE))
}

// Read clocks len(dst) filler bytes out and deposits the len(dst) bytes
// received in exchange into dst, in order. On a fault the bytes already
// deposited stay put; nothing is rolled back.
func (b *Bus) Read(dst []byte) error {
	if len(dst) == 0 {
		return nil
	}

	// Prefill with fillers so the clock is running before the first
	// byte is consumed.
	prefill := mathx.Min(b.fifoCap(), len(dst))
	for i := 0; i < prefill; i++ {
		if err := b.WriteByte(0); err != nil {
			return err
		}
	}

	// Pipeline: stay exactly one prefill ahead of the reads.
	n := len(dst)
	for i := range dst[:n-prefill] {
		if err := b.WriteByte(0); err != nil {
			return err
		}
		dst[i] = b.readWaitUnchecked()
	}

	// Drain the in-flight tail, reads only.
	for i := n - prefill; i < n; i++ {
		var err error
		if dst[i], err = b.ReadByte(); err != nil {
			return err
		}
	}
	return nil
}

// Write clocks out src in order, discarding whatever the line returns.
// The receive path is parked in transmit-only mode for the duration and
// restored on every exit path, fault included.
func (b *Bus) Write(src []byte) error {
	if len(src) == 0 {
		return nil
	}
	b.setTxOnly()
	err := b.writeAll(src)
	b.setBidi()
	return err
}

func (b *Bus) writeAll(src []byte) error {
	for _, w := range src {
		if err := b.WriteByte(w); err != nil {
			return err
		}
	}
	return nil
}

// Tx exchanges w and r over the line. The buffers may differ in length:
// the common prefix is a true duplex exchange, then the longer side's
// tail degrades to a plain Read or Write. Either side may be empty; both
// empty is a no-op without a single register access.
func (b *Bus) Tx(w, r []byte) error {
	switch {
	case len(w) == 0 && len(r) == 0:
		return nil
	case len(r) == 0:
		return b.Write(w)
	case len(w) == 0:
		return b.Read(r)
	}

	common := mathx.Min(len(r), len(w))

	// Same prefill as Read, this time with real data.
	prefill := mathx.Min(b.fifoCap(), common)
	for _, out := range w[:prefill] {
		if err := b.WriteByte(out); err != nil {
			return err
		}
	}

	for i := prefill; i < common; i++ {
		if err := b.WriteByte(w[i]); err != nil {
			return err
		}
		r[i-prefill] = b.readWaitUnchecked()
	}

	for i := common - prefill; i < common; i++ {
		var err error
		if r[i], err = b.ReadByte(); err != nil {
			return err
		}
	}

	switch {
	case len(r) > common:
		return b.Read(r[common:])
	case len(w) > common:
		return b.Write(w[common:])
	}
	return nil
}

// TransferInPlace exchanges buf with the line using buf as both transmit
// source and receive destination. The write cursor runs one prefill ahead
// of the read cursor over the same storage, so a position is always
// consumed as transmit data before the byte received in exchange lands
// on it.
func (b *Bus) TransferInPlace(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	prefill := mathx.Min(b.fifoCap(), len(buf))
	for _, out := range buf[:prefill] {
		if err := b.WriteByte(out); err != nil {
			return err
		}
	}

	rd := 0
	for wr := prefill; wr < len(buf); wr++ {
		if err := b.WriteByte(buf[wr]); err != nil {
			return err
		}
		buf[rd] = b.readWaitUnchecked()
		rd++
	}

	for ; rd < len(buf); rd++ {
		var err error
		if buf[rd], err = b.ReadByte(); err != nil {
			return err
		}
	}
	return nil
}

// Transfer exchanges a single byte, blocking until the answer arrives.
// This is the drivers.SPI single-word primitive.
func (b *Bus) Transfer(w byte) (byte, error) {
	if err := b.WriteByte(w); err != nil {
		return 0, err
	}
	return b.ReadByte()
}

// Flush discards any stale received bytes and waits for the transmit
// FIFO to empty onto the line, leaving the controller quiescent. The
// receive path is parked in transmit-only mode while draining and
// restored on every exit path.
func (b *Bus) Flush() error {
	b.setTxOnly()
	err := b.drainQuiescent()
	b.setBidi()
	return err
}

func (b *Bus) drainQuiescent() error {
	for {
		_, err := b.TryReadByte()
		if err == errcode.WouldBlock {
			break
		}
		if err != nil {
			return err
		}
	}
	for b.port.Status()>>SR_FTLVL_Pos&SR_LVL_Msk != 0 {
	}
	return nil
}
