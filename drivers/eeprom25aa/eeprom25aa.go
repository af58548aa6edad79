// Package eeprom25aa provides a driver for the Microchip 25AA/25LC series
// of SPI EEPROMs (24-bit address parts, e.g. 25AA1024).
//
// The device is framed by chip select: a command, its address and its data
// must travel inside one CS assertion. The driver therefore takes a
// ChipSelect callback alongside the bus, and flushes the bus before every
// CS edge so no frame byte is still sitting in a FIFO when the line
// deasserts.
//
// Writes are paged. WriteAt splits the buffer on the device's page
// boundaries, issues a write-enable before each page and polls the status
// register until the internal write cycle finishes.
package eeprom25aa

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"

	"stm32g4hal/x/mathx"
)

// Instruction set (datasheet table 2-1).
const (
	cmdWRSR  = 0x01
	cmdWrite = 0x02
	cmdRead  = 0x03
	cmdWRDI  = 0x04
	cmdRDSR  = 0x05
	cmdWREN  = 0x06
)

// Status register bits.
const (
	statusWIP = 0x01 // write cycle in progress
	statusWEL = 0x02 // write enable latch
)

// Errors returned by the driver.
var (
	ErrTimeout = errors.New("eeprom25aa: write cycle did not finish")
	ErrBounds  = errors.New("eeprom25aa: access outside device")
)

// flusher is the optional bus capability the driver uses to make sure all
// frame bytes are on the wire before a CS edge or a turnaround to reading.
type flusher interface {
	Flush() error
}

// Config controls the device geometry and write polling. All fields are
// optional.
type Config struct {
	// Size is the device capacity in bytes. Default 128 KiB (25AA1024).
	Size uint32
	// PageSize is the write page in bytes. Default 256.
	PageSize uint32
	// WritePollAttempts bounds the status polls per page write. Default 20.
	WritePollAttempts int
	// PollInterval is the delay between status polls. Default 500 µs; the
	// datasheet write cycle is up to 5 ms.
	PollInterval time.Duration
}

// Device wraps a SPI connection to one EEPROM.
type Device struct {
	bus drivers.SPI
	cs  func(assert bool)
	cfg Config
	buf [4]byte // command + 24-bit address, reused to avoid allocations
}

// New creates a connection to an EEPROM behind the given chip select. The
// SPI bus must already be configured (mode 0 or 3, per datasheet). This
// function only creates the Device object; it does not touch the device.
func New(bus drivers.SPI, cs func(assert bool)) Device {
	return Device{bus: bus, cs: cs}
}

// Configure applies optional geometry and polling config.
func (d *Device) Configure(cfgs ...Config) {
	var c Config
	if len(cfgs) > 0 {
		c = cfgs[0]
	}
	if c.Size == 0 {
		c.Size = 128 * 1024
	}
	if c.PageSize == 0 {
		c.PageSize = 256
	}
	if c.WritePollAttempts <= 0 {
		c.WritePollAttempts = 20
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 500 * time.Microsecond
	}
	d.cfg = c
}

func (d *Device) flush() error {
	if fl, ok := d.bus.(flusher); ok {
		return fl.Flush()
	}
	return nil
}

// frame runs f inside one CS assertion, flushing the bus before each CS
// edge so the frame is complete on the wire when the line deasserts.
func (d *Device) frame(f func() error) error {
	d.cs(true)
	err := f()
	if ferr := d.flush(); err == nil {
		err = ferr
	}
	d.cs(false)
	return err
}

func (d *Device) header(cmd byte, addr uint32) []byte {
	d.buf[0] = cmd
	d.buf[1] = byte(addr >> 16)
	d.buf[2] = byte(addr >> 8)
	d.buf[3] = byte(addr)
	return d.buf[:4]
}

func (d *Device) check(off int64, n int) error {
	if d.cfg.PageSize == 0 {
		d.Configure()
	}
	if off < 0 || off+int64(n) > int64(d.cfg.Size) {
		return ErrBounds
	}
	return nil
}

// Status reads the status register.
func (d *Device) Status() (byte, error) {
	var st [1]byte
	err := d.frame(func() error {
		if err := d.bus.Tx([]byte{cmdRDSR}, nil); err != nil {
			return err
		}
		if err := d.flush(); err != nil {
			return err
		}
		return d.bus.Tx(nil, st[:])
	})
	return st[0], err
}

// WriteDisable clears the write enable latch.
func (d *Device) WriteDisable() error {
	return d.frame(func() error { return d.bus.Tx([]byte{cmdWRDI}, nil) })
}

// SetStatus writes the status register (block protection bits). A
// write-enable is issued first, as the datasheet requires.
func (d *Device) SetStatus(v byte) error {
	if err := d.writeEnable(); err != nil {
		return err
	}
	if err := d.frame(func() error { return d.bus.Tx([]byte{cmdWRSR, v}, nil) }); err != nil {
		return err
	}
	return d.waitIdle()
}

// ReadAt reads len(p) bytes starting at off. The device auto-increments
// across page boundaries on read, so one frame covers the whole buffer.
func (d *Device) ReadAt(p []byte, off int64) (int, error) {
	if err := d.check(off, len(p)); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	err := d.frame(func() error {
		if err := d.bus.Tx(d.header(cmdRead, uint32(off)), nil); err != nil {
			return err
		}
		// The turnaround: the address must be fully clocked out before
		// the first data byte is clocked in.
		if err := d.flush(); err != nil {
			return err
		}
		return d.bus.Tx(nil, p)
	})
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteAt writes p starting at off, splitting on page boundaries. Each
// page gets its own write-enable and is polled to completion before the
// next page starts. On error the count of bytes already committed is
// returned.
func (d *Device) WriteAt(p []byte, off int64) (int, error) {
	if err := d.check(off, len(p)); err != nil {
		return 0, err
	}
	written := 0
	for len(p) > 0 {
		room := d.cfg.PageSize - uint32(off)%d.cfg.PageSize
		n := mathx.Min(len(p), int(room))

		if err := d.writeEnable(); err != nil {
			return written, err
		}
		chunk := p[:n]
		err := d.frame(func() error {
			if err := d.bus.Tx(d.header(cmdWrite, uint32(off)), nil); err != nil {
				return err
			}
			return d.bus.Tx(chunk, nil)
		})
		if err != nil {
			return written, err
		}
		if err := d.waitIdle(); err != nil {
			return written, err
		}

		written += n
		off += int64(n)
		p = p[n:]
	}
	return written, nil
}

func (d *Device) writeEnable() error {
	return d.frame(func() error { return d.bus.Tx([]byte{cmdWREN}, nil) })
}

// waitIdle polls the status register until the write cycle finishes.
func (d *Device) waitIdle() error {
	for i := 0; i < d.cfg.WritePollAttempts; i++ {
		st, err := d.Status()
		if err != nil {
			return err
		}
		if st&statusWIP == 0 {
			return nil
		}
		time.Sleep(d.cfg.PollInterval)
	}
	return ErrTimeout
}
