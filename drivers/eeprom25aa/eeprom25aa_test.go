package eeprom25aa

import (
	"bytes"
	"testing"
	"time"

	"stm32g4hal/spi"
	"stm32g4hal/spi/spitest"
)

// chip models the EEPROM at the other end of the line: it decodes the
// byte stream framed by chip select and commits commands on deassert,
// the way the real part latches on the CS rising edge.
type chip struct {
	mem   []byte
	sel   bool
	frame []byte

	statusReg byte
	wel       bool
	busy      int // status polls still reporting a write in progress
	stuck     bool

	wrens  int
	writes int
}

func (c *chip) addr() int {
	return int(c.frame[1])<<16 | int(c.frame[2])<<8 | int(c.frame[3])
}

func (c *chip) respond(_ int, out byte) byte {
	if !c.sel {
		return 0xFF
	}
	c.frame = append(c.frame, out)
	n := len(c.frame)
	switch c.frame[0] {
	case cmdRDSR:
		if n < 2 {
			break // still clocking the command byte
		}
		st := c.statusReg
		if c.stuck {
			return st | statusWIP
		}
		if c.busy > 0 {
			c.busy--
			st |= statusWIP
		}
		if c.wel {
			st |= statusWEL
		}
		return st
	case cmdRead:
		if n > 4 {
			return c.mem[c.addr()+n-5]
		}
	}
	return 0xFF
}

func (c *chip) deselect() {
	defer func() { c.frame = c.frame[:0] }()
	if len(c.frame) == 0 {
		return
	}
	switch c.frame[0] {
	case cmdWREN:
		c.wel = true
		c.wrens++
	case cmdWRDI:
		c.wel = false
	case cmdWRSR:
		if c.wel && len(c.frame) == 2 {
			c.statusReg = c.frame[1]
			c.wel = false
			c.busy = 1
		}
	case cmdWrite:
		if !c.wel || len(c.frame) < 5 {
			return
		}
		copy(c.mem[c.addr():], c.frame[4:])
		c.wel = false
		c.busy = 2
		c.writes++
	}
}

func newTestDevice(t *testing.T) (*Device, *chip) {
	t.Helper()
	c := &chip{mem: make([]byte, 1024)}
	sim := spitest.New()
	sim.Responder = c.respond
	bus := spi.Open(sim, spi.Config{Mode: spi.Mode0, TargetHz: 1_000_000}, 16_000_000)
	d := New(bus, func(assert bool) {
		if assert {
			c.sel = true
			c.frame = c.frame[:0]
		} else {
			c.sel = false
			c.deselect()
		}
	})
	d.Configure(Config{Size: 1024, PageSize: 16, WritePollAttempts: 4, PollInterval: time.Microsecond})
	return &d, c
}

func TestWriteReadRoundTrip(t *testing.T) {
	d, c := newTestDevice(t)

	src := make([]byte, 40)
	for i := range src {
		src[i] = byte(0x30 + i)
	}
	// Offset 10 with 16-byte pages: 6 + 16 + 16 + 2, four page programs.
	n, err := d.WriteAt(src, 10)
	if err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if n != len(src) {
		t.Fatalf("WriteAt wrote %d, want %d", n, len(src))
	}
	if c.writes != 4 || c.wrens != 4 {
		t.Errorf("chip saw %d programs and %d write-enables, want 4 and 4", c.writes, c.wrens)
	}

	got := make([]byte, len(src))
	if _, err := d.ReadAt(got, 10); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Errorf("read back %x, want %x", got, src)
	}
}

func TestStatusIdle(t *testing.T) {
	d, _ := newTestDevice(t)

	st, err := d.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st != 0 {
		t.Errorf("Status = %#x, want 0", st)
	}
}

func TestSetStatus(t *testing.T) {
	d, c := newTestDevice(t)

	if err := d.SetStatus(0x0C); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if c.statusReg != 0x0C {
		t.Errorf("chip status register = %#x, want 0x0c", c.statusReg)
	}
}

func TestBounds(t *testing.T) {
	d, _ := newTestDevice(t)

	buf := make([]byte, 8)
	if _, err := d.ReadAt(buf, 1020); err != ErrBounds {
		t.Errorf("ReadAt past end = %v, want %v", err, ErrBounds)
	}
	if _, err := d.WriteAt(buf, -1); err != ErrBounds {
		t.Errorf("WriteAt negative offset = %v, want %v", err, ErrBounds)
	}
}

func TestWriteTimeout(t *testing.T) {
	d, c := newTestDevice(t)
	c.stuck = true

	n, err := d.WriteAt([]byte{1, 2, 3}, 0)
	if err != ErrTimeout {
		t.Fatalf("WriteAt = %v, want %v", err, ErrTimeout)
	}
	if n != 0 {
		t.Errorf("WriteAt reported %d committed bytes, want 0", n)
	}
}
