package spi

import "stm32g4hal/pins"

// The capability matrix: for every controller, the set of pin identities
// the silicon can route to each of its three lines. The sets are type
// sets, so they carry no runtime data and no runtime checks - a triple
// outside the matrix fails to compile at the constructor.
//
// The placeholder types NoSCK, NoMISO and NoMOSI are members of every
// role set, for wirings that intentionally leave a line unconnected
// (transmit-only or receive-only peripherals).

// NoSCK marks the clock line as intentionally unused.
type NoSCK struct{}

// NoMISO marks the data-in line as intentionally unused.
type NoMISO struct{}

// NoMOSI marks the data-out line as intentionally unused.
type NoMOSI struct{}

// Pins is the (clock, data-in, data-out) triple a binding is wired to.
// Construct it with the pin identity types from package pins, or the No*
// placeholders for unused lines.
type Pins[S, I, O any] struct {
	SCK  S
	MISO I
	MOSI O
}

// SPI1 role sets.
type (
	SCK1 interface {
		pins.PA5 | pins.PB3 | pins.PG2 | NoSCK
	}
	MISO1 interface {
		pins.PA6 | pins.PB4 | pins.PG3 | NoMISO
	}
	MOSI1 interface {
		pins.PA7 | pins.PB5 | pins.PG4 | NoMOSI
	}
)

// SPI2 role sets.
type (
	SCK2 interface {
		pins.PF1 | pins.PF9 | pins.PF10 | pins.PB13 | NoSCK
	}
	MISO2 interface {
		pins.PA10 | pins.PB14 | NoMISO
	}
	MOSI2 interface {
		pins.PA11 | pins.PB15 | NoMOSI
	}
)

// SPI3 role sets.
type (
	SCK3 interface {
		pins.PB3 | pins.PC10 | pins.PG9 | NoSCK
	}
	MISO3 interface {
		pins.PB4 | pins.PC11 | NoMISO
	}
	MOSI3 interface {
		pins.PB5 | pins.PC12 | NoMOSI
	}
)

// SPI4 role sets (larger G47x/G48x packages).
type (
	SCK4 interface {
		pins.PE2 | pins.PE12 | NoSCK
	}
	MISO4 interface {
		pins.PE5 | pins.PE13 | NoMISO
	}
	MOSI4 interface {
		pins.PE6 | pins.PE14 | NoMOSI
	}
)
