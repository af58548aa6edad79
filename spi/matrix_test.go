package spi_test

import (
	"stm32g4hal/pins"
	"stm32g4hal/spi"
)

// Wiring legality lives in the constructor constraints, so these checks
// are compile time only: every routable triple from the datasheet must
// instantiate, and a triple outside the matrix must not build.
var (
	_ = spi.NewSPI1[pins.PA5, pins.PA6, pins.PA7]
	_ = spi.NewSPI1[pins.PB3, pins.PB4, pins.PB5]
	_ = spi.NewSPI1[pins.PG2, pins.PG3, pins.PG4]
	_ = spi.NewSPI1[pins.PA5, spi.NoMISO, pins.PA7] // transmit-only wiring
	_ = spi.NewSPI1[pins.PA5, pins.PA6, spi.NoMOSI] // receive-only wiring

	_ = spi.NewSPI2[pins.PB13, pins.PB14, pins.PB15]
	_ = spi.NewSPI2[pins.PF1, pins.PA10, pins.PA11]
	_ = spi.NewSPI2[pins.PF9, pins.PB14, pins.PA11]
	_ = spi.NewSPI2[pins.PF10, pins.PA10, pins.PB15]

	_ = spi.NewSPI3[pins.PB3, pins.PB4, pins.PB5]
	_ = spi.NewSPI3[pins.PC10, pins.PC11, pins.PC12]
	_ = spi.NewSPI3[pins.PG9, pins.PC11, pins.PB5]

	_ = spi.NewSPI4[pins.PE2, pins.PE5, pins.PE6]
	_ = spi.NewSPI4[pins.PE12, pins.PE13, pins.PE14]
)

// Triples the silicon cannot route, kept as a record of what must fail
// to compile:
//
//	spi.NewSPI1[pins.PB13, pins.PA6, pins.PA7]  // PB13 clocks SPI2 only
//	spi.NewSPI2[pins.PB13, pins.PA6, pins.PB15] // PA6 is SPI1/SPI3 MISO
//	spi.NewSPI3[pins.PA5, pins.PB4, pins.PB5]   // PA5 clocks SPI1 only
//	spi.NewSPI4[pins.PE2, pins.PE5, pins.PB5]   // PB5 never routes to SPI4
