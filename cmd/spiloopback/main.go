//go:build tinygo

// Loopback exerciser: wire PA7 (MOSI) to PA6 (MISO) on SPI1 and every
// byte clocked out must come straight back.
package main

import (
	"time"

	"stm32g4hal/periph"
	"stm32g4hal/pins"
	"stm32g4hal/rcc"
	"stm32g4hal/spi"
)

func main() {
	println("[spiloopback] boot ...")
	time.Sleep(500 * time.Millisecond)

	ctl, err := periph.TakeSPI1()
	if err != nil {
		println("[spiloopback] SPI1 already claimed:", err.Error())
		return
	}

	clk := rcc.Clocks{Sysclk: 16_000_000, Pclk1: 16_000_000, Pclk2: 16_000_000}
	s := spi.NewSPI1(ctl,
		spi.Pins[pins.PA5, pins.PA6, pins.PA7]{},
		spi.Config{Mode: spi.Mode0, TargetHz: 1_000_000},
		clk)

	buf := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	for {
		probe := append([]byte(nil), buf...)
		if err := s.TransferInPlace(probe); err != nil {
			println("[spiloopback] transfer:", err.Error())
			time.Sleep(time.Second)
			continue
		}
		ok := true
		for i := range buf {
			if probe[i] != buf[i] {
				ok = false
			}
		}
		if ok {
			println("[spiloopback] loopback OK")
		} else {
			println("[spiloopback] loopback MISMATCH, check PA6/PA7 jumper")
		}
		time.Sleep(time.Second)
	}
}
