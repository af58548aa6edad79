package rcc

import "testing"

func TestBusFreqSelectsAPBBranch(t *testing.T) {
	c := Clocks{Sysclk: 144_000_000, Pclk1: 36_000_000, Pclk2: 72_000_000}

	// SPI2/SPI3 hang off APB1, SPI1/SPI4 off APB2 (RM0440 bus matrix).
	for _, tc := range []struct {
		p    Peripheral
		want uint32
	}{
		{SPI1, 72_000_000},
		{SPI2, 36_000_000},
		{SPI3, 36_000_000},
		{SPI4, 72_000_000},
	} {
		if got := c.BusFreq(tc.p); got != tc.want {
			t.Errorf("BusFreq(%d) = %d, want %d", tc.p, got, tc.want)
		}
	}
}
