package spi

import "testing"

func TestBaudCodeNeverExceedsTarget(t *testing.T) {
	cases := []struct {
		bus, target uint32
		want        uint32 // BR field; ratio is 2 << BR
	}{
		{72_000_000, 72_000_000, 0b000}, // /2 is the hardware minimum
		{72_000_000, 36_000_000, 0b000},
		{72_000_000, 30_000_000, 0b001}, // /2 would give 36 MHz, too fast
		{72_000_000, 9_000_000, 0b010},  // exact: 72/9 = 8
		{72_000_000, 8_999_999, 0b011},  // just under exact, round ratio up
		{48_000_000, 1_000_000, 0b101},  // /64 -> 750 kHz
		{72_000_000, 100, 0b111},        // demand beyond /256 saturates
		{1000, 1000, 0b000},
	}
	for _, c := range cases {
		if got := baudCode(c.bus, c.target); got != c.want {
			t.Errorf("baudCode(%d, %d) = %#b, want %#b", c.bus, c.target, got, c.want)
		}
		// The selected ratio must not overshoot the target (except at
		// the /256 floor, where no slower rate exists).
		ratio := uint32(2) << baudCode(c.bus, c.target)
		if ratio < 256 && c.bus/ratio > c.target {
			t.Errorf("baudCode(%d, %d): line rate %d exceeds target", c.bus, c.target, c.bus/ratio)
		}
	}
}

func TestBaudCodeUnreachablePanics(t *testing.T) {
	for _, c := range []struct{ bus, target uint32 }{
		{72_000_000, 72_000_001}, // faster than the bus clock
		{72_000_000, 0},          // zero target
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("baudCode(%d, %d): expected panic", c.bus, c.target)
				}
			}()
			baudCode(c.bus, c.target)
		}()
	}
}
