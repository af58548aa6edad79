// Package periph is the process-wide ownership registry for bus
// controller hardware.
//
// Each controller is represented by a token type (SPI1..SPI4). A token is
// handed out exactly once per process; holding it is the licence to
// program that controller's registers. Binding a driver consumes the
// token, and releasing the driver hands the same token back so the
// controller can be rebound. There is no locking anywhere downstream;
// exclusive ownership of the token is the whole concurrency story.
package periph

import (
	"sync/atomic"

	"stm32g4hal/errcode"
)

// SPI1 is the ownership token for the SPI1 controller.
type SPI1 struct{ _ int8 }

// SPI2 is the ownership token for the SPI2 controller.
type SPI2 struct{ _ int8 }

// SPI3 is the ownership token for the SPI3 controller.
type SPI3 struct{ _ int8 }

// SPI4 is the ownership token for the SPI4 controller.
type SPI4 struct{ _ int8 }

var (
	spi1Taken atomic.Bool
	spi2Taken atomic.Bool
	spi3Taken atomic.Bool
	spi4Taken atomic.Bool
)

func claim(taken *atomic.Bool) error {
	if !taken.CompareAndSwap(false, true) {
		return errcode.BusInUse
	}
	return nil
}

// TakeSPI1 yields the SPI1 token. The second and later calls in a process
// fail with errcode.BusInUse; a released binding returns its token to the
// holder directly, not to this registry.
func TakeSPI1() (*SPI1, error) {
	if err := claim(&spi1Taken); err != nil {
		return nil, err
	}
	return &SPI1{}, nil
}

// TakeSPI2 yields the SPI2 token; see TakeSPI1.
func TakeSPI2() (*SPI2, error) {
	if err := claim(&spi2Taken); err != nil {
		return nil, err
	}
	return &SPI2{}, nil
}

// TakeSPI3 yields the SPI3 token; see TakeSPI1.
func TakeSPI3() (*SPI3, error) {
	if err := claim(&spi3Taken); err != nil {
		return nil, err
	}
	return &SPI3{}, nil
}

// TakeSPI4 yields the SPI4 token; see TakeSPI1.
func TakeSPI4() (*SPI4, error) {
	if err := claim(&spi4Taken); err != nil {
		return nil, err
	}
	return &SPI4{}, nil
}
