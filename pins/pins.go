// Package pins declares the pin identities of the STM32G4 package that the
// serial peripherals in this module can be wired to.
//
// A pin identity is a zero-size marker type. Which electrical role a pin
// may serve for which controller is declared where the controller lives
// (see the role sets in package spi); a pin type appearing in none of a
// controller's role sets cannot be passed to that controller's
// constructor, and the failure is a compile error, not a runtime check.
// Alternate-function programming is the board support code's concern, not
// this package's.
package pins

// Port A.
type (
	PA5  struct{}
	PA6  struct{}
	PA7  struct{}
	PA10 struct{}
	PA11 struct{}
)

// Port B.
type (
	PB3  struct{}
	PB4  struct{}
	PB5  struct{}
	PB13 struct{}
	PB14 struct{}
	PB15 struct{}
)

// Port C.
type (
	PC10 struct{}
	PC11 struct{}
	PC12 struct{}
)

// Port E (present on the larger G47x/G48x packages).
type (
	PE2  struct{}
	PE5  struct{}
	PE6  struct{}
	PE12 struct{}
	PE13 struct{}
	PE14 struct{}
)

// Port F.
type (
	PF1  struct{}
	PF9  struct{}
	PF10 struct{}
)

// Port G (present on the larger G47x/G48x packages).
type (
	PG2 struct{}
	PG3 struct{}
	PG4 struct{}
	PG9 struct{}
)
