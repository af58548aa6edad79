package errcode

// Code is a stable, allocation-free error identifier for the peripheral
// layer. It is a string newtype, comparable, and implements error, so
// driver hot paths can report faults without touching the allocator.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Hardware fault conditions read from a controller status register.
	// Terminal for the operation in progress; never retried by the driver.
	Overrun   Code = "overrun"
	ModeFault Code = "mode_fault"
	CRCError  Code = "crc_error"

	// WouldBlock is the transient not-ready state of the non-blocking
	// primitives. Blocking callers absorb it in their poll loop; it never
	// escapes a blocking API.
	WouldBlock Code = "would_block"

	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"
	BusInUse      Code = "bus_in_use"
	PinInUse      Code = "pin_in_use"
	Timeout       Code = "timeout"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// IsFault reports whether err is one of the hardware fault codes.
func IsFault(err error) bool {
	switch Of(err) {
	case Overrun, ModeFault, CRCError:
		return true
	}
	return false
}
