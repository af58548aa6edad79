// Package mmio provides word-size-qualified access to memory-mapped
// peripheral registers.
//
// A register is a U32 located at a hardware-defined address, either as a
// field of a register-block struct laid over the peripheral's base address
// or obtained directly from a base+offset computation. Each accessor
// performs exactly one load or one store of the stated width; values are
// never cached and accesses are never merged.
//
// On MCU builds (tinygo) the accessors go through runtime/volatile. Host
// builds use plain memory so register blocks can live in ordinary test
// memory; see mmio_host.go.
package mmio

// U32 is one 32-bit hardware register.
type U32 struct {
	reg uint32
}

// SetBits sets the bits in mask, read-modify-write.
func (r *U32) SetBits(mask uint32) { r.Set(r.Get() | mask) }

// ClearBits clears the bits in mask, read-modify-write.
func (r *U32) ClearBits(mask uint32) { r.Set(r.Get() &^ mask) }

// HasBits reports whether all bits in mask are set.
func (r *U32) HasBits(mask uint32) bool { return r.Get()&mask == mask }

// ReplaceBits writes val into the field selected by mask, preserving the
// rest of the register. val must already be shifted into field position.
func (r *U32) ReplaceBits(val, mask uint32) { r.Set(r.Get()&^mask | val&mask) }
