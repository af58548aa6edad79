//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

// Get performs one volatile 32-bit load.
func (r *U32) Get() uint32 { return volatile.LoadUint32(&r.reg) }

// Set performs one volatile 32-bit store.
func (r *U32) Set(v uint32) { volatile.StoreUint32(&r.reg, v) }

// Get8 performs one volatile byte-wide load of the register's lowest byte.
// Byte access matters on FIFO'd data registers: a 32-bit access would pop
// more than one frame.
func (r *U32) Get8() uint8 {
	return volatile.LoadUint8((*uint8)(unsafe.Pointer(&r.reg)))
}

// Set8 performs one volatile byte-wide store to the register's lowest byte.
func (r *U32) Set8(v uint8) {
	volatile.StoreUint8((*uint8)(unsafe.Pointer(&r.reg)), v)
}

// Get16 performs one volatile half-word load of the register's low half.
func (r *U32) Get16() uint16 {
	return volatile.LoadUint16((*uint16)(unsafe.Pointer(&r.reg)))
}

// Set16 performs one volatile half-word store to the register's low half.
func (r *U32) Set16(v uint16) {
	volatile.StoreUint16((*uint16)(unsafe.Pointer(&r.reg)), v)
}

// Addr returns the register's bus address, for DMA programming.
func (r *U32) Addr() uintptr { return uintptr(unsafe.Pointer(&r.reg)) }
