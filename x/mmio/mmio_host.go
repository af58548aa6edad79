//go:build !tinygo

package mmio

import "unsafe"

// Host builds back registers with ordinary memory so register blocks can be
// placed in test-owned structs. The byte/half-word accessors assume a
// little-endian host, which holds for the Cortex-M targets this models and
// for every platform we run tests on.

// Get performs one 32-bit load.
func (r *U32) Get() uint32 { return r.reg }

// Set performs one 32-bit store.
func (r *U32) Set(v uint32) { r.reg = v }

// Get8 performs one byte-wide load of the register's lowest byte.
func (r *U32) Get8() uint8 { return *(*uint8)(unsafe.Pointer(&r.reg)) }

// Set8 performs one byte-wide store to the register's lowest byte.
func (r *U32) Set8(v uint8) { *(*uint8)(unsafe.Pointer(&r.reg)) = v }

// Get16 performs one half-word load of the register's low half.
func (r *U32) Get16() uint16 { return *(*uint16)(unsafe.Pointer(&r.reg)) }

// Set16 performs one half-word store to the register's low half.
func (r *U32) Set16(v uint16) { *(*uint16)(unsafe.Pointer(&r.reg)) = v }

// Addr returns the register's address.
func (r *U32) Addr() uintptr { return uintptr(unsafe.Pointer(&r.reg)) }
