package lfslog

import (
	"math"
	"unsafe"
)

// Slot is the width class of one variadic argument after C default
// argument promotion.
type Slot uint8

const (
	SlotInt     Slot = iota // int, char, short: 4 bytes
	SlotLong                // 'l' modified integers: 8 bytes
	SlotDouble              // float and double: 8 bytes
	SlotPointer             // data pointers: 4 bytes on wasm32
)

// Size returns the slot's size and alignment in a wasm32 vararg buffer
func (s Slot) Size() uint32 {
	switch s {
	case SlotLong, SlotDouble:
		return 8
	}
	return 4
}

// MaxCString bounds how far a string argument is scanned for its NUL
const MaxCString = 1024

// ArgCursor is positioned at the start of a variadic argument list. It is
// the only place raw argument memory is touched.
//
// Next returns the raw bits of the next argument of the given slot and
// advances. Nothing can verify that the caller actually passed such an
// argument; that contract rests with the template.
//
// CString dereferences a string argument. ok is false when the memory
// cannot be read or no terminator is found within MaxCString bytes.
type ArgCursor interface {
	Next(slot Slot) uint64
	CString(addr uint64) (b []byte, ok bool)
}

// Memory is the little-endian linear memory a VaList reads from.
// wazero's api.Memory satisfies it.
type Memory interface {
	ReadByte(offset uint32) (byte, bool)
	ReadUint32Le(offset uint32) (uint32, bool)
	ReadUint64Le(offset uint32) (uint64, bool)
	Read(offset, byteCount uint32) ([]byte, bool)
}

// VaList walks a wasm32 vararg buffer: each argument is stored at the next
// offset aligned to its own size.
type VaList struct {
	mem Memory
	ptr uint32
}

// NewVaList returns a cursor over the vararg buffer at ptr
func NewVaList(mem Memory, ptr uint32) *VaList {
	return &VaList{mem: mem, ptr: ptr}
}

// Next reads the next argument. Reads outside memory yield zero.
func (v *VaList) Next(slot Slot) uint64 {
	size := slot.Size()
	v.ptr = (v.ptr + size - 1) &^ (size - 1)
	at := v.ptr
	v.ptr += size

	if size == 8 {
		x, _ := v.mem.ReadUint64Le(at)
		return x
	}
	x, _ := v.mem.ReadUint32Le(at)
	return uint64(x)
}

// CString returns a view of the NUL-terminated string at addr
func (v *VaList) CString(addr uint64) ([]byte, bool) {
	if addr > math.MaxUint32 {
		return nil, false
	}
	start := uint32(addr)
	n, ok := cstrlen(v.mem, start)
	if !ok {
		return nil, false
	}
	return v.mem.Read(start, n)
}

// cstrlen finds the terminator of the string at start
func cstrlen(mem Memory, start uint32) (uint32, bool) {
	for n := uint32(0); n < MaxCString; n++ {
		c, ok := mem.ReadByte(start + n)
		if !ok {
			return 0, false
		}
		if c == 0 {
			return n, true
		}
	}
	return 0, false
}

// CStringAt reads the NUL-terminated string at addr in mem, the way hooks
// fetch their template.
func CStringAt(mem Memory, addr uint32) ([]byte, bool) {
	n, ok := cstrlen(mem, addr)
	if !ok {
		return nil, false
	}
	return mem.Read(addr, n)
}

// Values is an ArgCursor over Go values, for Go callers using C templates.
// Strings and byte slices are handed out as handles resolved by CString.
// An exhausted list yields zero.
type Values struct {
	args []any
	i    int
}

// NewValues returns a cursor over args
func NewValues(args ...any) *Values {
	return &Values{args: args}
}

// Next converts the next Go value to the raw bits of slot
func (v *Values) Next(slot Slot) uint64 {
	if v.i >= len(v.args) {
		return 0
	}
	idx := v.i
	arg := v.args[idx]
	v.i++

	if slot == SlotDouble {
		return math.Float64bits(toFloat(arg))
	}

	switch a := arg.(type) {
	case nil:
		return 0
	case int:
		return uint64(a)
	case int8:
		return uint64(a)
	case int16:
		return uint64(a)
	case int32:
		return uint64(a)
	case int64:
		return uint64(a)
	case uint:
		return uint64(a)
	case uint8:
		return uint64(a)
	case uint16:
		return uint64(a)
	case uint32:
		return uint64(a)
	case uint64:
		return a
	case uintptr:
		return uint64(a)
	case unsafe.Pointer:
		return uint64(uintptr(a))
	case bool:
		if a {
			return 1
		}
		return 0
	case float32:
		return uint64(int64(a))
	case float64:
		return uint64(int64(a))
	case string, []byte:
		return uint64(idx + 1)
	}
	return 0
}

// CString resolves a handle returned by Next for a string or []byte value
func (v *Values) CString(addr uint64) ([]byte, bool) {
	if addr == 0 || addr > uint64(len(v.args)) {
		return nil, false
	}
	switch a := v.args[addr-1].(type) {
	case string:
		return unsafe.Slice(unsafe.StringData(a), len(a)), true
	case []byte:
		return a, true
	}
	return nil, false
}

func toFloat(arg any) float64 {
	switch a := arg.(type) {
	case float64:
		return a
	case float32:
		return float64(a)
	case int:
		return float64(a)
	case int32:
		return float64(a)
	case int64:
		return float64(a)
	case uint32:
		return float64(a)
	case uint64:
		return float64(a)
	}
	return 0
}
