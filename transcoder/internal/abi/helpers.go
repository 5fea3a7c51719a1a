package abi

import (
	"math"
	"reflect"
	"unsafe"
)

func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// TypeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

const (
	MaxStringSize = 1 << 30 // 1 GB max string size
	MaxListLength = 1 << 27 // 128M max elements
	MaxAlloc      = 1 << 30 // 1 GB max single allocation
)

// DiscriminantSize: 1 byte for <=256 cases, 2 for <=65536, else 4.
func DiscriminantSize(numCases int) uint32 {
	if numCases <= 256 {
		return 1
	} else if numCases <= 65536 {
		return 2
	}
	return 4
}

func IsSignedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func IsUnsignedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// LoadInt reads a signed Go integer of kind k at ptr.
func LoadInt(ptr unsafe.Pointer, k reflect.Kind) int64 {
	switch k {
	case reflect.Int8:
		return int64(*(*int8)(ptr))
	case reflect.Int16:
		return int64(*(*int16)(ptr))
	case reflect.Int32:
		return int64(*(*int32)(ptr))
	case reflect.Int64:
		return *(*int64)(ptr)
	default:
		return int64(*(*int)(ptr))
	}
}

// LoadUint reads an unsigned Go integer of kind k at ptr.
func LoadUint(ptr unsafe.Pointer, k reflect.Kind) uint64 {
	switch k {
	case reflect.Uint8:
		return uint64(*(*uint8)(ptr))
	case reflect.Uint16:
		return uint64(*(*uint16)(ptr))
	case reflect.Uint32:
		return uint64(*(*uint32)(ptr))
	case reflect.Uint64:
		return *(*uint64)(ptr)
	case reflect.Uintptr:
		return uint64(*(*uintptr)(ptr))
	default:
		return uint64(*(*uint)(ptr))
	}
}

// StoreInt writes v into a signed Go integer of kind k. It reports false when
// v does not fit.
func StoreInt(ptr unsafe.Pointer, k reflect.Kind, v int64) bool {
	switch k {
	case reflect.Int8:
		if v < math.MinInt8 || v > math.MaxInt8 {
			return false
		}
		*(*int8)(ptr) = int8(v)
	case reflect.Int16:
		if v < math.MinInt16 || v > math.MaxInt16 {
			return false
		}
		*(*int16)(ptr) = int16(v)
	case reflect.Int32:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return false
		}
		*(*int32)(ptr) = int32(v)
	case reflect.Int64:
		*(*int64)(ptr) = v
	default:
		if v < math.MinInt || v > math.MaxInt {
			return false
		}
		*(*int)(ptr) = int(v)
	}
	return true
}

// StoreUint writes v into an unsigned Go integer of kind k. It reports false
// when v does not fit.
func StoreUint(ptr unsafe.Pointer, k reflect.Kind, v uint64) bool {
	switch k {
	case reflect.Uint8:
		if v > math.MaxUint8 {
			return false
		}
		*(*uint8)(ptr) = uint8(v)
	case reflect.Uint16:
		if v > math.MaxUint16 {
			return false
		}
		*(*uint16)(ptr) = uint16(v)
	case reflect.Uint32:
		if v > math.MaxUint32 {
			return false
		}
		*(*uint32)(ptr) = uint32(v)
	case reflect.Uint64:
		*(*uint64)(ptr) = v
	case reflect.Uintptr:
		if uint64(uintptr(v)) != v {
			return false
		}
		*(*uintptr)(ptr) = uintptr(v)
	default:
		if v > math.MaxUint {
			return false
		}
		*(*uint)(ptr) = uint(v)
	}
	return true
}

// SignExtend widens the low size bytes of bits to a signed 64-bit value.
func SignExtend(bits uint64, size uint32) int64 {
	shift := 64 - size*8
	return int64(bits<<shift) >> shift
}
