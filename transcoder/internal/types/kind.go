package types

import "math"

type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindS8
	KindU16
	KindS16
	KindU32
	KindS32
	KindU64
	KindS64
	KindF32
	KindF64
	KindString
	KindRecord
	KindList
	KindOption
	KindEnum
)

var kindNames = [...]string{
	KindBool:   "bool",
	KindU8:     "u8",
	KindS8:     "s8",
	KindU16:    "u16",
	KindS16:    "s16",
	KindU32:    "u32",
	KindS32:    "s32",
	KindU64:    "u64",
	KindS64:    "s64",
	KindF32:    "f32",
	KindF64:    "f64",
	KindString: "string",
	KindRecord: "record",
	KindList:   "list",
	KindOption: "option",
	KindEnum:   "enum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsPrimitive() bool {
	return k <= KindF64
}

func (k Kind) IsInteger() bool {
	return k >= KindU8 && k <= KindS64
}

func (k Kind) IsSigned() bool {
	switch k {
	case KindS8, KindS16, KindS32, KindS64:
		return true
	}
	return false
}

// Bounds returns the inclusive value range of an integer kind.
func (k Kind) Bounds() (lo int64, hi uint64) {
	switch k {
	case KindU8:
		return 0, math.MaxUint8
	case KindS8:
		return math.MinInt8, math.MaxInt8
	case KindU16:
		return 0, math.MaxUint16
	case KindS16:
		return math.MinInt16, math.MaxInt16
	case KindU32:
		return 0, math.MaxUint32
	case KindS32:
		return math.MinInt32, math.MaxInt32
	case KindU64:
		return 0, math.MaxUint64
	case KindS64:
		return math.MinInt64, math.MaxInt64
	}
	return 0, 0
}

// FitsInt reports whether a signed value is representable in k.
func (k Kind) FitsInt(v int64) bool {
	lo, hi := k.Bounds()
	if v < lo {
		return false
	}
	return v < 0 || uint64(v) <= hi
}

// FitsUint reports whether an unsigned value is representable in k.
func (k Kind) FitsUint(v uint64) bool {
	_, hi := k.Bounds()
	return v <= hi
}
