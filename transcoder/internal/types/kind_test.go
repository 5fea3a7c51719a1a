package types

import (
	"math"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindBool, "bool"},
		{KindU8, "u8"},
		{KindS32, "s32"},
		{KindF64, "f64"},
		{KindString, "string"},
		{KindRecord, "record"},
		{KindList, "list"},
		{KindOption, "option"},
		{KindEnum, "enum"},
		{Kind(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindIsPrimitive(t *testing.T) {
	for k := KindBool; k <= KindF64; k++ {
		if !k.IsPrimitive() {
			t.Errorf("%s should be primitive", k)
		}
	}
	for _, k := range []Kind{KindString, KindRecord, KindList, KindOption, KindEnum} {
		if k.IsPrimitive() {
			t.Errorf("%s should not be primitive", k)
		}
	}
}

func TestKindFits(t *testing.T) {
	tests := []struct {
		kind Kind
		i    int64
		u    uint64
		fitI bool
		fitU bool
	}{
		{KindU8, 255, 255, true, true},
		{KindU8, 256, 256, false, false},
		{KindU8, -1, 0, false, true},
		{KindS8, -128, 127, true, true},
		{KindS8, -129, 128, false, false},
		{KindS32, math.MaxInt32, math.MaxInt32, true, true},
		{KindS32, math.MaxInt32 + 1, math.MaxInt32 + 1, false, false},
		{KindS32, math.MinInt32, 0, true, true},
		{KindU32, -5, math.MaxUint32, false, true},
		{KindS64, math.MinInt64, math.MaxInt64, true, true},
		{KindS64, 0, math.MaxInt64 + 1, true, false},
		{KindU64, -1, math.MaxUint64, false, true},
	}
	for _, tt := range tests {
		if got := tt.kind.FitsInt(tt.i); got != tt.fitI {
			t.Errorf("%s.FitsInt(%d) = %v, want %v", tt.kind, tt.i, got, tt.fitI)
		}
		if got := tt.kind.FitsUint(tt.u); got != tt.fitU {
			t.Errorf("%s.FitsUint(%d) = %v, want %v", tt.kind, tt.u, got, tt.fitU)
		}
	}
}
