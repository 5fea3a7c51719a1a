package value

import (
	"math"
	"testing"
	"time"

	"github.com/wippyai/xlsx-bridge/errors"
)

type celsius float32

type label string

func TestRoundTrip(t *testing.T) {
	stamp := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		in   any
		want any
		kind Kind
		name string
	}{
		{nil, nil, KindNil, "nil"},
		{42, int64(42), KindInteger, "int"},
		{int8(-8), int64(-8), KindInteger, "int8"},
		{int64(math.MinInt64), int64(math.MinInt64), KindInteger, "int64_min"},
		{uint32(7), int64(7), KindInteger, "uint32"},
		{uint64(math.MaxInt64), int64(math.MaxInt64), KindInteger, "uint64_max_signed"},
		{"hello", "hello", KindString, "string"},
		{"", "", KindString, "empty_string"},
		{label("x"), "x", KindString, "named_string"},
		{1.5, 1.5, KindFloat64, "float64"},
		{float32(0.25), 0.25, KindFloat64, "float32"},
		{celsius(2), 2.0, KindFloat64, "named_float"},
		{true, true, KindBoolean, "true"},
		{false, false, KindBoolean, "false"},
		{stamp, stamp, KindTime, "time"},
		{Int(3), int64(3), KindInteger, "value_passthrough"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Encode(tt.in)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if Kind(w.Kind) != tt.kind {
				t.Errorf("kind = %s, want %s", Kind(w.Kind), tt.kind)
			}

			got, err := Decode(w)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if ts, ok := tt.want.(time.Time); ok {
				if !got.(time.Time).Equal(ts) {
					t.Errorf("got %v, want %v", got, ts)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestOnlySelectedFieldIsSet(t *testing.T) {
	w, err := Encode("text")
	if err != nil {
		t.Fatal(err)
	}
	if w.Integer != 0 || w.Float64 != 0 || w.Boolean {
		t.Errorf("unselected fields populated: %+v", w)
	}
}

func TestUnsupportedType(t *testing.T) {
	tests := []struct {
		in   any
		name string
	}{
		{[]int{1}, "slice"},
		{map[string]int{}, "map"},
		{struct{}{}, "struct"},
		{complex(1, 2), "complex"},
		{new(int), "pointer"},
		{func() {}, "func"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.in)
			if !errors.Is(err, errors.ErrUnsupportedType) {
				t.Errorf("expected unsupported type, got %v", err)
			}
		})
	}
}

func TestUnsignedOverflow(t *testing.T) {
	_, err := Encode(uint64(math.MaxUint64))
	if !errors.Is(err, errors.ErrOverflow) {
		t.Errorf("expected overflow, got %v", err)
	}
}

func TestCorruptKind(t *testing.T) {
	for _, k := range []int32{-1, 6, 99} {
		_, err := Decode(Wire{Kind: k})
		if !errors.Is(err, errors.ErrCorruptEnvelope) {
			t.Errorf("kind %d: expected corrupt envelope, got %v", k, err)
		}
		if Kind(k).Valid() {
			t.Errorf("kind %d reported valid", k)
		}
	}
}

func TestTimeDecodesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	in := time.Date(2023, 12, 31, 23, 0, 0, 0, loc)

	got, err := Decode(Time{in}.lower())
	if err != nil {
		t.Fatal(err)
	}
	ts := got.(time.Time)
	if ts.Location() != time.UTC || !ts.Equal(in) {
		t.Errorf("got %v, want %v in UTC", ts, in)
	}
}

func TestEncodeAll(t *testing.T) {
	ws, err := EncodeAll([]any{1, "a", 2.5, true, nil})
	if err != nil {
		t.Fatalf("EncodeAll failed: %v", err)
	}
	got, err := DecodeAll(ws)
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}
	want := []any{int64(1), "a", 2.5, true, nil}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	_, err = EncodeAll([]any{1, []byte("x")})
	var e *errors.Error
	if !errors.As(err, &e) || e.FieldPath() != "[1]" {
		t.Errorf("expected error at [1], got %v", err)
	}
}

func TestKindString(t *testing.T) {
	if KindFloat64.String() != "float64" || Kind(42).String() != "kind(42)" {
		t.Error("unexpected kind names")
	}
}
