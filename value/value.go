package value

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/wippyai/xlsx-bridge/errors"
)

// Kind is the discriminant of a dynamic value.
type Kind int32

const (
	KindNil Kind = iota
	KindInteger
	KindString
	KindFloat64
	KindBoolean
	KindTime
)

var kindNames = [...]string{"nil", "integer", "string", "float64", "boolean", "time"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int32(k))
}

// Valid reports whether k is a defined kind code.
func (k Kind) Valid() bool {
	return k >= KindNil && k <= KindTime
}

// Wire is the boundary record of a dynamic value.
type Wire struct {
	String  string
	Integer int64
	Float64 float64
	Kind    int32
	Boolean bool
}

// Value is a dynamic scalar. The set of implementations is closed.
type Value interface {
	Kind() Kind
	// Any returns the value as a plain Go value.
	Any() any
	lower() Wire
}

type (
	Nil    struct{}
	Int    int64
	String string
	Float  float64
	Bool   bool
	Time   struct{ time.Time }
)

func (Nil) Kind() Kind { return KindNil }
func (Nil) Any() any { return nil }
func (Nil) lower() Wire { return Wire{Kind: int32(KindNil)} }
func (Int) Kind() Kind { return KindInteger }
func (v Int) Any() any { return int64(v) }
func (v Int) lower() Wire { return Wire{Kind: int32(KindInteger), Integer: int64(v)} }
func (String) Kind() Kind { return KindString }
func (v String) Any() any { return string(v) }
func (v String) lower() Wire { return Wire{Kind: int32(KindString), String: string(v)} }
func (Float) Kind() Kind { return KindFloat64 }
func (v Float) Any() any { return float64(v) }
func (v Float) lower() Wire { return Wire{Kind: int32(KindFloat64), Float64: float64(v)} }
func (Bool) Kind() Kind { return KindBoolean }
func (v Bool) Any() any { return bool(v) }
func (v Bool) lower() Wire { return Wire{Kind: int32(KindBoolean), Boolean: bool(v)} }
func (Time) Kind() Kind { return KindTime }
func (v Time) Any() any { return v.Time }
func (v Time) lower() Wire { return Wire{Kind: int32(KindTime), Integer: v.Unix()} }

// Of classifies a host value. Named types are classified by their underlying
// kind. Anything that is not a scalar fails with errors.ErrUnsupportedType.
func Of(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Nil{}, nil
	case Value:
		return x, nil
	case time.Time:
		return Time{x}, nil
	case *time.Time:
		if x == nil {
			return Nil{}, nil
		}
		return Time{*x}, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, errors.Overflow(errors.PhaseEncode, nil, u, "int64")
		}
		return Int(int64(u)), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	default:
		return nil, errors.UnsupportedType(errors.PhaseEncode, nil, v)
	}
}

// Lower returns the wire record of v.
func Lower(v Value) Wire {
	if v == nil {
		return Nil{}.lower()
	}
	return v.lower()
}

// Lift rebuilds a Value from its wire record. A kind code outside the
// defined set means the record is corrupt.
func Lift(w Wire) (Value, error) {
	switch Kind(w.Kind) {
	case KindNil:
		return Nil{}, nil
	case KindInteger:
		return Int(w.Integer), nil
	case KindString:
		return String(w.String), nil
	case KindFloat64:
		return Float(w.Float64), nil
	case KindBoolean:
		return Bool(w.Boolean), nil
	case KindTime:
		return Time{time.Unix(w.Integer, 0).UTC()}, nil
	default:
		return nil, errors.CorruptEnvelope(errors.PhaseDecode, []string{"DynamicValue", "Kind"},
			fmt.Sprintf("unknown dynamic value kind %d", w.Kind))
	}
}

// Encode classifies v and returns its wire record.
func Encode(v any) (Wire, error) {
	val, err := Of(v)
	if err != nil {
		return Wire{}, err
	}
	return val.lower(), nil
}

// Decode returns the plain Go value carried by w.
func Decode(w Wire) (any, error) {
	val, err := Lift(w)
	if err != nil {
		return nil, err
	}
	return val.Any(), nil
}

// EncodeAll encodes a row of values. The first failure names its index.
func EncodeAll(values []any) ([]Wire, error) {
	out := make([]Wire, len(values))
	for i, v := range values {
		w, err := Encode(v)
		if err != nil {
			var e *errors.Error
			if errors.As(err, &e) {
				e.Path = append([]string{fmt.Sprintf("[%d]", i)}, e.Path...)
			}
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

// DecodeAll decodes a row of wire records.
func DecodeAll(ws []Wire) ([]any, error) {
	out := make([]any, len(ws))
	for i, w := range ws {
		v, err := Decode(w)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
