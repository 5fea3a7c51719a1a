// Package value converts host scalars to and from the boundary's dynamic
// value record.
//
// On the wire a dynamic value is a tagged record: Kind selects which one of
// Integer, String, Float64 or Boolean is meaningful. On the Go side it is the
// sealed sum type Value, so the unselected fields are never visible.
//
//	w, err := value.Encode(42)     // Wire{Kind: KindInteger, Integer: 42}
//	v, err := value.Decode(w)      // int64(42)
//
// Integers decode as int64 and floats as float64. Time travels as Unix
// seconds in Integer and decodes in UTC.
package value
