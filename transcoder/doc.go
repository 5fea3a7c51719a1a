// Package transcoder encodes Go values into linear memory and decodes them
// back, driven by a schema expressed as wit types.
//
// # Wire Layout
//
//	Type            Size    Alignment
//	──────────────────────────────────
//	bool            1       1
//	u8/s8           1       1
//	u16/s16         2       2
//	u32/s32/f32     4       4
//	u64/s64/f64     8       8
//	string          8       4 (count + ptr)
//	list<T>         8       4 (count + ptr)
//	option<T>       4       4 (ptr, 0 when absent)
//	enum            1/2/4   1/2/4 (per case count)
//	record          sum     max field align
//
// # Conventions
//
// Options point at exactly one separately allocated element. The pointer is
// compared against 0 before anything is read through it.
//
// Strings and lists are a (count, ptr) pair. Empty collections are written as
// (0, 0). On decode a nonzero count with a null pointer is rejected with
// errors.ErrMalformedCollection; a zero count is empty whatever the pointer
// holds, and the pointer is never followed.
//
// Enums accept either a Go string (matched against case names) or a Go
// integer (used as the case code). Anything outside the declared cases is
// rejected with errors.ErrInvalidStyleField, naming the field path, on both
// encode and decode.
//
// Integer fields accept any Go integer width; values that do not fit the wire
// width, or the Go field on decode, are rejected with errors.ErrOverflow.
//
// # Key Types
//
//	Encoder         - Writes Go values to linear memory
//	Decoder         - Reads linear memory into Go values
//	Compiler        - Pre-compiles type layouts
//	CompiledType    - Optimized type representation
//	AllocationList  - Records every block written for a value
//
// # Thread Safety
//
// Compiler, Encoder and Decoder hold no per-call state and are safe for
// concurrent use. An AllocationList belongs to one call.
//
// # Error Handling
//
// Errors use the structured types from the errors package:
//
//	[decode] invalid_style_field at Style.Alignment.Vertical: WIT type vertical-alignment - value 9 is not a case of vertical-alignment
//	[decode] malformed_collection at Style.Border: count 3 with null element pointer
package transcoder
