// Package layout computes the wire layout of schema types.
//
// # Layout Rules
//
//   - Primitives: size equals alignment (u8=1, u32=4, u64=8, etc.)
//   - Records: fields laid out in declared order with padding for alignment
//   - Strings and lists: (count, pointer) pair, content elsewhere
//   - Options: a single pointer, 0 when absent, payload elsewhere
//   - Enums: discriminant sized by case count
//
// This package is internal to the transcoder.
package layout
