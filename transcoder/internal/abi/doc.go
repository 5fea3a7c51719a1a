// Package abi provides internal utilities for the wire encoding.
//
// It holds overflow-checked arithmetic, alignment, size limits and the
// integer load/store helpers that let one compiled codec path serve every
// Go integer width.
//
// This package is internal to the transcoder.
package abi
