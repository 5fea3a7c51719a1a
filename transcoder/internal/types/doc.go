// Package types defines the compiled type structures for fast transcoding.
//
// CompiledType holds precomputed layout information (size, alignment, offsets)
// for a pair of wire type and Go type. By compiling once, the transcoder avoids
// repeated layout calculations and reflection lookups during hot paths.
//
// This package is internal to the transcoder.
package types
