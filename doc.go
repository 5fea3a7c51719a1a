// Package xlsxbridge marshals spreadsheet operations between a Go host and
// the excelize engine across a flat, memory-only boundary.
//
// The host and the engine never share Go values. They share one linear
// memory and a call interface made only of 32 and 64-bit integers. Requests
// and results are laid out in that memory using a fixed set of conventions:
//
//   - optional fields are a pointer to exactly one element, 0 meaning absent
//   - collections and strings are a (count, pointer) pair, (0, 0) when empty
//   - enum-coded fields carry a discriminant that must name a declared case
//   - every fallible call answers with an envelope {value, err}
//
// # Architecture Overview
//
//	xlsxbridge/        Root package with the Memory and Allocator interfaces
//	├── bridge/        Host client: encodes requests, calls exports, decodes envelopes
//	├── engine/        Native side: wazero host module backed by excelize
//	├── memory/        Linear memory and the two-owner heap
//	├── internal/wasm/ Synthesized memory and trampoline modules
//	├── transcoder/    Schema-driven encoder/decoder for Go values
//	├── schema/        Wire layouts for styles, charts, options and requests
//	├── value/         Dynamic cell value codec
//	├── envelope/      Result envelope shared by every export
//	├── resource/      Document handle table
//	├── errors/        Structured error types
//	└── cmd/xlbridge/  Command line front end
//
// # Quick Start
//
//	b, err := bridge.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close(ctx)
//
//	doc, err := b.OpenFile(ctx, "Book1.xlsx", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer doc.Close(ctx)
//
//	rows, err := doc.GetRows(ctx, "Sheet1", nil)
//
// # Ownership
//
// Request blocks are allocated and freed by the host. Result envelopes are
// allocated by the engine and freed only through the release export, keyed
// by a token that is never reused. Releasing a token twice is a no-op.
//
// # Thread Safety
//
// Bridge and Document are safe for concurrent use. Calls on one document are
// serialized by the engine.
package xlsxbridge
