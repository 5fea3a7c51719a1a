// Package engine exposes excelize as a wazero host module.
//
// The module is named "xlsx-bridge:engine". Host modules can not be called
// from Go directly, so Instantiate also links the guest module
// "xlsx-bridge:exports", which re-exports every function through a
// trampoline. Every export except release takes the address of a request
// record in linear memory and returns the address of a result envelope plus
// a release token:
//
//	(req i32) -> (envelope i32, token i64)
//	release(token i64) -> (released i32)
//
// # Request Flow
//
//  1. The request record is decoded from linear memory. Decode failures
//     are reported in the envelope and excelize is not called.
//  2. The operation runs against excelize. Calls on one document are
//     serialized; different documents run in parallel.
//  3. The outcome is written as an envelope with the engine allocator. If
//     the value can not be written (for example a style field excelize
//     returned outside the wire enum) the envelope carries that error
//     instead.
//  4. The blocks of the envelope are registered under a token that is
//     never reused. release frees them once and returns 1; any later or
//     unknown token returns 0.
//
// # Documents
//
// Open workbooks live in a handle table. Handle 0 is never issued. An
// unknown handle fails with "can not find file pointer" and closing a
// document while another call is using it fails with "document is in use".
//
// # Shutdown
//
// Close closes every open document and frees every envelope the host never
// released. Unreleased envelopes are logged as leaks.
package engine
