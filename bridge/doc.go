// Package bridge is the host-side client of the engine.
//
// A Bridge owns a wazero runtime, the shared linear memory, the heap that
// both sides allocate from and the engine module pair. Calls go through the
// guest exports module; WithMemoryLimitPages reserves the whole limit when
// the bridge starts.
//
//	b, err := bridge.New(ctx, bridge.WithMemoryLimitPages(2048))
//	if err != nil {
//		return err
//	}
//	defer b.Close(ctx)
//
//	doc, err := b.OpenFile(ctx, "Book1.xlsx", nil)
//	rows, err := doc.GetRows(ctx, "Sheet1", nil)
//
// # Calls
//
// Every method follows the same sequence:
//
//  1. Validate and encode the request with the host allocator. Invalid
//     options, unsupported dynamic values and style fields outside their
//     enum fail here and the engine is never called.
//  2. Call the engine export with the request address.
//  3. Decode the envelope it returns.
//  4. Release the envelope through the release export and free the request.
//
// Step 4 runs on every path, so after a call returns the heap holds exactly
// what it held before. Stats exposes the counters that make this checkable.
//
// Engine failures come back as *errors.Error of kind engine whose Detail is
// the engine text verbatim.
//
// # Concurrency
//
// A Bridge is safe for concurrent use. The codec holds no per-call state,
// the heap is locked and linear memory is reserved at its maximum size up
// front so a growing heap never moves bytes another call is reading. Calls
// on one Document are serialized by the engine; calls on different
// documents run in parallel.
package bridge
