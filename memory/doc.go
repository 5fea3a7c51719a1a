// Package memory owns the linear memory shared by the host and the engine.
//
// # Linear Memory
//
// Instantiate synthesizes a wasm module whose only content is an exported
// memory, instantiates it in a wazero runtime and wraps the instance memory:
//
//	mod, lin, err := memory.Instantiate(ctx, rt, "xlsx-bridge:memory", 1, 1024)
//	// lin implements xlsxbridge.Memory
//
// Every access is bounds checked and returns an error instead of panicking.
//
// # Heap
//
// Heap carves blocks out of linear memory for two owners, the host and the
// engine. Each owner gets its own Allocator view:
//
//	heap := memory.NewHeap(lin, memory.WithPoison())
//	host := heap.Allocator(memory.OwnerHost)
//	engine := heap.Allocator(memory.OwnerEngine)
//
// A block can only be freed through the view that allocated it; anything else
// fails with errors.ErrForeignRelease. Freeing an address that is not live
// fails with errors.ErrDoubleRelease. Once an address has been reused by a
// later allocation a second free of it is indistinguishable from a valid one,
// so raw-address frees are not idempotent. Callers that need idempotent
// release track blocks behind a token instead.
//
// With poisoning enabled freed bytes are overwritten with 0xDD so reads of
// released data are visible in tests.
package memory
