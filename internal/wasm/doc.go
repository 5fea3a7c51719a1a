// Package wasm synthesizes the small wasm binaries the bridge links at
// startup: a memory-only module and a trampoline module that imports host
// functions and exports them again as guest functions.
//
// Host modules built with wazero's HostModuleBuilder can not be called from
// the embedder directly, so every engine export is reached through a
// trampoline that forwards its parameters and results unchanged:
//
//	bin, err := wasm.NewBuilder().
//		ImportMemory("xlsx-bridge:memory", "memory", "memory").
//		Forward("xlsx-bridge:engine", "get-rows", params, results).
//		Build()
package wasm
