package engine

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	xlsxbridge "github.com/wippyai/xlsx-bridge"
	"github.com/wippyai/xlsx-bridge/envelope"
	"github.com/wippyai/xlsx-bridge/errors"
	"github.com/wippyai/xlsx-bridge/internal/wasm"
	"github.com/wippyai/xlsx-bridge/memory"
	"github.com/wippyai/xlsx-bridge/resource"
	"github.com/wippyai/xlsx-bridge/schema"
	"github.com/wippyai/xlsx-bridge/transcoder"
)

const (
	// ModuleName is the name the engine host module is instantiated under.
	ModuleName = "xlsx-bridge:engine"

	// ExportsModuleName is the guest module that forwards to ModuleName.
	// Callers reach the exports through it.
	ExportsModuleName = "xlsx-bridge:exports"
)

var (
	errNoDocument  = stderrors.New("can not find file pointer")
	errDocumentUse = stderrors.New("document is in use")
)

// Engine serves the boundary exports. It reads requests from and writes
// envelopes to the heap's linear memory using the engine allocator.
type Engine struct {
	heap    *memory.Heap
	alloc   xlsxbridge.Allocator
	encoder *transcoder.Encoder
	decoder *transcoder.Decoder
	table   *resource.Table
	docs    *resource.Typed[*document]
	pending *resource.Typed[*response]
	closeMu sync.Once
}

// response holds the blocks of one envelope until the host releases it.
type response struct {
	list  *transcoder.AllocationList
	alloc xlsxbridge.Allocator
	op    string
}

func (r *response) Drop() {
	if err := r.list.FreeAndRelease(r.alloc); err != nil {
		Logger().Error("free envelope", zap.String("op", r.op), zap.Error(err))
	}
}

// New creates an engine over heap.
func New(heap *memory.Heap) *Engine {
	c := transcoder.NewCompiler()
	table := resource.NewTable()
	e := &Engine{
		heap:    heap,
		alloc:   heap.Allocator(memory.OwnerEngine),
		encoder: transcoder.NewEncoderWithCompiler(c),
		decoder: transcoder.NewDecoderWithCompiler(c),
		table:   table,
		docs:    resource.NewTyped[*document](table, resource.KindDocument),
		pending: resource.NewTyped[*response](table, resource.KindEnvelope),
	}
	table.Subscribe(resource.ObserverFunc(observe))
	return e
}

func observe(ev resource.Event) {
	if ev.Kind != resource.KindDocument {
		return
	}
	switch ev.Type {
	case resource.EventCreated:
		Logger().Debug("document opened", zap.Uint32("handle", uint32(ev.Handle)))
	case resource.EventDropped:
		Logger().Debug("document closed", zap.Uint32("handle", uint32(ev.Handle)))
	}
}

// Instantiate registers every export as a host module in rt and links a
// guest module that forwards each export to it. The returned module is the
// guest; when memoryModule is set it also imports and exports that module's
// "memory".
func (e *Engine) Instantiate(ctx context.Context, rt wazero.Runtime, memoryModule string) (api.Module, error) {
	exports := e.exports()

	host := rt.NewHostModuleBuilder(ModuleName)
	guest := wasm.NewBuilder()
	if memoryModule != "" {
		guest.ImportMemory(memoryModule, "memory", "memory")
	}
	for _, x := range exports {
		host.NewFunctionBuilder().
			WithGoModuleFunction(x.fn, x.params, x.results).
			WithName(x.name).
			Export(x.name)
		guest.Forward(ModuleName, x.name, x.params, x.results)
	}

	if _, err := host.Instantiate(ctx); err != nil {
		return nil, errors.Instantiation(err)
	}
	bin, err := guest.Build()
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	mod, err := rt.InstantiateWithConfig(ctx, bin, wazero.NewModuleConfig().WithName(ExportsModuleName))
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	Logger().Debug("engine instantiated",
		zap.String("module", ModuleName),
		zap.String("exports", ExportsModuleName),
		zap.Int("count", len(exports)))
	return mod, nil
}

// Documents returns the number of open documents.
func (e *Engine) Documents() int {
	return e.docs.Len()
}

// Pending returns the number of envelopes not yet released.
func (e *Engine) Pending() int {
	return e.pending.Len()
}

// Release frees the envelope registered under token. It reports whether
// anything was freed; unknown and already released tokens return false.
func (e *Engine) Release(token uint64) bool {
	if token == 0 || token > uint64(^uint32(0)) {
		return false
	}
	_, err := e.pending.Remove(resource.Handle(token))
	return err == nil
}

// Close releases outstanding envelopes and closes every open document.
func (e *Engine) Close() error {
	e.closeMu.Do(func() {
		if n := e.pending.Len(); n > 0 {
			Logger().Warn("releasing unreleased envelopes", zap.Int("count", n))
			e.table.Clear(resource.KindEnvelope)
		}
		if n := e.docs.Len(); n > 0 {
			Logger().Debug("closing open documents", zap.Int("count", n))
		}
		_ = e.table.Close()
	})
	return nil
}

// respond writes env as the envelope of op and registers its blocks under
// a fresh token. A value that can not be written is replaced by an error
// envelope. It returns (0, 0) only when nothing could be written at all.
func respond[T any](e *Engine, op *schema.Op, env envelope.Envelope[T]) (uint32, uint64) {
	mem := e.heap.Memory()
	list := transcoder.NewAllocationList()

	addr, err := e.encoder.Encode(op.Envelope, &env, mem, e.alloc, list)
	if err != nil {
		if ferr := list.Free(e.alloc); ferr != nil {
			Logger().Error("free partial envelope", zap.String("op", op.Name), zap.Error(ferr))
		}
		Logger().Warn("envelope value not representable", zap.String("op", op.Name), zap.Error(err))

		failed := envelope.Fail[T](err)
		addr, err = e.encoder.Encode(op.Envelope, &failed, mem, e.alloc, list)
		if err != nil {
			Logger().Error("write error envelope", zap.String("op", op.Name), zap.Error(err))
			_ = list.FreeAndRelease(e.alloc)
			return 0, 0
		}
	}

	token, err := e.pending.Insert(&response{list: list, alloc: e.alloc, op: op.Name})
	if err != nil {
		Logger().Warn("engine closed, dropping envelope", zap.String("op", op.Name))
		_ = list.FreeAndRelease(e.alloc)
		return 0, 0
	}
	return addr, uint64(token)
}
