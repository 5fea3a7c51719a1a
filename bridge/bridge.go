package bridge

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	xlsxbridge "github.com/wippyai/xlsx-bridge"
	"github.com/wippyai/xlsx-bridge/engine"
	"github.com/wippyai/xlsx-bridge/envelope"
	"github.com/wippyai/xlsx-bridge/errors"
	"github.com/wippyai/xlsx-bridge/memory"
	"github.com/wippyai/xlsx-bridge/schema"
	"github.com/wippyai/xlsx-bridge/transcoder"
)

// MemoryModuleName is the name of the module that exports linear memory.
const MemoryModuleName = "xlsx-bridge:memory"

// Bridge connects the host to one engine instance.
type Bridge struct {
	runtime wazero.Runtime
	exports api.Module
	heap    *memory.Heap
	eng     *engine.Engine
	host    xlsxbridge.Allocator
	encoder *transcoder.Encoder
	decoder *transcoder.Decoder
	log     *zap.Logger
	closeMu sync.Once
}

// Stats is a snapshot of bridge resource usage.
type Stats struct {
	Heap      memory.Stats
	Documents int
	Pending   int
}

// New starts a runtime, linear memory and engine.
func New(ctx context.Context, opts ...Option) (*Bridge, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.logger
	if log == nil {
		log = Logger()
	}

	// Memory is reserved at its maximum so slices read from it stay valid
	// across growth.
	rtCfg := wazero.NewRuntimeConfig().
		WithMemoryLimitPages(cfg.memoryLimitPages).
		WithMemoryCapacityFromMax(true)
	rt := wazero.NewRuntimeWithConfig(ctx, rtCfg)

	_, lin, err := memory.Instantiate(ctx, rt, MemoryModuleName, 1, cfg.memoryLimitPages)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Instantiation(err)
	}

	var heapOpts []memory.HeapOption
	if cfg.poison {
		heapOpts = append(heapOpts, memory.WithPoison())
	}
	heap := memory.NewHeap(lin, heapOpts...)

	eng := engine.New(heap)
	exports, err := eng.Instantiate(ctx, rt, MemoryModuleName)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	c := transcoder.NewCompiler()
	b := &Bridge{
		runtime: rt,
		exports: exports,
		heap:    heap,
		eng:     eng,
		host:    heap.Allocator(memory.OwnerHost),
		encoder: transcoder.NewEncoderWithCompiler(c),
		decoder: transcoder.NewDecoderWithCompiler(c),
		log:     log,
	}
	log.Debug("bridge started", zap.Uint32("memory_limit_pages", cfg.memoryLimitPages), zap.Bool("poison", cfg.poison))
	return b, nil
}

// Close closes every open document, frees unreleased envelopes and shuts the
// runtime down.
func (b *Bridge) Close(ctx context.Context) error {
	var err error
	b.closeMu.Do(func() {
		if n := b.eng.Documents(); n > 0 {
			b.log.Debug("closing bridge with open documents", zap.Int("count", n))
		}
		_ = b.eng.Close()
		err = b.runtime.Close(ctx)
	})
	return err
}

// Stats returns current heap and handle counters.
func (b *Bridge) Stats() Stats {
	return Stats{
		Heap:      b.heap.Stats(),
		Documents: b.eng.Documents(),
		Pending:   b.eng.Pending(),
	}
}

// invoke runs one engine export: encode, call, decode, release, free.
func invoke[Req, Res any](ctx context.Context, b *Bridge, name string, req *Req) (Res, error) {
	var zero Res

	op, ok := schema.Lookup(name)
	if !ok {
		return zero, errors.NotFound(errors.PhaseRuntime, "export", name)
	}
	fn := b.exports.ExportedFunction(name)
	if fn == nil {
		return zero, errors.NotFound(errors.PhaseRuntime, "export", name)
	}

	mem := b.heap.Memory()
	list := transcoder.NewAllocationList()
	defer func() {
		if err := list.FreeAndRelease(b.host); err != nil {
			b.log.Error("free request", zap.String("op", name), zap.Error(err))
		}
	}()

	addr, err := b.encoder.Encode(op.Request, req, mem, b.host, list)
	if err != nil {
		return zero, err
	}

	res, err := fn.Call(ctx, uint64(addr))
	if err != nil {
		return zero, errors.Wrap(errors.PhaseRuntime, errors.KindEngine, err, "call "+name)
	}
	envAddr, token := uint32(res[0]), res[1]
	if envAddr == 0 {
		return zero, errors.CorruptEnvelope(errors.PhaseDecode, nil, name+" returned no envelope")
	}
	defer b.release(ctx, name, token)

	var env envelope.Envelope[Res]
	if err := b.decoder.Decode(op.Envelope, envAddr, mem, &env); err != nil {
		return zero, err
	}
	return envelope.UnwrapOp(name, env)
}

func (b *Bridge) release(ctx context.Context, op string, token uint64) {
	res, err := b.exports.ExportedFunction(schema.OpRelease).Call(ctx, token)
	if err != nil {
		b.log.Error("release envelope", zap.String("op", op), zap.Error(err))
		return
	}
	if res[0] != 1 {
		b.log.Warn("envelope already released", zap.String("op", op), zap.Uint64("token", token))
	}
}

// CoordinatesToCellName converts 1-based coordinates to a cell name such as
// "C7", or "$C$7" when abs is set.
func (b *Bridge) CoordinatesToCellName(ctx context.Context, col, row int, abs bool) (string, error) {
	c, err := toInt32("Col", col)
	if err != nil {
		return "", err
	}
	r, err := toInt32("Row", row)
	if err != nil {
		return "", err
	}
	return invoke[schema.CoordinatesRequest, string](ctx, b, schema.OpCoordinatesToCellName,
		&schema.CoordinatesRequest{Col: c, Row: r, Abs: abs})
}

// CellNameToCoordinates converts a cell name to 1-based column and row.
func (b *Bridge) CellNameToCoordinates(ctx context.Context, cell string) (int, int, error) {
	c, err := invoke[schema.CellNameRequest, schema.CellCoordinates](ctx, b, schema.OpCellNameToCoordinates,
		&schema.CellNameRequest{Cell: cell})
	if err != nil {
		return 0, 0, err
	}
	return int(c.Col), int(c.Row), nil
}

func toInt32(field string, v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, errors.Overflow(errors.PhaseEncode, []string{field}, v, "s32")
	}
	return int32(v), nil
}

func (s Stats) String() string {
	return fmt.Sprintf("host %d blocks/%d bytes, engine %d blocks/%d bytes, %d documents, %d pending",
		s.Heap.Host.LiveBlocks, s.Heap.Host.LiveBytes,
		s.Heap.Engine.LiveBlocks, s.Heap.Engine.LiveBytes,
		s.Documents, s.Pending)
}
