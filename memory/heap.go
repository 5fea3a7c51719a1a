package memory

import (
	"sort"
	"sync"

	xlsxbridge "github.com/wippyai/xlsx-bridge"
	"github.com/wippyai/xlsx-bridge/errors"
)

// Owner identifies the side of the boundary a block belongs to.
type Owner uint8

const (
	OwnerNone Owner = iota
	OwnerHost
	OwnerEngine
)

func (o Owner) String() string {
	switch o {
	case OwnerHost:
		return "host"
	case OwnerEngine:
		return "engine"
	default:
		return "none"
	}
}

// PoisonByte fills freed blocks when poisoning is enabled.
const PoisonByte = 0xDD

// heapBase keeps address 0 and the first word out of circulation.
const heapBase = 8

// Growable is linear memory the heap can extend.
type Growable interface {
	xlsxbridge.Memory
	xlsxbridge.MemorySizer
	Grow(deltaPages uint32) (uint32, bool)
}

type block struct {
	size  uint32
	owner Owner
}

type span struct {
	addr uint32
	size uint32
}

// OwnerStats counts blocks of one owner.
type OwnerStats struct {
	LiveBytes   uint64
	LiveBlocks  int
	TotalAllocs uint64
	TotalFrees  uint64
}

// Stats is a snapshot of heap usage.
type Stats struct {
	Host        OwnerStats
	Engine      OwnerStats
	FreeBytes   uint64
	HeapEnd     uint32
	MemoryBytes uint32
}

// Owner returns the counters for o.
func (s Stats) Owner(o Owner) OwnerStats {
	if o == OwnerEngine {
		return s.Engine
	}
	return s.Host
}

// Heap is a first-fit allocator over linear memory. Free spans are kept
// sorted and coalesced; when nothing fits the heap bumps its end and grows
// memory a page at a time.
type Heap struct {
	mem    Growable
	live   map[uint32]block
	free   []span
	stats  [3]OwnerStats
	mu     sync.Mutex
	end    uint32
	poison bool
}

// HeapOption configures a Heap.
type HeapOption func(*Heap)

// WithPoison overwrites freed blocks with PoisonByte.
func WithPoison() HeapOption {
	return func(h *Heap) { h.poison = true }
}

// NewHeap creates a heap that starts allocating just above address 0.
func NewHeap(mem Growable, opts ...HeapOption) *Heap {
	h := &Heap{
		mem:  mem,
		live: make(map[uint32]block),
		end:  heapBase,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Memory returns the linear memory the heap allocates from.
func (h *Heap) Memory() Growable {
	return h.mem
}

// Allocator returns the allocation view of owner.
func (h *Heap) Allocator(owner Owner) xlsxbridge.Allocator {
	return &ownerAllocator{heap: h, owner: owner}
}

// Alloc reserves size bytes aligned to align for owner.
func (h *Heap) Alloc(owner Owner, size, align uint32) (uint32, error) {
	if size == 0 {
		size = 1
	}
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
			Detail("alignment %d is not a power of two", align).
			Build()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	addr, ok := h.takeFree(size, align)
	if !ok {
		var err error
		if addr, err = h.bump(size, align); err != nil {
			return 0, err
		}
	}

	h.live[addr] = block{size: size, owner: owner}
	st := &h.stats[owner]
	st.LiveBytes += uint64(size)
	st.LiveBlocks++
	st.TotalAllocs++
	return addr, nil
}

// takeFree carves the first fitting free span. Alignment padding in front of
// the block stays on the free list.
func (h *Heap) takeFree(size, align uint32) (uint32, bool) {
	for i, s := range h.free {
		addr := alignUp(s.addr, align)
		if uint64(addr)+uint64(size) > uint64(s.addr)+uint64(s.size) {
			continue
		}
		head := span{addr: s.addr, size: addr - s.addr}
		tail := span{addr: addr + size, size: s.addr + s.size - addr - size}

		rest := make([]span, 0, 2)
		if head.size > 0 {
			rest = append(rest, head)
		}
		if tail.size > 0 {
			rest = append(rest, tail)
		}
		h.free = append(h.free[:i], append(rest, h.free[i+1:]...)...)
		return addr, true
	}
	return 0, false
}

func (h *Heap) bump(size, align uint32) (uint32, error) {
	addr := alignUp(h.end, align)
	end := uint64(addr) + uint64(size)
	if addr < h.end || end >= 1<<32 {
		return 0, errors.AllocationFailed(errors.PhaseRuntime, size, align)
	}

	if have := uint64(h.mem.Size()); end > have {
		pages := uint32((end - have + PageSize - 1) / PageSize)
		if _, ok := h.mem.Grow(pages); !ok {
			return 0, errors.AllocationFailed(errors.PhaseRuntime, size, align)
		}
	}

	if addr > h.end {
		h.insertFree(span{addr: h.end, size: addr - h.end})
	}
	h.end = uint32(end)
	return addr, nil
}

// Free releases a block on behalf of owner. The size and alignment recorded
// at allocation are authoritative.
func (h *Heap) Free(owner Owner, ptr uint32) error {
	if ptr == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.live[ptr]
	if !ok {
		return errors.DoubleRelease(ptr)
	}
	if b.owner != owner {
		return errors.ForeignRelease(ptr, b.owner.String(), owner.String())
	}

	if h.poison {
		if data, err := h.mem.Read(ptr, b.size); err == nil {
			for i := range data {
				data[i] = PoisonByte
			}
		}
	}

	delete(h.live, ptr)
	st := &h.stats[owner]
	st.LiveBytes -= uint64(b.size)
	st.LiveBlocks--
	st.TotalFrees++

	h.insertFree(span{addr: ptr, size: b.size})
	return nil
}

// insertFree adds s to the sorted free list, merges neighbours and hands a
// trailing span back to the bump region.
func (h *Heap) insertFree(s span) {
	i := sort.Search(len(h.free), func(i int) bool { return h.free[i].addr > s.addr })
	h.free = append(h.free, span{})
	copy(h.free[i+1:], h.free[i:])
	h.free[i] = s

	if i+1 < len(h.free) && h.free[i].addr+h.free[i].size == h.free[i+1].addr {
		h.free[i].size += h.free[i+1].size
		h.free = append(h.free[:i+1], h.free[i+2:]...)
	}
	if i > 0 && h.free[i-1].addr+h.free[i-1].size == h.free[i].addr {
		h.free[i-1].size += h.free[i].size
		h.free = append(h.free[:i], h.free[i+1:]...)
	}

	if last := len(h.free) - 1; last >= 0 && h.free[last].addr+h.free[last].size == h.end {
		h.end = h.free[last].addr
		h.free = h.free[:last]
	}
}

// OwnerOf reports which side owns the live block at ptr.
func (h *Heap) OwnerOf(ptr uint32) (Owner, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.live[ptr]
	return b.owner, ok
}

// Stats returns a snapshot of heap usage.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	var free uint64
	for _, s := range h.free {
		free += uint64(s.size)
	}
	return Stats{
		Host:        h.stats[OwnerHost],
		Engine:      h.stats[OwnerEngine],
		FreeBytes:   free,
		HeapEnd:     h.end,
		MemoryBytes: h.mem.Size(),
	}
}

func alignUp(v, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}

type ownerAllocator struct {
	heap  *Heap
	owner Owner
}

func (a *ownerAllocator) Alloc(size, align uint32) (uint32, error) {
	return a.heap.Alloc(a.owner, size, align)
}

func (a *ownerAllocator) Free(ptr, size, align uint32) error {
	return a.heap.Free(a.owner, ptr)
}
