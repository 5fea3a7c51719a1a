package memory

import (
	"encoding/binary"
	"fmt"
	"sync"
	"testing"

	"github.com/wippyai/xlsx-bridge/errors"
)

// sliceMemory is a growable byte-slice memory with a page limit.
type sliceMemory struct {
	data     []byte
	maxPages uint32
}

func newSliceMemory(pages, maxPages uint32) *sliceMemory {
	return &sliceMemory{data: make([]byte, pages*PageSize), maxPages: maxPages}
}

func (m *sliceMemory) Size() uint32 { return uint32(len(m.data)) }

func (m *sliceMemory) Grow(delta uint32) (uint32, bool) {
	prev := uint32(len(m.data)) / PageSize
	if prev+delta > m.maxPages {
		return 0, false
	}
	m.data = append(m.data, make([]byte, delta*PageSize)...)
	return prev, true
}

func (m *sliceMemory) check(off, n uint32) error {
	if uint64(off)+uint64(n) > uint64(len(m.data)) {
		return fmt.Errorf("out of bounds: %d+%d", off, n)
	}
	return nil
}

func (m *sliceMemory) Read(off, n uint32) ([]byte, error) {
	if err := m.check(off, n); err != nil {
		return nil, err
	}
	return m.data[off : off+n], nil
}

func (m *sliceMemory) Write(off uint32, b []byte) error {
	if err := m.check(off, uint32(len(b))); err != nil {
		return err
	}
	copy(m.data[off:], b)
	return nil
}

func (m *sliceMemory) ReadU8(off uint32) (uint8, error) {
	if err := m.check(off, 1); err != nil {
		return 0, err
	}
	return m.data[off], nil
}

func (m *sliceMemory) ReadU16(off uint32) (uint16, error) {
	if err := m.check(off, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[off:]), nil
}

func (m *sliceMemory) ReadU32(off uint32) (uint32, error) {
	if err := m.check(off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[off:]), nil
}

func (m *sliceMemory) ReadU64(off uint32) (uint64, error) {
	if err := m.check(off, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.data[off:]), nil
}

func (m *sliceMemory) WriteU8(off uint32, v uint8) error {
	if err := m.check(off, 1); err != nil {
		return err
	}
	m.data[off] = v
	return nil
}

func (m *sliceMemory) WriteU16(off uint32, v uint16) error {
	if err := m.check(off, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[off:], v)
	return nil
}

func (m *sliceMemory) WriteU32(off uint32, v uint32) error {
	if err := m.check(off, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[off:], v)
	return nil
}

func (m *sliceMemory) WriteU64(off uint32, v uint64) error {
	if err := m.check(off, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(m.data[off:], v)
	return nil
}

func TestHeap_AllocAlignment(t *testing.T) {
	h := NewHeap(newSliceMemory(1, 4))
	host := h.Allocator(OwnerHost)

	tests := []struct {
		size, align uint32
	}{
		{1, 1}, {4, 4}, {3, 1}, {8, 8}, {16, 4}, {0, 2},
	}
	seen := make(map[uint32]bool)
	for _, tt := range tests {
		ptr, err := host.Alloc(tt.size, tt.align)
		if err != nil {
			t.Fatalf("Alloc(%d, %d) failed: %v", tt.size, tt.align, err)
		}
		if ptr == 0 {
			t.Fatal("Alloc returned null")
		}
		if ptr%tt.align != 0 {
			t.Errorf("Alloc(%d, %d) = %d, misaligned", tt.size, tt.align, ptr)
		}
		if seen[ptr] {
			t.Errorf("address %d handed out twice", ptr)
		}
		seen[ptr] = true
	}

	if _, err := host.Alloc(8, 3); err == nil {
		t.Error("expected error for non power of two alignment")
	}
}

func TestHeap_ReuseAndCoalesce(t *testing.T) {
	h := NewHeap(newSliceMemory(1, 1))

	a, _ := h.Alloc(OwnerHost, 16, 8)
	b, _ := h.Alloc(OwnerHost, 16, 8)
	c, _ := h.Alloc(OwnerHost, 16, 8)
	end := h.Stats().HeapEnd

	if err := h.Free(OwnerHost, a); err != nil {
		t.Fatalf("Free a: %v", err)
	}
	if err := h.Free(OwnerHost, b); err != nil {
		t.Fatalf("Free b: %v", err)
	}
	if got := h.Stats().FreeBytes; got != 32 {
		t.Errorf("FreeBytes = %d, want 32 after coalescing", got)
	}

	// a 32-byte block fits the merged span
	d, _ := h.Alloc(OwnerHost, 32, 8)
	if d != a {
		t.Errorf("expected reuse of %d, got %d", a, d)
	}
	if h.Stats().HeapEnd != end {
		t.Error("heap grew although a free span fit")
	}

	// freeing the last block returns it to the bump region
	_ = h.Free(OwnerHost, c)
	_ = h.Free(OwnerHost, d)
	st := h.Stats()
	if st.FreeBytes != 0 || st.HeapEnd != heapBase {
		t.Errorf("after freeing everything: free=%d end=%d", st.FreeBytes, st.HeapEnd)
	}
}

func TestHeap_Grow(t *testing.T) {
	mem := newSliceMemory(1, 3)
	h := NewHeap(mem)

	ptr, err := h.Alloc(OwnerEngine, PageSize+100, 4)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if mem.Size() != 2*PageSize {
		t.Errorf("memory size = %d, want two pages", mem.Size())
	}
	if err := mem.WriteU32(ptr+PageSize, 7); err != nil {
		t.Errorf("grown memory not writable: %v", err)
	}

	if _, err := h.Alloc(OwnerEngine, 4*PageSize, 4); err == nil {
		t.Error("expected allocation failure beyond max pages")
	}
}

// topMemory reports a full 32-bit address space without backing it.
type topMemory struct {
	*sliceMemory
}

func (topMemory) Size() uint32 { return 1<<32 - 1 }

func (topMemory) Grow(uint32) (uint32, bool) { return 0, true }

func TestHeap_AddressSpaceEnd(t *testing.T) {
	tests := []struct {
		name    string
		end     uint32
		size    uint32
		align   uint32
		wantErr bool
	}{
		{"fits below the top", 1<<32 - 16, 8, 8, false},
		{"ends exactly at 4 GiB", 1<<32 - 16, 16, 8, true},
		{"crosses 4 GiB", 1<<32 - 16, 32, 8, true},
		{"alignment wraps", 1<<32 - 3, 1, 8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHeap(topMemory{newSliceMemory(0, 0)})
			h.end = tt.end

			addr, err := h.Alloc(OwnerHost, tt.size, tt.align)
			if tt.wantErr {
				var e *errors.Error
				if !errors.As(err, &e) || e.Kind != errors.KindAllocation {
					t.Fatalf("got addr %#x, err %v; want allocation failure", addr, err)
				}
				if h.end != tt.end {
					t.Errorf("heap end moved to %#x", h.end)
				}
				return
			}
			if err != nil {
				t.Fatalf("Alloc failed: %v", err)
			}
			if addr != tt.end || h.end != tt.end+tt.size {
				t.Errorf("addr = %#x end = %#x", addr, h.end)
			}
		})
	}
}

func TestHeap_OwnershipErrors(t *testing.T) {
	h := NewHeap(newSliceMemory(1, 1))
	host := h.Allocator(OwnerHost)
	engine := h.Allocator(OwnerEngine)

	ptr, _ := engine.Alloc(24, 8)

	err := host.Free(ptr, 24, 8)
	if !errors.Is(err, errors.ErrForeignRelease) {
		t.Fatalf("host freeing engine block: got %v", err)
	}
	if owner, ok := h.OwnerOf(ptr); !ok || owner != OwnerEngine {
		t.Error("foreign free must leave the block live")
	}

	if err := engine.Free(ptr, 24, 8); err != nil {
		t.Fatalf("engine free: %v", err)
	}
	if err := engine.Free(ptr, 24, 8); !errors.Is(err, errors.ErrDoubleRelease) {
		t.Errorf("second free: got %v", err)
	}
	if err := host.Free(0, 0, 0); err != nil {
		t.Errorf("free of null: %v", err)
	}
}

func TestHeap_Poison(t *testing.T) {
	mem := newSliceMemory(1, 1)
	h := NewHeap(mem, WithPoison())

	a, _ := h.Alloc(OwnerEngine, 8, 8)
	b, _ := h.Alloc(OwnerHost, 8, 8)
	_ = mem.WriteU64(a, 0x0102030405060708)
	_ = mem.WriteU64(b, 42)

	if err := h.Free(OwnerEngine, a); err != nil {
		t.Fatalf("Free: %v", err)
	}
	data, _ := mem.Read(a, 8)
	for i, v := range data {
		if v != PoisonByte {
			t.Fatalf("byte %d = %#x, want poison", i, v)
		}
	}
	if v, _ := mem.ReadU64(b); v != 42 {
		t.Errorf("neighbouring block changed: %d", v)
	}
}

func TestHeap_Stats(t *testing.T) {
	h := NewHeap(newSliceMemory(1, 1))

	p1, _ := h.Alloc(OwnerHost, 10, 1)
	_, _ = h.Alloc(OwnerHost, 6, 2)
	e1, _ := h.Alloc(OwnerEngine, 32, 8)

	st := h.Stats()
	if st.Host.LiveBytes != 16 || st.Host.LiveBlocks != 2 {
		t.Errorf("host stats = %+v", st.Host)
	}
	if st.Owner(OwnerEngine).LiveBytes != 32 {
		t.Errorf("engine stats = %+v", st.Engine)
	}

	_ = h.Free(OwnerHost, p1)
	_ = h.Free(OwnerEngine, e1)
	st = h.Stats()
	if st.Host.LiveBlocks != 1 || st.Host.TotalFrees != 1 || st.Engine.LiveBytes != 0 {
		t.Errorf("after free: host=%+v engine=%+v", st.Host, st.Engine)
	}
}

func TestHeap_Concurrent(t *testing.T) {
	h := NewHeap(newSliceMemory(1, 64))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		owner := OwnerHost
		if g%2 == 1 {
			owner = OwnerEngine
		}
		wg.Add(1)
		go func(owner Owner) {
			defer wg.Done()
			alloc := h.Allocator(owner)
			for i := 0; i < 200; i++ {
				ptr, err := alloc.Alloc(uint32(8+i%24), 8)
				if err != nil {
					t.Errorf("Alloc: %v", err)
					return
				}
				if err := alloc.Free(ptr, 0, 0); err != nil {
					t.Errorf("Free: %v", err)
					return
				}
			}
		}(owner)
	}
	wg.Wait()

	st := h.Stats()
	if st.Host.LiveBlocks != 0 || st.Engine.LiveBlocks != 0 {
		t.Errorf("blocks leaked: %+v", st)
	}
}
