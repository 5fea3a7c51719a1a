package transcoder

import (
	"sync"

	xlsxbridge "github.com/wippyai/xlsx-bridge"
)

type Memory = xlsxbridge.Memory
type Allocator = xlsxbridge.Allocator

type Allocation struct {
	Ptr   uint32
	Size  uint32
	Align uint32
}

// AllocationList records the blocks written while encoding one value so they
// can be released together.
type AllocationList struct {
	allocations []Allocation
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &AllocationList{allocations: make([]Allocation, 0, 8)}
	},
}

func NewAllocationList() *AllocationList {
	return allocationListPool.Get().(*AllocationList)
}

const maxPooledAllocationCapacity = 128

// Release returns to pool. Must call after Free(); list invalid after Release.
func (al *AllocationList) Release() {
	if cap(al.allocations) > maxPooledAllocationCapacity {
		return
	}
	al.Reset()
	allocationListPool.Put(al)
}

// FreeAndRelease frees every block and returns the list to the pool.
func (al *AllocationList) FreeAndRelease(allocator Allocator) error {
	err := al.Free(allocator)
	al.Release()
	return err
}

func (al *AllocationList) Add(ptr, size, align uint32) {
	al.allocations = append(al.allocations, Allocation{
		Ptr:   ptr,
		Size:  size,
		Align: align,
	})
}

// Free releases every recorded block and clears the list, so a second Free
// is a no-op. All blocks are attempted; the first failure is returned.
func (al *AllocationList) Free(allocator Allocator) error {
	if allocator == nil {
		return nil
	}
	var first error
	for _, a := range al.allocations {
		if a.Ptr == 0 {
			continue
		}
		if err := allocator.Free(a.Ptr, a.Size, a.Align); err != nil && first == nil {
			first = err
		}
	}
	al.Reset()
	return first
}

func (al *AllocationList) Reset() {
	al.allocations = al.allocations[:0]
}

func (al *AllocationList) Count() int {
	return len(al.allocations)
}

// Bytes returns the total size of the recorded blocks.
func (al *AllocationList) Bytes() uint64 {
	var n uint64
	for _, a := range al.allocations {
		n += uint64(a.Size)
	}
	return n
}
