package transcoder

import "testing"

func TestAllocationList(t *testing.T) {
	alloc := newMockAllocator()
	list := NewAllocationList()
	defer list.Release()

	for _, size := range []uint32{8, 16, 3} {
		ptr, err := alloc.Alloc(size, 4)
		if err != nil {
			t.Fatalf("Alloc failed: %v", err)
		}
		list.Add(ptr, size, 4)
	}

	if list.Count() != 3 {
		t.Errorf("Count = %d, want 3", list.Count())
	}
	if list.Bytes() != 27 {
		t.Errorf("Bytes = %d, want 27", list.Bytes())
	}

	if err := list.Free(alloc); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if alloc.frees != 3 || list.Count() != 0 {
		t.Errorf("frees = %d, count = %d", alloc.frees, list.Count())
	}
}

func TestAllocationList_FreeReportsFirstError(t *testing.T) {
	alloc := newMockAllocator()
	list := NewAllocationList()
	defer list.Release()

	good, _ := alloc.Alloc(8, 4)
	list.Add(999, 8, 4) // never allocated
	list.Add(good, 8, 4)

	if err := list.Free(alloc); err == nil {
		t.Error("expected error for unknown block")
	}
	if len(alloc.live) != 0 {
		t.Error("remaining blocks should still be freed")
	}
}

func TestAllocationList_NilAllocator(t *testing.T) {
	list := NewAllocationList()
	defer list.Release()
	list.Add(16, 4, 4)
	if err := list.Free(nil); err != nil {
		t.Errorf("Free(nil) = %v", err)
	}
}
