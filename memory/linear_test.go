package memory

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
)

func TestInstantiate(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	mod, lin, err := Instantiate(ctx, rt, "test:memory", 1, 2)
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	defer mod.Close(ctx)

	if lin.Size() != PageSize {
		t.Errorf("Size = %d, want one page", lin.Size())
	}

	if err := lin.WriteU32(100, 0xdeadbeef); err != nil {
		t.Fatalf("WriteU32: %v", err)
	}
	if v, err := lin.ReadU32(100); err != nil || v != 0xdeadbeef {
		t.Errorf("ReadU32 = %#x, %v", v, err)
	}
	if err := lin.WriteU64(PageSize-4, 1); err == nil {
		t.Error("expected out of bounds write error")
	}
	if _, err := lin.Read(PageSize-2, 4); err == nil {
		t.Error("expected out of bounds read error")
	}

	if _, ok := lin.Grow(1); !ok {
		t.Fatal("Grow within max failed")
	}
	if _, ok := lin.Grow(1); ok {
		t.Error("Grow beyond max succeeded")
	}

	if _, _, err := Instantiate(ctx, rt, "test:bad", 4, 2); err == nil {
		t.Error("expected error for max below min")
	}
}

func TestHeapOverLinear(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	_, lin, err := Instantiate(ctx, rt, "test:heap", 1, 4)
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}

	h := NewHeap(lin, WithPoison())
	ptr, err := h.Alloc(OwnerHost, 3*PageSize/2, 8)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if lin.Size() != 2*PageSize {
		t.Errorf("memory did not grow: %d", lin.Size())
	}
	if err := h.Free(OwnerHost, ptr); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if b, _ := lin.ReadU8(ptr); b != PoisonByte {
		t.Errorf("freed byte = %#x, want poison", b)
	}
}
