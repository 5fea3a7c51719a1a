package wasm

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

func TestEncodeULEB128(t *testing.T) {
	tests := []struct {
		in   uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
		{1<<32 - 1, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}
	for _, tt := range tests {
		if got := EncodeULEB128(tt.in); !bytes.Equal(got, tt.want) {
			t.Errorf("EncodeULEB128(%d) = %x, want %x", tt.in, got, tt.want)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
		wantErr error
	}{
		{"empty", NewBuilder(), ErrEmpty},
		{"defined and imported", NewBuilder().DefineMemory(1, 2, "memory").ImportMemory("m", "memory", ""), nil},
		{"max below min", NewBuilder().DefineMemory(4, 2, "memory"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSharedSignatures(t *testing.T) {
	b := NewBuilder().
		Forward("host", "a", []api.ValueType{i32}, []api.ValueType{i32, i64}).
		Forward("host", "b", []api.ValueType{i32}, []api.ValueType{i32, i64}).
		Forward("host", "c", []api.ValueType{i64}, []api.ValueType{i32})
	if len(b.types) != 2 {
		t.Errorf("got %d types, want 2", len(b.types))
	}
}

func TestDefineMemory(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	bin, err := NewBuilder().DefineMemory(2, 8, "memory").Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	mod, err := rt.InstantiateWithConfig(ctx, bin, wazero.NewModuleConfig().WithName("mem"))
	if err != nil {
		t.Fatalf("instantiate failed: %v", err)
	}
	mem := mod.ExportedMemory("memory")
	if mem == nil {
		t.Fatal("memory not exported")
	}
	if got := mem.Size(); got != 2*65536 {
		t.Errorf("size = %d, want %d", got, 2*65536)
	}
	if limit, ok := mem.Definition().Max(); !ok || limit != 8 {
		t.Errorf("max = %d, %v; want 8, true", limit, ok)
	}
}

func TestForward(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	memBin, err := NewBuilder().DefineMemory(1, 1, "memory").Build()
	if err != nil {
		t.Fatalf("Build memory failed: %v", err)
	}
	if _, err := rt.InstantiateWithConfig(ctx, memBin, wazero.NewModuleConfig().WithName("test:memory")); err != nil {
		t.Fatalf("instantiate memory failed: %v", err)
	}

	// echo writes its argument into memory and returns it with a tag.
	echo := api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
		ptr := api.DecodeU32(stack[0])
		mod.Memory().WriteUint32Le(ptr, 0xcafe)
		stack[0] = api.EncodeU32(ptr + 4)
		stack[1] = uint64(ptr) << 32
	})
	sum := api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
		stack[0] = stack[0] + stack[1]
	})

	_, err = rt.NewHostModuleBuilder("test:host").
		NewFunctionBuilder().WithGoModuleFunction(echo, []api.ValueType{i32}, []api.ValueType{i32, i64}).Export("echo").
		NewFunctionBuilder().WithGoModuleFunction(sum, []api.ValueType{i64, i64}, []api.ValueType{i64}).Export("sum").
		Instantiate(ctx)
	if err != nil {
		t.Fatalf("host module failed: %v", err)
	}

	bin, err := NewBuilder().
		ImportMemory("test:memory", "memory", "memory").
		Forward("test:host", "echo", []api.ValueType{i32}, []api.ValueType{i32, i64}).
		Forward("test:host", "sum", []api.ValueType{i64, i64}, []api.ValueType{i64}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	guest, err := rt.InstantiateWithConfig(ctx, bin, wazero.NewModuleConfig().WithName("test:guest"))
	if err != nil {
		t.Fatalf("instantiate guest failed: %v", err)
	}

	res, err := guest.ExportedFunction("echo").Call(ctx, 16)
	if err != nil {
		t.Fatalf("echo failed: %v", err)
	}
	if len(res) != 2 || res[0] != 20 || res[1] != 16<<32 {
		t.Errorf("echo = %v", res)
	}
	if v, ok := guest.ExportedMemory("memory").ReadUint32Le(16); !ok || v != 0xcafe {
		t.Errorf("memory[16] = %x, %v", v, ok)
	}

	res, err = guest.ExportedFunction("sum").Call(ctx, 40, 2)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if res[0] != 42 {
		t.Errorf("sum = %d, want 42", res[0])
	}
}
