package transcoder

import (
	"reflect"
	"testing"

	"github.com/wippyai/xlsx-bridge/errors"
	"go.bytecodealliance.org/wit"
)

func TestDecoder_New(t *testing.T) {
	if NewDecoder() == nil {
		t.Fatal("NewDecoder returned nil")
	}
	if NewDecoderWithCompiler(NewCompiler()) == nil {
		t.Fatal("NewDecoderWithCompiler returned nil")
	}
}

func TestDecoder_StyleRoundTrip(t *testing.T) {
	c := NewCompiler()
	enc := NewEncoderWithCompiler(c)
	dec := NewDecoderWithCompiler(c)

	tests := []struct {
		in   testStyle
		name string
	}{
		{
			name: "full",
			in: testStyle{
				Border: []testBorder{
					{Type: "left", Color: "000000", Style: 1},
					{Type: "bottom", Color: "FF0000", Style: 3},
				},
				Font:         &testFont{Family: "Times New Roman", Size: 12.5, Bold: true},
				Alignment:    &testAlignment{Horizontal: "center", Vertical: "top", Indent: 2},
				NumFmt:       164,
				CustomNumFmt: strPtr("0.000"),
				Tags:         []string{"header", "", "total"},
				Data:         []byte{0, 1, 2, 255},
			},
		},
		{
			name: "empty_enum_case",
			in: testStyle{
				Border:    []testBorder{{Type: "top"}},
				Alignment: &testAlignment{},
				Tags:      []string{"x"},
				Data:      []byte{7},
			},
		},
		{
			name: "present_empty_string",
			in: testStyle{
				Border:       []testBorder{{Type: "right"}},
				CustomNumFmt: strPtr(""),
				Tags:         []string{"y"},
				Data:         []byte{8},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := newMockMemory(16384)
			alloc := newMockAllocator()
			list := NewAllocationList()
			defer list.FreeAndRelease(alloc)

			addr, err := enc.Encode(styleType, &tt.in, mem, alloc, list)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			var out testStyle
			if err := dec.Decode(styleType, addr, mem, &out); err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !reflect.DeepEqual(out, tt.in) {
				t.Errorf("round trip mismatch:\n got  %+v\n want %+v", out, tt.in)
			}
		})
	}
}

func TestDecoder_OptionAbsentStaysNil(t *testing.T) {
	enc := NewEncoder()
	dec := NewDecoder()
	mem := newMockMemory(8192)
	alloc := newMockAllocator()
	list := NewAllocationList()
	defer list.FreeAndRelease(alloc)

	addr, err := enc.Encode(styleType, &testStyle{}, mem, alloc, list)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	out := testStyle{Font: &testFont{Family: "stale"}}
	if err := dec.Decode(styleType, addr, mem, &out); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Font != nil || out.Alignment != nil || out.CustomNumFmt != nil {
		t.Errorf("absent options decoded as present: %+v", out)
	}
	if out.Border == nil || len(out.Border) != 0 {
		t.Errorf("empty list should decode as empty slice, got %#v", out.Border)
	}
}

func TestDecoder_MalformedCollection(t *testing.T) {
	dec := NewDecoder()

	tests := []struct {
		typ  wit.Type
		out  any
		name string
	}{
		{wit.String{}, new(string), "string"},
		{&wit.TypeDef{Kind: &wit.List{Type: wit.U32{}}}, new([]uint32), "list"},
		{&wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}, new([]byte), "bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := newMockMemory(1024)
			_ = mem.WriteU32(64, 3) // count
			_ = mem.WriteU32(68, 0) // null ptr

			err := dec.Decode(tt.typ, 64, mem, tt.out)
			if !errors.Is(err, errors.ErrMalformedCollection) {
				t.Fatalf("expected malformed collection, got %v", err)
			}
			if mem.reads != 0 {
				t.Errorf("null pointer was followed: %d reads", mem.reads)
			}
		})
	}
}

func TestDecoder_MalformedCollectionPath(t *testing.T) {
	dec := NewDecoder()
	enc := NewEncoder()
	mem := newMockMemory(8192)
	alloc := newMockAllocator()
	list := NewAllocationList()
	defer list.FreeAndRelease(alloc)

	addr, err := enc.Encode(styleType, &testStyle{Tags: []string{"a"}}, mem, alloc, list)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	// Style.Border (@0) claims two elements behind a null pointer
	_ = mem.WriteU32(addr, 2)

	var out testStyle
	err = dec.Decode(styleType, addr, mem, &out)
	var e *errors.Error
	if !errors.As(err, &e) || e.Kind != errors.KindMalformedCollection {
		t.Fatalf("expected malformed collection, got %v", err)
	}
	if e.FieldPath() != "Style.Border" {
		t.Errorf("path = %q, want Style.Border", e.FieldPath())
	}
}

func TestDecoder_ZeroCountIgnoresPointer(t *testing.T) {
	dec := NewDecoder()
	mem := newMockMemory(1024)
	_ = mem.WriteU32(64, 0)
	_ = mem.WriteU32(68, 0xFFFFFF00) // never followed

	var s string
	if err := dec.Decode(wit.String{}, 64, mem, &s); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if s != "" {
		t.Errorf("got %q, want empty", s)
	}
	if mem.reads != 0 {
		t.Errorf("pointer followed for empty collection")
	}
}

func TestDecoder_InvalidEnum(t *testing.T) {
	enc := NewEncoder()
	dec := NewDecoder()
	mem := newMockMemory(8192)
	alloc := newMockAllocator()
	list := NewAllocationList()
	defer list.FreeAndRelease(alloc)

	in := testStyle{Alignment: &testAlignment{Vertical: "bottom"}}
	addr, err := enc.Encode(styleType, &in, mem, alloc, list)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Alignment record: Horizontal @0, Vertical @1, Indent @4
	slot, _ := mem.ReadU32(addr + 12)
	_ = mem.WriteU8(slot+1, 9)

	var out testStyle
	err = dec.Decode(styleType, addr, mem, &out)
	if !errors.Is(err, errors.ErrInvalidStyleField) {
		t.Fatalf("expected invalid style field, got %v", err)
	}
	var e *errors.Error
	errors.As(err, &e)
	if e.FieldPath() != "Style.Alignment.Vertical" {
		t.Errorf("path = %q", e.FieldPath())
	}
}

func TestDecoder_IntegerOverflow(t *testing.T) {
	dec := NewDecoder()
	mem := newMockMemory(1024)
	_ = mem.WriteU32(64, 0xFFFFFFFF)

	var small int8
	if err := dec.Decode(wit.U32{}, 64, mem, &small); !errors.Is(err, errors.ErrOverflow) {
		t.Errorf("u32 into int8: expected overflow, got %v", err)
	}

	var unsigned uint16
	if err := dec.Decode(wit.S32{}, 64, mem, &unsigned); !errors.Is(err, errors.ErrOverflow) {
		t.Errorf("negative s32 into uint16: expected overflow, got %v", err)
	}

	var wide int
	if err := dec.Decode(wit.S32{}, 64, mem, &wide); err != nil || wide != -1 {
		t.Errorf("s32 into int = %d, %v; want -1", wide, err)
	}
}

func TestDecoder_InvalidUTF8(t *testing.T) {
	dec := NewDecoder()
	mem := newMockMemory(1024)
	_ = mem.Write(128, []byte{0xff, 0xfe})
	_ = mem.WriteU32(64, 2)
	_ = mem.WriteU32(68, 128)

	var s string
	err := dec.Decode(wit.String{}, 64, mem, &s)
	var e *errors.Error
	if !errors.As(err, &e) || e.Kind != errors.KindInvalidUTF8 {
		t.Errorf("expected invalid utf8, got %v", err)
	}
}

func TestDecoder_OutOfRange(t *testing.T) {
	dec := NewDecoder()
	mem := newMockMemory(256)
	_ = mem.WriteU32(64, 10)
	_ = mem.WriteU32(68, 250) // runs past the end

	var s string
	if err := dec.Decode(wit.String{}, 64, mem, &s); err == nil {
		t.Error("expected out of range error")
	}
}

func TestDecoder_ListRegion(t *testing.T) {
	u32s := &wit.TypeDef{Kind: &wit.List{Type: wit.U32{}}}

	tests := []struct {
		name  string
		count uint32
		ptr   uint32
		kind  errors.Kind
	}{
		{"past end of memory", 1000, 128, errors.KindOutOfBounds},
		{"wraps address space", 1 << 16, 0xFFFF0000, errors.KindOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := newMockMemory(1024)
			_ = mem.WriteU32(64, tt.count)
			_ = mem.WriteU32(68, tt.ptr)

			var out []uint32
			err := NewDecoder().Decode(u32s, 64, mem, &out)
			var e *errors.Error
			if !errors.As(err, &e) || e.Kind != tt.kind {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
			if out != nil {
				t.Errorf("slice allocated for rejected list: len %d", len(out))
			}
		})
	}
}

func TestDecoder_NullRoot(t *testing.T) {
	dec := NewDecoder()
	var out testStyle
	if err := dec.Decode(styleType, 0, newMockMemory(64), &out); err == nil {
		t.Error("expected error for null root")
	}
}
