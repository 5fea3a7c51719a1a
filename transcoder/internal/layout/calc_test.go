package layout

import (
	"testing"

	"go.bytecodealliance.org/wit"
)

func TestCalculatePrimitives(t *testing.T) {
	c := NewCalculator()

	tests := []struct {
		typ   wit.Type
		name  string
		size  uint32
		align uint32
	}{
		{wit.Bool{}, "bool", 1, 1},
		{wit.U8{}, "u8", 1, 1},
		{wit.S8{}, "s8", 1, 1},
		{wit.U16{}, "u16", 2, 2},
		{wit.S16{}, "s16", 2, 2},
		{wit.U32{}, "u32", 4, 4},
		{wit.S32{}, "s32", 4, 4},
		{wit.U64{}, "u64", 8, 8},
		{wit.S64{}, "s64", 8, 8},
		{wit.F32{}, "f32", 4, 4},
		{wit.F64{}, "f64", 8, 8},
		{wit.String{}, "string", 8, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			info := c.Calculate(tc.typ)
			if info.Size != tc.size {
				t.Errorf("size: got %d, want %d", info.Size, tc.size)
			}
			if info.Align != tc.align {
				t.Errorf("align: got %d, want %d", info.Align, tc.align)
			}
		})
	}
}

func TestCalculateRecord(t *testing.T) {
	c := NewCalculator()

	t.Run("empty", func(t *testing.T) {
		info := c.Calculate(&wit.TypeDef{Kind: &wit.Record{}})
		if info.Size != 0 || info.Align != 1 {
			t.Errorf("got size=%d align=%d, want 0/1", info.Size, info.Align)
		}
	})

	t.Run("padding", func(t *testing.T) {
		// bool @0, f64 @8, u8 @16, string @20 -> size 32 align 8
		typedef := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
			{Name: "Bold", Type: wit.Bool{}},
			{Name: "Size", Type: wit.F64{}},
			{Name: "Kind", Type: wit.U8{}},
			{Name: "Color", Type: wit.String{}},
		}}}
		info := c.Calculate(typedef)
		want := map[string]uint32{"Bold": 0, "Size": 8, "Kind": 16, "Color": 20}
		for name, off := range want {
			if info.FieldOffs[name] != off {
				t.Errorf("offset %s: got %d, want %d", name, info.FieldOffs[name], off)
			}
		}
		if info.Size != 32 || info.Align != 8 {
			t.Errorf("got size=%d align=%d, want 32/8", info.Size, info.Align)
		}
	})
}

func TestCalculateCollectionsAndOptions(t *testing.T) {
	c := NewCalculator()

	list := c.Calculate(&wit.TypeDef{Kind: &wit.List{Type: wit.F64{}}})
	if list.Size != 8 || list.Align != 4 {
		t.Errorf("list: got %d/%d, want 8/4", list.Size, list.Align)
	}

	// Options are a pointer regardless of payload size.
	opt := c.Calculate(&wit.TypeDef{Kind: &wit.Option{Type: wit.F64{}}})
	if opt.Size != 4 || opt.Align != 4 {
		t.Errorf("option: got %d/%d, want 4/4", opt.Size, opt.Align)
	}
}

func TestCalculateEnum(t *testing.T) {
	c := NewCalculator()

	small := &wit.TypeDef{Kind: &wit.Enum{Cases: []wit.EnumCase{{Name: "top"}, {Name: "bottom"}}}}
	if info := c.Calculate(small); info.Size != 1 || info.Align != 1 {
		t.Errorf("small enum: got %d/%d, want 1/1", info.Size, info.Align)
	}

	cases := make([]wit.EnumCase, 300)
	for i := range cases {
		cases[i] = wit.EnumCase{Name: string(rune('a' + i%26))}
	}
	large := &wit.TypeDef{Kind: &wit.Enum{Cases: cases}}
	if info := c.Calculate(large); info.Size != 2 || info.Align != 2 {
		t.Errorf("large enum: got %d/%d, want 2/2", info.Size, info.Align)
	}
}

func TestCaching(t *testing.T) {
	c := NewCalculator()
	typedef := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{{Name: "x", Type: wit.U32{}}}}}

	first := c.Calculate(typedef)
	second := c.Calculate(typedef)
	if first.Size != second.Size {
		t.Error("cached layout differs")
	}
	if len(c.cache) != 1 {
		t.Errorf("cache size = %d, want 1", len(c.cache))
	}
}

func TestNestedTypes(t *testing.T) {
	c := NewCalculator()

	font := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "Bold", Type: wit.Bool{}},
		{Name: "Size", Type: wit.F64{}},
	}}}
	style := &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "Border", Type: &wit.TypeDef{Kind: &wit.List{Type: wit.U32{}}}},
		{Name: "Font", Type: &wit.TypeDef{Kind: &wit.Option{Type: font}}},
		{Name: "Inline", Type: font},
	}}}

	info := c.Calculate(style)
	if info.FieldOffs["Font"] != 8 {
		t.Errorf("Font offset = %d, want 8", info.FieldOffs["Font"])
	}
	if info.FieldOffs["Inline"] != 16 {
		t.Errorf("Inline offset = %d, want 16", info.FieldOffs["Inline"])
	}
	if info.Size != 32 || info.Align != 8 {
		t.Errorf("got size=%d align=%d, want 32/8", info.Size, info.Align)
	}
}
