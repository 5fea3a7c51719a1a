package transcoder

import (
	"encoding/binary"
	"fmt"

	"go.bytecodealliance.org/wit"
)

// mockMemory implements Memory over a byte slice and counts bulk reads.
type mockMemory struct {
	data  []byte
	reads int
}

func newMockMemory(size int) *mockMemory {
	return &mockMemory{data: make([]byte, size)}
}

func (m *mockMemory) check(offset, length uint32) error {
	if uint64(offset)+uint64(length) > uint64(len(m.data)) {
		return fmt.Errorf("access [%d, %d) out of range", offset, uint64(offset)+uint64(length))
	}
	return nil
}

func (m *mockMemory) Read(offset uint32, length uint32) ([]byte, error) {
	m.reads++
	if err := m.check(offset, length); err != nil {
		return nil, err
	}
	return m.data[offset : offset+length], nil
}

func (m *mockMemory) Write(offset uint32, data []byte) error {
	if err := m.check(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *mockMemory) ReadU8(offset uint32) (uint8, error) {
	if err := m.check(offset, 1); err != nil {
		return 0, err
	}
	return m.data[offset], nil
}

func (m *mockMemory) ReadU16(offset uint32) (uint16, error) {
	if err := m.check(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[offset:]), nil
}

func (m *mockMemory) ReadU32(offset uint32) (uint32, error) {
	if err := m.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[offset:]), nil
}

func (m *mockMemory) ReadU64(offset uint32) (uint64, error) {
	if err := m.check(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.data[offset:]), nil
}

func (m *mockMemory) WriteU8(offset uint32, value uint8) error {
	if err := m.check(offset, 1); err != nil {
		return err
	}
	m.data[offset] = value
	return nil
}

func (m *mockMemory) WriteU16(offset uint32, value uint16) error {
	if err := m.check(offset, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[offset:], value)
	return nil
}

func (m *mockMemory) WriteU32(offset uint32, value uint32) error {
	if err := m.check(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[offset:], value)
	return nil
}

func (m *mockMemory) WriteU64(offset uint32, value uint64) error {
	if err := m.check(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(m.data[offset:], value)
	return nil
}

// mockAllocator is a bump allocator that tracks live blocks.
type mockAllocator struct {
	live   map[uint32]uint32
	offset uint32
	allocs int
	frees  int
}

func newMockAllocator() *mockAllocator {
	return &mockAllocator{offset: 1024, live: make(map[uint32]uint32)} // start at 1024 to test non-zero offsets
}

func (a *mockAllocator) Alloc(size, align uint32) (uint32, error) {
	a.offset = alignTo(a.offset, align)
	ptr := a.offset
	a.offset += size
	a.live[ptr] = size
	a.allocs++
	return ptr, nil
}

func (a *mockAllocator) Free(ptr, size, align uint32) error {
	if _, ok := a.live[ptr]; !ok {
		return fmt.Errorf("free of unknown block %d", ptr)
	}
	delete(a.live, ptr)
	a.frees++
	return nil
}

func named(name string, td *wit.TypeDef) *wit.TypeDef {
	td.Name = &name
	return td
}

func enumOf(name string, cases ...string) *wit.TypeDef {
	ec := make([]wit.EnumCase, len(cases))
	for i, c := range cases {
		ec[i] = wit.EnumCase{Name: c}
	}
	return named(name, &wit.TypeDef{Kind: &wit.Enum{Cases: ec}})
}

type testFont struct {
	Family string
	Size   float64
	Bold   bool
}

type testAlignment struct {
	Horizontal string
	Vertical   string
	Indent     int
}

type testBorder struct {
	Type  string
	Color string
	Style int
}

type testStyle struct {
	Font         *testFont
	Alignment    *testAlignment
	CustomNumFmt *string
	Border       []testBorder
	Tags         []string
	Data         []byte
	NumFmt       int
}

var (
	fontType = named("Font", &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "Family", Type: wit.String{}},
		{Name: "Size", Type: wit.F64{}},
		{Name: "Bold", Type: wit.Bool{}},
	}}})
	alignmentType = named("Alignment", &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "Horizontal", Type: enumOf("horizontal-alignment", "", "left", "center", "right")},
		{Name: "Vertical", Type: enumOf("vertical-alignment", "", "top", "center", "bottom")},
		{Name: "Indent", Type: wit.U32{}},
	}}})
	borderType = named("Border", &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "Type", Type: enumOf("border-type", "left", "right", "top", "bottom")},
		{Name: "Color", Type: wit.String{}},
		{Name: "Style", Type: enumOf("border-style", "none", "continuous", "dash", "dot")},
	}}})
	styleType = named("Style", &wit.TypeDef{Kind: &wit.Record{Fields: []wit.Field{
		{Name: "Border", Type: &wit.TypeDef{Kind: &wit.List{Type: borderType}}},
		{Name: "Font", Type: &wit.TypeDef{Kind: &wit.Option{Type: fontType}}},
		{Name: "Alignment", Type: &wit.TypeDef{Kind: &wit.Option{Type: alignmentType}}},
		{Name: "NumFmt", Type: wit.U32{}},
		{Name: "CustomNumFmt", Type: &wit.TypeDef{Kind: &wit.Option{Type: wit.String{}}}},
		{Name: "Tags", Type: &wit.TypeDef{Kind: &wit.List{Type: wit.String{}}}},
		{Name: "Data", Type: &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}},
	}}})
)

func strPtr(s string) *string { return &s }
