package transcoder

import (
	"math"
	"reflect"
	"strconv"
	"unicode/utf8"
	"unsafe"

	"github.com/wippyai/xlsx-bridge/errors"
	"github.com/wippyai/xlsx-bridge/transcoder/internal/abi"
	"go.bytecodealliance.org/wit"
)

// Safety limits to prevent memory exhaustion.
const (
	MaxStringSize = abi.MaxStringSize // Maximum string size (1 GB)
	MaxListLength = abi.MaxListLength // Maximum list length (128M elements)
	MaxAlloc      = abi.MaxAlloc      // Maximum allocation size (1 GB)
)

var (
	safeMulU32 = abi.SafeMulU32
	safeAddU32 = abi.SafeAddU32
	typeName   = abi.TypeName
)

type Encoder struct {
	compiler *Compiler
}

func NewEncoder() *Encoder {
	return &Encoder{
		compiler: NewCompiler(),
	}
}

func NewEncoderWithCompiler(c *Compiler) *Encoder {
	return &Encoder{compiler: c}
}

// Encode compiles witType against the type value points to, allocates a root
// block and writes the value into it. Every block is recorded in allocList;
// on error the caller frees whatever was recorded.
func (e *Encoder) Encode(witType wit.Type, value any, mem Memory, alloc Allocator, allocList *AllocationList) (uint32, error) {
	ct, ptr, err := e.compileValue(witType, value)
	if err != nil {
		return 0, err
	}
	return e.EncodeCompiled(ct, ptr, mem, alloc, allocList)
}

// EncodeCompiled writes the value at ptr, laid out as ct, into a fresh root block.
func (e *Encoder) EncodeCompiled(ct *CompiledType, ptr unsafe.Pointer, mem Memory, alloc Allocator, allocList *AllocationList) (uint32, error) {
	addr, err := e.allocate(ct.WitSize, ct.WitAlign, alloc, allocList, nil)
	if err != nil {
		return 0, err
	}
	if err := e.encodeFieldToMemory(addr, ct, ptr, mem, alloc, allocList, e.rootPath(ct)); err != nil {
		return 0, err
	}
	return addr, nil
}

func (e *Encoder) compileValue(witType wit.Type, value any) (*CompiledType, unsafe.Pointer, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return nil, nil, errors.NilPointer(errors.PhaseEncode, nil, typeName(value))
	}
	ct, err := e.compiler.Compile(witType, rv.Type().Elem())
	if err != nil {
		return nil, nil, err
	}
	return ct, rv.UnsafePointer(), nil
}

func (e *Encoder) rootPath(ct *CompiledType) []string {
	if ct.Name != "" {
		return []string{ct.Name}
	}
	return nil
}

func (e *Encoder) allocate(size, align uint32, alloc Allocator, allocList *AllocationList, path []string) (uint32, error) {
	if size == 0 {
		size = 1
	}
	if size > MaxAlloc {
		return 0, errors.New(errors.PhaseEncode, errors.KindOverflow).
			Path(path...).
			Detail("allocation of %d bytes exceeds maximum %d", size, MaxAlloc).
			Build()
	}
	addr, err := alloc.Alloc(size, align)
	if err != nil {
		return 0, errors.New(errors.PhaseEncode, errors.KindAllocation).
			Path(path...).
			Detail("failed to allocate %d bytes (align %d)", size, align).
			Cause(err).
			Build()
	}
	if allocList != nil {
		allocList.Add(addr, size, align)
	}
	return addr, nil
}

func (e *Encoder) encodeFieldToMemory(addr uint32, ct *CompiledType, ptr unsafe.Pointer, mem Memory, alloc Allocator, allocList *AllocationList, path []string) error {
	switch ct.Kind {
	case KindBool:
		var b uint8
		if *(*bool)(ptr) {
			b = 1
		}
		return mem.WriteU8(addr, b)

	case KindU8, KindS8, KindU16, KindS16, KindU32, KindS32, KindU64, KindS64:
		return e.encodeIntegerToMemory(addr, ct, ptr, mem, path)

	case KindF32:
		var f float32
		if ct.GoKind == reflect.Float64 {
			f = float32(*(*float64)(ptr))
		} else {
			f = *(*float32)(ptr)
		}
		return mem.WriteU32(addr, math.Float32bits(f))

	case KindF64:
		var f float64
		if ct.GoKind == reflect.Float32 {
			f = float64(*(*float32)(ptr))
		} else {
			f = *(*float64)(ptr)
		}
		return mem.WriteU64(addr, math.Float64bits(f))

	case KindString:
		return e.encodeStringToMemory(addr, *(*string)(ptr), mem, alloc, allocList, path)

	case KindRecord:
		return e.encodeRecordToMemory(addr, ct, ptr, mem, alloc, allocList, path)

	case KindList:
		return e.encodeListToMemory(addr, ct, ptr, mem, alloc, allocList, path)

	case KindOption:
		return e.encodeOptionToMemory(addr, ct, ptr, mem, alloc, allocList, path)

	case KindEnum:
		return e.encodeEnumToMemory(addr, ct, ptr, mem, path)

	default:
		return errors.Unsupported(errors.PhaseEncode, "type kind: "+ct.Kind.String())
	}
}

func (e *Encoder) encodeIntegerToMemory(addr uint32, ct *CompiledType, ptr unsafe.Pointer, mem Memory, path []string) error {
	var bits uint64
	if abi.IsSignedKind(ct.GoKind) {
		v := abi.LoadInt(ptr, ct.GoKind)
		if !ct.Kind.FitsInt(v) {
			return errors.Overflow(errors.PhaseEncode, path, v, ct.Kind.String())
		}
		bits = uint64(v)
	} else {
		v := abi.LoadUint(ptr, ct.GoKind)
		if !ct.Kind.FitsUint(v) {
			return errors.Overflow(errors.PhaseEncode, path, v, ct.Kind.String())
		}
		bits = v
	}
	return writeSized(mem, addr, ct.WitSize, bits)
}

func writeSized(mem Memory, addr, size uint32, bits uint64) error {
	switch size {
	case 1:
		return mem.WriteU8(addr, uint8(bits))
	case 2:
		return mem.WriteU16(addr, uint16(bits))
	case 4:
		return mem.WriteU32(addr, uint32(bits))
	default:
		return mem.WriteU64(addr, bits)
	}
}

// writeCollection writes the (count, ptr) pair.
func writeCollection(mem Memory, addr, count, dataAddr uint32) error {
	if err := mem.WriteU32(addr, count); err != nil {
		return err
	}
	return mem.WriteU32(addr+4, dataAddr)
}

func (e *Encoder) encodeStringToMemory(addr uint32, s string, mem Memory, alloc Allocator, allocList *AllocationList, path []string) error {
	if !utf8.ValidString(s) {
		return errors.InvalidUTF8(errors.PhaseEncode, path, []byte(s))
	}

	if len(s) > MaxStringSize {
		return errors.New(errors.PhaseEncode, errors.KindOverflow).
			Path(path...).
			Detail("string size %d exceeds maximum %d", len(s), MaxStringSize).
			Build()
	}

	if len(s) == 0 {
		return writeCollection(mem, addr, 0, 0)
	}

	dataLen := uint32(len(s))
	dataAddr, err := e.allocate(dataLen, 1, alloc, allocList, path)
	if err != nil {
		return err
	}

	data := unsafe.Slice(unsafe.StringData(s), len(s))
	if err := mem.Write(dataAddr, data); err != nil {
		return err
	}

	return writeCollection(mem, addr, dataLen, dataAddr)
}

func (e *Encoder) encodeRecordToMemory(addr uint32, ct *CompiledType, ptr unsafe.Pointer, mem Memory, alloc Allocator, allocList *AllocationList, path []string) error {
	for _, field := range ct.Fields {
		fieldPtr := unsafe.Add(ptr, field.GoOffset)
		fieldPath := append(append([]string{}, path...), field.WitName)
		if err := e.encodeFieldToMemory(addr+field.WitOffset, field.Type, fieldPtr, mem, alloc, allocList, fieldPath); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeListToMemory(addr uint32, ct *CompiledType, ptr unsafe.Pointer, mem Memory, alloc Allocator, allocList *AllocationList, path []string) error {
	sliceVal := reflect.NewAt(ct.SliceType, ptr).Elem()
	n := sliceVal.Len()

	if n > MaxListLength {
		return errors.New(errors.PhaseEncode, errors.KindOverflow).
			Path(path...).
			Detail("list length %d exceeds maximum %d", n, MaxListLength).
			Build()
	}

	if n == 0 {
		return writeCollection(mem, addr, 0, 0)
	}

	length := uint32(n)
	elemSize := ct.ElemType.WitSize
	dataSize, ok := safeMulU32(length, elemSize)
	if !ok || dataSize > MaxAlloc {
		return errors.New(errors.PhaseEncode, errors.KindOverflow).
			Path(path...).
			Detail("list data size overflow: %d * %d", length, elemSize).
			Build()
	}
	dataAddr, err := e.allocate(dataSize, ct.ElemType.WitAlign, alloc, allocList, path)
	if err != nil {
		return err
	}

	// []byte fast path
	if ct.ElemType.Kind == KindU8 && ct.ElemType.GoKind == reflect.Uint8 {
		src := unsafe.Slice((*byte)(unsafe.Pointer(sliceVal.Index(0).UnsafeAddr())), n)
		if err := mem.Write(dataAddr, src); err != nil {
			return err
		}
		return writeCollection(mem, addr, length, dataAddr)
	}

	for i := 0; i < n; i++ {
		elemPtr := unsafe.Pointer(sliceVal.Index(i).UnsafeAddr())
		elemPath := append(append([]string{}, path...), "["+strconv.Itoa(i)+"]")
		if err := e.encodeFieldToMemory(dataAddr+uint32(i)*elemSize, ct.ElemType, elemPtr, mem, alloc, allocList, elemPath); err != nil {
			return err
		}
	}

	return writeCollection(mem, addr, length, dataAddr)
}

func (e *Encoder) encodeOptionToMemory(addr uint32, ct *CompiledType, ptr unsafe.Pointer, mem Memory, alloc Allocator, allocList *AllocationList, path []string) error {
	goPtr := *(*unsafe.Pointer)(ptr)
	if goPtr == nil {
		return mem.WriteU32(addr, 0)
	}

	slot, err := e.allocate(ct.ElemType.WitSize, ct.ElemType.WitAlign, alloc, allocList, path)
	if err != nil {
		return err
	}
	if err := e.encodeFieldToMemory(slot, ct.ElemType, goPtr, mem, alloc, allocList, path); err != nil {
		return err
	}
	return mem.WriteU32(addr, slot)
}

func (e *Encoder) encodeEnumToMemory(addr uint32, ct *CompiledType, ptr unsafe.Pointer, mem Memory, path []string) error {
	var code uint64
	switch {
	case ct.StringEnum():
		s := *(*string)(ptr)
		idx, ok := ct.CaseIndex[s]
		if !ok {
			return errors.InvalidStyleField(errors.PhaseEncode, path, s, enumName(ct))
		}
		code = uint64(idx)
	case abi.IsSignedKind(ct.GoKind):
		v := abi.LoadInt(ptr, ct.GoKind)
		if v < 0 || v >= int64(len(ct.Cases)) {
			return errors.InvalidStyleField(errors.PhaseEncode, path, v, enumName(ct))
		}
		code = uint64(v)
	default:
		v := abi.LoadUint(ptr, ct.GoKind)
		if v >= uint64(len(ct.Cases)) {
			return errors.InvalidStyleField(errors.PhaseEncode, path, v, enumName(ct))
		}
		code = v
	}
	return writeSized(mem, addr, ct.WitSize, code)
}

func enumName(ct *CompiledType) string {
	if ct.Name != "" {
		return ct.Name
	}
	return "enum"
}
