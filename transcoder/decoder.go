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

type Decoder struct {
	compiler *Compiler
}

func NewDecoder() *Decoder {
	return &Decoder{
		compiler: NewCompiler(),
	}
}

func NewDecoderWithCompiler(c *Compiler) *Decoder {
	return &Decoder{compiler: c}
}

// Decode reads the value laid out as witType at addr into the value out
// points to. Decoding never takes ownership of the memory it reads.
func (d *Decoder) Decode(witType wit.Type, addr uint32, mem Memory, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.NilPointer(errors.PhaseDecode, nil, typeName(out))
	}

	ct, err := d.compiler.Compile(witType, rv.Type().Elem())
	if err != nil {
		return err
	}

	return d.DecodeCompiled(ct, addr, mem, rv.UnsafePointer())
}

// DecodeCompiled decodes into ptr, which must point to a value of ct.GoType.
func (d *Decoder) DecodeCompiled(ct *CompiledType, addr uint32, mem Memory, ptr unsafe.Pointer) error {
	var path []string
	if ct.Name != "" {
		path = []string{ct.Name}
	}
	if addr == 0 {
		return errors.InvalidData(errors.PhaseDecode, path, "null address")
	}
	return d.decodeFieldFromMemory(addr, ct, ptr, mem, path)
}

func (d *Decoder) decodeFieldFromMemory(addr uint32, ct *CompiledType, ptr unsafe.Pointer, mem Memory, path []string) error {
	switch ct.Kind {
	case KindBool:
		v, err := mem.ReadU8(addr)
		if err != nil {
			return err
		}
		*(*bool)(ptr) = v != 0
		return nil

	case KindU8, KindS8, KindU16, KindS16, KindU32, KindS32, KindU64, KindS64:
		return d.decodeIntegerFromMemory(addr, ct, ptr, mem, path)

	case KindF32:
		bits, err := mem.ReadU32(addr)
		if err != nil {
			return err
		}
		f := math.Float32frombits(bits)
		if ct.GoKind == reflect.Float64 {
			*(*float64)(ptr) = float64(f)
		} else {
			*(*float32)(ptr) = f
		}
		return nil

	case KindF64:
		bits, err := mem.ReadU64(addr)
		if err != nil {
			return err
		}
		f := math.Float64frombits(bits)
		if ct.GoKind == reflect.Float32 {
			*(*float32)(ptr) = float32(f)
		} else {
			*(*float64)(ptr) = f
		}
		return nil

	case KindString:
		s, err := d.decodeStringFromMemory(addr, mem, path)
		if err != nil {
			return err
		}
		*(*string)(ptr) = s
		return nil

	case KindRecord:
		for _, field := range ct.Fields {
			fieldPath := append(append([]string{}, path...), field.WitName)
			if err := d.decodeFieldFromMemory(addr+field.WitOffset, field.Type, unsafe.Add(ptr, field.GoOffset), mem, fieldPath); err != nil {
				return err
			}
		}
		return nil

	case KindList:
		return d.decodeListFromMemory(addr, ct, ptr, mem, path)

	case KindOption:
		return d.decodeOptionFromMemory(addr, ct, ptr, mem, path)

	case KindEnum:
		return d.decodeEnumFromMemory(addr, ct, ptr, mem, path)

	default:
		return errors.Unsupported(errors.PhaseDecode, "type kind: "+ct.Kind.String())
	}
}

func readSized(mem Memory, addr, size uint32) (uint64, error) {
	switch size {
	case 1:
		v, err := mem.ReadU8(addr)
		return uint64(v), err
	case 2:
		v, err := mem.ReadU16(addr)
		return uint64(v), err
	case 4:
		v, err := mem.ReadU32(addr)
		return uint64(v), err
	default:
		return mem.ReadU64(addr)
	}
}

func (d *Decoder) decodeIntegerFromMemory(addr uint32, ct *CompiledType, ptr unsafe.Pointer, mem Memory, path []string) error {
	bits, err := readSized(mem, addr, ct.WitSize)
	if err != nil {
		return err
	}

	if ct.Kind.IsSigned() {
		v := abi.SignExtend(bits, ct.WitSize)
		if abi.IsSignedKind(ct.GoKind) {
			if !abi.StoreInt(ptr, ct.GoKind, v) {
				return errors.Overflow(errors.PhaseDecode, path, v, ct.GoKind.String())
			}
			return nil
		}
		if v < 0 || !abi.StoreUint(ptr, ct.GoKind, uint64(v)) {
			return errors.Overflow(errors.PhaseDecode, path, v, ct.GoKind.String())
		}
		return nil
	}

	if abi.IsSignedKind(ct.GoKind) {
		if bits > math.MaxInt64 || !abi.StoreInt(ptr, ct.GoKind, int64(bits)) {
			return errors.Overflow(errors.PhaseDecode, path, bits, ct.GoKind.String())
		}
		return nil
	}
	if !abi.StoreUint(ptr, ct.GoKind, bits) {
		return errors.Overflow(errors.PhaseDecode, path, bits, ct.GoKind.String())
	}
	return nil
}

// readCollection reads a (count, ptr) pair. A nonzero count behind a null
// pointer is rejected before anything is read through the pointer.
func readCollection(mem Memory, addr uint32, path []string) (count, dataAddr uint32, err error) {
	if count, err = mem.ReadU32(addr); err != nil {
		return 0, 0, err
	}
	if dataAddr, err = mem.ReadU32(addr + 4); err != nil {
		return 0, 0, err
	}
	if count > 0 && dataAddr == 0 {
		return 0, 0, errors.MalformedCollection(errors.PhaseDecode, path, count)
	}
	return count, dataAddr, nil
}

func (d *Decoder) decodeStringFromMemory(addr uint32, mem Memory, path []string) (string, error) {
	length, dataAddr, err := readCollection(mem, addr, path)
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}

	if length > MaxStringSize {
		return "", errors.New(errors.PhaseDecode, errors.KindOverflow).
			Path(path...).
			Detail("string length %d exceeds maximum %d", length, MaxStringSize).
			Build()
	}

	data, err := mem.Read(dataAddr, length)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, path, data)
	}

	return string(data), nil
}

func (d *Decoder) decodeListFromMemory(addr uint32, ct *CompiledType, ptr unsafe.Pointer, mem Memory, path []string) error {
	length, dataAddr, err := readCollection(mem, addr, path)
	if err != nil {
		return err
	}

	sliceVal := reflect.NewAt(ct.SliceType, ptr).Elem()
	if length == 0 {
		sliceVal.Set(reflect.MakeSlice(ct.SliceType, 0, 0))
		return nil
	}

	if length > MaxListLength {
		return errors.New(errors.PhaseDecode, errors.KindOverflow).
			Path(path...).
			Detail("list length %d exceeds maximum %d", length, MaxListLength).
			Build()
	}

	elemSize := ct.ElemType.WitSize
	dataSize, ok := safeMulU32(length, elemSize)
	if !ok || dataSize > MaxAlloc {
		return errors.New(errors.PhaseDecode, errors.KindOverflow).
			Path(path...).
			Detail("list data size overflow: %d * %d", length, elemSize).
			Build()
	}
	if _, ok := safeAddU32(dataAddr, dataSize); !ok {
		return errors.New(errors.PhaseDecode, errors.KindOverflow).
			Path(path...).
			Detail("list data at %d with size %d wraps the address space", dataAddr, dataSize).
			Build()
	}

	// Pure elements hold no addresses, so the data region is everything the
	// list reads. Check it before allocating the slice.
	if ct.ElemType.IsPure() {
		if _, err := mem.Read(dataAddr, dataSize); err != nil {
			return errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
				Path(path...).
				Detail("list data [%d, +%d) outside memory", dataAddr, dataSize).
				Cause(err).
				Build()
		}
	}

	// []byte fast path
	if ct.ElemType.Kind == KindU8 && ct.ElemType.GoKind == reflect.Uint8 {
		data, err := mem.Read(dataAddr, length)
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(ct.SliceType, int(length), int(length))
		copy(unsafe.Slice((*byte)(out.UnsafePointer()), int(length)), data)
		sliceVal.Set(out)
		return nil
	}

	out := reflect.MakeSlice(ct.SliceType, int(length), int(length))
	for i := uint32(0); i < length; i++ {
		elemPtr := unsafe.Pointer(out.Index(int(i)).UnsafeAddr())
		elemPath := append(append([]string{}, path...), "["+strconv.Itoa(int(i))+"]")
		if err := d.decodeFieldFromMemory(dataAddr+i*elemSize, ct.ElemType, elemPtr, mem, elemPath); err != nil {
			return err
		}
	}
	sliceVal.Set(out)
	return nil
}

func (d *Decoder) decodeOptionFromMemory(addr uint32, ct *CompiledType, ptr unsafe.Pointer, mem Memory, path []string) error {
	slot, err := mem.ReadU32(addr)
	if err != nil {
		return err
	}

	target := reflect.NewAt(ct.GoType, ptr).Elem()
	if slot == 0 {
		target.Set(reflect.Zero(ct.GoType))
		return nil
	}

	elem := reflect.New(ct.ElemType.GoType)
	if err := d.decodeFieldFromMemory(slot, ct.ElemType, elem.UnsafePointer(), mem, path); err != nil {
		return err
	}
	target.Set(elem)
	return nil
}

func (d *Decoder) decodeEnumFromMemory(addr uint32, ct *CompiledType, ptr unsafe.Pointer, mem Memory, path []string) error {
	disc, err := readSized(mem, addr, ct.WitSize)
	if err != nil {
		return err
	}
	if disc >= uint64(len(ct.Cases)) {
		return errors.InvalidStyleField(errors.PhaseDecode, path, disc, enumName(ct))
	}

	switch {
	case ct.StringEnum():
		*(*string)(ptr) = ct.Cases[disc]
	case abi.IsSignedKind(ct.GoKind):
		if !abi.StoreInt(ptr, ct.GoKind, int64(disc)) {
			return errors.Overflow(errors.PhaseDecode, path, disc, ct.GoKind.String())
		}
	default:
		if !abi.StoreUint(ptr, ct.GoKind, disc) {
			return errors.Overflow(errors.PhaseDecode, path, disc, ct.GoKind.String())
		}
	}
	return nil
}
