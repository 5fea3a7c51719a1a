package types

import (
	"reflect"
)

type CompiledType struct {
	GoType    reflect.Type
	SliceType reflect.Type
	ElemType  *CompiledType
	CaseIndex map[string]uint32
	Name      string
	Cases     []string
	Fields    []Field
	GoSize    uintptr
	WitAlign  uint32
	WitSize   uint32
	GoKind    reflect.Kind
	Kind      Kind
}

type Field struct {
	Type      *CompiledType
	Name      string
	WitName   string
	GoOffset  uintptr
	WitOffset uint32
}

func (ct *CompiledType) IsPrimitive() bool {
	return ct.Kind.IsPrimitive()
}

// IsPure returns true if type contains no strings, lists or options, so it
// can be encoded without secondary allocations.
func (ct *CompiledType) IsPure() bool {
	switch ct.Kind {
	case KindString, KindList, KindOption:
		return false
	case KindRecord:
		for _, f := range ct.Fields {
			if !f.Type.IsPure() {
				return false
			}
		}
		return true
	case KindEnum:
		return true
	default:
		return ct.IsPrimitive()
	}
}

// StringEnum reports whether enum cases map to Go strings by name.
func (ct *CompiledType) StringEnum() bool {
	return ct.Kind == KindEnum && ct.GoKind == reflect.String
}
