package wasm

import (
	"github.com/tetratelabs/wazero/api"
)

// EncodeULEB128 encodes v as unsigned LEB128.
func EncodeULEB128(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

// ValType returns the binary encoding of a wazero value type.
func ValType(t api.ValueType) byte {
	switch t {
	case api.ValueTypeI64:
		return 0x7e
	case api.ValueTypeF32:
		return 0x7d
	case api.ValueTypeF64:
		return 0x7c
	default:
		return 0x7f
	}
}

func appendName(buf []byte, s string) []byte {
	buf = append(buf, EncodeULEB128(uint32(len(s)))...)
	return append(buf, s...)
}

func appendSection(bin []byte, id byte, body []byte) []byte {
	bin = append(bin, id)
	bin = append(bin, EncodeULEB128(uint32(len(body)))...)
	return append(bin, body...)
}
