// Package classfile parses the header of a JVM class file: magic, version,
// constant pool, access flags, this/super class and interfaces. It is
// written entirely with the binary combinators.
package classfile

import (
	"fmt"

	"github.com/dhamidi/combo"
	"github.com/dhamidi/combo/binary"
)

// Header is everything in a class file before the fields table.
type Header struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
}

func (h *Header) ClassName() string {
	return h.ConstantPool.GetClassName(h.ThisClass)
}

func (h *Header) SuperClassName() string {
	if h.SuperClass == 0 {
		return ""
	}
	return h.ConstantPool.GetClassName(h.SuperClass)
}

func (h *Header) InterfaceNames() []string {
	names := make([]string, len(h.Interfaces))
	for i, idx := range h.Interfaces {
		names[i] = h.ConstantPool.GetClassName(idx)
	}
	return names
}

func (h *Header) IsClass() bool {
	return !h.AccessFlags.IsInterface() && !h.AccessFlags.IsModule()
}

func (h *Header) IsInterface() bool {
	return h.AccessFlags.IsInterface() && !h.AccessFlags.IsAnnotation()
}

// Summary is a plain view of h for encoding.
func (h *Header) Summary() map[string]any {
	return map[string]any{
		"version":      fmt.Sprintf("%d.%d", h.MajorVersion, h.MinorVersion),
		"class":        h.ClassName(),
		"super":        h.SuperClassName(),
		"interfaces":   h.InterfaceNames(),
		"access_flags": h.AccessFlags.Names(),
		"constants":    len(h.ConstantPool),
	}
}

// Parse parses the header at the start of data.
func Parse(data []byte) (*Header, error) {
	res, err := binary.Parse(data, HeaderParser())
	if err != nil {
		return nil, err
	}
	return res[0].(*Header), nil
}

// ParseFile reads path and parses its header.
func ParseFile(path string) (*Header, error) {
	res, err := combo.ParseFile(path, HeaderParser(), combo.WithMedium(combo.MediumBinary))
	if err != nil {
		return nil, err
	}
	return res[0].(*Header), nil
}

// HeaderParser returns a parser yielding a *Header. A wrong magic number
// and unknown constant pool tags are fatal.
func HeaderParser() combo.Parser {
	return combo.Pipe([]combo.Parser{
		magic(),
		u2(),
		u2(),
		constantPool(),
		combo.Map(u2(), func(v any) any { return AccessFlags(v.(uint16)) }),
		u2(),
		u2(),
		interfaces(),
	}, func(vs []any) any {
		return &Header{
			MinorVersion: vs[0].(uint16),
			MajorVersion: vs[1].(uint16),
			ConstantPool: vs[2].(ConstantPool),
			AccessFlags:  vs[3].(AccessFlags),
			ThisClass:    vs[4].(uint16),
			SuperClass:   vs[5].(uint16),
			Interfaces:   toU2s(vs[6].([]any)),
		}
	})
}

func magic() combo.Parser {
	return combo.LeafOf(func(s combo.State, in combo.Bits) combo.State {
		v, rest, ok := in.Uint(32)
		if !ok {
			return s.FailFatal("Expected `0xCAFEBABE`, but hit end of input.")
		}
		if v != Magic {
			return s.FailFatal(fmt.Sprintf("Expected `0xCAFEBABE`, but found `0x%08X` at line %d, column %d.", v, s.Pos.Line, s.Pos.Column+1))
		}
		return s.Advance(rest, s.Pos.AdvanceColumns(32))
	})
}

func u1() combo.Parser {
	return combo.Map(binary.Uint(8, binary.BigEndian), func(v any) any { return uint8(v.(uint64)) })
}

func u2() combo.Parser {
	return combo.Map(binary.Uint(16, binary.BigEndian), func(v any) any { return uint16(v.(uint64)) })
}

func u4() combo.Parser {
	return combo.Map(binary.Uint(32, binary.BigEndian), func(v any) any { return uint32(v.(uint64)) })
}

func toU2s(vs []any) []uint16 {
	out := make([]uint16, len(vs))
	for i, v := range vs {
		out[i] = v.(uint16)
	}
	return out
}

func interfaces() combo.Parser {
	return combo.Bind(u2(), func(n any) combo.Parser {
		return combo.Times(u2(), int(n.(uint16)))
	})
}

// constantPool reads constant_pool_count and then count-1 slots of entries.
func constantPool() combo.Parser {
	return combo.Bind(u2(), func(n any) combo.Parser {
		count := int(n.(uint16))
		if count == 0 {
			return combo.Fatal("constant_pool_count must be at least 1")
		}
		return entries(count-1, ConstantPool{})
	})
}

func entries(remaining int, pool ConstantPool) combo.Parser {
	if remaining <= 0 {
		return combo.Pure(pool)
	}
	return combo.Bind(constant(), func(v any) combo.Parser {
		e := v.(ConstantPoolEntry)
		next := append(pool[:len(pool):len(pool)], e)
		remaining--
		if e.Tag().Wide() && remaining > 0 {
			next = append(next, nil)
			remaining--
		}
		return entries(remaining, next)
	})
}

func constant() combo.Parser {
	return combo.Bind(u1(), func(v any) combo.Parser {
		tag := ConstantTag(v.(uint8))
		switch tag {
		case ConstantUtf8:
			return combo.Map(
				combo.Bind(u2(), func(n any) combo.Parser { return binary.Bytes(int(n.(uint16))) }),
				func(b any) any { return &ConstantUtf8Info{Value: decodeModifiedUTF8(b.([]byte))} },
			)
		case ConstantInteger:
			return combo.Map(u4(), func(v any) any { return &ConstantIntegerInfo{Value: int32(v.(uint32))} })
		case ConstantFloat:
			return combo.Map(binary.Float(32, binary.BigEndian), func(v any) any { return &ConstantFloatInfo{Value: float32(v.(float64))} })
		case ConstantLong:
			return combo.Map(binary.Int(64, binary.BigEndian), func(v any) any { return &ConstantLongInfo{Value: v.(int64)} })
		case ConstantDouble:
			return combo.Map(binary.Float(64, binary.BigEndian), func(v any) any { return &ConstantDoubleInfo{Value: v.(float64)} })
		case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
			return combo.Map(u2(), func(v any) any { return &ConstantNameInfo{Kind: tag, Index: v.(uint16)} })
		case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref, ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
			return combo.Pipe([]combo.Parser{u2(), u2()}, func(vs []any) any {
				return &ConstantRefInfo{Kind: tag, First: vs[0].(uint16), Second: vs[1].(uint16)}
			})
		case ConstantMethodHandle:
			return combo.Pipe([]combo.Parser{u1(), u2()}, func(vs []any) any {
				return &ConstantMethodHandleInfo{ReferenceKind: MethodHandleKind(vs[0].(uint8)), ReferenceIndex: vs[1].(uint16)}
			})
		}
		return combo.Fatal(fmt.Sprintf("unknown constant pool tag %d", uint8(tag)))
	})
}

// decodeModifiedUTF8 decodes the JVM's modified UTF-8: NUL is encoded in
// two bytes and supplementary characters as surrogate pairs.
func decodeModifiedUTF8(b []byte) string {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			runes = append(runes, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			i += 3
			if 0xD800 <= r && r <= 0xDBFF && i+2 < len(b) && b[i] == 0xED {
				lo := rune(b[i]&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
				if 0xDC00 <= lo && lo <= 0xDFFF {
					r = 0x10000 + (r-0xD800)<<10 + (lo - 0xDC00)
					i += 3
				}
			}
			runes = append(runes, r)
		default:
			runes = append(runes, rune(c))
			i++
		}
	}
	return string(runes)
}
