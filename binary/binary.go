// Package binary provides leaf parsers for raw bitstrings.
//
// Bit-oriented matchers (Bits, Uint, Int, Float) advance the column by the
// number of bits they read, byte-oriented ones (Bytes, Literal) by the
// number of bytes. Binary input has a single line.
package binary

import (
	"bytes"
	"fmt"
	"math"

	"github.com/dhamidi/combo"
)

type Endian int

const (
	BigEndian Endian = iota
	LittleEndian
)

func (e Endian) String() string {
	if e == LittleEndian {
		return "little"
	}
	return "big"
}

// Input returns a binary input over b.
func Input(b []byte) combo.Input {
	return combo.NewBits(b)
}

// Parse is combo.Parse over a byte slice.
func Parse(b []byte, p combo.Parser, opts ...combo.ParseOption) ([]any, error) {
	return combo.Parse(combo.NewBits(b), p, opts...)
}

func leaf(f func(combo.State, combo.Bits) combo.State) combo.Parser {
	return combo.LeafOf(f)
}

func hitEnd(s combo.State, want string) combo.State {
	return s.Failf("Expected `%s`, but hit end of input.", want)
}

// Bits reads n bits (at most 64) as a big-endian uint64.
func Bits(n int) combo.Parser {
	name := fmt.Sprintf("bits(%d)", n)
	return leaf(func(s combo.State, in combo.Bits) combo.State {
		v, rest, ok := in.Uint(n)
		if !ok {
			return hitEnd(s, name)
		}
		return s.Advance(rest, s.Pos.AdvanceColumns(n)).Push(v)
	})
}

// Bytes reads n bytes and yields them as a []byte.
func Bytes(n int) combo.Parser {
	name := fmt.Sprintf("bytes(%d)", n)
	return leaf(func(s combo.State, in combo.Bits) combo.State {
		b, rest, ok := in.Bytes(n)
		if !ok {
			return hitEnd(s, name)
		}
		return s.Advance(rest, s.Pos.AdvanceColumns(n)).Push(b)
	})
}

// Literal matches the exact bytes lit.
func Literal(lit []byte) combo.Parser {
	want := fmt.Sprintf("0x%X", lit)
	return leaf(func(s combo.State, in combo.Bits) combo.State {
		b, rest, ok := in.Bytes(len(lit))
		if !ok {
			return hitEnd(s, want)
		}
		if !bytes.Equal(b, lit) {
			return s.Failf("Expected `%s`, but found `0x%X` at line %d, column %d.", want, b, s.Pos.Line, s.Pos.Column+1)
		}
		return s.Advance(rest, s.Pos.AdvanceColumns(len(lit))).Push(b)
	})
}

// Uint reads an unsigned integer of size bits and yields a uint64. Little
// endian requires size to be a multiple of 8.
func Uint(size int, endian Endian) combo.Parser {
	name := fmt.Sprintf("uint(%d, %s)", size, endian)
	checkSize(size, endian)
	return leaf(func(s combo.State, in combo.Bits) combo.State {
		v, rest, ok := readUint(in, size, endian)
		if !ok {
			return hitEnd(s, name)
		}
		return s.Advance(rest, s.Pos.AdvanceColumns(size)).Push(v)
	})
}

// Int reads a two's complement signed integer of size bits and yields an
// int64.
func Int(size int, endian Endian) combo.Parser {
	name := fmt.Sprintf("int(%d, %s)", size, endian)
	checkSize(size, endian)
	return leaf(func(s combo.State, in combo.Bits) combo.State {
		v, rest, ok := readUint(in, size, endian)
		if !ok {
			return hitEnd(s, name)
		}
		return s.Advance(rest, s.Pos.AdvanceColumns(size)).Push(signExtend(v, size))
	})
}

// Float reads an IEEE 754 float of 32 or 64 bits and yields a float64.
func Float(size int, endian Endian) combo.Parser {
	if size != 32 && size != 64 {
		panic(fmt.Sprintf("binary: float size must be 32 or 64, got %d", size))
	}
	name := fmt.Sprintf("float(%d, %s)", size, endian)
	return leaf(func(s combo.State, in combo.Bits) combo.State {
		v, rest, ok := readUint(in, size, endian)
		if !ok {
			return hitEnd(s, name)
		}
		var f float64
		if size == 32 {
			f = float64(math.Float32frombits(uint32(v)))
		} else {
			f = math.Float64frombits(v)
		}
		return s.Advance(rest, s.Pos.AdvanceColumns(size)).Push(f)
	})
}

func checkSize(size int, endian Endian) {
	if size < 1 || size > 64 {
		panic(fmt.Sprintf("binary: integer size must be within 1..64, got %d", size))
	}
	if endian == LittleEndian && size%8 != 0 {
		panic(fmt.Sprintf("binary: little endian size must be a multiple of 8, got %d", size))
	}
}

func readUint(in combo.Bits, size int, endian Endian) (uint64, combo.Bits, bool) {
	v, rest, ok := in.Uint(size)
	if !ok || endian == BigEndian {
		return v, rest, ok
	}
	var le uint64
	for i := 0; i < size/8; i++ {
		le = le<<8 | (v>>(8*i))&0xFF
	}
	return le, rest, true
}

func signExtend(v uint64, size int) int64 {
	shift := 64 - uint(size)
	return int64(v<<shift) >> shift
}
