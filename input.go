package combo

import (
	"fmt"
	"unicode/utf8"
)

// Medium identifies the kind of data an Input holds.
type Medium int

const (
	MediumText Medium = iota
	MediumBinary
	MediumTokens
)

func (m Medium) String() string {
	switch m {
	case MediumText:
		return "text"
	case MediumBinary:
		return "binary"
	case MediumTokens:
		return "tokens"
	default:
		return fmt.Sprintf("Medium(%d)", int(m))
	}
}

// Input is the remaining, unconsumed data of a parse. The set of
// implementations is closed: Text, Bits and Tokens.
//
// Inputs are values. Consuming from an Input returns a new Input and leaves
// the original untouched, which is what makes backtracking free.
type Input interface {
	// Len reports the number of remaining units.
	Len() int
	// AtEnd reports whether all input has been consumed.
	AtEnd() bool
	Medium() Medium

	sealed()
}

// Text is UTF-8 text addressed by codepoint.
type Text struct {
	s string
}

func NewText(s string) Text {
	return Text{s: s}
}

func (t Text) Len() int       { return utf8.RuneCountInString(t.s) }
func (t Text) AtEnd() bool    { return len(t.s) == 0 }
func (t Text) Medium() Medium { return MediumText }
func (t Text) String() string { return t.s }
func (Text) sealed()          {}

// Skip drops the first n bytes.
func (t Text) Skip(n int) Text {
	return Text{s: t.s[n:]}
}

// Bits is a bitstring. Offsets are in bits; integers are read most
// significant bit first.
type Bits struct {
	data []byte
	off  int
	end  int
}

func NewBits(b []byte) Bits {
	return Bits{data: b, end: len(b) * 8}
}

func (b Bits) Len() int       { return b.end - b.off }
func (b Bits) AtEnd() bool    { return b.off >= b.end }
func (b Bits) Medium() Medium { return MediumBinary }
func (Bits) sealed()          {}

// Offset returns the number of bits consumed so far.
func (b Bits) Offset() int { return b.off }

// Aligned reports whether the read offset sits on a byte boundary.
func (b Bits) Aligned() bool { return b.off%8 == 0 }

// Uint reads n bits (at most 64) as an unsigned big-endian integer.
func (b Bits) Uint(n int) (uint64, Bits, bool) {
	if n < 0 || n > 64 || n > b.Len() {
		return 0, b, false
	}
	var v uint64
	i := 0
	if b.Aligned() {
		for ; i+8 <= n; i += 8 {
			v = v<<8 | uint64(b.data[(b.off+i)/8])
		}
	}
	for ; i < n; i++ {
		pos := b.off + i
		bit := (b.data[pos/8] >> (7 - uint(pos%8))) & 1
		v = v<<1 | uint64(bit)
	}
	b.off += n
	return v, b, true
}

// Bytes reads n whole bytes starting at the current bit offset.
func (b Bits) Bytes(n int) ([]byte, Bits, bool) {
	if n < 0 || n*8 > b.Len() {
		return nil, b, false
	}
	out := make([]byte, n)
	if b.Aligned() {
		copy(out, b.data[b.off/8:b.off/8+n])
		b.off += n * 8
		return out, b, true
	}
	for i := range out {
		var v uint64
		v, b, _ = b.Uint(8)
		out[i] = byte(v)
	}
	return out, b, true
}

// Token is one element of a lexer's output. Pos and Value are optional,
// giving the (category), (category, position) and (category, position,
// value) shapes.
type Token struct {
	Category string
	Pos      *Position
	Value    any
}

func (t Token) String() string {
	switch {
	case t.Value != nil:
		return fmt.Sprintf("%s(%v)", t.Category, t.Value)
	default:
		return t.Category
	}
}

// Tokens is a pre-tokenized input.
type Tokens struct {
	toks []Token
}

func NewTokens(toks []Token) Tokens {
	return Tokens{toks: toks}
}

func (t Tokens) Len() int       { return len(t.toks) }
func (t Tokens) AtEnd() bool    { return len(t.toks) == 0 }
func (t Tokens) Medium() Medium { return MediumTokens }
func (Tokens) sealed()          {}

// Peek returns the next token without consuming it.
func (t Tokens) Peek() (Token, bool) {
	if len(t.toks) == 0 {
		return Token{}, false
	}
	return t.toks[0], true
}

// Next drops the first token.
func (t Tokens) Next() Tokens {
	if len(t.toks) == 0 {
		return t
	}
	return Tokens{toks: t.toks[1:]}
}
