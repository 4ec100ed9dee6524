// Package text provides leaf parsers for UTF-8 text.
//
// Columns count codepoints. Error messages report the column one-based:
//
//	Expected `u`, but found `s` at line 1, column 2.
//	Expected `u`, but hit end of input.
package text

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/combo"
)

// Input returns a text input for s.
func Input(s string) combo.Input {
	return combo.NewText(s)
}

// Parse is combo.Parse over a string.
func Parse(s string, p combo.Parser, opts ...combo.ParseOption) ([]any, error) {
	return combo.Parse(combo.NewText(s), p, opts...)
}

func leaf(f func(combo.State, combo.Text) combo.State) combo.Parser {
	return combo.LeafOf(f)
}

// consume advances s past the first n bytes of in and pushes v.
func consume(s combo.State, in combo.Text, n int, v any) combo.State {
	taken := in.String()[:n]
	return s.Advance(in.Skip(n), s.Pos.AdvanceText(taken)).Push(v)
}

func expected(s combo.State, want, found string) combo.State {
	return s.Failf("Expected `%s`, but found `%s` at line %d, column %d.", want, found, s.Pos.Line, s.Pos.Column+1)
}

func hitEnd(s combo.State, want string) combo.State {
	return s.Failf("Expected `%s`, but hit end of input.", want)
}

func invalidUTF8(s combo.State, b byte) combo.State {
	return s.Failf("Expected valid UTF-8, but found byte 0x%02X at line %d, column %d.", b, s.Pos.Line, s.Pos.Column+1)
}

// decode returns the first rune of in. Malformed UTF-8 is a failure.
func decode(s combo.State, in combo.Text, want string) (rune, int, combo.State, bool) {
	if in.AtEnd() {
		return 0, 0, hitEnd(s, want), false
	}
	r, size := utf8.DecodeRuneInString(in.String())
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, invalidUTF8(s, in.String()[0]), false
	}
	return r, size, s, true
}

// Class matches a single codepoint accepted by pred. name is used in error
// messages.
func Class(name string, pred func(rune) bool) combo.Parser {
	return leaf(func(s combo.State, in combo.Text) combo.State {
		r, size, s, ok := decode(s, in, name)
		if !ok {
			return s
		}
		if !pred(r) {
			return expected(s, name, string(r))
		}
		return consume(s, in, size, string(r))
	})
}

// Char matches the codepoint c.
func Char(c rune) combo.Parser {
	return Class(string(c), func(r rune) bool { return r == c })
}

// AnyChar matches any single codepoint.
func AnyChar() combo.Parser {
	return Class("any character", func(rune) bool { return true })
}

func Letter() combo.Parser       { return Class("letter", unicode.IsLetter) }
func Upper() combo.Parser        { return Class("uppercase letter", unicode.IsUpper) }
func Lower() combo.Parser        { return Class("lowercase letter", unicode.IsLower) }
func Digit() combo.Parser        { return Class("digit", isDigit) }
func Tab() combo.Parser          { return Char('\t') }
func Space() combo.Parser        { return Class("space", func(r rune) bool { return r == ' ' || r == '\t' }) }
func Alphanumeric() combo.Parser { return Class("alphanumeric", isAlnum) }

func HexDigit() combo.Parser {
	return Class("hex digit", func(r rune) bool {
		return isDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
	})
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }
func isAlnum(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// CharIn matches any codepoint contained in chars.
func CharIn(chars string) combo.Parser {
	return Class("one of "+strconv.Quote(chars), func(r rune) bool { return strings.ContainsRune(chars, r) })
}

// Newline matches "\n" or "\r\n" and yields "\n".
func Newline() combo.Parser {
	return leaf(func(s combo.State, in combo.Text) combo.State {
		str := in.String()
		switch {
		case strings.HasPrefix(str, "\r\n"):
			return consume(s, in, 2, "\n")
		case strings.HasPrefix(str, "\n"):
			return consume(s, in, 1, "\n")
		case in.AtEnd():
			return hitEnd(s, `\n`)
		}
		r, _ := utf8.DecodeRuneInString(str)
		return expected(s, `\n`, string(r))
	})
}

// String matches lit exactly.
func String(lit string) combo.Parser {
	return leaf(func(s combo.State, in combo.Text) combo.State {
		str := in.String()
		if strings.HasPrefix(str, lit) {
			return consume(s, in, len(lit), lit)
		}
		if len(str) < len(lit) && strings.HasPrefix(lit, str) {
			return hitEnd(s, lit)
		}
		n := utf8.RuneCountInString(lit)
		found := str
		for i := range str {
			if n == 0 {
				found = str[:i]
				break
			}
			n--
		}
		return expected(s, lit, found)
	})
}

// TakeWhile consumes the longest run of codepoints accepted by pred. It
// succeeds with "" when nothing matches.
func TakeWhile(pred func(rune) bool) combo.Parser {
	return leaf(func(s combo.State, in combo.Text) combo.State {
		str := in.String()
		n := len(str)
		for i, r := range str {
			if !pred(r) {
				n = i
				break
			}
		}
		return consume(s, in, n, str[:n])
	})
}

// TakeWhile1 is TakeWhile that requires at least one codepoint.
func TakeWhile1(name string, pred func(rune) bool) combo.Parser {
	return leaf(func(s combo.State, in combo.Text) combo.State {
		r, _, s, ok := decode(s, in, name)
		if !ok {
			return s
		}
		if !pred(r) {
			return expected(s, name, string(r))
		}
		return TakeWhile(pred)(s)
	})
}

// Spaces consumes one or more spaces or tabs.
func Spaces() combo.Parser {
	return TakeWhile1("space", func(r rune) bool { return r == ' ' || r == '\t' })
}

// Whitespace consumes zero or more Unicode white space characters,
// including line breaks.
func Whitespace() combo.Parser {
	return TakeWhile(unicode.IsSpace)
}

// Word matches one or more letters or digits.
func Word() combo.Parser {
	return TakeWhile1("word", isAlnum)
}

// Integer matches an optionally signed decimal integer and yields an int.
func Integer() combo.Parser {
	return leaf(func(s combo.State, in combo.Text) combo.State {
		str := in.String()
		n := 0
		if n < len(str) && (str[n] == '-' || str[n] == '+') {
			n++
		}
		digits := n
		for n < len(str) && isDigit(rune(str[n])) {
			n++
		}
		if n == digits {
			return notFound(s, in, "integer")
		}
		v, err := strconv.Atoi(str[:n])
		if err != nil {
			return s.Failf("Expected `integer`, but found `%s` at line %d, column %d: %v.", str[:n], s.Pos.Line, s.Pos.Column+1, err)
		}
		return consume(s, in, n, v)
	})
}

// FixedInteger matches exactly n decimal digits and yields an int.
func FixedInteger(n int) combo.Parser {
	name := fmt.Sprintf("%d-digit integer", n)
	return leaf(func(s combo.State, in combo.Text) combo.State {
		str := in.String()
		for i := 0; i < n; i++ {
			if i >= len(str) {
				return hitEnd(s, name)
			}
			if !isDigit(rune(str[i])) {
				_, size := utf8.DecodeRuneInString(str[i:])
				return expected(s, name, str[:i+size])
			}
		}
		v, _ := strconv.Atoi(str[:n])
		return consume(s, in, n, v)
	})
}

// Float matches a decimal number with a fractional part and optional
// exponent, and yields a float64.
func Float() combo.Parser {
	return leaf(func(s combo.State, in combo.Text) combo.State {
		str := in.String()
		n := 0
		if n < len(str) && (str[n] == '-' || str[n] == '+') {
			n++
		}
		intStart := n
		for n < len(str) && isDigit(rune(str[n])) {
			n++
		}
		if n == intStart || n >= len(str) || str[n] != '.' {
			return notFound(s, in, "float")
		}
		n++
		fracStart := n
		for n < len(str) && isDigit(rune(str[n])) {
			n++
		}
		if n == fracStart {
			return notFound(s, in, "float")
		}
		if n < len(str) && (str[n] == 'e' || str[n] == 'E') {
			m := n + 1
			if m < len(str) && (str[m] == '-' || str[m] == '+') {
				m++
			}
			expStart := m
			for m < len(str) && isDigit(rune(str[m])) {
				m++
			}
			if m > expStart {
				n = m
			}
		}
		v, err := strconv.ParseFloat(str[:n], 64)
		if err != nil {
			return s.Failf("Expected `float`, but found `%s` at line %d, column %d: %v.", str[:n], s.Pos.Line, s.Pos.Column+1, err)
		}
		return consume(s, in, n, v)
	})
}

func notFound(s combo.State, in combo.Text, want string) combo.State {
	if in.AtEnd() {
		return hitEnd(s, want)
	}
	r, _ := utf8.DecodeRuneInString(in.String())
	return expected(s, want, string(r))
}
