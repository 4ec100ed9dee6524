// Package lex turns text into a token stream using the lexical productions
// of an EBNF grammar. Its output feeds the parsers of package token.
package lex

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/combo"
)

// ErrorKind is the category of a token for input no production matches.
const ErrorKind = "ERROR"

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

// Lexer tokenizes input based on an EBNF grammar. Every production whose
// name starts with an uppercase letter is a token kind; the longest match
// wins and ties go to the alphabetically first kind.
type Lexer struct {
	grammar  ebnf.Grammar
	kinds    []string
	skip     map[string]bool
	input    []byte
	pos      int
	line     int
	column   int
	memo     map[memoKey]int  // key -> match length, -1 for no match
	visiting map[memoKey]bool // cycle detection
}

// NewLexer creates a lexer for the given grammar and input. Tokens of the
// kinds listed in skip are dropped by Tokenize.
func NewLexer(grammar ebnf.Grammar, input []byte, skip ...string) *Lexer {
	l := &Lexer{
		grammar:  grammar,
		kinds:    TokenKinds(grammar),
		skip:     make(map[string]bool),
		input:    input,
		line:     1,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
	for _, k := range skip {
		l.skip[k] = true
	}
	return l
}

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return ParseGrammar(filename, f)
}

// ParseGrammar reads an EBNF grammar from r.
func ParseGrammar(filename string, r io.Reader) (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return grammar, nil
}

// TokenKinds returns the token productions of grammar in sorted order.
func TokenKinds(grammar ebnf.Grammar) []string {
	var kinds []string
	for name, prod := range grammar {
		if prod.Expr == nil || name == "" || name[0] < 'A' || name[0] > 'Z' {
			continue
		}
		kinds = append(kinds, name)
	}
	sort.Strings(kinds)
	return kinds
}

// Position returns the current position in the input.
func (l *Lexer) Position() combo.Position {
	return combo.Position{Line: l.line, Column: l.column}
}

func (l *Lexer) advance(n int) {
	taken := string(l.input[l.pos : l.pos+n])
	p := combo.Position{Line: l.line, Column: l.column}.AdvanceText(taken)
	l.pos += n
	l.line, l.column = p.Line, p.Column
}

// NextToken returns the next token from the input, or io.EOF once the
// input is exhausted. Input no production matches becomes a single
// ErrorKind token holding one codepoint.
func (l *Lexer) NextToken() (combo.Token, error) {
	if l.pos >= len(l.input) {
		return combo.Token{}, io.EOF
	}

	start := l.Position()
	startOffset := l.pos

	// positions change between tokens
	l.memo = make(map[memoKey]int)

	var bestKind string
	var bestLen int
	for _, name := range l.kinds {
		l.visiting = make(map[memoKey]bool)
		matchLen, ok := l.tryMatch(l.grammar[name].Expr, startOffset)
		// a token must consume input
		if ok && matchLen > bestLen {
			bestLen = matchLen
			bestKind = name
		}
	}

	if bestLen == 0 {
		_, size := utf8.DecodeRune(l.input[l.pos:])
		literal := string(l.input[l.pos : l.pos+size])
		l.advance(size)
		return combo.Token{Category: ErrorKind, Pos: &start, Value: literal}, nil
	}

	literal := string(l.input[startOffset : startOffset+bestLen])
	l.advance(bestLen)
	return combo.Token{Category: bestKind, Pos: &start, Value: literal}, nil
}

// tryMatch attempts to match an expression at the given offset and returns
// the length of the match in bytes. A repetition or option that matches
// nothing succeeds with length 0.
func (l *Lexer) tryMatch(expr ebnf.Expression, offset int) (int, bool) {
	switch e := expr.(type) {
	case *ebnf.Token:
		return l.tryMatchToken(e.String, offset)

	case *ebnf.Range:
		return l.tryMatchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n, ok := l.tryMatch(item, offset+total)
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true

	case ebnf.Alternative:
		best, matched := 0, false
		for _, alt := range e {
			if n, ok := l.tryMatch(alt, offset); ok && (!matched || n > best) {
				best, matched = n, true
			}
		}
		return best, matched

	case *ebnf.Repetition:
		total := 0
		for {
			n, ok := l.tryMatch(e.Body, offset+total)
			if !ok || n == 0 {
				break
			}
			total += n
		}
		return total, true

	case *ebnf.Option:
		if n, ok := l.tryMatch(e.Body, offset); ok {
			return n, true
		}
		return 0, true

	case *ebnf.Group:
		return l.tryMatch(e.Body, offset)

	case *ebnf.Name:
		return l.tryMatchName(e.String, offset)

	default:
		return 0, false
	}
}

// tryMatchName matches a named production with memoization and cycle detection.
func (l *Lexer) tryMatchName(name string, offset int) (int, bool) {
	key := memoKey{name: name, offset: offset}

	if result, ok := l.memo[key]; ok {
		return max(result, 0), result >= 0
	}

	// left recursion
	if l.visiting[key] {
		return 0, false
	}

	prod, ok := l.grammar[name]
	if !ok || prod.Expr == nil {
		l.memo[key] = -1
		return 0, false
	}

	l.visiting[key] = true
	n, matched := l.tryMatch(prod.Expr, offset)
	delete(l.visiting, key)

	if matched {
		l.memo[key] = n
	} else {
		l.memo[key] = -1
	}
	return n, matched
}

func (l *Lexer) tryMatchToken(token string, offset int) (int, bool) {
	if offset+len(token) > len(l.input) {
		return 0, false
	}
	if string(l.input[offset:offset+len(token)]) == token {
		return len(token), true
	}
	return 0, false
}

// tryMatchRange matches a character range such as "a" … "z".
func (l *Lexer) tryMatchRange(begin, end string, offset int) (int, bool) {
	if offset >= len(l.input) {
		return 0, false
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	r, size := utf8.DecodeRune(l.input[offset:])
	if r == utf8.RuneError && size <= 1 {
		return 0, false
	}
	if lo <= r && r <= hi {
		return size, true
	}
	return 0, false
}

// Error reports input that no token production matches.
type Error struct {
	Pos     combo.Position
	Literal string
}

func (e *Error) Error() string {
	return fmt.Sprintf("no token matches %q at line %d, column %d", e.Literal, e.Pos.Line, e.Pos.Column+1)
}

// Tokenize reads all tokens from the input, dropping skipped kinds. It
// stops at the first ErrorKind token.
func (l *Lexer) Tokenize() ([]combo.Token, error) {
	var tokens []combo.Token
	for {
		tok, err := l.NextToken()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		if tok.Category == ErrorKind {
			return tokens, &Error{Pos: *tok.Pos, Literal: tok.Value.(string)}
		}
		if l.skip[tok.Category] {
			continue
		}
		tokens = append(tokens, tok)
	}
}

// Tokenizer returns a combo.Tokenizer lexing with grammar, for use with
// combo.WithTokenizer.
func Tokenizer(grammar ebnf.Grammar, skip ...string) combo.Tokenizer {
	return func(data []byte) ([]combo.Token, error) {
		return NewLexer(grammar, data, skip...).Tokenize()
	}
}

// Verify checks that every production reachable from start is defined.
func Verify(grammar ebnf.Grammar, start string) error {
	if err := ebnf.Verify(grammar, start); err != nil {
		return fmt.Errorf("verify grammar: %w", err)
	}
	return nil
}

// Describe renders tokens one per line, as "line:column KIND "literal"".
func Describe(tokens []combo.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		pos := combo.Position{}
		if t.Pos != nil {
			pos = *t.Pos
		}
		fmt.Fprintf(&b, "%d:%d %s %q\n", pos.Line, pos.Column+1, t.Category, t.Value)
	}
	return b.String()
}
