// Package token provides leaf parsers over a token stream produced by a
// lexer, such as package lex.
//
// A token carries a category and, optionally, a position and a value.
// Matching a token moves the parse position to the position of the token
// that follows it, so errors point at the offending token.
package token

import (
	"fmt"
	"reflect"

	"github.com/dhamidi/combo"
)

type Token = combo.Token

// New returns a token with only a category.
func New(category string) Token {
	return Token{Category: category}
}

// At returns a token with a category and a position.
func At(category string, line, column int) Token {
	return Token{Category: category, Pos: &combo.Position{Line: line, Column: column}}
}

// WithValue returns a token with a category, a position and a value.
func WithValue(category string, line, column int, value any) Token {
	t := At(category, line, column)
	t.Value = value
	return t
}

// Input returns a token input over toks.
func Input(toks []Token) combo.Input {
	return combo.NewTokens(toks)
}

// Parse is combo.Parse over a token slice. The initial position is taken
// from the first token when it has one.
func Parse(toks []Token, p combo.Parser, opts ...combo.ParseOption) ([]any, error) {
	return combo.Parse(combo.NewTokens(toks), Start().Then(p), opts...)
}

// Start moves the position to that of the next token without consuming it.
func Start() combo.Parser {
	return combo.LeafOf(func(s combo.State, in combo.Tokens) combo.State {
		if t, ok := in.Peek(); ok && t.Pos != nil {
			return s.Advance(in, *t.Pos)
		}
		return s
	})
}

// Match returns a parser for a single token accepted by pred. The result is
// the token's value, or its category when it has none.
func Match(name string, pred func(Token) bool) combo.Parser {
	return combo.LeafOf(func(s combo.State, in combo.Tokens) combo.State {
		t, ok := in.Peek()
		if !ok {
			return s.Failf("Expected `%s`, but hit end of input.", name)
		}
		pos := s.Pos
		if t.Pos != nil {
			pos = *t.Pos
		}
		if !pred(t) {
			return s.Failf("Expected `%s`, but found `%s` at line %d, column %d.", name, t, pos.Line, pos.Column+1)
		}
		rest := in.Next()
		if next, ok := rest.Peek(); ok && next.Pos != nil {
			pos = *next.Pos
		}
		return s.Advance(rest, pos).Push(resultOf(t))
	})
}

// Kind matches a token of the given category.
func Kind(category string) combo.Parser {
	return Match(category, func(t Token) bool { return t.Category == category })
}

// Value matches a token of the given category carrying value.
func Value(category string, value any) combo.Parser {
	return Match(fmt.Sprintf("%s(%v)", category, value), func(t Token) bool {
		return t.Category == category && reflect.DeepEqual(t.Value, value)
	})
}

// Any matches any single token.
func Any() combo.Parser {
	return Match("any token", func(Token) bool { return true })
}

func resultOf(t Token) any {
	if t.Value != nil {
		return t.Value
	}
	return t.Category
}
