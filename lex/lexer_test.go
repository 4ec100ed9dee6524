package lex

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/combo"
	"github.com/dhamidi/combo/token"
)

const arithGrammar = `
Expr   = Number { Op Number } .
Number = digit { digit } .
Op     = "+" | "-" | "->" .
Ident  = letter { letter | digit } .
Space  = " " | "\n" .
digit  = "0" … "9" .
letter = "a" … "z" .
`

func grammar(t *testing.T) ebnf.Grammar {
	t.Helper()
	g, err := ParseGrammar("arith.ebnf", strings.NewReader(arithGrammar))
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	return g
}

func TestTokenKinds(t *testing.T) {
	got := strings.Join(TokenKinds(grammar(t)), " ")
	if want := "Expr Ident Number Op Space"; got != want {
		t.Errorf("TokenKinds = %q, want %q", got, want)
	}
}

func TestTokenize(t *testing.T) {
	l := NewLexer(grammar(t), []byte("x1 ->\n42"), "Space")
	tokens, err := l.Tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	want := "1:1 Ident \"x1\"\n1:4 Op \"->\"\n2:1 Expr \"42\"\n"
	if got := Describe(tokens); got != want {
		t.Errorf("tokens:\n%s\nwant:\n%s", got, want)
	}
	if pos := l.Position(); pos.Line != 2 || pos.Column != 2 {
		t.Errorf("lexer ended at %s, want 2:2", pos)
	}
}

func TestLongestMatchWins(t *testing.T) {
	tokens, err := NewLexer(grammar(t), []byte("1+2")).Tokenize()
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	// Expr and Number both match "1"; Expr matches all of "1+2"
	if len(tokens) != 1 || tokens[0].Category != "Expr" || tokens[0].Value != "1+2" {
		t.Errorf("tokens = %v, want a single Expr", tokens)
	}
}

func TestZeroLengthRepetitionAndOption(t *testing.T) {
	g, err := ParseGrammar("number.ebnf", strings.NewReader(`
Number = digit { digit } [ "." digit { digit } ] .
Ident  = letter { letter } .
Space  = " " .
digit  = "0" … "9" .
letter = "a" … "z" .
`))
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single digit", "7", "1:1 Number \"7\"\n"},
		{"single letter", "a", "1:1 Ident \"a\"\n"},
		{"fraction present", "3.14", "1:1 Number \"3.14\"\n"},
		{"fraction absent", "12 x", "1:1 Number \"12\"\n1:4 Ident \"x\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewLexer(g, []byte(tt.input), "Space").Tokenize()
			if err != nil {
				t.Fatalf("tokenize %q: %v", tt.input, err)
			}
			if got := Describe(tokens); got != tt.want {
				t.Errorf("tokens:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}

	// a dangling "." leaves the option unmatched
	tokens, err := NewLexer(g, []byte("3."), "Space").Tokenize()
	if want := `no token matches "." at line 1, column 2`; err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
	if got := Describe(tokens); got != "1:1 Number \"3\"\n" {
		t.Errorf("tokens before the error = %q", got)
	}
}

func TestTokenizeError(t *testing.T) {
	tokens, err := NewLexer(grammar(t), []byte("ab ?"), "Space").Tokenize()

	var lexErr *Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("error = %v, want *lex.Error", err)
	}
	if lexErr.Literal != "?" || lexErr.Pos != (combo.Position{Line: 1, Column: 3}) {
		t.Errorf("error = %+v", lexErr)
	}
	if want := `no token matches "?" at line 1, column 4`; err.Error() != want {
		t.Errorf("error = %q, want %q", err, want)
	}
	if len(tokens) != 1 {
		t.Errorf("tokens before the error = %v, want one", tokens)
	}
}

func TestTokenizerFeedsTokenParsers(t *testing.T) {
	tokenize := Tokenizer(grammar(t), "Space")
	toks, err := tokenize([]byte("a b c"))
	if err != nil {
		t.Fatal(err)
	}

	got, err := token.Parse(toks, combo.SepBy(token.Kind("Ident"), combo.Zero()))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || len(got[0].([]any)) != 1 {
		t.Fatalf("results = %v", got)
	}

	_, err = token.Parse(toks, combo.Chain(token.Kind("Ident"), token.Kind("Number")))
	if want := "Expected `Number`, but found `Ident(b)` at line 1, column 3."; err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}

func TestVerify(t *testing.T) {
	g := grammar(t)
	if err := Verify(g, "Expr"); err == nil {
		t.Error("Verify accepted a grammar with unreachable productions")
	}

	small, err := ParseGrammar("small.ebnf", strings.NewReader(`Number = digit { digit } .
digit = "0" … "9" .`))
	if err != nil {
		t.Fatal(err)
	}
	if err := Verify(small, "Number"); err != nil {
		t.Errorf("Verify: %v", err)
	}
}
