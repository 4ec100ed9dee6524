package combo_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/combo"
	"github.com/dhamidi/combo/text"
)

var (
	a     = text.Char('a')
	b     = text.Char('b')
	comma = text.Char(',')
)

func TestSequenceCombinators(t *testing.T) {
	sum := func(vs []any) any {
		total := 0
		for _, v := range vs {
			total += v.(int)
		}
		return total
	}

	tests := []struct {
		name  string
		input string
		p     combo.Parser
		want  []any
	}{
		{"sequence", "ab", combo.Sequence(a, b), []any{[]any{"a", "b"}}},
		{"sequence drops ignored", "a,b", combo.Sequence(a, combo.Ignore(comma), b), []any{[]any{"a", "b"}}},
		{"pipe", "1,2", combo.Pipe([]combo.Parser{text.Integer(), combo.Ignore(comma), text.Integer()}, sum), []any{3}},
		{"both", "ab", combo.Both(a, b, func(vs []any) any { return vs[1].(string) + vs[0].(string) }), []any{"ba"}},
		{"times", "aaab", combo.Times(a, 3), []any{[]any{"a", "a", "a"}}},
		{"times zero", "b", combo.Times(a, 0), []any{[]any{}}},
		{"many none", "b", combo.Many(a), []any{[]any{}}},
		{"many stops before mismatch", "aab", combo.Many(a).Then(b), []any{[]any{"a", "a"}, "b"}},
		{"many1", "abc", combo.Many1(text.AnyChar()), []any{[]any{"a", "b", "c"}}},
		{"skip many", "aaab", combo.SkipMany(a).Then(b), []any{"b"}},
		{"skip many1", "ab", combo.SkipMany1(a).Then(b), []any{"b"}},
		{"sep by", "1,2,3", combo.SepBy(text.Integer(), comma), []any{[]any{1, 2, 3}}},
		{"sep by empty", "", combo.SepBy(text.Integer(), comma), []any{[]any{}}},
		{"sep by trailing separator", "1,2,", combo.SepBy1(text.Integer(), comma).Then(comma), []any{[]any{1, 2}, ","}},
		{"pair left", "ab", combo.PairLeft(a, b), []any{"a"}},
		{"pair right", "ab", combo.PairRight(a, b), []any{"b"}},
		{"pair both", "ab", combo.PairBoth(a, b), []any{[]any{"a", "b"}}},
		{"pair both one ignored", "ab", combo.PairBoth(combo.Ignore(a), b), []any{[]any{"b"}}},
		{"pair left ignored", "ab", combo.PairLeft(combo.Ignore(a), b), []any{}},
		{"between", "[7]", combo.Between(text.Char('['), text.Integer(), text.Char(']')), []any{7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.input, tt.p)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("results mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMany1RequiresOneMatch(t *testing.T) {
	pe := parseError(t, "", combo.Many1(text.AnyChar()))
	if want := "Expected `any character`, but hit end of input."; pe.Message != want {
		t.Errorf("error = %q, want %q", pe.Message, want)
	}
}

func TestTimesFailsShort(t *testing.T) {
	pe := parseError(t, "aab", combo.Times(a, 3))
	if want := "Expected `a`, but found `b` at line 1, column 3."; pe.Message != want {
		t.Errorf("error = %q, want %q", pe.Message, want)
	}
}

func TestIgnoreArity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		p     combo.Parser
	}{
		{"leaf", "a", a},
		{"sequence", "ab", combo.Sequence(a, b)},
		{"many", "aaa", combo.Many(a)},
		{"chain", "ab", combo.Chain(a, b)},
		{"nothing pushed", "", combo.EOF()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.input, combo.Ignore(tt.p))
			if len(got) != 0 {
				t.Errorf("Ignore left results %v, want none", got)
			}

			s := combo.Ignore(tt.p)(combo.NewState(text.Input(tt.input)))
			if !s.Input.AtEnd() {
				t.Errorf("Ignore did not consume the input")
			}
		})
	}
}

func TestPositionNeverMovesBackwards(t *testing.T) {
	steps := []combo.Parser{
		text.Word(),
		text.Spaces(),
		text.Newline(),
		text.Integer(),
		combo.Option(text.Char('x')),
		combo.Lookahead(text.AnyChar()),
		text.Whitespace(),
		text.Word(),
	}
	s := combo.NewState(text.Input("hello  \n42 \r\nbye"))
	for i, p := range steps {
		next := p(s)
		if next.Failed() {
			t.Fatalf("step %d failed: %v", i, next.Err)
		}
		if next.Pos.Before(s.Pos) {
			t.Fatalf("step %d moved from %s back to %s", i, s.Pos, next.Pos)
		}
		s = next
	}
	if want := (combo.Position{Line: 3, Column: 3}); s.Pos != want {
		t.Errorf("final position = %s, want %s", s.Pos, want)
	}
}

func TestChainLeft(t *testing.T) {
	op := func(c rune, f func(l, r int) (int, error)) combo.Parser {
		return combo.Map(text.Char(c), func(any) any {
			return combo.BinaryOp(func(l, r any) (any, error) { return f(l.(int), r.(int)) })
		})
	}
	minus := op('-', func(l, r int) (int, error) { return l - r, nil })
	div := op('/', func(l, r int) (int, error) {
		if r == 0 {
			return 0, errors.New("division by zero")
		}
		return l / r, nil
	})
	expr := combo.ChainLeft(text.Integer(), combo.Either(minus, div))

	tests := []struct {
		input string
		want  []any
	}{
		{"10", []any{10}},
		{"10-3-2", []any{5}},
		{"100/10/5", []any{2}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, mustParse(t, tt.input, expr)); diff != "" {
				t.Errorf("results mismatch (-want +got):\n%s", diff)
			}
		})
	}

	pe := parseError(t, "1/0", expr)
	if pe.Message != "division by zero" || pe.Fatal {
		t.Errorf("error = %+v, want recoverable \"division by zero\"", pe)
	}

	// a dangling operator is left unconsumed
	s := expr(combo.NewState(text.Input("7-")))
	if diff := cmp.Diff([]any{7}, s.Results()); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	if s.Pos.Column != 1 {
		t.Errorf("column = %d, want 1", s.Pos.Column)
	}

	pe = parseError(t, "1-2", combo.ChainLeft(text.Integer(), text.Char('-')))
	if !pe.Fatal {
		t.Errorf("an operator that is not a BinaryOp must fail fatally, got %+v", pe)
	}
}
