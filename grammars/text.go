package grammars

import (
	"fmt"
	"strings"
	"time"

	"github.com/dhamidi/combo"
	"github.com/dhamidi/combo/text"
)

// DateFields parses an ISO 8601 calendar date (YYYY-MM-DD) into a list of
// three ints labeled year, month and day.
func DateFields() combo.Parser {
	return combo.Sequence(
		combo.Label(text.FixedInteger(4), "year"),
		combo.Ignore(text.Char('-')),
		combo.Label(text.FixedInteger(2), "month"),
		combo.Ignore(text.Char('-')),
		combo.Label(text.FixedInteger(2), "day"),
	)
}

// Date parses YYYY-MM-DD into a time.Time in UTC, rejecting dates that do
// not exist.
func Date() combo.Parser {
	return combo.TryMap(DateFields(), func(v any) (any, error) {
		f := v.([]any)
		y, m, d := f[0].(int), f[1].(int), f[2].(int)
		t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
		if t.Year() != y || int(t.Month()) != m || t.Day() != d {
			return nil, fmt.Errorf("invalid date %04d-%02d-%02d", y, m, d)
		}
		return t, nil
	})
}

// commit runs p and turns its failure into a fatal error: once a grammar
// has seen enough to know what it is parsing, alternatives must not hide
// the real problem.
func commit(p combo.Parser, what string) combo.Parser {
	return combo.Either(p, combo.Leaf(func(s combo.State) combo.State {
		return s.FailFatal(fmt.Sprintf("Expected `%s` at line %d, column %d.", what, s.Pos.Line, s.Pos.Column+1))
	}))
}

func lexeme(p combo.Parser) combo.Parser {
	return combo.PairLeft(p, combo.Skip(text.Spaces()))
}

// Config parses a key/value configuration file:
//
//	# comment
//	name = "combo"
//	port = 8080
//	debug = true
//
// The result is a list of [key, value] pairs in file order. Values are
// strings, ints or bools.
func Config() combo.Parser {
	key := lexeme(text.Regex(`[A-Za-z_][A-Za-z0-9_.-]*`))
	str := combo.Between(
		text.Char('"'),
		combo.Map(text.Regex(`(?:[^"\\\n]|\\.)*`), func(v any) any { return unescape(v.(string)) }),
		commit(text.Char('"'), `"`),
	)
	boolean := combo.Map(text.Regex(`(?:true|false)\b`), func(v any) any { return v.(string) == "true" })
	value := lexeme(combo.Choice(str, boolean, text.Integer()))

	entry := combo.Sequence(
		key,
		combo.Ignore(commit(lexeme(text.Char('=')), "=")),
		commit(value, "value"),
		combo.Skip(text.Regex(`#[^\n]*`)),
		combo.Ignore(commit(combo.Either(text.Newline(), combo.Lookahead(combo.EOF())), "end of line")),
	)
	item := combo.Choice(
		combo.Ignore(text.Newline()),
		combo.Ignore(text.Regex(`#[^\n]*`)),
		combo.Ignore(text.Spaces()),
		entry,
	)
	return combo.PairLeft(combo.Many(item), combo.EOF())
}

func unescape(s string) string {
	r := strings.NewReplacer(`\"`, `"`, `\\`, `\`, `\n`, "\n", `\t`, "\t")
	return r.Replace(s)
}

// CSV parses comma-separated records. Fields may be double-quoted, with ""
// standing for a literal quote. The result is a list of records, each a
// list of strings.
func CSV() combo.Parser {
	quoted := combo.Map(
		combo.Between(
			text.Char('"'),
			combo.Many(combo.Either(
				combo.Map(text.String(`""`), func(any) any { return `"` }),
				text.Class(`not "`, func(r rune) bool { return r != '"' }),
			)),
			commit(text.Char('"'), `"`),
		),
		func(v any) any { return joinStrings(v.([]any)) },
	)
	bare := text.TakeWhile(func(r rune) bool { return r != ',' && r != '\n' && r != '\r' && r != '"' })
	field := combo.Either(quoted, bare)
	record := combo.SepBy1(field, combo.Ignore(text.Char(',')))
	line := combo.IfNot(combo.EOF(), combo.PairLeft(record, combo.Either(combo.Ignore(text.Newline()), combo.EOF())))
	return combo.PairLeft(combo.Many(line), combo.EOF())
}

func joinStrings(vs []any) string {
	var b strings.Builder
	for _, v := range vs {
		b.WriteString(v.(string))
	}
	return b.String()
}

// Arith parses and evaluates integer arithmetic with + - * / and
// parentheses, with the usual precedence. Division by zero is fatal.
func Arith() combo.Parser {
	var expr combo.Parser
	ws := combo.Skip(text.Spaces())
	number := lexeme(text.Integer())
	factor := combo.Choice(
		number,
		combo.Between(
			lexeme(text.Char('(')),
			combo.Lazy(func() combo.Parser { return expr }),
			commit(lexeme(text.Char(')')), ")"),
		),
	)
	term := combo.ChainLeft(factor, combo.Map(lexeme(text.CharIn("*/")), operator))
	expr = combo.ChainLeft(term, combo.Map(lexeme(text.CharIn("+-")), operator))
	return combo.Between(ws, expr, combo.EOF())
}

func operator(v any) any {
	switch v.(string) {
	case "+":
		return combo.BinaryOp(func(l, r any) (any, error) { return l.(int) + r.(int), nil })
	case "-":
		return combo.BinaryOp(func(l, r any) (any, error) { return l.(int) - r.(int), nil })
	case "*":
		return combo.BinaryOp(func(l, r any) (any, error) { return l.(int) * r.(int), nil })
	default:
		return combo.BinaryOp(func(l, r any) (any, error) {
			if r.(int) == 0 {
				return nil, combo.FatalErrorf("division by zero")
			}
			return l.(int) / r.(int), nil
		})
	}
}
