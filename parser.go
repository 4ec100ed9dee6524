package combo

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("combo")

// Parser is a function from State to State. Parsers are pure: running one
// twice on the same State yields the same result, which is what allows
// combinators to backtrack by re-running alternatives on a saved State.
type Parser func(State) State

// Then returns a parser that runs p and then next on p's result. It is the
// predecessor form of every combinator: prev.Then(Many(x)) is "Many with
// predecessor prev". Results of both stay on the stack.
func (p Parser) Then(next Parser) Parser {
	return func(s State) State {
		if s = p(s); s.Failed() {
			return s
		}
		return next(s)
	}
}

// Chain runs parsers one after another, leaving each parser's results on
// the stack.
func Chain(parsers ...Parser) Parser {
	return func(s State) State {
		for _, p := range parsers {
			if s = p(s); s.Failed() {
				return s
			}
		}
		return s
	}
}

// Leaf adapts a matcher to the leaf contract: it is never invoked on a
// failed state.
func Leaf(f func(State) State) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		return f(s)
	}
}

// LeafOf is Leaf for matchers tied to one medium. Running it against any
// other medium is a grammar bug and fails fatally.
func LeafOf[T Input](f func(State, T) State) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		in, ok := s.Input.(T)
		if !ok {
			var want T
			return s.FailFatal(fmt.Sprintf("%v: expected %s input, but found %s", ErrMediumMismatch, want.Medium(), s.Input.Medium()))
		}
		return f(s, in)
	}
}

// Lazy defers building a parser until it first runs. Recursive grammars
// need it because Go evaluates combinator arguments eagerly.
func Lazy(build func() Parser) Parser {
	var (
		once sync.Once
		p    Parser
	)
	return func(s State) State {
		once.Do(func() { p = build() })
		return p(s)
	}
}

// Map applies f to the single result of p.
func Map(p Parser, f func(any) any) Parser {
	return TryMap(p, func(v any) (any, error) { return f(v), nil })
}

// TryMap is Map for transforms that can reject a value. A returned error
// fails the parse with err.Error() as message; errors built with
// FatalErrorf fail it fatally.
func TryMap(p Parser, f func(any) (any, error)) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		next := p(s)
		if next.Failed() {
			return next
		}
		r, ok := next.topValue(s)
		if !ok || r.IsIgnored() {
			return next
		}
		v, err := f(r.Get())
		if err != nil {
			return failFromError(next, err)
		}
		return next.replaceTop(Value(v))
	}
}

// Bind runs p, removes its result and continues with the parser f builds
// from that result. Formats whose layout depends on values read earlier,
// such as length-prefixed tables, need it. f receives nil when p produced
// no visible result.
func Bind(p Parser, f func(any) Parser) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		next := p(s)
		if next.Failed() {
			return next
		}
		r := collapse(next.pushedSince(s))
		return f(r.Get())(next.resultsOf(s))
	}
}

// Pure succeeds without consuming input and pushes v.
func Pure(v any) Parser {
	return Leaf(func(s State) State { return s.Push(v) })
}

func failFromError(s State, err error) State {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Fatal {
		return s.FailFatal(pe.Message)
	}
	return s.Fail(err.Error())
}

// Ignore runs p and hides what it produced. Input is still consumed.
func Ignore(p Parser) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		next := p(s)
		if next.Failed() {
			return next
		}
		if len(next.pushedSince(s)) == 0 {
			return next
		}
		return next.resultsOf(s).PushResult(Ignored)
	}
}

// Either tries p1 and then p2, each on the original state.
func Either(p1, p2 Parser) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		s1 := p1(s)
		if s1.Ok() || s1.Fatal() {
			return s1
		}
		s2 := p2(s)
		if s2.Ok() || s2.Fatal() {
			return s2
		}
		return s.Fail(fmt.Sprintf("%s, or: %s", s1.Err.Message, s2.Err.Message))
	}
}

// Choice returns the result of the first parser that succeeds on the
// original state.
func Choice(parsers ...Parser) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		for _, p := range parsers {
			next := p(s)
			if next.Ok() || next.Fatal() {
				return next
			}
		}
		return s.Failf("Expected at least one parser to succeed at line %d, column %d.", s.Pos.Line, s.Pos.Column)
	}
}

// Option runs p and, if it fails recoverably, pushes nil without consuming
// anything.
func Option(p Parser) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		next := p(s)
		if next.Ok() || next.Fatal() {
			return next
		}
		return s.Push(nil)
	}
}

// Skip is an optional p whose result is ignored.
func Skip(p Parser) Parser {
	return Ignore(Option(p))
}

// Satisfy fails unless pred accepts the result of p. The reported position
// is where p started.
func Satisfy(p Parser, pred func(any) bool) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		next := p(s)
		if next.Failed() {
			return next
		}
		r, _ := next.topValue(s)
		if !pred(r.Get()) {
			return s.Failf("Could not satisfy predicate for %s at line %d, column %d", inspect(r.Get()), s.Pos.Line, s.Pos.Column)
		}
		return next
	}
}

// OneOf fails unless the result of p equals one of items.
func OneOf(p Parser, items ...any) Parser {
	return member(p, items, true)
}

// NoneOf fails if the result of p equals one of items.
func NoneOf(p Parser, items ...any) Parser {
	return member(p, items, false)
}

func member(p Parser, items []any, want bool) Parser {
	kind := "one"
	if !want {
		kind = "none"
	}
	return func(s State) State {
		if s.Failed() {
			return s
		}
		next := p(s)
		if next.Failed() {
			return next
		}
		r, _ := next.topValue(s)
		if contains(items, r.Get()) != want {
			return s.Failf("Expected %s of [%s], but found `%v`, at line %d, column %d", kind, joinItems(items), r.Get(), s.Pos.Line, s.Pos.Column)
		}
		return next
	}
}

// Label names p. A failure of p is reported as "Expected `name`"; a
// success records name for ParseKeyed. Fatal errors keep their message.
func Label(p Parser, name string) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		next := p(s)
		if next.Fatal() {
			return next
		}
		if next.Failed() {
			return next.failWith(&ParseError{
				Message: fmt.Sprintf("Expected `%s` at line %d, column %d.", name, next.Pos.Line, next.Pos.Column+1),
				Pos:     next.Pos,
			})
		}
		return next.pushLabel(name)
	}
}

// FollowedBy runs p and then checks, without consuming, that lookahead
// matches what comes next.
func FollowedBy(p, lookahead Parser) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		next := p(s)
		if next.Failed() {
			return next
		}
		if la := lookahead(next); la.Failed() {
			return next.failWith(&ParseError{Message: la.Err.Message, Fatal: la.Err.Fatal, Pos: next.Pos})
		}
		return next
	}
}

// Lookahead succeeds without consuming input or producing a result when p
// would succeed.
func Lookahead(p Parser) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		if next := p(s); next.Failed() {
			return s.failWith(next.Err)
		}
		return s
	}
}

// IfNot runs p only if predicate fails on the current state.
func IfNot(predicate, p Parser) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		t := predicate(s)
		if t.Fatal() {
			return t
		}
		if t.Ok() {
			return s.Failf("Expected `if_not` predicate to fail at line %d, column %d.", s.Pos.Line, s.Pos.Column+1)
		}
		return p(s)
	}
}

// Zero always fails.
func Zero() Parser {
	return Leaf(func(s State) State {
		return s.Failf("Zero parser failed at line %d, column %d.", s.Pos.Line, s.Pos.Column+1)
	})
}

// Fail always fails with msg.
func Fail(msg string) Parser {
	return Leaf(func(s State) State { return s.Fail(msg) })
}

// Fatal always fails with msg, and nothing may recover from it.
func Fatal(msg string) Parser {
	return Leaf(func(s State) State { return s.FailFatal(msg) })
}

// EOF succeeds only when all input has been consumed.
func EOF() Parser {
	return Leaf(func(s State) State {
		if s.Input.AtEnd() {
			return s
		}
		return s.Failf("Expected end of input at line %d, column %d.", s.Pos.Line, s.Pos.Column+1)
	})
}

// Trace logs entry into and exit from p at debug level.
func Trace(p Parser, name string) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		log.Debugf("%s: enter at %s", name, s.Pos)
		next := p(s)
		if next.Failed() {
			log.Debugf("%s: failed at %s: %s", name, next.Pos, next.Err.Message)
		} else {
			log.Debugf("%s: matched %s-%s", name, s.Pos, next.Pos)
		}
		return next
	}
}
