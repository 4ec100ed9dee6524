package combo

import "fmt"

// step runs p on s and returns the resulting state with p's results taken
// off the stack, together with their collapsed form.
func step(p Parser, s State) (State, Result) {
	next := p(s)
	if next.Failed() {
		return next, Ignored
	}
	return next.resultsOf(s), collapse(next.pushedSince(s))
}

func appendResult(vals []any, r Result) []any {
	if r.IsIgnored() {
		return vals
	}
	return append(vals, r.Get())
}

// Pipe runs parsers in order and passes their visible results to f. The
// value f returns is the only result pushed.
func Pipe(parsers []Parser, f func([]any) any) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		cur := s
		vals := []any{}
		for _, p := range parsers {
			next, r := step(p, cur)
			if next.Failed() {
				return next
			}
			vals = appendResult(vals, r)
			cur = next
		}
		return cur.Push(f(vals))
	}
}

// Sequence runs parsers in order and pushes their visible results as one
// list.
func Sequence(parsers ...Parser) Parser {
	return Pipe(parsers, func(vs []any) any { return vs })
}

// Both is Pipe over two parsers.
func Both(p1, p2 Parser, f func([]any) any) Parser {
	return Pipe([]Parser{p1, p2}, f)
}

// Times runs p exactly n times and pushes the list of results.
func Times(p Parser, n int) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		cur := s
		vals := []any{}
		for i := 0; i < n; i++ {
			next, r := step(p, cur)
			if next.Failed() {
				return next
			}
			vals = appendResult(vals, r)
			cur = next
		}
		return cur.Push(vals)
	}
}

// Many1 runs p until it fails and pushes the list of results. At least one
// run must succeed. The failed final attempt leaves no trace.
//
// p must consume input whenever it succeeds, otherwise Many1 never returns.
func Many1(p Parser) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		cur, r := step(p, s)
		if cur.Failed() {
			return cur
		}
		vals := appendResult([]any{}, r)
		for {
			next, r := step(p, cur)
			if next.Fatal() {
				return next
			}
			if next.Failed() {
				break
			}
			vals = appendResult(vals, r)
			cur = next
		}
		return cur.Push(vals)
	}
}

// Many is Many1 that accepts zero matches, yielding an empty list.
func Many(p Parser) Parser {
	return orEmpty(Many1(p))
}

// SkipMany consumes zero or more p without producing a result.
func SkipMany(p Parser) Parser {
	return Ignore(Many(p))
}

// SkipMany1 consumes one or more p without producing a result.
func SkipMany1(p Parser) Parser {
	return Ignore(Many1(p))
}

// SepBy1 parses one or more p separated by sep and pushes the list of p's
// results.
func SepBy1(p, sep Parser) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		cur, r := step(p, s)
		if cur.Failed() {
			return cur
		}
		vals := appendResult([]any{}, r)
		for {
			afterSep, _ := step(sep, cur)
			if afterSep.Fatal() {
				return afterSep
			}
			if afterSep.Failed() {
				break
			}
			next, r := step(p, afterSep)
			if next.Fatal() {
				return next
			}
			if next.Failed() {
				break
			}
			vals = appendResult(vals, r)
			cur = next
		}
		return cur.Push(vals)
	}
}

// SepBy is SepBy1 that accepts zero matches.
func SepBy(p, sep Parser) Parser {
	return orEmpty(SepBy1(p, sep))
}

func orEmpty(p Parser) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		next := p(s)
		if next.Ok() || next.Fatal() {
			return next
		}
		return s.Push([]any{})
	}
}

// PairLeft runs p1 then p2 and keeps p1's result. If p1 was ignored the
// pair is ignored too.
func PairLeft(p1, p2 Parser) Parser {
	return pair(p1, p2, func(l, r Result) Result { return l })
}

// PairRight runs p1 then p2 and keeps p2's result.
func PairRight(p1, p2 Parser) Parser {
	return pair(p1, p2, func(l, r Result) Result { return r })
}

// PairBoth runs p1 then p2 and keeps both results as a list. Ignored sides
// are left out; when both are ignored so is the pair.
func PairBoth(p1, p2 Parser) Parser {
	return pair(p1, p2, func(l, r Result) Result {
		vals := appendResult(appendResult([]any{}, l), r)
		if len(vals) == 0 {
			return Ignored
		}
		return Value(vals)
	})
}

// Between parses left, p and right and keeps p's result.
func Between(left, p, right Parser) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		afterLeft, _ := step(left, s)
		if afterLeft.Failed() {
			return afterLeft
		}
		afterP, r := step(p, afterLeft)
		if afterP.Failed() {
			return afterP
		}
		afterRight, _ := step(right, afterP)
		if afterRight.Failed() {
			return afterRight
		}
		return afterRight.PushResult(r)
	}
}

func pair(p1, p2 Parser, pick func(l, r Result) Result) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		afterLeft, l := step(p1, s)
		if afterLeft.Failed() {
			return afterLeft
		}
		afterRight, r := step(p2, afterLeft)
		if afterRight.Failed() {
			return afterRight
		}
		return afterRight.PushResult(pick(l, r))
	}
}

// BinaryOp combines two operands. It is the result an operator parser
// given to ChainLeft must produce.
type BinaryOp func(left, right any) (any, error)

// ChainLeft parses one or more p separated by op and folds the operands
// left to right with the BinaryOp each op produced.
func ChainLeft(p, op Parser) Parser {
	return func(s State) State {
		if s.Failed() {
			return s
		}
		cur, r := step(p, s)
		if cur.Failed() {
			return cur
		}
		acc := r.Get()
		for {
			afterOp, opResult := step(op, cur)
			if afterOp.Fatal() {
				return afterOp
			}
			if afterOp.Failed() {
				break
			}
			fn, ok := opResult.Get().(BinaryOp)
			if !ok {
				return cur.FailFatal(fmt.Sprintf("ChainLeft: operator parser produced %T, not a BinaryOp", opResult.Get()))
			}
			next, r := step(p, afterOp)
			if next.Fatal() {
				return next
			}
			if next.Failed() {
				break
			}
			v, err := fn(acc, r.Get())
			if err != nil {
				return failFromError(cur, err)
			}
			acc = v
			cur = next
		}
		return cur.Push(acc)
	}
}
