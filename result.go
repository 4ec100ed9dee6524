package combo

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Result is a value produced by a parser: either Value(v) or Ignored.
// Ignored marks a parser that succeeded but contributes nothing to the
// output; it never reaches callers of Parse.
type Result struct {
	value   any
	ignored bool
}

// Ignored is the result of a parser wrapped with Ignore.
var Ignored = Result{ignored: true}

func Value(v any) Result {
	return Result{value: v}
}

func (r Result) IsIgnored() bool { return r.ignored }

// Get returns the wrapped value, or nil for Ignored.
func (r Result) Get() any {
	if r.ignored {
		return nil
	}
	return r.value
}

// values drops Ignored results and unwraps the rest.
func values(rs []Result) []any {
	out := make([]any, 0, len(rs))
	for _, r := range rs {
		if r.ignored {
			continue
		}
		out = append(out, r.value)
	}
	return out
}

// collapse reduces everything one sub-parser pushed to a single Result:
// Ignored when nothing visible was pushed, the value itself when exactly
// one was, and a list otherwise.
func collapse(rs []Result) Result {
	vs := values(rs)
	switch len(vs) {
	case 0:
		return Ignored
	case 1:
		return Value(vs[0])
	default:
		return Value(vs)
	}
}

// strip removes Ignored from v, descending into lists and unwrapping any
// Result a transform function returned as a plain value.
func strip(v any) (any, bool) {
	switch x := v.(type) {
	case Result:
		if x.ignored {
			return nil, false
		}
		return strip(x.value)
	case []any:
		out := make([]any, 0, len(x))
		for _, e := range x {
			if sv, ok := strip(e); ok {
				out = append(out, sv)
			}
		}
		return out, true
	default:
		return v, true
	}
}

// stack is a persistent LIFO list. Pushing shares the tail, so a State
// copied before an attempt keeps seeing its own stack.
type stack[T any] struct {
	head T
	tail *stack[T]
	size int
}

func (s *stack[T]) len() int {
	if s == nil {
		return 0
	}
	return s.size
}

func (s *stack[T]) push(v T) *stack[T] {
	return &stack[T]{head: v, tail: s, size: s.len() + 1}
}

// top returns the n most recent elements in push order. n must not exceed
// the stack length.
func (s *stack[T]) top(n int) []T {
	out := make([]T, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = s.head
		s = s.tail
	}
	return out
}

// drop removes the n most recent elements.
func (s *stack[T]) drop(n int) *stack[T] {
	for ; n > 0; n-- {
		s = s.tail
	}
	return s
}

// slice returns every element, oldest first.
func (s *stack[T]) slice() []T {
	return s.top(s.len())
}

// inspect renders a value for error messages, quoting strings.
func inspect(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func contains(items []any, v any) bool {
	for _, it := range items {
		if reflect.DeepEqual(it, v) {
			return true
		}
	}
	return false
}

func joinItems(items []any) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprint(it)
	}
	return strings.Join(parts, ", ")
}
