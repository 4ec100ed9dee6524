package combo

import "fmt"

// Status is the outcome of the most recent parser step.
type Status int

const (
	Ok Status = iota
	Failed
)

func (s Status) String() string {
	if s == Ok {
		return "ok"
	}
	return "failed"
}

// State is threaded through every parser. It is a small value whose result
// and label stacks are persistent lists, so every copy is an independent
// snapshot: a combinator that wants to backtrack simply keeps the State it
// was given.
//
// Once Status is Failed, Input, Pos and the results are frozen.
type State struct {
	Input  Input
	Pos    Position
	Status Status
	Err    *ParseError

	results *stack[Result]
	labels  *stack[string]
}

// NewState returns the initial state for parsing in.
func NewState(in Input) State {
	return State{
		Input:  in,
		Pos:    StartPosition(),
		Status: Ok,
	}
}

func (s State) Ok() bool     { return s.Status == Ok }
func (s State) Failed() bool { return s.Status == Failed }

// Fatal reports whether s failed with an unrecoverable error.
func (s State) Fatal() bool {
	return s.Status == Failed && s.Err != nil && s.Err.Fatal
}

// Push returns s with v pushed as the newest result.
func (s State) Push(v any) State {
	return s.PushResult(Value(v))
}

func (s State) PushResult(r Result) State {
	s.results = s.results.push(r)
	return s
}

// Advance returns s moved past consumed input.
func (s State) Advance(in Input, pos Position) State {
	s.Input = in
	s.Pos = pos
	return s
}

// Fail returns s failed with a recoverable error at its current position.
func (s State) Fail(msg string) State {
	return s.failWith(&ParseError{Message: msg, Pos: s.Pos})
}

func (s State) Failf(format string, args ...any) State {
	return s.Fail(fmt.Sprintf(format, args...))
}

// FailFatal returns s failed with an error no backtracking combinator will
// recover from.
func (s State) FailFatal(msg string) State {
	return s.failWith(&ParseError{Message: msg, Fatal: true, Pos: s.Pos})
}

func (s State) failWith(err *ParseError) State {
	s.Status = Failed
	s.Err = err
	return s
}

// Results returns the visible results in the order they were produced,
// with every Ignored marker removed, including those nested in lists.
func (s State) Results() []any {
	out := make([]any, 0, s.results.len())
	for _, r := range s.results.slice() {
		if v, ok := strip(r); ok {
			out = append(out, v)
		}
	}
	return out
}

// Labels returns the names attached by Label, oldest first.
func (s State) Labels() []string {
	return s.labels.slice()
}

func (s State) pushLabel(name string) State {
	s.labels = s.labels.push(name)
	return s
}

// pushedSince returns the results pushed on top of base's, oldest first.
func (s State) pushedSince(base State) []Result {
	n := s.results.len() - base.results.len()
	if n <= 0 {
		return nil
	}
	return s.results.top(n)
}

// resultsOf returns s with base's result stack, dropping everything pushed
// since. Labels are kept.
func (s State) resultsOf(base State) State {
	n := s.results.len() - base.results.len()
	if n > 0 {
		s.results = s.results.drop(n)
	}
	return s
}

// topValue returns the newest result if one was pushed since base.
func (s State) topValue(base State) (Result, bool) {
	if s.results.len() <= base.results.len() {
		return Result{}, false
	}
	return s.results.head, true
}

// replaceTop swaps the newest result for r.
func (s State) replaceTop(r Result) State {
	s.results = s.results.tail.push(r)
	return s
}
