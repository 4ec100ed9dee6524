// Package combo is a parser-combinator library.
//
// Parsers are built by composing small parsers with plain functions. There
// is no grammar compiler and no generated code.
//
// # Overview
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Parser    │────▶│   Driver    │
//	│ text/bits/  │     │ State→State │     │ results or  │
//	│  tokens     │     │             │     │   error     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// A Parser is a function from State to State. The State holds the remaining
// input, the current Position, a stack of results, a stack of labels and
// the status of the last step. Leaf parsers (packages text, binary and
// token) inspect the input directly; combinators call other parsers and
// decide what to do with the State they return.
//
// # Results
//
// Every successful leaf pushes one result. Combinators that aggregate, such
// as Sequence, Many or Pipe, pop what their sub-parsers pushed and push a
// single value in its place. Ignore replaces a result with the Ignored
// marker: input is consumed but nothing reaches the caller.
//
//	p := combo.Sequence(
//	    text.Integer(),
//	    combo.Ignore(text.Char('-')),
//	    text.Integer(),
//	)
//	res, err := combo.Parse(text.Input("12-34"), p)
//	// res == []any{[]any{12, 34}}
//
// # Backtracking
//
// States are values and their stacks are persistent, so Either, Choice and
// Option backtrack by running the next alternative on the State they were
// given. A failed alternative leaves nothing behind. Errors created with
// Fatal (or FatalErrorf) are never recovered from.
//
// # Errors
//
// Failures are values, not panics. The driver turns a failed terminal state
// into a *ParseError whose message has the form
//
//	Expected `u`, but found `s` at line 1, column 2.
//
// # Chaining
//
// p.Then(q) runs q after p and keeps both results. Every combinator is a
// no-op on a failed State, so prev.Then(Many(x)) is the "combinator with a
// predecessor" form.
package combo
