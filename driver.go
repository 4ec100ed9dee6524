package combo

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/text/encoding"
)

// Tokenizer turns raw file contents into a token stream.
type Tokenizer func(data []byte) ([]Token, error)

type options struct {
	logger    commonlog.Logger
	medium    Medium
	encoding  encoding.Encoding
	tokenizer Tokenizer
}

type ParseOption func(*options)

// WithLogger sets the logger used for debug output of a parse.
func WithLogger(l commonlog.Logger) ParseOption {
	return func(o *options) {
		o.logger = l
	}
}

// WithMedium selects how ParseFile interprets the file. The default is
// MediumText. MediumTokens requires WithTokenizer.
func WithMedium(m Medium) ParseOption {
	return func(o *options) {
		o.medium = m
	}
}

// WithEncoding makes ParseFile transcode text files from enc to UTF-8.
func WithEncoding(enc encoding.Encoding) ParseOption {
	return func(o *options) {
		o.encoding = enc
	}
}

// WithTokenizer makes ParseFile lex the file with t and parse the tokens.
func WithTokenizer(t Tokenizer) ParseOption {
	return func(o *options) {
		o.tokenizer = t
		o.medium = MediumTokens
	}
}

func newOptions(opts []ParseOption) *options {
	o := &options{
		logger: log,
		medium: MediumText,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Parse runs p over in and returns its results in the order they were
// produced. Ignored results never appear, at any depth.
func Parse(in Input, p Parser, opts ...ParseOption) ([]any, error) {
	s, err := run(in, p, newOptions(opts))
	if err != nil {
		return nil, err
	}
	return s.Results(), nil
}

// ParseKeyed is Parse with results keyed by the names given to Label, in
// the order the labels were attached. Labels pair up with the top-level
// results or, when the top level is a single list, with its elements. Any
// other shape is reported as ErrLabelMismatch rather than guessed at.
func ParseKeyed(in Input, p Parser, opts ...ParseOption) (*orderedmap.OrderedMap[string, any], error) {
	s, err := run(in, p, newOptions(opts))
	if err != nil {
		return nil, err
	}
	return zipLabels(s.Labels(), s.Results())
}

// ParseFile reads the whole file at path and parses it. Failing to obtain
// the input yields a *ReadError and p is never run.
func ParseFile(path string, p Parser, opts ...ParseOption) ([]any, error) {
	o := newOptions(opts)
	in, err := readInput(path, o)
	if err != nil {
		return nil, err
	}
	s, err := run(in, p, o)
	if err != nil {
		return nil, err
	}
	return s.Results(), nil
}

// ParseFileKeyed is ParseFile with keyed results, see ParseKeyed.
func ParseFileKeyed(path string, p Parser, opts ...ParseOption) (*orderedmap.OrderedMap[string, any], error) {
	o := newOptions(opts)
	in, err := readInput(path, o)
	if err != nil {
		return nil, err
	}
	s, err := run(in, p, o)
	if err != nil {
		return nil, err
	}
	return zipLabels(s.Labels(), s.Results())
}

func readInput(path string, o *options) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	switch o.medium {
	case MediumBinary:
		return NewBits(data), nil
	case MediumTokens:
		if o.tokenizer == nil {
			return nil, &ReadError{Path: path, Err: fmt.Errorf("token medium needs a tokenizer")}
		}
		toks, err := o.tokenizer(data)
		if err != nil {
			return nil, &ReadError{Path: path, Err: fmt.Errorf("tokenize: %w", err)}
		}
		return NewTokens(toks), nil
	default:
		if o.encoding != nil {
			data, err = o.encoding.NewDecoder().Bytes(data)
			if err != nil {
				return nil, &ReadError{Path: path, Err: fmt.Errorf("decode: %w", err)}
			}
		}
		return NewText(string(data)), nil
	}
}

func run(in Input, p Parser, o *options) (State, error) {
	o.logger.Debugf("parsing %d units of %s input", in.Len(), in.Medium())
	s := p(NewState(in))
	if s.Failed() {
		o.logger.Debugf("parse failed at %s: %s", s.Err.Pos, s.Err.Message)
		return s, s.Err
	}
	o.logger.Debugf("parse finished at %s", s.Pos)
	return s, nil
}

func zipLabels(labels []string, results []any) (*orderedmap.OrderedMap[string, any], error) {
	vals := results
	if len(labels) != len(vals) && len(vals) == 1 {
		if nested, ok := vals[0].([]any); ok && len(nested) == len(labels) {
			vals = nested
		}
	}
	if len(labels) != len(vals) {
		return nil, fmt.Errorf("%w: %d labels, %d results", ErrLabelMismatch, len(labels), len(vals))
	}
	m := orderedmap.New[string, any]()
	for i, name := range labels {
		if _, dup := m.Set(name, vals[i]); dup {
			return nil, fmt.Errorf("%w: label %q used twice", ErrLabelMismatch, name)
		}
	}
	return m, nil
}
