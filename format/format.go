// Package format renders parse results for humans and tools. Results are
// what combo.Parse returns ([]any) or what combo.ParseKeyed returns (an
// ordered map); encoders keep list and key order.
package format

import (
	"encoding"
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(result any) error
}

var encoders = map[string]func(io.Writer) Encoder{
	"json": func(w io.Writer) Encoder { return NewJSONEncoder(w) },
	"yaml": func(w io.Writer) Encoder { return NewYAMLEncoder(w) },
	"line": func(w io.Writer) Encoder { return NewLineEncoder(w) },
}

// New returns the encoder registered under name.
func New(name string, w io.Writer) (Encoder, error) {
	mk, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names())
	}
	return mk(w), nil
}

func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Keyed = orderedmap.OrderedMap[string, any]

// normalize prepares a result for the structured encoders: byte strings
// become hex and nested keyed results are normalized in place of the
// original.
func normalize(v any) any {
	switch x := v.(type) {
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case *Keyed:
		out := orderedmap.New[string, any]()
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, normalize(pair.Value))
		}
		return out
	}
	return v
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
