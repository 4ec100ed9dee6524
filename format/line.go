package format

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// LineEncoder writes one top-level result per line, or one "key<TAB>value"
// line per entry of a keyed result.
type LineEncoder struct {
	w      io.Writer
	result any
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(result any) error {
	e.result = result
	return write(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	switch r := e.result.(type) {
	case *Keyed:
		for pair := r.Oldest(); pair != nil; pair = pair.Next() {
			fmt.Fprintf(&sb, "%s\t%s\n", pair.Key, render(pair.Value))
		}
	case []any:
		for _, v := range r {
			sb.WriteString(render(v))
			sb.WriteByte('\n')
		}
	default:
		sb.WriteString(render(r))
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

func render(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = render(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		return "[" + strings.Join(x, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + render(x[k])
		}
		return strings.Join(parts, " ")
	case *Keyed:
		var parts []string
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			parts = append(parts, pair.Key+"="+render(pair.Value))
		}
		return strings.Join(parts, " ")
	}
	return fmt.Sprint(v)
}
