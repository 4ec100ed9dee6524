// Package grammars holds ready-made grammars built from the combo
// combinators, and a registry the command line tools look them up in.
package grammars

import (
	"sort"

	"github.com/dhamidi/combo"
	"github.com/dhamidi/combo/classfile"
)

// Grammar is a named parser together with the medium it reads.
type Grammar struct {
	Name        string
	Description string
	Medium      combo.Medium
	// Keyed grammars label every top-level value, so combo.ParseKeyed
	// works on them.
	Keyed  bool
	Parser func() combo.Parser
}

var registry = map[string]Grammar{}

// Register adds g to the registry, replacing any grammar of the same name.
func Register(g Grammar) {
	registry[g.Name] = g
}

// Lookup returns the grammar registered under name.
func Lookup(name string) (Grammar, bool) {
	g, ok := registry[name]
	return g, ok
}

// Names returns the registered grammar names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(Grammar{Name: "date", Description: "ISO 8601 calendar date, as year/month/day", Medium: combo.MediumText, Keyed: true, Parser: DateFields})
	Register(Grammar{Name: "config", Description: "key = value configuration file", Medium: combo.MediumText, Parser: Config})
	Register(Grammar{Name: "csv", Description: "comma-separated records", Medium: combo.MediumText, Parser: CSV})
	Register(Grammar{Name: "arith", Description: "integer arithmetic, evaluated", Medium: combo.MediumText, Parser: Arith})
	Register(Grammar{Name: "tzif", Description: "RFC 8536 time zone file header counts", Medium: combo.MediumBinary, Keyed: true, Parser: TZifHeader})
	Register(Grammar{Name: "classfile", Description: "JVM class file header", Medium: combo.MediumBinary, Parser: classfileHeader})
}

func classfileHeader() combo.Parser {
	return combo.Map(classfile.HeaderParser(), func(v any) any { return v.(*classfile.Header).Summary() })
}
