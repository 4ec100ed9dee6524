package text

import (
	"fmt"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/dhamidi/combo"
)

// Regex matches pattern at the start of the remaining input and yields the
// matched text. The pattern uses .NET/Perl syntax (lookarounds and
// backreferences are allowed). It panics if pattern does not compile, like
// regexp.MustCompile.
func Regex(pattern string) combo.Parser {
	re := regexp2.MustCompile(`\A(?:`+pattern+`)`, regexp2.None)
	name := fmt.Sprintf("/%s/", pattern)
	return leaf(func(s combo.State, in combo.Text) combo.State {
		m, err := re.FindStringMatch(in.String())
		if err != nil {
			return s.Failf("Expected `%s` at line %d, column %d: %v.", name, s.Pos.Line, s.Pos.Column+1, err)
		}
		if m == nil {
			return notFound(s, in, name)
		}
		// regexp2 matches runes and sees invalid bytes as U+FFFD, so the
		// byte length is found by walking the input itself
		str := in.String()
		n := 0
		for i := 0; i < m.Length; i++ {
			r, size := utf8.DecodeRuneInString(str[n:])
			if r == utf8.RuneError && size <= 1 {
				return invalidUTF8(s.Advance(in.Skip(n), s.Pos.AdvanceText(str[:n])), str[n])
			}
			n += size
		}
		return consume(s, in, n, str[:n])
	})
}
