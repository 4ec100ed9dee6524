package combo

import "fmt"

// Position is a location in the input being parsed.
//
// Line is 1-based. Column counts the units consumed since the last line
// break: codepoints for text, bits or bytes for binary input (whichever
// unit the consuming matcher works in) and whatever the lexer supplied for
// token streams.
type Position struct {
	Line   int
	Column int
}

// StartPosition is the position of every fresh parse.
func StartPosition() Position {
	return Position{Line: 1, Column: 0}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// AdvanceText returns the position after consuming s. A "\r\n" pair counts
// as a single line break.
func (p Position) AdvanceText(s string) Position {
	for _, r := range s {
		if r == '\n' {
			p.Line++
			p.Column = 0
			continue
		}
		p.Column++
	}
	return p
}

// AdvanceColumns returns the position n units further along the current line.
func (p Position) AdvanceColumns(n int) Position {
	p.Column += n
	return p
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}
