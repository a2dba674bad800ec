package style

import (
	"sort"
	"strings"

	"github.com/go-drift/weft/pkg/errors"
)

// Sheet is a parsed stylesheet.
type Sheet struct {
	Name  string
	Rules []Rule
}

// Rule is one selector group with its declarations.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
	Line, Column int
}

// Declaration is a single "property: value" pair.
type Declaration struct {
	Property     string
	Value        string
	Line, Column int
}

// Parse reads a stylesheet. Malformed rules and declarations are skipped and
// reported; the returned sheet holds everything that parsed.
func Parse(name, text string) (*Sheet, []*errors.StyleParseError) {
	p := &parser{name: name, src: stripComments(text)}
	p.lines = lineStarts(p.src)
	sheet := &Sheet{Name: name}
	if off := unterminatedComment(text); off >= 0 {
		p.errorAt(off, "unterminated comment", "/*")
	}
	p.parse(sheet)
	return sheet, p.errs
}

type parser struct {
	name  string
	src   string
	lines []int
	errs  []*errors.StyleParseError
}

func (p *parser) parse(sheet *Sheet) {
	pos := 0
	for {
		pos = skipSpace(p.src, pos)
		if pos >= len(p.src) {
			return
		}
		if p.src[pos] == '}' {
			p.errorAt(pos, "unexpected '}'", "}")
			pos++
			continue
		}
		open := strings.IndexByte(p.src[pos:], '{')
		stray := strings.IndexByte(p.src[pos:], '}')
		if open < 0 {
			p.errorAt(pos, "expected '{' after selector", snippet(p.src[pos:]))
			return
		}
		if stray >= 0 && stray < open {
			p.errorAt(pos, "expected '{' after selector", snippet(p.src[pos:pos+stray]))
			pos += stray + 1
			continue
		}
		open += pos
		end := strings.IndexByte(p.src[open:], '}')
		var body string
		next := len(p.src)
		if end < 0 {
			p.errorAt(open, "unterminated block", snippet(p.src[pos:]))
			body = p.src[open+1:]
		} else {
			body = p.src[open+1 : open+end]
			next = open + end + 1
		}

		selText := p.src[pos:open]
		sels, err := ParseSelectorList(selText)
		if err != nil {
			p.errorAt(pos, err.Error(), snippet(selText))
			pos = next
			continue
		}
		line, col := p.position(pos)
		rule := Rule{Selectors: sels, Line: line, Column: col}
		rule.Declarations = p.declarations(body, open+1)
		sheet.Rules = append(sheet.Rules, rule)
		pos = next
	}
}

func (p *parser) declarations(body string, base int) []Declaration {
	var out []Declaration
	start, depth := 0, 0
	flush := func(end int) {
		raw := body[start:end]
		off := base + start + (len(raw) - len(strings.TrimLeft(raw, " \t\r\n\f")))
		text := strings.TrimSpace(raw)
		if text == "" {
			return
		}
		colon := strings.IndexByte(text, ':')
		if colon < 0 {
			p.errorAt(off, "expected ':' in declaration", text)
			return
		}
		name := strings.ToLower(strings.TrimSpace(text[:colon]))
		value := strings.TrimSpace(text[colon+1:])
		if name == "" || ident(name) != name {
			p.errorAt(off, "invalid property name", text)
			return
		}
		if value == "" {
			p.errorAt(off, "missing value", text)
			return
		}
		line, col := p.position(off)
		out = append(out, Declaration{Property: name, Value: value, Line: line, Column: col})
	}
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ';':
			if depth <= 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(body))
	return out
}

func (p *parser) position(off int) (line, col int) {
	i := sort.Search(len(p.lines), func(i int) bool { return p.lines[i] > off }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, off - p.lines[i] + 1
}

func (p *parser) errorAt(off int, msg, snip string) {
	line, col := p.position(off)
	p.errs = append(p.errs, &errors.StyleParseError{
		Source:  p.name,
		Line:    line,
		Column:  col,
		Snippet: snip,
		Msg:     msg,
	})
}

// stripComments blanks out /* */ comments, keeping newlines so offsets and
// line numbers are unchanged.
func stripComments(s string) string {
	b := []byte(s)
	for i := 0; i+1 < len(b); i++ {
		if b[i] != '/' || b[i+1] != '*' {
			continue
		}
		j := i
		for ; j < len(b); j++ {
			if j > i+1 && b[j-1] == '*' && b[j] == '/' {
				break
			}
		}
		end := min(j, len(b)-1)
		for k := i; k <= end; k++ {
			if b[k] != '\n' {
				b[k] = ' '
			}
		}
		i = end
	}
	return string(b)
}

// unterminatedComment returns the offset of a "/*" that is never closed, or -1.
func unterminatedComment(s string) int {
	base := 0
	for {
		i := strings.Index(s[base:], "/*")
		if i < 0 {
			return -1
		}
		open := base + i
		j := strings.Index(s[open+2:], "*/")
		if j < 0 {
			return open
		}
		base = open + 2 + j + 2
	}
}

func lineStarts(s string) []int {
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}
