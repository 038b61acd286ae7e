package manifest

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

var errUnterminated = errors.New("unterminated string")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokOpen
	tokClose
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokString:
		return "string"
	case tokOpen:
		return "'{'"
	case tokClose:
		return "'}'"
	default:
		return "token(" + strconv.Itoa(int(k)) + ")"
	}
}

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

// lexer splits key-value text into tokens. Positions are 1-based.
type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	src = strings.TrimPrefix(src, "\ufeff")
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) advance() byte {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// skip consumes whitespace, line comments and conditional tags.
func (l *lexer) skip() {
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && strings.HasPrefix(l.src[l.pos:], "//"):
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance()
			}
		case ch == '[':
			end := strings.IndexByte(l.src[l.pos:], ']')
			if end < 0 {
				return
			}
			for i := 0; i <= end; i++ {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skip()
	tok := token{line: l.line, col: l.col}
	if l.pos >= len(l.src) {
		tok.kind = tokEOF
		return tok, nil
	}

	switch ch := l.src[l.pos]; ch {
	case '{':
		l.advance()
		tok.kind = tokOpen
		return tok, nil
	case '}':
		l.advance()
		tok.kind = tokClose
		return tok, nil
	case '"':
		l.advance()
		text, err := l.quoted()
		if err != nil {
			return tok, &SyntaxError{Line: tok.line, Col: tok.col, Reason: err.Error()}
		}
		tok.kind = tokString
		tok.text = text
		return tok, nil
	default:
		tok.kind = tokString
		tok.text = l.bare()
		return tok, nil
	}
}

// quoted reads up to the closing quote, resolving the escapes Valve's
// reader understands.
func (l *lexer) quoted() (string, error) {
	var b strings.Builder
	for l.pos < len(l.src) {
		ch := l.advance()
		switch ch {
		case '"':
			return b.String(), nil
		case '\\':
			if l.pos >= len(l.src) {
				return "", errUnterminated
			}
			esc := l.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"', '\\', '\'', '?':
				b.WriteByte(esc)
			default:
				// Windows paths in older manifests carry raw backslashes.
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
		default:
			b.WriteByte(ch)
		}
	}
	return "", errUnterminated
}

func (l *lexer) bare() string {
	start := l.pos
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '{' || ch == '}' || ch == '"' {
			break
		}
		l.advance()
	}
	return l.src[start:l.pos]
}
