package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrZeroPlaceholder       = errors.New("placeholder $0 is not allowed")
	ErrPlaceholderOutOfRange = errors.New("placeholder out of range")
)

// maxPlaceholder is the highest $n PostgreSQL accepts.
const maxPlaceholder = 65535

// placeholder is one parameter occurrence in statement text.
type placeholder struct {
	position int // -1 for named placeholders
	name     string
	cast     string
}

func (p placeholder) selectorText() string {
	if p.position >= 0 {
		return "$" + strconv.Itoa(p.position+1)
	}
	return ":" + p.name
}

// lexer splits statement text into literal strings and placeholders. Quoted
// strings, quoted identifiers, dollar-quoted bodies and comments are copied
// through untouched.
type lexer struct {
	src   string
	start int
	pos   int
	parts []any

	// trailingComment is set when the text ends inside a -- comment.
	trailingComment bool
	err             error
}

type stateFn func(*lexer) stateFn

func lex(src string) (*lexer, error) {
	l := &lexer{src: src}
	for state := textState; state != nil; {
		state = state(l)
	}
	if l.err != nil {
		return nil, l.err
	}
	return l, nil
}

func (l *lexer) emitText(end int) {
	if end > l.start {
		l.parts = append(l.parts, l.src[l.start:end])
	}
	l.start = end
}

func (l *lexer) peek(offset int) byte {
	if i := l.pos + offset; i >= 0 && i < len(l.src) {
		return l.src[i]
	}
	return 0
}

func textState(l *lexer) stateFn {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\'' && l.escapeString():
			l.pos++
			return escapedQuotedState
		case c == '\'' || c == '"':
			l.pos++
			return quotedState(c)
		case c == '-' && l.peek(1) == '-':
			l.pos += 2
			return lineCommentState
		case c == '/' && l.peek(1) == '*':
			l.pos += 2
			return blockCommentState
		case c == '$' && isIdentPart(l.peek(-1)):
			// $ inside an identifier such as a$1
			l.pos++
		case c == '$' && isDigit(l.peek(1)):
			l.emitText(l.pos)
			l.pos++
			return positionalState
		case c == '$':
			if tag, ok := l.dollarTag(); ok {
				l.pos += len(tag)
				return dollarQuotedState(tag)
			}
			l.pos++
		case c == ':' && l.peek(1) == ':':
			l.pos += 2
		case c == ':' && isIdentStart(l.peek(1)):
			l.emitText(l.pos)
			l.pos++
			return namedState
		default:
			l.pos++
		}
	}
	l.emitText(l.pos)
	return nil
}

func quotedState(quote byte) stateFn {
	return func(l *lexer) stateFn {
		if i := strings.IndexByte(l.src[l.pos:], quote); i >= 0 {
			l.pos += i + 1
		} else {
			l.pos = len(l.src)
		}
		return textState
	}
}

// escapeString reports whether the quote at l.pos opens an E'...' string.
func (l *lexer) escapeString() bool {
	prev := l.peek(-1)
	return (prev == 'E' || prev == 'e') && !isIdentPart(l.peek(-2))
}

// escapedQuotedState skips an E'...' string, where a backslash escapes the
// next byte and '' is a quote.
func escapedQuotedState(l *lexer) stateFn {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
		case '\'':
			if l.peek(1) == '\'' {
				l.pos += 2
				continue
			}
			l.pos++
			return textState
		default:
			l.pos++
		}
	}
	l.pos = len(l.src)
	return textState
}

func lineCommentState(l *lexer) stateFn {
	if i := strings.IndexByte(l.src[l.pos:], '\n'); i >= 0 {
		l.pos += i + 1
	} else {
		l.pos = len(l.src)
		l.trailingComment = true
	}
	return textState
}

func blockCommentState(l *lexer) stateFn {
	if i := strings.Index(l.src[l.pos:], "*/"); i >= 0 {
		l.pos += i + 2
	} else {
		l.pos = len(l.src)
	}
	return textState
}

// dollarTag reports the $tag$ opening a dollar-quoted string at l.pos.
func (l *lexer) dollarTag() (string, bool) {
	rest := l.src[l.pos+1:]
	end := strings.IndexByte(rest, '$')
	if end < 0 {
		return "", false
	}
	tag := rest[:end]
	if tag != "" && !isIdentStart(tag[0]) {
		return "", false
	}
	for i := 0; i < len(tag); i++ {
		if !isIdentPart(tag[i]) || tag[i] == '$' {
			return "", false
		}
	}
	return "$" + tag + "$", true
}

func dollarQuotedState(tag string) stateFn {
	return func(l *lexer) stateFn {
		if i := strings.Index(l.src[l.pos:], tag); i >= 0 {
			l.pos += i + len(tag)
		} else {
			l.pos = len(l.src)
		}
		return textState
	}
}

func positionalState(l *lexer) stateFn {
	begin := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	text := l.src[begin:l.pos]
	n, err := strconv.Atoi(text)
	if err != nil || n > maxPlaceholder {
		l.err = fmt.Errorf("%w: $%s exceeds $%d", ErrPlaceholderOutOfRange, text, maxPlaceholder)
		return nil
	}
	if n == 0 {
		l.err = ErrZeroPlaceholder
		return nil
	}
	l.parts = append(l.parts, placeholder{position: n - 1, cast: l.castAt(l.pos)})
	l.start = l.pos
	return textState
}

func namedState(l *lexer) stateFn {
	begin := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) && l.src[l.pos] != '$' {
		l.pos++
	}
	l.parts = append(l.parts, placeholder{
		position: -1,
		name:     l.src[begin:l.pos],
		cast:     l.castAt(l.pos),
	})
	l.start = l.pos
	return textState
}

// castAt returns the lower-cased type of a ::type cast starting at i, without
// precision. Array casts yield "". The cast itself stays in the statement text.
func (l *lexer) castAt(i int) string {
	if !strings.HasPrefix(l.src[i:], "::") {
		return ""
	}
	i += 2
	begin := i
	for i < len(l.src) && (isIdentPart(l.src[i]) || l.src[i] == '.') && l.src[i] != '$' {
		i++
	}
	typ := strings.ToLower(l.src[begin:i])
	if j := strings.IndexByte(l.src[i:], ')'); j >= 0 && i < len(l.src) && l.src[i] == '(' {
		i += j + 1
	}
	if i < len(l.src) && l.src[i] == '[' {
		// arrays are not checked
		return ""
	}
	return typ
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '$'
}
