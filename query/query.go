package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Konsultn-Engineering/enorm-shards/dialect"
	"github.com/Konsultn-Engineering/enorm-shards/param"
)

var (
	ErrPositionOutOfRange = errors.New("parameter position out of range")
	ErrUnknownName        = errors.New("unknown parameter name")
	ErrTypeMismatch       = errors.New("parameter type mismatch")
	ErrUnboundParameter   = errors.New("unbound parameter")
	ErrInvalidLimit       = errors.New("invalid result window")
	ErrInvalidTimeout     = errors.New("invalid query timeout")
)

type slot struct {
	value any
	kind  param.Kind
	bound bool
}

// Query is a statement bound to one shard. It accepts parameter values by
// position or name, a result window, a timeout and a comment, and renders to
// text plus arguments. A Query is not safe for concurrent use.
type Query struct {
	stmt    *Statement
	dialect dialect.Dialect

	positional []slot
	named      []slot

	maxResults  int // -1 when unset
	firstResult int
	timeout     time.Duration
	comment     string
}

// New creates a Query for stmt. A nil dialect means PostgreSQL.
func New(stmt *Statement, d dialect.Dialect) *Query {
	if d == nil {
		d = dialect.NewPostgresDialect()
	}
	return &Query{
		stmt:       stmt,
		dialect:    d,
		positional: make([]slot, stmt.positions),
		named:      make([]slot, len(stmt.names)),
		maxResults: -1,
	}
}

func (q *Query) Statement() *Statement { return q.stmt }

func (q *Query) Dialect() dialect.Dialect { return q.dialect }

func (q *Query) setPositional(index int, kind param.Kind, value any) error {
	if index < 0 || index >= len(q.positional) {
		return fmt.Errorf("%w: %d, statement has %d", ErrPositionOutOfRange, index, len(q.positional))
	}
	if cast := q.stmt.positionCasts[index]; !accepts(cast, kind) {
		return fmt.Errorf("%w: %s is %s, got %s", ErrTypeMismatch, param.Position(index), cast, kind)
	}
	q.positional[index] = slot{value: value, kind: kind, bound: true}
	return nil
}

func (q *Query) setNamed(name string, kind param.Kind, value any) error {
	i, ok := q.stmt.nameIndex[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	if cast := q.stmt.nameCasts[i]; !accepts(cast, kind) {
		return fmt.Errorf("%w: %s is %s, got %s", ErrTypeMismatch, param.Name(name), cast, kind)
	}
	q.named[i] = slot{value: value, kind: kind, bound: true}
	return nil
}

// Value returns the value bound to sel.
func (q *Query) Value(sel param.Selector) (any, bool) {
	var s slot
	switch sel := sel.(type) {
	case param.Position:
		if int(sel) < 0 || int(sel) >= len(q.positional) {
			return nil, false
		}
		s = q.positional[sel]
	case param.Name:
		i, ok := q.stmt.nameIndex[string(sel)]
		if !ok {
			return nil, false
		}
		s = q.named[i]
	}
	return s.value, s.bound
}

// SetMaxResults limits the rows returned by this query.
func (q *Query) SetMaxResults(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: max results %d", ErrInvalidLimit, n)
	}
	q.maxResults = n
	return nil
}

// MaxResults returns the row limit and whether one is set.
func (q *Query) MaxResults() (int, bool) {
	return q.maxResults, q.maxResults >= 0
}

// SetFirstResult skips the first n rows.
func (q *Query) SetFirstResult(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: first result %d", ErrInvalidLimit, n)
	}
	q.firstResult = n
	return nil
}

func (q *Query) FirstResult() int { return q.firstResult }

// SetTimeout bounds execution time. Zero disables the timeout.
func (q *Query) SetTimeout(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, d)
	}
	q.timeout = d
	return nil
}

func (q *Query) Timeout() time.Duration { return q.timeout }

// SetComment prefixes the rendered statement with a /* comment */.
func (q *Query) SetComment(comment string) {
	q.comment = comment
}

func (q *Query) Comment() string { return q.comment }

func (q *Query) slotFor(p placeholder) slot {
	if p.position >= 0 {
		return q.positional[p.position]
	}
	return q.named[q.stmt.nameIndex[p.name]]
}

func (q *Query) checkBound() error {
	for i, s := range q.positional {
		if !s.bound {
			return fmt.Errorf("%w: %s", ErrUnboundParameter, param.Position(i))
		}
	}
	for i, s := range q.named {
		if !s.bound {
			return fmt.Errorf("%w: %s", ErrUnboundParameter, param.Name(q.stmt.names[i]))
		}
	}
	return nil
}

// Render returns the statement text and its arguments. Placeholders are
// numbered by occurrence, so a parameter used twice is passed twice.
func (q *Query) Render() (string, []any, error) {
	if err := q.checkBound(); err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	q.writeComment(&sb)

	args := make([]any, 0, len(q.positional)+len(q.named))
	for _, p := range q.stmt.parts {
		switch p := p.(type) {
		case string:
			sb.WriteString(p)
		case placeholder:
			args = append(args, q.slotFor(p).value)
			sb.WriteString(q.dialect.Placeholder(len(args)))
		}
	}

	return q.withWindow(sb.String()), args, nil
}

// Interpolate renders the statement with values inlined. The result is for
// logs and explain output only and must never be executed. Unbound
// parameters keep their placeholder.
func (q *Query) Interpolate() string {
	var sb strings.Builder
	q.writeComment(&sb)

	for _, p := range q.stmt.parts {
		switch p := p.(type) {
		case string:
			sb.WriteString(p)
		case placeholder:
			if s := q.slotFor(p); s.bound {
				sb.WriteString(q.dialect.RenderValue(s.value))
			} else {
				sb.WriteString(p.selectorText())
			}
		}
	}

	return q.withWindow(sb.String())
}

func (q *Query) writeComment(sb *strings.Builder) {
	if q.comment == "" {
		return
	}
	sb.WriteString("/* ")
	sb.WriteString(commentText(q.comment))
	sb.WriteString(" */ ")
}

var commentEscaper = strings.NewReplacer("*/", "* /", "/*", "/ *")

// commentText breaks every /* and */ in s. Block comments nest in
// PostgreSQL, so either one would leave the prefix comment unbalanced.
func commentText(s string) string {
	for strings.Contains(s, "/*") || strings.Contains(s, "*/") {
		s = commentEscaper.Replace(s)
	}
	return s
}

func (q *Query) withWindow(body string) string {
	if q.maxResults < 0 && q.firstResult == 0 {
		return body
	}

	sep := " "
	if q.stmt.trailingComment {
		sep = "\n"
	} else {
		body = strings.TrimRight(body, " \t\r\n;")
	}

	if q.maxResults >= 0 {
		body += sep + "LIMIT " + strconv.Itoa(q.maxResults)
		sep = " "
	}
	if q.firstResult > 0 {
		body += sep + "OFFSET " + strconv.Itoa(q.firstResult)
	}
	return body
}
