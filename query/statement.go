package query

import (
	"errors"
	"fmt"

	"github.com/Konsultn-Engineering/enorm-shards/cache"
	"github.com/Konsultn-Engineering/enorm-shards/param"
	"github.com/Konsultn-Engineering/enorm-shards/utils"
)

var ErrConflictingCast = errors.New("parameter cast to conflicting types")

// Statement is parsed statement text. It is immutable and shared by every
// Query built from it.
type Statement struct {
	sql   string
	parts []any // string or placeholder

	positions int
	names     []string
	nameIndex map[string]int

	positionCasts []string
	nameCasts     []string

	trailingComment bool
}

// Parse splits sql into text and placeholders. Positional placeholders are
// $1..$n and map to positions 0..n-1; named placeholders are :name.
func Parse(sql string) (*Statement, error) {
	l, err := lex(sql)
	if err != nil {
		return nil, fmt.Errorf("parse statement: %w", err)
	}

	s := &Statement{
		sql:             sql,
		parts:           l.parts,
		nameIndex:       make(map[string]int),
		trailingComment: l.trailingComment,
	}

	for _, p := range s.parts {
		ph, ok := p.(placeholder)
		if !ok {
			continue
		}
		if ph.position >= 0 {
			s.positions = max(s.positions, ph.position+1)
		} else if _, seen := s.nameIndex[ph.name]; !seen {
			s.nameIndex[ph.name] = len(s.names)
			s.names = append(s.names, ph.name)
		}
	}

	s.positionCasts = make([]string, s.positions)
	s.nameCasts = make([]string, len(s.names))
	for _, p := range s.parts {
		ph, ok := p.(placeholder)
		if !ok || ph.cast == "" {
			continue
		}
		casts, i := s.positionCasts, ph.position
		if ph.position < 0 {
			casts, i = s.nameCasts, s.nameIndex[ph.name]
		}
		if casts[i] != "" && casts[i] != ph.cast {
			return nil, fmt.Errorf("%w: %s is %s and %s", ErrConflictingCast, ph.selectorText(), casts[i], ph.cast)
		}
		casts[i] = ph.cast
	}

	return s, nil
}

func (s *Statement) SQL() string { return s.sql }

// Positions returns the number of positional slots, i.e. the highest $n.
func (s *Statement) Positions() int { return s.positions }

// Names returns the named parameters in order of first appearance.
func (s *Statement) Names() []string {
	return append([]string(nil), s.names...)
}

// Cast returns the declared type of the selected parameter, or "" when it has
// none or does not exist.
func (s *Statement) Cast(sel param.Selector) string {
	switch sel := sel.(type) {
	case param.Position:
		if int(sel) >= 0 && int(sel) < s.positions {
			return s.positionCasts[sel]
		}
	case param.Name:
		if i, ok := s.nameIndex[string(sel)]; ok {
			return s.nameCasts[i]
		}
	}
	return ""
}

// Parser parses statements through an LRU cache.
type Parser struct {
	cache *cache.StatementCache[*Statement]
}

func NewParser(size int) *Parser {
	return &Parser{cache: cache.NewStatementCache[*Statement](size, nil)}
}

func (p *Parser) Parse(sql string) (*Statement, error) {
	stmt, err := p.cache.GetOrPrepare(utils.FingerprintString(sql), func() (*Statement, error) {
		return Parse(sql)
	})
	if err != nil {
		return nil, err
	}
	if stmt.sql != sql {
		// fingerprint collision
		return Parse(sql)
	}
	return stmt, nil
}

// Cached reports how many statements the parser holds.
func (p *Parser) Cached() int {
	return p.cache.Len()
}
