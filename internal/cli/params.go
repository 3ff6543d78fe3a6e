package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/enorm-shards/param"
	"github.com/Konsultn-Engineering/enorm-shards/shard"
)

// paramSpec is one parsed --param flag.
type paramSpec struct {
	selector param.Selector
	kind     param.Kind
	value    any
}

// parseParam parses <selector>=<kind>:<value>. Without a recognised kind
// prefix the value is a string; "null" alone is NULL.
func parseParam(spec string) (paramSpec, error) {
	sel, rest, ok := strings.Cut(spec, "=")
	if !ok {
		return paramSpec{}, fmt.Errorf("invalid parameter %q: expected <selector>=<kind>:<value>", spec)
	}

	selector, err := parseSelector(strings.TrimSpace(sel))
	if err != nil {
		return paramSpec{}, fmt.Errorf("invalid parameter %q: %w", spec, err)
	}

	kind, text := param.KindString, rest
	if prefix, value, found := strings.Cut(rest, ":"); found {
		if k, err := param.ParseKind(prefix); err == nil {
			kind, text = k, value
		}
	} else if strings.EqualFold(rest, "null") {
		kind = param.KindNull
	}

	value, err := param.ParseValue(kind, text)
	if err != nil {
		return paramSpec{}, fmt.Errorf("invalid parameter %q: %w", spec, err)
	}
	return paramSpec{selector: selector, kind: kind, value: value}, nil
}

func parseSelector(s string) (param.Selector, error) {
	if s == "" {
		return nil, fmt.Errorf("empty selector")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return nil, fmt.Errorf("negative position %d", n)
		}
		return param.Position(n), nil
	}
	s = strings.TrimPrefix(s, ":")
	for i, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || i > 0 && r >= '0' && r <= '9') {
			return nil, fmt.Errorf("invalid parameter name %q", s)
		}
	}
	return param.Name(s), nil
}

func (p paramSpec) bind(q *shard.Query) {
	switch sel := p.selector.(type) {
	case param.Position:
		q.SetParameter(int(sel), p.value)
	case param.Name:
		q.SetParameterByName(string(sel), p.value)
	}
}
