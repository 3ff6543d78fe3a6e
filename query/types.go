package query

import (
	"strings"

	"github.com/Konsultn-Engineering/enorm-shards/param"
)

// castKinds lists the value kinds each declared SQL type accepts. Types that
// are not listed accept anything.
var castKinds = map[string][]param.Kind{
	"text":        {param.KindString},
	"varchar":     {param.KindString},
	"char":        {param.KindString},
	"bpchar":      {param.KindString},
	"character":   {param.KindString},
	"citext":      {param.KindString},
	"name":        {param.KindString},
	"smallint":    {param.KindInt},
	"integer":     {param.KindInt},
	"int":         {param.KindInt},
	"int2":        {param.KindInt},
	"int4":        {param.KindInt},
	"int8":        {param.KindInt},
	"bigint":      {param.KindInt},
	"numeric":     {param.KindDecimal, param.KindInt, param.KindFloat},
	"decimal":     {param.KindDecimal, param.KindInt, param.KindFloat},
	"real":        {param.KindFloat, param.KindInt},
	"float4":      {param.KindFloat, param.KindInt},
	"float8":      {param.KindFloat, param.KindInt},
	"double":      {param.KindFloat, param.KindInt},
	"bool":        {param.KindBool},
	"boolean":     {param.KindBool},
	"date":        {param.KindTime},
	"time":        {param.KindTime},
	"timestamp":   {param.KindTime},
	"timestamptz": {param.KindTime},
	"bytea":       {param.KindBytes},
	"uuid":        {param.KindUUID, param.KindString},
	"json":        {param.KindString, param.KindBytes},
	"jsonb":       {param.KindString, param.KindBytes},
}

// accepts reports whether a value of kind k may be bound to a parameter
// declared as cast. NULL fits every type.
func accepts(cast string, k param.Kind) bool {
	if cast == "" || k == param.KindNull {
		return true
	}
	if i := strings.LastIndexByte(cast, '.'); i >= 0 {
		cast = cast[i+1:]
	}
	kinds, ok := castKinds[cast]
	if !ok {
		return true
	}
	for _, allowed := range kinds {
		if allowed == k {
			return true
		}
	}
	return false
}
