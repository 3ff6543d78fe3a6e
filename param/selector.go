package param

import (
	"fmt"
	"strconv"
)

// Selector addresses one query parameter. The only implementations are
// Position and Name.
type Selector interface {
	fmt.Stringer
	isSelector()
}

// Position selects a parameter by its zero-based ordinal: Position(0) is $1.
type Position int

func (Position) isSelector() {}

func (p Position) String() string {
	return "#" + strconv.Itoa(int(p))
}

// Name selects a named parameter (:name in statement text).
type Name string

func (Name) isSelector() {}

func (n Name) String() string {
	return ":" + string(n)
}
