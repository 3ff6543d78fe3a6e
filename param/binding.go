package param

import (
	"errors"
	"fmt"
)

// ErrUnknownSelector reports a binding whose selector is neither a Position
// nor a Name. Only a zero Binding can carry one.
var ErrUnknownSelector = errors.New("unknown parameter selector")

//go:generate mockgen -source binding.go -destination target_mock_test.go -package param -write_package_comment=false

// Target accepts parameter values of type T by ordinal or by name.
type Target[T any] interface {
	SetByPosition(index int, value T) error
	SetByName(name string, value T) error
}

// Binding is a recorded intent to set one query parameter. It is immutable
// and may be applied to any number of targets.
type Binding[T any] struct {
	selector Selector
	value    T
}

// At binds value to the parameter at the zero-based position.
func At[T any](position int, value T) Binding[T] {
	return Binding[T]{selector: Position(position), value: value}
}

// Named binds value to the named parameter.
func Named[T any](name string, value T) Binding[T] {
	return Binding[T]{selector: Name(name), value: value}
}

func (b Binding[T]) Selector() Selector { return b.selector }

func (b Binding[T]) Value() T { return b.value }

// Apply makes exactly one setter call on target. Errors from the target are
// returned as is.
func (b Binding[T]) Apply(target Target[T]) error {
	switch sel := b.selector.(type) {
	case Position:
		return target.SetByPosition(int(sel), b.value)
	case Name:
		return target.SetByName(string(sel), b.value)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownSelector, b.selector)
	}
}

func (b Binding[T]) String() string {
	if b.selector == nil {
		return fmt.Sprintf("<nil>=%v", b.value)
	}
	return fmt.Sprintf("%s=%v", b.selector, b.value)
}
