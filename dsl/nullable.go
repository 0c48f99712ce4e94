package dsl

import (
	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/value"
)

// NullableSchema lifts a Schema[T] to *T. Null and Undefined decode to nil; a
// nil pointer encodes to Undefined (Optional, so the field is omitted) or to
// Null (Nullable).
type NullableSchema[T any] struct {
	inner  bsonskema.Schema[T]
	absent value.Value
}

// Optional returns a schema whose nil encodes to Undefined.
func Optional[T any](inner bsonskema.Schema[T]) *NullableSchema[T] {
	return &NullableSchema[T]{inner: inner, absent: value.Undefined{}}
}

// Nullable returns a schema whose nil encodes to Null.
func Nullable[T any](inner bsonskema.Schema[T]) *NullableSchema[T] {
	return &NullableSchema[T]{inner: inner, absent: value.Null{}}
}

var _ bsonskema.ElementSchema[*string] = (*NullableSchema[string])(nil)

// Inner returns the wrapped schema.
func (n *NullableSchema[T]) Inner() bsonskema.Schema[T] { return n.inner }

func (n *NullableSchema[T]) CanDecode(v value.Value) bool {
	return value.IsMissing(v) || n.inner.CanDecode(v)
}

func (n *NullableSchema[T]) Decode(v value.Value) (*T, error) {
	if value.IsMissing(v) {
		return nil, nil
	}
	out, err := n.inner.Decode(v)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (n *NullableSchema[T]) Encode(v *T) (value.Value, error) {
	if v == nil {
		return n.absent, nil
	}
	return n.inner.Encode(*v)
}

func (n *NullableSchema[T]) ObtainOptions(m bsonskema.AnyModel, root any, pathname string, instance *T) []bsonskema.OptionData {
	if instance == nil {
		return nil
	}
	return elementOptions(n.inner, m, root, pathname, *instance)
}

func (n *NullableSchema[T]) ObtainStaticOptions(m bsonskema.AnyModel, pathname string, visited *bsonskema.Visited) []bsonskema.OptionData {
	return elementStaticOptions(n.inner, m, pathname, visited)
}
