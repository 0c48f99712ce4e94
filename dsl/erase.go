package dsl

import (
	"fmt"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/value"
)

// AnySchema adapts a Schema[T] to Schema[any]. It keeps the original schema so
// that options and introspection reach the typed node.
type AnySchema struct {
	orig      any
	canDecode func(value.Value) bool
	decode    func(value.Value) (any, error)
	encode    func(any) (value.Value, error)
	options   func(m bsonskema.AnyModel, root any, pathname string, instance any) []bsonskema.OptionData
	static    func(m bsonskema.AnyModel, pathname string, visited *bsonskema.Visited) []bsonskema.OptionData
}

// Erase wraps s for use where member types are only known at run time, such
// as schemas compiled from definition files. Encoding a value that is not a T
// fails with invalid_type; a nil value encodes as the zero T.
func Erase[T any](s bsonskema.Schema[T]) *AnySchema {
	if as, ok := any(s).(*AnySchema); ok {
		return as
	}
	cast := func(v any) (T, bool) {
		if v == nil {
			var zero T
			return zero, true
		}
		tv, ok := v.(T)
		return tv, ok
	}
	return &AnySchema{
		orig:      s,
		canDecode: s.CanDecode,
		decode: func(v value.Value) (any, error) {
			out, err := s.Decode(v)
			if err != nil {
				return nil, err
			}
			return out, nil
		},
		encode: func(v any) (value.Value, error) {
			tv, ok := cast(v)
			if !ok {
				var zero T
				return nil, bsonskema.NewIssue(bsonskema.CodeInvalidType, fmt.Sprintf("expected %T, got %T", zero, v), nil)
			}
			return s.Encode(tv)
		},
		options: func(m bsonskema.AnyModel, root any, pathname string, instance any) []bsonskema.OptionData {
			tv, ok := cast(instance)
			if !ok {
				return nil
			}
			return elementOptions(s, m, root, pathname, tv)
		},
		static: func(m bsonskema.AnyModel, pathname string, visited *bsonskema.Visited) []bsonskema.OptionData {
			return elementStaticOptions(s, m, pathname, visited)
		},
	}
}

var _ bsonskema.ElementSchema[any] = (*AnySchema)(nil)

// Orig returns the wrapped Schema[T].
func (a *AnySchema) Orig() any { return a.orig }

func (a *AnySchema) CanDecode(v value.Value) bool       { return a.canDecode(v) }
func (a *AnySchema) Decode(v value.Value) (any, error)  { return a.decode(v) }
func (a *AnySchema) Encode(v any) (value.Value, error) { return a.encode(v) }

func (a *AnySchema) ObtainOptions(m bsonskema.AnyModel, root any, pathname string, instance any) []bsonskema.OptionData {
	return a.options(m, root, pathname, instance)
}

func (a *AnySchema) ObtainStaticOptions(m bsonskema.AnyModel, pathname string, visited *bsonskema.Visited) []bsonskema.OptionData {
	return a.static(m, pathname, visited)
}
