package dsl

import (
	"fmt"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/value"
)

type enumCase[T comparable] struct {
	key   value.Value
	value T
}

// EnumBuilder accumulates the closed mapping of an enum schema.
type EnumBuilder[T comparable] struct {
	deferred
	name    string
	cases   []enumCase[T]
	options []bsonskema.Option[T]
	static  []bsonskema.StaticOption
}

// Enum starts an enum schema for T.
func Enum[T comparable](name string) *EnumBuilder[T] { return &EnumBuilder[T]{name: name} }

// Case maps the dynamic value key to the constant c.
func (b *EnumBuilder[T]) Case(key value.Value, c T) *EnumBuilder[T] {
	b.cases = append(b.cases, enumCase[T]{key: key, value: c})
	return b
}

// Strings maps each string key to lookup(key), in the order given.
func (b *EnumBuilder[T]) Strings(keys []string, lookup func(string) T) *EnumBuilder[T] {
	for _, k := range keys {
		b.Case(value.String(k), lookup(k))
	}
	return b
}

// Option attaches an instance option.
func (b *EnumBuilder[T]) Option(o bsonskema.Option[T]) *EnumBuilder[T] {
	b.options = append(b.options, o)
	return b
}

// StaticOption attaches a static option.
func (b *EnumBuilder[T]) StaticOption(o bsonskema.StaticOption) *EnumBuilder[T] {
	b.static = append(b.static, o)
	return b
}

// Defer registers a callback to run at the start of Build.
func (b *EnumBuilder[T]) Defer(fn func()) *EnumBuilder[T] {
	b.push(fn)
	return b
}

// Build checks that the mapping is non-empty and one-to-one.
func (b *EnumBuilder[T]) Build() (*EnumSchema[T], error) {
	b.drain()
	builder := "enum " + quote(b.name)
	if len(b.cases) == 0 {
		return nil, &bsonskema.ConfigError{Builder: builder, Field: "cases"}
	}
	s := &EnumSchema[T]{
		name:    b.name,
		cases:   make([]enumCase[T], 0, len(b.cases)),
		byValue: make(map[T]value.Value, len(b.cases)),
		options: cloneSlice(b.options),
		static:  cloneSlice(b.static),
	}
	for _, c := range b.cases {
		if c.key == nil {
			return nil, &bsonskema.ConfigError{Builder: builder, Field: "case key", Reason: "must not be nil"}
		}
		if _, ok := s.lookup(c.key); ok {
			return nil, &bsonskema.ConfigError{Builder: builder, Field: "case key " + kindOf(c.key), Reason: "is declared twice"}
		}
		if _, ok := s.byValue[c.value]; ok {
			return nil, &bsonskema.ConfigError{Builder: builder, Field: fmt.Sprintf("constant %v", c.value), Reason: "is declared twice"}
		}
		s.cases = append(s.cases, c)
		s.byValue[c.value] = c.key
		s.kinds |= bsonskema.Kinds(c.key.Kind())
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *EnumBuilder[T]) MustBuild() *EnumSchema[T] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// EnumSchema maps a closed set of dynamic values to typed constants.
type EnumSchema[T comparable] struct {
	name    string
	kinds   bsonskema.KindSet
	cases   []enumCase[T]
	byValue map[T]value.Value
	options []bsonskema.Option[T]
	static  []bsonskema.StaticOption
}

var _ bsonskema.ElementSchema[int] = (*EnumSchema[int])(nil)

func (s *EnumSchema[T]) lookup(v value.Value) (T, bool) {
	for _, c := range s.cases {
		if value.Equal(c.key, v) {
			return c.value, true
		}
	}
	var zero T
	return zero, false
}

// Values returns the declared constants in declaration order.
func (s *EnumSchema[T]) Values() []T {
	out := make([]T, len(s.cases))
	for i, c := range s.cases {
		out[i] = c.value
	}
	return out
}

// CanDecode reports whether v is one of the declared keys.
func (s *EnumSchema[T]) CanDecode(v value.Value) bool {
	_, ok := s.lookup(v)
	return ok
}

func (s *EnumSchema[T]) Decode(v value.Value) (T, error) {
	if out, ok := s.lookup(v); ok {
		return out, nil
	}
	var zero T
	if !s.kinds.Accepts(v) {
		return zero, invalidType(s.name, s.kinds, v)
	}
	return zero, bsonskema.NewIssue(bsonskema.CodeInvalidEnum, s.name+": "+describe(v), nil)
}

func (s *EnumSchema[T]) CanEncode(v T) bool {
	_, ok := s.byValue[v]
	return ok
}

func (s *EnumSchema[T]) Encode(v T) (value.Value, error) {
	if out, ok := s.byValue[v]; ok {
		return out, nil
	}
	return nil, bsonskema.NewIssue(bsonskema.CodeInvalidEnum, fmt.Sprintf("%s: undeclared constant %v", s.name, v), nil)
}

func (s *EnumSchema[T]) ObtainOptions(m bsonskema.AnyModel, root any, pathname string, instance T) []bsonskema.OptionData {
	return bsonskema.CollectOptions(m, s.options, root, pathname, instance)
}

func (s *EnumSchema[T]) ObtainStaticOptions(m bsonskema.AnyModel, pathname string, _ *bsonskema.Visited) []bsonskema.OptionData {
	return bsonskema.CollectStaticOptions(m, s.static, pathname)
}

func describe(v value.Value) string {
	switch x := v.(type) {
	case value.String:
		return fmt.Sprintf("%q", string(x))
	case value.Int32, value.Int64, value.Double, value.Boolean:
		return fmt.Sprintf("%v", x)
	}
	return kindOf(v)
}
