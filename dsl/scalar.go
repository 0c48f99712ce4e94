package dsl

import (
	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/value"
)

// ScalarBuilder accumulates the parts of a leaf schema.
type ScalarBuilder[T any] struct {
	deferred
	name       string
	kinds      bsonskema.KindSet
	predicates []func(value.Value) bool
	branches   []bsonskema.Branch[T]
	encode     func(T) (value.Value, error)
	canEncode  func(T) bool
	options    []bsonskema.Option[T]
	static     []bsonskema.StaticOption
}

// Scalar starts a leaf schema for T. name appears in error messages.
func Scalar[T any](name string) *ScalarBuilder[T] { return &ScalarBuilder[T]{name: name} }

// Accept adds value kinds the schema can decode.
func (b *ScalarBuilder[T]) Accept(kinds ...value.Kind) *ScalarBuilder[T] {
	b.kinds |= bsonskema.Kinds(kinds...)
	return b
}

// When adds a can-decode predicate. CanDecode is true when the kind is accepted
// or any predicate holds.
func (b *ScalarBuilder[T]) When(pred func(value.Value) bool) *ScalarBuilder[T] {
	if pred != nil {
		b.predicates = append(b.predicates, pred)
	}
	return b
}

// Branch appends a deterministic decode branch. At least one is required.
func (b *ScalarBuilder[T]) Branch(br bsonskema.Branch[T]) *ScalarBuilder[T] {
	if br != nil {
		b.branches = append(b.branches, br)
	}
	return b
}

// EncodeWith sets the encode block (required).
func (b *ScalarBuilder[T]) EncodeWith(fn func(T) (value.Value, error)) *ScalarBuilder[T] {
	b.encode = fn
	return b
}

// CanEncode sets a predicate restricting the values Encode accepts.
func (b *ScalarBuilder[T]) CanEncode(fn func(T) bool) *ScalarBuilder[T] {
	b.canEncode = fn
	return b
}

// Option attaches an instance option.
func (b *ScalarBuilder[T]) Option(o bsonskema.Option[T]) *ScalarBuilder[T] {
	b.options = append(b.options, o)
	return b
}

// StaticOption attaches a static option.
func (b *ScalarBuilder[T]) StaticOption(o bsonskema.StaticOption) *ScalarBuilder[T] {
	b.static = append(b.static, o)
	return b
}

// Defer registers a callback to run at the start of Build.
func (b *ScalarBuilder[T]) Defer(fn func()) *ScalarBuilder[T] {
	b.push(fn)
	return b
}

// Build drains deferred callbacks, checks the required parts and returns the
// immutable schema.
func (b *ScalarBuilder[T]) Build() (*ScalarSchema[T], error) {
	b.drain()
	if len(b.branches) == 0 {
		return nil, &bsonskema.ConfigError{Builder: "scalar " + quote(b.name), Field: "decode block"}
	}
	if b.encode == nil {
		return nil, &bsonskema.ConfigError{Builder: "scalar " + quote(b.name), Field: "encode block"}
	}
	return &ScalarSchema[T]{
		name:       b.name,
		kinds:      b.kinds,
		predicates: cloneSlice(b.predicates),
		branches:   cloneSlice(b.branches),
		encode:     b.encode,
		canEncode:  b.canEncode,
		options:    cloneSlice(b.options),
		static:     cloneSlice(b.static),
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *ScalarBuilder[T]) MustBuild() *ScalarSchema[T] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// ScalarSchema is a leaf schema decoding through deterministic branches.
type ScalarSchema[T any] struct {
	name       string
	kinds      bsonskema.KindSet
	predicates []func(value.Value) bool
	branches   []bsonskema.Branch[T]
	encode     func(T) (value.Value, error)
	canEncode  func(T) bool
	options    []bsonskema.Option[T]
	static     []bsonskema.StaticOption
}

var _ bsonskema.ElementSchema[string] = (*ScalarSchema[string])(nil)

// Name returns the name given to Scalar.
func (s *ScalarSchema[T]) Name() string { return s.name }

// Kinds returns the accepted kinds.
func (s *ScalarSchema[T]) Kinds() bsonskema.KindSet { return s.kinds }

func (s *ScalarSchema[T]) CanDecode(v value.Value) bool {
	if s.kinds.Accepts(v) {
		return true
	}
	for _, p := range s.predicates {
		if p(v) {
			return true
		}
	}
	return false
}

// Decode fails fast with CodeInvalidType when CanDecode is false; otherwise the
// first committing branch wins and no commit is CodeNoBranch.
func (s *ScalarSchema[T]) Decode(v value.Value) (T, error) {
	if !s.CanDecode(v) {
		var zero T
		return zero, invalidType(s.name, s.kinds, v)
	}
	return bsonskema.DecodeDeterministic(v, s.branches...)
}

func (s *ScalarSchema[T]) CanEncode(v T) bool { return s.canEncode == nil || s.canEncode(v) }

func (s *ScalarSchema[T]) Encode(v T) (value.Value, error) {
	if !s.CanEncode(v) {
		return nil, bsonskema.NewIssue(bsonskema.CodeEncodeFailed, s.name+": value rejected by encoder", nil)
	}
	out, err := s.encode(v)
	if err != nil {
		return nil, asEncodeIssue(err)
	}
	return out, nil
}

func (s *ScalarSchema[T]) ObtainOptions(m bsonskema.AnyModel, root any, pathname string, instance T) []bsonskema.OptionData {
	return bsonskema.CollectOptions(m, s.options, root, pathname, instance)
}

func (s *ScalarSchema[T]) ObtainStaticOptions(m bsonskema.AnyModel, pathname string, _ *bsonskema.Visited) []bsonskema.OptionData {
	return bsonskema.CollectStaticOptions(m, s.static, pathname)
}
