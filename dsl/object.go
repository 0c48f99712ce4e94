package dsl

import (
	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/value"
)

// ObjectBuilder accumulates the fields of an object schema for owner type T.
//
// Decoding is construct-then-set: the constructor produces a fresh T and each
// field's setter stores its decoded member, in declaration order.
type ObjectBuilder[T any] struct {
	deferred
	name        string
	construct   func() T
	fields      []AnyField[T]
	afterDecode []func(T) (T, error)
	afterEncode []func(T, *value.Document) error
	options     []bsonskema.Option[T]
	static      []bsonskema.StaticOption
	building    bool
}

// Object starts an object schema. The zero value of T is used as the
// constructor unless Constructor is called.
func Object[T any]() *ObjectBuilder[T] {
	return &ObjectBuilder[T]{construct: func() T { var zero T; return zero }}
}

// Named sets the name used in config errors and hints.
func (b *ObjectBuilder[T]) Named(name string) *ObjectBuilder[T] {
	b.name = name
	return b
}

// Constructor replaces the function producing the empty owner before decoding.
func (b *ObjectBuilder[T]) Constructor(fn func() T) *ObjectBuilder[T] {
	b.construct = fn
	return b
}

// Add appends field definitions in declaration order.
func (b *ObjectBuilder[T]) Add(fields ...AnyField[T]) *ObjectBuilder[T] {
	b.fields = append(b.fields, fields...)
	return b
}

// AfterDecode appends a hook run on the owner after every field is set.
func (b *ObjectBuilder[T]) AfterDecode(h func(T) (T, error)) *ObjectBuilder[T] {
	b.afterDecode = append(b.afterDecode, h)
	return b
}

// AfterEncode appends a hook that may inspect or amend the encoded document.
func (b *ObjectBuilder[T]) AfterEncode(h func(T, *value.Document) error) *ObjectBuilder[T] {
	b.afterEncode = append(b.afterEncode, h)
	return b
}

// Option attaches an instance option evaluated on the owner.
func (b *ObjectBuilder[T]) Option(o bsonskema.Option[T]) *ObjectBuilder[T] {
	b.options = append(b.options, o)
	return b
}

// StaticOption attaches a static option at the object's own path.
func (b *ObjectBuilder[T]) StaticOption(o bsonskema.StaticOption) *ObjectBuilder[T] {
	b.static = append(b.static, o)
	return b
}

// Defer registers a callback to run at the start of Build. Callbacks may add
// fields, which is how a schema finishes wiring itself once its siblings exist.
func (b *ObjectBuilder[T]) Defer(fn func()) *ObjectBuilder[T] {
	b.push(fn)
	return b
}

func (b *ObjectBuilder[T]) label() string {
	if b.name == "" {
		return "object"
	}
	return "object " + quote(b.name)
}

// Build rejects a missing constructor, nil or duplicate fields, and a Build
// call made from one of the builder's own deferred callbacks.
func (b *ObjectBuilder[T]) Build() (*ObjectSchema[T], error) {
	if b.building {
		return nil, &bsonskema.ConfigError{Builder: b.label(), Field: "build", Reason: "is already in progress"}
	}
	b.building = true
	defer func() { b.building = false }()
	b.drain()

	if b.construct == nil {
		return nil, &bsonskema.ConfigError{Builder: b.label(), Field: "constructor"}
	}
	seen := make(map[string]struct{}, len(b.fields))
	for _, f := range b.fields {
		if f == nil {
			return nil, &bsonskema.ConfigError{Builder: b.label(), Field: "field", Reason: "must not be nil"}
		}
		if _, dup := seen[f.Name()]; dup {
			return nil, &bsonskema.ConfigError{Builder: b.label(), Field: "field " + quote(f.Name()), Reason: "is declared twice"}
		}
		seen[f.Name()] = struct{}{}
	}
	return &ObjectSchema[T]{
		name:        b.name,
		construct:   b.construct,
		fields:      cloneSlice(b.fields),
		afterDecode: cloneSlice(b.afterDecode),
		afterEncode: cloneSlice(b.afterEncode),
		options:     cloneSlice(b.options),
		static:      cloneSlice(b.static),
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *ObjectBuilder[T]) MustBuild() *ObjectSchema[T] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// ObjectSchema maps documents to values of T field by field.
type ObjectSchema[T any] struct {
	name        string
	construct   func() T
	fields      []AnyField[T]
	afterDecode []func(T) (T, error)
	afterEncode []func(T, *value.Document) error
	options     []bsonskema.Option[T]
	static      []bsonskema.StaticOption
}

var _ bsonskema.ElementSchema[struct{}] = (*ObjectSchema[struct{}])(nil)

// Name returns the name given with Named, if any.
func (o *ObjectSchema[T]) Name() string { return o.name }

// FieldNames returns the declared field names in order.
func (o *ObjectSchema[T]) FieldNames() []string {
	out := make([]string, len(o.fields))
	for i, f := range o.fields {
		out[i] = f.Name()
	}
	return out
}

// Fields returns the field definitions in declaration order.
func (o *ObjectSchema[T]) Fields() []AnyField[T] { return cloneSlice(o.fields) }

func (o *ObjectSchema[T]) CanDecode(v value.Value) bool {
	return v != nil && v.Kind() == value.KindDocument
}

// Decode stops at the first failing field. Keys not declared as fields are
// ignored.
func (o *ObjectSchema[T]) Decode(v value.Value) (T, error) {
	doc, ok := v.(*value.Document)
	if !ok || doc == nil {
		var zero T
		return zero, invalidType(o.label(), bsonskema.Kinds(value.KindDocument), v)
	}
	out := o.construct()
	for _, f := range o.fields {
		if err := f.decodeInto(&out, doc); err != nil {
			var zero T
			return zero, err
		}
	}
	return runHooks(out, o.afterDecode)
}

// Encode writes fields in declaration order, omitting those that encode to
// Undefined.
func (o *ObjectSchema[T]) Encode(v T) (value.Value, error) {
	doc := value.NewDocument()
	for _, f := range o.fields {
		if err := f.encodeFrom(v, doc); err != nil {
			return nil, err
		}
	}
	for _, h := range o.afterEncode {
		if err := h(v, doc); err != nil {
			return nil, asHookIssue(err)
		}
	}
	return doc, nil
}

// ObtainOptions collects the object's own options at pathname, then each
// field's options at pathname.<field>.
func (o *ObjectSchema[T]) ObtainOptions(m bsonskema.AnyModel, root any, pathname string, instance T) []bsonskema.OptionData {
	out := bsonskema.CollectOptions(m, o.options, root, pathname, instance)
	for _, f := range o.fields {
		out = append(out, f.obtainOptions(m, root, pathname, instance)...)
	}
	return out
}

// ObtainStaticOptions walks the fields with o in visited: a schema already on
// the path from the root contributes nothing, which terminates self-referential
// graphs. Shared schemas under sibling fields are walked once per field.
func (o *ObjectSchema[T]) ObtainStaticOptions(m bsonskema.AnyModel, pathname string, visited *bsonskema.Visited) []bsonskema.OptionData {
	if visited == nil {
		visited = bsonskema.NewVisited()
	}
	if !visited.Enter(o) {
		return nil
	}
	defer visited.Leave(o)
	out := bsonskema.CollectStaticOptions(m, o.static, pathname)
	for _, f := range o.fields {
		out = append(out, f.obtainStaticOptions(m, pathname, visited)...)
	}
	return out
}

func (o *ObjectSchema[T]) label() string {
	if o.name == "" {
		return "object"
	}
	return o.name
}
