package dsl

import (
	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/value"
)

// AnyField is a field definition of owner type T with its member type erased,
// so that an object schema can hold fields of different member types.
type AnyField[T any] interface {
	Name() string
	decodeInto(dst *T, doc *value.Document) error
	encodeFrom(src T, doc *value.Document) error
	obtainOptions(m bsonskema.AnyModel, root any, pathname string, owner T) []bsonskema.OptionData
	obtainStaticOptions(m bsonskema.AnyModel, pathname string, visited *bsonskema.Visited) []bsonskema.OptionData
}

// FieldBuilder accumulates the parts of a field definition binding the member M
// of owner T to a named slot in the owner's document.
type FieldBuilder[T, M any] struct {
	deferred
	name        string
	schema      bsonskema.Schema[M]
	get         func(T) M
	set         func(*T, M)
	decoders    []bsonskema.Coercer[M]
	encoders    []bsonskema.ConditionalEncoder[M]
	decodeHooks []func(M) (M, error)
	encodeHooks []func(M) (M, error)
	options     []bsonskema.Option[M]
	static      []bsonskema.StaticOption
}

// Field starts a field definition named name.
func Field[T, M any](name string) *FieldBuilder[T, M] { return &FieldBuilder[T, M]{name: name} }

// Name sets or replaces the field name.
func (b *FieldBuilder[T, M]) Name(name string) *FieldBuilder[T, M] {
	b.name = name
	return b
}

// Schema sets the nested schema.
func (b *FieldBuilder[T, M]) Schema(s bsonskema.Schema[M]) *FieldBuilder[T, M] {
	b.schema = s
	return b
}

// Lazy sets the nested schema to a reference resolved on first use. See
// LazySchema for the resolver's constraints.
func (b *FieldBuilder[T, M]) Lazy(fn func() bsonskema.Schema[M]) *FieldBuilder[T, M] {
	b.schema = Lazy(fn)
	return b
}

// Get sets the getter.
func (b *FieldBuilder[T, M]) Get(fn func(T) M) *FieldBuilder[T, M] {
	b.get = fn
	return b
}

// Set sets the setter.
func (b *FieldBuilder[T, M]) Set(fn func(*T, M)) *FieldBuilder[T, M] {
	b.set = fn
	return b
}

// Accessors sets getter and setter together.
func (b *FieldBuilder[T, M]) Accessors(get func(T) M, set func(*T, M)) *FieldBuilder[T, M] {
	b.get, b.set = get, set
	return b
}

// Decoder appends an override decoder; the first whose CanDecode accepts the
// raw value wins, otherwise the nested schema decodes.
func (b *FieldBuilder[T, M]) Decoder(c bsonskema.Coercer[M]) *FieldBuilder[T, M] {
	b.decoders = append(b.decoders, c)
	return b
}

// Encoder appends an override encoder with the same first-match rule.
func (b *FieldBuilder[T, M]) Encoder(e bsonskema.ConditionalEncoder[M]) *FieldBuilder[T, M] {
	b.encoders = append(b.encoders, e)
	return b
}

// AfterDecode appends a hook run on the decoded member before the setter.
func (b *FieldBuilder[T, M]) AfterDecode(h func(M) (M, error)) *FieldBuilder[T, M] {
	b.decodeHooks = append(b.decodeHooks, h)
	return b
}

// BeforeEncode appends a hook run on the member read by the getter.
func (b *FieldBuilder[T, M]) BeforeEncode(h func(M) (M, error)) *FieldBuilder[T, M] {
	b.encodeHooks = append(b.encodeHooks, h)
	return b
}

// Option attaches an instance option evaluated on the member value.
func (b *FieldBuilder[T, M]) Option(o bsonskema.Option[M]) *FieldBuilder[T, M] {
	b.options = append(b.options, o)
	return b
}

// StaticOption attaches a static option.
func (b *FieldBuilder[T, M]) StaticOption(o bsonskema.StaticOption) *FieldBuilder[T, M] {
	b.static = append(b.static, o)
	return b
}

// Required attaches the static bsonskema.Required option.
func (b *FieldBuilder[T, M]) Required() *FieldBuilder[T, M] {
	return b.StaticOption(bsonskema.NewStaticOption(bsonskema.Required, true))
}

// Index attaches the static bsonskema.Index option.
func (b *FieldBuilder[T, M]) Index(unique bool) *FieldBuilder[T, M] {
	return b.StaticOption(bsonskema.NewStaticOption(bsonskema.Index, bsonskema.IndexHint{Unique: unique}))
}

// Validate attaches a bsonskema.Validation option running fn on the member.
func (b *FieldBuilder[T, M]) Validate(fn func(M) error) *FieldBuilder[T, M] {
	return b.Option(bsonskema.NewOption(bsonskema.Validation, func(_ any, _ string, v M) (error, bool) {
		err := fn(v)
		return err, err != nil
	}))
}

// Defer registers a callback to run at the start of Build.
func (b *FieldBuilder[T, M]) Defer(fn func()) *FieldBuilder[T, M] {
	b.push(fn)
	return b
}

// Build requires a name, a nested schema, a getter and a setter.
func (b *FieldBuilder[T, M]) Build() (*FieldDefinition[T, M], error) {
	b.drain()
	builder := "field " + quote(b.name)
	switch {
	case b.name == "":
		return nil, &bsonskema.ConfigError{Builder: "field", Field: "name"}
	case b.schema == nil:
		return nil, &bsonskema.ConfigError{Builder: builder, Field: "schema"}
	case b.get == nil:
		return nil, &bsonskema.ConfigError{Builder: builder, Field: "getter"}
	case b.set == nil:
		return nil, &bsonskema.ConfigError{Builder: builder, Field: "setter"}
	}
	return &FieldDefinition[T, M]{
		name:        b.name,
		schema:      b.schema,
		get:         b.get,
		set:         b.set,
		decoders:    cloneSlice(b.decoders),
		encoders:    cloneSlice(b.encoders),
		decodeHooks: cloneSlice(b.decodeHooks),
		encodeHooks: cloneSlice(b.encodeHooks),
		options:     cloneSlice(b.options),
		static:      cloneSlice(b.static),
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *FieldBuilder[T, M]) MustBuild() *FieldDefinition[T, M] {
	f, err := b.Build()
	if err != nil {
		panic(err)
	}
	return f
}

// FieldDefinition binds member M of owner T to the document slot Name().
type FieldDefinition[T, M any] struct {
	name        string
	schema      bsonskema.Schema[M]
	get         func(T) M
	set         func(*T, M)
	decoders    []bsonskema.Coercer[M]
	encoders    []bsonskema.ConditionalEncoder[M]
	decodeHooks []func(M) (M, error)
	encodeHooks []func(M) (M, error)
	options     []bsonskema.Option[M]
	static      []bsonskema.StaticOption
}

var _ AnyField[struct{}] = (*FieldDefinition[struct{}, string])(nil)

func (f *FieldDefinition[T, M]) Name() string { return f.name }

// Schema returns the nested schema.
func (f *FieldDefinition[T, M]) Schema() bsonskema.Schema[M] { return f.schema }

// DecodeValue runs the decode procedure for a raw value without an owner: the
// override chain or nested schema, then the decode hooks.
func (f *FieldDefinition[T, M]) DecodeValue(raw value.Value) (M, error) {
	v, err := decodeVia(raw, f.decoders, f.schema)
	if err != nil {
		var zero M
		return zero, err
	}
	return runHooks(v, f.decodeHooks)
}

// EncodeValue runs the encode hooks, then the override chain or nested schema.
func (f *FieldDefinition[T, M]) EncodeValue(v M) (value.Value, error) {
	v, err := runHooks(v, f.encodeHooks)
	if err != nil {
		return nil, err
	}
	return encodeVia(v, f.encoders, f.schema)
}

// decodeInto reads the field from doc and stores it into dst. A missing key is
// presented to the decoders as Undefined; when nothing accepts it the failure
// is CodeRequired.
func (f *FieldDefinition[T, M]) decodeInto(dst *T, doc *value.Document) error {
	raw, present := doc.Get(f.name)
	if !present {
		raw = value.Undefined{}
		if !canDecodeVia(raw, f.decoders, f.schema) {
			return bsonskema.Issues{bsonskema.Root().Field(f.name).Issue(bsonskema.CodeRequired, f.name, nil)}
		}
	}
	v, err := f.DecodeValue(raw)
	if err != nil {
		return bsonskema.Prefix(err, f.name, bsonskema.CodeDecodeFailed)
	}
	f.set(dst, v)
	return nil
}

// encodeFrom writes the field into doc. An Undefined result omits the key.
func (f *FieldDefinition[T, M]) encodeFrom(src T, doc *value.Document) error {
	enc, err := f.EncodeValue(f.get(src))
	if err != nil {
		return bsonskema.Prefix(err, f.name, bsonskema.CodeEncodeFailed)
	}
	if enc == nil || enc.Kind() == value.KindUndefined {
		return nil
	}
	doc.Set(f.name, enc)
	return nil
}

func (f *FieldDefinition[T, M]) obtainOptions(m bsonskema.AnyModel, root any, pathname string, owner T) []bsonskema.OptionData {
	p := bsonskema.JoinPath(pathname, f.name)
	member := f.get(owner)
	out := bsonskema.CollectOptions(m, f.options, root, p, member)
	return append(out, elementOptions(f.schema, m, root, p, member)...)
}

func (f *FieldDefinition[T, M]) obtainStaticOptions(m bsonskema.AnyModel, pathname string, visited *bsonskema.Visited) []bsonskema.OptionData {
	p := bsonskema.JoinPath(pathname, f.name)
	out := bsonskema.CollectStaticOptions(m, f.static, p)
	return append(out, elementStaticOptions(f.schema, m, p, visited)...)
}
