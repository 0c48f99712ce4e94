package dsl

import (
	"strconv"

	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/value"
)

// ArrayBuilder accumulates the parts of an array schema.
type ArrayBuilder[E any] struct {
	deferred
	elem         bsonskema.Schema[E]
	decoders     []bsonskema.Coercer[E]
	encoders     []bsonskema.ConditionalEncoder[E]
	afterDecode  []func([]E) ([]E, error)
	beforeEncode []func([]E) ([]E, error)
	options      []bsonskema.Option[[]E]
	static       []bsonskema.StaticOption
}

// Array starts an array schema over elem.
func Array[E any](elem bsonskema.Schema[E]) *ArrayBuilder[E] { return &ArrayBuilder[E]{elem: elem} }

// Element replaces the element schema.
func (b *ArrayBuilder[E]) Element(elem bsonskema.Schema[E]) *ArrayBuilder[E] {
	b.elem = elem
	return b
}

// Decoder appends an override element decoder. For each element the first
// override whose CanDecode accepts it wins; otherwise the element schema decodes.
func (b *ArrayBuilder[E]) Decoder(c bsonskema.Coercer[E]) *ArrayBuilder[E] {
	b.decoders = append(b.decoders, c)
	return b
}

// Encoder appends an override element encoder with the same first-match rule.
func (b *ArrayBuilder[E]) Encoder(e bsonskema.ConditionalEncoder[E]) *ArrayBuilder[E] {
	b.encoders = append(b.encoders, e)
	return b
}

// AfterDecode appends a hook run on the fully decoded slice.
func (b *ArrayBuilder[E]) AfterDecode(h func([]E) ([]E, error)) *ArrayBuilder[E] {
	b.afterDecode = append(b.afterDecode, h)
	return b
}

// BeforeEncode appends a hook run on the slice before its elements are encoded.
func (b *ArrayBuilder[E]) BeforeEncode(h func([]E) ([]E, error)) *ArrayBuilder[E] {
	b.beforeEncode = append(b.beforeEncode, h)
	return b
}

// Option attaches an instance option to the array node.
func (b *ArrayBuilder[E]) Option(o bsonskema.Option[[]E]) *ArrayBuilder[E] {
	b.options = append(b.options, o)
	return b
}

// StaticOption attaches a static option to the array node.
func (b *ArrayBuilder[E]) StaticOption(o bsonskema.StaticOption) *ArrayBuilder[E] {
	b.static = append(b.static, o)
	return b
}

// Defer registers a callback to run at the start of Build.
func (b *ArrayBuilder[E]) Defer(fn func()) *ArrayBuilder[E] {
	b.push(fn)
	return b
}

// Build requires an element schema.
func (b *ArrayBuilder[E]) Build() (*ArraySchema[E], error) {
	b.drain()
	if b.elem == nil {
		return nil, &bsonskema.ConfigError{Builder: "array", Field: "element schema"}
	}
	return &ArraySchema[E]{
		elem:         b.elem,
		decoders:     cloneSlice(b.decoders),
		encoders:     cloneSlice(b.encoders),
		afterDecode:  cloneSlice(b.afterDecode),
		beforeEncode: cloneSlice(b.beforeEncode),
		options:      cloneSlice(b.options),
		static:       cloneSlice(b.static),
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *ArrayBuilder[E]) MustBuild() *ArraySchema[E] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// ArrayOf is shorthand for Array(elem).MustBuild().
func ArrayOf[E any](elem bsonskema.Schema[E]) *ArraySchema[E] { return Array(elem).MustBuild() }

// ArraySchema decodes arrays element by element, preserving order.
type ArraySchema[E any] struct {
	elem         bsonskema.Schema[E]
	decoders     []bsonskema.Coercer[E]
	encoders     []bsonskema.ConditionalEncoder[E]
	afterDecode  []func([]E) ([]E, error)
	beforeEncode []func([]E) ([]E, error)
	options      []bsonskema.Option[[]E]
	static       []bsonskema.StaticOption
}

var _ bsonskema.ElementSchema[[]int32] = (*ArraySchema[int32])(nil)

// Elem returns the element schema.
func (a *ArraySchema[E]) Elem() bsonskema.Schema[E] { return a.elem }

func (a *ArraySchema[E]) CanDecode(v value.Value) bool {
	return v != nil && v.Kind() == value.KindArray
}

// Decode fails as a whole on the first element that fails; the issue path is
// prefixed with the element index.
func (a *ArraySchema[E]) Decode(v value.Value) ([]E, error) {
	src, ok := v.(value.Array)
	if !ok {
		return nil, invalidType("array", bsonskema.Kinds(value.KindArray), v)
	}
	res := make([]E, 0, len(src))
	for i := range src {
		ev, err := decodeVia(src[i], a.decoders, a.elem)
		if err != nil {
			return nil, bsonskema.Prefix(err, strconv.Itoa(i), bsonskema.CodeDecodeFailed)
		}
		res = append(res, ev)
	}
	return runHooks(res, a.afterDecode)
}

func (a *ArraySchema[E]) Encode(v []E) (value.Value, error) {
	v, err := runHooks(v, a.beforeEncode)
	if err != nil {
		return nil, err
	}
	out := make(value.Array, len(v))
	for i := range v {
		ev, err := encodeVia(v[i], a.encoders, a.elem)
		if err != nil {
			return nil, bsonskema.Prefix(err, strconv.Itoa(i), bsonskema.CodeEncodeFailed)
		}
		out[i] = ev
	}
	return out, nil
}

// ObtainOptions collects the array's own options, then each element's options
// at pathname.<index>.
func (a *ArraySchema[E]) ObtainOptions(m bsonskema.AnyModel, root any, pathname string, instance []E) []bsonskema.OptionData {
	out := bsonskema.CollectOptions(m, a.options, root, pathname, instance)
	for i := range instance {
		out = append(out, elementOptions(a.elem, m, root, bsonskema.IndexPath(pathname, i), instance[i])...)
	}
	return out
}

// ObtainStaticOptions collects the array's own options, then the element
// schema's options at the same pathname.
func (a *ArraySchema[E]) ObtainStaticOptions(m bsonskema.AnyModel, pathname string, visited *bsonskema.Visited) []bsonskema.OptionData {
	out := bsonskema.CollectStaticOptions(m, a.static, pathname)
	return append(out, elementStaticOptions(a.elem, m, pathname, visited)...)
}
