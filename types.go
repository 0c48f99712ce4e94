package bsonskema

import "github.com/reoring/bsonskema/value"

// Encoder converts a typed value into its dynamic representation.
type Encoder[T any] interface {
	Encode(v T) (value.Value, error)
}

// Decoder converts a dynamic value into T.
type Decoder[T any] interface {
	Decode(v value.Value) (T, error)
}

// Coercer is a Decoder that can tell in advance whether it accepts a value.
// Callers branching on known tags should consult CanDecode before Decode.
type Coercer[T any] interface {
	Decoder[T]
	CanDecode(v value.Value) bool
}

// ConditionalEncoder is an Encoder that can tell whether it handles a value.
// Override encoder chains pick the first one whose CanEncode reports true.
type ConditionalEncoder[T any] interface {
	Encoder[T]
	CanEncode(v T) bool
}

// Schema is a full round-trip unit for T.
//
// Schema values are compared by identity: two separately built schemas are never
// equal even when they describe the same shape. All implementations in this
// module are pointer types.
type Schema[T any] interface {
	Coercer[T]
	Encoder[T]
}

// ElementSchema is a Schema that also exposes its options to a traversal.
type ElementSchema[T any] interface {
	Schema[T]
	// ObtainOptions returns the instance options of model m for instance, which
	// sits at pathname inside root.
	ObtainOptions(m AnyModel, root any, pathname string, instance T) []OptionData
	// ObtainStaticOptions returns the shape-level options of model m. visited
	// holds the schemas already traversed and is updated in place.
	ObtainStaticOptions(m AnyModel, pathname string, visited *Visited) []OptionData
}

// Branch is one arm of a deterministic decode. It commits by returning ok=true.
type Branch[T any] func(v value.Value) (T, bool)

// DecoderFunc adapts a function into a Decoder.
type DecoderFunc[T any] func(v value.Value) (T, error)

func (f DecoderFunc[T]) Decode(v value.Value) (T, error) { return f(v) }

// EncoderFunc adapts a function into an Encoder.
type EncoderFunc[T any] func(v T) (value.Value, error)

func (f EncoderFunc[T]) Encode(v T) (value.Value, error) { return f(v) }
