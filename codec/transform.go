package codec

import (
	bsonskema "github.com/reoring/bsonskema"
	"github.com/reoring/bsonskema/value"
)

// TransformSchema adapts a wire schema In for A into a Schema[B] through a pair
// of conversions.
// Decode: In.CanDecode -> In.Decode -> decode(A).
// Encode: encode(B) -> In.Encode.
// Options: static options delegate to In; instance options are evaluated on the
// encoded A.
type TransformSchema[A, B any] struct {
	in     bsonskema.Schema[A]
	decode func(A) (B, error)
	encode func(B) (A, error)
}

// Transform builds a TransformSchema. Conversion errors that are not Issues
// surface as decode_failed / encode_failed with the error as cause.
func Transform[A, B any](in bsonskema.Schema[A], decode func(A) (B, error), encode func(B) (A, error)) *TransformSchema[A, B] {
	return &TransformSchema[A, B]{in: in, decode: decode, encode: encode}
}

// Identity returns a transform whose conversions are the identity.
func Identity[T any](s bsonskema.Schema[T]) *TransformSchema[T, T] {
	id := func(v T) (T, error) { return v, nil }
	return Transform(s, id, id)
}

var _ bsonskema.ElementSchema[string] = (*TransformSchema[string, string])(nil)

// In returns the wire schema.
func (s *TransformSchema[A, B]) In() bsonskema.Schema[A] { return s.in }

func (s *TransformSchema[A, B]) CanDecode(v value.Value) bool { return s.in.CanDecode(v) }

func (s *TransformSchema[A, B]) Decode(v value.Value) (B, error) {
	var zero B
	a, err := s.in.Decode(v)
	if err != nil {
		return zero, err
	}
	b, err := s.decode(a)
	if err != nil {
		return zero, asIssues(err, bsonskema.CodeDecodeFailed)
	}
	return b, nil
}

func (s *TransformSchema[A, B]) Encode(v B) (value.Value, error) {
	a, err := s.encode(v)
	if err != nil {
		return nil, asIssues(err, bsonskema.CodeEncodeFailed)
	}
	return s.in.Encode(a)
}

func (s *TransformSchema[A, B]) ObtainOptions(m bsonskema.AnyModel, root any, pathname string, instance B) []bsonskema.OptionData {
	es, ok := s.in.(bsonskema.ElementSchema[A])
	if !ok {
		return nil
	}
	a, err := s.encode(instance)
	if err != nil {
		return nil
	}
	return es.ObtainOptions(m, root, pathname, a)
}

func (s *TransformSchema[A, B]) ObtainStaticOptions(m bsonskema.AnyModel, pathname string, visited *bsonskema.Visited) []bsonskema.OptionData {
	if es, ok := s.in.(bsonskema.ElementSchema[A]); ok {
		return es.ObtainStaticOptions(m, pathname, visited)
	}
	return nil
}

func asIssues(err error, code string) error {
	if _, ok := bsonskema.AsIssues(err); ok {
		return err
	}
	return bsonskema.NewIssue(code, err.Error(), err)
}
